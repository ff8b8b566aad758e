// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"worklink-service/internal/config"
	"worklink-service/internal/db"
	authHandler "worklink-service/internal/handlers/auth"
	clientHandler "worklink-service/internal/handlers/client"
	menuHandler "worklink-service/internal/handlers/menu"
	notifyHandler "worklink-service/internal/handlers/notification"
	subscriptionHandler "worklink-service/internal/handlers/subscription"
	wsHandler "worklink-service/internal/handlers/websocket"
	workRequestHandler "worklink-service/internal/handlers/workrequest"
	"worklink-service/internal/middleware"
	"worklink-service/internal/pkg/jwt"
	"worklink-service/internal/pkg/session"
	"worklink-service/internal/repository/postgres"
	authService "worklink-service/internal/service/auth"
	clientService "worklink-service/internal/service/client"
	menuService "worklink-service/internal/service/menu"
	notifyService "worklink-service/internal/service/notification"
	subscriptionService "worklink-service/internal/service/subscription"
	workRequestService "worklink-service/internal/service/workrequest"
	"worklink-service/internal/websocket"
	wsMessageHandler "worklink-service/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	http   *http.Server
	cancel context.CancelFunc
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	s.logger = logger

	// ----- PostgreSQL -----
	if err := db.Migrate(s.cfg.PostgresDSN); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	pool, err := db.Connect(ctx, s.cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}

	// ----- JWT / sessions -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("load jwt keys: %w", err)
	}
	sessionManager := session.NewManager(redisClient)
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	workRequestRepo := postgres.NewWorkRequestRepository(pool)
	workRequestStore := postgres.NewWorkRequestStore(dbWrapper, workRequestRepo, subscriptionRepo)
	notificationRepo := postgres.NewNotificationRepository(pool)
	menuRepo := postgres.NewMenuRepository(pool)

	// ----- WebSocket hub -----
	hub := websocket.NewHub(jwtManager.Verifier, sessionManager, logger)
	hub.RegisterHandler(wsMessageHandler.NewNotificationHandler(notificationRepo, logger))
	go hub.Run(ctx)

	// ----- Services -----
	authSvc := authService.NewAuthService(accountRepo, sessionManager, rateLimiter, jwtManager, s.cfg.JWT.TTL, logger)
	notifSvc := notifyService.NewNotificationService(notificationRepo, accountRepo, hub, logger)
	clientSvc := clientService.NewClientService(clientRepo, logger)
	subscriptionSvc := subscriptionService.NewSubscriptionService(planRepo, subscriptionRepo, clientRepo, logger)
	workRequestSvc := workRequestService.NewWorkRequestService(workRequestStore, workRequestRepo, subscriptionRepo, notifSvc, logger)
	menuSvc := menuService.NewMenuService(menuRepo, logger)

	// ----- Bootstrap admin -----
	if s.cfg.AdminEmail != "" && s.cfg.AdminPassword != "" {
		if err := authSvc.EnsureAdminExists(ctx, s.cfg.AdminEmail, s.cfg.AdminPassword, s.cfg.AdminName); err != nil {
			logger.Error("failed to bootstrap admin account", zap.Error(err))
		}
	}

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(jwtManager.Verifier, sessionManager)
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)
	if s.cfg.MetricsOn {
		s.engine.Use(middleware.MetricsMiddleware())
	}

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:         authHandler.NewAuthHandler(authSvc),
		ClientHandler:       clientHandler.NewClientHandler(clientSvc),
		SubscriptionHandler: subscriptionHandler.NewSubscriptionHandler(subscriptionSvc),
		WorkRequestHandler:  workRequestHandler.NewWorkRequestHandler(workRequestSvc),
		NotifHandler:        notifyHandler.NewNotificationHandler(notifSvc),
		MenuHandler:         menuHandler.NewMenuHandler(menuSvc),
		WSHandler:           wsHandler.NewWebSocketHandler(hub, logger),
		AuthMiddleware:      authMiddleware,
	}
	SetupRouter(s.engine, s.cfg.MetricsOn, handlers)

	s.http = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	logger.Info("server starting", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP listener and the websocket hub.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.logger != nil {
		defer s.logger.Sync()
	}
	if s.http == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
