// internal/app/router.go
package app

import (
	authHandler "worklink-service/internal/handlers/auth"
	clientHandler "worklink-service/internal/handlers/client"
	menuHandler "worklink-service/internal/handlers/menu"
	notifyHandler "worklink-service/internal/handlers/notification"
	subscriptionHandler "worklink-service/internal/handlers/subscription"
	wsHandler "worklink-service/internal/handlers/websocket"
	workRequestHandler "worklink-service/internal/handlers/workrequest"
	"worklink-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	AuthHandler         *authHandler.AuthHandler
	ClientHandler       *clientHandler.ClientHandler
	SubscriptionHandler *subscriptionHandler.SubscriptionHandler
	WorkRequestHandler  *workRequestHandler.WorkRequestHandler
	NotifHandler        *notifyHandler.NotificationHandler
	MenuHandler         *menuHandler.MenuHandler
	WSHandler           *wsHandler.WebSocketHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, metricsOn bool, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health / Metrics ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})
	if metricsOn {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Auth ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.GET("/me", h.AuthHandler.Me)
		authProtected.PUT("/change-password", h.AuthHandler.ChangePassword)
	}

	// ==================== Accounts (admin) ====================
	accounts := api.Group("/accounts")
	accounts.Use(h.AuthMiddleware.Auth(), h.AuthMiddleware.RequireAdmin())
	{
		accounts.POST("", h.AuthHandler.CreateAccount)
	}

	// ==================== Clients ====================
	clients := api.Group("/clients")
	clients.Use(h.AuthMiddleware.Auth())
	{
		clients.GET("/:id", h.ClientHandler.Get)

		staff := clients.Group("")
		staff.Use(h.AuthMiddleware.RequireEmployee())
		{
			staff.GET("", h.ClientHandler.List)
			staff.POST("", h.ClientHandler.Create)
			staff.PUT("/:id", h.ClientHandler.Update)
		}
	}

	// ==================== Plans ====================
	plans := api.Group("/plans")
	plans.Use(h.AuthMiddleware.Auth())
	{
		plans.GET("", h.SubscriptionHandler.ListPlans)
		plans.GET("/:id", h.SubscriptionHandler.GetPlan)
		plans.POST("", h.AuthMiddleware.RequireAdmin(), h.SubscriptionHandler.CreatePlan)
	}

	// ==================== Managed Subscriptions ====================
	subscriptions := api.Group("/subscriptions")
	subscriptions.Use(h.AuthMiddleware.Auth())
	{
		subscriptions.GET("", h.SubscriptionHandler.List)
		subscriptions.GET("/:id", h.SubscriptionHandler.Get)

		staff := subscriptions.Group("")
		staff.Use(h.AuthMiddleware.RequireEmployee())
		{
			staff.POST("", h.SubscriptionHandler.Create)
			staff.PUT("/:id/status", h.SubscriptionHandler.UpdateStatus)
		}
	}

	// ==================== Work Requests ====================
	workRequests := api.Group("/work-requests")
	workRequests.Use(h.AuthMiddleware.Auth())
	{
		workRequests.GET("", h.WorkRequestHandler.List)
		workRequests.GET("/:id", h.WorkRequestHandler.Get)

		staff := workRequests.Group("")
		staff.Use(h.AuthMiddleware.RequireEmployee())
		{
			staff.POST("", h.WorkRequestHandler.Submit)
			staff.PUT("/:id/status", h.WorkRequestHandler.ChangeStatus)
			staff.DELETE("/:id", h.WorkRequestHandler.Delete)
		}

		clientSide := workRequests.Group("")
		clientSide.Use(h.AuthMiddleware.RequireClient())
		{
			clientSide.PUT("/:id/approve", h.WorkRequestHandler.Approve)
			clientSide.PUT("/:id/reject", h.WorkRequestHandler.Reject)
		}
	}

	// ==================== Notifications ====================
	notifications := api.Group("/notifications")
	notifications.Use(h.AuthMiddleware.Auth())
	{
		notifications.GET("", h.NotifHandler.List)
		notifications.GET("/count/unread", h.NotifHandler.UnreadCount)
		notifications.PUT("/:id/read", h.NotifHandler.MarkAsRead)
		notifications.PUT("/read-all", h.NotifHandler.MarkAllAsRead)
		notifications.DELETE("/:id", h.NotifHandler.Delete)
	}

	// ==================== Menus ====================
	menus := api.Group("/menus")
	menus.Use(h.AuthMiddleware.Auth())
	{
		menus.GET("/my", h.MenuHandler.MyMenus)

		admin := menus.Group("")
		admin.Use(h.AuthMiddleware.RequireAdmin())
		{
			admin.GET("", h.MenuHandler.ListAll)
			admin.PUT("", h.MenuHandler.Upsert)
		}
	}

	// ==================== Admin / Ops ====================
	admin := api.Group("/admin")
	admin.Use(h.AuthMiddleware.Auth(), h.AuthMiddleware.RequireAdmin())
	{
		admin.GET("/ws/stats", h.WSHandler.GetStats)
	}
}
