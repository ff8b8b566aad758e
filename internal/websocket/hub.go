// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	wstypes "worklink-service/internal/domain/websocket"
	"worklink-service/internal/domain/notification"
	"worklink-service/internal/pkg/jwt"
	"worklink-service/internal/pkg/session"

	"go.uber.org/zap"
)

// AuthInfo is the identity attached to an authenticated connection.
type AuthInfo struct {
	AccountID int64
	Role      string
	Email     string
	JTI       string
}

// Hub tracks live connections keyed by account id. An account may hold
// several connections (multiple tabs); pushes go to all of them.
type Hub struct {
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	Register   chan *Client
	unregister chan *Client

	registry *HandlerRegistry

	verifier *jwt.Verifier
	sessions *session.Manager
	logger   *zap.Logger
}

func NewHub(verifier *jwt.Verifier, sessions *session.Manager, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		Register:   make(chan *Client),
		unregister: make(chan *Client),
		registry:   NewHandlerRegistry(),
		verifier:   verifier,
		sessions:   sessions,
		logger:     logger,
	}
}

// RegisterHandler attaches a message handler for its supported events.
func (h *Hub) RegisterHandler(handler MessageHandler) {
	h.registry.Register(handler)
}

// AuthenticateClient validates a token before the HTTP upgrade happens.
func (h *Hub) AuthenticateClient(ctx context.Context, token string) (*AuthInfo, error) {
	claims, err := h.verifier.VerifyAccessToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	jti := claims.ID
	blacklisted, err := h.sessions.IsTokenBlacklisted(ctx, jti)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, ErrSessionRevoked
	}

	sess, err := h.sessions.GetSession(ctx, claims.AccountID, jti)
	if err != nil {
		return nil, ErrSessionRevoked
	}

	return &AuthInfo{
		AccountID: claims.AccountID,
		Role:      claims.Role,
		Email:     sess.Email,
		JTI:       jti,
	}, nil
}

// Run processes register/unregister events until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.mu.Lock()
			if h.clients[client.accountID] == nil {
				h.clients[client.accountID] = make(map[*Client]bool)
			}
			h.clients[client.accountID][client] = true
			h.mu.Unlock()

			client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, wstypes.ConnectedData{
				AccountID:   client.accountID,
				Role:        client.role,
				ConnectedAt: client.connectedAt,
			}))

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.accountID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					client.Close()
					if len(conns) == 0 {
						delete(h.clients, client.accountID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastNotification pushes a freshly persisted notification to every
// live connection the recipient holds. No-op when they are offline.
func (h *Hub) BroadcastNotification(accountID int64, n *notification.Notification) {
	h.sendToAccount(accountID, wstypes.NewMessage(wstypes.EventTypeNotification, n))
}

// BroadcastNotificationCount pushes the recipient's unread total.
func (h *Hub) BroadcastNotificationCount(accountID int64, unread int64) {
	h.sendToAccount(accountID, wstypes.NewMessage(wstypes.EventTypeNotificationCount, wstypes.NotificationCountData{
		UnreadCount: unread,
	}))
}

func (h *Hub) sendToAccount(accountID int64, msg *wstypes.WSMessage) {
	h.mu.RLock()
	conns := make([]*Client, 0, len(h.clients[accountID]))
	for client := range h.clients[accountID] {
		conns = append(conns, client)
	}
	h.mu.RUnlock()

	for _, client := range conns {
		client.SendMessage(msg)
	}
}

// HandleClientMessage routes an incoming frame to a registered handler.
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error {
	handler, ok := h.registry.Lookup(msg.Type)
	if !ok {
		return nil
	}
	return handler.HandleMessage(ctx, client, msg)
}

// TotalClients reports the number of live connections.
func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for accountID, conns := range h.clients {
		for client := range conns {
			client.Close()
		}
		delete(h.clients, accountID)
	}
	h.logger.Info("websocket hub stopped")
}
