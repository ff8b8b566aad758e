// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	EventTypePing  EventType = "ping"
	EventTypePong  EventType = "pong"
	EventTypeError EventType = "error"

	EventTypeConnected EventType = "connected"

	EventTypeNotification        EventType = "notification"
	EventTypeNotificationCount   EventType = "notification:count"
	EventTypeNotificationRead    EventType = "notification:read"
	EventTypeNotificationReadAll EventType = "notification:read_all"
)

// WSMessage is the envelope for every frame in both directions.
type WSMessage struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type ConnectedData struct {
	AccountID   int64     `json:"account_id"`
	Role        string    `json:"role"`
	ConnectedAt time.Time `json:"connected_at"`
}

// NotificationCountData carries the recipient's unread total after any
// change to their notification set.
type NotificationCountData struct {
	UnreadCount int64 `json:"unread_count"`
}
