// internal/websocket/errors.go
package websocket

import "errors"

var (
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrSessionRevoked   = errors.New("session has been revoked")
	ErrUnsupportedEvent = errors.New("unsupported event type")
)
