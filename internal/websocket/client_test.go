package websocket

import (
	"sync"
	"testing"

	wstypes "worklink-service/internal/domain/websocket"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testClient() *Client {
	hub := NewHub(nil, nil, zap.NewNop())
	auth := &AuthInfo{AccountID: 1, Role: "client", JTI: "jti-1"}
	return NewClient(hub, nil, auth, zap.NewNop())
}

func TestClientCloseIsIdempotent(t *testing.T) {
	c := testClient()
	c.Close()
	assert.NotPanics(t, func() { c.Close() })
}

func TestSendMessageAfterClose(t *testing.T) {
	c := testClient()
	c.Close()

	assert.NotPanics(t, func() {
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypePong, nil))
	})
	assert.Empty(t, c.send)
}

func TestSendMessageConcurrentWithClose(t *testing.T) {
	c := testClient()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.SendMessage(wstypes.NewMessage(wstypes.EventTypePong, nil))
			}
		}()
	}

	c.Close()
	wg.Wait()
}
