package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"masterhub_backend/internal/notifications"
	"masterhub_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHubServer(t *testing.T) (*WebSocketManager, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := NewWebSocketManager()
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Run(ctx)
	t.Cleanup(cancel)

	router := gin.New()
	// профиль берем из query вместо Authenticate/RequireProfile
	router.GET("/ws", func(c *gin.Context) {
		if id := c.Query("as"); id != "" {
			c.Set(contextkeys.UserIDKey, id)
		}
		c.Next()
	}, NewWebSocketHandler(manager, nil).ServeWS)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return manager, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) notifications.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event notifications.Event
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestWebSocketManager_PushToAllConnectionsOfUser(t *testing.T) {
	manager, url := newHubServer(t)

	first := dial(t, url+"?as=u1")
	second := dial(t, url+"?as=u1")
	other := dial(t, url+"?as=u2")

	require.Eventually(t, func() bool {
		return manager.Connections("u1") == 2 && manager.Connections("u2") == 1
	}, 2*time.Second, 10*time.Millisecond)

	manager.PushToUser("u1", notifications.Event{Type: notifications.EventMessage, Data: map[string]string{"content": "hi"}})

	for _, conn := range []*websocket.Conn{first, second} {
		event := readEvent(t, conn)
		assert.Equal(t, notifications.EventMessage, event.Type)
		assert.Equal(t, "hi", event.Data.(map[string]any)["content"])
	}

	// u2 ничего не получил
	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err)
}

func TestWebSocketManager_UnregisterOnClose(t *testing.T) {
	manager, url := newHubServer(t)

	conn := dial(t, url+"?as=u1")
	require.Eventually(t, func() bool { return manager.Connections("u1") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	require.Eventually(t, func() bool { return manager.Connections("u1") == 0 }, 2*time.Second, 10*time.Millisecond)

	// пуш отключенному пользователю не блокирует и не паникует
	manager.PushToUser("u1", notifications.Event{Type: notifications.EventNotification})
}

func TestWebSocketHandler_RequiresProfile(t *testing.T) {
	_, url := newHubServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
