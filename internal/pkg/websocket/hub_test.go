package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/labmatch/internal/app/models"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)
	return hub
}

func TestDeliver_NoClientsIsNotAnError(t *testing.T) {
	hub := startHub(t)

	err := hub.Deliver(context.Background(), &models.Notification{RecipientUserID: "u1", Message: "hi"})
	assert.NoError(t, err)
	assert.Equal(t, SinkName, hub.Name())
}

func TestDeliver_DropsSlowClient(t *testing.T) {
	hub := startHub(t)

	client := &Client{hub: hub, send: make(chan []byte, 1), userID: "u1", logger: zerolog.Nop()}
	require.True(t, hub.Register(client))
	require.Eventually(t, func() bool { return hub.ClientCount("u1") == 1 }, time.Second, 10*time.Millisecond)

	n := &models.Notification{RecipientUserID: "u1", Message: "first"}
	require.NoError(t, hub.Deliver(context.Background(), n))

	err := hub.Deliver(context.Background(), n)
	assert.Error(t, err)
	assert.Equal(t, 0, hub.ClientCount("u1"))
}

func TestHandleConnection_PushesToRecipient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := startHub(t)
	handler := NewHandler(hub, zerolog.Nop())

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set("userID", "u1")
		handler.HandleConnection(c)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return hub.ClientCount("u1") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Deliver(context.Background(), &models.Notification{
		ID: "n1", RecipientUserID: "u1", Message: "accepted", Type: models.NotificationStatusUpdate,
	}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "notification", msg.Type)
	assert.Equal(t, "n1", msg.Notification.ID)
	assert.Equal(t, models.NotificationStatusUpdate, msg.Notification.Type)
}

func TestHandleConnection_RequiresUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(startHub(t), zerolog.Nop())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ws", nil)

	handler.HandleConnection(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
