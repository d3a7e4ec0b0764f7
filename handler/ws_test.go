package handler

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellcontrol/service"
)

func newWSConn(t *testing.T) (*httptest.Server, *websocket.Conn) {
	t.Helper()
	h := NewHandler(service.NewService(nil, nil))
	r := gin.New()
	r.GET("/v1/ws/trip", h.TripStream)
	srv := httptest.NewServer(r)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/trip"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return srv, conn
}

func TestTripStreamRejectsBadStart(t *testing.T) {
	srv, conn := newWSConn(t)
	defer srv.Close()
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(&wsMsg{Type: "start", Content: "{不是JSON"}))

	var reply wsMsg
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "error", reply.Type)
	assert.Contains(t, reply.Content, "起始参数无效")
}

func TestTripStreamUnknownType(t *testing.T) {
	srv, conn := newWSConn(t)
	defer srv.Close()
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(&wsMsg{Type: "noise"}))

	var reply wsMsg
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "error", reply.Type)
	assert.Contains(t, reply.Content, "未知消息类型")
}

func TestTripStreamStop(t *testing.T) {
	srv, conn := newWSConn(t)
	defer srv.Close()
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(&wsMsg{Type: "stop"}))

	var reply wsMsg
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "stopped", reply.Type)
}
