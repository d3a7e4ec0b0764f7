package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"wellcontrol/pkg/logger"
	"wellcontrol/service"
)

// wsMsg 前后端通信消息信封，content 为业务负载的 JSON 串
type wsMsg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// wsTripStart start 消息负载：井号 + 模拟参数
type wsTripStart struct {
	WellID int64                         `json:"wellId"`
	Params service.TripSimulationRequest `json:"params"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 跨域由 cors 中间件统一控制
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TripStream 起下钻模拟逐步推送。
// 客户端发 {"type":"start","content":"<wsTripStart>"}，服务端依次回
// started、逐样本 step、末尾 summary；出错回 error；stop 关闭连接。
func (h *Handler) TripStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Logger.Errorf("websocket 升级失败: %v", err)
		return
	}
	defer conn.Close()

	for {
		var msg wsMsg
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Logger.Warnf("websocket 读取失败: %v", err)
			}
			return
		}

		switch msg.Type {
		case "start":
			h.streamTrip(conn, msg.Content)
		case "stop":
			writeMsg(conn, "stopped", "stopped")
			return
		default:
			writeMsg(conn, "error", "未知消息类型: "+msg.Type)
		}
	}
}

func (h *Handler) streamTrip(conn *websocket.Conn, content string) {
	var start wsTripStart
	if err := json.Unmarshal([]byte(content), &start); err != nil {
		writeMsg(conn, "error", "起始参数无效: "+err.Error())
		return
	}

	result, err := h.svc.RunTripSimulation(start.WellID, start.Params)
	if err != nil {
		writeMsg(conn, "error", err.Error())
		return
	}

	writeMsg(conn, "started", result.Direction)
	for i := range result.Steps {
		data, err := json.Marshal(&result.Steps[i])
		if err != nil {
			writeMsg(conn, "error", err.Error())
			return
		}
		if err := conn.WriteJSON(&wsMsg{Type: "step", Content: string(data)}); err != nil {
			logger.Logger.Warnf("websocket 推送失败: %v", err)
			return
		}
	}

	data, err := json.Marshal(result.Summary)
	if err != nil {
		writeMsg(conn, "error", err.Error())
		return
	}
	writeMsg(conn, "summary", string(data))
}

func writeMsg(conn *websocket.Conn, typ, content string) {
	if err := conn.WriteJSON(&wsMsg{Type: typ, Content: content}); err != nil {
		logger.Logger.Warnf("websocket 回复失败: %v", err)
	}
}
