package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/lotto/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/lotto/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/lotto/internal/config"
)

const (
	liveFrameState = "state"
	liveFrameError = "error"

	liveSendBuffer = 16
)

type LiveHandler struct {
	svc      PlayService
	upgrader websocket.Upgrader
}

func NewLiveHandler(conf *config.APIConfig, svc PlayService) *LiveHandler {
	allowed := conf.AllowedCORSDomains

	return &LiveHandler{
		svc: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowed, origin)
			},
		},
	}
}

type liveClient struct {
	conn   *websocket.Conn
	send   chan []byte
	playID string
}

// HandleLiveWinningNumbers godoc
// @Summary      Live winning number validation
// @Description  Upgrades to a websocket. Every frame {"index": 0, "value": "7"} is one keystroke and is answered with the new check state.
// @Tags         winning-numbers
// @Param        token  query  string  false  "play token, for clients that cannot set headers"
// @Success      101    {string}  string  "Switching Protocols to WebSocket"
// @Failure      401    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Router       /plays/current/winning-numbers/live [get]
// @Security     BearerAuth
func (h *LiveHandler) HandleLiveWinningNumbers(ctx *gin.Context) {
	playID := getPlayIDFromContext(ctx)

	play, err := h.svc.GetPlay(ctx.Request.Context(), playID)
	if err != nil {
		renderServiceErr(ctx, playID, fmt.Errorf("v1.HandleLiveWinningNumbers -> h.svc.GetPlay -> %w", err))
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// The upgrader has already replied to the client.
		zap.L().Warn("websocket upgrade failed", zap.String("play_id", playID), zap.Error(err))
		return
	}

	client := &liveClient{
		conn:   conn,
		send:   make(chan []byte, liveSendBuffer),
		playID: playID,
	}

	go client.writePump()
	client.readPump(h, play.Rules.InputCount())
}

func (c *liveClient) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump handles frames one at a time, so each keystroke is validated
// after the previous one has been committed.
func (c *liveClient) readPump(h *LiveHandler, inputCount int) {
	defer close(c.send)

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("live connection closed", zap.String("play_id", c.playID), zap.Error(err))
			}
			return
		}

		c.reply(h.handleFrame(c.playID, message, inputCount))
	}
}

func (h *LiveHandler) handleFrame(playID string, message []byte, inputCount int) response.LiveFrame {
	var frame request.WinningNumberInputFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		return response.LiveFrame{Type: liveFrameError, Error: "malformed frame"}
	}

	if err := frame.Validate(inputCount); err != nil {
		return response.LiveFrame{Type: liveFrameError, Error: err.Error()}
	}

	state, _, err := h.svc.ChangeWinningNumber(context.Background(), playID, frame.Index, frame.Value)
	if err != nil {
		zap.L().Error("live change failed", zap.String("play_id", playID), zap.Error(err))
		return response.LiveFrame{Type: liveFrameError, Error: "could not apply change"}
	}

	return response.LiveFrame{
		Type: liveFrameState,
		State: &response.CheckStateResponse{
			Index:          frame.Index,
			State:          state,
			SubmitDisabled: !state.IsCompletedInput,
		},
	}
}

func (c *liveClient) reply(frame response.LiveFrame) {
	message, err := json.Marshal(frame)
	if err != nil {
		zap.L().Error("json.Marshal live frame", zap.Error(err))
		return
	}

	select {
	case c.send <- message:
	default:
		zap.L().Warn("live client is not reading, frame dropped", zap.String("play_id", c.playID))
	}
}
