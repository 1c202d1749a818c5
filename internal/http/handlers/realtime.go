package handlers

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openrotor/basestation/internal/http/response"
	"github.com/openrotor/basestation/internal/platform/logger"
	"github.com/openrotor/basestation/internal/realtime"
)

type RealtimeHandler struct {
	Log *logger.Logger
	Hub *realtime.SSEHub

	mu      sync.RWMutex
	clients map[uuid.UUID]*realtime.SSEClient
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{
		Log:     log,
		Hub:     hub,
		clients: make(map[uuid.UUID]*realtime.SSEClient),
	}
}

// GET /api/sse/stream?channels=<ch1>,<ch2>
//
// The assigned client id is returned in the X-Client-Id header;
// subscribe/unsubscribe calls reference it. Initial channel
// subscriptions can be passed as a comma-separated query param.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	client := h.Hub.NewSSEClient()

	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	c.Writer.Header().Set("X-Client-Id", client.ID.String())

	for _, ch := range strings.Split(c.Query("channels"), ",") {
		ch = strings.TrimSpace(ch)
		if ch != "" {
			h.Hub.AddChannel(client, ch)
		}
	}

	h.Log.Info("SSEStream open", "client_id", client.ID.String())
	h.Hub.ServeHTTP(c.Writer, c.Request, client)

	h.mu.Lock()
	delete(h.clients, client.ID)
	h.mu.Unlock()
	h.Hub.CloseClient(client)
}

// POST /api/sse/subscribe
func (h *RealtimeHandler) SSESubscribe(c *gin.Context) {
	client, channel, ok := h.bindSubscription(c)
	if !ok {
		return
	}
	h.Hub.AddChannel(client, channel)
	response.RespondOK(c, gin.H{"message": "subscribed", "channel": channel})
}

// POST /api/sse/unsubscribe
func (h *RealtimeHandler) SSEUnsubscribe(c *gin.Context) {
	client, channel, ok := h.bindSubscription(c)
	if !ok {
		return
	}
	h.Hub.RemoveChannel(client, channel)
	response.RespondOK(c, gin.H{"message": "unsubscribed", "channel": channel})
}

func (h *RealtimeHandler) bindSubscription(c *gin.Context) (*realtime.SSEClient, string, bool) {
	var req struct {
		ClientID uuid.UUID `json:"client_id"`
		Channel  string    `json:"channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Channel) == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_channel", err)
		return nil, "", false
	}
	if req.ClientID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "missing_client_id", nil)
		return nil, "", false
	}

	h.mu.RLock()
	client, exists := h.clients[req.ClientID]
	h.mu.RUnlock()
	if !exists {
		response.RespondError(c, http.StatusConflict, "no_active_stream", nil)
		return nil, "", false
	}
	return client, strings.TrimSpace(req.Channel), true
}
