package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/openrotor/basestation/internal/domain"
	"github.com/openrotor/basestation/internal/http/response"
	"github.com/openrotor/basestation/internal/services"
)

type HeatHandler struct {
	heats services.HeatService
}

func NewHeatHandler(heats services.HeatService) *HeatHandler {
	return &HeatHandler{heats: heats}
}

// POST /api/races/:id/heats
func (h *HeatHandler) CreateHeat(c *gin.Context) {
	raceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_race_id", err)
		return
	}
	var req struct {
		GroupID       *uuid.UUID `json:"group_id"`
		GoalStartTime time.Time  `json:"goal_start_time" binding:"required"`
		GoalEndTime   time.Time  `json:"goal_end_time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	heat, err := h.heats.CreateHeat(c.Request.Context(), raceID, services.CreateHeatParams{
		GroupID:       req.GroupID,
		GoalStartTime: req.GoalStartTime,
		GoalEndTime:   req.GoalEndTime,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"heat": heat})
}

// GET /api/heats/:id
func (h *HeatHandler) GetHeat(c *gin.Context) {
	heatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_heat_id", err)
		return
	}
	heat, err := h.heats.GetHeat(c.Request.Context(), heatID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"heat": heat})
}

// POST /api/heats/:id/start
func (h *HeatHandler) StartHeat(c *gin.Context) {
	h.transition(c, h.heats.StartHeat)
}

// POST /api/heats/:id/end
func (h *HeatHandler) EndHeat(c *gin.Context) {
	h.transition(c, h.heats.EndHeat)
}

// POST /api/heats/:id/restart
func (h *HeatHandler) RestartHeat(c *gin.Context) {
	h.transition(c, h.heats.RestartHeat)
}

func (h *HeatHandler) transition(c *gin.Context, apply func(ctx context.Context, id uuid.UUID) (*services.HeatView, error)) {
	heatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_heat_id", err)
		return
	}
	heat, err := apply(c.Request.Context(), heatID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"heat": heat})
}

// GET /api/heats/:id/events
//
// Optional query params: tracker_id=<uuid> to scope to one tracker,
// tracker=none for lifecycle entries only.
func (h *HeatHandler) ListEvents(c *gin.Context) {
	heatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_heat_id", err)
		return
	}
	var filter services.ListHeatEventsFilter
	if raw := strings.TrimSpace(c.Query("tracker_id")); raw != "" {
		trackerID, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_tracker_id", err)
			return
		}
		filter.TrackerID = &trackerID
	}
	if strings.EqualFold(strings.TrimSpace(c.Query("tracker")), "none") {
		filter.NonTrackerOnly = true
	}
	events, err := h.heats.ListEvents(c.Request.Context(), heatID, filter)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"events": events})
}

// POST /api/heats/:id/events
//
// The trigger may be given as its numeric code or its short label
// ("gate", "crash", ...).
func (h *HeatHandler) AppendEvent(c *gin.Context) {
	heatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_heat_id", err)
		return
	}
	var req struct {
		Trigger      *int       `json:"trigger"`
		TriggerLabel string     `json:"trigger_label"`
		TrackerID    *uuid.UUID `json:"tracker_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}

	var trigger types.Trigger
	switch {
	case req.Trigger != nil:
		trigger = types.Trigger(*req.Trigger)
	case strings.TrimSpace(req.TriggerLabel) != "":
		info, err := types.TriggerBySerializerLabel(strings.TrimSpace(req.TriggerLabel))
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "unknown_trigger", err)
			return
		}
		trigger = info.Code
	default:
		response.RespondError(c, http.StatusBadRequest, "missing_trigger", nil)
		return
	}

	event, err := h.heats.AppendEvent(c.Request.Context(), heatID, services.AppendHeatEventParams{
		Trigger:   trigger,
		TrackerID: req.TrackerID,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"event": event})
}
