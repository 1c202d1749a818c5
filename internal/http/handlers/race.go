package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openrotor/basestation/internal/http/response"
	"github.com/openrotor/basestation/internal/services"
)

type RaceHandler struct {
	races services.RaceService
}

func NewRaceHandler(races services.RaceService) *RaceHandler {
	return &RaceHandler{races: races}
}

// GET /api/races/:id
func (h *RaceHandler) GetRace(c *gin.Context) {
	raceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_race_id", err)
		return
	}
	race, err := h.races.GetRace(c.Request.Context(), raceID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"race": race})
}

// GET /api/races/:id/heats
func (h *RaceHandler) ListHeats(c *gin.Context) {
	raceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_race_id", err)
		return
	}
	heats, err := h.races.ListHeats(c.Request.Context(), raceID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"heats": heats})
}

// GET /api/races/:id/heat-counts
func (h *RaceHandler) HeatCounts(c *gin.Context) {
	raceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_race_id", err)
		return
	}
	counts, err := h.races.HeatCounts(c.Request.Context(), raceID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, counts)
}
