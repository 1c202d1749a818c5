package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/openrotor/basestation/internal/domain/aggregates"
	"github.com/openrotor/basestation/internal/services"
)

type stubRaceService struct {
	race   *services.RaceView
	heats  []*services.HeatView
	counts *services.RaceHeatCounts
	err    error
}

func (s *stubRaceService) GetRace(_ context.Context, _ uuid.UUID) (*services.RaceView, error) {
	return s.race, s.err
}

func (s *stubRaceService) ListHeats(_ context.Context, _ uuid.UUID) ([]*services.HeatView, error) {
	return s.heats, s.err
}

func (s *stubRaceService) HeatCounts(_ context.Context, _ uuid.UUID) (*services.RaceHeatCounts, error) {
	return s.counts, s.err
}

func newRaceTestRouter(svc services.RaceService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRaceHandler(svc)
	r := gin.New()
	r.GET("/api/races/:id", h.GetRace)
	r.GET("/api/races/:id/heats", h.ListHeats)
	r.GET("/api/races/:id/heat-counts", h.HeatCounts)
	return r
}

func TestRaceHandlerGetRace(t *testing.T) {
	raceID := uuid.New()
	svc := &stubRaceService{race: &services.RaceView{ID: raceID, Name: "mains"}}
	r := newRaceTestRouter(svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/races/"+raceID.String(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	var resp struct {
		Race *services.RaceView `json:"race"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Race == nil || resp.Race.Name != "mains" {
		t.Fatalf("unexpected race: %+v", resp.Race)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/races/not-a-uuid", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status: want=400 got=%d", rec.Code)
	}
}

func TestRaceHandlerNotFoundMapsTo404(t *testing.T) {
	svc := &stubRaceService{err: domainagg.NewError(domainagg.CodeNotFound, "op", "race not found", nil)}
	r := newRaceTestRouter(svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/races/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: want=404 got=%d", rec.Code)
	}
}

func TestRaceHandlerHeatCounts(t *testing.T) {
	raceID := uuid.New()
	svc := &stubRaceService{counts: &services.RaceHeatCounts{RaceID: raceID, Total: 4, Unconcluded: 1}}
	r := newRaceTestRouter(svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/races/"+raceID.String()+"/heat-counts", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	var counts services.RaceHeatCounts
	if err := json.Unmarshal(rec.Body.Bytes(), &counts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if counts.Total != 4 || counts.Unconcluded != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
