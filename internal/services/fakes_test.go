package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	types "github.com/openrotor/basestation/internal/domain"
	domainagg "github.com/openrotor/basestation/internal/domain/aggregates"
	"github.com/openrotor/basestation/internal/platform/dbctx"
	"github.com/openrotor/basestation/internal/platform/logger"
	"github.com/openrotor/basestation/internal/realtime"
)

func testLogger() *logger.Logger {
	log, err := logger.New("test")
	if err != nil {
		panic(err)
	}
	return log
}

type fakeEventRepo struct {
	events map[uuid.UUID]*types.Event
}

func newFakeEventRepo(rows ...*types.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: map[uuid.UUID]*types.Event{}}
	for _, row := range rows {
		r.events[row.ID] = row
	}
	return r
}

func (r *fakeEventRepo) Create(_ dbctx.Context, rows []*types.Event) ([]*types.Event, error) {
	for _, row := range rows {
		r.events[row.ID] = row
	}
	return rows, nil
}

func (r *fakeEventRepo) GetByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.Event, error) {
	out := []*types.Event{}
	for _, id := range ids {
		if row, ok := r.events[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.Event, error) {
	return r.events[id], nil
}

func (r *fakeEventRepo) List(_ dbctx.Context) ([]*types.Event, error) {
	out := []*types.Event{}
	for _, row := range r.events {
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeEventRepo) UpdateFields(_ dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	return nil
}

type fakeRaceRepo struct {
	races map[uuid.UUID]*types.Race
}

func newFakeRaceRepo(rows ...*types.Race) *fakeRaceRepo {
	r := &fakeRaceRepo{races: map[uuid.UUID]*types.Race{}}
	for _, row := range rows {
		r.races[row.ID] = row
	}
	return r
}

func (r *fakeRaceRepo) Create(_ dbctx.Context, rows []*types.Race) ([]*types.Race, error) {
	for _, row := range rows {
		r.races[row.ID] = row
	}
	return rows, nil
}

func (r *fakeRaceRepo) GetByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.Race, error) {
	out := []*types.Race{}
	for _, id := range ids {
		if row, ok := r.races[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeRaceRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.Race, error) {
	return r.races[id], nil
}

func (r *fakeRaceRepo) LockByID(_ dbctx.Context, id uuid.UUID) (*types.Race, error) {
	return r.races[id], nil
}

func (r *fakeRaceRepo) UpdateFields(_ dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	return nil
}

type fakeGroupRepo struct {
	groups []*types.RaceGroup
}

func (r *fakeGroupRepo) Create(_ dbctx.Context, rows []*types.RaceGroup) ([]*types.RaceGroup, error) {
	r.groups = append(r.groups, rows...)
	return rows, nil
}

func (r *fakeGroupRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.RaceGroup, error) {
	for _, g := range r.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, nil
}

func (r *fakeGroupRepo) ListByRaceID(_ dbctx.Context, raceID uuid.UUID) ([]*types.RaceGroup, error) {
	out := []*types.RaceGroup{}
	for _, g := range r.groups {
		if g.RaceID == raceID {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeHeatRepo struct {
	heats map[uuid.UUID]*types.RaceHeat
}

func newFakeHeatRepo(rows ...*types.RaceHeat) *fakeHeatRepo {
	r := &fakeHeatRepo{heats: map[uuid.UUID]*types.RaceHeat{}}
	for _, row := range rows {
		r.heats[row.ID] = row
	}
	return r
}

func (r *fakeHeatRepo) Create(_ dbctx.Context, rows []*types.RaceHeat) ([]*types.RaceHeat, error) {
	for _, row := range rows {
		r.heats[row.ID] = row
	}
	return rows, nil
}

func (r *fakeHeatRepo) GetByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.RaceHeat, error) {
	out := []*types.RaceHeat{}
	for _, id := range ids {
		if row, ok := r.heats[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeHeatRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.RaceHeat, error) {
	return r.heats[id], nil
}

func (r *fakeHeatRepo) LockByID(_ dbctx.Context, id uuid.UUID) (*types.RaceHeat, error) {
	return r.heats[id], nil
}

func (r *fakeHeatRepo) ListByRaceID(_ dbctx.Context, raceID uuid.UUID) ([]*types.RaceHeat, error) {
	out := []*types.RaceHeat{}
	for _, row := range r.heats {
		if row.RaceID == raceID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeHeatRepo) GetMaxNumber(_ dbctx.Context, raceID uuid.UUID) (int, error) {
	max := 0
	for _, row := range r.heats {
		if row.RaceID == raceID && row.Number > max {
			max = row.Number
		}
	}
	return max, nil
}

func (r *fakeHeatRepo) ListActiveIDs(_ dbctx.Context, raceID uuid.UUID, excluding uuid.UUID) ([]uuid.UUID, error) {
	out := []uuid.UUID{}
	for _, row := range r.heats {
		if row.RaceID == raceID && row.ID != excluding && row.Active() {
			out = append(out, row.ID)
		}
	}
	return out, nil
}

func (r *fakeHeatRepo) CountByRace(_ dbctx.Context, raceID uuid.UUID) (int64, error) {
	var n int64
	for _, row := range r.heats {
		if row.RaceID == raceID {
			n++
		}
	}
	return n, nil
}

func (r *fakeHeatRepo) CountUnconcluded(_ dbctx.Context, raceID uuid.UUID) (int64, error) {
	var n int64
	for _, row := range r.heats {
		if row.RaceID == raceID && row.State != types.HeatStateEnded {
			n++
		}
	}
	return n, nil
}

func (r *fakeHeatRepo) UpdateFields(_ dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	return nil
}

type fakeHeatEventRepo struct {
	events []*types.HeatEvent
}

func (r *fakeHeatEventRepo) Create(_ dbctx.Context, rows []*types.HeatEvent) ([]*types.HeatEvent, error) {
	r.events = append(r.events, rows...)
	return rows, nil
}

func (r *fakeHeatEventRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.HeatEvent, error) {
	for _, row := range r.events {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeHeatEventRepo) ListByHeatID(_ dbctx.Context, heatID uuid.UUID) ([]*types.HeatEvent, error) {
	out := []*types.HeatEvent{}
	for _, row := range r.events {
		if row.HeatID == heatID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeHeatEventRepo) ListByHeatAndTracker(_ dbctx.Context, heatID, trackerID uuid.UUID) ([]*types.HeatEvent, error) {
	out := []*types.HeatEvent{}
	for _, row := range r.events {
		if row.HeatID == heatID && row.TrackerID != nil && *row.TrackerID == trackerID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeHeatEventRepo) ListNonTracker(_ dbctx.Context, heatID uuid.UUID) ([]*types.HeatEvent, error) {
	out := []*types.HeatEvent{}
	for _, row := range r.events {
		if row.HeatID == heatID && row.TrackerID == nil {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeHeatEventRepo) CountByHeat(_ dbctx.Context, heatID uuid.UUID) (int64, error) {
	var n int64
	for _, row := range r.events {
		if row.HeatID == heatID {
			n++
		}
	}
	return n, nil
}

// fakeHeatAggregate returns canned results so service behavior can be
// tested without a database.
type fakeHeatAggregate struct {
	createResult     domainagg.CreateHeatResult
	createErr        error
	transitionResult domainagg.HeatTransitionResult
	transitionErr    error
	appendResult     domainagg.AppendHeatEventResult
	appendErr        error

	transitionCalls []domainagg.HeatTransitionInput
}

func (a *fakeHeatAggregate) Contract() domainagg.Contract {
	return domainagg.HeatAggregateContract
}

func (a *fakeHeatAggregate) CreateHeat(_ context.Context, _ domainagg.CreateHeatInput) (domainagg.CreateHeatResult, error) {
	return a.createResult, a.createErr
}

func (a *fakeHeatAggregate) Transition(_ context.Context, in domainagg.HeatTransitionInput) (domainagg.HeatTransitionResult, error) {
	a.transitionCalls = append(a.transitionCalls, in)
	return a.transitionResult, a.transitionErr
}

func (a *fakeHeatAggregate) AppendEvent(_ context.Context, _ domainagg.AppendHeatEventInput) (domainagg.AppendHeatEventResult, error) {
	return a.appendResult, a.appendErr
}

// notifierRecorder captures notifications a service hands off.
type notifierRecorder struct {
	mu          sync.Mutex
	created     []domainagg.CreateHeatResult
	transitions []types.HeatAction
	logEntries  []domainagg.AppendHeatEventResult
}

func (n *notifierRecorder) HeatCreated(_ context.Context, res domainagg.CreateHeatResult) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, res)
}

func (n *notifierRecorder) HeatTransitioned(_ context.Context, action types.HeatAction, _ domainagg.HeatTransitionResult) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.transitions = append(n.transitions, action)
}

func (n *notifierRecorder) HeatLogEntry(_ context.Context, res domainagg.AppendHeatEventResult) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.logEntries = append(n.logEntries, res)
}

// emitterRecorder captures SSE messages for notifier tests.
type emitterRecorder struct {
	mu       sync.Mutex
	messages []realtime.SSEMessage
}

func (e *emitterRecorder) Emit(_ context.Context, msg realtime.SSEMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.messages = append(e.messages, msg)
}
