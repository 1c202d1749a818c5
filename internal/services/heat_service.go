package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openrotor/basestation/internal/data/repos"
	types "github.com/openrotor/basestation/internal/domain"
	domainagg "github.com/openrotor/basestation/internal/domain/aggregates"
	"github.com/openrotor/basestation/internal/observability"
	"github.com/openrotor/basestation/internal/platform/dbctx"
	"github.com/openrotor/basestation/internal/platform/logger"
)

// HeatView is the JSON projection of a race heat. EventTemplate is
// derived from the race's owning event.
type HeatView struct {
	ID            uuid.UUID  `json:"id"`
	RaceID        uuid.UUID  `json:"race_id"`
	GroupID       *uuid.UUID `json:"group_id,omitempty"`
	Number        int        `json:"number"`
	State         int        `json:"state"`
	StateLabel    string     `json:"state_label"`
	Started       bool       `json:"started"`
	Ended         bool       `json:"ended"`
	Channel       string     `json:"channel"`
	EventTemplate string     `json:"event_template"`
	GoalStartTime time.Time  `json:"goal_start_time"`
	GoalEndTime   time.Time  `json:"goal_end_time"`
	StartedTime   *time.Time `json:"started_time"`
	EndedTime     *time.Time `json:"ended_time"`
	CreatedAt     time.Time  `json:"created_at"`
}

// HeatEventView is the JSON projection of a heat log entry. The short
// trigger label is the machine-facing one; the verbose label is for
// display.
type HeatEventView struct {
	ID                  uuid.UUID  `json:"id"`
	HeatID              uuid.UUID  `json:"heat_id"`
	TrackerID           *uuid.UUID `json:"tracker_id"`
	Trigger             int        `json:"trigger"`
	TriggerLabel        string     `json:"trigger_label"`
	TriggerVerboseLabel string     `json:"trigger_verbose_label"`
	CreatedAt           time.Time  `json:"created_at"`
}

type CreateHeatParams struct {
	GroupID       *uuid.UUID
	GoalStartTime time.Time
	GoalEndTime   time.Time
}

type AppendHeatEventParams struct {
	Trigger   types.Trigger
	TrackerID *uuid.UUID
}

// ListHeatEventsFilter narrows the event log listing. NonTrackerOnly
// and TrackerID are mutually exclusive.
type ListHeatEventsFilter struct {
	TrackerID      *uuid.UUID
	NonTrackerOnly bool
}

type HeatService interface {
	CreateHeat(ctx context.Context, raceID uuid.UUID, params CreateHeatParams) (*HeatView, error)
	StartHeat(ctx context.Context, heatID uuid.UUID) (*HeatView, error)
	EndHeat(ctx context.Context, heatID uuid.UUID) (*HeatView, error)
	RestartHeat(ctx context.Context, heatID uuid.UUID) (*HeatView, error)

	GetHeat(ctx context.Context, heatID uuid.UUID) (*HeatView, error)
	AppendEvent(ctx context.Context, heatID uuid.UUID, params AppendHeatEventParams) (*HeatEventView, error)
	ListEvents(ctx context.Context, heatID uuid.UUID, filter ListHeatEventsFilter) ([]*HeatEventView, error)
}

type heatService struct {
	db         *gorm.DB
	log        *logger.Logger
	agg        domainagg.HeatAggregate
	races      repos.RaceRepo
	raceEvents repos.EventRepo
	heats      repos.RaceHeatRepo
	events     repos.HeatEventRepo
	notifier   HeatNotifier
}

func NewHeatService(
	db *gorm.DB,
	baseLog *logger.Logger,
	agg domainagg.HeatAggregate,
	races repos.RaceRepo,
	raceEvents repos.EventRepo,
	heats repos.RaceHeatRepo,
	events repos.HeatEventRepo,
	notifier HeatNotifier,
) HeatService {
	return &heatService{
		db:         db,
		log:        baseLog.With("service", "HeatService"),
		agg:        agg,
		races:      races,
		raceEvents: raceEvents,
		heats:      heats,
		events:     events,
		notifier:   notifier,
	}
}

func (s *heatService) CreateHeat(ctx context.Context, raceID uuid.UUID, params CreateHeatParams) (*HeatView, error) {
	res, err := s.agg.CreateHeat(ctx, domainagg.CreateHeatInput{
		RaceID:        raceID,
		GroupID:       params.GroupID,
		GoalStartTime: params.GoalStartTime,
		GoalEndTime:   params.GoalEndTime,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("heat created", "heat_id", res.HeatID, "race_id", res.RaceID, "number", res.Number)
	if s.notifier != nil {
		s.notifier.HeatCreated(ctx, res)
	}
	return s.GetHeat(ctx, res.HeatID)
}

func (s *heatService) StartHeat(ctx context.Context, heatID uuid.UUID) (*HeatView, error) {
	return s.transition(ctx, heatID, types.HeatActionStart)
}

func (s *heatService) EndHeat(ctx context.Context, heatID uuid.UUID) (*HeatView, error) {
	return s.transition(ctx, heatID, types.HeatActionEnd)
}

func (s *heatService) RestartHeat(ctx context.Context, heatID uuid.UUID) (*HeatView, error) {
	return s.transition(ctx, heatID, types.HeatActionRestart)
}

func (s *heatService) transition(ctx context.Context, heatID uuid.UUID, action types.HeatAction) (*HeatView, error) {
	res, err := s.agg.Transition(ctx, domainagg.HeatTransitionInput{
		HeatID: heatID,
		Action: action,
	})
	if err != nil {
		observability.Current().IncHeatTransition(string(action), string(domainagg.CodeOf(err)))
		return nil, err
	}
	observability.Current().IncHeatTransition(string(action), "success")
	s.log.Info("heat transitioned",
		"heat_id", res.HeatID,
		"race_id", res.RaceID,
		"action", string(action),
		"state", res.State.Label(),
	)
	if s.notifier != nil {
		s.notifier.HeatTransitioned(ctx, action, res)
	}
	return s.GetHeat(ctx, res.HeatID)
}

func (s *heatService) GetHeat(ctx context.Context, heatID uuid.UUID) (*HeatView, error) {
	const op = "Races.HeatService.GetHeat"
	dbc := dbctx.Context{Ctx: ctx}

	heat, err := s.heats.GetByID(dbc, heatID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if heat == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("heat not found: %s", heatID), nil)
	}

	template := ""
	race, err := s.races.GetByID(dbc, heat.RaceID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if race != nil {
		template, err = eventTemplate(dbc, s.raceEvents, race.EventID)
		if err != nil {
			return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
		}
	}
	return heatView(heat, template), nil
}

func (s *heatService) AppendEvent(ctx context.Context, heatID uuid.UUID, params AppendHeatEventParams) (*HeatEventView, error) {
	res, err := s.agg.AppendEvent(ctx, domainagg.AppendHeatEventInput{
		HeatID:    heatID,
		Trigger:   params.Trigger,
		TrackerID: params.TrackerID,
	})
	if err != nil {
		return nil, err
	}
	observability.Current().IncHeatEvent(res.Trigger.SerializerLabel())
	if s.notifier != nil {
		s.notifier.HeatLogEntry(ctx, res)
	}
	return &HeatEventView{
		ID:                  res.EventID,
		HeatID:              res.HeatID,
		TrackerID:           res.TrackerID,
		Trigger:             int(res.Trigger),
		TriggerLabel:        res.Trigger.SerializerLabel(),
		TriggerVerboseLabel: res.Trigger.Label(),
		CreatedAt:           res.CreatedAt,
	}, nil
}

func (s *heatService) ListEvents(ctx context.Context, heatID uuid.UUID, filter ListHeatEventsFilter) ([]*HeatEventView, error) {
	const op = "Races.HeatService.ListEvents"
	dbc := dbctx.Context{Ctx: ctx}

	heat, err := s.heats.GetByID(dbc, heatID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if heat == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("heat not found: %s", heatID), nil)
	}

	var rows []*types.HeatEvent
	switch {
	case filter.NonTrackerOnly:
		rows, err = s.events.ListNonTracker(dbc, heatID)
	case filter.TrackerID != nil && *filter.TrackerID != uuid.Nil:
		rows, err = s.events.ListByHeatAndTracker(dbc, heatID, *filter.TrackerID)
	default:
		rows, err = s.events.ListByHeatID(dbc, heatID)
	}
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}

	out := make([]*HeatEventView, 0, len(rows))
	for _, row := range rows {
		out = append(out, &HeatEventView{
			ID:                  row.ID,
			HeatID:              row.HeatID,
			TrackerID:           row.TrackerID,
			Trigger:             int(row.Trigger),
			TriggerLabel:        row.Trigger.SerializerLabel(),
			TriggerVerboseLabel: row.Trigger.Label(),
			CreatedAt:           row.CreatedAt,
		})
	}
	return out, nil
}

func heatView(h *types.RaceHeat, eventTemplate string) *HeatView {
	return &HeatView{
		ID:            h.ID,
		RaceID:        h.RaceID,
		GroupID:       h.GroupID,
		Number:        h.Number,
		State:         int(h.State),
		StateLabel:    h.State.Label(),
		Started:       h.Started(),
		Ended:         h.Ended(),
		Channel:       h.ChannelName(),
		EventTemplate: eventTemplate,
		GoalStartTime: h.GoalStartTime,
		GoalEndTime:   h.GoalEndTime,
		StartedTime:   h.StartedTime,
		EndedTime:     h.EndedTime,
		CreatedAt:     h.CreatedAt,
	}
}

func eventTemplate(dbc dbctx.Context, events repos.EventRepo, eventID uuid.UUID) (string, error) {
	if events == nil || eventID == uuid.Nil {
		return "", nil
	}
	ev, err := events.GetByID(dbc, eventID)
	if err != nil {
		return "", err
	}
	if ev == nil {
		return "", nil
	}
	return ev.Template, nil
}
