package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openrotor/basestation/internal/data/repos"
	domainagg "github.com/openrotor/basestation/internal/domain/aggregates"
	"github.com/openrotor/basestation/internal/platform/dbctx"
	"github.com/openrotor/basestation/internal/platform/logger"
)

type RaceGroupView struct {
	ID        uuid.UUID `json:"id"`
	RaceID    uuid.UUID `json:"race_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type RaceView struct {
	ID            uuid.UUID        `json:"id"`
	EventID       uuid.UUID        `json:"event_id"`
	Name          string           `json:"name"`
	CurrentHeatID *uuid.UUID       `json:"current_heat_id"`
	CurrentHeat   *HeatView        `json:"current_heat,omitempty"`
	Groups        []*RaceGroupView `json:"groups"`
	CreatedAt     time.Time        `json:"created_at"`
}

// RaceHeatCounts reports both readings of "how many heats": every heat
// ever created for the race, and only those not yet ended.
type RaceHeatCounts struct {
	RaceID      uuid.UUID `json:"race_id"`
	Total       int64     `json:"num_heats_total"`
	Unconcluded int64     `json:"num_heats_unconcluded"`
}

type RaceService interface {
	GetRace(ctx context.Context, raceID uuid.UUID) (*RaceView, error)
	ListHeats(ctx context.Context, raceID uuid.UUID) ([]*HeatView, error)
	HeatCounts(ctx context.Context, raceID uuid.UUID) (*RaceHeatCounts, error)
}

type raceService struct {
	db         *gorm.DB
	log        *logger.Logger
	races      repos.RaceRepo
	raceEvents repos.EventRepo
	groups     repos.RaceGroupRepo
	heats      repos.RaceHeatRepo
}

func NewRaceService(
	db *gorm.DB,
	baseLog *logger.Logger,
	races repos.RaceRepo,
	raceEvents repos.EventRepo,
	groups repos.RaceGroupRepo,
	heats repos.RaceHeatRepo,
) RaceService {
	return &raceService{
		db:         db,
		log:        baseLog.With("service", "RaceService"),
		races:      races,
		raceEvents: raceEvents,
		groups:     groups,
		heats:      heats,
	}
}

func (s *raceService) GetRace(ctx context.Context, raceID uuid.UUID) (*RaceView, error) {
	const op = "Races.RaceService.GetRace"
	dbc := dbctx.Context{Ctx: ctx}

	race, err := s.races.GetByID(dbc, raceID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if race == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("race not found: %s", raceID), nil)
	}

	groups, err := s.groups.ListByRaceID(dbc, race.ID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	groupViews := make([]*RaceGroupView, 0, len(groups))
	for _, g := range groups {
		groupViews = append(groupViews, &RaceGroupView{
			ID:        g.ID,
			RaceID:    g.RaceID,
			Name:      g.Name,
			CreatedAt: g.CreatedAt,
		})
	}

	view := &RaceView{
		ID:            race.ID,
		EventID:       race.EventID,
		Name:          race.Name,
		CurrentHeatID: race.CurrentHeatID,
		Groups:        groupViews,
		CreatedAt:     race.CreatedAt,
	}
	if race.CurrentHeatID != nil && *race.CurrentHeatID != uuid.Nil {
		heat, err := s.heats.GetByID(dbc, *race.CurrentHeatID)
		if err != nil {
			return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
		}
		if heat != nil {
			template, err := eventTemplate(dbc, s.raceEvents, race.EventID)
			if err != nil {
				return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
			}
			view.CurrentHeat = heatView(heat, template)
		}
	}
	return view, nil
}

func (s *raceService) ListHeats(ctx context.Context, raceID uuid.UUID) ([]*HeatView, error) {
	const op = "Races.RaceService.ListHeats"
	dbc := dbctx.Context{Ctx: ctx}

	race, err := s.races.GetByID(dbc, raceID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if race == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("race not found: %s", raceID), nil)
	}

	rows, err := s.heats.ListByRaceID(dbc, race.ID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	template, err := eventTemplate(dbc, s.raceEvents, race.EventID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	out := make([]*HeatView, 0, len(rows))
	for _, h := range rows {
		out = append(out, heatView(h, template))
	}
	return out, nil
}

func (s *raceService) HeatCounts(ctx context.Context, raceID uuid.UUID) (*RaceHeatCounts, error) {
	const op = "Races.RaceService.HeatCounts"
	dbc := dbctx.Context{Ctx: ctx}

	race, err := s.races.GetByID(dbc, raceID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if race == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("race not found: %s", raceID), nil)
	}

	total, err := s.heats.CountByRace(dbc, race.ID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	unconcluded, err := s.heats.CountUnconcluded(dbc, race.ID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	return &RaceHeatCounts{
		RaceID:      race.ID,
		Total:       total,
		Unconcluded: unconcluded,
	}, nil
}
