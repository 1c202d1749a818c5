package aggregates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openrotor/basestation/internal/data/repos"
	types "github.com/openrotor/basestation/internal/domain"
	domainagg "github.com/openrotor/basestation/internal/domain/aggregates"
	"github.com/openrotor/basestation/internal/platform/dbctx"
)

type HeatAggregateDeps struct {
	Base BaseDeps

	Races    repos.RaceRepo
	Heats    repos.RaceHeatRepo
	Events   repos.HeatEventRepo
	Groups   repos.RaceGroupRepo
	Trackers repos.TrackerRepo
}

type heatAggregate struct {
	deps HeatAggregateDeps
}

func NewHeatAggregate(deps HeatAggregateDeps) domainagg.HeatAggregate {
	deps.Base = deps.Base.withDefaults()
	return &heatAggregate{deps: deps}
}

func (a *heatAggregate) Contract() domainagg.Contract {
	return domainagg.HeatAggregateContract
}

func (a *heatAggregate) CreateHeat(ctx context.Context, in domainagg.CreateHeatInput) (domainagg.CreateHeatResult, error) {
	const op = "Races.Heat.CreateHeat"
	var out domainagg.CreateHeatResult

	if in.RaceID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing race_id", nil)
	}
	if a.deps.Races == nil || a.deps.Heats == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "heat aggregate repos not configured", nil)
	}
	if in.GoalStartTime.IsZero() || in.GoalEndTime.IsZero() {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing goal start/end time", nil)
	}
	if !in.GoalEndTime.After(in.GoalStartTime) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "goal end time must be after goal start time", nil)
	}
	createdAt := in.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		// The race row lock serializes number assignment with any
		// concurrent heat creation or transition in the same race.
		race, err := a.deps.Races.LockByID(dbc, in.RaceID)
		if err != nil {
			return err
		}
		if race == nil || race.ID == uuid.Nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("race not found: %s", in.RaceID.String()), nil)
		}

		if in.GroupID != nil && *in.GroupID != uuid.Nil {
			if a.deps.Groups == nil {
				return domainagg.NewError(domainagg.CodeInternal, op, "race group repo not configured", nil)
			}
			g, err := a.deps.Groups.GetByID(dbc, *in.GroupID)
			if err != nil {
				return err
			}
			if g == nil {
				return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("race group not found: %s", in.GroupID.String()), nil)
			}
			if g.RaceID != race.ID {
				return ValidationError("race group belongs to a different race")
			}
		}

		maxNumber, err := a.deps.Heats.GetMaxNumber(dbc, race.ID)
		if err != nil {
			return err
		}
		nextNumber := maxNumber + 1

		row := &types.RaceHeat{
			ID:            uuid.New(),
			RaceID:        race.ID,
			GroupID:       in.GroupID,
			Number:        nextNumber,
			State:         types.HeatStateWaiting,
			GoalStartTime: in.GoalStartTime.UTC(),
			GoalEndTime:   in.GoalEndTime.UTC(),
			CreatedAt:     createdAt,
			UpdatedAt:     createdAt,
		}
		if _, err := a.deps.Heats.Create(dbc, []*types.RaceHeat{row}); err != nil {
			return err
		}

		out = domainagg.CreateHeatResult{
			HeatID:  row.ID,
			RaceID:  row.RaceID,
			Number:  row.Number,
			State:   row.State,
			Channel: row.ChannelName(),
		}
		return nil
	})
	return out, err
}

func (a *heatAggregate) Transition(ctx context.Context, in domainagg.HeatTransitionInput) (domainagg.HeatTransitionResult, error) {
	const op = "Races.Heat.Transition"
	var out domainagg.HeatTransitionResult

	if in.HeatID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing heat_id", nil)
	}
	if !types.KnownHeatAction(in.Action) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown heat action %q", string(in.Action)), nil)
	}
	if a.deps.Races == nil || a.deps.Heats == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "heat aggregate repos not configured", nil)
	}
	transitionAt := in.TransitionAt.UTC()
	if transitionAt.IsZero() {
		transitionAt = time.Now().UTC()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		// Resolve the race first, then lock race -> heat so every
		// writer in the race agrees on lock order.
		heat, err := a.deps.Heats.GetByID(dbc, in.HeatID)
		if err != nil {
			return err
		}
		if heat == nil || heat.ID == uuid.Nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("heat not found: %s", in.HeatID.String()), nil)
		}

		race, err := a.deps.Races.LockByID(dbc, heat.RaceID)
		if err != nil {
			return err
		}
		if race == nil || race.ID == uuid.Nil {
			return DataIntegrityError(fmt.Sprintf("heat %s references missing race %s", heat.ID, heat.RaceID))
		}

		// Re-read under the race lock; the pre-lock copy may be stale.
		heat, err = a.deps.Heats.LockByID(dbc, in.HeatID)
		if err != nil {
			return err
		}
		if heat == nil || heat.ID == uuid.Nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("heat not found: %s", in.HeatID.String()), nil)
		}

		target, ok := types.NextHeatState(heat.State, in.Action)
		if !ok {
			return InvalidTransitionError(fmt.Sprintf("cannot %s heat in state %s", string(in.Action), heat.State.Label()))
		}

		updates := map[string]interface{}{
			"state":      target,
			"updated_at": transitionAt,
		}
		startedTime := heat.StartedTime
		endedTime := heat.EndedTime

		switch in.Action {
		case types.HeatActionStart:
			activeIDs, err := a.deps.Heats.ListActiveIDs(dbc, race.ID, heat.ID)
			if err != nil {
				return err
			}
			if len(activeIDs) > 0 {
				return InvalidTransitionError(fmt.Sprintf("race %s already has an active heat", race.ID))
			}
			st := transitionAt
			startedTime = &st
			endedTime = nil
			updates["started_time"] = startedTime
			updates["ended_time"] = nil
			if err := a.deps.Races.UpdateFields(dbc, race.ID, map[string]interface{}{
				"current_heat_id": heat.ID,
				"updated_at":      transitionAt,
			}); err != nil {
				return err
			}
		case types.HeatActionEnd:
			et := transitionAt
			endedTime = &et
			updates["ended_time"] = endedTime
		case types.HeatActionRestart:
			startedTime = nil
			endedTime = nil
			updates["started_time"] = nil
			updates["ended_time"] = nil
		}

		if err := a.deps.Heats.UpdateFields(dbc, heat.ID, updates); err != nil {
			return err
		}

		out = domainagg.HeatTransitionResult{
			HeatID:      heat.ID,
			RaceID:      race.ID,
			Number:      heat.Number,
			State:       target,
			StartedTime: startedTime,
			EndedTime:   endedTime,
			Channel:     heat.ChannelName(),
		}
		return nil
	})
	return out, err
}

func (a *heatAggregate) AppendEvent(ctx context.Context, in domainagg.AppendHeatEventInput) (domainagg.AppendHeatEventResult, error) {
	const op = "Races.Heat.AppendEvent"
	var out domainagg.AppendHeatEventResult

	if in.HeatID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing heat_id", nil)
	}
	if !in.Trigger.Valid() {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown trigger code %d", int(in.Trigger)), nil)
	}
	if a.deps.Heats == nil || a.deps.Events == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "heat aggregate repos not configured", nil)
	}
	createdAt := in.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	trackerID := in.TrackerID
	if trackerID != nil && *trackerID == uuid.Nil {
		trackerID = nil
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		heat, err := a.deps.Heats.GetByID(dbc, in.HeatID)
		if err != nil {
			return err
		}
		if heat == nil || heat.ID == uuid.Nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("heat not found: %s", in.HeatID.String()), nil)
		}

		if trackerID != nil && a.deps.Trackers != nil {
			tracker, err := a.deps.Trackers.GetByID(dbc, *trackerID)
			if err != nil {
				return err
			}
			if tracker == nil || tracker.ID == uuid.Nil {
				return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("tracker not found: %s", trackerID.String()), nil)
			}
		}

		row := &types.HeatEvent{
			ID:        uuid.New(),
			HeatID:    heat.ID,
			TrackerID: trackerID,
			Trigger:   in.Trigger,
			CreatedAt: createdAt,
		}
		if _, err := a.deps.Events.Create(dbc, []*types.HeatEvent{row}); err != nil {
			return err
		}

		out = domainagg.AppendHeatEventResult{
			EventID:    row.ID,
			HeatID:     heat.ID,
			RaceID:     heat.RaceID,
			HeatNumber: heat.Number,
			Trigger:    row.Trigger,
			TrackerID:  row.TrackerID,
			CreatedAt:  row.CreatedAt,
			Channel:    heat.ChannelName(),
		}
		return nil
	})
	return out, err
}
