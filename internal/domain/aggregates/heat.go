package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	types "github.com/openrotor/basestation/internal/domain"
)

var HeatAggregateContract = Contract{
	Name:             "Races.HeatAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns heat numbering + lifecycle transitions, including the one-active-heat-per-race invariant, and the append-only heat event log.",
}

// HeatAggregate owns race heat invariants.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeInvalidTransition,
// CodeDataIntegrity, CodeRetryable, CodeInternal.
type HeatAggregate interface {
	Aggregate

	// CreateHeat atomically assigns the next heat number for the race
	// and inserts the heat in the waiting state.
	CreateHeat(ctx context.Context, in CreateHeatInput) (CreateHeatResult, error)

	// Transition atomically applies a state-machine action to a heat,
	// enforcing transition legality and the race-wide mutual-exclusion
	// precondition for start.
	Transition(ctx context.Context, in HeatTransitionInput) (HeatTransitionResult, error)

	// AppendEvent atomically appends one immutable entry to the heat's
	// event log.
	AppendEvent(ctx context.Context, in AppendHeatEventInput) (AppendHeatEventResult, error)
}

type CreateHeatInput struct {
	RaceID        uuid.UUID
	GroupID       *uuid.UUID
	GoalStartTime time.Time
	GoalEndTime   time.Time
	CreatedAt     time.Time
}

type CreateHeatResult struct {
	HeatID  uuid.UUID
	RaceID  uuid.UUID
	Number  int
	State   types.HeatState
	Channel string
}

type HeatTransitionInput struct {
	HeatID       uuid.UUID
	Action       types.HeatAction
	TransitionAt time.Time
}

type HeatTransitionResult struct {
	HeatID      uuid.UUID
	RaceID      uuid.UUID
	Number      int
	State       types.HeatState
	StartedTime *time.Time
	EndedTime   *time.Time
	Channel     string
}

type AppendHeatEventInput struct {
	HeatID    uuid.UUID
	Trigger   types.Trigger
	TrackerID *uuid.UUID
	CreatedAt time.Time
}

type AppendHeatEventResult struct {
	EventID    uuid.UUID
	HeatID     uuid.UUID
	RaceID     uuid.UUID
	HeatNumber int
	Trigger    types.Trigger
	TrackerID  *uuid.UUID
	CreatedAt  time.Time
	Channel    string
}
