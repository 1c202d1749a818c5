package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HeatState is the lifecycle state of a race heat. The numeric values
// are stable storage identifiers and must not be renumbered.
type HeatState int

const (
	HeatStateWaiting    HeatState = 0
	HeatStateRunning    HeatState = 1
	HeatStateRestarting HeatState = 2
	HeatStateEnded      HeatState = 3
)

var heatStateLabels = map[HeatState]string{
	HeatStateWaiting:    "Waiting",
	HeatStateRunning:    "Running",
	HeatStateRestarting: "Restarting",
	HeatStateEnded:      "Ended",
}

func (s HeatState) Label() string {
	if label, ok := heatStateLabels[s]; ok {
		return label
	}
	return "Unknown"
}

func (s HeatState) Valid() bool {
	_, ok := heatStateLabels[s]
	return ok
}

// ActiveHeatStates are the states in which a heat counts against the
// one-active-heat-per-race invariant.
var ActiveHeatStates = []HeatState{HeatStateRunning, HeatStateRestarting}

// HeatAction is a requested state-machine transition on a heat.
type HeatAction string

const (
	HeatActionStart   HeatAction = "start"
	HeatActionEnd     HeatAction = "end"
	HeatActionRestart HeatAction = "restart"
)

// heatTransition describes one row of the heat state machine table.
type heatTransition struct {
	sources []HeatState
	target  HeatState
}

// heatTransitionTable is the full state machine: waiting -> running ->
// ended, with restarting reachable from running and ended and leading
// back to running. The start action additionally carries the race-wide
// mutual-exclusion precondition, enforced by the heat aggregate.
var heatTransitionTable = map[HeatAction]heatTransition{
	HeatActionStart:   {sources: []HeatState{HeatStateWaiting, HeatStateRestarting}, target: HeatStateRunning},
	HeatActionEnd:     {sources: []HeatState{HeatStateRunning}, target: HeatStateEnded},
	HeatActionRestart: {sources: []HeatState{HeatStateRunning, HeatStateEnded}, target: HeatStateRestarting},
}

// NextHeatState resolves the target state for applying action in state
// current. The second return value is false when the transition is not
// legal from the current state.
func NextHeatState(current HeatState, action HeatAction) (HeatState, bool) {
	t, ok := heatTransitionTable[action]
	if !ok {
		return current, false
	}
	for _, s := range t.sources {
		if s == current {
			return t.target, true
		}
	}
	return current, false
}

// KnownHeatAction reports whether action names a transition at all.
func KnownHeatAction(action HeatAction) bool {
	_, ok := heatTransitionTable[action]
	return ok
}

// RaceHeat is one run of a race. Number is assigned once at creation by
// the heat sequencer and unique within the race; state only changes
// through the heat state machine.
type RaceHeat struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RaceID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_race_heat_number" json:"race_id"`
	Race          *Race      `gorm:"constraint:OnDelete:CASCADE;foreignKey:RaceID;references:ID" json:"race,omitempty"`
	GroupID       *uuid.UUID `gorm:"type:uuid;index" json:"group_id,omitempty"`
	Group         *RaceGroup `gorm:"constraint:OnDelete:SET NULL;foreignKey:GroupID;references:ID" json:"group,omitempty"`
	Number        int        `gorm:"not null;uniqueIndex:ux_race_heat_number" json:"number"`
	State         HeatState  `gorm:"not null;default:0;index" json:"state"`
	GoalStartTime time.Time  `gorm:"not null" json:"goal_start_time"`
	GoalEndTime   time.Time  `gorm:"not null" json:"goal_end_time"`
	StartedTime   *time.Time `json:"started_time,omitempty"`
	EndedTime     *time.Time `json:"ended_time,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (RaceHeat) TableName() string { return "race_heat" }

func (h *RaceHeat) Started() bool { return h.StartedTime != nil }

func (h *RaceHeat) Ended() bool { return h.EndedTime != nil }

// Active reports whether the heat counts against the per-race
// mutual-exclusion invariant.
func (h *RaceHeat) Active() bool {
	for _, s := range ActiveHeatStates {
		if h.State == s {
			return true
		}
	}
	return false
}

// ChannelName is the realtime channel carrying this heat's lifecycle
// and trigger notifications.
func (h *RaceHeat) ChannelName() string {
	return HeatChannelName(h.RaceID, h.Number)
}

func HeatChannelName(raceID uuid.UUID, number int) string {
	return fmt.Sprintf("%s-heat-%d", raceID, number)
}
