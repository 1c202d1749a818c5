package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/openrotor/basestation/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Event {
	tb.Helper()
	e := &types.Event{
		ID:       uuid.New(),
		Name:     name,
		Template: "standard",
		Settings: datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed event: %v", err)
	}
	return e
}

func SeedRace(tb testing.TB, ctx context.Context, tx *gorm.DB, eventID uuid.UUID) *types.Race {
	tb.Helper()
	r := &types.Race{
		ID:      uuid.New(),
		EventID: eventID,
		Name:    "race",
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed race: %v", err)
	}
	return r
}

func SeedRaceGroup(tb testing.TB, ctx context.Context, tx *gorm.DB, raceID uuid.UUID) *types.RaceGroup {
	tb.Helper()
	g := &types.RaceGroup{
		ID:     uuid.New(),
		RaceID: raceID,
		Name:   "group",
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed race group: %v", err)
	}
	return g
}

func SeedTracker(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.Tracker {
	tb.Helper()
	t := &types.Tracker{
		ID:         uuid.New(),
		Identifier: fmt.Sprintf("tracker-%s", uuid.NewString()[:8]),
		Name:       "tracker",
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed tracker: %v", err)
	}
	return t
}

func SeedHeat(tb testing.TB, ctx context.Context, tx *gorm.DB, raceID uuid.UUID, number int, state types.HeatState) *types.RaceHeat {
	tb.Helper()
	now := time.Now().UTC()
	h := &types.RaceHeat{
		ID:            uuid.New(),
		RaceID:        raceID,
		Number:        number,
		State:         state,
		GoalStartTime: now,
		GoalEndTime:   now.Add(3 * time.Minute),
	}
	if err := tx.WithContext(ctx).Create(h).Error; err != nil {
		tb.Fatalf("seed heat: %v", err)
	}
	return h
}

func SeedHeatEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, heatID uuid.UUID, trigger types.Trigger, trackerID *uuid.UUID) *types.HeatEvent {
	tb.Helper()
	ev := &types.HeatEvent{
		ID:        uuid.New(),
		HeatID:    heatID,
		TrackerID: trackerID,
		Trigger:   trigger,
	}
	if err := tx.WithContext(ctx).Create(ev).Error; err != nil {
		tb.Fatalf("seed heat event: %v", err)
	}
	return ev
}
