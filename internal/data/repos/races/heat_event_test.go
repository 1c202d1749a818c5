package races

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/openrotor/basestation/internal/data/repos/testutil"
	types "github.com/openrotor/basestation/internal/domain"
	"github.com/openrotor/basestation/internal/platform/dbctx"
)

func TestHeatEventRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewHeatEventRepo(db, testutil.Logger(t))

	event := testutil.SeedEvent(t, ctx, tx, "event repo event")
	race := testutil.SeedRace(t, ctx, tx, event.ID)
	heat := testutil.SeedHeat(t, ctx, tx, race.ID, 1, types.HeatStateRunning)
	tracker := testutil.SeedTracker(t, ctx, tx)

	base := time.Now().UTC().Truncate(time.Millisecond)
	mk := func(trigger types.Trigger, trackerID *uuid.UUID, offset time.Duration) *types.HeatEvent {
		return &types.HeatEvent{
			ID:        uuid.New(),
			HeatID:    heat.ID,
			TrackerID: trackerID,
			Trigger:   trigger,
			CreatedAt: base.Add(offset),
		}
	}
	rows := []*types.HeatEvent{
		mk(types.TriggerStarted, nil, 0),
		mk(types.TriggerGate, &tracker.ID, time.Second),
		mk(types.TriggerGate, &tracker.ID, 2*time.Second),
		mk(types.TriggerEnded, nil, 3*time.Second),
	}
	if _, err := repo.Create(dbc, rows); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(dbc, rows[1].ID)
	if err != nil || got == nil || got.Trigger != types.TriggerGate {
		t.Fatalf("GetByID: err=%v got=%+v", err, got)
	}

	all, err := repo.ListByHeatID(dbc, heat.ID)
	if err != nil || len(all) != 4 {
		t.Fatalf("ListByHeatID: err=%v len=%d", err, len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.Before(all[i-1].CreatedAt) {
			t.Fatalf("ListByHeatID order: row %d before row %d", i, i-1)
		}
	}

	tracked, err := repo.ListByHeatAndTracker(dbc, heat.ID, tracker.ID)
	if err != nil || len(tracked) != 2 {
		t.Fatalf("ListByHeatAndTracker: err=%v len=%d", err, len(tracked))
	}

	untracked, err := repo.ListNonTracker(dbc, heat.ID)
	if err != nil || len(untracked) != 2 {
		t.Fatalf("ListNonTracker: err=%v len=%d", err, len(untracked))
	}
	for _, row := range untracked {
		if row.TrackerID != nil {
			t.Fatalf("ListNonTracker returned tracked event: %+v", row)
		}
	}

	if n, err := repo.CountByHeat(dbc, heat.ID); err != nil || n != 4 {
		t.Fatalf("CountByHeat: err=%v n=%d", err, n)
	}
}
