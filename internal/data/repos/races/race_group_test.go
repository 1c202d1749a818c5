package races

import (
	"context"
	"testing"

	"github.com/openrotor/basestation/internal/data/repos/testutil"
	"github.com/openrotor/basestation/internal/platform/dbctx"
)

func TestRaceGroupRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewRaceGroupRepo(db, testutil.Logger(t))

	event := testutil.SeedEvent(t, ctx, tx, "group repo event")
	race := testutil.SeedRace(t, ctx, tx, event.ID)
	other := testutil.SeedRace(t, ctx, tx, event.ID)

	g1 := testutil.SeedRaceGroup(t, ctx, tx, race.ID)
	g2 := testutil.SeedRaceGroup(t, ctx, tx, race.ID)
	testutil.SeedRaceGroup(t, ctx, tx, other.ID)

	got, err := repo.GetByID(dbc, g1.ID)
	if err != nil || got == nil || got.RaceID != race.ID {
		t.Fatalf("GetByID: err=%v got=%+v", err, got)
	}

	rows, err := repo.ListByRaceID(dbc, race.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByRaceID: err=%v len=%d", err, len(rows))
	}
	seen := map[string]bool{}
	for _, g := range rows {
		seen[g.ID.String()] = true
	}
	if !seen[g1.ID.String()] || !seen[g2.ID.String()] {
		t.Fatalf("ListByRaceID missing rows: %v", seen)
	}
}
