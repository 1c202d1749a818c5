package races

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/openrotor/basestation/internal/data/repos/testutil"
	types "github.com/openrotor/basestation/internal/domain"
	"github.com/openrotor/basestation/internal/platform/dbctx"
)

func TestRaceRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewRaceRepo(db, testutil.Logger(t))

	event := testutil.SeedEvent(t, ctx, tx, "repo event")
	r := &types.Race{
		ID:      uuid.New(),
		EventID: event.ID,
		Name:    "race a",
	}
	if _, err := repo.Create(dbc, []*types.Race{r}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{r.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	got, err := repo.GetByID(dbc, r.ID)
	if err != nil || got == nil || got.Name != "race a" {
		t.Fatalf("GetByID: err=%v got=%+v", err, got)
	}
	if got, err := repo.GetByID(dbc, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetByID missing: err=%v got=%+v", err, got)
	}

	locked, err := repo.LockByID(dbc, r.ID)
	if err != nil || locked == nil || locked.ID != r.ID {
		t.Fatalf("LockByID: err=%v got=%+v", err, locked)
	}

	heat := testutil.SeedHeat(t, ctx, tx, r.ID, 1, types.HeatStateRunning)
	if err := repo.UpdateFields(dbc, r.ID, map[string]interface{}{"current_heat_id": heat.ID}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err = repo.GetByID(dbc, r.ID)
	if err != nil || got.CurrentHeatID == nil || *got.CurrentHeatID != heat.ID {
		t.Fatalf("after UpdateFields: err=%v current_heat_id=%v", err, got.CurrentHeatID)
	}
}
