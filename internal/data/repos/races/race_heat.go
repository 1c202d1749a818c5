package races

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/openrotor/basestation/internal/domain"
	"github.com/openrotor/basestation/internal/platform/dbctx"
	"github.com/openrotor/basestation/internal/platform/logger"
)

type RaceHeatRepo interface {
	Create(dbc dbctx.Context, rows []*types.RaceHeat) ([]*types.RaceHeat, error)

	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.RaceHeat, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.RaceHeat, error)

	// LockByID re-reads the heat under a row lock. Callers must already
	// hold the race lock (RaceRepo.LockByID) to keep lock ordering
	// race -> heat.
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.RaceHeat, error)

	ListByRaceID(dbc dbctx.Context, raceID uuid.UUID) ([]*types.RaceHeat, error)

	// GetMaxNumber returns the highest heat number assigned within the
	// race, or 0 when the race has no heats yet.
	GetMaxNumber(dbc dbctx.Context, raceID uuid.UUID) (int, error)

	// ListActiveIDs returns ids of heats in the race whose state is
	// running or restarting, excluding the given heat id (uuid.Nil
	// excludes nothing).
	ListActiveIDs(dbc dbctx.Context, raceID uuid.UUID, excluding uuid.UUID) ([]uuid.UUID, error)

	CountByRace(dbc dbctx.Context, raceID uuid.UUID) (int64, error)
	CountUnconcluded(dbc dbctx.Context, raceID uuid.UUID) (int64, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type raceHeatRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRaceHeatRepo(db *gorm.DB, baseLog *logger.Logger) RaceHeatRepo {
	return &raceHeatRepo{db: db, log: baseLog.With("repo", "RaceHeatRepo")}
}

func (r *raceHeatRepo) Create(dbc dbctx.Context, rows []*types.RaceHeat) ([]*types.RaceHeat, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.RaceHeat{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *raceHeatRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.RaceHeat, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.RaceHeat
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *raceHeatRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.RaceHeat, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *raceHeatRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.RaceHeat, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.RaceHeat
	err := t.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *raceHeatRepo) ListByRaceID(dbc dbctx.Context, raceID uuid.UUID) ([]*types.RaceHeat, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.RaceHeat
	if raceID == uuid.Nil {
		return out, nil
	}
	err := t.WithContext(dbc.Ctx).
		Where("race_id = ?", raceID).
		Order("number ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *raceHeatRepo) GetMaxNumber(dbc dbctx.Context, raceID uuid.UUID) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var max *int
	err := t.WithContext(dbc.Ctx).
		Model(&types.RaceHeat{}).
		Where("race_id = ?", raceID).
		Select("MAX(number)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *raceHeatRepo) ListActiveIDs(dbc dbctx.Context, raceID uuid.UUID, excluding uuid.UUID) ([]uuid.UUID, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var ids []uuid.UUID
	q := t.WithContext(dbc.Ctx).
		Model(&types.RaceHeat{}).
		Where("race_id = ? AND state IN ?", raceID, types.ActiveHeatStates)
	if excluding != uuid.Nil {
		q = q.Where("id <> ?", excluding)
	}
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *raceHeatRepo) CountByRace(dbc dbctx.Context, raceID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	err := t.WithContext(dbc.Ctx).
		Model(&types.RaceHeat{}).
		Where("race_id = ?", raceID).
		Count(&n).Error
	return n, err
}

func (r *raceHeatRepo) CountUnconcluded(dbc dbctx.Context, raceID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	err := t.WithContext(dbc.Ctx).
		Model(&types.RaceHeat{}).
		Where("race_id = ? AND state <> ?", raceID, types.HeatStateEnded).
		Count(&n).Error
	return n, err
}

func (r *raceHeatRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.RaceHeat{}).
		Where("id = ?", id).
		Updates(updates).Error
}
