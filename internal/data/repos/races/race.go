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

type RaceRepo interface {
	Create(dbc dbctx.Context, rows []*types.Race) ([]*types.Race, error)

	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Race, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Race, error)

	// LockByID takes a row lock on the race, serializing heat creation
	// and heat transitions for that race.
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Race, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type raceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRaceRepo(db *gorm.DB, baseLog *logger.Logger) RaceRepo {
	return &raceRepo{db: db, log: baseLog.With("repo", "RaceRepo")}
}

func (r *raceRepo) Create(dbc dbctx.Context, rows []*types.Race) ([]*types.Race, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Race{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *raceRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Race, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Race
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *raceRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Race, error) {
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

func (r *raceRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Race, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Race
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

func (r *raceRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.Race{}).
		Where("id = ?", id).
		Updates(updates).Error
}
