package races

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/openrotor/basestation/internal/domain"
	"github.com/openrotor/basestation/internal/platform/dbctx"
	"github.com/openrotor/basestation/internal/platform/logger"
)

type RaceGroupRepo interface {
	Create(dbc dbctx.Context, rows []*types.RaceGroup) ([]*types.RaceGroup, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.RaceGroup, error)
	ListByRaceID(dbc dbctx.Context, raceID uuid.UUID) ([]*types.RaceGroup, error)
}

type raceGroupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRaceGroupRepo(db *gorm.DB, baseLog *logger.Logger) RaceGroupRepo {
	return &raceGroupRepo{db: db, log: baseLog.With("repo", "RaceGroupRepo")}
}

func (r *raceGroupRepo) Create(dbc dbctx.Context, rows []*types.RaceGroup) ([]*types.RaceGroup, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.RaceGroup{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *raceGroupRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.RaceGroup, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.RaceGroup
	err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *raceGroupRepo) ListByRaceID(dbc dbctx.Context, raceID uuid.UUID) ([]*types.RaceGroup, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.RaceGroup
	if raceID == uuid.Nil {
		return out, nil
	}
	err := t.WithContext(dbc.Ctx).
		Where("race_id = ?", raceID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
