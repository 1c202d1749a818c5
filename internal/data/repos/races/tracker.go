package races

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/openrotor/basestation/internal/domain"
	"github.com/openrotor/basestation/internal/platform/dbctx"
	"github.com/openrotor/basestation/internal/platform/logger"
)

type TrackerRepo interface {
	Create(dbc dbctx.Context, rows []*types.Tracker) ([]*types.Tracker, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Tracker, error)
	GetByIdentifier(dbc dbctx.Context, identifier string) (*types.Tracker, error)

	List(dbc dbctx.Context) ([]*types.Tracker, error)
}

type trackerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrackerRepo(db *gorm.DB, baseLog *logger.Logger) TrackerRepo {
	return &trackerRepo{db: db, log: baseLog.With("repo", "TrackerRepo")}
}

func (r *trackerRepo) Create(dbc dbctx.Context, rows []*types.Tracker) ([]*types.Tracker, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Tracker{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *trackerRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Tracker, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Tracker
	err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *trackerRepo) GetByIdentifier(dbc dbctx.Context, identifier string) (*types.Tracker, error) {
	if identifier == "" {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Tracker
	err := t.WithContext(dbc.Ctx).Where("identifier = ?", identifier).Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *trackerRepo) List(dbc dbctx.Context) ([]*types.Tracker, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Tracker
	if err := t.WithContext(dbc.Ctx).Order("identifier ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
