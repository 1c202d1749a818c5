package races

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/openrotor/basestation/internal/domain"
	"github.com/openrotor/basestation/internal/platform/dbctx"
	"github.com/openrotor/basestation/internal/platform/logger"
)

type EventRepo interface {
	Create(dbc dbctx.Context, rows []*types.Event) ([]*types.Event, error)

	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Event, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Event, error)

	List(dbc dbctx.Context) ([]*types.Event, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return &eventRepo{db: db, log: baseLog.With("repo", "EventRepo")}
}

func (r *eventRepo) Create(dbc dbctx.Context, rows []*types.Event) ([]*types.Event, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Event{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *eventRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Event, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Event
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *eventRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Event, error) {
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

func (r *eventRepo) List(dbc dbctx.Context) ([]*types.Event, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Event
	if err := t.WithContext(dbc.Ctx).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *eventRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.Event{}).
		Where("id = ?", id).
		Updates(updates).Error
}
