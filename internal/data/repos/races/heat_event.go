package races

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/openrotor/basestation/internal/domain"
	"github.com/openrotor/basestation/internal/platform/dbctx"
	"github.com/openrotor/basestation/internal/platform/logger"
)

// HeatEventRepo is append-only: rows are created once and never
// updated or deleted.
type HeatEventRepo interface {
	Create(dbc dbctx.Context, rows []*types.HeatEvent) ([]*types.HeatEvent, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.HeatEvent, error)

	// ListByHeatID returns the heat's events oldest first.
	ListByHeatID(dbc dbctx.Context, heatID uuid.UUID) ([]*types.HeatEvent, error)

	ListByHeatAndTracker(dbc dbctx.Context, heatID, trackerID uuid.UUID) ([]*types.HeatEvent, error)

	// ListNonTracker returns the heat's events with no tracker
	// attached (lifecycle markers and the like), oldest first.
	ListNonTracker(dbc dbctx.Context, heatID uuid.UUID) ([]*types.HeatEvent, error)

	CountByHeat(dbc dbctx.Context, heatID uuid.UUID) (int64, error)
}

type heatEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHeatEventRepo(db *gorm.DB, baseLog *logger.Logger) HeatEventRepo {
	return &heatEventRepo{db: db, log: baseLog.With("repo", "HeatEventRepo")}
}

func (r *heatEventRepo) Create(dbc dbctx.Context, rows []*types.HeatEvent) ([]*types.HeatEvent, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.HeatEvent{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *heatEventRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.HeatEvent, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.HeatEvent
	err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *heatEventRepo) ListByHeatID(dbc dbctx.Context, heatID uuid.UUID) ([]*types.HeatEvent, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.HeatEvent
	if heatID == uuid.Nil {
		return out, nil
	}
	err := t.WithContext(dbc.Ctx).
		Where("heat_id = ?", heatID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *heatEventRepo) ListByHeatAndTracker(dbc dbctx.Context, heatID, trackerID uuid.UUID) ([]*types.HeatEvent, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.HeatEvent
	if heatID == uuid.Nil || trackerID == uuid.Nil {
		return out, nil
	}
	err := t.WithContext(dbc.Ctx).
		Where("heat_id = ? AND tracker_id = ?", heatID, trackerID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *heatEventRepo) ListNonTracker(dbc dbctx.Context, heatID uuid.UUID) ([]*types.HeatEvent, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.HeatEvent
	if heatID == uuid.Nil {
		return out, nil
	}
	err := t.WithContext(dbc.Ctx).
		Where("heat_id = ? AND tracker_id IS NULL", heatID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *heatEventRepo) CountByHeat(dbc dbctx.Context, heatID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	err := t.WithContext(dbc.Ctx).
		Model(&types.HeatEvent{}).
		Where("heat_id = ?", heatID).
		Count(&n).Error
	return n, err
}
