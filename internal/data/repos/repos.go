package repos

import (
	"gorm.io/gorm"

	"github.com/openrotor/basestation/internal/data/repos/races"
	"github.com/openrotor/basestation/internal/platform/logger"
)

type EventRepo = races.EventRepo
type RaceRepo = races.RaceRepo
type RaceGroupRepo = races.RaceGroupRepo
type TrackerRepo = races.TrackerRepo
type RaceHeatRepo = races.RaceHeatRepo
type HeatEventRepo = races.HeatEventRepo

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	return races.NewEventRepo(db, baseLog)
}
func NewRaceRepo(db *gorm.DB, baseLog *logger.Logger) RaceRepo {
	return races.NewRaceRepo(db, baseLog)
}
func NewRaceGroupRepo(db *gorm.DB, baseLog *logger.Logger) RaceGroupRepo {
	return races.NewRaceGroupRepo(db, baseLog)
}
func NewTrackerRepo(db *gorm.DB, baseLog *logger.Logger) TrackerRepo {
	return races.NewTrackerRepo(db, baseLog)
}
func NewRaceHeatRepo(db *gorm.DB, baseLog *logger.Logger) RaceHeatRepo {
	return races.NewRaceHeatRepo(db, baseLog)
}
func NewHeatEventRepo(db *gorm.DB, baseLog *logger.Logger) HeatEventRepo {
	return races.NewHeatEventRepo(db, baseLog)
}
