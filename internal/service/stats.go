package service

import (
	"context"

	"gorm.io/gorm"

	"fieldtrack/internal/model"
)

// DashboardStats is the admin landing-page snapshot.
type DashboardStats struct {
	TotalReps      int64 `json:"total_reps"`
	TotalShops     int64 `json:"total_shops"`
	ActiveDays     int64 `json:"active_days"`
	VisitsToday    int64 `json:"visits_today"`
	Unassigned     int64 `json:"unassigned_shops"`
	SuspendedShops int64 `json:"suspended_shops"`
}

// StatsService computes the admin dashboard counters.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService creates a new stats service
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// activeRepFilter narrows users to the active rep roster. status is an
// integer column, so the bind value must be numeric.
func activeRepFilter(db *gorm.DB) *gorm.DB {
	return db.Where("role = ? AND status = ?", model.RoleRep, model.UserStatusActive)
}

// Overview returns the current counters. Each count is an independent query;
// the first error aborts.
func (s *StatsService) Overview(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	today := TodayDate()
	db := s.db.WithContext(ctx)

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalReps, activeRepFilter(db.Model(&model.User{}))},
		{&stats.TotalShops, db.Model(&model.Shop{})},
		{&stats.ActiveDays, db.Model(&model.DailyLog{}).Where("log_date = ?", today)},
		{&stats.VisitsToday, db.Model(&model.Visit{}).Joins("JOIN daily_logs ON daily_logs.id = visits.daily_log_id").Where("daily_logs.log_date = ?", today)},
		{&stats.Unassigned, db.Model(&model.Shop{}).Where("assigned_rep_id IS NULL")},
		{&stats.SuspendedShops, db.Model(&model.Shop{}).Where("is_suspended = ?", true)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return stats, nil
}
