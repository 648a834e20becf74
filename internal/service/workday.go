package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fieldtrack/internal/model"
)

// ErrNoOpenDay is returned when an operation needs today's log and the rep
// has not started the day.
var ErrNoOpenDay = errors.New("no daily log open for today")

// WorkdayService owns the rep's daily log lifecycle: one log per calendar
// day, opened with the start odometer and closed once with the end reading
// and the personal/official split.
type WorkdayService struct {
	db *gorm.DB
}

// NewWorkdayService creates a new workday service
func NewWorkdayService(db *gorm.DB) *WorkdayService {
	return &WorkdayService{db: db}
}

// ValidateEndDay checks the day-end figures against the opening reading.
// Exported for reuse by handlers rendering inline validation messages.
func ValidateEndDay(startMeter, endMeter, personalKm int) error {
	if endMeter <= startMeter {
		return fmt.Errorf("end meter (%d) must exceed start meter (%d)", endMeter, startMeter)
	}
	if personalKm < 0 {
		return fmt.Errorf("personal km cannot be negative")
	}
	if personalKm > endMeter-startMeter {
		return fmt.Errorf("personal km (%d) cannot exceed the day's distance (%d)", personalKm, endMeter-startMeter)
	}
	return nil
}

// OfficialKm derives the business share of a day's distance, clamped at zero.
func OfficialKm(startMeter, endMeter, personalKm int) int {
	official := (endMeter - startMeter) - personalKm
	if official < 0 {
		return 0
	}
	return official
}

// Today returns the rep's log for the given date, or nil when none exists.
func (s *WorkdayService) Today(ctx context.Context, userID uint, date string) (*model.DailyLog, error) {
	var dayLog model.DailyLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND log_date = ?", userID, date).
		First(&dayLog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dayLog, nil
}

// StartDay opens today's log. When a vehicle number is supplied the rep's
// profile is updated first; the two writes are an ordered sequence, not a
// transaction — a failed log insert leaves the profile change in place and
// the error tells the rep to retry.
func (s *WorkdayService) StartDay(ctx context.Context, userID uint, date string, startMeter int, vehicleNumber string) (*model.DailyLog, error) {
	if startMeter < 0 {
		return nil, fmt.Errorf("start meter cannot be negative")
	}

	if vehicleNumber != "" {
		err := s.db.WithContext(ctx).Model(&model.User{}).
			Where("id = ?", userID).
			Update("vehicle_number", vehicleNumber).Error
		if err != nil {
			return nil, fmt.Errorf("could not update vehicle number: %w", err)
		}
	}

	dayLog := &model.DailyLog{
		UserID:     userID,
		LogDate:    date,
		StartMeter: startMeter,
		Status:     model.LogStatusStarted,
	}
	if err := s.db.WithContext(ctx).Create(dayLog).Error; err != nil {
		return nil, err
	}
	return dayLog, nil
}

// EndDay closes today's log with the end reading and distance split.
func (s *WorkdayService) EndDay(ctx context.Context, userID uint, date string, endMeter, personalKm int) (*model.DailyLog, error) {
	dayLog, err := s.Today(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if dayLog == nil {
		return nil, ErrNoOpenDay
	}

	if err := ValidateEndDay(dayLog.StartMeter, endMeter, personalKm); err != nil {
		return nil, err
	}

	official := OfficialKm(dayLog.StartMeter, endMeter, personalKm)
	updates := map[string]interface{}{
		"end_meter":   endMeter,
		"personal_km": personalKm,
		"official_km": official,
		"status":      model.LogStatusCompleted,
	}
	if err := s.db.WithContext(ctx).Model(dayLog).Updates(updates).Error; err != nil {
		return nil, err
	}

	dayLog.EndMeter = &endMeter
	dayLog.PersonalKm = personalKm
	dayLog.OfficialKm = official
	dayLog.Status = model.LogStatusCompleted
	return dayLog, nil
}

// History lists a rep's past logs, newest first, optionally bounded by date.
func (s *WorkdayService) History(ctx context.Context, userID uint, query model.DailyLogListQuery) ([]model.DailyLog, int64, error) {
	db := s.db.WithContext(ctx).Model(&model.DailyLog{}).Where("user_id = ?", userID)
	if query.From != "" {
		db = db.Where("log_date >= ?", query.From)
	}
	if query.To != "" {
		db = db.Where("log_date <= ?", query.To)
	}

	var total int64
	db.Count(&total)

	var logs []model.DailyLog
	offset := (query.Page - 1) * query.PageSize
	err := db.Order("log_date DESC").Offset(offset).Limit(query.PageSize).Find(&logs).Error
	return logs, total, err
}

// TodayDate renders the service's canonical date form for "now".
func TodayDate() string {
	return time.Now().Format("2006-01-02")
}
