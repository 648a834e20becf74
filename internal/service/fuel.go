package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fieldtrack/internal/model"
)

// Largest credible single fill, in liters.
const maxFillLiters = 500

// FuelService owns fuel-fill records. Fills are independent of daily logs;
// they associate to a month through fill_date.
type FuelService struct {
	db *gorm.DB
}

// NewFuelService creates a new fuel service
func NewFuelService(db *gorm.DB) *FuelService {
	return &FuelService{db: db}
}

// ValidateFuelEntry checks a fill before it reaches storage. now is injected
// so the future-date rule is testable.
func ValidateFuelEntry(fillDate string, meterReading int, liters float64, now time.Time) error {
	d, err := time.Parse("2006-01-02", fillDate)
	if err != nil {
		return fmt.Errorf("invalid fill date %q", fillDate)
	}
	if d.After(now) {
		return fmt.Errorf("fill date cannot be in the future")
	}
	if meterReading <= 0 {
		return fmt.Errorf("meter reading must be a positive whole number")
	}
	if liters <= 0 {
		return fmt.Errorf("liters must be positive")
	}
	if liters > maxFillLiters {
		return fmt.Errorf("liters value %.2f is not plausible for one fill", liters)
	}
	return nil
}

// Add records a fill for the rep.
func (s *FuelService) Add(ctx context.Context, userID uint, req *model.SaveFuelLogRequest) (*model.FuelLog, error) {
	if err := ValidateFuelEntry(req.FillDate, req.MeterReading, req.Liters, time.Now()); err != nil {
		return nil, err
	}

	fuelLog := &model.FuelLog{
		UserID:       userID,
		FillDate:     req.FillDate,
		MeterReading: req.MeterReading,
		Liters:       req.Liters,
	}
	if err := s.db.WithContext(ctx).Create(fuelLog).Error; err != nil {
		return nil, err
	}
	return fuelLog, nil
}

// Update rewrites a fill's date, meter and liters in place.
func (s *FuelService) Update(ctx context.Context, id uint, req *model.SaveFuelLogRequest) (*model.FuelLog, error) {
	if err := ValidateFuelEntry(req.FillDate, req.MeterReading, req.Liters, time.Now()); err != nil {
		return nil, err
	}

	var fuelLog model.FuelLog
	if err := s.db.WithContext(ctx).First(&fuelLog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("fuel log %d not found", id)
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"fill_date":     req.FillDate,
		"meter_reading": req.MeterReading,
		"liters":        req.Liters,
	}
	if err := s.db.WithContext(ctx).Model(&fuelLog).Updates(updates).Error; err != nil {
		return nil, err
	}

	fuelLog.FillDate = req.FillDate
	fuelLog.MeterReading = req.MeterReading
	fuelLog.Liters = req.Liters
	return &fuelLog, nil
}

// Delete removes a single fill by id.
func (s *FuelService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&model.FuelLog{}, id).Error
}

// Get loads one fill by id.
func (s *FuelService) Get(ctx context.Context, id uint) (*model.FuelLog, error) {
	var fuelLog model.FuelLog
	if err := s.db.WithContext(ctx).First(&fuelLog, id).Error; err != nil {
		return nil, err
	}
	return &fuelLog, nil
}

// ListMonth returns the rep's fills inside one calendar month, oldest first.
func (s *FuelService) ListMonth(ctx context.Context, userID uint, year, month int) ([]model.FuelLog, error) {
	start, end := MonthWindow(year, month)
	var fuelLogs []model.FuelLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND fill_date >= ? AND fill_date < ?", userID, start, end).
		Order("fill_date").
		Find(&fuelLogs).Error
	return fuelLogs, err
}
