package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fieldtrack/internal/model"
)

// VisitService records and amends shop visits against an open daily log.
type VisitService struct {
	db     *gorm.DB
	events *EventPublisher
}

// NewVisitService creates a new visit service
func NewVisitService(db *gorm.DB, events *EventPublisher) *VisitService {
	return &VisitService{db: db, events: events}
}

// Record logs a visit for the rep's given daily log. The log must belong to
// the rep; the outcome set is validated (and shop_closed collapsed) before
// anything touches storage.
func (s *VisitService) Record(ctx context.Context, userID uint, dailyLogID uint, req *model.RecordVisitRequest) (*model.Visit, error) {
	outcomes, err := model.NewOutcomeSet(req.Outcomes)
	if err != nil {
		return nil, err
	}

	var dayLog model.DailyLog
	if err := s.db.WithContext(ctx).First(&dayLog, dailyLogID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOpenDay
		}
		return nil, err
	}
	if dayLog.UserID != userID {
		return nil, fmt.Errorf("daily log %d does not belong to this rep", dailyLogID)
	}

	var shop model.Shop
	if err := s.db.WithContext(ctx).First(&shop, req.ShopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shop %d not found", req.ShopID)
		}
		return nil, err
	}

	visit := &model.Visit{
		DailyLogID:   dailyLogID,
		ShopID:       req.ShopID,
		UserID:       userID,
		VisitTime:    time.Now(),
		Outcome:      outcomes.String(),
		GpsLat:       req.GpsLat,
		GpsLng:       req.GpsLng,
		MeterReading: req.MeterReading,
		Note:         req.Note,
	}
	if err := s.db.WithContext(ctx).Create(visit).Error; err != nil {
		return nil, err
	}

	var rep model.User
	s.db.WithContext(ctx).Select("full_name").First(&rep, userID)
	s.events.VisitRecorded(VisitEvent{
		VisitID:  visit.ID,
		RepID:    userID,
		RepName:  rep.FullName,
		ShopID:   shop.ID,
		ShopName: shop.Name,
		Outcome:  visit.Outcome,
		GpsLat:   visit.GpsLat,
		GpsLng:   visit.GpsLng,
	})

	return visit, nil
}

// Update amends the outcome tags and note of the rep's own visit.
func (s *VisitService) Update(ctx context.Context, userID uint, visitID uint, req *model.UpdateVisitRequest) (*model.Visit, error) {
	outcomes, err := model.NewOutcomeSet(req.Outcomes)
	if err != nil {
		return nil, err
	}

	var visit model.Visit
	if err := s.db.WithContext(ctx).First(&visit, visitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("visit %d not found", visitID)
		}
		return nil, err
	}
	if visit.UserID != userID {
		return nil, fmt.Errorf("visit %d does not belong to this rep", visitID)
	}

	updates := map[string]interface{}{
		"outcome": outcomes.String(),
		"note":    req.Note,
	}
	if err := s.db.WithContext(ctx).Model(&visit).Updates(updates).Error; err != nil {
		return nil, err
	}

	visit.Outcome = outcomes.String()
	visit.Note = req.Note
	return &visit, nil
}

// ListForLog returns a daily log's visits, newest first, as the rep
// dashboard shows them.
func (s *VisitService) ListForLog(ctx context.Context, userID uint, dailyLogID uint) ([]model.Visit, error) {
	var visits []model.Visit
	err := s.db.WithContext(ctx).
		Where("daily_log_id = ? AND user_id = ?", dailyLogID, userID).
		Order("visit_time DESC").
		Find(&visits).Error
	return visits, err
}
