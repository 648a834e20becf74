package model

import (
	"time"
)

// Daily log lifecycle states.
const (
	LogStatusStarted   = "started"
	LogStatusCompleted = "completed"
)

// DailyLog is one rep's record for one calendar day: the start odometer is
// written at day start, everything else at day end. LogDate is a plain DATE
// column kept as "2006-01-02" text. The (user_id, log_date) pair is unique so
// a rep can never hold two logs for the same day.
type DailyLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_daily_logs_user_date"`
	LogDate    string    `json:"log_date" gorm:"column:log_date;type:date;not null;uniqueIndex:idx_daily_logs_user_date"`
	StartMeter int       `json:"start_meter" gorm:"column:start_meter;not null"`
	EndMeter   *int      `json:"end_meter,omitempty" gorm:"column:end_meter"`
	PersonalKm int       `json:"personal_km" gorm:"column:personal_km;default:0"`
	OfficialKm int       `json:"official_km" gorm:"column:official_km;default:0"`
	Status     string    `json:"status" gorm:"type:varchar(20);default:'started'"` // started, completed
	CreatedAt  time.Time `json:"created_at" gorm:"not null;default:now()"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"not null;default:now()"`
}

func (DailyLog) TableName() string {
	return "daily_logs"
}

// StartDayRequest opens a log for today
type StartDayRequest struct {
	StartMeter    int    `json:"start_meter" binding:"required,gte=0"`
	VehicleNumber string `json:"vehicle_number"`
}

// EndDayRequest closes today's log
type EndDayRequest struct {
	EndMeter   int `json:"end_meter" binding:"required,gt=0"`
	PersonalKm int `json:"personal_km" binding:"gte=0"`
}

// DailyLogListQuery filters the history listing
type DailyLogListQuery struct {
	From     string `form:"from"`
	To       string `form:"to"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}
