package model

import (
	"time"
)

// FuelLog is a fuel-fill event. It belongs to a rep, not to a daily log;
// month association is implicit through FillDate (a DATE column kept as
// "2006-01-02" text).
type FuelLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"column:user_id;not null;index"`
	FillDate     string    `json:"fill_date" gorm:"column:fill_date;type:date;not null"`
	MeterReading int       `json:"meter_reading" gorm:"column:meter_reading;not null"`
	Liters       float64   `json:"liters" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;default:now()"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"not null;default:now()"`
}

func (FuelLog) TableName() string {
	return "fuel_logs"
}

// SaveFuelLogRequest creates or updates a fuel fill
type SaveFuelLogRequest struct {
	FillDate     string  `json:"fill_date" binding:"required"`
	MeterReading int     `json:"meter_reading" binding:"required,gt=0"`
	Liters       float64 `json:"liters" binding:"required,gt=0"`
}
