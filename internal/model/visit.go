package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Visit outcome tags.
const (
	OutcomeOrderTaken = "order_taken"
	OutcomeCollection = "collection"
	OutcomeJustVisit  = "just_visit"
	OutcomeShopClosed = "shop_closed"
)

// OutcomeLabels maps outcome tags to display text.
var OutcomeLabels = map[string]string{
	OutcomeOrderTaken: "Order Taken",
	OutcomeCollection: "Collection",
	OutcomeJustVisit:  "Just Visit",
	OutcomeShopClosed: "Shop Closed",
}

// Visit is a recorded stop at a shop during one daily log.
// Outcome is persisted as comma-joined tags for compatibility with the
// existing data; use NewOutcomeSet / ParseOutcomes to work with it.
type Visit struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	DailyLogID   uint      `json:"daily_log_id" gorm:"column:daily_log_id;not null;index"`
	ShopID       uint      `json:"shop_id" gorm:"column:shop_id;not null;index"`
	UserID       uint      `json:"user_id" gorm:"column:user_id;not null;index"`
	VisitTime    time.Time `json:"visit_time" gorm:"column:visit_time;not null;default:now()"`
	Outcome      string    `json:"outcome" gorm:"type:text;not null"`
	GpsLat       *float64  `json:"gps_lat,omitempty" gorm:"column:gps_lat"`
	GpsLng       *float64  `json:"gps_lng,omitempty" gorm:"column:gps_lng"`
	MeterReading *int      `json:"meter_reading,omitempty" gorm:"column:meter_reading"`
	Note         string    `json:"note,omitempty" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;default:now()"`

	Shop *Shop `json:"shop,omitempty" gorm:"foreignKey:ShopID"`
}

func (Visit) TableName() string {
	return "visits"
}

// OutcomeSet is a validated, ordered set of outcome tags.
type OutcomeSet struct {
	tags []string
}

// NewOutcomeSet builds an outcome set from raw tags. The set must be
// non-empty and every tag must be a known outcome. shop_closed is exclusive:
// a set containing it collapses to {shop_closed} alone.
func NewOutcomeSet(tags []string) (OutcomeSet, error) {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := OutcomeLabels[t]; !ok {
			return OutcomeSet{}, fmt.Errorf("unknown outcome %q", t)
		}
		if t == OutcomeShopClosed {
			return OutcomeSet{tags: []string{OutcomeShopClosed}}, nil
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return OutcomeSet{}, fmt.Errorf("at least one outcome is required")
	}
	sort.Strings(out)
	return OutcomeSet{tags: out}, nil
}

// ParseOutcomes decodes the comma-joined storage form.
func ParseOutcomes(joined string) (OutcomeSet, error) {
	return NewOutcomeSet(strings.Split(joined, ","))
}

// Tags returns a copy of the tags in stable order.
func (s OutcomeSet) Tags() []string {
	return append([]string(nil), s.tags...)
}

// Contains reports whether the set includes the given tag.
func (s OutcomeSet) Contains(tag string) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// String renders the comma-joined storage form.
func (s OutcomeSet) String() string {
	return strings.Join(s.tags, ",")
}

// RecordVisitRequest logs a stop at a shop
type RecordVisitRequest struct {
	ShopID       uint     `json:"shop_id" binding:"required"`
	Outcomes     []string `json:"outcomes" binding:"required,min=1"`
	Note         string   `json:"note"`
	GpsLat       *float64 `json:"gps_lat"`
	GpsLng       *float64 `json:"gps_lng"`
	MeterReading *int     `json:"meter_reading"`
}

// UpdateVisitRequest amends outcome tags and note on an existing visit
type UpdateVisitRequest struct {
	Outcomes []string `json:"outcomes" binding:"required,min=1"`
	Note     string   `json:"note"`
}
