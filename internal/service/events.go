package service

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// NATS subjects published by the API.
const (
	SubjectVisitRecorded   = "fieldtrack.events.visit"
	SubjectImportCompleted = "fieldtrack.events.import"
	SubjectReportGenerated = "fieldtrack.events.report"
)

// VisitEvent is broadcast when a rep records a visit; the WebSocket hub
// relays it to admin dashboards.
type VisitEvent struct {
	VisitID   uint     `json:"visit_id"`
	RepID     uint     `json:"rep_id"`
	RepName   string   `json:"rep_name"`
	ShopID    uint     `json:"shop_id"`
	ShopName  string   `json:"shop_name"`
	Outcome   string   `json:"outcome"`
	GpsLat    *float64 `json:"gps_lat,omitempty"`
	GpsLng    *float64 `json:"gps_lng,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

// ImportEvent is broadcast when a shop import batch finishes.
type ImportEvent struct {
	Updated   int   `json:"updated"`
	Inserted  int   `json:"inserted"`
	Skipped   int   `json:"skipped"`
	Unmatched int   `json:"unmatched"`
	Timestamp int64 `json:"timestamp"`
}

// ReportEvent is broadcast when a monthly report preview is generated.
type ReportEvent struct {
	RepID     uint  `json:"rep_id"`
	Year      int   `json:"year"`
	Month     int   `json:"month"`
	Timestamp int64 `json:"timestamp"`
}

// EventPublisher publishes domain events to NATS. Publishing is best-effort:
// a failed publish is logged, never surfaced to the caller.
type EventPublisher struct {
	nats *nats.Conn
}

// NewEventPublisher creates an event publisher
func NewEventPublisher(nc *nats.Conn) *EventPublisher {
	return &EventPublisher{nats: nc}
}

// VisitRecorded publishes a visit event
func (p *EventPublisher) VisitRecorded(ev VisitEvent) {
	ev.Timestamp = time.Now().Unix()
	p.publish(SubjectVisitRecorded, ev)
}

// ImportCompleted publishes an import event
func (p *EventPublisher) ImportCompleted(ev ImportEvent) {
	ev.Timestamp = time.Now().Unix()
	p.publish(SubjectImportCompleted, ev)
}

// ReportGenerated publishes a report event
func (p *EventPublisher) ReportGenerated(ev ReportEvent) {
	ev.Timestamp = time.Now().Unix()
	p.publish(SubjectReportGenerated, ev)
}

func (p *EventPublisher) publish(subject string, payload interface{}) {
	if p == nil || p.nats == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Events] Failed to marshal %s event: %v", subject, err)
		return
	}
	if err := p.nats.Publish(subject, data); err != nil {
		log.Printf("[Events] Failed to publish %s: %v", subject, err)
	}
}
