package service

import (
	"testing"

	"fieldtrack/internal/model"
)

func intPtr(v int) *int { return &v }

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(2026, 3)
	if start != "2026-03-01" || end != "2026-04-01" {
		t.Fatalf("got [%s, %s)", start, end)
	}

	start, end = MonthWindow(2026, 12)
	if start != "2026-12-01" || end != "2027-01-01" {
		t.Fatalf("december window got [%s, %s)", start, end)
	}
}

func TestBuildSummary(t *testing.T) {
	logs := []model.DailyLog{
		{ID: 1, LogDate: "2026-03-02", StartMeter: 5000, EndMeter: intPtr(5200), PersonalKm: 50, OfficialKm: 150},
		{ID: 2, LogDate: "2026-03-03", StartMeter: 5200, EndMeter: intPtr(5400), PersonalKm: 50, OfficialKm: 150},
	}
	fuel := []model.FuelLog{
		{FillDate: "2026-03-02", MeterReading: 5010, Liters: 10.1},
		{FillDate: "2026-03-10", MeterReading: 5210, Liters: 10.2},
		{FillDate: "2026-03-20", MeterReading: 5380, Liters: 9.95},
	}
	prev := &model.DailyLog{LogDate: "2026-02-27", StartMeter: 4900, EndMeter: intPtr(5000)}

	s := buildSummary(logs, fuel, prev)

	if s.ThisMonthEnd != 5400 || s.LastMonthEnd != 5000 {
		t.Fatalf("meter anchors: this=%d last=%d", s.ThisMonthEnd, s.LastMonthEnd)
	}
	if s.TotalKms != 400 {
		t.Fatalf("TotalKms = %d, want 400", s.TotalKms)
	}
	if s.PersonalKms != 100 || s.OfficialKms != 300 {
		t.Fatalf("split: personal=%d official=%d", s.PersonalKms, s.OfficialKms)
	}
	// Raw float sum drifts; the summary carries the rounded figure.
	if s.TotalLiters != 30.25 {
		t.Fatalf("TotalLiters = %v, want 30.25", s.TotalLiters)
	}
	if s.AvgKmPerLiter != "13.22" {
		t.Fatalf("AvgKmPerLiter = %q, want 13.22", s.AvgKmPerLiter)
	}
	if s.PersonalLtrs != "7.56" {
		t.Fatalf("PersonalLtrs = %q, want 7.56", s.PersonalLtrs)
	}
}

func TestBuildSummaryAnchorsToFirstDayWithoutPriorMonth(t *testing.T) {
	logs := []model.DailyLog{
		{ID: 1, LogDate: "2026-03-02", StartMeter: 5000, EndMeter: intPtr(5400), PersonalKm: 0, OfficialKm: 400},
	}

	s := buildSummary(logs, nil, nil)
	if s.LastMonthEnd != 0 {
		t.Fatalf("LastMonthEnd = %d, want 0", s.LastMonthEnd)
	}
	if s.TotalKms != 400 {
		t.Fatalf("TotalKms = %d, want 400 (anchored to first day start)", s.TotalKms)
	}
	if s.AvgKmPerLiter != model.NoData || s.PersonalLtrs != model.NoData {
		t.Fatalf("per-litre figures without fuel: avg=%q personal=%q", s.AvgKmPerLiter, s.PersonalLtrs)
	}
}

func TestBuildSummaryNoCompletedLogs(t *testing.T) {
	logs := []model.DailyLog{
		{ID: 1, LogDate: "2026-03-02", StartMeter: 5000},
	}

	s := buildSummary(logs, nil, nil)
	if s.ThisMonthEnd != 0 {
		t.Fatalf("ThisMonthEnd = %d, want 0 when the day never closed", s.ThisMonthEnd)
	}
	if s.TotalKms != 0 {
		t.Fatalf("TotalKms = %d, want 0", s.TotalKms)
	}
}

func TestBuildSummaryEmptyMonth(t *testing.T) {
	s := buildSummary(nil, nil, nil)
	if s.TotalKms != 0 || s.TotalLiters != 0 || s.ThisMonthEnd != 0 {
		t.Fatalf("empty month summary not zeroed: %+v", s)
	}
	if s.AvgKmPerLiter != model.NoData {
		t.Fatalf("AvgKmPerLiter = %q, want %q", s.AvgKmPerLiter, model.NoData)
	}
}

func TestBuildItineraryGroupsVisitsByDay(t *testing.T) {
	logs := []model.DailyLog{
		{ID: 1, LogDate: "2026-03-02", StartMeter: 5000, EndMeter: intPtr(5200)},
		{ID: 2, LogDate: "2026-03-03", StartMeter: 5200},
	}
	visits := []visitWithShop{
		{Visit: model.Visit{ID: 10, DailyLogID: 1}, ShopName: "Sunrise Stores", ShopTown: "Galle"},
		{Visit: model.Visit{ID: 11, DailyLogID: 1}, ShopName: "Lakmal Traders", ShopTown: "Matara"},
		{Visit: model.Visit{ID: 12, DailyLogID: 1}, ShopName: "City Mart", ShopTown: "Colombo"},
	}

	rows := buildItinerary(logs, visits)
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4 (3 visits + 1 placeholder)", len(rows))
	}

	first := rows[0]
	if first.Date != "02/03" || first.StartMeter != "5000" || first.EndMeter != "5200" || first.KmsRun != "200" {
		t.Fatalf("first row carries day figures: %+v", first)
	}
	if first.Customer != "Sunrise Stores" || first.Description != "Galle" {
		t.Fatalf("first row shop: %+v", first)
	}

	// Remaining rows of the same day are blank except the shop.
	for _, row := range rows[1:3] {
		if row.Date != "" || row.StartMeter != "" || row.EndMeter != "" || row.KmsRun != "" {
			t.Fatalf("continuation row not blanked: %+v", row)
		}
		if row.Customer == "" {
			t.Fatalf("continuation row missing shop: %+v", row)
		}
	}

	placeholder := rows[3]
	if placeholder.Customer != "No visits" {
		t.Fatalf("day without visits: %+v", placeholder)
	}
	if placeholder.Date != "03/03" || placeholder.StartMeter != "5200" {
		t.Fatalf("placeholder row figures: %+v", placeholder)
	}
	if placeholder.EndMeter != "" || placeholder.KmsRun != "" {
		t.Fatalf("open day should have blank end figures: %+v", placeholder)
	}
}

func TestBuildPreview(t *testing.T) {
	rep := &model.User{ID: 7, FullName: "Isuru Sampath", VehicleNumber: "CAB-1234", Role: model.RoleRep}
	logs := []model.DailyLog{
		{ID: 1, LogDate: "2026-03-02", StartMeter: 5000, EndMeter: intPtr(5200)},
	}
	visits := []visitWithShop{
		{Visit: model.Visit{ID: 10, DailyLogID: 1}, ShopName: "Sunrise Stores"},
	}
	fuel := []model.FuelLog{
		{ID: 3, FillDate: "2026-03-05", MeterReading: 5100, Liters: 25},
	}

	p := buildPreview(rep, 2026, 3, logs, visits, fuel, nil)

	if p.MonthLabel != "March 2026" {
		t.Fatalf("MonthLabel = %q", p.MonthLabel)
	}
	if p.VehicleNo != "CAB-1234" || p.RepName != "Isuru Sampath" {
		t.Fatalf("header fields: %+v", p)
	}
	if p.Summary.WorkingDays != 1 || p.Summary.TotalVisits != 1 {
		t.Fatalf("counts: days=%d visits=%d", p.Summary.WorkingDays, p.Summary.TotalVisits)
	}
	if len(p.FuelRows) != 1 || p.FuelRows[0].Date != "05/03" || p.FuelRows[0].Ltrs != "25" {
		t.Fatalf("fuel rows: %+v", p.FuelRows)
	}
}

func TestBuildPreviewVehicleFallback(t *testing.T) {
	rep := &model.User{ID: 7, FullName: "Isuru Sampath", Role: model.RoleRep}
	p := buildPreview(rep, 2026, 3, nil, nil, nil, nil)
	if p.VehicleNo != model.NoData {
		t.Fatalf("VehicleNo = %q, want %q", p.VehicleNo, model.NoData)
	}
}
