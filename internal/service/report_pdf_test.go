package service

import (
	"bytes"
	"testing"

	"fieldtrack/internal/model"
)

func samplePreview() *model.ReportPreview {
	return &model.ReportPreview{
		RepID:      7,
		RepName:    "Isuru Sampath",
		VehicleNo:  "CAB-1234",
		Year:       2026,
		Month:      3,
		MonthLabel: "March 2026",
		Rows: []model.ItineraryRow{
			{Date: "02/03", Customer: "Sunrise Stores", Description: "Galle", StartMeter: "5000", EndMeter: "5200", KmsRun: "200"},
			{Customer: "Lakmal Traders", Description: "Matara"},
		},
		FuelRows: []model.FuelRow{
			{ID: 3, Date: "05/03", Meter: "5100", Ltrs: "25"},
		},
		Summary: model.ReportSummary{
			ThisMonthEnd:  5400,
			LastMonthEnd:  5000,
			TotalKms:      400,
			OfficialKms:   300,
			PersonalKms:   100,
			TotalLiters:   30.25,
			AvgKmPerLiter: "13.22",
			PersonalLtrs:  "7.56",
			WorkingDays:   2,
			TotalVisits:   2,
		},
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewReportPDF("EKWAY LANKA (PVT) LTD")

	data, err := r.Render(samplePreview())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("empty output")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not start with a PDF header: %q", data[:8])
	}
}

func TestRenderEmptyMonth(t *testing.T) {
	r := NewReportPDF("EKWAY LANKA (PVT) LTD")
	preview := &model.ReportPreview{
		RepID:      7,
		RepName:    "Isuru Sampath",
		VehicleNo:  model.NoData,
		Year:       2026,
		Month:      1,
		MonthLabel: "January 2026",
		Summary: model.ReportSummary{
			AvgKmPerLiter: model.NoData,
			PersonalLtrs:  model.NoData,
		},
	}

	data, err := r.Render(preview)
	if err != nil {
		t.Fatalf("render failed for empty month: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("empty output")
	}
}

func TestFilename(t *testing.T) {
	r := NewReportPDF("EKWAY LANKA (PVT) LTD")

	got := r.Filename(samplePreview())
	if got != "FIELDTRACK_VRC_Isuru_Sampath_March_2026.pdf" {
		t.Fatalf("Filename = %q", got)
	}

	anon := samplePreview()
	anon.RepName = ""
	if got := r.Filename(anon); got != "FIELDTRACK_VRC_Report_March_2026.pdf" {
		t.Fatalf("Filename fallback = %q", got)
	}
}
