package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"fieldtrack/internal/model"
)

// Fixed slot count of the FUEL PUMPED grid; unused slots render blank so
// every month's chart has the same width.
const fuelSlots = 12

// ReportPDF renders a ReportPreview onto A4 pages. It is a pure formatting
// step: every figure it prints was derived by the aggregator.
type ReportPDF struct {
	companyName string
}

// NewReportPDF creates a PDF renderer
func NewReportPDF(companyName string) *ReportPDF {
	return &ReportPDF{companyName: companyName}
}

// Filename derives the download name for a preview.
func (r *ReportPDF) Filename(preview *model.ReportPreview) string {
	rep := strings.ReplaceAll(preview.RepName, " ", "_")
	if rep == "" {
		rep = "Report"
	}
	return fmt.Sprintf("FIELDTRACK_VRC_%s_%s_%d.pdf", rep, time.Month(preview.Month).String(), preview.Year)
}

// Render produces the finished document.
func (r *ReportPDF) Render(preview *model.ReportPreview) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 15, 14)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("{nb}")

	generated := time.Now().Format("02 Jan 2006 15:04")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(60, 5, r.companyName, "", 0, "L", false, 0, "")
		pdf.CellFormat(62, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.CellFormat(60, 5, "Generated: "+generated, "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	r.renderHeader(pdf, preview)
	r.renderItinerary(pdf, preview.Rows)
	r.renderFuelGrid(pdf, preview.FuelRows)
	r.renderSummary(pdf, preview.Summary)
	r.renderSignatures(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *ReportPDF) renderHeader(pdf *gofpdf.Fpdf, preview *model.ReportPreview) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 4, r.companyName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(0, 4, "Vehicle Itinerary System", "", 1, "L", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 6, "VEHICLE TOUR ITINERARY & RUNNING CHART", "", 1, "C", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "", 9)
	vehicle := preview.VehicleNo
	if vehicle == "" || vehicle == model.NoData {
		vehicle = ".................."
	}
	rep := preview.RepName
	if rep == "" {
		rep = ".................."
	}
	pdf.CellFormat(70, 5, "VEHICLE NO : "+vehicle, "", 0, "L", false, 0, "")
	pdf.CellFormat(62, 5, "USER : "+rep, "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 5, "MONTH  "+preview.MonthLabel, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(132, 5, "TOUR ITINERARY", "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 5, "RUNNING CHART", "", 1, "L", false, 0, "")
}

func (r *ReportPDF) renderItinerary(pdf *gofpdf.Fpdf, rows []model.ItineraryRow) {
	widths := []float64{16, 60, 50, 20, 20, 16}
	headers := []string{"DATE", "CUSTOMER", "DESCRIPTION", "MR START", "MR END", "KMS RUN"}

	pdf.SetFont("Helvetica", "B", 7)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	// Blank-pad short months so the printed grid still reads as a chart.
	minRows := len(rows) + 3
	if minRows < 10 {
		minRows = 10
	}

	pdf.SetFont("Helvetica", "", 7)
	for i := 0; i < minRows; i++ {
		var row model.ItineraryRow
		if i < len(rows) {
			row = rows[i]
		}
		cells := []string{row.Date, row.Customer, row.Description, row.StartMeter, row.EndMeter, row.KmsRun}
		aligns := []string{"L", "L", "L", "C", "C", "C"}
		for j, cell := range cells {
			pdf.CellFormat(widths[j], 4.5, cell, "1", 0, aligns[j], false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func (r *ReportPDF) renderFuelGrid(pdf *gofpdf.Fpdf, fuelRows []model.FuelRow) {
	if pdf.GetY()+40 > 297-15 {
		pdf.AddPage()
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(0, 5, "FUEL PUMPED", "", 1, "L", false, 0, "")

	labelW, slotW := 22.0, 13.3
	grid := [3][]string{{"DATE"}, {"MR"}, {"LTRS"}}
	for i := 0; i < fuelSlots; i++ {
		if i < len(fuelRows) {
			grid[0] = append(grid[0], fuelRows[i].Date)
			grid[1] = append(grid[1], fuelRows[i].Meter)
			grid[2] = append(grid[2], fuelRows[i].Ltrs)
		} else {
			grid[0] = append(grid[0], "")
			grid[1] = append(grid[1], "")
			grid[2] = append(grid[2], "")
		}
	}

	for _, line := range grid {
		pdf.SetFont("Helvetica", "B", 7)
		pdf.CellFormat(labelW, 5, line[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 7)
		for _, cell := range line[1:] {
			pdf.CellFormat(slotW, 5, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// renderSummary draws the two-row derivation table: a, b, c=(a-b), d, e,
// f=(c-d-e), plus the per-litre figures.
func (r *ReportPDF) renderSummary(pdf *gofpdf.Fpdf, s model.ReportSummary) {
	pdf.Ln(2)
	w := 182.0 / 8

	pdf.SetFont("Helvetica", "B", 6)
	codes := []string{"a", "", "b   c=(a-b)", "d", "e", "f=(c-d-e)", "", ""}
	for _, code := range codes {
		pdf.CellFormat(w, 4, code, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	labels := []string{"METER READING @ END OF", "", "TOTAL KMS RUN", "OFFICIAL EXTRA KMS", "PERSONAL USED", "TOTAL LTRS", "AVG KMS PER LTR", "PERSONAL USED LTRS"}
	for _, label := range labels {
		pdf.CellFormat(w, 5, label, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.CellFormat(w, 4, "THIS MONTH", "1", 0, "C", false, 0, "")
	pdf.CellFormat(w, 4, "LAST MONTH", "1", 0, "C", false, 0, "")
	for i := 0; i < 6; i++ {
		pdf.CellFormat(w, 4, "", "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	blankIfZero := func(v int) string {
		if v > 0 {
			return fmt.Sprintf("%d", v)
		}
		return ""
	}
	litersStr := ""
	if s.TotalLiters > 0 {
		litersStr = fmt.Sprintf("%.2f", s.TotalLiters)
	}
	values := []string{
		blankIfZero(s.ThisMonthEnd),
		blankIfZero(s.LastMonthEnd),
		blankIfZero(s.TotalKms),
		blankIfZero(s.OfficialKms),
		blankIfZero(s.PersonalKms),
		litersStr,
		s.AvgKmPerLiter,
		s.PersonalLtrs,
	}
	pdf.SetFont("Helvetica", "", 6)
	for _, v := range values {
		pdf.CellFormat(w, 5, v, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(0, 4, fmt.Sprintf("Summary: %d working day(s) | %d visit(s) | %d km total | %.2f L fuel",
		s.WorkingDays, s.TotalVisits, s.TotalKms, s.TotalLiters), "", 1, "L", false, 0, "")
}

func (r *ReportPDF) renderSignatures(pdf *gofpdf.Fpdf) {
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(96, 5, "USER'S SIGNATURE : ................................", "", 0, "L", false, 0, "")
	pdf.CellFormat(86, 5, "HEAD OF DEPARTMENT : ................................", "", 1, "L", false, 0, "")
}
