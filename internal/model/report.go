package model

// NoData marks summary values that cannot be derived (e.g. km/l with no fuel
// logged). The PDF and the preview render it verbatim.
const NoData = "—"

// ItineraryRow is one printed line of the tour itinerary table. Days are
// grouped visually: only the first row of a day carries the date, meter
// readings and distance; follow-up rows for the same day leave them blank.
type ItineraryRow struct {
	Date        string `json:"date"`
	Customer    string `json:"customer"`
	Description string `json:"description"`
	StartMeter  string `json:"start_meter"`
	EndMeter    string `json:"end_meter"`
	KmsRun      string `json:"kms_run"`
}

// FuelRow is one printed fuel fill.
type FuelRow struct {
	ID    uint   `json:"id"`
	Date  string `json:"date"` // dd/mm
	Meter string `json:"mr"`
	Ltrs  string `json:"ltrs"`
}

// ReportSummary is the derived block under the running chart.
type ReportSummary struct {
	ThisMonthEnd  int     `json:"this_month_end"`
	LastMonthEnd  int     `json:"last_month_end"`
	TotalKms      int     `json:"total_kms"`
	OfficialKms   int     `json:"official_kms"`
	PersonalKms   int     `json:"personal_kms"`
	TotalLiters   float64 `json:"total_liters"`
	AvgKmPerLiter string  `json:"avg_km_per_liter"` // 2dp or NoData
	PersonalLtrs  string  `json:"personal_ltrs"`    // 2dp or NoData
	WorkingDays   int     `json:"working_days"`
	TotalVisits   int     `json:"total_visits"`
}

// ReportPreview is the full month bundle: rendered on screen as-is and
// consumed unchanged by the PDF renderer.
type ReportPreview struct {
	RepID      uint           `json:"rep_id"`
	RepName    string         `json:"rep_name"`
	VehicleNo  string         `json:"vehicle_no"`
	Year       int            `json:"year"`
	Month      int            `json:"month"`
	MonthLabel string         `json:"month_label"` // e.g. "March 2026"
	Rows       []ItineraryRow `json:"rows"`
	FuelRows   []FuelRow      `json:"fuel_rows"`
	Summary    ReportSummary  `json:"summary"`
}
