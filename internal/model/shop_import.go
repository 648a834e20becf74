package model

// ShopImportRow is one spreadsheet row with loosely-keyed fields already
// extracted through the header aliases. Empty strings mean the column was
// absent or blank.
type ShopImportRow struct {
	RowNum  int    `json:"row_num"`
	BpCode  string `json:"bp_code"`
	RepName string `json:"rep_name"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Per-row dispositions decided by the reconciler.
const (
	ImportDispositionUpdate = "update"
	ImportDispositionInsert = "insert"
	ImportDispositionSkip   = "skip"
)

// ShopImportResult is the aggregate outcome of one import batch. Unmatched
// rep names are a warning, not an error: those rows still import with no rep
// assigned (updates keep their existing assignment).
type ShopImportResult struct {
	Updated       int      `json:"updated"`
	Inserted      int      `json:"inserted"`
	Skipped       int      `json:"skipped"`
	UnmatchedReps []string `json:"unmatched_reps,omitempty"`
	Warning       string   `json:"warning,omitempty"`
}

// ImportHeaderAliases maps each logical import field to the accepted header
// spellings, in first-match-wins order.
var ImportHeaderAliases = map[string][]string{
	"bp_code": {"BP Code", "bp_code", "BP", "Code"},
	"rep":     {"Assigned Rep Name", "Assigned Rep", "assigned_rep_name", "Rep"},
	"name":    {"Shop Name", "shop_name", "name", "Shop"},
	"address": {"Address", "address"},
	"phone":   {"Phone Number", "phone_number", "phone", "Phone"},
}
