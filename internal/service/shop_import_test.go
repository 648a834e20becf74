package service

import (
	"context"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"fieldtrack/internal/model"
)

func uintPtr(v uint) *uint { return &v }

func strPtr(s string) *string { return &s }

func TestReconcileUpdatesKnownBpCode(t *testing.T) {
	shops := []model.Shop{
		{ID: 1, Name: "Old Name", BpCode: strPtr("BP100"), AssignedRepID: uintPtr(5)},
	}
	reps := []model.User{
		{ID: 5, FullName: "Isuru Sampath"},
		{ID: 6, FullName: "Kasun Perera"},
	}
	rows := []model.ShopImportRow{
		{RowNum: 2, BpCode: "bp100", Name: "New Name", Address: "12 Main St", RepName: "Kasun Perera"},
	}

	plan := Reconcile(rows, shops, reps)
	if len(plan.Updates) != 1 || len(plan.Inserts) != 0 {
		t.Fatalf("plan: %d updates, %d inserts", len(plan.Updates), len(plan.Inserts))
	}

	up := plan.Updates[0]
	if up.ID != 1 || up.Name != "New Name" || up.Address != "12 Main St" {
		t.Fatalf("update row: %+v", up)
	}
	if up.AssignedRepID == nil || *up.AssignedRepID != 6 {
		t.Fatalf("rep should be reassigned to 6, got %v", up.AssignedRepID)
	}
}

func TestReconcileKeepsAssignmentWhenRepUnresolved(t *testing.T) {
	shops := []model.Shop{
		{ID: 1, Name: "Sunrise Stores", BpCode: strPtr("BP100"), AssignedRepID: uintPtr(5)},
	}
	reps := []model.User{{ID: 5, FullName: "Isuru Sampath"}}

	tests := []struct {
		name    string
		repName string
	}{
		{"blank rep column", ""},
		{"typo rep name", "Nuwan Bandara"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []model.ShopImportRow{{RowNum: 2, BpCode: "BP100", Name: "Sunrise Stores", RepName: tt.repName}}
			plan := Reconcile(rows, shops, reps)
			if len(plan.Updates) != 1 {
				t.Fatalf("expected 1 update, got %d", len(plan.Updates))
			}
			got := plan.Updates[0].AssignedRepID
			if got == nil || *got != 5 {
				t.Fatalf("existing assignment lost: %v", got)
			}
		})
	}
}

func TestReconcileFuzzyRepMatch(t *testing.T) {
	reps := []model.User{
		{ID: 5, FullName: "Isuru Sampath Jayawardana"},
		{ID: 6, FullName: "Kasun Perera"},
	}
	rows := []model.ShopImportRow{
		{RowNum: 2, Name: "Sunrise Stores", RepName: "Isuru Sampath"},
	}

	plan := Reconcile(rows, nil, reps)
	if len(plan.Inserts) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(plan.Inserts))
	}
	got := plan.Inserts[0].AssignedRepID
	if got == nil || *got != 5 {
		t.Fatalf("containment match failed: %v", got)
	}
	if len(plan.UnmatchedReps) != 0 {
		t.Fatalf("unexpected unmatched reps: %v", plan.UnmatchedReps)
	}
}

func TestReconcileDuplicateBpCodeFirstWins(t *testing.T) {
	shops := []model.Shop{
		{ID: 1, Name: "Sunrise Stores", BpCode: strPtr("BP100")},
	}
	rows := []model.ShopImportRow{
		{RowNum: 2, BpCode: "BP100", Name: "First Version"},
		{RowNum: 3, BpCode: "bp100", Name: "Second Version"},
	}

	plan := Reconcile(rows, shops, nil)
	if len(plan.Updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(plan.Updates))
	}
	if plan.Updates[0].Name != "First Version" {
		t.Fatalf("first row should win, got %q", plan.Updates[0].Name)
	}
	if plan.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1", plan.Skipped)
	}
}

func TestReconcileInsertsAndSkips(t *testing.T) {
	rows := []model.ShopImportRow{
		{RowNum: 2, BpCode: "BP900", Name: "Brand New Shop", Phone: "0771234567"},
		{RowNum: 3, Name: "Nameless Code Only Shop"},
		{RowNum: 4, BpCode: "", Name: ""},
		{RowNum: 5, RepName: "Somebody"},
	}

	plan := Reconcile(rows, nil, nil)
	if len(plan.Inserts) != 2 {
		t.Fatalf("expected 2 inserts, got %d", len(plan.Inserts))
	}
	if plan.Skipped != 2 {
		t.Fatalf("Skipped = %d, want 2", plan.Skipped)
	}
	if plan.Inserts[0].BpCode == nil || *plan.Inserts[0].BpCode != "BP900" {
		t.Fatalf("insert kept its bp_code: %+v", plan.Inserts[0])
	}
	if len(plan.UnmatchedReps) != 1 || plan.UnmatchedReps[0] != "Somebody" {
		t.Fatalf("unmatched reps: %v", plan.UnmatchedReps)
	}
}

func TestReconcileShortRepNameNotFuzzyMatched(t *testing.T) {
	reps := []model.User{{ID: 5, FullName: "Sam"}}
	rows := []model.ShopImportRow{
		{RowNum: 2, Name: "Sunrise Stores", RepName: "Samantha Silva"},
	}

	plan := Reconcile(rows, nil, reps)
	if plan.Inserts[0].AssignedRepID != nil {
		t.Fatalf("3-letter roster name should not containment-match")
	}
	// Exact match still works regardless of length.
	rows[0].RepName = "sam"
	plan = Reconcile(rows, nil, reps)
	if got := plan.Inserts[0].AssignedRepID; got == nil || *got != 5 {
		t.Fatalf("exact match failed for short name: %v", got)
	}
}

func TestRowsFromCellsHeaderAliases(t *testing.T) {
	cells := [][]string{
		{"BP", "Shop", "Phone", "Assigned Rep"},
		{"BP100", "Sunrise Stores", "0771234567", "Isuru Sampath"},
		{"", "", "", ""},
		{"BP200", "City Mart", "", ""},
	}

	rows, err := rowsFromCells(cells)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("blank row should be dropped, got %d rows", len(rows))
	}
	if rows[0].BpCode != "BP100" || rows[0].Name != "Sunrise Stores" || rows[0].Phone != "0771234567" || rows[0].RepName != "Isuru Sampath" {
		t.Fatalf("alias extraction: %+v", rows[0])
	}
	if rows[1].RowNum != 4 {
		t.Fatalf("RowNum = %d, want the spreadsheet row 4", rows[1].RowNum)
	}
}

func TestRowsFromCellsRejectsUnrecognizedHeaders(t *testing.T) {
	cells := [][]string{
		{"Foo", "Bar"},
		{"x", "y"},
	}
	if _, err := rowsFromCells(cells); err == nil {
		t.Fatalf("expected error for unrecognized headers")
	}
}

// apply must write the whole update set as one batched statement rather than
// one round trip per shop.
func TestApplyBatchesUpdatesAndInserts(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true, SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	svc := NewShopImportService(db, NewEventPublisher(nil))

	plan := ShopImportPlan{
		Updates: []model.Shop{
			{ID: 1, Name: "Sunrise Stores", BpCode: strPtr("BP100"), AssignedRepID: uintPtr(5)},
			{ID: 2, Name: "City Mart", BpCode: strPtr("BP200")},
		},
		Inserts: []model.Shop{
			{Name: "New Corner Shop", BpCode: strPtr("BP300")},
		},
		Skipped: 1,
	}

	result, err := svc.apply(context.Background(), plan)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Updated != 2 || result.Inserted != 1 || result.Skipped != 1 {
		t.Fatalf("result = %+v, want 2 updated, 1 inserted, 1 skipped", result)
	}
}
