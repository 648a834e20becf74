package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/lib/pq"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fieldtrack/internal/model"
)

// Insert batch size for new shops queued by an import.
const importInsertBatchSize = 100

// Shortest rep name eligible for containment matching. Anything shorter
// matches too freely to trust.
const minFuzzyRepNameLen = 4

// ShopImportService reconciles spreadsheet rows against the shop registry:
// known bp_codes become updates, new named rows become inserts, everything
// else is skipped.
type ShopImportService struct {
	db     *gorm.DB
	events *EventPublisher
}

// NewShopImportService creates a new shop import service
func NewShopImportService(db *gorm.DB, events *EventPublisher) *ShopImportService {
	return &ShopImportService{db: db, events: events}
}

// ShopImportPlan is the reconciler's decision for one batch, ready to apply.
type ShopImportPlan struct {
	Updates       []model.Shop
	Inserts       []model.Shop
	Skipped       int
	UnmatchedReps []string
}

// GenerateImportTemplate builds the blank spreadsheet admins fill in.
func (s *ShopImportService) GenerateImportTemplate() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Shops"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"BP Code", "Shop Name", "Address", "Phone Number", "Assigned Rep Name"}
	examples := []string{"BP10023", "Sunrise Stores", "12 Main St, Galle", "0771234567", "Isuru Sampath"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}
	for i, example := range examples {
		cell := fmt.Sprintf("%c2", 'A'+i)
		f.SetCellValue(sheetName, cell, example)
	}
	for i := range headers {
		col := string(rune('A' + i))
		f.SetColWidth(sheetName, col, col, 24)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

// ParseExcel reads rows from the first sheet of an uploaded workbook.
func (s *ShopImportService) ParseExcel(reader io.Reader) ([]model.ShopImportRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("could not read spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", sheets[0], err)
	}
	return rowsFromCells(rows)
}

// ParseCSV reads rows from an uploaded CSV file.
func (s *ShopImportService) ParseCSV(reader io.Reader) ([]model.ShopImportRow, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var cells [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read CSV: %w", err)
		}
		cells = append(cells, record)
	}
	return rowsFromCells(cells)
}

// rowsFromCells turns a header row plus data rows into loosely-keyed import
// rows, resolving the header aliases once up front.
func rowsFromCells(cells [][]string) ([]model.ShopImportRow, error) {
	if len(cells) < 2 {
		return nil, fmt.Errorf("file needs a header row and at least one data row")
	}

	headerIdx := make(map[string]int)
	for i, cell := range cells[0] {
		headerIdx[strings.ToLower(strings.TrimSpace(cell))] = i
	}

	fieldIdx := make(map[string]int)
	for field, aliases := range model.ImportHeaderAliases {
		for _, alias := range aliases {
			if idx, ok := headerIdx[strings.ToLower(alias)]; ok {
				fieldIdx[field] = idx
				break
			}
		}
	}
	if _, ok := fieldIdx["bp_code"]; !ok {
		if _, nameOK := fieldIdx["name"]; !nameOK {
			return nil, fmt.Errorf("no recognizable columns found; expected at least a BP Code or Shop Name header")
		}
	}

	pick := func(row []string, field string) string {
		idx, ok := fieldIdx[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var out []model.ShopImportRow
	for i := 1; i < len(cells); i++ {
		row := cells[i]
		if len(row) == 0 || isBlankRow(row) {
			continue
		}
		out = append(out, model.ShopImportRow{
			RowNum:  i + 1,
			BpCode:  pick(row, "bp_code"),
			RepName: pick(row, "rep"),
			Name:    pick(row, "name"),
			Address: pick(row, "address"),
			Phone:   pick(row, "phone"),
		})
	}
	return out, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Reconcile decides what each row becomes. Pure: it sees only the rows, the
// current shops and the rep roster.
//
// A row whose bp_code matches an existing shop becomes an update; the rep
// assignment is only touched when the row's rep name resolves, so a typo in a
// spreadsheet never blanks a working assignment. A row with no bp_code match
// but a name becomes an insert (with or without a rep). Rows with neither are
// skipped. The first row wins when a batch repeats a bp_code.
func Reconcile(rows []model.ShopImportRow, shops []model.Shop, reps []model.User) ShopImportPlan {
	var plan ShopImportPlan

	shopsByCode := make(map[string]model.Shop, len(shops))
	for _, shop := range shops {
		if shop.BpCode != nil && *shop.BpCode != "" {
			shopsByCode[strings.ToLower(*shop.BpCode)] = shop
		}
	}

	// Sorted so containment matching is deterministic when several rep
	// names could claim the same row.
	sortedReps := make([]model.User, len(reps))
	copy(sortedReps, reps)
	sort.Slice(sortedReps, func(i, j int) bool {
		return sortedReps[i].FullName < sortedReps[j].FullName
	})

	unmatched := make(map[string]bool)
	processed := make(map[string]bool)

	for _, row := range rows {
		repID := resolveRep(row.RepName, sortedReps)
		if row.RepName != "" && repID == nil {
			unmatched[row.RepName] = true
		}

		code := strings.ToLower(row.BpCode)
		if code != "" {
			if processed[code] {
				plan.Skipped++
				continue
			}
			if existing, ok := shopsByCode[code]; ok {
				processed[code] = true
				if row.Name != "" {
					existing.Name = row.Name
				}
				if row.Address != "" {
					existing.Address = row.Address
				}
				if row.Phone != "" {
					existing.Phone = row.Phone
				}
				if repID != nil {
					existing.AssignedRepID = repID
				}
				plan.Updates = append(plan.Updates, existing)
				continue
			}
		}

		if row.Name == "" {
			plan.Skipped++
			continue
		}

		if code != "" {
			processed[code] = true
		}
		shop := model.Shop{
			Name:          row.Name,
			Address:       row.Address,
			Phone:         row.Phone,
			AssignedRepID: repID,
		}
		if row.BpCode != "" {
			bp := row.BpCode
			shop.BpCode = &bp
		}
		plan.Inserts = append(plan.Inserts, shop)
	}

	for name := range unmatched {
		plan.UnmatchedReps = append(plan.UnmatchedReps, name)
	}
	sort.Strings(plan.UnmatchedReps)

	return plan
}

// resolveRep maps a spreadsheet rep name to a roster user. Exact match
// (case-insensitive, trimmed) wins; otherwise either name containing the
// other counts, provided the roster name is long enough to be distinctive.
func resolveRep(name string, sortedReps []model.User) *uint {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}

	for _, rep := range sortedReps {
		if strings.ToLower(strings.TrimSpace(rep.FullName)) == needle {
			id := rep.ID
			return &id
		}
	}
	for _, rep := range sortedReps {
		candidate := strings.ToLower(strings.TrimSpace(rep.FullName))
		if len(candidate) < minFuzzyRepNameLen {
			continue
		}
		if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
			id := rep.ID
			return &id
		}
	}
	return nil
}

// Import parses nothing; it takes already-parsed rows, reconciles them
// against current data and applies the plan.
func (s *ShopImportService) Import(ctx context.Context, rows []model.ShopImportRow) (*model.ShopImportResult, error) {
	var shops []model.Shop
	if err := s.db.WithContext(ctx).Where("bp_code IS NOT NULL").Find(&shops).Error; err != nil {
		return nil, err
	}
	var reps []model.User
	if err := s.db.WithContext(ctx).Select("id", "full_name").Where("role = ?", model.RoleRep).Find(&reps).Error; err != nil {
		return nil, err
	}

	plan := Reconcile(rows, shops, reps)
	result, err := s.apply(ctx, plan)
	if err != nil {
		return nil, err
	}

	s.events.ImportCompleted(ImportEvent{
		Updated:   result.Updated,
		Inserted:  result.Inserted,
		Skipped:   result.Skipped,
		Unmatched: len(result.UnmatchedReps),
	})
	return result, nil
}

// apply writes the plan: one batched upsert for updates, batched inserts for
// new shops.
func (s *ShopImportService) apply(ctx context.Context, plan ShopImportPlan) (*model.ShopImportResult, error) {
	result := &model.ShopImportResult{
		Skipped:       plan.Skipped,
		UnmatchedReps: plan.UnmatchedReps,
	}

	if len(plan.Updates) > 0 {
		// Reconcile queues the full existing row with fields merged in, so
		// assigning every column here cannot blank a preserved rep
		// assignment.
		updates := plan.Updates
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "address", "phone", "assigned_rep_id", "updated_at"}),
		}).Create(&updates).Error
		if err != nil {
			return nil, fmt.Errorf("updating shops: %w", err)
		}
		result.Updated = len(updates)
	}

	if len(plan.Inserts) > 0 {
		inserts := plan.Inserts
		err := s.db.WithContext(ctx).CreateInBatches(&inserts, importInsertBatchSize).Error
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
				return nil, fmt.Errorf("import collided with an existing bp_code: %s", pqErr.Detail)
			}
			return nil, fmt.Errorf("inserting shops: %w", err)
		}
		result.Inserted = len(inserts)
	}

	if len(result.UnmatchedReps) > 0 {
		shown := result.UnmatchedReps
		suffix := ""
		if len(shown) > 3 {
			suffix = fmt.Sprintf(" and %d more", len(shown)-3)
			shown = shown[:3]
		}
		result.Warning = fmt.Sprintf("unrecognized rep name(s): %s%s; those rows kept their existing assignment", strings.Join(shown, ", "), suffix)
		log.Printf("[Import] %s", result.Warning)
	}

	return result, nil
}
