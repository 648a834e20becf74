package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"fieldtrack/internal/model"
)

// ErrNotARep is returned when a monthly report is requested for a user
// without the rep role.
var ErrNotARep = errors.New("user is not a sales rep")

// ReportService turns a rep + calendar month into the running-chart bundle:
// the day-grouped itinerary table, the fuel table and the derived summary.
// The preview is cached in Redis so the follow-up PDF download renders the
// same data without re-querying.
type ReportService struct {
	db    *gorm.DB
	redis *redis.Client
	fuel  *FuelService
	ttl   time.Duration
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB, redisClient *redis.Client, fuelService *FuelService, cacheTTL time.Duration) *ReportService {
	return &ReportService{db: db, redis: redisClient, fuel: fuelService, ttl: cacheTTL}
}

// MonthWindow returns the [start, end) date strings covering one calendar
// month.
func MonthWindow(year, month int) (string, string) {
	start := fmt.Sprintf("%04d-%02d-01", year, month)
	var end string
	if month == 12 {
		end = fmt.Sprintf("%04d-01-01", year+1)
	} else {
		end = fmt.Sprintf("%04d-%02d-01", year, month+1)
	}
	return start, end
}

// visitWithShop joins the minimal shop display fields onto a visit row.
type visitWithShop struct {
	model.Visit
	ShopName string `gorm:"column:shop_name"`
	ShopTown string `gorm:"column:shop_town"`
}

// BuildMonthly fetches and aggregates one rep-month. Zero logs in the window
// is not an error: tables come back empty and the summary zeroed.
func (s *ReportService) BuildMonthly(ctx context.Context, repID uint, year, month int) (*model.ReportPreview, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}

	var rep model.User
	if err := s.db.WithContext(ctx).First(&rep, repID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("rep %d not found", repID)
		}
		return nil, err
	}
	if rep.Role != model.RoleRep {
		return nil, ErrNotARep
	}

	start, end := MonthWindow(year, month)

	var logs []model.DailyLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND log_date >= ? AND log_date < ?", repID, start, end).
		Order("log_date").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	// The most recent log strictly before the month anchors odometer
	// continuity across month boundaries.
	var prevLog *model.DailyLog
	var prev model.DailyLog
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND log_date < ?", repID, start).
		Order("log_date DESC").
		First(&prev).Error
	if err == nil {
		prevLog = &prev
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var visits []visitWithShop
	if len(logs) > 0 {
		logIDs := make([]uint, len(logs))
		for i, l := range logs {
			logIDs[i] = l.ID
		}
		err = s.db.WithContext(ctx).Model(&model.Visit{}).
			Select("visits.*, shops.name AS shop_name, shops.town AS shop_town").
			Joins("LEFT JOIN shops ON shops.id = visits.shop_id").
			Where("visits.daily_log_id IN ?", logIDs).
			Order("visits.visit_time").
			Scan(&visits).Error
		if err != nil {
			return nil, err
		}
	}

	fuelLogs, err := s.fuel.ListMonth(ctx, repID, year, month)
	if err != nil {
		return nil, err
	}

	preview := buildPreview(&rep, year, month, logs, visits, fuelLogs, prevLog)

	if err := s.cachePreview(ctx, preview); err != nil {
		log.Printf("[Report] Failed to cache preview for rep %d %04d-%02d: %v", repID, year, month, err)
	}

	return preview, nil
}

// buildPreview is the pure aggregation step over already-fetched rows.
func buildPreview(rep *model.User, year, month int, logs []model.DailyLog, visits []visitWithShop, fuelLogs []model.FuelLog, prevLog *model.DailyLog) *model.ReportPreview {
	rows := buildItinerary(logs, visits)
	fuelRows := buildFuelRows(fuelLogs)
	summary := buildSummary(logs, fuelLogs, prevLog)
	summary.TotalVisits = countVisits(logs, visits)
	summary.WorkingDays = len(logs)

	vehicleNo := rep.VehicleNumber
	if vehicleNo == "" {
		vehicleNo = model.NoData
	}

	return &model.ReportPreview{
		RepID:      rep.ID,
		RepName:    rep.FullName,
		VehicleNo:  vehicleNo,
		Year:       year,
		Month:      month,
		MonthLabel: fmt.Sprintf("%s %d", time.Month(month).String(), year),
		Rows:       rows,
		FuelRows:   fuelRows,
		Summary:    summary,
	}
}

// buildItinerary groups visits under their day. A day with no visits gets a
// single placeholder row; a day with N visits gets N rows where only the
// first carries the date, meter readings and distance.
func buildItinerary(logs []model.DailyLog, visits []visitWithShop) []model.ItineraryRow {
	rows := make([]model.ItineraryRow, 0, len(visits)+len(logs))

	for _, dayLog := range logs {
		dateStr := formatDayMonth(dayLog.LogDate)
		startStr := strconv.Itoa(dayLog.StartMeter)
		endStr, kmsStr := "", ""
		if dayLog.EndMeter != nil {
			endStr = strconv.Itoa(*dayLog.EndMeter)
			kmsStr = strconv.Itoa(*dayLog.EndMeter - dayLog.StartMeter)
		}

		dayVisits := visitsForLog(visits, dayLog.ID)
		if len(dayVisits) == 0 {
			rows = append(rows, model.ItineraryRow{
				Date:       dateStr,
				Customer:   "No visits",
				StartMeter: startStr,
				EndMeter:   endStr,
				KmsRun:     kmsStr,
			})
			continue
		}

		for i, v := range dayVisits {
			row := model.ItineraryRow{
				Customer:    v.ShopName,
				Description: v.ShopTown,
			}
			if row.Customer == "" {
				row.Customer = "Unknown"
			}
			if i == 0 {
				row.Date = dateStr
				row.StartMeter = startStr
				row.EndMeter = endStr
				row.KmsRun = kmsStr
			}
			rows = append(rows, row)
		}
	}

	return rows
}

func buildFuelRows(fuelLogs []model.FuelLog) []model.FuelRow {
	rows := make([]model.FuelRow, 0, len(fuelLogs))
	for _, fl := range fuelLogs {
		rows = append(rows, model.FuelRow{
			ID:    fl.ID,
			Date:  formatDayMonth(fl.FillDate),
			Meter: strconv.Itoa(fl.MeterReading),
			Ltrs:  strconv.FormatFloat(fl.Liters, 'f', -1, 64),
		})
	}
	return rows
}

// buildSummary derives the running-chart figures. Total distance is anchored
// to continuous odometer readings (last month's closing reading, falling
// back to the first day's opening reading) rather than summing daily deltas,
// so gaps in logging do not lose distance.
func buildSummary(logs []model.DailyLog, fuelLogs []model.FuelLog, prevLog *model.DailyLog) model.ReportSummary {
	summary := model.ReportSummary{
		AvgKmPerLiter: model.NoData,
		PersonalLtrs:  model.NoData,
	}

	if len(logs) > 0 {
		last := logs[len(logs)-1]
		if last.EndMeter != nil {
			summary.ThisMonthEnd = *last.EndMeter
		}
	}
	if prevLog != nil && prevLog.EndMeter != nil {
		summary.LastMonthEnd = *prevLog.EndMeter
	}

	firstDayStart := 0
	if len(logs) > 0 {
		firstDayStart = logs[0].StartMeter
	}
	if summary.ThisMonthEnd > 0 && (summary.LastMonthEnd > 0 || firstDayStart > 0) {
		anchor := summary.LastMonthEnd
		if anchor == 0 {
			anchor = firstDayStart
		}
		summary.TotalKms = summary.ThisMonthEnd - anchor
	}

	for _, dayLog := range logs {
		summary.PersonalKms += dayLog.PersonalKm
		summary.OfficialKms += dayLog.OfficialKm
	}

	var litersRaw float64
	for _, fl := range fuelLogs {
		litersRaw += fl.Liters
	}
	// Summing entered values accumulates float drift; the chart shows 2dp.
	summary.TotalLiters = math.Round(litersRaw*100) / 100

	if summary.TotalLiters > 0 {
		summary.AvgKmPerLiter = fmt.Sprintf("%.2f", float64(summary.TotalKms)/summary.TotalLiters)
		if summary.TotalKms > 0 {
			summary.PersonalLtrs = fmt.Sprintf("%.2f", float64(summary.PersonalKms)/float64(summary.TotalKms)*summary.TotalLiters)
		}
	}

	return summary
}

func countVisits(logs []model.DailyLog, visits []visitWithShop) int {
	logSet := make(map[uint]bool, len(logs))
	for _, l := range logs {
		logSet[l.ID] = true
	}
	count := 0
	for _, v := range visits {
		if logSet[v.DailyLogID] {
			count++
		}
	}
	return count
}

func visitsForLog(visits []visitWithShop, dailyLogID uint) []visitWithShop {
	var out []visitWithShop
	for _, v := range visits {
		if v.DailyLogID == dailyLogID {
			out = append(out, v)
		}
	}
	return out
}

// formatDayMonth renders a "2006-01-02" date as dd/mm for the chart.
func formatDayMonth(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("02/01")
}

func reportCacheKey(repID uint, year, month int) string {
	return fmt.Sprintf("report:preview:%d:%04d-%02d", repID, year, month)
}

func (s *ReportService) cachePreview(ctx context.Context, preview *model.ReportPreview) error {
	if s.redis == nil {
		return nil
	}
	data, err := json.Marshal(preview)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, reportCacheKey(preview.RepID, preview.Year, preview.Month), data, s.ttl).Err()
}

// CachedPreview returns the cached bundle for the PDF step, or nil on a miss
// (the caller then rebuilds).
func (s *ReportService) CachedPreview(ctx context.Context, repID uint, year, month int) (*model.ReportPreview, error) {
	if s.redis == nil {
		return nil, nil
	}
	data, err := s.redis.Get(ctx, reportCacheKey(repID, year, month)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var preview model.ReportPreview
	if err := json.Unmarshal(data, &preview); err != nil {
		return nil, err
	}
	return &preview, nil
}

// InvalidatePreview drops the cached bundle for one rep-month. Fuel edits
// made outside the report surface call this so a later download does not
// serve stale figures.
func (s *ReportService) InvalidatePreview(ctx context.Context, repID uint, year, month int) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, reportCacheKey(repID, year, month)).Err()
}

// UpdateFuelAndRebuild edits one fill then re-aggregates the whole month.
// There is no incremental patching: the preview is always rebuilt from rows.
func (s *ReportService) UpdateFuelAndRebuild(ctx context.Context, fuelLogID uint, req *model.SaveFuelLogRequest, year, month int) (*model.ReportPreview, error) {
	fuelLog, err := s.fuel.Update(ctx, fuelLogID, req)
	if err != nil {
		return nil, err
	}
	return s.BuildMonthly(ctx, fuelLog.UserID, year, month)
}

// DeleteFuelAndRebuild removes one fill then re-aggregates the whole month.
func (s *ReportService) DeleteFuelAndRebuild(ctx context.Context, fuelLogID uint, year, month int) (*model.ReportPreview, error) {
	fuelLog, err := s.fuel.Get(ctx, fuelLogID)
	if err != nil {
		return nil, err
	}
	if err := s.fuel.Delete(ctx, fuelLogID); err != nil {
		return nil, err
	}
	return s.BuildMonthly(ctx, fuelLog.UserID, year, month)
}
