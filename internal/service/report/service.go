package report

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type ReportServiceImpl struct {
	recordRepo attendance.RecordRepository
	officeRepo office.OfficeRepository

	now func() time.Time
}

func NewReportService(
	recordRepo attendance.RecordRepository,
	officeRepo office.OfficeRepository,
	now func() time.Time,
) report.Service {
	if now == nil {
		now = time.Now
	}
	return &ReportServiceImpl{
		recordRepo: recordRepo,
		officeRepo: officeRepo,
		now:        now,
	}
}

// GetReport implements report.Service.
func (s *ReportServiceImpl) GetReport(ctx context.Context, filter report.ReportFilter) (report.ReportResponse, error) {
	if err := filter.Validate(); err != nil {
		return report.ReportResponse{}, err
	}

	ref := s.referenceDate(filter.Date)

	start, end, label, err := s.resolveRange(ctx, filter, ref)
	if err != nil {
		return report.ReportResponse{}, err
	}

	var (
		records []attendance.Record
		offices []office.Office
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		records, err = s.recordRepo.ListRange(gCtx, start, end, filter.BranchID, filter.UserID)
		if err != nil {
			return fmt.Errorf("failed to list attendance range: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		offices, err = s.officeRepo.List(gCtx, false)
		if err != nil {
			return fmt.Errorf("failed to list offices: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return report.ReportResponse{}, err
	}

	officesByID := make(map[string]office.Office, len(offices))
	for _, o := range offices {
		officesByID[o.ID] = o
	}

	enriched := make([]report.EnrichedRecord, 0, len(records))
	var summary report.ReportSummary
	branchTallies := make(map[string]*report.BranchSummary)

	// TotalEmployees counts the distinct people represented in the matched
	// records, not the roster: a single-employee report says 1.
	distinctUsers := make(map[string]struct{})
	presentOnRef := make(map[string]struct{})
	var hoursCount int

	for _, rec := range records {
		row := s.enrich(rec, officesByID)
		enriched = append(enriched, row)

		distinctUsers[rec.UserID] = struct{}{}
		if rec.ClockInTime != nil && rec.Date.Equal(ref) {
			presentOnRef[rec.UserID] = struct{}{}
		}

		onTime := s.onTime(rec, officesByID)
		if onTime {
			summary.OnTime++
		}
		if rec.TotalHours != nil {
			summary.TotalHours += *rec.TotalHours
			hoursCount++
		}

		if filter.BranchID == nil && rec.BranchID != nil {
			tally, ok := branchTallies[*rec.BranchID]
			if !ok {
				tally = &report.BranchSummary{BranchID: *rec.BranchID}
				if o, found := officesByID[*rec.BranchID]; found {
					tally.BranchName = o.Name
				} else if rec.BranchName != nil {
					tally.BranchName = *rec.BranchName
				}
				branchTallies[*rec.BranchID] = tally
			}
			tally.TotalRecords++
			if rec.ClockInTime != nil {
				tally.Present++
			}
			if onTime {
				tally.OnTime++
			}
			if rec.TotalHours != nil {
				tally.TotalHours = round2(tally.TotalHours + *rec.TotalHours)
			}
		}
	}

	summary.TotalEmployees = len(distinctUsers)
	summary.PresentToday = len(presentOnRef)
	summary.TotalHours = round2(summary.TotalHours)
	if hoursCount > 0 {
		summary.AverageHours = round2(summary.TotalHours / float64(hoursCount))
	}

	if len(branchTallies) > 0 {
		byBranch := make([]report.BranchSummary, 0, len(branchTallies))
		for _, tally := range branchTallies {
			byBranch = append(byBranch, *tally)
		}
		sort.Slice(byBranch, func(i, j int) bool {
			return byBranch[i].BranchName < byBranch[j].BranchName
		})
		summary.ByBranch = byBranch
	}

	return report.ReportResponse{
		Range:       filter.Range,
		PeriodStart: start.Format("2006-01-02"),
		PeriodEnd:   end.Format("2006-01-02"),
		PeriodLabel: label,
		Summary:     summary,
		Records:     enriched,
	}, nil
}

// referenceDate parses the filter's date, falling back to today (UTC).
func (s *ReportServiceImpl) referenceDate(date *string) time.Time {
	if date != nil && *date != "" {
		if t, ok := validator.IsValidDate(*date); ok {
			return t
		}
	}
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// resolveRange turns a range mode into inclusive start/end dates. week and
// month are rolling windows ending on the reference date; current_period
// follows the pay cycle of the filtered branch, or the calendar month when no
// branch is given.
func (s *ReportServiceImpl) resolveRange(ctx context.Context, filter report.ReportFilter, ref time.Time) (start, end time.Time, label string, err error) {
	switch filter.Range {
	case report.RangeToday:
		return ref, ref, "", nil
	case report.RangeWeek:
		return ref.AddDate(0, 0, -6), ref, "", nil
	case report.RangeMonth:
		return ref.AddDate(0, 0, -29), ref, "", nil
	case report.RangeCurrentPeriod:
		o := office.Office{CycleType: office.CycleCalendar}
		if filter.BranchID != nil && *filter.BranchID != "" {
			o, err = s.officeRepo.GetByID(ctx, *filter.BranchID)
			if err != nil {
				return time.Time{}, time.Time{}, "", err
			}
		}
		p := period.ForOffice(o, ref)
		return p.Start, p.End, p.Label, nil
	default:
		return ref, ref, "", nil
	}
}

// enrich joins one record with office metadata and recomputes whether the
// worked span fell inside the branch's configured work hours. This is a
// stricter check than the on-time cutoff: clocking in at 08:45 against a
// 09:00 start is on time, yet is_within_working_hours is false because part
// of the span lies before work start.
func (s *ReportServiceImpl) enrich(rec attendance.Record, officesByID map[string]office.Office) report.EnrichedRecord {
	row := report.EnrichedRecord{
		RecordID:       rec.ID,
		UserID:         rec.UserID,
		Department:     rec.Department,
		BranchID:       rec.BranchID,
		BranchName:     rec.BranchName,
		Date:           rec.Date.Format("2006-01-02"),
		ClockInTime:    formatTimePtr(rec.ClockInTime),
		ClockOutTime:   formatTimePtr(rec.ClockOutTime),
		IsWithinOffice: rec.IsWithinOffice,
		TotalHours:     rec.TotalHours,
	}
	if rec.UserName != nil {
		row.UserName = *rec.UserName
	}

	if rec.BranchID == nil {
		return row
	}
	o, ok := officesByID[*rec.BranchID]
	if !ok {
		return row
	}

	cycle := string(o.CycleType)
	row.CycleType = &cycle
	if row.BranchName == nil {
		row.BranchName = &o.Name
	}

	if rec.ClockInTime != nil && rec.ClockOutTime != nil {
		localIn := rec.ClockInTime.In(o.Location())
		localOut := rec.ClockOutTime.In(o.Location())
		workStart, startErr := o.WorkStartOn(localIn)
		workEnd, endErr := o.WorkEndOn(localOut)
		if startErr == nil && endErr == nil {
			within := !localIn.Before(workStart) && !localOut.After(workEnd)
			row.IsWithinWorkingHours = &within
		}
	}

	return row
}

// onTime mirrors the live-monitoring cutoff: clock-in at or before the
// branch's work start. Records without a resolvable office never count.
func (s *ReportServiceImpl) onTime(rec attendance.Record, officesByID map[string]office.Office) bool {
	if rec.ClockInTime == nil || rec.BranchID == nil {
		return false
	}
	o, ok := officesByID[*rec.BranchID]
	if !ok {
		return false
	}

	localIn := rec.ClockInTime.In(o.Location())
	cutoff, err := o.WorkStartOn(localIn)
	if err != nil {
		return false
	}
	return !localIn.After(cutoff)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("2006-01-02 15:04:05")
	return &formatted
}
