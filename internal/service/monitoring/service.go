package monitoring

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/monitoring"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

type MonitoringServiceImpl struct {
	recordRepo attendance.RecordRepository
	userRepo   user.UserRepository
	officeRepo office.OfficeRepository

	now func() time.Time
}

func NewMonitoringService(
	recordRepo attendance.RecordRepository,
	userRepo user.UserRepository,
	officeRepo office.OfficeRepository,
	now func() time.Time,
) monitoring.Service {
	if now == nil {
		now = time.Now
	}
	return &MonitoringServiceImpl{
		recordRepo: recordRepo,
		userRepo:   userRepo,
		officeRepo: officeRepo,
		now:        now,
	}
}

// GetLiveSnapshot implements monitoring.Service. It is a pure read: today's
// records, the roster, and office reference data are fetched in parallel and
// folded into one point-in-time view. Roster members without a record today
// surface as not_started so absentees are visible.
func (s *MonitoringServiceImpl) GetLiveSnapshot(ctx context.Context, branchID *string) (monitoring.LiveSnapshotResponse, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var (
		records []attendance.Record
		roster  []user.User
		offices []office.Office
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		records, err = s.recordRepo.ListByDate(gCtx, today, branchID)
		if err != nil {
			return fmt.Errorf("failed to list today's records: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		roster, err = s.userRepo.ListRoster(gCtx, branchID)
		if err != nil {
			return fmt.Errorf("failed to list roster: %w", err)
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
		return monitoring.LiveSnapshotResponse{}, err
	}

	officesByID := make(map[string]office.Office, len(offices))
	for _, o := range offices {
		officesByID[o.ID] = o
	}

	recordsByUser := make(map[string]attendance.Record, len(records))
	for _, rec := range records {
		recordsByUser[rec.UserID] = rec
	}

	var stats monitoring.LiveStats
	stats.TotalEmployees = len(roster)

	entries := make([]monitoring.LiveEntry, 0, len(roster))
	var hoursSum float64
	var recordCount int

	for _, member := range roster {
		entry := monitoring.LiveEntry{
			UserID:     member.ID,
			UserName:   member.FullName,
			Department: member.Department,
			BranchID:   member.BranchID,
			Status:     attendance.StatusNotStarted,
		}

		rec, ok := recordsByUser[member.ID]
		if !ok {
			stats.AbsentToday++
			entries = append(entries, entry)
			continue
		}

		entry.Status = rec.Status()
		entry.ClockInTime = formatTimePtr(rec.ClockInTime)
		entry.ClockOutTime = formatTimePtr(rec.ClockOutTime)
		entry.IsWithinOffice = rec.IsWithinOffice
		if rec.TotalHours != nil {
			entry.TotalHours = *rec.TotalHours
			hoursSum += *rec.TotalHours
		}
		recordCount++

		if entry.Status == attendance.StatusClockedIn {
			stats.CurrentlyWorking++
		}
		if rec.IsWithinOffice {
			stats.OfficeWorking++
		} else {
			stats.RemoteWorking++
		}

		entry.OnTime = s.onTime(rec, member.BranchID, officesByID)
		if entry.OnTime != nil {
			if *entry.OnTime {
				stats.OnTimeToday++
			} else {
				stats.LateToday++
			}
		}

		entries = append(entries, entry)
	}

	if recordCount > 0 {
		stats.AverageHours = math.Round(hoursSum/float64(recordCount)*100) / 100
	}

	return monitoring.LiveSnapshotResponse{
		Date:        today.Format("2006-01-02"),
		Stats:       stats,
		Attendances: entries,
	}, nil
}

// onTime compares the clock-in against the branch's work-start cutoff.
// Returns nil when the office or its work hours are unknown: the gap is
// logged, not treated as late.
func (s *MonitoringServiceImpl) onTime(rec attendance.Record, branchID *string, officesByID map[string]office.Office) *bool {
	if rec.ClockInTime == nil {
		return nil
	}
	if branchID == nil {
		slog.Warn("attendance record has no branch, skipping on-time check", "user_id", rec.UserID)
		return nil
	}
	o, ok := officesByID[*branchID]
	if !ok {
		slog.Warn("unknown branch on attendance record", "user_id", rec.UserID, "branch_id", *branchID)
		return nil
	}

	localIn := rec.ClockInTime.In(o.Location())
	cutoff, err := o.WorkStartOn(localIn)
	if err != nil {
		slog.Warn("office has invalid work hours", "office_id", o.ID, "error", err)
		return nil
	}

	v := !localIn.After(cutoff)
	return &v
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("2006-01-02 15:04:05")
	return &formatted
}
