package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
)

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.RecordRepository
	office.OfficeRepository
	policy     string
	defaultLoc *time.Location

	// now supplies the reference time for every transition. Injected so the
	// state machine is deterministic under test; production wiring passes
	// time.Now.
	now func() time.Time
}

func NewAttendanceService(
	db *database.DB,
	recordRepo attendance.RecordRepository,
	officeRepo office.OfficeRepository,
	cfg config.AttendanceConfig,
	now func() time.Time,
) attendance.Service {
	loc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{
		db:               db,
		RecordRepository: recordRepo,
		OfficeRepository: officeRepo,
		policy:           cfg.CheckInPolicy,
		defaultLoc:       loc,
		now:              now,
	}
}

// inTx runs fn inside a database transaction, threading the tx through the
// context so repository calls pick it up. Without a pool (fake repositories
// under test) fn runs directly.
func (a *AttendanceServiceImpl) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if a.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, "tx", tx))
	})
}

// identityFromContext extracts the authenticated identity from JWT claims.
func identityFromContext(ctx context.Context) (userID string, branchID *string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", nil, fmt.Errorf("user_id claim is missing or invalid")
	}

	if b, ok := claims["branch_id"].(string); ok && b != "" {
		branchID = &b
	}

	return userID, branchID, nil
}

// dayContext resolves "today" for a user: the wall clock in the user's branch
// timezone and the UTC-midnight date used as the record key. The date is
// always derived server-side so it cannot be manipulated by the client.
func (a *AttendanceServiceImpl) dayContext(branchID *string, offices []office.Office) (nowUTC time.Time, dateKey time.Time) {
	nowUTC = a.now().UTC()

	loc := a.defaultLoc
	if branchID != nil {
		for _, o := range offices {
			if o.ID == *branchID {
				loc = o.Location()
				break
			}
		}
	}

	nowLocal := nowUTC.In(loc)
	dateKey = time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC)
	return nowUTC, dateKey
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CheckIn implements attendance.Service.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}

	userID, branchID, err := identityFromContext(ctx)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	offices, err := a.OfficeRepository.List(ctx, true)
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to list active offices: %w", err)
	}

	nowUTC, dateKey := a.dayContext(branchID, offices)

	existing, err := a.RecordRepository.GetByUserAndDate(ctx, userID, dateKey)
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to get attendance for today: %w", err)
	}
	if existing != nil && existing.ClockInTime != nil {
		return attendance.CheckInResponse{}, attendance.ErrAlreadyCheckedIn
	}

	withinOffice := geo.IsWithinOffice(*req.Latitude, *req.Longitude, offices)
	if !withinOffice && a.policy == config.PolicyReject {
		if len(offices) == 0 {
			return attendance.CheckInResponse{}, attendance.ErrNoActiveOffice
		}
		return attendance.CheckInResponse{}, attendance.ErrOutsideOfficeRadius
	}
	if len(offices) == 0 {
		slog.Warn("check-in accepted with no active office configured", "user_id", userID)
	}

	rec := attendance.Record{
		UserID:           userID,
		Date:             dateKey,
		ClockInTime:      &nowUTC,
		ClockInLatitude:  req.Latitude,
		ClockInLongitude: req.Longitude,
		ClockInAccuracy:  req.AccuracyMeters,
		IsWithinOffice:   withinOffice,
	}

	created, err := a.RecordRepository.Create(ctx, rec)
	if err != nil {
		// The unique (user_id, date) constraint turns the concurrent
		// double-check-in race into ErrAlreadyCheckedIn here.
		if err == attendance.ErrAlreadyCheckedIn {
			return attendance.CheckInResponse{}, err
		}
		return attendance.CheckInResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	resp := attendance.CheckInResponse{Record: attendance.ToResponse(created)}
	if nearest, dist := geo.NearestOffice(*req.Latitude, *req.Longitude, offices); nearest != nil {
		d := round2(dist)
		resp.NearestOfficeID = &nearest.ID
		resp.NearestOfficeName = &nearest.Name
		resp.DistanceMeters = &d
	}

	return resp, nil
}

// CheckOut implements attendance.Service.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	userID, branchID, err := identityFromContext(ctx)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	offices, err := a.OfficeRepository.List(ctx, true)
	if err != nil {
		return attendance.CheckOutResponse{}, fmt.Errorf("failed to list active offices: %w", err)
	}

	nowUTC, dateKey := a.dayContext(branchID, offices)

	// Reported to the caller only: the flag frozen at check-in stays as-is.
	checkOutWithin := geo.IsWithinOffice(*req.Latitude, *req.Longitude, offices)

	// The read, precondition checks and update run in one transaction so two
	// concurrent check-outs cannot both pass the ClockOutTime guard.
	var resp attendance.CheckOutResponse
	err = a.inTx(ctx, func(ctx context.Context) error {
		rec, err := a.RecordRepository.GetByUserAndDate(ctx, userID, dateKey)
		if err != nil {
			return fmt.Errorf("failed to get attendance for today: %w", err)
		}
		if rec == nil || rec.ClockInTime == nil {
			return attendance.ErrNotCheckedIn
		}
		if rec.ClockOutTime != nil {
			return attendance.ErrAlreadyCheckedOut
		}

		hours := nowUTC.Sub(*rec.ClockInTime).Hours()
		if hours < 0 {
			slog.Warn("negative work duration clamped to zero",
				"user_id", userID,
				"clock_in", rec.ClockInTime.Format(time.RFC3339),
				"clock_out", nowUTC.Format(time.RFC3339),
			)
			hours = 0
		}
		totalHours := round2(hours)

		rec.ClockOutTime = &nowUTC
		rec.ClockOutLatitude = req.Latitude
		rec.ClockOutLongitude = req.Longitude
		rec.ClockOutAccuracy = req.AccuracyMeters
		rec.TotalHours = &totalHours

		if err := a.RecordRepository.Update(ctx, *rec); err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}

		resp = attendance.CheckOutResponse{
			Record:               attendance.ToResponse(*rec),
			TotalHours:           totalHours,
			CheckOutWithinOffice: checkOutWithin,
		}
		return nil
	})
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	return resp, nil
}

// GetStatus implements attendance.Service.
func (a *AttendanceServiceImpl) GetStatus(ctx context.Context) (attendance.StatusResponse, error) {
	userID, branchID, err := identityFromContext(ctx)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	offices, err := a.OfficeRepository.List(ctx, true)
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to list active offices: %w", err)
	}

	_, dateKey := a.dayContext(branchID, offices)

	rec, err := a.RecordRepository.GetByUserAndDate(ctx, userID, dateKey)
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to get attendance for today: %w", err)
	}

	resp := attendance.StatusResponse{
		CanCheckIn: rec == nil || rec.ClockInTime == nil,
	}
	if rec != nil {
		r := attendance.ToResponse(*rec)
		resp.Record = &r
		resp.CanCheckOut = rec.IsOpen()
	}

	return resp, nil
}

// GetHistory implements attendance.Service.
func (a *AttendanceServiceImpl) GetHistory(ctx context.Context, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.HistoryResponse{}, err
	}

	userID, _, err := identityFromContext(ctx)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}

	var start, end *time.Time
	if filter.StartDate != nil && *filter.StartDate != "" {
		if t, ok := validator.IsValidDate(*filter.StartDate); ok {
			start = &t
		}
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		if t, ok := validator.IsValidDate(*filter.EndDate); ok {
			end = &t
		}
	}

	records, total, err := a.RecordRepository.ListByUser(ctx, userID, start, end, filter.Page, filter.Limit)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to list attendance history: %w", err)
	}

	var summary attendance.HistorySummary
	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.ToResponse(rec))
		if rec.ClockInTime != nil {
			summary.DaysPresent++
		}
		if rec.IsWithinOffice {
			summary.DaysWithinOffice++
		}
		if rec.TotalHours != nil {
			summary.TotalHours += *rec.TotalHours
		}
	}
	summary.TotalHours = round2(summary.TotalHours)
	if summary.DaysPresent > 0 {
		summary.AverageHours = round2(summary.TotalHours / float64(summary.DaysPresent))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return attendance.HistoryResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Summary:    summary,
		Records:    responses,
	}, nil
}
