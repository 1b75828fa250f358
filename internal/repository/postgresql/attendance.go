package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type recordRepository struct {
	db *database.DB
}

func NewRecordRepository(db *database.DB) attendance.RecordRepository {
	return &recordRepository{db: db}
}

const recordColumns = `
	a.id, a.user_id, a.date,
	a.clock_in_time, a.clock_in_latitude, a.clock_in_longitude, a.clock_in_accuracy,
	a.clock_out_time, a.clock_out_latitude, a.clock_out_longitude, a.clock_out_accuracy,
	a.is_within_office, a.total_hours,
	a.created_at, a.updated_at`

func scanRecord(row pgx.Row, rec *attendance.Record) error {
	return row.Scan(
		&rec.ID, &rec.UserID, &rec.Date,
		&rec.ClockInTime, &rec.ClockInLatitude, &rec.ClockInLongitude, &rec.ClockInAccuracy,
		&rec.ClockOutTime, &rec.ClockOutLatitude, &rec.ClockOutLongitude, &rec.ClockOutAccuracy,
		&rec.IsWithinOffice, &rec.TotalHours,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
}

// Create implements attendance.RecordRepository. The attendances table carries
// a unique constraint on (user_id, date); the upsert only fills a same-day row
// whose clock_in_time is still null, so of two concurrent check-ins exactly
// one row survives and the loser surfaces as ErrAlreadyCheckedIn.
func (r *recordRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	query := `
		INSERT INTO attendances (
			id, user_id, date,
			clock_in_time, clock_in_latitude, clock_in_longitude, clock_in_accuracy,
			is_within_office
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (user_id, date) DO UPDATE
		SET clock_in_time = EXCLUDED.clock_in_time,
		    clock_in_latitude = EXCLUDED.clock_in_latitude,
		    clock_in_longitude = EXCLUDED.clock_in_longitude,
		    clock_in_accuracy = EXCLUDED.clock_in_accuracy,
		    is_within_office = EXCLUDED.is_within_office,
		    updated_at = NOW()
		WHERE attendances.clock_in_time IS NULL
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Date,
		rec.ClockInTime,
		rec.ClockInLatitude,
		rec.ClockInLongitude,
		rec.ClockInAccuracy,
		rec.IsWithinOffice,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return rec, nil
}

// Update implements attendance.RecordRepository.
func (r *recordRepository) Update(ctx context.Context, rec attendance.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET clock_out_time = $1,
		    clock_out_latitude = $2,
		    clock_out_longitude = $3,
		    clock_out_accuracy = $4,
		    total_hours = $5,
		    updated_at = $6
		WHERE id = $7
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		rec.ClockOutTime,
		rec.ClockOutLatitude,
		rec.ClockOutLongitude,
		rec.ClockOutAccuracy,
		rec.TotalHours,
		time.Now(),
		rec.ID,
	).Scan(&updatedID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrRecordNotFound
		}
		return fmt.Errorf("failed to update attendance record: %w", err)
	}

	return nil
}

// GetByUserAndDate implements attendance.RecordRepository.
func (r *recordRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + recordColumns + `
		FROM attendances a
		WHERE a.user_id = $1
		  AND a.date = $2
		ORDER BY a.created_at DESC
		LIMIT 1
	`

	var rec attendance.Record
	err := scanRecord(q.QueryRow(ctx, query, userID, date), &rec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	return &rec, nil
}

// ListByDate implements attendance.RecordRepository.
func (r *recordRepository) ListByDate(ctx context.Context, date time.Time, branchID *string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + recordColumns + `,
			u.full_name AS user_name,
			u.department,
			u.branch_id
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.date = $1
	`
	args := []interface{}{date}
	if branchID != nil && *branchID != "" {
		query += " AND u.branch_id = $2"
		args = append(args, *branchID)
	}
	query += " ORDER BY a.clock_in_time ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances by date: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Date,
			&rec.ClockInTime, &rec.ClockInLatitude, &rec.ClockInLongitude, &rec.ClockInAccuracy,
			&rec.ClockOutTime, &rec.ClockOutLatitude, &rec.ClockOutLongitude, &rec.ClockOutAccuracy,
			&rec.IsWithinOffice, &rec.TotalHours,
			&rec.CreatedAt, &rec.UpdatedAt,
			&rec.UserName, &rec.Department, &rec.BranchID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendances by date: %w", err)
	}

	return records, nil
}

// ListRange implements attendance.RecordRepository.
func (r *recordRepository) ListRange(ctx context.Context, start, end time.Time, branchID, userID *string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "a.date >= $1 AND a.date <= $2"
	args := []interface{}{start, end}
	argIdx := 3

	if branchID != nil && *branchID != "" {
		baseWhere += fmt.Sprintf(" AND u.branch_id = $%d", argIdx)
		args = append(args, *branchID)
		argIdx++
	}
	if userID != nil && *userID != "" {
		baseWhere += fmt.Sprintf(" AND a.user_id = $%d", argIdx)
		args = append(args, *userID)
		argIdx++
	}

	query := `
		SELECT` + recordColumns + `,
			u.full_name AS user_name,
			u.department,
			u.branch_id,
			o.name AS branch_name
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		LEFT JOIN offices o ON o.id = u.branch_id
		WHERE ` + baseWhere + `
		ORDER BY a.date DESC, a.clock_in_time ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance range: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Date,
			&rec.ClockInTime, &rec.ClockInLatitude, &rec.ClockInLongitude, &rec.ClockInAccuracy,
			&rec.ClockOutTime, &rec.ClockOutLatitude, &rec.ClockOutLongitude, &rec.ClockOutAccuracy,
			&rec.IsWithinOffice, &rec.TotalHours,
			&rec.CreatedAt, &rec.UpdatedAt,
			&rec.UserName, &rec.Department, &rec.BranchID, &rec.BranchName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance range: %w", err)
	}

	return records, nil
}

// ListByUser implements attendance.RecordRepository.
func (r *recordRepository) ListByUser(ctx context.Context, userID string, start, end *time.Time, page, limit int) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "a.user_id = $1"
	args := []interface{}{userID}
	argIdx := 2

	if start != nil {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *start)
		argIdx++
	}
	if end != nil {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *end)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT`+recordColumns+`
		FROM attendances a
		WHERE %s
		ORDER BY a.date DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	if limit == 0 {
		limit = 20
	}
	offset := (page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Date,
			&rec.ClockInTime, &rec.ClockInLatitude, &rec.ClockInLongitude, &rec.ClockInAccuracy,
			&rec.ClockOutTime, &rec.ClockOutLatitude, &rec.ClockOutLongitude, &rec.ClockOutAccuracy,
			&rec.IsWithinOffice, &rec.TotalHours,
			&rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read attendances: %w", err)
	}

	return records, total, nil
}
