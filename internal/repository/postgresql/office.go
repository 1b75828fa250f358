package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type officeRepository struct {
	db *database.DB
}

func NewOfficeRepository(db *database.DB) office.OfficeRepository {
	return &officeRepository{db: db}
}

const officeColumns = `
	id, name, latitude, longitude, radius_meters, is_active,
	work_start_time, work_end_time, timezone, cycle_type, cycle_start_day,
	created_at, updated_at`

func scanOffice(row pgx.Row, o *office.Office) error {
	return row.Scan(
		&o.ID, &o.Name, &o.Latitude, &o.Longitude, &o.RadiusMeters, &o.IsActive,
		&o.WorkStartTime, &o.WorkEndTime, &o.Timezone, &o.CycleType, &o.CycleStartDay,
		&o.CreatedAt, &o.UpdatedAt,
	)
}

// Create implements office.OfficeRepository.
func (r *officeRepository) Create(ctx context.Context, o office.Office) (office.Office, error) {
	q := GetQuerier(ctx, r.db)

	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	query := `
		INSERT INTO offices (
			id, name, latitude, longitude, radius_meters, is_active,
			work_start_time, work_end_time, timezone, cycle_type, cycle_start_day
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		o.ID, o.Name, o.Latitude, o.Longitude, o.RadiusMeters, o.IsActive,
		o.WorkStartTime, o.WorkEndTime, o.Timezone, o.CycleType, o.CycleStartDay,
	).Scan(&o.CreatedAt, &o.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return office.Office{}, office.ErrNameExists
		}
		return office.Office{}, fmt.Errorf("failed to create office: %w", err)
	}

	return o, nil
}

// GetByID implements office.OfficeRepository.
func (r *officeRepository) GetByID(ctx context.Context, id string) (office.Office, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + officeColumns + ` FROM offices WHERE id = $1`

	var o office.Office
	if err := scanOffice(q.QueryRow(ctx, query, id), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return office.Office{}, office.ErrOfficeNotFound
		}
		return office.Office{}, fmt.Errorf("failed to get office by ID: %w", err)
	}

	return o, nil
}

// List implements office.OfficeRepository.
func (r *officeRepository) List(ctx context.Context, activeOnly bool) ([]office.Office, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + officeColumns + ` FROM offices`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query offices: %w", err)
	}
	defer rows.Close()

	var offices []office.Office
	for rows.Next() {
		var o office.Office
		err := rows.Scan(
			&o.ID, &o.Name, &o.Latitude, &o.Longitude, &o.RadiusMeters, &o.IsActive,
			&o.WorkStartTime, &o.WorkEndTime, &o.Timezone, &o.CycleType, &o.CycleStartDay,
			&o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan office: %w", err)
		}
		offices = append(offices, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read offices: %w", err)
	}

	return offices, nil
}

// Update implements office.OfficeRepository.
func (r *officeRepository) Update(ctx context.Context, req office.UpdateOfficeRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	argIdx := 1

	appendUpdate := func(column string, value interface{}) {
		updates = append(updates, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.Name != nil {
		appendUpdate("name", *req.Name)
	}
	if req.Latitude != nil {
		appendUpdate("latitude", *req.Latitude)
	}
	if req.Longitude != nil {
		appendUpdate("longitude", *req.Longitude)
	}
	if req.RadiusMeters != nil {
		appendUpdate("radius_meters", *req.RadiusMeters)
	}
	if req.IsActive != nil {
		appendUpdate("is_active", *req.IsActive)
	}
	if req.WorkStartTime != nil {
		appendUpdate("work_start_time", *req.WorkStartTime)
	}
	if req.WorkEndTime != nil {
		appendUpdate("work_end_time", *req.WorkEndTime)
	}
	if req.Timezone != nil {
		appendUpdate("timezone", *req.Timezone)
	}
	if req.CycleType != nil {
		appendUpdate("cycle_type", *req.CycleType)
	}
	if req.CycleStartDay != nil {
		appendUpdate("cycle_start_day", *req.CycleStartDay)
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for office update")
	}

	appendUpdate("updated_at", time.Now())

	args = append(args, req.ID)
	query := "UPDATE offices SET " + strings.Join(updates, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING id", argIdx)

	var updatedID string
	if err := q.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return office.ErrOfficeNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return office.ErrNameExists
		}
		return fmt.Errorf("failed to update office: %w", err)
	}

	return nil
}

// Delete implements office.OfficeRepository.
func (r *officeRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM offices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete office: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return office.ErrOfficeNotFound
	}

	return nil
}
