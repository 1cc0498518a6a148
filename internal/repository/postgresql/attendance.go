package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/absensi-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, user_id, email, date, end_date, check_in, check_out, status,
	category, note, location, source, created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.UserID, &a.Email, &a.Date, &a.EndDate, &a.CheckIn, &a.CheckOut, &a.Status,
		&a.Category, &a.Note, &a.Location, &a.Source, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			user_id, email, date, end_date, check_in, check_out, status,
			category, note, location, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		a.UserID, a.Email, a.Date, a.EndDate, a.CheckIn, a.CheckOut, a.Status,
		a.Category, a.Note, a.Location, a.Source,
	))
	if err != nil {
		// one ordinary record per user and day, enforced by a partial unique index
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance record: %w", err)
	}
	return created, nil
}

// ListByUser implements attendance.AttendanceRepository. Rows come back in
// insertion order; callers sort by parsed date since stored layouts differ.
func (r *attendanceRepository) ListByUser(ctx context.Context, userID string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE user_id = $1 ORDER BY created_at`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	return collectAttendances(rows)
}

// CloseSession implements attendance.AttendanceRepository.
func (r *attendanceRepository) CloseSession(ctx context.Context, id, userID, checkOut string, note *string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_out = $1, note = COALESCE($2, note), updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		  AND check_in IS NOT NULL AND check_in <> ''
		  AND (check_out IS NULL OR check_out = '')
		RETURNING ` + attendanceColumns

	a, err := scanAttendance(q.QueryRow(ctx, query, checkOut, note, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to close attendance session: %w", err)
	}
	return a, nil
}

// ListOpenSessions implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListOpenSessions(ctx context.Context) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE source = $1
		  AND check_in IS NOT NULL AND check_in <> ''
		  AND (check_out IS NULL OR check_out = '')
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, attendance.SourceAbsensi)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}
	return collectAttendances(rows)
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var list []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return list, nil
}
