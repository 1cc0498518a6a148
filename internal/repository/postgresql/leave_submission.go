package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/absensi-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/database"
)

type leaveSubmissionRepository struct {
	db *database.DB
}

func NewLeaveSubmissionRepository(db *database.DB) leave.SubmissionRepository {
	return &leaveSubmissionRepository{db: db}
}

// Create implements leave.SubmissionRepository.
func (r *leaveSubmissionRepository) Create(ctx context.Context, s leave.Submission) (leave.Submission, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_submissions (user_id, name, email, type, category, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query,
		s.UserID, s.Name, s.Email, s.Type, s.Category, s.StartDate, s.EndDate, s.Reason, s.Status,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return leave.Submission{}, fmt.Errorf("failed to create leave submission: %w", err)
	}
	return s, nil
}

// ListByUser implements leave.SubmissionRepository.
func (r *leaveSubmissionRepository) ListByUser(ctx context.Context, userID string) ([]leave.Submission, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, name, email, type, category, start_date, end_date, reason, status, created_at
		FROM leave_submissions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave submissions: %w", err)
	}
	defer rows.Close()

	var list []leave.Submission
	for rows.Next() {
		var s leave.Submission
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.Name, &s.Email, &s.Type, &s.Category,
			&s.StartDate, &s.EndDate, &s.Reason, &s.Status, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave submission: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
