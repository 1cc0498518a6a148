package leave

import "context"

type SubmissionRepository interface {
	Create(ctx context.Context, s Submission) (Submission, error)
	ListByUser(ctx context.Context, userID string) ([]Submission, error)
}
