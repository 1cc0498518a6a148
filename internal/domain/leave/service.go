package leave

import "context"

type LeaveService interface {
	Submit(ctx context.Context, req SubmitRequest) (SubmissionResponse, error)
	ListMine(ctx context.Context) ([]SubmissionResponse, error)
}
