package user

import "context"

type ProfileService interface {
	Get(ctx context.Context) (ProfileResponse, error)
	Update(ctx context.Context, req UpdateProfileRequest) (ProfileResponse, error)
	UploadPhoto(ctx context.Context, req UploadPhotoRequest) (ProfileResponse, error)
}
