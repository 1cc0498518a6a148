package user

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserEmailExists  = errors.New("email already registered")
	ErrInvalidPhotoType = errors.New("photo must be a jpg, jpeg or png image")
	ErrPhotoTooLarge    = errors.New("photo must not exceed 5MB")
	ErrPhotoDimensions  = errors.New("photo dimensions are too large")
)
