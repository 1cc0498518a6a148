package user

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/absensi-go/internal/pkg/recap"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/validator"
)

const MaxPhotoSize = 5 << 20

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Position string `json:"position"`
	NIK      string `json:"nik"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	r.FullName = strings.TrimSpace(r.FullName)
	r.Position = strings.TrimSpace(r.Position)
	r.NIK = strings.TrimSpace(r.NIK)

	if r.FullName == "" {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full_name is required"})
	} else if len(r.FullName) > 255 {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full_name must not exceed 255 characters"})
	}
	if r.Position == "" {
		errs = append(errs, validator.ValidationError{Field: "position", Message: "position is required"})
	} else if len(r.Position) > 100 {
		errs = append(errs, validator.ValidationError{Field: "position", Message: "position must not exceed 100 characters"})
	}
	if r.NIK == "" {
		errs = append(errs, validator.ValidationError{Field: "nik", Message: "nik is required"})
	} else if !validator.IsNumeric(r.NIK) {
		errs = append(errs, validator.ValidationError{Field: "nik", Message: "nik must contain digits only"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UploadPhotoRequest struct {
	File       multipart.File
	FileHeader *multipart.FileHeader
}

func (r *UploadPhotoRequest) Validate() error {
	if r.File == nil || r.FileHeader == nil {
		return validator.ValidationErrors{{Field: "photo", Message: "photo is required"}}
	}
	switch strings.ToLower(filepath.Ext(r.FileHeader.Filename)) {
	case ".jpg", ".jpeg", ".png":
	default:
		return ErrInvalidPhotoType
	}
	if r.FileHeader.Size > MaxPhotoSize {
		return ErrPhotoTooLarge
	}
	return nil
}

type ProfileResponse struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	FullName string       `json:"full_name"`
	Position string       `json:"position"`
	NIK      string       `json:"nik"`
	PhotoURL *string      `json:"photo_url"`
	Year     int          `json:"year"`
	Month    int          `json:"month"`
	Monthly  recap.Counts `json:"monthly"`
}

func NewProfileResponse(u User) ProfileResponse {
	return ProfileResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.DisplayName(),
		Position: u.DisplayPosition(),
		NIK:      u.DisplayNIK(),
		PhotoURL: u.PhotoURL,
	}
}
