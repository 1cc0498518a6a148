package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/absensi-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-go/internal/handler/http/response"
)

type ProfileHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	UploadPhoto(w http.ResponseWriter, r *http.Request)
}

type profileHandlerImpl struct {
	profileService user.ProfileService
}

func NewProfileHandler(profileService user.ProfileService) ProfileHandler {
	return &profileHandlerImpl{profileService: profileService}
}

// Get implements ProfileHandler.
func (h *profileHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.profileService.Get(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Update implements ProfileHandler.
func (h *profileHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update profile decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.profileService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Profil berhasil diperbarui", resp)
}

// UploadPhoto implements ProfileHandler. Expects multipart field "photo".
func (h *profileHandlerImpl) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, user.MaxPhotoSize+1<<20)
	if err := r.ParseMultipartForm(user.MaxPhotoSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.HandleError(w, user.ErrPhotoTooLarge)
			return
		}
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}
	if file != nil {
		defer file.Close()
	}

	resp, err := h.profileService.UploadPhoto(r.Context(), user.UploadPhotoRequest{File: file, FileHeader: header})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Foto profil berhasil diperbarui", resp)
}
