package auth

import (
	"strings"

	"github.com/cmlabs-hris/absensi-go/internal/pkg/validator"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 72 // bcrypt input limit
)

func validateEmail(email string, errs *validator.ValidationErrors) {
	switch {
	case validator.IsEmpty(email):
		*errs = append(*errs, validator.ValidationError{Field: "email", Message: "email is required"})
	case len(email) > 254:
		*errs = append(*errs, validator.ValidationError{Field: "email", Message: "email must not exceed 254 characters"})
	case !validator.IsValidEmail(email):
		*errs = append(*errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
}

func validatePassword(field, password string, errs *validator.ValidationErrors) {
	switch {
	case validator.IsEmpty(password):
		*errs = append(*errs, validator.ValidationError{Field: field, Message: field + " is required"})
	case len(password) < MinPasswordLength:
		*errs = append(*errs, validator.ValidationError{Field: field, Message: field + " must be at least 6 characters long"})
	case len(password) > MaxPasswordLength:
		*errs = append(*errs, validator.ValidationError{Field: field, Message: field + " must not exceed 72 characters"})
	}
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	validateEmail(r.Email, &errs)
	validatePassword("password", r.Password, &errs)

	if validator.IsEmpty(r.ConfirmPassword) {
		errs = append(errs, validator.ValidationError{Field: "confirm_password", Message: "confirm_password is required"})
	} else if r.ConfirmPassword != r.Password {
		errs = append(errs, validator.ValidationError{Field: "confirm_password", Message: "password and confirm_password do not match"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	validateEmail(r.Email, &errs)
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	if validator.IsEmpty(r.RefreshToken) {
		return validator.ValidationErrors{{Field: "refresh_token", Message: "refresh_token is required"}}
	}
	return nil
}

// LogoutRequest revokes the refresh token and, when present, the access token
// the request was made with.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
	AccessToken  string `json:"-"`
	AccessExpiry int64  `json:"-"`
}

func (r *LogoutRequest) Validate() error {
	if validator.IsEmpty(r.RefreshToken) {
		return validator.ValidationErrors{{Field: "refresh_token", Message: "refresh_token is required"}}
	}
	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CurrentPassword) {
		errs = append(errs, validator.ValidationError{Field: "current_password", Message: "current_password is required"})
	}
	validatePassword("new_password", r.NewPassword, &errs)
	if validator.IsEmpty(r.ConfirmPassword) {
		errs = append(errs, validator.ValidationError{Field: "confirm_password", Message: "confirm_password is required"})
	} else if r.ConfirmPassword != r.NewPassword {
		errs = append(errs, validator.ValidationError{Field: "confirm_password", Message: "new_password and confirm_password do not match"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
