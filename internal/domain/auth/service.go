package auth

import (
	"context"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest, session SessionTrackingRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, req LogoutRequest) error
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
	StreamToken(ctx context.Context) (StreamTokenResponse, error)
}
