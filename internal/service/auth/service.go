package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/absensi-go/internal/domain/auth"
	"github.com/cmlabs-hris/absensi-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/database"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	db database.Transactor
	user.UserRepository
	jwt.Service
	auth.RefreshTokenRepository
}

func NewAuthService(db database.Transactor, userRepository user.UserRepository, jwtService jwt.Service, refreshTokenRepository auth.RefreshTokenRepository) auth.AuthService {
	return &AuthServiceImpl{
		db:                     db,
		UserRepository:         userRepository,
		Service:                jwtService,
		RefreshTokenRepository: refreshTokenRepository,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// issueTokens signs a token pair and stores the refresh token. Must run inside
// a transaction when combined with other writes.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, u user.User, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse
	var err error

	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	err = a.RefreshTokenRepository.CreateRefreshToken(ctx, u.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, session)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}
	return tokenResponse, nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, registerReq auth.RegisterRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := registerReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	exists, err := a.UserRepository.ExistsByEmail(ctx, registerReq.Email)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return auth.TokenResponse{}, user.ErrUserEmailExists
	}

	hashedPassword, err := a.hashPassword(registerReq.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var tokenResponse auth.TokenResponse
	err = a.db.WithinTx(ctx, func(ctx context.Context) error {
		newUser, err := a.UserRepository.Create(ctx, user.User{
			Email:        registerReq.Email,
			PasswordHash: hashedPassword,
		})
		if err != nil {
			return err
		}

		tokenResponse, err = a.issueTokens(ctx, newUser, sessionTrackReq)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	slog.InfoContext(ctx, "user registered", "email", registerReq.Email)
	return tokenResponse, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, loginReq.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	var tokenResponse auth.TokenResponse
	err = a.db.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		tokenResponse, err = a.issueTokens(ctx, userData, sessionTrackReq)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	userID, err := a.Service.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	isRevoked, err := a.RefreshTokenRepository.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if isRevoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, err
	}

	var accessTokenResponse auth.AccessTokenResponse
	accessTokenResponse.AccessToken, accessTokenResponse.AccessTokenExpiresIn, err =
		a.Service.GenerateAccessToken(userData.ID, userData.Email)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessTokenResponse, nil
}

// Logout implements auth.AuthService. Logging out twice is not an error.
func (a *AuthServiceImpl) Logout(ctx context.Context, req auth.LogoutRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	err := a.db.WithinTx(ctx, func(ctx context.Context) error {
		isRevoked, err := a.RefreshTokenRepository.IsRefreshTokenRevoked(ctx, req.RefreshToken)
		if err != nil {
			return fmt.Errorf("failed to check if refresh token is revoked: %w", err)
		}
		if !isRevoked {
			if err := a.RefreshTokenRepository.RevokeRefreshToken(ctx, req.RefreshToken); err != nil {
				return fmt.Errorf("failed to revoke refresh token: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if req.AccessToken != "" {
		a.Service.RevokeToken(req.AccessToken, req.AccessExpiry)
	}
	return nil
}

// ChangePassword implements auth.AuthService. Every session of the user is
// signed out afterwards.
func (a *AuthServiceImpl) ChangePassword(ctx context.Context, req auth.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userData, err := a.UserRepository.GetByID(ctx, id.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return auth.ErrWrongCurrentPassword
	}
	if req.NewPassword == req.CurrentPassword {
		return auth.ErrPasswordUnchanged
	}

	hashedPassword, err := a.hashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = a.db.WithinTx(ctx, func(ctx context.Context) error {
		if err := a.UserRepository.UpdatePassword(ctx, userData.ID, hashedPassword); err != nil {
			return err
		}
		return a.RefreshTokenRepository.RevokeAllForUser(ctx, userData.ID)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "password changed", "user_id", userData.ID)
	return nil
}

// StreamToken implements auth.AuthService.
func (a *AuthServiceImpl) StreamToken(ctx context.Context) (auth.StreamTokenResponse, error) {
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return auth.StreamTokenResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	token, expiresIn, err := a.Service.GenerateStreamToken(id.UserID)
	if err != nil {
		return auth.StreamTokenResponse{}, fmt.Errorf("failed to generate stream token: %w", err)
	}
	return auth.StreamTokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}
