package jwt

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
	TypeStream  = "stream"

	streamTokenTTL = 5 * time.Minute
)

var ErrMissingClaims = errors.New("token claims missing or invalid")

type Service interface {
	GenerateAccessToken(userID string, email string) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	ValidateRefreshToken(tokenString string) (userID string, err error)
	GenerateStreamToken(userID string) (token string, expiresIn int, err error)
	ValidateStreamToken(tokenString string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	RevokeToken(token string, expiresAt int64)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTokenExpirationTime  time.Duration
	refreshTokenExpirationTime time.Duration
	tokenAuth                  *jwtauth.JWTAuth
	revokedTokens              map[string]int64
	mu                         sync.RWMutex
	now                        func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string) (*JWTService, error) {
	access, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	refresh, err := time.ParseDuration(refreshTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	return &JWTService{
		accessTokenExpirationTime:  access,
		refreshTokenExpirationTime: refresh,
		tokenAuth:                  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:              make(map[string]int64),
		now:                        time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(userID string, email string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpirationTime).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"type":    TypeAccess,
		"iat":     j.now().Unix(),
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.refreshTokenExpirationTime).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"type":    TypeRefresh,
		// nanosecond issue time keeps tokens minted in the same second distinct
		"nonce": j.now().UnixNano(),
		"exp":   expiresAt,
	})
	return tokenString, expiresAt, err
}

// ValidateRefreshToken checks signature, expiry and type of a refresh token.
func (j *JWTService) ValidateRefreshToken(tokenString string) (string, error) {
	return j.validate(tokenString, TypeRefresh)
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}
}

// RevokeToken denies an access token until it would have expired anyway.
func (j *JWTService) RevokeToken(token string, expiresAt int64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now().Unix()
	for t, exp := range j.revokedTokens {
		if exp <= now {
			delete(j.revokedTokens, t)
		}
	}
	j.revokedTokens[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// GenerateStreamToken generates a short-lived token for the event stream,
// which browsers open without an Authorization header.
func (j *JWTService) GenerateStreamToken(userID string) (token string, expiresIn int, err error) {
	expiresAt := j.now().Add(streamTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"type":    TypeStream,
		"exp":     expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(streamTokenTTL.Seconds()), nil
}

// ValidateStreamToken validates a stream token and returns the user ID
func (j *JWTService) ValidateStreamToken(tokenString string) (string, error) {
	return j.validate(tokenString, TypeStream)
}

func (j *JWTService) validate(tokenString, wantType string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != wantType {
		return "", jwt.ErrInvalidJWT()
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return userID, nil
}

// Identity is the caller taken from a verified access token.
type Identity struct {
	UserID string
	Email  string
}

// IdentityFromContext reads the caller placed in ctx by jwtauth.Verifier.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Identity{}, err
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Identity{}, ErrMissingClaims
	}
	email, _ := claims["email"].(string)
	return Identity{UserID: userID, Email: email}, nil
}

// ContextWithIdentity returns ctx carrying a freshly signed access token for
// userID, as jwtauth.Verifier would. Used by background jobs and tests.
func (j *JWTService) ContextWithIdentity(ctx context.Context, userID, email string) (context.Context, error) {
	tokenString, _, err := j.GenerateAccessToken(userID, email)
	if err != nil {
		return nil, err
	}
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return nil, err
	}
	return jwtauth.NewContext(ctx, token, nil), nil
}
