package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/absensi-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password_hash, full_name, position, nik, photo_url, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.Position,
		&u.NIK,
		&u.PhotoURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, err
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return u, err
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO users (email, password_hash, full_name, position, nik)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.Email,
		newUser.PasswordHash,
		newUser.FullName,
		newUser.Position,
		newUser.NIK,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// ExistsByEmail implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user email: %w", err)
	}
	return exists, nil
}

// UpdatePassword implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdateProfile implements user.UserRepository.
func (r *userRepositoryImpl) UpdateProfile(ctx context.Context, userID string, req user.UpdateProfileRequest) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE users
		SET full_name = $1, position = $2, nik = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + userColumns

	updated, err := scanUser(q.QueryRow(ctx, query, req.FullName, req.Position, req.NIK, userID))
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, fmt.Errorf("update profile: %w", err)
	}
	return updated, err
}

// UpdatePhotoURL implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePhotoURL(ctx context.Context, userID, photoURL string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE users
		SET photo_url = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + userColumns

	updated, err := scanUser(q.QueryRow(ctx, query, photoURL, userID))
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, fmt.Errorf("update photo url: %w", err)
	}
	return updated, err
}
