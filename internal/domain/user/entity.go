package user

import "time"

const (
	DefaultFullName = "Nama Pengguna"
	DefaultPosition = "Karyawan"
	DefaultNIK      = "-"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     *string
	Position     *string
	NIK          *string
	PhotoURL     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func valueOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

// DisplayName is the full name, or the placeholder shown before the profile is filled.
func (u User) DisplayName() string {
	return valueOr(u.FullName, DefaultFullName)
}

func (u User) DisplayPosition() string {
	return valueOr(u.Position, DefaultPosition)
}

func (u User) DisplayNIK() string {
	return valueOr(u.NIK, DefaultNIK)
}
