package leave

import (
	"strings"
	"time"
)

type Type string

const (
	TypeCuti  Type = "CUTI"
	TypeSakit Type = "SAKIT"
	TypeIzin  Type = "IZIN"
)

const StatusPending = "Pending"

// ParseType accepts the type in any case, e.g. from a URL segment.
func ParseType(raw string) (Type, bool) {
	switch t := Type(strings.ToUpper(strings.TrimSpace(raw))); t {
	case TypeCuti, TypeSakit, TypeIzin:
		return t, true
	default:
		return "", false
	}
}

// AttendanceStatus is the status written on the attendance record a submission creates.
func (t Type) AttendanceStatus() string {
	switch t {
	case TypeCuti:
		return "Cuti"
	case TypeSakit:
		return "Sakit"
	default:
		return "Izin"
	}
}

func (t Type) Location() string {
	return "Pengajuan " + t.AttendanceStatus()
}

// RequiresCategory reports whether the submission form asks for a jenis.
func (t Type) RequiresCategory() bool {
	return t != TypeSakit
}

type Submission struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Type      Type
	Category  string
	StartDate string
	EndDate   string
	Reason    string
	Status    string
	CreatedAt time.Time
}
