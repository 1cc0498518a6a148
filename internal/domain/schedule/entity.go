package schedule

import (
	"github.com/cmlabs-hris/absensi-go/internal/pkg/dateparser"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/worksession"
)

// Schedule is one planned work day (jadwal kerja) for a user.
type Schedule struct {
	ID       string
	UserID   string
	Date     string
	ClockIn  string
	ClockOut string
	IsDayOff bool
}

func (s Schedule) Label() string {
	if s.IsDayOff {
		return "Libur"
	}
	return "Masuk"
}

// ClockInSeconds is the planned start as seconds of day.
func (s Schedule) ClockInSeconds() (int, bool) {
	if s.IsDayOff {
		return 0, false
	}
	return worksession.ParseTimeToSeconds(s.ClockIn)
}

// FindDay returns the schedule whose date has the given sortable key.
func FindDay(schedules []Schedule, dayKey string) (Schedule, bool) {
	for _, s := range schedules {
		if dateparser.SortableKeyOf(s.Date) == dayKey {
			return s, true
		}
	}
	return Schedule{}, false
}
