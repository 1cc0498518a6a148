// Package worksession derives elapsed and remaining work time for a single
// day and holds the day's check-in/check-out state machine.
package worksession

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultShiftLength is eight hours in seconds.
const DefaultShiftLength = 8 * 60 * 60

const secondsPerDay = 24 * 60 * 60

var (
	clockRegex    = regexp.MustCompile(`(\d{1,2})[:.](\d{2})(?:[:.](\d{2}))?`)
	meridiemRegex = regexp.MustCompile(`(?i)\b(AM|PM)\b`)
)

// WorkSession is recomputed on every tick and never mutated.
type WorkSession struct {
	CheckInSeconds   *int    `json:"check_in_seconds"`
	CheckOutSeconds  *int    `json:"check_out_seconds"`
	NowSeconds       int     `json:"now_seconds"`
	ElapsedSeconds   int     `json:"elapsed_seconds"`
	RemainingSeconds int     `json:"remaining_seconds"`
	ProgressFraction float64 `json:"progress_fraction"`
}

// ParseTimeToSeconds reads the first H:MM or H:MM:SS clock time in raw,
// honouring an AM/PM marker anywhere in the string.
func ParseTimeToSeconds(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	m := clockRegex.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds := 0
	if m[3] != "" {
		seconds, _ = strconv.Atoi(m[3])
	}

	if mer := meridiemRegex.FindStringSubmatch(raw); mer != nil {
		switch strings.ToUpper(mer[1]) {
		case "PM":
			if hours < 12 {
				hours += 12
			}
		case "AM":
			if hours == 12 {
				hours = 0
			}
		}
	}

	return hours*3600 + minutes*60 + seconds, true
}

func parseOptional(raw *string) *int {
	if raw == nil {
		return nil
	}
	s, ok := ParseTimeToSeconds(*raw)
	if !ok {
		return nil
	}
	return &s
}

// ComputeSession derives the work session at now. A non-positive shift length
// falls back to DefaultShiftLength. now is read as a wall-clock time of day in
// its own location.
func ComputeSession(checkIn, checkOut *string, now time.Time, shiftLength int) WorkSession {
	if shiftLength <= 0 {
		shiftLength = DefaultShiftLength
	}

	ws := WorkSession{
		CheckInSeconds:  parseOptional(checkIn),
		CheckOutSeconds: parseOptional(checkOut),
		NowSeconds:      now.Hour()*3600 + now.Minute()*60 + now.Second(),
	}

	if ws.CheckInSeconds == nil {
		ws.RemainingSeconds = shiftLength
		ws.ProgressFraction = 1.0
		return ws
	}

	end := ws.NowSeconds
	if ws.CheckOutSeconds != nil {
		end = *ws.CheckOutSeconds
	}

	elapsed := end - *ws.CheckInSeconds
	if elapsed < 0 {
		// session crossed midnight
		elapsed += secondsPerDay
	}
	elapsed = max(0, min(elapsed, shiftLength))

	ws.ElapsedSeconds = elapsed
	ws.RemainingSeconds = shiftLength - elapsed
	ws.ProgressFraction = float64(ws.RemainingSeconds) / float64(shiftLength)
	return ws
}

// RemainingCompact renders the remaining time as HH:MM:SS.
func (ws WorkSession) RemainingCompact() string {
	return FormatCompact(ws.RemainingSeconds)
}

// FormatCompact renders seconds as HH:MM:SS. Negative input renders as zero.
func FormatCompact(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// ClockString renders a seconds-of-day value as HH:MM:SS, wrapping past midnight.
func ClockString(seconds int) string {
	return FormatCompact(((seconds % secondsPerDay) + secondsPerDay) % secondsPerDay)
}
