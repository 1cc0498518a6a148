package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/absensi-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/sse"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/worksession"
)

const EventAttendanceState = "attendance.state"

type StreamOptions struct {
	Location     *time.Location
	ShiftLength  time.Duration
	TickInterval time.Duration
	Keepalive    time.Duration
}

// StreamHandler pushes the caller's attendance state and, while a session
// is open, a countdown tick over server-sent events.
type StreamHandler struct {
	jwtService        jwt.Service
	hub               *sse.Hub
	attendanceService attendance.AttendanceService
	opts              StreamOptions
	now               func() time.Time
}

func NewStreamHandler(jwtService jwt.Service, hub *sse.Hub, attendanceService attendance.AttendanceService, opts StreamOptions) *StreamHandler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Keepalive <= 0 {
		opts.Keepalive = 30 * time.Second
	}
	return &StreamHandler{
		jwtService:        jwtService,
		hub:               hub,
		attendanceService: attendanceService,
		opts:              opts,
		now:               time.Now,
	}
}

type sessionTick struct {
	Session   worksession.WorkSession `json:"session"`
	Remaining string                  `json:"remaining"`
}

// Stream handles the SSE connection. EventSource cannot send headers, so the
// caller authenticates with a short-lived stream token in the query string.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.jwtService.ValidateStreamToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ctx := r.Context()
	events, cleanup := h.hub.Subscribe(userID)
	defer cleanup()
	metrics.StreamClients.Inc()
	defer metrics.StreamClients.Dec()

	send := func(event string, data interface{}) {
		payload, err := json.Marshal(data)
		if err != nil {
			slog.Error("failed to encode stream event", "event", event, "error", err)
			return
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
		flusher.Flush()
	}

	send("connected", map[string]string{"status": "connected", "user_id": userID})

	ticks := make(chan time.Time, 1)
	var (
		ticker   *worksession.Ticker
		checkIn  *string
		checkOut *string
	)
	defer func() { ticker.Stop() }()

	// refresh re-reads today's state and restarts the countdown only while
	// a session is open.
	refresh := func() {
		today, err := h.attendanceService.TodayFor(ctx, userID, h.now())
		if err != nil {
			slog.Error("failed to load attendance state", "user_id", userID, "error", err)
			return
		}
		send(EventAttendanceState, today)

		checkIn, checkOut = nil, nil
		if today.Record != nil {
			checkIn, checkOut = today.Record.CheckIn, today.Record.CheckOut
		}
		ticker.Stop()
		// Stop has joined the tick loop; drop any tick it left for the old state.
		select {
		case <-ticks:
		default:
		}
		ticker = worksession.StartTicker(ctx, today.State, h.opts.TickInterval, func(now time.Time) {
			select {
			case ticks <- now:
			default:
			}
		})
	}
	refresh()

	keepalive := time.NewTicker(h.opts.Keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			send(event.Event, event.Data)
			if event.Event == sse.EventAttendanceUpdated {
				refresh()
			}

		case now := <-ticks:
			ws := worksession.ComputeSession(checkIn, checkOut, now.In(h.opts.Location), int(h.opts.ShiftLength/time.Second))
			send(sse.EventSessionTick, sessionTick{Session: ws, Remaining: ws.RemainingCompact()})

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-ctx.Done():
			return
		}
	}
}
