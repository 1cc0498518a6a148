package profile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/absensi-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/recap"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/status"
	"github.com/cmlabs-hris/absensi-go/internal/service/file"
	"golang.org/x/sync/errgroup"
)

type ProfileServiceImpl struct {
	user.UserRepository
	attendance attendance.AttendanceRepository
	cache      attendance.RecapCache
	files      file.FileService
	aggregator recap.Aggregator
	location   *time.Location
	now        func() time.Time
}

func NewProfileService(
	userRepository user.UserRepository,
	attendanceRepository attendance.AttendanceRepository,
	recapCache attendance.RecapCache,
	fileService file.FileService,
	classifier status.Classifier,
	location *time.Location,
) *ProfileServiceImpl {
	if location == nil {
		location = time.UTC
	}
	return &ProfileServiceImpl{
		UserRepository: userRepository,
		attendance:     attendanceRepository,
		cache:          recapCache,
		files:          fileService,
		aggregator:     recap.Aggregator{Classifier: classifier},
		location:       location,
		now:            time.Now,
	}
}

// Get implements user.ProfileService.
func (s *ProfileServiceImpl) Get(ctx context.Context) (user.ProfileResponse, error) {
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return user.ProfileResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	var (
		u       user.User
		monthly monthlyCounts
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		u, err = s.UserRepository.GetByID(gCtx, id.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		monthly, err = s.monthly(gCtx, id.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return user.ProfileResponse{}, err
	}
	return monthly.apply(user.NewProfileResponse(u)), nil
}

// Update implements user.ProfileService.
func (s *ProfileServiceImpl) Update(ctx context.Context, req user.UpdateProfileRequest) (user.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return user.ProfileResponse{}, err
	}
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return user.ProfileResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	u, err := s.UserRepository.UpdateProfile(ctx, id.UserID, req)
	if err != nil {
		return user.ProfileResponse{}, err
	}
	return s.withMonthly(ctx, u)
}

// UploadPhoto implements user.ProfileService. The previous photo is removed
// once the new one is recorded.
func (s *ProfileServiceImpl) UploadPhoto(ctx context.Context, req user.UploadPhotoRequest) (user.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return user.ProfileResponse{}, err
	}
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return user.ProfileResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	current, err := s.UserRepository.GetByID(ctx, id.UserID)
	if err != nil {
		return user.ProfileResponse{}, err
	}

	key, err := s.files.UploadProfilePhoto(ctx, id.UserID, req.File)
	if err != nil {
		return user.ProfileResponse{}, err
	}

	updated, err := s.UserRepository.UpdatePhotoURL(ctx, id.UserID, s.files.URL(key))
	if err != nil {
		if delErr := s.files.DeleteFile(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to remove orphaned photo", "key", key, "error", delErr)
		}
		return user.ProfileResponse{}, err
	}

	if current.PhotoURL != nil {
		if oldKey, ok := s.files.KeyOf(*current.PhotoURL); ok {
			if err := s.files.DeleteFile(ctx, oldKey); err != nil {
				slog.WarnContext(ctx, "failed to remove previous photo", "key", oldKey, "error", err)
			}
		}
	}

	return s.withMonthly(ctx, updated)
}

type monthlyCounts struct {
	year, month int
	counts      recap.Counts
}

func (m monthlyCounts) apply(resp user.ProfileResponse) user.ProfileResponse {
	resp.Year, resp.Month, resp.Monthly = m.year, m.month, m.counts
	return resp
}

// monthly returns the current month's counts, read through the recap cache.
func (s *ProfileServiceImpl) monthly(ctx context.Context, userID string) (monthlyCounts, error) {
	now := s.now().In(s.location)
	m := monthlyCounts{year: now.Year(), month: int(now.Month())}

	if counts, ok := s.cache.Get(ctx, userID, m.year, m.month); ok {
		m.counts = counts
		return m, nil
	}

	records, err := s.attendance.ListByUser(ctx, userID)
	if err != nil {
		return monthlyCounts{}, err
	}
	m.counts = s.aggregator.Aggregate(attendance.RecapRecords(records), m.year, m.month)
	s.cache.Set(ctx, userID, m.year, m.month, m.counts)
	return m, nil
}

func (s *ProfileServiceImpl) withMonthly(ctx context.Context, u user.User) (user.ProfileResponse, error) {
	m, err := s.monthly(ctx, u.ID)
	if err != nil {
		return user.ProfileResponse{}, err
	}
	return m.apply(user.NewProfileResponse(u)), nil
}
