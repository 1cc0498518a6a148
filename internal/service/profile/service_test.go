package profile

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"testing"
	"time"

	"github.com/cmlabs-hris/absensi-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/recap"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/status"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	user.UserRepository
	users     map[string]user.User
	updateErr error
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id string, req user.UpdateProfileRequest) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	u.FullName, u.Position, u.NIK = &req.FullName, &req.Position, &req.NIK
	f.users[id] = u
	return u, nil
}

func (f *fakeUserRepo) UpdatePhotoURL(_ context.Context, id, url string) (user.User, error) {
	if f.updateErr != nil {
		return user.User{}, f.updateErr
	}
	u := f.users[id]
	u.PhotoURL = &url
	f.users[id] = u
	return u, nil
}

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	records []attendance.Attendance
	calls   int
}

func (f *fakeAttendanceRepo) ListByUser(_ context.Context, userID string) ([]attendance.Attendance, error) {
	f.calls++
	return f.records, nil
}

type mapCache map[string]recap.Counts

func (m mapCache) key(userID string, year, month int) string {
	return userID + time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}
func (m mapCache) Get(_ context.Context, userID string, year, month int) (recap.Counts, bool) {
	c, ok := m[m.key(userID, year, month)]
	return c, ok
}
func (m mapCache) Set(_ context.Context, userID string, year, month int, c recap.Counts) {
	m[m.key(userID, year, month)] = c
}
func (m mapCache) Invalidate(context.Context, string) {}

type fakeFiles struct {
	uploaded []string
	deleted  []string
}

func (f *fakeFiles) UploadProfilePhoto(_ context.Context, userID string, r io.Reader) (string, error) {
	key := "photos/" + userID + "/new.jpg"
	f.uploaded = append(f.uploaded, key)
	return key, nil
}
func (f *fakeFiles) DeleteFile(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}
func (f *fakeFiles) URL(key string) string { return "http://files.test/" + key }
func (f *fakeFiles) KeyOf(url string) (string, bool) {
	const prefix = "http://files.test/"
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		return "", false
	}
	return url[len(prefix):], true
}

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func photoRequest(name string, size int64) user.UploadPhotoRequest {
	return user.UploadPhotoRequest{
		File:       memFile{bytes.NewReader([]byte("img"))},
		FileHeader: &multipart.FileHeader{Filename: name, Size: size},
	}
}

type fixture struct {
	svc   *ProfileServiceImpl
	users *fakeUserRepo
	att   *fakeAttendanceRepo
	files *fakeFiles
	ctx   context.Context
}

func newFixture(t *testing.T, u user.User) *fixture {
	t.Helper()
	f := &fixture{
		users: &fakeUserRepo{users: map[string]user.User{u.ID: u}},
		att:   &fakeAttendanceRepo{},
		files: &fakeFiles{},
	}
	f.svc = NewProfileService(f.users, f.att, mapCache{}, f.files, status.Classifier{}, time.UTC)
	f.svc.now = func() time.Time { return time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC) }

	jwtSvc, err := jwt.NewJWTService("test-secret-key-for-jwt", "1h", "24h")
	require.NoError(t, err)
	f.ctx, err = jwtSvc.ContextWithIdentity(context.Background(), u.ID, u.Email)
	require.NoError(t, err)
	return f
}

func TestGet(t *testing.T) {
	f := newFixture(t, user.User{ID: "user-1", Email: "rina@example.com"})
	f.att.records = []attendance.Attendance{
		{Date: "2024-03-01", Status: "Tepat Waktu"},
		{Date: "2024-03-02", Status: "Terlambat"},
		{Date: "2024-02-02", Status: "Sakit"},
	}

	resp, err := f.svc.Get(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, user.DefaultFullName, resp.FullName)
	assert.Equal(t, user.DefaultPosition, resp.Position)
	assert.Equal(t, user.DefaultNIK, resp.NIK)
	assert.Nil(t, resp.PhotoURL)
	assert.Equal(t, 2024, resp.Year)
	assert.Equal(t, 3, resp.Month)
	assert.Equal(t, recap.Counts{Total: 2, Hadir: 2, Terlambat: 1}, resp.Monthly)

	_, err = f.svc.Get(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.att.calls, "second call served from cache")
}

func TestGet_UnknownUser(t *testing.T) {
	f := newFixture(t, user.User{ID: "user-1", Email: "rina@example.com"})
	delete(f.users.users, "user-1")

	_, err := f.svc.Get(f.ctx)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t, user.User{ID: "user-1", Email: "rina@example.com"})

	resp, err := f.svc.Update(f.ctx, user.UpdateProfileRequest{FullName: " Rina Wati ", Position: "Staff IT", NIK: "3201012345"})
	require.NoError(t, err)
	assert.Equal(t, "Rina Wati", resp.FullName)
	assert.Equal(t, "Staff IT", resp.Position)
	assert.Equal(t, "3201012345", resp.NIK)

	_, err = f.svc.Update(f.ctx, user.UpdateProfileRequest{FullName: "Rina", Position: "Staff", NIK: "12A"})
	var vErr validator.ValidationErrors
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.ToMap(), "nik")
}

func TestUploadPhoto(t *testing.T) {
	t.Run("replaces previous stored photo", func(t *testing.T) {
		old := "http://files.test/photos/user-1/old.jpg"
		f := newFixture(t, user.User{ID: "user-1", Email: "rina@example.com", PhotoURL: &old})

		resp, err := f.svc.UploadPhoto(f.ctx, photoRequest("me.PNG", 1024))
		require.NoError(t, err)
		require.NotNil(t, resp.PhotoURL)
		assert.Equal(t, "http://files.test/photos/user-1/new.jpg", *resp.PhotoURL)
		assert.Equal(t, []string{"photos/user-1/old.jpg"}, f.files.deleted)
	})

	t.Run("external previous photo is left alone", func(t *testing.T) {
		old := "https://gravatar.example/abc"
		f := newFixture(t, user.User{ID: "user-1", Email: "rina@example.com", PhotoURL: &old})

		_, err := f.svc.UploadPhoto(f.ctx, photoRequest("me.jpg", 1024))
		require.NoError(t, err)
		assert.Empty(t, f.files.deleted)
	})

	t.Run("failed update removes the new file", func(t *testing.T) {
		f := newFixture(t, user.User{ID: "user-1", Email: "rina@example.com"})
		f.users.updateErr = errors.New("db down")

		_, err := f.svc.UploadPhoto(f.ctx, photoRequest("me.jpg", 1024))
		require.Error(t, err)
		assert.Equal(t, f.files.uploaded, f.files.deleted)
	})

	t.Run("rejects wrong type and size", func(t *testing.T) {
		f := newFixture(t, user.User{ID: "user-1", Email: "rina@example.com"})

		_, err := f.svc.UploadPhoto(f.ctx, photoRequest("me.gif", 1024))
		assert.ErrorIs(t, err, user.ErrInvalidPhotoType)

		_, err = f.svc.UploadPhoto(f.ctx, photoRequest("me.jpg", user.MaxPhotoSize+1))
		assert.ErrorIs(t, err, user.ErrPhotoTooLarge)
		assert.Empty(t, f.files.uploaded)
	})
}
