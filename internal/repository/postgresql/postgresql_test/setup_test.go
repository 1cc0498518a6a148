package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/cmlabs-hris/absensi-go/internal/domain/user"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/database"
	"github.com/cmlabs-hris/absensi-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// every table. Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	schema, err := os.ReadFile("../../../../migrations/0001_init.sql")
	require.NoError(t, err)
	_, err = db.Exec(ctx, string(schema))
	require.NoError(t, err)

	_, err = db.Exec(ctx, "TRUNCATE TABLE schedules, leave_submissions, attendances, refresh_tokens, users CASCADE")
	require.NoError(t, err)

	return db
}

func createUser(t *testing.T, db *database.DB, email string) user.User {
	t.Helper()
	u, err := postgresql.NewUserRepository(db).Create(context.Background(), user.User{
		Email:        email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return u
}
