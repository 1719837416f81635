package auth

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/pustakahq/pustaka/pkg/errcodes"
	"github.com/pustakahq/pustaka/pkg/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	// a second pooled connection would get its own empty in-memory database
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestServiceRegister(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterUserOptions{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "reader", user.Username)
	assert.Equal(t, "reader@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, CheckPassword("password123", user.PasswordHash))
}

func TestServiceRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterUserOptions{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	// Same email in a different case is still a duplicate.
	_, err = svc.Register(ctx, RegisterUserOptions{
		Username: "otherreader",
		Email:    "Reader@Example.com",
		Password: "password123",
	})
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, http.StatusConflict, codeErr.HTTPCode)
	assert.Equal(t, "Email already exists", codeErr.Message)
}

func TestServiceRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterUserOptions{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterUserOptions{
		Username: "Reader",
		Email:    "other@example.com",
		Password: "password123",
	})
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, http.StatusConflict, codeErr.HTTPCode)
	assert.Equal(t, "Username already exists", codeErr.Message)
}

func TestServiceAuthenticate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterUserOptions{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "reader@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestServiceAuthenticate_WrongPassword(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterUserOptions{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "reader@example.com", "wrongpassword")
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, http.StatusUnauthorized, codeErr.HTTPCode)
	assert.Equal(t, "Invalid email or password", codeErr.Message)

	// Unknown email returns the exact same error.
	_, unknownErr := svc.Authenticate(ctx, "nobody@example.com", "password123")
	require.ErrorAs(t, unknownErr, &codeErr)
	assert.Equal(t, "Invalid email or password", codeErr.Message)
}

func TestServiceTokenRoundTrip(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterUserOptions{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
}

func TestServiceValidateToken_WrongSecret(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	svc := NewService(db, "test-secret")
	user, err := svc.Register(ctx, RegisterUserOptions{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	other := NewService(db, "different-secret")
	_, err = other.ValidateToken(token)
	require.Error(t, err)
}
