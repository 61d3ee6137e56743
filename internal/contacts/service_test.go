package contacts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/logger"
)

func setupContactsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:contacts_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS contacts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  city TEXT NOT NULL,
  street TEXT NOT NULL,
  house TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(ddl).Error)
	return conn
}

func newContactsService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), logger.New(logger.Options{ServiceName: "test"}))
	require.NoError(t, err)
	return svc
}

func TestContactLifecycle(t *testing.T) {
	conn := setupContactsTestDB(t)
	svc := newContactsService(t, conn)
	userID := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, userID, ContactInput{
		City:   "Moscow",
		Street: "Tverskaya",
		House:  "1",
		Phone:  "+7 900 000-00-00",
	})
	require.NoError(t, err)

	listed, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	updated, err := svc.Update(ctx, userID, created.ID, ContactInput{
		City:   "Moscow",
		Street: "Arbat",
		House:  "10",
		Phone:  "+7 900 000-00-00",
	})
	require.NoError(t, err)
	assert.Equal(t, "Arbat", updated.Street)

	require.NoError(t, svc.Delete(ctx, userID, created.ID))

	listed, err = svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestContactValidation(t *testing.T) {
	conn := setupContactsTestDB(t)
	svc := newContactsService(t, conn)

	_, err := svc.Create(context.Background(), uuid.New(), ContactInput{City: "Moscow"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	typed := apperrors.As(err)
	require.NotNil(t, typed)
	assert.Contains(t, typed.Details(), "street is required")
	assert.Contains(t, typed.Details(), "phone is required")
}

func TestContactOwnershipIsEnforced(t *testing.T) {
	conn := setupContactsTestDB(t)
	svc := newContactsService(t, conn)
	ctx := context.Background()

	owner := uuid.New()
	created, err := svc.Create(ctx, owner, ContactInput{
		City: "Moscow", Street: "Tverskaya", Phone: "+7 900",
	})
	require.NoError(t, err)

	stranger := uuid.New()
	_, err = svc.Update(ctx, stranger, created.ID, ContactInput{
		City: "Hack", Street: "Hack", Phone: "000",
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	err = svc.Delete(ctx, stranger, created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
