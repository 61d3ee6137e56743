package importjobs

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
)

func setupJobsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:importjobs_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS import_jobs (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  feed_url TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  error TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(ddl).Error)
	return conn
}

func mustCreateJob(t *testing.T, conn *gorm.DB, userID uuid.UUID) *models.ImportJob {
	t.Helper()
	job := &models.ImportJob{
		ID:      uuid.New(),
		UserID:  userID,
		FeedURL: "https://partner.example.com/feed.yaml",
	}
	require.NoError(t, conn.Create(job).Error)
	return job
}
