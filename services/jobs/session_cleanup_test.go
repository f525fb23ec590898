package jobs

import (
	"context"
	"testing"
	"time"

	"law_dashboard_go/models"
	"law_dashboard_go/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCleanupTestDB(t *testing.T) *gorm.DB {
	dbName := "mem_" + uuid.New().String()
	db, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Session{}))
	return db
}

func TestSessionCleanup_Run(t *testing.T) {
	db := setupCleanupTestDB(t)

	expired, err := services.CreateSession(db, "old@4morgen.com", "Old", "", "")
	require.NoError(t, err)
	db.Model(expired).Update("expires_at", time.Now().Add(-time.Hour))

	active, err := services.CreateSession(db, services.PlaceholderEmail, "Suzan", "", "")
	require.NoError(t, err)

	store := services.NewSnapshotStore(services.NewMetricsGenerator(nil, nil), time.Hour)
	store.Get(active.Token, services.DefaultTimeRange)

	job := NewSessionCleanup(db, store, "0 * * * *")
	job.Run()

	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err = services.ValidateSession(db, active.Token)
	assert.NoError(t, err)
	assert.Equal(t, 1, store.Len(), "fresh snapshots survive")
}

type countingSweeper struct{ calls int }

func (s *countingSweeper) Cleanup() int {
	s.calls++
	return 2
}

func TestSessionCleanup_RunsSweepers(t *testing.T) {
	job := NewSessionCleanup(setupCleanupTestDB(t), nil, "0 * * * *")
	sweeper := &countingSweeper{}
	job.AddSweeper("rate limit", sweeper)

	job.Run()
	job.Run()
	assert.Equal(t, 2, sweeper.calls)
}

func TestSessionCleanup_StartRejectsBadSchedule(t *testing.T) {
	job := NewSessionCleanup(setupCleanupTestDB(t), nil, "every now and then")
	assert.Error(t, job.Start(context.Background()))
}

func TestSessionCleanup_StartAndStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	job := NewSessionCleanup(setupCleanupTestDB(t), nil, "*/5 * * * *")
	require.NoError(t, job.Start(ctx))
	assert.True(t, job.scheduler.IsRunning())

	cancel()
	assert.Eventually(t, func() bool { return !job.scheduler.IsRunning() }, 2*time.Second, 20*time.Millisecond)
}
