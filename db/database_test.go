package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe struct {
	ID   uint
	Name string
}

func TestInitializeAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dashboard.db")

	require.NoError(t, Initialize(path, "production"))
	t.Cleanup(func() { _ = Close() })

	require.NoError(t, AutoMigrate(&probe{}))
	require.NoError(t, DB.Create(&probe{Name: "ok"}).Error)

	var count int64
	DB.Model(&probe{}).Count(&count)
	assert.Equal(t, int64(1), count)
	assert.FileExists(t, path)
}

func TestAutoMigrate_NotInitialized(t *testing.T) {
	saved := DB
	DB = nil
	defer func() { DB = saved }()

	assert.Error(t, AutoMigrate(&probe{}))
	assert.NoError(t, Close())
}
