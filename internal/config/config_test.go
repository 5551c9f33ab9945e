package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 2*time.Second, cfg.LockTimeout)
	assert.Equal(t, 64, cfg.SubscriberBuffer)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	env := "PORT=9090\nLOCK_TIMEOUT=500ms\nSUBSCRIBER_BUFFER=8\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Setenv("SUBSCRIBER_BUFFER", "16")
	t.Setenv("STORE_DRIVER", "sqlite")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.LockTimeout)
	assert.Equal(t, 16, cfg.SubscriberBuffer)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"zero lock timeout", map[string]string{"LOCK_TIMEOUT": "0s"}},
		{"zero buffer", map[string]string{"SUBSCRIBER_BUFFER": "0"}},
		{"unknown driver", map[string]string{"STORE_DRIVER": "mongo"}},
		{"postgres without url", map[string]string{"STORE_DRIVER": "postgres"}},
		{"default secret in production", map[string]string{"ENV": "production"}},
		{"bcrypt cost", map[string]string{"BCRYPT_COST": "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(t.TempDir())
			assert.Error(t, err)
		})
	}
}
