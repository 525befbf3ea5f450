package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFiles_Precedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app_port":"9000","db_driver":"postgres","upload_max_bytes":1024}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("APP_PORT=9100\nMAIL_FROM=\"shop@trendiwear.test\"\n"), 0o644))
	t.Setenv("APP_PORT", "9200")

	require.NoError(t, loadFromFiles(jsonPath, envPath))

	assert.Equal(t, "9200", get("APP_PORT", ""), "process env wins over .env and app.json")
	assert.Equal(t, "postgres", get("DB_DRIVER", ""))
	assert.Equal(t, "shop@trendiwear.test", get("MAIL_FROM", ""))
	assert.Equal(t, "1024", get("UPLOAD_MAX_BYTES", ""))
}

func TestLoadFromFiles_MissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, ".env")))
	assert.Equal(t, defaultJWTSecret, get("JWT_SECRET", ""))
}

func TestTypedReaders(t *testing.T) {
	Set("RATE_LIMIT_PER_MINUTE", "42")
	Set("FEATURE_X", "yes")
	Set("BROKEN_INT", "forty")

	assert.Equal(t, 42, Int("RATE_LIMIT_PER_MINUTE", 200))
	assert.Equal(t, 7, Int("BROKEN_INT", 7))
	assert.True(t, Bool("FEATURE_X", false))
	assert.False(t, Bool("UNSET_FLAG", false))
}
