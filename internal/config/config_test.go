package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recurcal/internal/model"
)

func TestLoad_FirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "recurcal.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoad_PartialFileIsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recurcal.yaml")
	data := []byte(`
listen: ":9090"
log_level: verbose
defaults:
  rule_type: monthly
  day_of_month: 31
snapshot:
  width: 600
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1000, cfg.MaxOccurrences)
	assert.Equal(t, 1830, cfg.MaxWindowDays)
	assert.Equal(t, "*/5 * * * *", cfg.CachePurge)
	assert.Equal(t, "monthly", cfg.Defaults.RuleType)
	assert.Equal(t, 31, cfg.Defaults.DayOfMonth)
	assert.Equal(t, "2025-05-12", cfg.Defaults.StartDate)
	assert.Equal(t, 600, cfg.Snapshot.Width)
	assert.Equal(t, 1304, cfg.Snapshot.Height)
	assert.Nil(t, cfg.BasicAuth)
}

func TestLoad_RejectsBadSchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recurcal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache_purge: \"every tuesday\"\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache_purge")
}

func TestLoad_RejectsBadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recurcal.yaml")
	data := []byte(`
defaults:
  range_start: "2025-07-01"
  range_end: "2025-06-01"
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err := Load(path)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestLoad_RejectsDefaultsWindowOverLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recurcal.yaml")
	data := []byte(`
max_window_days: 30
defaults:
  range_start: "2025-05-01"
  range_end: "2025-06-30"
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err := Load(path)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recurcal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave_RoundTripWithBasicAuth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recurcal.yaml")
	cfg := DefaultConfig()
	cfg.BasicAuth = &BasicAuthConfig{Username: "admin", Password: "s3cret"}
	cfg.CacheTTLSeconds = 0

	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestValidate_EmptyUsername(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BasicAuth = &BasicAuthConfig{Password: "x"}
	assert.Error(t, cfg.Validate())
}

func TestSave_Errors(t *testing.T) {
	assert.Error(t, Save("", DefaultConfig()))
	assert.Error(t, Save(filepath.Join(t.TempDir(), "x.yaml"), nil))
	_, err := Load("")
	assert.Error(t, err)
}
