package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurosurgery/scheduler/config"
)

func TestLoad_MissingFileReturnsDefault(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_OverridesOnlySetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
leavePolicy:
  minNoticeDays: 7
monthlySchedulerConfig:
  maxWeekendsPerRotation: 3
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.LeavePolicy.MinNoticeDays)
	assert.Equal(t, 3, cfg.MonthlyScheduler.MaxWeekendsPerRotation)

	// Fields absent from the file keep their Default() values.
	def := config.Default()
	assert.Equal(t, def.LeavePolicy.MaxConsecutiveDays, cfg.LeavePolicy.MaxConsecutiveDays)
	assert.Equal(t, def.MonthlyScheduler.CallRatios, cfg.MonthlyScheduler.CallRatios)
}

func TestLoad_FullOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
monthlySchedulerConfig:
  paroHardCaps:
    - minDays: 1
      maxDays: 31
      calls: 10
  callRatios:
    2: 6
  weekendDefinition:
    - Sat
    - Sun
holidays:
  - 2026-12-25
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.MonthlyScheduler.ParoHardCaps, 1)
	assert.Equal(t, 10, cfg.MonthlyScheduler.ParoHardCaps[0].Calls)
	assert.Equal(t, 6, cfg.MonthlyScheduler.CallRatios[2])
	assert.Equal(t, []string{"Sat", "Sun"}, cfg.MonthlyScheduler.WeekendDefinition)
	assert.Equal(t, []string{"2026-12-25"}, cfg.Holidays)
}

func TestLoad_MalformedYAMLReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: valid: yaml: :"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
