package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("EVENT_BROKER", "")
	t.Setenv("SCHEDULING_TIMEZONE", "")
	t.Setenv("SCHEDULING_COMMITTED_STATUSES", "")
	t.Setenv("SCHEDULING_BATCH_POLICY", "")
	t.Setenv("SCHEDULING_ABSENCE_MATCHING", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "none", cfg.EventBroker)
	assert.Equal(t, "UTC", cfg.SchedulingTimezone)
	assert.Equal(t, []string{"present"}, cfg.SchedulingCommittedStatuses)
	assert.Equal(t, "per_slot", cfg.SchedulingBatchPolicy)
	assert.Equal(t, "full_day", cfg.SchedulingAbsenceMatching)
	assert.Equal(t, 10*time.Second, cfg.SchedulingLockTTL)
	assert.Equal(t, uint32(5), cfg.BreakerFailureThreshold)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("EVENT_BROKER", "NATS")
	t.Setenv("SCHEDULING_TIMEZONE", "Indian/Antananarivo")
	t.Setenv("SCHEDULING_COMMITTED_STATUSES", "present, validated ,")
	t.Setenv("SCHEDULING_BATCH_POLICY", "all_or_nothing")
	t.Setenv("SCHEDULING_ABSENCE_MATCHING", "window")
	t.Setenv("SCHEDULING_LOCK_TTL", "3s")
	t.Setenv("OUTBOX_BATCH_SIZE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "nats", cfg.EventBroker)
	assert.Equal(t, []string{"present", "validated"}, cfg.SchedulingCommittedStatuses)
	assert.Equal(t, "all_or_nothing", cfg.SchedulingBatchPolicy)
	assert.Equal(t, "window", cfg.SchedulingAbsenceMatching)
	assert.Equal(t, 3*time.Second, cfg.SchedulingLockTTL)
	assert.Equal(t, 50, cfg.OutboxBatchSize)
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	t.Setenv("EVENT_BROKER", "kafka")
	t.Setenv("SCHEDULING_BATCH_POLICY", "best_effort")
	t.Setenv("SCHEDULING_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EVENT_BROKER")
	assert.Contains(t, err.Error(), "SCHEDULING_BATCH_POLICY")
	assert.Contains(t, err.Error(), "SCHEDULING_TIMEZONE")
}

func TestConfig_Environment(t *testing.T) {
	cfg := &Config{AppEnv: "production"}
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}
