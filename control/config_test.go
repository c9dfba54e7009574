package control

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/momentics/hioload-rt/api"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 128, cfg.EventCapacity)
	assert.Equal(t, time.Duration(-1), cfg.PollTimeout)
	assert.Positive(t, cfg.Workers)

	kept := Config{EventCapacity: 4, PollTimeout: time.Second, Workers: 2}.WithDefaults()
	assert.Equal(t, 4, kept.EventCapacity)
	assert.Equal(t, time.Second, kept.PollTimeout)
	assert.Equal(t, 2, kept.Workers)
}

func TestConfig_Validate(t *testing.T) {
	assert.ErrorIs(t, Config{EventCapacity: -1, Workers: 1}.Validate(), api.ErrInvalidArgument)
	assert.ErrorIs(t, Config{EventCapacity: 1, Workers: -3}.Validate(), api.ErrInvalidArgument)
}

func TestMetricsRegistry(t *testing.T) {
	m := NewMetricsRegistry()
	c := m.Counter("drives")
	assert.Same(t, c, m.Counter("drives"))

	c.Add(2)
	m.Add("drives", 3)
	m.Set("queue.len", 7)

	v, ok := m.Get("drives")
	require.True(t, ok)
	assert.EqualValues(t, 5, v)
	_, ok = m.Get("missing")
	assert.False(t, ok)
	assert.False(t, m.Updated().IsZero())

	snap := m.GetSnapshot()
	assert.EqualValues(t, 5, snap["drives"])
	assert.Equal(t, 7, snap["queue.len"])
}

func TestDebugProbes(t *testing.T) {
	dp := NewDebugProbes()
	dp.RegisterProbe("a", func() any { return 1 })
	dp.RegisterProbe("a", func() any { return 2 })
	RegisterPlatformProbes(dp)

	state := dp.DumpState()
	assert.Equal(t, 2, state["a"])
	assert.Contains(t, state, "platform.cpus")
	assert.Contains(t, state, "platform.poller")

	names := dp.Names()
	assert.Equal(t, "a", names[0])
	assert.IsIncreasing(t, names)

	dp.Unregister("a")
	assert.NotContains(t, dp.DumpState(), "a")
}

func TestDebugProbes_ProbeMayUseRegistry(t *testing.T) {
	dp := NewDebugProbes()
	dp.RegisterProbe("self", func() any { return len(dp.Names()) })
	assert.Equal(t, 1, dp.DumpState()["self"])
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	Logger().Named("executor").Info("hello", zap.Int("n", 1))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "executor", entry.LoggerName)
	assert.Equal(t, "hello", entry.Message)

	SetLogger(nil)
	assert.NotNil(t, Logger())
}
