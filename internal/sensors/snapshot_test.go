package sensors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRCFrame_Fresh(t *testing.T) {
	t.Parallel()

	now := time.Now()
	fresh := RCFrame{Timestamp: now.Add(-100 * time.Millisecond)}
	assert.True(t, fresh.Fresh(now, 500*time.Millisecond))

	stale := RCFrame{Timestamp: now.Add(-time.Second)}
	assert.False(t, stale.Fresh(now, 500*time.Millisecond))

	assert.False(t, RCFrame{}.Fresh(now, 500*time.Millisecond))
}

func TestAnalogMap_Get(t *testing.T) {
	t.Parallel()

	m := AnalogMap{BatteryVoltage: 12.1}
	v, ok := m.Get(BatteryVoltage)
	assert.True(t, ok)
	assert.InDelta(t, 12.1, v, 1e-9)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}
