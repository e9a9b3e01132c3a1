package boatstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoatMode_StringAndParse_RoundTrip(t *testing.T) {
	t.Parallel()

	for m := BoatNone; m <= BoatArmedTest; m++ {
		name := m.String()
		parsed, ok := ParseBoatMode(name)
		assert.True(t, ok, "name %q should parse", name)
		assert.Equal(t, m, parsed)
	}
}

func TestBoatMode_ParseUnknown(t *testing.T) {
	t.Parallel()

	_, ok := ParseBoatMode("NOT_A_MODE")
	assert.False(t, ok)
}

func TestNavAutoRCMode_StringAndParse(t *testing.T) {
	t.Parallel()

	for m := NavNone; m <= NavAutonomous; m++ {
		parsed, ok := ParseNavMode(m.String())
		assert.True(t, ok)
		assert.Equal(t, m, parsed)
	}
	for m := AutoNone; m <= AutoAnchor; m++ {
		parsed, ok := ParseAutoMode(m.String())
		assert.True(t, ok)
		assert.Equal(t, m, parsed)
	}
	for m := RCNone; m <= RCFailsafe; m++ {
		parsed, ok := ParseRCMode(m.String())
		assert.True(t, ok)
		assert.Equal(t, m, parsed)
	}
}
