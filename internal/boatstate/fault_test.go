package boatstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFaultSet_InsertUnique(t *testing.T) {
	t.Parallel()

	f := NewFaultSet()
	f.Insert(FaultNoGNSS)
	f.Insert(FaultNoGNSS)
	f.Insert(FaultNoShore)

	assert.Equal(t, 2, f.Count())
	assert.Equal(t, []string{FaultNoGNSS, FaultNoShore}, f.Strings())
}

func TestFaultSet_RemoveAndHas(t *testing.T) {
	t.Parallel()

	f := NewFaultSet()
	f.Insert(FaultNoGNSS)
	f.Insert(FaultNoRC)

	assert.True(t, f.Has(FaultNoGNSS))
	f.Remove(FaultNoGNSS)
	assert.False(t, f.Has(FaultNoGNSS))
	assert.Equal(t, []string{FaultNoRC}, f.Strings())

	// removing an absent fault is a no-op
	f.Remove(FaultNoGNSS)
	assert.Equal(t, 1, f.Count())
}

func TestFaultSet_Clear(t *testing.T) {
	t.Parallel()

	f := NewFaultSet()
	f.Insert(FaultLowBattery)
	f.Insert(FaultIMU)
	f.Clear()

	assert.Zero(t, f.Count())
	assert.Empty(t, f.Strings())
}

func TestFaultSet_OrderPreservedAcrossRemoveReinsert(t *testing.T) {
	t.Parallel()

	f := NewFaultSet()
	f.Insert(FaultNoGNSS)
	f.Insert(FaultNoShore)
	f.Insert(FaultNoRC)
	f.Remove(FaultNoShore)
	f.Insert(FaultNoShore)

	assert.Equal(t, []string{FaultNoGNSS, FaultNoRC, FaultNoShore}, f.Strings())
}
