package sensors

import (
	"time"

	"github.com/saltwater-robotics/boatcore/internal/geo"
)

// ShipType is the AIS shiptype code (a small subset of the full ITU
// enumeration; the core treats it as an opaque classifier).
type ShipType int

// NavStatus is the AIS navigational status code.
type NavStatus int

const (
	NavUnderwayUsingEngine NavStatus = iota
	NavAtAnchor
	NavNotUnderCommand
	NavRestrictedManoeuvrability
	NavConstrainedByDraught
	NavMoored
	NavAground
	NavUnknown = 15
)

// Dimensions is a vessel's reported size relative to its reported GPS
// antenna position.
type Dimensions struct {
	ToBow       float64
	ToStern     float64
	ToPort      float64
	ToStarboard float64
}

// AISContact is a single tracked AIS target, keyed externally by MMSI.
type AISContact struct {
	MMSI          int
	LastContact   time.Time
	LastTimestamp time.Time
	Fix           geo.Location
	Device        string
	Type          ShipType
	Nav           NavStatus
	Turn          float64
	Speed         float64
	Course        float64
	Heading       float64
	Callsign      string
	Name          string
	Dimensions    Dimensions
	EPFD          string
}

// Prunable reports whether the contact should be dropped: older than
// maxAge relative to now, or farther than maxDistance from ref.
func (c AISContact) Prunable(ref geo.Location, now time.Time, maxAge time.Duration, maxDistance float64) bool {
	if now.Sub(c.LastContact) > maxAge {
		return true
	}
	if !ref.IsValid() || !c.Fix.IsValid() {
		return false
	}
	dist, err := ref.Distance(c.Fix, geo.GreatCircle)
	if err != nil {
		return false
	}
	return dist > maxDistance
}

// AISTable is the map of tracked contacts, keyed by MMSI.
type AISTable map[int]AISContact

// Upsert inserts or replaces a contact keyed by its MMSI.
func (t AISTable) Upsert(c AISContact) {
	t[c.MMSI] = c
}

// Prune removes every contact for which Prunable reports true and
// returns the set of MMSIs removed. Prune is idempotent: pruning twice
// at the same (now, ref) removes the same set as pruning once (the
// second call removes nothing further).
func (t AISTable) Prune(ref geo.Location, now time.Time, maxAge time.Duration, maxDistance float64) []int {
	var removed []int
	for mmsi, c := range t {
		if c.Prunable(ref, now, maxAge, maxDistance) {
			removed = append(removed, mmsi)
			delete(t, mmsi)
		}
	}
	return removed
}
