package orientation

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/saltwater-robotics/boatcore/internal/geo"
	"github.com/saltwater-robotics/boatcore/internal/timeutil"
)

// ErrDeclinationUnavailable is returned when a declination sample cannot
// be computed for the given location. The caller's cached value is left
// unchanged.
var ErrDeclinationUnavailable = errors.New("declination unavailable")

// geomagneticPole is the approximate location of the north geomagnetic
// dipole pole. This substitutes a closed-form dipole-field model for a
// full WMM/EMM coefficient table, which ships with neither this module
// nor its dependencies.
var geomagneticPole = geo.NewLocation(80.7, -72.68)

const sampleWindow = 8

// DeclinationModel caches a declination value keyed by (time, location)
// and refreshes it only when stale, per updateDeclination's contract.
// It smooths successive raw samples with a rolling mean/variance so that
// small positional jitter near a refresh boundary doesn't visibly move
// the cached heading correction.
type DeclinationModel struct {
	mu            sync.Mutex
	clock         timeutil.Clock
	refreshWindow time.Duration
	lastUpdate    time.Time
	lastLocation  geo.Location
	samples       []float64
	cached        float64
	hasCached     bool
}

// NewDeclinationModel creates a model using clock for timestamps and
// refreshWindow as the maximum cache age before a recompute is due.
func NewDeclinationModel(clock timeutil.Clock, refreshWindow time.Duration) *DeclinationModel {
	return &DeclinationModel{clock: clock, refreshWindow: refreshWindow}
}

// Current returns the last cached declination without recomputing.
func (m *DeclinationModel) Current() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cached
}

// Update recomputes declination for loc if the cache is stale or loc has
// moved since the last sample, and returns the (possibly unchanged)
// cached value. On failure the cache is left unchanged and an error
// wrapping ErrDeclinationUnavailable is returned, matching the source
// behaviour of leaving declination untouched on model failure.
func (m *DeclinationModel) Update(loc geo.Location) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	stale := !m.hasCached || now.Sub(m.lastUpdate) >= m.refreshWindow || !loc.Equal(m.lastLocation)
	if !stale {
		return m.cached, nil
	}

	raw, err := dipoleDeclination(loc, now)
	if err != nil {
		return m.cached, fmt.Errorf("orientation: update declination: %w", err)
	}

	m.samples = append(m.samples, raw)
	if len(m.samples) > sampleWindow {
		m.samples = m.samples[len(m.samples)-sampleWindow:]
	}

	mean := raw
	if len(m.samples) > 1 {
		mean, _ = stat.MeanVariance(m.samples, nil)
	}

	m.cached = mean
	m.hasCached = true
	m.lastUpdate = now
	m.lastLocation = loc
	return m.cached, nil
}

// dipoleDeclination approximates magnetic declination at loc as the
// great-circle bearing from loc to the geomagnetic dipole pole: field
// lines of a pure dipole model point along that bearing, so the angle
// between true north and "toward the pole" stands in for declination.
// The UTC year of t is accepted for interface parity with an evaluated
// magnetic-epoch model but does not affect this fixed-pole approximation.
func dipoleDeclination(loc geo.Location, t time.Time) (float64, error) {
	if !loc.IsValid() {
		return 0, fmt.Errorf("%w: invalid location", ErrDeclinationUnavailable)
	}
	_ = t.UTC().Year()

	bearing, err := loc.Bearing(geomagneticPole, geo.GreatCircle)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDeclinationUnavailable, err)
	}

	// Declination is signed in [-180,180]: east-positive, west-negative.
	d := bearing
	if d > 180 {
		d -= 360
	}
	if math.IsNaN(d) {
		return 0, fmt.Errorf("%w: non-finite result", ErrDeclinationUnavailable)
	}
	return d, nil
}
