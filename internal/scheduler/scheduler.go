// Package scheduler owns the concurrency model: one privileged CTRL
// loop ticking the mode machinery at a fixed period, and a goroutine per
// independent-cadence input (GPS, IMU, ADC, RC) plus the outgoing
// telemetry surface, all joined on a single context and WaitGroup, the
// same shape as the teacher's deleted root main.go.
package scheduler

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/saltwater-robotics/boatcore/internal/boatstate"
	"github.com/saltwater-robotics/boatcore/internal/commands"
	"github.com/saltwater-robotics/boatcore/internal/config"
	"github.com/saltwater-robotics/boatcore/internal/modes"
	"github.com/saltwater-robotics/boatcore/internal/monitoring"
	"github.com/saltwater-robotics/boatcore/internal/orientation"
	"github.com/saltwater-robotics/boatcore/internal/persist"
	"github.com/saltwater-robotics/boatcore/internal/sensors"
	"github.com/saltwater-robotics/boatcore/internal/serialport"
	"github.com/saltwater-robotics/boatcore/internal/telemetry"
	"github.com/saltwater-robotics/boatcore/internal/timeutil"
)

// declinationRefreshWindow bounds how often the declination model
// recomputes from the current GPS fix; the model itself also recomputes
// early if the fix has moved, per DeclinationModel.Update.
const declinationRefreshWindow = 5 * time.Minute

// Inputs bundles the optional I/O collaborators a Scheduler reads from.
// Every field may be left nil: a nil link or reader simply means that
// goroutine is not started, for benches that lack the corresponding
// hardware.
type Inputs struct {
	GPSDStream io.ReadCloser
	RC         *serialport.Link
	IMU        *serialport.Link
	ADC        *serialport.Link
}

// Scheduler drives the full set of threads listed in the concurrency
// model: CTRL, GPS, IMU, ADC, RC, and TELE.
type Scheduler struct {
	state      *boatstate.BoatState
	cfg        *config.BoatConfig
	clock      timeutil.Clock
	ctrl       *modes.Controller
	dispatcher *commands.Dispatcher
	store       *persist.Store
	tele        *telemetry.Server
	in          Inputs
	declination *orientation.DeclinationModel
}

// New builds a Scheduler. tele and store may be nil (no HTTP surface or
// no persistence, respectively); in's fields may be nil per Inputs' doc.
func New(state *boatstate.BoatState, cfg *config.BoatConfig, clock timeutil.Clock, ctrl *modes.Controller, dispatcher *commands.Dispatcher, store *persist.Store, tele *telemetry.Server, in Inputs) *Scheduler {
	return &Scheduler{
		state:       state,
		cfg:         cfg,
		clock:       clock,
		ctrl:        ctrl,
		dispatcher:  dispatcher,
		store:       store,
		tele:        tele,
		in:          in,
		declination: orientation.NewDeclinationModel(clock, declinationRefreshWindow),
	}
}

// Run starts every configured thread and blocks until ctx is cancelled
// and every thread has returned.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.runCtrl(ctx)
		monitoring.Logf("scheduler: CTRL stopped")
	}()

	if s.in.GPSDStream != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runGPS(ctx)
			monitoring.Logf("scheduler: GPS stopped")
		}()
	}

	if s.in.RC != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runLinkMonitor(ctx, s.in.RC, "RC")
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runRC(ctx)
			monitoring.Logf("scheduler: RC stopped")
		}()
	}

	if s.in.IMU != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runLinkMonitor(ctx, s.in.IMU, "IMU")
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runIMU(ctx)
			monitoring.Logf("scheduler: IMU stopped")
		}()
	}

	if s.in.ADC != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runLinkMonitor(ctx, s.in.ADC, "ADC")
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runADC(ctx)
			monitoring.Logf("scheduler: ADC stopped")
		}()
	}

	if s.tele != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.tele.Start(ctx, s.cfg.GetTelemetryListenAddr()); err != nil {
				monitoring.Logf("scheduler: TELE stopped with error: %v", err)
				return
			}
			monitoring.Logf("scheduler: TELE stopped")
		}()
	}

	wg.Wait()
}

// runLinkMonitor owns a serialport.Link's Monitor loop; its Lines()
// channel is consumed by the matching runRC/runIMU/runADC goroutine.
func (s *Scheduler) runLinkMonitor(ctx context.Context, link *serialport.Link, name string) {
	if err := link.Monitor(ctx); err != nil {
		monitoring.Logf("scheduler: %s link monitor stopped: %v", name, err)
	}
}

// runCtrl is the sole privileged thread: every FramePeriod it drains
// pending commands, ticks the mode machinery, and returns (BoatState is
// read live by telemetry; there is nothing further to "publish").
func (s *Scheduler) runCtrl(ctx context.Context) {
	ticker := s.clock.NewTicker(s.cfg.GetFramePeriod())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.dispatcher.Drain(s.cfg.GetCommandsPerTick())
			s.ctrl.Tick()
			if s.store != nil {
				s.snapshotState()
			}
		}
	}
}

func (s *Scheduler) snapshotState() {
	m := s.state.Modes()
	if _, err := s.store.InsertStateSnapshot(m, s.state.Faults.Strings()); err != nil {
		monitoring.Logf("scheduler: state snapshot failed: %v", err)
	}
}

// runGPS reads the gpsd-style stream until ctx is cancelled, publishing
// fixes and AIS contacts with a bounded wait so a lock held briefly by
// CTRL's try-lock read never stalls this thread indefinitely.
func (s *Scheduler) runGPS(ctx context.Context) {
	defer s.in.GPSDStream.Close()
	feed := sensors.NewGPSDFeed(s.in.GPSDStream, s.clock, s.onFix, s.onAIS)
	if err := feed.Run(ctx); err != nil {
		monitoring.Logf("scheduler: gpsd feed stopped: %v", err)
	}
}

func (s *Scheduler) onFix(fix sensors.GPSFix) {
	if !s.state.GPSFix.SetWithTimeout(fix, s.cfg.GetGuardedSetWait()) {
		monitoring.Logf("scheduler: GPS fix publish missed its lock window")
		return
	}
	s.state.MarkFix(s.clock.Now())
	if s.store != nil {
		if _, err := s.store.InsertGPSFix(fix); err != nil {
			monitoring.Logf("scheduler: persist gps fix: %v", err)
		}
	}
}

func (s *Scheduler) onAIS(contact sensors.AISContact) {
	table := s.state.AIS.Get()
	table.Upsert(contact)
	if fix, ok := s.state.GPSFix.TryGet(); ok && fix.IsValid() {
		table.Prune(fix.Fix, s.clock.Now(), s.cfg.GetAISPruneAge(), s.cfg.GetAISPruneDistanceMeters())
	}
	if !s.state.AIS.SetWithTimeout(table, s.cfg.GetGuardedSetWait()) {
		monitoring.Logf("scheduler: AIS table publish missed its lock window")
	}
	if s.store != nil {
		if _, err := s.store.InsertAISContact(contact); err != nil {
			monitoring.Logf("scheduler: persist ais contact: %v", err)
		}
	}
}

// runRC reads CSV RC frames off its Link, matching the throttle, rudder,
// course target, mode select name, and arm/disarm edges documented on
// RCFrame.
func (s *Scheduler) runRC(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-s.in.RC.Lines():
			if !ok {
				return
			}
			frame, err := parseRCFrame(line, s.clock.Now())
			if err != nil {
				monitoring.Logf("scheduler: malformed RC frame: %v", err)
				continue
			}
			if !s.state.RC.SetWithTimeout(frame, s.cfg.GetGuardedSetWait()) {
				monitoring.Logf("scheduler: RC frame publish missed its lock window")
				continue
			}
			s.state.MarkRC(s.clock.Now())
		}
	}
}

// runIMU reads CSV orientation samples off its Link.
func (s *Scheduler) runIMU(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-s.in.IMU.Lines():
			if !ok {
				return
			}
			o, err := parseOrientation(line, s.clock.Now())
			if err != nil {
				monitoring.Logf("scheduler: malformed IMU sample: %v", err)
				continue
			}
			o = s.applyDeclination(o)
			if !s.state.Orientation.SetWithTimeout(o, s.cfg.GetGuardedSetWait()) {
				monitoring.Logf("scheduler: orientation publish missed its lock window")
			}
		}
	}
}

// applyDeclination refreshes the cached declination model from the most
// recent GPS fix and converts a magnetic-tagged sample to true heading
// before publishing, so every consumer of BoatState.Orientation sees a
// true heading regardless of which tagging the IMU board reports. A
// stale or absent GPS fix leaves the sample magnetic-tagged and
// untouched, matching DeclinationModel.Update's own fail-safe.
func (s *Scheduler) applyDeclination(o orientation.Orientation) orientation.Orientation {
	if !o.Magnetic {
		return o
	}
	fix, ok := s.state.GPSFix.TryGet()
	if !ok || !fix.IsValid() || !fix.Fresh(s.clock.Now(), s.cfg.GetGPSFreshWindow()) {
		return o
	}
	dec, err := s.declination.Update(fix.Fix)
	if err != nil {
		monitoring.Logf("scheduler: declination update: %v", err)
		return o
	}
	o.Declination = dec
	return o.MakeTrue()
}

// runADC reads key=value analog channel lines off its Link.
func (s *Scheduler) runADC(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-s.in.ADC.Lines():
			if !ok {
				return
			}
			m, err := parseAnalogMap(line)
			if err != nil {
				monitoring.Logf("scheduler: malformed ADC sample: %v", err)
				continue
			}
			if !s.state.Analog.SetWithTimeout(m, s.cfg.GetGuardedSetWait()) {
				monitoring.Logf("scheduler: analog map publish missed its lock window")
				continue
			}
			if s.store != nil {
				if v, ok := m.Get(sensors.BatteryVoltage); ok {
					if _, err := s.store.InsertHealth(v); err != nil {
						monitoring.Logf("scheduler: persist health: %v", err)
					}
				}
			}
		}
	}
}
