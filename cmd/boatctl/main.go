// Command boatctl is the onboard entry point: it loads tuning
// configuration, opens the actuator board, RC, and IMU/ADC serial
// links (or their -dev fixtures), dials gpsd, and runs the CTRL/GPS/
// IMU/ADC/RC/TELE threads until SIGINT or SIGTERM.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/saltwater-robotics/boatcore/internal/actuators"
	"github.com/saltwater-robotics/boatcore/internal/boatstate"
	"github.com/saltwater-robotics/boatcore/internal/commands"
	"github.com/saltwater-robotics/boatcore/internal/config"
	"github.com/saltwater-robotics/boatcore/internal/fsutil"
	"github.com/saltwater-robotics/boatcore/internal/modes"
	"github.com/saltwater-robotics/boatcore/internal/monitoring"
	"github.com/saltwater-robotics/boatcore/internal/persist"
	"github.com/saltwater-robotics/boatcore/internal/scheduler"
	"github.com/saltwater-robotics/boatcore/internal/serialport"
	"github.com/saltwater-robotics/boatcore/internal/telemetry"
	"github.com/saltwater-robotics/boatcore/internal/timeutil"
	"github.com/saltwater-robotics/boatcore/internal/version"
)

var (
	devMode     = flag.Bool("dev", false, "run against recorded fixtures instead of real hardware")
	rcFixture   = flag.String("rc-fixture", "", "dev mode: file of RC CSV lines to replay")
	imuFixture  = flag.String("imu-fixture", "", "dev mode: file of IMU CSV lines to replay")
	adcFixture  = flag.String("adc-fixture", "", "dev mode: file of ADC CSV lines to replay")
	gpsFixture  = flag.String("gps-fixture", "", "dev mode: file of gpsd JSON lines to replay")
	showVersion = flag.Bool("version", false, "print the build version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		log.Printf("boatctl %s (%s, built %s)", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	cfg, err := config.LoadBoatConfig(config.ResolveConfigPath())
	if err != nil {
		log.Fatalf("boatctl: load config: %v", err)
	}

	store, err := persist.Open(cfg.GetStoragePath())
	if err != nil {
		log.Fatalf("boatctl: open store: %v", err)
	}
	defer store.Close()

	state := boatstate.NewBoatState()
	clock := timeutil.RealClock{}

	board, err := openActuatorBoard(cfg)
	if err != nil {
		log.Fatalf("boatctl: open actuator board: %v", err)
	}

	out := modes.Outputs{
		Rudder:      actuators.NewRudder(board, cfg.GetRudderMin(), cfg.GetRudderMax()),
		Throttle:    actuators.NewThrottle(board, clock, cfg.GetThrottleMin(), cfg.GetThrottleMax(), cfg.GetThrottleDwell()),
		Horn:        actuators.NewHorn(board),
		ServoEnable: actuators.NewServoEnable(board),
		Disarm:      actuators.NewDisarmLine(board, clock, cfg.GetDisarmPulse()),
	}
	ctrl := modes.NewController(state, cfg, clock, out)
	dispatcher := commands.NewDispatcher(&commands.Context{
		State:      state,
		Controller: ctrl,
		Store:      store,
		FS:         fsutil.OSFileSystem{},
		DumpDir:    cfg.GetDumpDir(),
	})
	results := dispatcher.Results()
	tele := telemetry.NewServer(state, results, store, out.Rudder, out.Throttle)
	if err := store.AttachAdminRoutes(tele.ServeMux()); err != nil {
		log.Printf("boatctl: attach admin routes: %v", err)
	}

	in := scheduler.Inputs{}
	if in.RC, err = openLink(*devMode, *rcFixture, "/dev/ttyRC0", cfg.GetActuatorBoardBaud()); err != nil {
		log.Fatalf("boatctl: open RC link: %v", err)
	}
	if in.IMU, err = openLink(*devMode, *imuFixture, "/dev/ttyIMU0", cfg.GetActuatorBoardBaud()); err != nil {
		log.Fatalf("boatctl: open IMU link: %v", err)
	}
	if in.ADC, err = openLink(*devMode, *adcFixture, "/dev/ttyADC0", cfg.GetActuatorBoardBaud()); err != nil {
		log.Fatalf("boatctl: open ADC link: %v", err)
	}
	if in.GPSDStream, err = openGPSDStream(*devMode, *gpsFixture, cfg.GetGPSDPort()); err != nil {
		log.Fatalf("boatctl: open gpsd stream: %v", err)
	}

	sched := scheduler.New(state, cfg, clock, ctrl, dispatcher, store, tele, in)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	monitoring.Logf("boatctl: starting, telemetry on %s", cfg.GetTelemetryListenAddr())
	sched.Run(ctx)
	monitoring.Logf("boatctl: stopped")
}

func openActuatorBoard(cfg *config.BoatConfig) (*actuators.SerialBoard, error) {
	opts := serialport.Options{BaudRate: cfg.GetActuatorBoardBaud()}
	link, err := serialport.Open(cfg.GetActuatorBoardPort(), opts)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := link.Monitor(context.Background()); err != nil {
			monitoring.Logf("boatctl: actuator board link stopped: %v", err)
		}
	}()
	return actuators.NewSerialBoard(link), nil
}

// openLink opens a real serial Link, or in dev mode wraps a fixture
// file's bytes in an in-memory MockPort so the corresponding scheduler
// thread can be exercised without hardware attached.
func openLink(dev bool, fixturePath, devicePath string, baud int) (*serialport.Link, error) {
	if dev {
		if fixturePath == "" {
			return nil, nil
		}
		data, err := os.ReadFile(fixturePath)
		if err != nil {
			return nil, err
		}
		return serialport.NewLink(serialport.NewMockPort(data)), nil
	}
	return serialport.Open(devicePath, serialport.Options{BaudRate: baud})
}

// openGPSDStream dials gpsd in production, or replays a fixture file of
// recorded gpsd JSON lines in dev mode. Both *os.File and net.Conn
// satisfy io.ReadCloser, so no adapter is needed.
func openGPSDStream(dev bool, fixturePath, gpsdAddr string) (io.ReadCloser, error) {
	if dev {
		if fixturePath == "" {
			return nil, nil
		}
		return os.Open(fixturePath)
	}
	return net.Dial("tcp", gpsdAddr)
}
