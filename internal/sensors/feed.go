package sensors

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/saltwater-robotics/boatcore/internal/geo"
	"github.com/saltwater-robotics/boatcore/internal/monitoring"
)

// gpsdEnvelope is the minimal set of fields shared by every class of
// message on the upstream GPS daemon's newline-delimited JSON stream.
type gpsdEnvelope struct {
	Class string `json:"class"`
}

// tpvMessage is a TPV-class record: a single position fix.
type tpvMessage struct {
	Class  string  `json:"class"`
	Time   string  `json:"time"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Mode   int     `json:"mode"`
	Track  float64 `json:"track"`
	Speed  float64 `json:"speed"`
	Alt    float64 `json:"alt"`
	Climb  float64 `json:"climb"`
	EPX    float64 `json:"epx"`
	EPY    float64 `json:"epy"`
	EPT    float64 `json:"ept"`
	EPD    float64 `json:"epd"`
	EPS    float64 `json:"eps"`
	EPV    float64 `json:"epv"`
	EPC    float64 `json:"epc"`
	Device string  `json:"device"`
}

// aisMessage is an AIS-class record: a single contact update.
type aisMessage struct {
	Class       string  `json:"class"`
	MMSI        int     `json:"mmsi"`
	Status      int     `json:"status"`
	Turn        float64 `json:"turn"`
	Speed       float64 `json:"speed"`
	Course      float64 `json:"course"`
	Heading     float64 `json:"heading"`
	Callsign    string  `json:"callsign"`
	ShipName    string  `json:"shipname"`
	ShipType    int     `json:"shiptype"`
	ToBow       float64 `json:"to_bow"`
	ToStern     float64 `json:"to_stern"`
	ToPort      float64 `json:"to_port"`
	ToStarboard float64 `json:"to_starboard"`
	EPFD        string  `json:"epfd"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Device      string  `json:"device"`
}

func (m tpvMessage) toFix(now time.Time) GPSFix {
	mode := FixNone
	switch m.Mode {
	case 1:
		mode = FixNoFix
	case 2:
		mode = Fix2D
	case 3:
		mode = Fix3D
	}

	gpsTime := now
	if m.Time != "" {
		if parsed, err := time.Parse(time.RFC3339, m.Time); err == nil {
			gpsTime = parsed
		}
	}

	fix := geo.NewLocation(m.Lat, m.Lon)
	return GPSFix{
		RecordTime: now,
		GPSTime:    gpsTime,
		Mode:       mode,
		Fix:        fix,
		Track:      m.Track,
		Speed:      m.Speed,
		Altitude:   m.Alt,
		Climb:      m.Climb,
		EPX:        m.EPX,
		EPY:        m.EPY,
		EPT:        m.EPT,
		EPD:        m.EPD,
		EPS:        m.EPS,
		EPV:        m.EPV,
		EPC:        m.EPC,
		Device:     m.Device,
		FixValid:   mode == Fix2D || mode == Fix3D,
	}
}

func (m aisMessage) toContact(now time.Time) AISContact {
	return AISContact{
		MMSI:          m.MMSI,
		LastContact:   now,
		LastTimestamp: now,
		Fix:           geo.NewLocation(m.Lat, m.Lon),
		Device:        m.Device,
		Type:          ShipType(m.ShipType),
		Nav:           NavStatus(m.Status),
		Turn:          m.Turn,
		Speed:         m.Speed,
		Course:        m.Course,
		Heading:       m.Heading,
		Callsign:      m.Callsign,
		Name:          m.ShipName,
		Dimensions: Dimensions{
			ToBow:       m.ToBow,
			ToStern:     m.ToStern,
			ToPort:      m.ToPort,
			ToStarboard: m.ToStarboard,
		},
		EPFD: m.EPFD,
	}
}

// Clock is the minimal time source the feed needs; satisfied by
// timeutil.Clock.
type Clock interface {
	Now() time.Time
}

// GPSDFeed reads newline-delimited JSON records from an upstream GPS
// daemon stream and dispatches TPV fixes and AIS contacts to the
// supplied callbacks.
type GPSDFeed struct {
	reader io.Reader
	clock  Clock
	onTPV  func(GPSFix)
	onAIS  func(AISContact)
}

// NewGPSDFeed builds a feed reading from r, using clock to timestamp
// parsed records. onTPV and onAIS may be nil to ignore that class.
func NewGPSDFeed(r io.Reader, clock Clock, onTPV func(GPSFix), onAIS func(AISContact)) *GPSDFeed {
	return &GPSDFeed{reader: r, clock: clock, onTPV: onTPV, onAIS: onAIS}
}

// Run scans the stream until ctx is cancelled or the stream ends. Lines
// that fail to parse are logged and skipped; a parse failure never stops
// the feed.
func (f *GPSDFeed) Run(ctx context.Context) error {
	scan := bufio.NewScanner(f.reader)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if !scan.Scan() {
			return scan.Err()
		}
		line := scan.Bytes()
		if len(line) == 0 {
			continue
		}

		f.dispatch(line)
	}
}

func (f *GPSDFeed) dispatch(line []byte) {
	var env gpsdEnvelope
	if err := json.Unmarshal(line, &env); err != nil {
		monitoring.Logf("sensors: malformed gpsd record: %v", err)
		return
	}

	now := f.clock.Now()
	switch env.Class {
	case "TPV":
		var msg tpvMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			monitoring.Logf("sensors: malformed TPV record: %v", err)
			return
		}
		if f.onTPV != nil {
			f.onTPV(msg.toFix(now))
		}
	case "AIS":
		var msg aisMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			monitoring.Logf("sensors: malformed AIS record: %v", err)
			return
		}
		if f.onAIS != nil {
			f.onAIS(msg.toContact(now))
		}
	default:
		// Unrecognized classes (e.g. gpsd's VERSION/DEVICES/WATCH
		// handshake records) are ignored, not errors.
	}
}
