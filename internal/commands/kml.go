package commands

import (
	"fmt"
	"strings"

	"github.com/saltwater-robotics/boatcore/internal/boatstate"
	"github.com/saltwater-robotics/boatcore/internal/geo"
	"github.com/saltwater-robotics/boatcore/internal/sensors"
)

const (
	kmlHead1 = `<?xml version="1.0" encoding="UTF-8"?>`
	kmlHead2 = `<kml xmlns="http://earth.google.com/kml/2.1">`
)

// trackKML renders a sequence of locations as a single LineString
// Placemark named name.
func trackKML(name string, points []geo.Location) string {
	var b strings.Builder
	b.WriteString(kmlHead1 + "\n")
	b.WriteString(kmlHead2 + "\n")
	b.WriteString("<Document>\n")
	b.WriteString("<Placemark>\n")
	fmt.Fprintf(&b, "<name>%s</name>\n", name)
	b.WriteString("<LineString>\n")
	b.WriteString("<coordinates>\n")
	for _, p := range points {
		fmt.Fprintf(&b, "%.9f,%.9f,0\n", p.Lon, p.Lat)
	}
	b.WriteString("</coordinates>\n")
	b.WriteString("</LineString>\n")
	b.WriteString("</Placemark>\n")
	b.WriteString("</Document>\n")
	b.WriteString("</kml>\n")
	return b.String()
}

// pointsKML renders one Placemark per (location, label) pair.
func pointsKML(docName string, locations []geo.Location, labels []string) string {
	var b strings.Builder
	b.WriteString(kmlHead1 + "\n")
	b.WriteString(kmlHead2 + "\n")
	b.WriteString("<Document>\n")
	fmt.Fprintf(&b, "<name>%s</name>\n", docName)
	for i, p := range locations {
		b.WriteString("<Placemark>\n")
		if i < len(labels) && labels[i] != "" {
			fmt.Fprintf(&b, "<name>%s</name>\n", labels[i])
		}
		b.WriteString("<Point>\n")
		fmt.Fprintf(&b, "<coordinates>%.9f,%.9f,0</coordinates>\n", p.Lon, p.Lat)
		b.WriteString("</Point>\n")
		b.WriteString("</Placemark>\n")
	}
	b.WriteString("</Document>\n")
	b.WriteString("</kml>\n")
	return b.String()
}

func waypointsToKML(waypoints []boatstate.Waypoint) string {
	locations := make([]geo.Location, len(waypoints))
	labels := make([]string, len(waypoints))
	for i, w := range waypoints {
		locations[i] = w.Location
		labels[i] = fmt.Sprintf("WP%d (%s)", i, w.Action)
	}
	return pointsKML("Waypoints", locations, labels)
}

func waypointsToPathKML(waypoints []boatstate.Waypoint) string {
	locations := make([]geo.Location, len(waypoints))
	for i, w := range waypoints {
		locations[i] = w.Location
	}
	return trackKML("Planned Path", locations)
}

func aisToKML(contacts []sensors.AISContact) string {
	locations := make([]geo.Location, 0, len(contacts))
	labels := make([]string, 0, len(contacts))
	for _, c := range contacts {
		if !c.Fix.IsValid() {
			continue
		}
		locations = append(locations, c.Fix)
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("MMSI %d", c.MMSI)
		}
		labels = append(labels, name)
	}
	return pointsKML("Tracked Contacts", locations, labels)
}
