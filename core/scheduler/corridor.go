package scheduler

import (
	"strings"

	"github.com/kilianp07/depotplan/core/model"
)

// UnknownEndpoint names an endpoint whose station could not be resolved.
const UnknownEndpoint = "-"

// Corridor holds the two terminal stations of the line.
type Corridor struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// UnknownCorridor is used when the station list is unavailable.
func UnknownCorridor() Corridor {
	return Corridor{Origin: UnknownEndpoint, Destination: UnknownEndpoint}
}

// ResolveCorridor picks the southernmost station as origin and the
// northernmost as destination. On equal latitudes the first station listed
// wins. An empty list yields UnknownCorridor.
func ResolveCorridor(stations []model.Station) Corridor {
	if len(stations) == 0 {
		return UnknownCorridor()
	}
	south, north := stations[0], stations[0]
	for _, s := range stations[1:] {
		if s.Latitude < south.Latitude {
			south = s
		}
		if s.Latitude > north.Latitude {
			north = s
		}
	}
	return Corridor{Origin: endpointName(south), Destination: endpointName(north)}
}

func endpointName(s model.Station) string {
	if n := strings.TrimSpace(s.Name); n != "" {
		return n
	}
	return UnknownEndpoint
}
