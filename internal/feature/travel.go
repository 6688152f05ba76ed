package feature

import "math"

// earthRadiusMiles is the Earth's radius used by the haversine formula.
const earthRadiusMiles = 3959

// Coordinates is a latitude/longitude pair for a team's home arena city.
type Coordinates struct {
	Lat float64
	Lon float64
}

// TeamLocations maps team abbreviations to home city coordinates. Static
// configuration, not derived from any feed.
var TeamLocations = map[string]Coordinates{
	"ATL": {33.7573, -84.3963},
	"BOS": {42.3661, -71.0621},
	"BKN": {40.6826, -73.9754},
	"CHA": {35.2251, -80.8392},
	"CHI": {41.8807, -87.6742},
	"CLE": {41.4965, -81.6882},
	"DAL": {32.7905, -96.8103},
	"DEN": {39.7487, -105.0077},
	"DET": {42.3410, -83.0550},
	"GSW": {37.7680, -122.3878},
	"HOU": {29.7508, -95.3621},
	"IND": {39.7640, -86.1555},
	"LAC": {34.0430, -118.2673},
	"LAL": {34.0430, -118.2673},
	"MEM": {35.1382, -90.0505},
	"MIA": {25.7814, -80.1870},
	"MIL": {43.0436, -87.9170},
	"MIN": {44.9795, -93.2760},
	"NOP": {29.9490, -90.0821},
	"NYK": {40.7505, -73.9934},
	"OKC": {35.4634, -97.5151},
	"ORL": {28.5392, -81.3839},
	"PHI": {39.9012, -75.1720},
	"PHX": {33.4457, -112.0713},
	"POR": {45.5316, -122.6668},
	"SAC": {38.5801, -121.4998},
	"SAS": {29.4270, -98.4375},
	"TOR": {43.6435, -79.3791},
	"UTA": {40.7683, -111.9011},
	"WAS": {38.8981, -77.0209},
}

// TravelDistance returns the great-circle distance in miles the visiting team
// covers to reach the host's arena. Unknown abbreviations yield 0.
func TravelDistance(visitorAbbr, hostAbbr string) float64 {
	from, ok := TeamLocations[visitorAbbr]
	if !ok {
		return 0
	}
	to, ok := TeamLocations[hostAbbr]
	if !ok {
		return 0
	}
	return Haversine(from, to)
}

// Haversine returns the great-circle distance in miles between two points.
func Haversine(a, b Coordinates) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dlat := radians(b.Lat - a.Lat)
	dlon := radians(b.Lon - a.Lon)

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

// TravelFatigue maps travel distance to a win-probability penalty for the
// visiting team, in percentage points. The band boundaries are tuned policy:
// under 500 miles is a short hop, 2500+ is coast-to-coast.
func TravelFatigue(distanceMiles float64) float64 {
	switch {
	case distanceMiles < 500:
		return -0.5
	case distanceMiles < 1500:
		return -2.0
	case distanceMiles < 2500:
		return -5.0
	default:
		return -7.0
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
