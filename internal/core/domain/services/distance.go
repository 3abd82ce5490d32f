package services

import (
	"math"

	"freight/internal/core/domain/model/kernel"
)

// DistanceUnit selects the unit Distance reports in.
type DistanceUnit int

const (
	// UnitMiles is the default unit. Historic quirk, preserved because
	// every stored threshold was tuned against it: the value is the
	// great-circle statute-mile distance scaled by the nautical-mile
	// factor below.
	UnitMiles DistanceUnit = 0

	// UnitKilometers reports kilometers.
	UnitKilometers DistanceUnit = 1

	// UnitStatuteMiles reports unscaled statute miles.
	UnitStatuteMiles DistanceUnit = 2
)

const (
	statuteMilesToNauticalMiles = 0.8684
	statuteMilesToKilometers    = 1.609344
)

// Distance computes the great-circle distance between two positions in the
// requested unit.
func Distance(from, to kernel.Location, unit DistanceUnit) float64 {
	radLat1 := math.Pi * from.Latitude() / 180
	radLat2 := math.Pi * to.Latitude() / 180
	radTheta := math.Pi * (from.Longitude() - to.Longitude()) / 180

	distance := math.Sin(radLat1)*math.Sin(radLat2) +
		math.Cos(radLat1)*math.Cos(radLat2)*math.Cos(radTheta)
	distance = math.Acos(distance)
	distance = distance * 180 / math.Pi
	distance = distance * 60 * 1.1515

	switch unit {
	case UnitKilometers:
		return distance * statuteMilesToKilometers
	case UnitStatuteMiles:
		return distance
	default:
		return distance * statuteMilesToNauticalMiles
	}
}

// WithinRange reports whether a distance falls inside [0, rng].
func WithinRange(distance, rng float64) bool {
	return distance <= rng
}
