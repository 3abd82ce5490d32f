package ports

import "context"

// GeocodeStatus reports the outcome of a single geocoding attempt.
// The values mirror the status strings of the Google Geocoding API.
type GeocodeStatus int

const (
	GeocodeStatusOK GeocodeStatus = iota
	GeocodeStatusZeroResults
	GeocodeStatusOverQueryLimit
	GeocodeStatusRequestDenied
	GeocodeStatusInvalidRequest
	GeocodeStatusUnknownError
)

// String returns the wire-level status name.
func (s GeocodeStatus) String() string {
	switch s {
	case GeocodeStatusOK:
		return "OK"
	case GeocodeStatusZeroResults:
		return "ZERO_RESULTS"
	case GeocodeStatusOverQueryLimit:
		return "OVER_QUERY_LIMIT"
	case GeocodeStatusRequestDenied:
		return "REQUEST_DENIED"
	case GeocodeStatusInvalidRequest:
		return "INVALID_REQUEST"
	default:
		return "UNKNOWN_ERROR"
	}
}

// GeocodeComponent is one piece of a geocoded address, such as a city or
// postal code. Types carries the component categories the provider
// assigned to it.
type GeocodeComponent struct {
	ShortName string
	Types     []string
}

// GeocodeResult is a single candidate returned for a query.
type GeocodeResult struct {
	Components []GeocodeComponent
	Latitude   float64
	Longitude  float64
}

// Geocoder resolves a free-form address query into coordinates.
// A non-OK status is not an error: transport worked, the provider just
// could not (or would not) resolve the query. The error return is
// reserved for transport and decoding failures.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (GeocodeStatus, []GeocodeResult, error)
}
