package kernel

import "fmt"

// LocationPosition selects the coordinate pair of a Location.
const LocationPosition FieldMask = 0x00000001

// Location represents a geographic position as a latitude/longitude pair.
// The zero value is the unset position; (0,0) doubles as the invalid
// sentinel used throughout geocoding, so a Location at the exact origin
// never validates.
//
// Example:
//
//	var loc kernel.Location
//	loc.SetPosition(30.2672, -97.7431)
//	fmt.Println(loc) // Output: Location(30.267200,-97.743100)
type Location struct {
	latitude  float64
	longitude float64
}

// Latitude returns the latitude in decimal degrees.
func (l Location) Latitude() float64 {
	return l.latitude
}

// Longitude returns the longitude in decimal degrees.
func (l Location) Longitude() float64 {
	return l.longitude
}

// SetPosition sets both coordinates at once. Any pair is accepted here;
// whether the position counts as set is the concern of Validate.
func (l *Location) SetPosition(latitude float64, longitude float64) {
	l.latitude = latitude
	l.longitude = longitude
}

// Validate checks the fields requested by the mask and returns the bits of
// those that failed. The position is invalid while either coordinate is
// zero.
func (l Location) Validate(mask FieldMask) FieldMask {
	invalid := FieldMaskNone

	if mask.Has(LocationPosition) {
		if l.latitude == 0 || l.longitude == 0 {
			invalid = invalid.With(LocationPosition)
		}
	}

	return invalid
}

// IsEqual compares two locations by exact coordinate equality.
func (l Location) IsEqual(other Location) bool {
	return l == other
}

// WriteJSON copies the requested fields into target under their canonical
// keys and returns target.
func (l Location) WriteJSON(target map[string]any, mask FieldMask) map[string]any {
	if mask.Has(LocationPosition) {
		target["latitude"] = l.latitude
		target["longitude"] = l.longitude
	}
	return target
}

// ReadJSON populates the position when both coordinate keys are present and
// numeric. It returns the bits of the fields that failed to parse.
func (l *Location) ReadJSON(source map[string]any) FieldMask {
	invalid := FieldMaskNone

	latRaw, hasLat := source["latitude"]
	lngRaw, hasLng := source["longitude"]
	if hasLat && hasLng {
		lat, okLat := AsNumber(latRaw)
		lng, okLng := AsNumber(lngRaw)
		if okLat && okLng {
			l.SetPosition(lat, lng)
		} else {
			invalid = invalid.With(LocationPosition)
		}
	}

	return invalid
}

// String returns a human-readable representation of the location.
func (l Location) String() string {
	return fmt.Sprintf("Location(%f,%f)", l.latitude, l.longitude)
}
