// Package address defines the physical address value object used for
// pickup and dropoff locations and for account records.
package address

import (
	"slices"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// Address field selection bits.
const (
	Name        kernel.FieldMask = 0x00000001
	Streets     kernel.FieldMask = 0x00000002
	City        kernel.FieldMask = 0x00000004
	State       kernel.FieldMask = 0x00000008
	ZipCode     kernel.FieldMask = 0x00000010
	PhoneNumber kernel.FieldMask = 0x00000020
	Location    kernel.FieldMask = 0x00000040
)

// Address is a mutable value object describing a physical address. It starts
// empty and is populated through setters or ReadJSON; each setter enforces
// its field's normalization rule and leaves the field unchanged on failure.
type Address struct {
	name        string
	streets     []string
	city        string
	state       string
	zipCode     string
	phoneNumber string
	location    kernel.Location
}

// Name returns the display name attached to the address.
func (a Address) Name() string {
	return a.name
}

// Streets returns a copy of the street lines.
func (a Address) Streets() []string {
	return slices.Clone(a.streets)
}

// City returns the city.
func (a Address) City() string {
	return a.city
}

// State returns the normalized two-letter state code.
func (a Address) State() string {
	return a.state
}

// ZipCode returns the five-digit zip code.
func (a Address) ZipCode() string {
	return a.zipCode
}

// PhoneNumber returns the ten-digit phone number.
func (a Address) PhoneNumber() string {
	return a.phoneNumber
}

// Location returns the geographic position of the address.
func (a Address) Location() kernel.Location {
	return a.location
}

// SetName sets the display name. The name must not be empty.
func (a *Address) SetName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	a.name = name
	return nil
}

// SetStreets replaces the street lines. At least one line is required and
// no line may be empty.
func (a *Address) SetStreets(streets []string) error {
	if len(streets) == 0 {
		return errs.NewValueIsRequiredError("streets")
	}
	for _, street := range streets {
		if street == "" {
			return errs.NewValueIsInvalidError("streets")
		}
	}
	a.streets = slices.Clone(streets)
	return nil
}

// SetCity sets the city. The city must not be empty.
func (a *Address) SetCity(city string) error {
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	a.city = city
	return nil
}

// SetState sets the state from a full name or abbreviation, storing the
// canonical two-letter code.
//
// Example:
//
//	a.SetState("Texas") // stores "TX"
//	a.SetState("tx")    // stores "TX"
func (a *Address) SetState(state string) error {
	code, ok := NormalizeState(state)
	if !ok {
		return errs.NewValueIsInvalidError("state")
	}
	a.state = code
	return nil
}

// SetZipCode sets the zip code. Non-digit characters are stripped first and
// exactly five digits must remain.
func (a *Address) SetZipCode(zipCode string) error {
	digits := digitsOnly(zipCode)
	if len(digits) != 5 {
		return errs.NewValueIsInvalidError("zipCode")
	}
	a.zipCode = digits
	return nil
}

// SetPhoneNumber sets the phone number. Non-digit characters are stripped
// first and exactly ten digits must remain.
func (a *Address) SetPhoneNumber(phoneNumber string) error {
	digits := digitsOnly(phoneNumber)
	if len(digits) != 10 {
		return errs.NewValueIsInvalidError("phoneNumber")
	}
	a.phoneNumber = digits
	return nil
}

// SetLocation sets the geographic position of the address.
func (a *Address) SetLocation(location kernel.Location) {
	a.location = location
}

// Validate checks the fields requested by the mask and returns the bits of
// those that failed. Callers that treat the name or location as optional
// leave those bits out of the mask.
func (a Address) Validate(mask kernel.FieldMask) kernel.FieldMask {
	invalid := kernel.FieldMaskNone

	if mask.Has(Name) && a.name == "" {
		invalid = invalid.With(Name)
	}
	if mask.Has(Streets) {
		if len(a.streets) == 0 || a.streets[0] == "" {
			invalid = invalid.With(Streets)
		}
	}
	if mask.Has(City) && a.city == "" {
		invalid = invalid.With(City)
	}
	if mask.Has(State) && a.state == "" {
		invalid = invalid.With(State)
	}
	if mask.Has(ZipCode) && a.zipCode == "" {
		invalid = invalid.With(ZipCode)
	}
	if mask.Has(PhoneNumber) && a.phoneNumber == "" {
		invalid = invalid.With(PhoneNumber)
	}
	if mask.Has(Location) {
		if !a.location.Validate(kernel.FieldMaskAll).IsValid() {
			invalid = invalid.With(Location)
		}
	}

	return invalid
}

// IsEqual compares two addresses. The name and location are deliberately
// excluded: two records describing the same place are the same address.
func (a Address) IsEqual(other Address) bool {
	if a.city != other.city {
		return false
	}
	if a.state != other.state {
		return false
	}
	if a.zipCode != other.zipCode {
		return false
	}
	if a.phoneNumber != other.phoneNumber {
		return false
	}
	return slices.Equal(a.streets, other.streets)
}

// WriteJSON copies the requested fields into target under their canonical
// keys and returns target.
func (a Address) WriteJSON(target map[string]any, mask kernel.FieldMask) map[string]any {
	if mask.Has(Name) {
		target["name"] = a.name
	}
	if mask.Has(City) {
		target["city"] = a.city
	}
	if mask.Has(State) {
		target["state"] = a.state
	}
	if mask.Has(ZipCode) {
		target["zipcode"] = a.zipCode
	}
	if mask.Has(PhoneNumber) {
		target["phone"] = a.phoneNumber
	}
	if mask.Has(Streets) {
		streets := make([]any, 0, len(a.streets))
		for _, street := range a.streets {
			streets = append(streets, street)
		}
		target["streets"] = streets
	}
	if mask.Has(Location) {
		target["location"] = a.location.WriteJSON(map[string]any{}, kernel.FieldMaskAll)
	}
	return target
}

// ReadJSON populates fields from the keys present in source, routing each
// through its setter, and returns the bits of the fields that failed.
func (a *Address) ReadJSON(source map[string]any) kernel.FieldMask {
	invalid := kernel.FieldMaskNone

	if raw, ok := source["name"]; ok {
		if name, okStr := kernel.AsString(raw); !okStr || a.SetName(name) != nil {
			invalid = invalid.With(Name)
		}
	}
	if raw, ok := source["streets"]; ok {
		streets, okStreets := readStreets(raw)
		if !okStreets || a.SetStreets(streets) != nil {
			invalid = invalid.With(Streets)
		}
	}
	if raw, ok := source["city"]; ok {
		if city, okStr := kernel.AsString(raw); !okStr || a.SetCity(city) != nil {
			invalid = invalid.With(City)
		}
	}
	if raw, ok := source["state"]; ok {
		if state, okStr := kernel.AsString(raw); !okStr || a.SetState(state) != nil {
			invalid = invalid.With(State)
		}
	}
	if raw, ok := source["zipcode"]; ok {
		if zip, okStr := kernel.AsString(raw); !okStr || a.SetZipCode(zip) != nil {
			invalid = invalid.With(ZipCode)
		}
	}
	if raw, ok := source["phone"]; ok {
		if phone, okStr := kernel.AsString(raw); !okStr || a.SetPhoneNumber(phone) != nil {
			invalid = invalid.With(PhoneNumber)
		}
	}
	if raw, ok := source["location"]; ok {
		obj, okObj := kernel.AsObject(raw)
		if !okObj || !a.location.ReadJSON(obj).IsValid() {
			invalid = invalid.With(Location)
		}
	}

	return invalid
}

func readStreets(raw any) ([]string, bool) {
	items, ok := kernel.AsArray(raw)
	if !ok {
		return nil, false
	}
	streets := make([]string, 0, len(items))
	for _, item := range items {
		street, okStr := kernel.AsString(item)
		if !okStr {
			return nil, false
		}
		streets = append(streets, street)
	}
	return streets, true
}

func digitsOnly(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
}
