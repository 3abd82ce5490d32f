package account

import (
	"strings"
	"unicode"

	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// Driver field mask bits. They live above the base account bits so both
// sets validate through the same mask.
const (
	DriverFieldCDL      kernel.FieldMask = 0x10000
	DriverFieldDOT      kernel.FieldMask = 0x20000
	DriverFieldMC       kernel.FieldMask = 0x40000
	DriverFieldVehicles kernel.FieldMask = 0x80000

	DriverFieldsAll = DriverFieldCDL | DriverFieldDOT | DriverFieldMC | DriverFieldVehicles
)

// Driver extends a master account with the credentials and equipment a
// carrier needs: commercial driver's license, DOT and MC numbers, and the
// vehicle fleet.
type Driver struct {
	cdl      string
	dot      string
	mc       string
	vehicles []*cargo.Vehicle
}

// NewDriver creates an empty driver payload.
func NewDriver() *Driver {
	return &Driver{}
}

func (d *Driver) CDL() string { return d.cdl }
func (d *Driver) DOT() string { return d.dot }
func (d *Driver) MC() string { return d.mc }

// SetCDL strips all whitespace and requires a non-empty result.
func (d *Driver) SetCDL(cdl string) error {
	stripped := stripSpaces(cdl)
	if stripped == "" {
		return errs.NewValueIsInvalidError("cdl")
	}
	d.cdl = stripped
	return nil
}

// SetDOT strips all whitespace and requires a non-empty result.
func (d *Driver) SetDOT(dot string) error {
	stripped := stripSpaces(dot)
	if stripped == "" {
		return errs.NewValueIsInvalidError("dot")
	}
	d.dot = stripped
	return nil
}

// SetMC strips all whitespace and requires a non-empty result.
func (d *Driver) SetMC(mc string) error {
	stripped := stripSpaces(mc)
	if stripped == "" {
		return errs.NewValueIsInvalidError("mc")
	}
	d.mc = stripped
	return nil
}

// Vehicles returns a copy of the fleet.
func (d *Driver) Vehicles() []*cargo.Vehicle {
	vehicles := make([]*cargo.Vehicle, len(d.vehicles))
	copy(vehicles, d.vehicles)
	return vehicles
}

// AddVehicle adds a fully valid vehicle to the fleet. A vehicle equal to an
// existing one (same VIN) is treated as already added.
func (d *Driver) AddVehicle(vehicle *cargo.Vehicle) error {
	if vehicle == nil || vehicle.Validate(kernel.FieldMaskAll) != kernel.FieldMaskNone {
		return errs.NewValueIsInvalidError("vehicle")
	}
	for _, existing := range d.vehicles {
		if existing.IsEqual(vehicle) {
			return nil
		}
	}
	d.vehicles = append(d.vehicles, vehicle)
	return nil
}

// SetVehicles replaces the whole fleet. Every vehicle must be fully valid
// or the existing fleet stays untouched.
func (d *Driver) SetVehicles(vehicles []*cargo.Vehicle) error {
	for _, vehicle := range vehicles {
		if vehicle == nil || vehicle.Validate(kernel.FieldMaskAll) != kernel.FieldMaskNone {
			return errs.NewValueIsInvalidError("vehicles")
		}
	}
	d.vehicles = nil
	for _, vehicle := range vehicles {
		if err := d.AddVehicle(vehicle); err != nil {
			return err
		}
	}
	return nil
}

// RemoveVehicle removes the vehicle with the same VIN from the fleet.
func (d *Driver) RemoveVehicle(vehicle *cargo.Vehicle) error {
	if vehicle == nil {
		return errs.NewValueIsInvalidError("vehicle")
	}
	for i, existing := range d.vehicles {
		if existing.IsEqual(vehicle) {
			d.vehicles = append(d.vehicles[:i], d.vehicles[i+1:]...)
			return nil
		}
	}
	return nil
}

// Validate reports the requested fields that hold invalid values. The fleet
// must contain at least one motorized vehicle and every vehicle must be
// fully valid.
func (d *Driver) Validate(mask kernel.FieldMask) kernel.FieldMask {
	invalid := kernel.FieldMaskNone
	if mask.Has(DriverFieldCDL) && d.cdl == "" {
		invalid = invalid.With(DriverFieldCDL)
	}
	if mask.Has(DriverFieldDOT) && d.dot == "" {
		invalid = invalid.With(DriverFieldDOT)
	}
	if mask.Has(DriverFieldMC) && d.mc == "" {
		invalid = invalid.With(DriverFieldMC)
	}
	if mask.Has(DriverFieldVehicles) {
		hasMotorized := false
		for _, vehicle := range d.vehicles {
			if vehicle.Validate(kernel.FieldMaskAll) != kernel.FieldMaskNone {
				invalid = invalid.With(DriverFieldVehicles)
				break
			}
			if vehicle.Type().Has(cargo.VehicleMotorized) {
				hasMotorized = true
			}
		}
		if !hasMotorized {
			invalid = invalid.With(DriverFieldVehicles)
		}
	}
	return invalid
}

// WriteJSON writes the requested fields into target. An empty fleet writes
// no vehicles key.
func (d *Driver) WriteJSON(target map[string]any, mask kernel.FieldMask) map[string]any {
	if target == nil {
		target = make(map[string]any)
	}
	if mask.Has(DriverFieldCDL) {
		target["cdl"] = d.cdl
	}
	if mask.Has(DriverFieldDOT) {
		target["dot"] = d.dot
	}
	if mask.Has(DriverFieldMC) {
		target["mc"] = d.mc
	}
	if mask.Has(DriverFieldVehicles) && len(d.vehicles) > 0 {
		vehicles := make([]any, 0, len(d.vehicles))
		for _, vehicle := range d.vehicles {
			vehicles = append(vehicles, vehicle.WriteJSON(nil, kernel.FieldMaskAll))
		}
		target["vehicles"] = vehicles
	}
	return target
}

// ReadJSON applies the fields present in source and returns the mask of
// fields that were present but could not be applied. A vehicles array
// replaces the whole fleet; entries that fail to parse mark the field but
// the parseable remainder is still applied.
func (d *Driver) ReadJSON(source map[string]any) kernel.FieldMask {
	invalid := kernel.FieldMaskNone
	if source == nil {
		return invalid
	}
	if raw, ok := source["cdl"]; ok {
		if !readStringInto(raw, d.SetCDL) {
			invalid = invalid.With(DriverFieldCDL)
		}
	}
	if raw, ok := source["dot"]; ok {
		if !readStringInto(raw, d.SetDOT) {
			invalid = invalid.With(DriverFieldDOT)
		}
	}
	if raw, ok := source["mc"]; ok {
		if !readStringInto(raw, d.SetMC) {
			invalid = invalid.With(DriverFieldMC)
		}
	}
	if raw, ok := source["vehicles"]; ok {
		items, ok := kernel.AsArray(raw)
		if !ok {
			return invalid.With(DriverFieldVehicles)
		}
		vehicles := make([]*cargo.Vehicle, 0, len(items))
		for _, item := range items {
			vehicleSource, ok := kernel.AsObject(item)
			if !ok {
				invalid = invalid.With(DriverFieldVehicles)
				continue
			}
			vehicle := cargo.NewVehicle()
			if vehicle.ReadJSON(vehicleSource) != kernel.FieldMaskNone {
				invalid = invalid.With(DriverFieldVehicles)
				continue
			}
			vehicles = append(vehicles, vehicle)
		}
		if err := d.SetVehicles(vehicles); err != nil {
			invalid = invalid.With(DriverFieldVehicles)
		}
	}
	return invalid
}

func readStringInto(raw any, set func(string) error) bool {
	value, ok := kernel.AsString(raw)
	if !ok {
		return false
	}
	return set(value) == nil
}

func stripSpaces(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}
