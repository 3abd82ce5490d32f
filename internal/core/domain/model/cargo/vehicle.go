package cargo

import (
	"strings"
	"unicode"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// VehicleType is the capability bitmask of a vehicle.
type VehicleType int32

// Vehicle type flags.
const (
	VehicleMotorized    VehicleType = 0x1
	VehicleHasContainer VehicleType = 0x2
	VehicleEnclosed     VehicleType = 0x4

	VehicleTypeAll = VehicleMotorized | VehicleHasContainer | VehicleEnclosed

	// VehicleTypeInvalid marks a vehicle whose type was never set.
	VehicleTypeInvalid = ^VehicleTypeAll
)

// Has reports whether all bits of flag are set.
func (t VehicleType) Has(flag VehicleType) bool {
	return t&flag == flag
}

// Vehicle field mask bits.
const (
	VehicleFieldType      kernel.FieldMask = 0x1
	VehicleFieldVIN       kernel.FieldMask = 0x2
	VehicleFieldLicense   kernel.FieldMask = 0x4
	VehicleFieldModel     kernel.FieldMask = 0x8
	VehicleFieldContainer kernel.FieldMask = 0x10

	VehicleFieldsAll = VehicleFieldType | VehicleFieldVIN | VehicleFieldLicense | VehicleFieldModel | VehicleFieldContainer
)

const vinLength = 17

// Vehicle identifies a piece of transport equipment and, when its type
// says so, the container it carries.
type Vehicle struct {
	vehicleType VehicleType
	vin         string
	license     string
	model       string
	container   *Container
}

// NewVehicle creates a Vehicle with an unset type and no container.
func NewVehicle() *Vehicle {
	return &Vehicle{vehicleType: VehicleTypeInvalid}
}

func (v *Vehicle) Type() VehicleType { return v.vehicleType }
func (v *Vehicle) VIN() string { return v.vin }
func (v *Vehicle) License() string { return v.license }
func (v *Vehicle) Model() string { return v.model }
func (v *Vehicle) Container() *Container { return v.container }

// SetType replaces the vehicle type and rebuilds the container to match:
// any previously configured container is discarded. An enclosed type
// without the container bit is rejected.
func (v *Vehicle) SetType(vehicleType VehicleType) error {
	if vehicleType&^VehicleTypeAll != 0 {
		return errs.NewValueIsInvalidError("type")
	}
	if vehicleType.Has(VehicleEnclosed) && !vehicleType.Has(VehicleHasContainer) {
		return errs.NewValueIsInvalidError("type")
	}
	v.vehicleType = vehicleType
	switch {
	case vehicleType.Has(VehicleHasContainer) && vehicleType.Has(VehicleEnclosed):
		v.container = NewEnclosedContainer()
	case vehicleType.Has(VehicleHasContainer):
		v.container = NewContainer()
	default:
		v.container = nil
	}
	return nil
}

// SetVIN strips all whitespace and requires exactly 17 characters.
func (v *Vehicle) SetVIN(vin string) error {
	stripped := stripWhitespace(vin)
	if len(stripped) != vinLength {
		return errs.NewValueIsInvalidError("vin")
	}
	v.vin = stripped
	return nil
}

// SetLicense strips all whitespace and requires a non-empty result.
func (v *Vehicle) SetLicense(license string) error {
	stripped := stripWhitespace(license)
	if stripped == "" {
		return errs.NewValueIsInvalidError("license")
	}
	v.license = stripped
	return nil
}

func (v *Vehicle) SetModel(model string) error {
	if strings.TrimSpace(model) == "" {
		return errs.NewValueIsInvalidError("model")
	}
	v.model = model
	return nil
}

// Validate reports the requested fields that hold invalid values. The
// container field is invalid when its presence disagrees with the type bit
// or when a present container fails full validation.
func (v *Vehicle) Validate(mask kernel.FieldMask) kernel.FieldMask {
	invalid := kernel.FieldMaskNone
	if mask.Has(VehicleFieldType) && v.vehicleType&^VehicleTypeAll != 0 {
		invalid = invalid.With(VehicleFieldType)
	}
	if mask.Has(VehicleFieldVIN) && len(v.vin) != vinLength {
		invalid = invalid.With(VehicleFieldVIN)
	}
	if mask.Has(VehicleFieldLicense) && v.license == "" {
		invalid = invalid.With(VehicleFieldLicense)
	}
	if mask.Has(VehicleFieldModel) && strings.TrimSpace(v.model) == "" {
		invalid = invalid.With(VehicleFieldModel)
	}
	if mask.Has(VehicleFieldContainer) {
		if v.vehicleType.Has(VehicleHasContainer) {
			if v.container == nil || v.container.Validate(kernel.FieldMaskAll) != kernel.FieldMaskNone {
				invalid = invalid.With(VehicleFieldContainer)
			}
		} else if v.container != nil {
			invalid = invalid.With(VehicleFieldContainer)
		}
	}
	return invalid
}

// IsEqual compares vehicles by VIN only.
func (v *Vehicle) IsEqual(other *Vehicle) bool {
	if other == nil {
		return false
	}
	return v.vin == other.vin
}

// WriteJSON writes the requested fields into target. The container is
// written as a nested object with all of its fields.
func (v *Vehicle) WriteJSON(target map[string]any, mask kernel.FieldMask) map[string]any {
	if target == nil {
		target = make(map[string]any)
	}
	if mask.Has(VehicleFieldType) {
		target["type"] = int64(v.vehicleType)
	}
	if mask.Has(VehicleFieldVIN) {
		target["vin"] = v.vin
	}
	if mask.Has(VehicleFieldLicense) {
		target["license"] = v.license
	}
	if mask.Has(VehicleFieldModel) {
		target["model"] = v.model
	}
	if mask.Has(VehicleFieldContainer) && v.container != nil {
		target["container"] = v.container.WriteJSON(nil, kernel.FieldMaskAll)
	}
	return target
}

// ReadJSON applies the fields present in source and returns the mask of
// fields that were present but could not be applied. The type is read first
// so a nested container object lands on a container of the right variant; a
// container key without a container-bearing type marks the field invalid.
func (v *Vehicle) ReadJSON(source map[string]any) kernel.FieldMask {
	invalid := kernel.FieldMaskNone
	if source == nil {
		return invalid
	}
	if raw, ok := source["type"]; ok {
		if vehicleType, ok := kernel.AsInteger(raw); ok {
			if err := v.SetType(VehicleType(vehicleType)); err != nil {
				invalid = invalid.With(VehicleFieldType)
			}
		} else {
			invalid = invalid.With(VehicleFieldType)
		}
	}
	if raw, ok := source["vin"]; ok {
		if vin, ok := kernel.AsString(raw); ok {
			if err := v.SetVIN(vin); err != nil {
				invalid = invalid.With(VehicleFieldVIN)
			}
		} else {
			invalid = invalid.With(VehicleFieldVIN)
		}
	}
	if raw, ok := source["license"]; ok {
		if license, ok := kernel.AsString(raw); ok {
			if err := v.SetLicense(license); err != nil {
				invalid = invalid.With(VehicleFieldLicense)
			}
		} else {
			invalid = invalid.With(VehicleFieldLicense)
		}
	}
	if raw, ok := source["model"]; ok {
		if model, ok := kernel.AsString(raw); ok {
			if err := v.SetModel(model); err != nil {
				invalid = invalid.With(VehicleFieldModel)
			}
		} else {
			invalid = invalid.With(VehicleFieldModel)
		}
	}
	if raw, ok := source["container"]; ok {
		containerSource, okObj := kernel.AsObject(raw)
		if !okObj || v.container == nil {
			invalid = invalid.With(VehicleFieldContainer)
		} else if v.container.ReadJSON(containerSource) != kernel.FieldMaskNone {
			invalid = invalid.With(VehicleFieldContainer)
		}
	}
	return invalid
}

func stripWhitespace(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}
