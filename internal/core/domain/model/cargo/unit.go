package cargo

import (
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// CapabilityFlags describe what a piece of cargo requires or what a
// container provides. They share a bit space so aggregated unit flags can
// be matched directly against container flags.
type CapabilityFlags uint32

// Unit capability flags.
const (
	UnitStackable       CapabilityFlags = 0x1
	UnitRequiresCooling CapabilityFlags = 0x2
	UnitRequiresCover   CapabilityFlags = 0x4
	UnitRequiresUpright CapabilityFlags = 0x8

	UnitFlagsAll = UnitStackable | UnitRequiresCooling | UnitRequiresCover | UnitRequiresUpright
)

// Has reports whether all bits of flag are set.
func (f CapabilityFlags) Has(flag CapabilityFlags) bool {
	return f&flag == flag
}

// Unit field mask bits.
const (
	UnitFieldControlFlags kernel.FieldMask = 0x1
	UnitFieldDimensions   kernel.FieldMask = 0x2
	UnitFieldWeight       kernel.FieldMask = 0x4
	UnitFieldDescription  kernel.FieldMask = 0x8

	UnitFieldsAll = UnitFieldControlFlags | UnitFieldDimensions | UnitFieldWeight | UnitFieldDescription
)

// Unit is a single kind of cargo item: its handling flags, dimensions in
// feet, weight in pounds and a free-form description.
type Unit struct {
	controlFlags CapabilityFlags
	width        float64
	height       float64
	length       float64
	weight       float64
	description  string
}

// NewUnit creates an empty Unit.
func NewUnit() *Unit {
	return &Unit{}
}

func (u *Unit) ControlFlags() CapabilityFlags { return u.controlFlags }
func (u *Unit) Width() float64 { return u.width }
func (u *Unit) Height() float64 { return u.height }
func (u *Unit) Length() float64 { return u.length }
func (u *Unit) Weight() float64 { return u.weight }
func (u *Unit) Description() string { return u.description }

// SetControlFlags rejects bits outside the unit capability set.
func (u *Unit) SetControlFlags(flags CapabilityFlags) error {
	if flags&^UnitFlagsAll != 0 {
		return errs.NewValueIsInvalidError("controlFlags")
	}
	u.controlFlags = flags
	return nil
}

func (u *Unit) SetWidth(width float64) error {
	if width <= 0 {
		return errs.NewValueIsInvalidError("width")
	}
	u.width = width
	return nil
}

func (u *Unit) SetHeight(height float64) error {
	if height <= 0 {
		return errs.NewValueIsInvalidError("height")
	}
	u.height = height
	return nil
}

func (u *Unit) SetLength(length float64) error {
	if length <= 0 {
		return errs.NewValueIsInvalidError("length")
	}
	u.length = length
	return nil
}

func (u *Unit) SetWeight(weight float64) error {
	if weight <= 0 {
		return errs.NewValueIsInvalidError("weight")
	}
	u.weight = weight
	return nil
}

// SetDescription accepts any value, including empty.
func (u *Unit) SetDescription(description string) {
	u.description = description
}

// Validate reports the requested fields that hold invalid values. The
// description is always valid.
func (u *Unit) Validate(mask kernel.FieldMask) kernel.FieldMask {
	invalid := kernel.FieldMaskNone
	if mask.Has(UnitFieldControlFlags) && u.controlFlags&^UnitFlagsAll != 0 {
		invalid = invalid.With(UnitFieldControlFlags)
	}
	if mask.Has(UnitFieldDimensions) && (u.width <= 0 || u.height <= 0 || u.length <= 0) {
		invalid = invalid.With(UnitFieldDimensions)
	}
	if mask.Has(UnitFieldWeight) && u.weight <= 0 {
		invalid = invalid.With(UnitFieldWeight)
	}
	return invalid
}

// IsEqual compares every field of both units.
func (u *Unit) IsEqual(other *Unit) bool {
	if other == nil {
		return false
	}
	return u.controlFlags == other.controlFlags &&
		u.width == other.width &&
		u.height == other.height &&
		u.length == other.length &&
		u.weight == other.weight &&
		u.description == other.description
}

// WriteJSON writes the requested fields into target. An empty description
// is omitted.
func (u *Unit) WriteJSON(target map[string]any, mask kernel.FieldMask) map[string]any {
	if target == nil {
		target = make(map[string]any)
	}
	if mask.Has(UnitFieldControlFlags) {
		target["flags"] = int64(u.controlFlags)
	}
	if mask.Has(UnitFieldDimensions) {
		target["width"] = u.width
		target["height"] = u.height
		target["length"] = u.length
	}
	if mask.Has(UnitFieldWeight) {
		target["weight"] = u.weight
	}
	if mask.Has(UnitFieldDescription) && strings.TrimSpace(u.description) != "" {
		target["description"] = u.description
	}
	return target
}

// ReadJSON applies the fields present in source and returns the mask of
// fields that were present but could not be applied. Dimensions are read
// only when all three keys are present.
func (u *Unit) ReadJSON(source map[string]any) kernel.FieldMask {
	invalid := kernel.FieldMaskNone
	if source == nil {
		return invalid
	}
	if raw, ok := source["flags"]; ok {
		if flags, ok := kernel.AsInteger(raw); ok {
			if err := u.SetControlFlags(CapabilityFlags(flags)); err != nil {
				invalid = invalid.With(UnitFieldControlFlags)
			}
		} else {
			invalid = invalid.With(UnitFieldControlFlags)
		}
	}
	rawWidth, hasWidth := source["width"]
	rawHeight, hasHeight := source["height"]
	rawLength, hasLength := source["length"]
	if hasWidth && hasHeight && hasLength {
		width, okW := kernel.AsNumber(rawWidth)
		height, okH := kernel.AsNumber(rawHeight)
		length, okL := kernel.AsNumber(rawLength)
		if okW && okH && okL {
			if u.SetWidth(width) != nil || u.SetHeight(height) != nil || u.SetLength(length) != nil {
				invalid = invalid.With(UnitFieldDimensions)
			}
		} else {
			invalid = invalid.With(UnitFieldDimensions)
		}
	}
	if raw, ok := source["weight"]; ok {
		if weight, ok := kernel.AsNumber(raw); ok {
			if err := u.SetWeight(weight); err != nil {
				invalid = invalid.With(UnitFieldWeight)
			}
		} else {
			invalid = invalid.With(UnitFieldWeight)
		}
	}
	if raw, ok := source["description"]; ok {
		if description, ok := kernel.AsString(raw); ok {
			u.SetDescription(description)
		} else {
			invalid = invalid.With(UnitFieldDescription)
		}
	}
	return invalid
}
