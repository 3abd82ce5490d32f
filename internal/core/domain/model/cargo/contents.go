package cargo

import (
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// Contents capability flags. Bits above the unit flag range belong to the
// contents collection itself.
const (
	ContentsInContainer CapabilityFlags = 0x10000

	ContentsFlagsAll = ContentsInContainer
)

// Contents field mask bits.
const (
	ContentsFieldControlFlags kernel.FieldMask = 0x1
	ContentsFieldUnits        kernel.FieldMask = 0x2

	ContentsFieldsAll = ContentsFieldControlFlags | ContentsFieldUnits
)

// ContentsEntry pairs a unit with how many of it the contents carry.
type ContentsEntry struct {
	Unit     *Unit
	Quantity int
}

// Contents is the multiset of units a load carries. Equal units are
// deduplicated into a single entry with an accumulated quantity.
type Contents struct {
	controlFlags CapabilityFlags
	entries      []ContentsEntry
}

// NewContents creates an empty Contents.
func NewContents() *Contents {
	return &Contents{}
}

func (c *Contents) ControlFlags() CapabilityFlags { return c.controlFlags }

// Entries returns a copy of the unit entries.
func (c *Contents) Entries() []ContentsEntry {
	entries := make([]ContentsEntry, len(c.entries))
	copy(entries, c.entries)
	return entries
}

// SetControlFlags rejects bits outside the contents capability set.
func (c *Contents) SetControlFlags(flags CapabilityFlags) error {
	if flags&^ContentsFlagsAll != 0 {
		return errs.NewValueIsInvalidError("controlFlags")
	}
	c.controlFlags = flags
	return nil
}

// AddUnits adds quantity copies of unit. The unit must be fully valid and
// the quantity positive. A unit equal to an existing entry increments that
// entry instead of appending a new one.
func (c *Contents) AddUnits(unit *Unit, quantity int) error {
	if unit == nil || unit.Validate(kernel.FieldMaskAll) != kernel.FieldMaskNone {
		return errs.NewValueIsInvalidError("unit")
	}
	if quantity < 1 {
		return errs.NewValueIsInvalidError("quantity")
	}
	for i := range c.entries {
		if c.entries[i].Unit.IsEqual(unit) {
			c.entries[i].Quantity += quantity
			return nil
		}
	}
	c.entries = append(c.entries, ContentsEntry{Unit: unit, Quantity: quantity})
	return nil
}

// RemoveUnits removes quantity copies of unit, dropping the entry when its
// quantity reaches zero.
func (c *Contents) RemoveUnits(unit *Unit, quantity int) error {
	if unit == nil {
		return errs.NewValueIsInvalidError("unit")
	}
	if quantity < 1 {
		return errs.NewValueIsInvalidError("quantity")
	}
	for i := range c.entries {
		if !c.entries[i].Unit.IsEqual(unit) {
			continue
		}
		if c.entries[i].Quantity < quantity {
			return errs.NewValueIsInvalidError("quantity")
		}
		c.entries[i].Quantity -= quantity
		if c.entries[i].Quantity == 0 {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
		}
		return nil
	}
	return errs.NewValueIsInvalidError("unit")
}

// TotalWeight sums unit weight times quantity over all entries.
func (c *Contents) TotalWeight() float64 {
	var total float64
	for _, entry := range c.entries {
		total += entry.Unit.Weight() * float64(entry.Quantity)
	}
	return total
}

// AggregateFlags returns the contents' own flags; with units included it
// also folds in the capability flags of every unit, minus the bits that
// only matter per-unit (stacking and upright orientation).
func (c *Contents) AggregateFlags(includeUnits bool) CapabilityFlags {
	flags := c.controlFlags
	if !includeUnits {
		return flags
	}
	for _, entry := range c.entries {
		flags |= entry.Unit.ControlFlags()
	}
	return flags &^ (UnitStackable | UnitRequiresUpright)
}

// Validate reports the requested fields that hold invalid values. The unit
// collection is invalid when empty or when any unit fails full validation.
func (c *Contents) Validate(mask kernel.FieldMask) kernel.FieldMask {
	invalid := kernel.FieldMaskNone
	if mask.Has(ContentsFieldControlFlags) && c.controlFlags&^ContentsFlagsAll != 0 {
		invalid = invalid.With(ContentsFieldControlFlags)
	}
	if mask.Has(ContentsFieldUnits) {
		if len(c.entries) == 0 {
			invalid = invalid.With(ContentsFieldUnits)
		}
		for _, entry := range c.entries {
			if entry.Unit.Validate(kernel.FieldMaskAll) != kernel.FieldMaskNone || entry.Quantity < 1 {
				invalid = invalid.With(ContentsFieldUnits)
				break
			}
		}
	}
	return invalid
}

// IsEqual compares flags and entries. Entry order matters: the collection
// preserves insertion order on both sides.
func (c *Contents) IsEqual(other *Contents) bool {
	if other == nil {
		return false
	}
	if c.controlFlags != other.controlFlags || len(c.entries) != len(other.entries) {
		return false
	}
	for i := range c.entries {
		if c.entries[i].Quantity != other.entries[i].Quantity ||
			!c.entries[i].Unit.IsEqual(other.entries[i].Unit) {
			return false
		}
	}
	return true
}

// WriteJSON writes the requested fields into target. Units serialize as an
// array of {unit, quantity} objects with every unit field written.
func (c *Contents) WriteJSON(target map[string]any, mask kernel.FieldMask) map[string]any {
	if target == nil {
		target = make(map[string]any)
	}
	if mask.Has(ContentsFieldControlFlags) {
		target["flags"] = int64(c.controlFlags)
	}
	if mask.Has(ContentsFieldUnits) {
		units := make([]any, 0, len(c.entries))
		for _, entry := range c.entries {
			units = append(units, map[string]any{
				"unit":     entry.Unit.WriteJSON(nil, kernel.FieldMaskAll),
				"quantity": int64(entry.Quantity),
			})
		}
		target["units"] = units
	}
	return target
}

// ReadJSON applies the fields present in source and returns the mask of
// fields that were present but could not be applied. A units array replaces
// the whole collection; a single bad entry marks the field invalid but the
// remaining entries are still read.
func (c *Contents) ReadJSON(source map[string]any) kernel.FieldMask {
	invalid := kernel.FieldMaskNone
	if source == nil {
		return invalid
	}
	if raw, ok := source["flags"]; ok {
		if flags, ok := kernel.AsInteger(raw); ok {
			if err := c.SetControlFlags(CapabilityFlags(flags)); err != nil {
				invalid = invalid.With(ContentsFieldControlFlags)
			}
		} else {
			invalid = invalid.With(ContentsFieldControlFlags)
		}
	}
	if raw, ok := source["units"]; ok {
		items, ok := kernel.AsArray(raw)
		if !ok {
			return invalid.With(ContentsFieldUnits)
		}
		c.entries = nil
		for _, item := range items {
			entry, ok := kernel.AsObject(item)
			if !ok {
				invalid = invalid.With(ContentsFieldUnits)
				continue
			}
			unitSource, okUnit := kernel.AsObject(entry["unit"])
			quantity, okQty := kernel.AsInteger(entry["quantity"])
			if !okUnit || !okQty {
				invalid = invalid.With(ContentsFieldUnits)
				continue
			}
			unit := NewUnit()
			if unit.ReadJSON(unitSource) != kernel.FieldMaskNone {
				invalid = invalid.With(ContentsFieldUnits)
				continue
			}
			if err := c.AddUnits(unit, int(quantity)); err != nil {
				invalid = invalid.With(ContentsFieldUnits)
			}
		}
	}
	return invalid
}
