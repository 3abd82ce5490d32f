package account

import (
	"strings"
	"unicode"

	"freight/internal/core/domain/model/address"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// Shipper field mask bits.
const (
	ShipperFieldEIN       kernel.FieldMask = 0x10000
	ShipperFieldAddresses kernel.FieldMask = 0x20000

	ShipperFieldsAll = ShipperFieldEIN | ShipperFieldAddresses
)

// Shipper extends a master account with the employer identification number
// and the saved pickup addresses a shipper posts loads from.
type Shipper struct {
	ein       string
	addresses []*address.Address
}

// NewShipper creates an empty shipper payload.
func NewShipper() *Shipper {
	return &Shipper{}
}

func (s *Shipper) EIN() string { return s.ein }

// SetEIN strips every non-digit character and requires exactly nine digits.
func (s *Shipper) SetEIN(ein string) error {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, ein)
	if len(digits) != 9 {
		return errs.NewValueIsInvalidError("ein")
	}
	s.ein = digits
	return nil
}

// Addresses returns a copy of the saved addresses.
func (s *Shipper) Addresses() []*address.Address {
	addresses := make([]*address.Address, len(s.addresses))
	copy(addresses, s.addresses)
	return addresses
}

// AddAddress adds a fully valid address. An address equal to an existing
// one is treated as already added.
func (s *Shipper) AddAddress(addr *address.Address) error {
	if addr == nil || addr.Validate(kernel.FieldMaskAll) != kernel.FieldMaskNone {
		return errs.NewValueIsInvalidError("address")
	}
	for _, existing := range s.addresses {
		if existing.IsEqual(*addr) {
			return nil
		}
	}
	s.addresses = append(s.addresses, addr)
	return nil
}

// SetAddresses replaces all saved addresses. Every address must be fully
// valid or the existing collection stays untouched.
func (s *Shipper) SetAddresses(addresses []*address.Address) error {
	for _, addr := range addresses {
		if addr == nil || addr.Validate(kernel.FieldMaskAll) != kernel.FieldMaskNone {
			return errs.NewValueIsInvalidError("addresses")
		}
	}
	s.addresses = nil
	for _, addr := range addresses {
		if err := s.AddAddress(addr); err != nil {
			return err
		}
	}
	return nil
}

// RemoveAddress removes the first saved address equal to addr.
func (s *Shipper) RemoveAddress(addr *address.Address) error {
	if addr == nil {
		return errs.NewValueIsInvalidError("address")
	}
	for i, existing := range s.addresses {
		if existing.IsEqual(*addr) {
			s.addresses = append(s.addresses[:i], s.addresses[i+1:]...)
			return nil
		}
	}
	return nil
}

// Validate reports the requested fields that hold invalid values. A shipper
// may have no saved addresses, but the ones it has must be fully valid.
func (s *Shipper) Validate(mask kernel.FieldMask) kernel.FieldMask {
	invalid := kernel.FieldMaskNone
	if mask.Has(ShipperFieldEIN) && s.ein == "" {
		invalid = invalid.With(ShipperFieldEIN)
	}
	if mask.Has(ShipperFieldAddresses) {
		for _, addr := range s.addresses {
			if addr.Validate(kernel.FieldMaskAll) != kernel.FieldMaskNone {
				invalid = invalid.With(ShipperFieldAddresses)
				break
			}
		}
	}
	return invalid
}

// WriteJSON writes the requested fields into target. An empty address
// collection writes no addresses key.
func (s *Shipper) WriteJSON(target map[string]any, mask kernel.FieldMask) map[string]any {
	if target == nil {
		target = make(map[string]any)
	}
	if mask.Has(ShipperFieldEIN) {
		target["ein"] = s.ein
	}
	if mask.Has(ShipperFieldAddresses) && len(s.addresses) > 0 {
		addresses := make([]any, 0, len(s.addresses))
		for _, addr := range s.addresses {
			addresses = append(addresses, addr.WriteJSON(nil, kernel.FieldMaskAll))
		}
		target["addresses"] = addresses
	}
	return target
}

// ReadJSON applies the fields present in source and returns the mask of
// fields that were present but could not be applied. An addresses array
// replaces the whole collection.
func (s *Shipper) ReadJSON(source map[string]any) kernel.FieldMask {
	invalid := kernel.FieldMaskNone
	if source == nil {
		return invalid
	}
	if raw, ok := source["ein"]; ok {
		if !readStringInto(raw, s.SetEIN) {
			invalid = invalid.With(ShipperFieldEIN)
		}
	}
	if raw, ok := source["addresses"]; ok {
		items, ok := kernel.AsArray(raw)
		if !ok {
			return invalid.With(ShipperFieldAddresses)
		}
		addresses := make([]*address.Address, 0, len(items))
		for _, item := range items {
			addressSource, ok := kernel.AsObject(item)
			if !ok {
				invalid = invalid.With(ShipperFieldAddresses)
				continue
			}
			addr := &address.Address{}
			if addr.ReadJSON(addressSource) != kernel.FieldMaskNone {
				invalid = invalid.With(ShipperFieldAddresses)
				continue
			}
			addresses = append(addresses, addr)
		}
		if err := s.SetAddresses(addresses); err != nil {
			invalid = invalid.With(ShipperFieldAddresses)
		}
	}
	return invalid
}
