package kernel

// FieldMask selects which fields of an entity an operation should touch.
// Every entity assigns a stable bit per field; masks are never reinterpreted
// across entity types and never leave the process (wire payloads carry keys,
// not masks).
//
// Validate-style operations return a FieldMask naming the requested fields
// that failed their rules; zero means everything requested was valid.
type FieldMask uint32

const (
	// FieldMaskNone selects no fields. It is also the "all valid" result of
	// a validation pass.
	FieldMaskNone FieldMask = 0

	// FieldMaskAll selects every field. Operations that take a mask treat it
	// as the default when the caller has no reason to narrow the selection.
	FieldMaskAll FieldMask = ^FieldMask(0)
)

// Has reports whether any bit of field is set in the mask.
//
// Example:
//
//	mask := kernel.FieldMaskAll
//	if mask.Has(WindowBegin) {
//	    // begin was requested
//	}
func (m FieldMask) Has(field FieldMask) bool {
	return m&field != 0
}

// With returns the mask with the given field bits added.
func (m FieldMask) With(field FieldMask) FieldMask {
	return m | field
}

// Without returns the mask with the given field bits cleared.
func (m FieldMask) Without(field FieldMask) FieldMask {
	return m &^ field
}

// IsValid reports whether a validation result signals full validity.
func (m FieldMask) IsValid() bool {
	return m == FieldMaskNone
}

// Validatable is implemented by every entity participating in the partial
// validation protocol. Validate checks only the fields requested by the mask
// and returns the bits of those that failed.
type Validatable interface {
	Validate(mask FieldMask) FieldMask
}

// JSONSerializable is implemented by every entity participating in the
// partial read/write protocol. WriteJSON copies the requested fields into
// target under their canonical keys and returns target. ReadJSON populates
// fields from the keys present in source, routing each through its setter,
// and returns the bits of the fields that failed to parse; absent keys are
// never an error.
type JSONSerializable interface {
	WriteJSON(target map[string]any, mask FieldMask) map[string]any
	ReadJSON(source map[string]any) FieldMask
}
