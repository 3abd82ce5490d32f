// Package kernel provides core domain primitives for the freight system.
// It implements the fundamental building blocks shared by every aggregate
// in the domain model.
//
// The package includes:
//   - FieldMask: the bit-per-field selection type behind the partial
//     validate/read/write protocol, with the Validatable and
//     JSONSerializable contracts
//   - ObjectID: the 24-hex-character identifier value object
//   - Location: a latitude/longitude value object
//   - Window: a begin/end time span value object
//   - JSON coercion helpers for wire payloads
//
// These primitives enforce domain invariants and validation rules. Masks
// select which fields an operation touches; validation communicates failure
// purely through returned invalid masks, never through panics or partial
// errors, so entities may legitimately hold partially valid state while
// being populated.
package kernel
