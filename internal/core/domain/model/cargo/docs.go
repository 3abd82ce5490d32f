// Package cargo defines the freight being moved: units, the contents
// multiset a load carries, the containers that hold contents, and the
// vehicles that transport them.
//
// Capability flags (cooling, enclosure, stacking) are a separate concern
// from field masks: CapabilityFlags describe what cargo needs or what a
// container offers, while kernel.FieldMask selects which fields an
// operation touches. Both are bitmasks, but they never mix.
package cargo
