package kernel

import (
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"

	"freight/internal/pkg/errs"
)

// EmptyObjectID is the zero value of ObjectID. Entities start with an empty
// identifier until one is assigned locally or read from the wire.
const EmptyObjectID ObjectID = ""

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// ObjectID is the identifier every account and load is keyed by: a
// 24-character hexadecimal string. ObjectID is an immutable value object;
// use NewObjectID or ObjectIDFromString to obtain a valid instance.
//
// Example:
//
//	id := kernel.NewObjectID()
//	fmt.Println(len(id)) // Output: 24
type ObjectID string

// NewObjectID creates a new random ObjectID.
//
// Returns:
//   - ObjectID: A valid 24-hex-character identifier
func NewObjectID() ObjectID {
	u := uuid.New()
	return ObjectID(hex.EncodeToString(u[:12]))
}

// ObjectIDFromString creates an ObjectID from its string representation.
// The string must be exactly 24 hexadecimal characters.
//
// Parameters:
//   - value: The candidate identifier string
//
// Returns:
//   - ObjectID: The parsed identifier
//   - error: A value-invalid error when the string is not 24 hex characters
func ObjectIDFromString(value string) (ObjectID, error) {
	if !objectIDPattern.MatchString(value) {
		return EmptyObjectID, errs.NewValueIsInvalidError("objectID")
	}
	return ObjectID(value), nil
}

// IsEmpty reports whether the identifier is unassigned.
func (id ObjectID) IsEmpty() bool {
	return id == EmptyObjectID
}

// Validate checks that the identifier is assigned and well-formed.
//
// Returns:
//   - error: A value-invalid error when the identifier is empty or malformed
func (id ObjectID) Validate() error {
	if !objectIDPattern.MatchString(string(id)) {
		return errs.NewValueIsInvalidError("objectID")
	}
	return nil
}

// String returns the identifier as a plain string.
func (id ObjectID) String() string {
	return string(id)
}
