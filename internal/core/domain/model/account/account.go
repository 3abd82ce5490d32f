package account

import (
	"strings"

	"freight/internal/core/domain/model/address"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// Type is the capability bitmask of an account.
type Type int32

// Account type flags.
const (
	// TypeMaster is a standalone account. A master account has no owner
	// and can have child accounts.
	TypeMaster Type = 0x1

	// TypeSystem has full access to the system.
	TypeSystem Type = 0x2

	// TypeShipper can create and post loads.
	TypeShipper Type = 0x4

	// TypeDriver can search, accept and transport loads.
	TypeDriver Type = 0x8

	TypeAll = TypeMaster | TypeSystem | TypeShipper | TypeDriver

	// TypeInvalid marks an account whose type was never set.
	TypeInvalid = ^TypeAll
)

// Has reports whether all bits of flag are set.
func (t Type) Has(flag Type) bool {
	return t&flag == flag
}

// Account field mask bits.
const (
	FieldID       kernel.FieldMask = 0x1
	FieldType     kernel.FieldMask = 0x2
	FieldStatus   kernel.FieldMask = 0x4
	FieldName     kernel.FieldMask = 0x8
	FieldEmail    kernel.FieldMask = 0x10
	FieldPassword kernel.FieldMask = 0x20
	FieldAddress  kernel.FieldMask = 0x40
	FieldOwnerID  kernel.FieldMask = 0x80

	// FieldLoads is not a stored property. It exists so load-related
	// failures on account operations have a bit to report.
	FieldLoads kernel.FieldMask = 0x10000

	FieldsAll = FieldID | FieldType | FieldStatus | FieldName | FieldEmail |
		FieldPassword | FieldAddress | FieldOwnerID
)

// simpleAddressMask drops the display name and the geocoded position: an
// account address is contact information, not a freight stop.
const simpleAddressMask = ^(address.Name | address.Location)

// Specialization is the account-type specific payload attached to master
// shipper and driver accounts. Its fields share the account's field-mask
// space (bits 0x10000 and up) and are merged into the same JSON object.
type Specialization interface {
	kernel.Validatable
	kernel.JSONSerializable
}

// Account stores the registration record of an admin, shipper or driver.
// It starts empty and is populated through setters or ReadJSON.
type Account struct {
	id          kernel.ObjectID
	accountType Type
	status      Status
	firstName   string
	lastName    string
	email       string
	password    string
	address     address.Address
	ownerID     kernel.ObjectID
	data        Specialization
}

// NewAccount creates an empty Account with the given specialization
// payload. Pass nil for accounts without one.
func NewAccount(data Specialization) *Account {
	return &Account{
		accountType: TypeInvalid,
		status:      StatusInvalid,
		data:        data,
	}
}

// AccountFromJSON builds an account from its JSON representation. The type
// key is inspected first so the matching specialization payload exists
// before the rest of the object is read: only master accounts carry a
// payload, shipper winning over driver when both bits are set. The account
// is then validated against mask; a non-zero result mask means the account
// could not be built.
func AccountFromJSON(source map[string]any, mask kernel.FieldMask) (*Account, kernel.FieldMask) {
	var data Specialization
	if raw, ok := source["type"]; ok {
		if value, ok := kernel.AsInteger(raw); ok {
			accountType := Type(value)
			if accountType.Has(TypeMaster) {
				switch {
				case accountType.Has(TypeShipper):
					data = NewShipper()
				case accountType.Has(TypeDriver):
					data = NewDriver()
				}
			}
		}
	}

	acc := NewAccount(data)
	invalid := acc.ReadJSON(source)
	if invalid == kernel.FieldMaskNone {
		invalid = acc.Validate(mask)
	}
	if invalid != kernel.FieldMaskNone {
		return nil, invalid
	}
	return acc, kernel.FieldMaskNone
}

func (a *Account) ID() kernel.ObjectID { return a.id }
func (a *Account) OwnerID() kernel.ObjectID { return a.ownerID }
func (a *Account) Type() Type { return a.accountType }
func (a *Account) Status() Status { return a.status }
func (a *Account) FirstName() string { return a.firstName }
func (a *Account) LastName() string { return a.lastName }
func (a *Account) Email() string { return a.email }
func (a *Account) Password() string { return a.password }

// FullName joins the first and last name.
func (a *Account) FullName() string {
	return a.firstName + " " + a.lastName
}

// Address returns the account's contact address for reading and
// modification. The address carries no name or location.
func (a *Account) Address() *address.Address {
	return &a.address
}

// Data returns the raw specialization payload, or nil.
func (a *Account) Data() Specialization {
	return a.data
}

// Driver returns the driver payload when the account carries one.
func (a *Account) Driver() (*Driver, bool) {
	driver, ok := a.data.(*Driver)
	return driver, ok
}

// Shipper returns the shipper payload when the account carries one.
func (a *Account) Shipper() (*Shipper, bool) {
	shipper, ok := a.data.(*Shipper)
	return shipper, ok
}

func (a *Account) SetID(id kernel.ObjectID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	a.id = id
	return nil
}

func (a *Account) SetOwnerID(id kernel.ObjectID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("ownerID", err)
	}
	a.ownerID = id
	return nil
}

// SetType rejects bits outside the account type set.
func (a *Account) SetType(accountType Type) error {
	if accountType&^TypeAll != 0 {
		return errs.NewValueIsInvalidError("type")
	}
	a.accountType = accountType
	return nil
}

// SetStatus accepts any defined lifecycle value. Transition rules are
// enforced by the Status methods, not here: the wire may deliver any status.
func (a *Account) SetStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	a.status = status
	return nil
}

func (a *Account) SetFirstName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("firstName")
	}
	a.firstName = name
	return nil
}

func (a *Account) SetLastName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("lastName")
	}
	a.lastName = name
	return nil
}

// SetName sets both name parts, rejecting the pair when either is empty.
func (a *Account) SetName(firstName, lastName string) error {
	if firstName == "" {
		return errs.NewValueIsRequiredError("firstName")
	}
	if lastName == "" {
		return errs.NewValueIsRequiredError("lastName")
	}
	a.firstName = firstName
	a.lastName = lastName
	return nil
}

// SetEmail validates the address structurally: no spaces, exactly one @,
// a non-empty local part and a dotted domain of at least three characters.
func (a *Account) SetEmail(email string) error {
	if !isEmailValid(email) {
		return errs.NewValueIsInvalidError("email")
	}
	a.email = email
	return nil
}

// SetPassword stores the password as given. Hashing happens elsewhere; the
// model only rejects empty values and embedded spaces.
func (a *Account) SetPassword(password string) error {
	if password == "" || strings.Contains(password, " ") {
		return errs.NewValueIsInvalidError("password")
	}
	a.password = password
	return nil
}

// Validate reports the requested fields that hold invalid values. The owner
// id must be present on child accounts and absent on master accounts. A
// specialization payload folds its own bits into the result.
func (a *Account) Validate(mask kernel.FieldMask) kernel.FieldMask {
	invalid := kernel.FieldMaskNone
	if mask.Has(FieldID) && a.id.IsEmpty() {
		invalid = invalid.With(FieldID)
	}
	if mask.Has(FieldType) && a.accountType == TypeInvalid {
		invalid = invalid.With(FieldType)
	}
	if mask.Has(FieldStatus) && a.status == StatusInvalid {
		invalid = invalid.With(FieldStatus)
	}
	if mask.Has(FieldName) && (a.firstName == "" || a.lastName == "") {
		invalid = invalid.With(FieldName)
	}
	if mask.Has(FieldEmail) && a.email == "" {
		invalid = invalid.With(FieldEmail)
	}
	if mask.Has(FieldPassword) && a.password == "" {
		invalid = invalid.With(FieldPassword)
	}
	if mask.Has(FieldAddress) && a.address.Validate(simpleAddressMask) != kernel.FieldMaskNone {
		invalid = invalid.With(FieldAddress)
	}
	if mask.Has(FieldOwnerID) {
		switch {
		case a.accountType == TypeInvalid:
			invalid = invalid.With(FieldOwnerID)
		case a.accountType.Has(TypeMaster):
			if !a.ownerID.IsEmpty() {
				invalid = invalid.With(FieldOwnerID)
			}
		default:
			if a.ownerID.IsEmpty() {
				invalid = invalid.With(FieldOwnerID)
			}
		}
	}
	if a.data != nil {
		invalid |= a.data.Validate(mask)
	}
	return invalid
}

// WriteJSON writes the requested fields into target. The owner id is only
// written when set, the address without its name and location, and a
// specialization payload merges its keys into the same object.
func (a *Account) WriteJSON(target map[string]any, mask kernel.FieldMask) map[string]any {
	if target == nil {
		target = make(map[string]any)
	}
	if mask.Has(FieldID) {
		target["_id"] = a.id.String()
	}
	if mask.Has(FieldType) {
		target["type"] = int64(a.accountType)
	}
	if mask.Has(FieldStatus) {
		target["status"] = int64(a.status)
	}
	if mask.Has(FieldName) {
		target["firstname"] = a.firstName
		target["lastname"] = a.lastName
	}
	if mask.Has(FieldEmail) {
		target["email"] = a.email
	}
	if mask.Has(FieldPassword) {
		target["password"] = a.password
	}
	if mask.Has(FieldAddress) {
		target["address"] = a.address.WriteJSON(nil, simpleAddressMask)
	}
	if mask.Has(FieldOwnerID) && !a.ownerID.IsEmpty() {
		target["ownerid"] = a.ownerID.String()
	}
	if a.data != nil {
		a.data.WriteJSON(target, mask)
	}
	return target
}

// ReadJSON applies the fields present in source and returns the mask of
// fields that were present but could not be applied. The name is read only
// when both parts are present. A specialization payload reads its own keys
// from the same object.
func (a *Account) ReadJSON(source map[string]any) kernel.FieldMask {
	invalid := kernel.FieldMaskNone
	if source == nil {
		return invalid
	}
	if raw, ok := source["_id"]; ok {
		if !a.readID(raw, func(id kernel.ObjectID) error { return a.SetID(id) }) {
			invalid = invalid.With(FieldID)
		}
	}
	if raw, ok := source["type"]; ok {
		if value, ok := kernel.AsInteger(raw); ok {
			if err := a.SetType(Type(value)); err != nil {
				invalid = invalid.With(FieldType)
			}
		} else {
			invalid = invalid.With(FieldType)
		}
	}
	if raw, ok := source["status"]; ok {
		if value, ok := kernel.AsInteger(raw); ok {
			if err := a.SetStatus(Status(value)); err != nil {
				invalid = invalid.With(FieldStatus)
			}
		} else {
			invalid = invalid.With(FieldStatus)
		}
	}
	rawFirst, hasFirst := source["firstname"]
	rawLast, hasLast := source["lastname"]
	if hasFirst && hasLast {
		first, okFirst := kernel.AsString(rawFirst)
		last, okLast := kernel.AsString(rawLast)
		if !okFirst || !okLast || a.SetName(first, last) != nil {
			invalid = invalid.With(FieldName)
		}
	}
	if raw, ok := source["email"]; ok {
		if email, ok := kernel.AsString(raw); ok {
			if err := a.SetEmail(email); err != nil {
				invalid = invalid.With(FieldEmail)
			}
		} else {
			invalid = invalid.With(FieldEmail)
		}
	}
	if raw, ok := source["password"]; ok {
		if password, ok := kernel.AsString(raw); ok {
			if err := a.SetPassword(password); err != nil {
				invalid = invalid.With(FieldPassword)
			}
		} else {
			invalid = invalid.With(FieldPassword)
		}
	}
	if raw, ok := source["address"]; ok {
		addressSource, okObj := kernel.AsObject(raw)
		if !okObj || a.address.ReadJSON(addressSource) != kernel.FieldMaskNone {
			invalid = invalid.With(FieldAddress)
		}
	}
	if raw, ok := source["ownerid"]; ok {
		if !a.readID(raw, func(id kernel.ObjectID) error { return a.SetOwnerID(id) }) {
			invalid = invalid.With(FieldOwnerID)
		}
	}
	if a.data != nil {
		invalid |= a.data.ReadJSON(source)
	}
	return invalid
}

func (a *Account) readID(raw any, set func(kernel.ObjectID) error) bool {
	value, ok := kernel.AsString(raw)
	if !ok {
		return false
	}
	id, err := kernel.ObjectIDFromString(value)
	if err != nil {
		return false
	}
	return set(id) == nil
}

func isEmailValid(email string) bool {
	if email == "" || strings.Contains(email, " ") {
		return false
	}
	at := strings.Index(email, "@")
	if at == -1 || at != strings.LastIndex(email, "@") {
		return false
	}
	name, domain := email[:at], email[at+1:]
	if name == "" || len(domain) < 3 {
		return false
	}
	dot := strings.Index(domain, ".")
	if dot == -1 {
		return false
	}
	for dot != -1 {
		if dot == 0 || dot == len(domain)-1 {
			return false
		}
		domain = domain[dot+1:]
		dot = strings.Index(domain, ".")
	}
	return true
}
