package load

import (
	"freight/internal/core/domain/model/address"
	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// Load field mask bits. The log bit does not overlap with any other field
// even though the log itself is never validated: failures while writing log
// entries still need a bit to report.
const (
	FieldID             kernel.FieldMask = 0x1
	FieldState          kernel.FieldMask = 0x2
	FieldShipperID      kernel.FieldMask = 0x4
	FieldDriverID       kernel.FieldMask = 0x8
	FieldPickupAddress  kernel.FieldMask = 0x10
	FieldPickupWindow   kernel.FieldMask = 0x20
	FieldDropoffAddress kernel.FieldMask = 0x100
	FieldDropoffWindow  kernel.FieldMask = 0x200
	FieldContents       kernel.FieldMask = 0x1000
	FieldLocation       kernel.FieldMask = 0x10000
	FieldLog            kernel.FieldMask = 0x20000

	FieldsAll = FieldID | FieldState | FieldShipperID | FieldDriverID |
		FieldPickupAddress | FieldPickupWindow | FieldDropoffAddress |
		FieldDropoffWindow | FieldContents | FieldLocation | FieldLog
)

// Milestone names for the load log.
const (
	LogCreated          = "created"
	LogPickupArrived    = "pickup_arrived"
	LogPickupDocked     = "pickup_docked"
	LogDropoffArrived   = "dropoff_arrived"
	LogDropoffDocked    = "dropoff_docked"
	LogDeliveryStarted  = "delivery_started"
	LogDeliveryFinished = "delivery_finished"
)

// Bill of lading image names.
const (
	ImagePickupBOL  = "pickup_bol"
	ImageDropoffBOL = "dropoff_bol"
)

// Stop is one end of a load's journey: where, and during which window.
type Stop struct {
	address address.Address
	window  kernel.Window
}

// Address returns the stop's address for reading and modification.
func (s *Stop) Address() *address.Address {
	return &s.address
}

// Window returns the stop's time window for reading and modification.
func (s *Stop) Window() *kernel.Window {
	return &s.window
}

// Load is the aggregate a shipper posts and a driver moves: pickup and
// dropoff stops, the contents, the reported position while on the road, and
// an append-only milestone log. The load exclusively owns every nested
// value; accessors hand out pointers into the aggregate, never copies to be
// merged back.
type Load struct {
	id        kernel.ObjectID
	state     State
	shipperID kernel.ObjectID
	driverID  kernel.ObjectID
	pickup    Stop
	dropoff   Stop
	contents  cargo.Contents
	location  kernel.Location
	log       map[string]int64
}

// NewLoad creates an empty Load.
func NewLoad() *Load {
	return &Load{
		state: StateInvalid,
		log:   make(map[string]int64),
	}
}

// LoadFromJSON builds a load from its JSON representation and validates it
// against mask. A non-zero result mask means the load could not be built.
func LoadFromJSON(source map[string]any, mask kernel.FieldMask) (*Load, kernel.FieldMask) {
	l := NewLoad()
	invalid := l.ReadJSON(source)
	if invalid == kernel.FieldMaskNone {
		invalid = l.Validate(mask)
	}
	if invalid != kernel.FieldMaskNone {
		return nil, invalid
	}
	return l, kernel.FieldMaskNone
}

func (l *Load) ID() kernel.ObjectID { return l.id }
func (l *Load) State() State { return l.state }
func (l *Load) ShipperID() kernel.ObjectID { return l.shipperID }
func (l *Load) DriverID() kernel.ObjectID { return l.driverID }

// Pickup returns the pickup stop for reading and modification.
func (l *Load) Pickup() *Stop {
	return &l.pickup
}

// Dropoff returns the dropoff stop for reading and modification.
func (l *Load) Dropoff() *Stop {
	return &l.dropoff
}

// Contents returns the load's cargo for reading and modification.
func (l *Load) Contents() *cargo.Contents {
	return &l.contents
}

// Location returns the reported position. While the load has not been
// picked up this is the driver's position, not the freight's.
func (l *Load) Location() *kernel.Location {
	return &l.location
}

func (l *Load) SetID(id kernel.ObjectID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	l.id = id
	return nil
}

func (l *Load) SetShipperID(id kernel.ObjectID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("shipperID", err)
	}
	l.shipperID = id
	return nil
}

func (l *Load) SetDriverID(id kernel.ObjectID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("driverID", err)
	}
	l.driverID = id
	return nil
}

// SetState accepts any wire value. Transition rules belong to the
// operations that move a load through its lifecycle, not to the setter: the
// broker may deliver a load in any state.
func (l *Load) SetState(state State) {
	l.state = state
}

// Log returns a copy of the milestone log.
func (l *Load) Log() map[string]int64 {
	log := make(map[string]int64, len(l.log))
	for key, value := range l.log {
		log[key] = value
	}
	return log
}

// LogMilestone records the timestamp for a named milestone, overwriting any
// previous entry for the same name.
func (l *Load) LogMilestone(name string, timestamp int64) {
	l.log[name] = timestamp
}

// Validate reports the requested fields that hold invalid values. The
// driver id is only required once the load reached Completed or beyond, the
// location only while the load is moving, and the dropoff window must open
// after the pickup window closes when both are requested. The log is never
// validated.
func (l *Load) Validate(mask kernel.FieldMask) kernel.FieldMask {
	invalid := kernel.FieldMaskNone
	if mask.Has(FieldID) && l.id.IsEmpty() {
		invalid = invalid.With(FieldID)
	}
	if mask.Has(FieldState) && l.state == StateInvalid {
		invalid = invalid.With(FieldState)
	}
	if mask.Has(FieldShipperID) && l.shipperID.IsEmpty() {
		invalid = invalid.With(FieldShipperID)
	}
	if mask.Has(FieldDriverID) && l.state >= StateCompleted && l.driverID.IsEmpty() {
		invalid = invalid.With(FieldDriverID)
	}
	if mask.Has(FieldPickupAddress) && l.pickup.address.Validate(kernel.FieldMaskAll) != kernel.FieldMaskNone {
		invalid = invalid.With(FieldPickupAddress)
	}
	if mask.Has(FieldPickupWindow) && l.pickup.window.Validate(kernel.FieldMaskAll) != kernel.FieldMaskNone {
		invalid = invalid.With(FieldPickupWindow)
	}
	if mask.Has(FieldDropoffAddress) && l.dropoff.address.Validate(kernel.FieldMaskAll) != kernel.FieldMaskNone {
		invalid = invalid.With(FieldDropoffAddress)
	}
	if mask.Has(FieldDropoffWindow) && l.dropoff.window.Validate(kernel.FieldMaskAll) != kernel.FieldMaskNone {
		invalid = invalid.With(FieldDropoffWindow)
	}
	if mask.Has(FieldPickupWindow) && mask.Has(FieldDropoffWindow) {
		if l.dropoff.window.Begin() <= l.pickup.window.End() {
			invalid = invalid.With(FieldPickupWindow | FieldDropoffWindow)
		}
	}
	if mask.Has(FieldContents) && l.contents.Validate(kernel.FieldMaskAll) != kernel.FieldMaskNone {
		invalid = invalid.With(FieldContents)
	}
	if mask.Has(FieldLocation) && l.state.IsMoving() {
		if l.location.Validate(kernel.FieldMaskAll) != kernel.FieldMaskNone {
			invalid = invalid.With(FieldLocation)
		}
	}
	return invalid
}

// WriteJSON writes the requested fields into target. The driver id is only
// written once the load reached Completed or beyond, and an empty log
// writes no key at all.
func (l *Load) WriteJSON(target map[string]any, mask kernel.FieldMask) map[string]any {
	if target == nil {
		target = make(map[string]any)
	}
	if mask.Has(FieldID) {
		target["_id"] = l.id.String()
	}
	if mask.Has(FieldState) {
		target["state"] = int64(l.state)
	}
	if mask.Has(FieldShipperID) {
		target["shipperid"] = l.shipperID.String()
	}
	if mask.Has(FieldDriverID) && l.state >= StateCompleted {
		target["driverid"] = l.driverID.String()
	}
	if mask.Has(FieldPickupAddress) || mask.Has(FieldPickupWindow) {
		pickup := make(map[string]any)
		if mask.Has(FieldPickupAddress) {
			pickup["address"] = l.pickup.address.WriteJSON(nil, kernel.FieldMaskAll)
		}
		if mask.Has(FieldPickupWindow) {
			pickup["window"] = l.pickup.window.WriteJSON(nil, kernel.FieldMaskAll)
		}
		target["pickup"] = pickup
	}
	if mask.Has(FieldDropoffAddress) || mask.Has(FieldDropoffWindow) {
		dropoff := make(map[string]any)
		if mask.Has(FieldDropoffAddress) {
			dropoff["address"] = l.dropoff.address.WriteJSON(nil, kernel.FieldMaskAll)
		}
		if mask.Has(FieldDropoffWindow) {
			dropoff["window"] = l.dropoff.window.WriteJSON(nil, kernel.FieldMaskAll)
		}
		target["dropoff"] = dropoff
	}
	if mask.Has(FieldContents) {
		target["contents"] = l.contents.WriteJSON(nil, kernel.FieldMaskAll)
	}
	if mask.Has(FieldLocation) {
		target["location"] = l.location.WriteJSON(nil, kernel.FieldMaskAll)
	}
	if mask.Has(FieldLog) && len(l.log) > 0 {
		log := make(map[string]any, len(l.log))
		for key, value := range l.log {
			log[key] = value
		}
		target["log"] = log
	}
	return target
}

// ReadJSON applies the fields present in source and returns the mask of
// fields that were present but could not be applied. Log entries are merged
// into the existing log, last write wins per key, and never fail.
func (l *Load) ReadJSON(source map[string]any) kernel.FieldMask {
	invalid := kernel.FieldMaskNone
	if source == nil {
		return invalid
	}
	if raw, ok := source["_id"]; ok {
		if !l.readID(raw, l.SetID) {
			invalid = invalid.With(FieldID)
		}
	}
	if raw, ok := source["state"]; ok {
		if state, ok := kernel.AsInteger(raw); ok {
			l.SetState(State(state))
		} else {
			invalid = invalid.With(FieldState)
		}
	}
	if raw, ok := source["shipperid"]; ok {
		if !l.readID(raw, l.SetShipperID) {
			invalid = invalid.With(FieldShipperID)
		}
	}
	if raw, ok := source["driverid"]; ok {
		if !l.readID(raw, l.SetDriverID) {
			invalid = invalid.With(FieldDriverID)
		}
	}
	if raw, ok := source["pickup"]; ok {
		invalid |= l.readStop(raw, &l.pickup, FieldPickupAddress, FieldPickupWindow)
	}
	if raw, ok := source["dropoff"]; ok {
		invalid |= l.readStop(raw, &l.dropoff, FieldDropoffAddress, FieldDropoffWindow)
	}
	if raw, ok := source["contents"]; ok {
		contentsSource, okObj := kernel.AsObject(raw)
		if !okObj || l.contents.ReadJSON(contentsSource) != kernel.FieldMaskNone {
			invalid = invalid.With(FieldContents)
		}
	}
	if raw, ok := source["location"]; ok {
		locationSource, okObj := kernel.AsObject(raw)
		if !okObj || l.location.ReadJSON(locationSource) != kernel.FieldMaskNone {
			invalid = invalid.With(FieldLocation)
		}
	}
	if raw, ok := source["log"]; ok {
		if logSource, ok := kernel.AsObject(raw); ok {
			for key, value := range logSource {
				if timestamp, ok := kernel.AsTimestamp(value); ok {
					l.log[key] = timestamp
				}
			}
		}
	}
	return invalid
}

func (l *Load) readStop(raw any, stop *Stop, addressBit, windowBit kernel.FieldMask) kernel.FieldMask {
	invalid := kernel.FieldMaskNone
	stopSource, ok := kernel.AsObject(raw)
	if !ok {
		return invalid.With(addressBit | windowBit)
	}
	if rawAddress, ok := stopSource["address"]; ok {
		addressSource, okObj := kernel.AsObject(rawAddress)
		if !okObj || stop.address.ReadJSON(addressSource) != kernel.FieldMaskNone {
			invalid = invalid.With(addressBit)
		}
	}
	if rawWindow, ok := stopSource["window"]; ok {
		windowSource, okObj := kernel.AsObject(rawWindow)
		if !okObj || stop.window.ReadJSON(windowSource) != kernel.FieldMaskNone {
			invalid = invalid.With(windowBit)
		}
	}
	return invalid
}

func (l *Load) readID(raw any, set func(kernel.ObjectID) error) bool {
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
