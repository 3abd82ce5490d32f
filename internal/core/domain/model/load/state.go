package load

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// State represents the lifecycle state of a load. The numeric values are
// wire-preserved: stored loads carry them, so they never change meaning and
// are intentionally not contiguous. Ranges of values group related states —
// the movement states sit in their own band so a single range check tells
// whether the load is on the road.
type State int32

const (
	// StateInvalid marks a load whose state was never set.
	StateInvalid State = -1

	// StateCreated means the load exists but has not been posted.
	StateCreated State = 0x0

	// StatePosted means the load is visible to drivers.
	StatePosted State = 0x1

	// StateCancelled means the shipper withdrew the load.
	StateCancelled State = 0x2

	// StateExpired means the pickup window closed before a driver
	// accepted the load.
	StateExpired State = 0x3

	// StateCompleted means the driver has been paid and the load is done.
	StateCompleted State = 0xF

	// StatePickupDocked means the driver has docked at the pickup stop.
	StatePickupDocked State = 0x10

	// StatePickupUploaded means the pickup bill of lading was uploaded.
	StatePickupUploaded State = 0x20

	// StateDropoffUploaded means the dropoff bill of lading was uploaded.
	StateDropoffUploaded State = 0x100

	// StateDropoffDocked means the driver has docked at the dropoff stop.
	StateDropoffDocked State = 0x200

	// StateDropoffAccepted means the shipper approved the dropoff bill of
	// lading.
	StateDropoffAccepted State = 0x300

	// StateAccepted means a driver accepted the load.
	StateAccepted State = 0x1000

	// StatePickupAccepted means the shipper approved the pickup bill of
	// lading.
	StatePickupAccepted State = 0x2000

	// StatePickupOnRoute means the driver is on the way to the pickup.
	StatePickupOnRoute State = 0x10000

	// StatePickupArriving means the driver is close to the pickup.
	StatePickupArriving State = 0x20000

	// StatePickupArrived means the driver reached the pickup.
	StatePickupArrived State = 0x30000

	// StateDropoffOnRoute means the driver is on the way to the dropoff.
	StateDropoffOnRoute State = 0x40000

	// StateDropoffArriving means the driver is close to the dropoff.
	StateDropoffArriving State = 0x50000

	// StateDropoffArrived shares its value with StateDropoffArriving in
	// every deployed record; the two have always been indistinguishable on
	// the wire and must stay that way.
	StateDropoffArrived State = 0x50000
)

func getStateStrings() map[State]string {
	return map[State]string{
		StateInvalid:         "Invalid",
		StateCreated:         "Created",
		StatePosted:          "Posted",
		StateCancelled:       "Cancelled",
		StateExpired:         "Expired",
		StateCompleted:       "Completed",
		StatePickupDocked:    "PickupDocked",
		StatePickupUploaded:  "PickupUploaded",
		StateDropoffUploaded: "DropoffUploaded",
		StateDropoffDocked:   "DropoffDocked",
		StateDropoffAccepted: "DropoffAccepted",
		StateAccepted:        "Accepted",
		StatePickupAccepted:  "PickupAccepted",
		StatePickupOnRoute:   "PickupOnRoute",
		StatePickupArriving:  "PickupArriving",
		StatePickupArrived:   "PickupArrived",
		StateDropoffOnRoute:  "DropoffOnRoute",
		StateDropoffArriving: "DropoffArriving",
	}
}

// Validate reports whether the state was ever set.
func (s State) Validate() error {
	if s == StateInvalid {
		return errs.NewValueIsInvalidErrorWithCause("state is invalid",
			fmt.Errorf("%d is not a valid state", s))
	}
	return nil
}

// String returns the human-readable name of the state.
func (s State) String() string {
	if str, ok := getStateStrings()[s]; ok {
		return str
	}
	return fmt.Sprintf("State(%#x)", int32(s))
}

// IsMoving reports whether the load is on the road: the driver's position
// is being reported and must validate.
func (s State) IsMoving() bool {
	return s >= StatePickupOnRoute && s <= StateDropoffArrived
}

// AllowsLocationUpdate reports whether a position report may be applied:
// the band is wider than IsMoving because updates start as soon as a driver
// accepts the load.
func (s State) AllowsLocationUpdate() bool {
	return s >= StateAccepted && s <= StateDropoffArrived
}

// Expire transitions a load that never found a driver to Expired. Only
// loads that are still waiting (Created or Posted) can expire.
func (s State) Expire() (State, error) {
	if s != StateCreated && s != StatePosted {
		return StateInvalid, errs.NewValueIsInvalidErrorWithCause("state is invalid",
			fmt.Errorf("%s is not a valid state to expire", s.String()))
	}
	return StateExpired, nil
}
