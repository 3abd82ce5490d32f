package account

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// Status represents the lifecycle state of an account.
//
// State transitions:
//
//	Created ──> Verified ──> Activated ──> Deactivated ──> Activated
//	   │            │            │              │
//	   └────────────┴─────> Suspended <─────────┘
//	                            │
//	                   (unsuspend restores Created)
//
// Wire values are fixed: stored accounts carry the numeric status, so the
// constants never change meaning.
type Status int

const (
	// StatusInvalid marks an account whose status was never set.
	StatusInvalid Status = -1

	// StatusCreated is the initial status after signup, before the email
	// verification code has been confirmed.
	StatusCreated Status = 0

	// StatusVerified means the email has been confirmed but the account
	// has not yet been activated for use.
	StatusVerified Status = 1

	// StatusActivated means the account is in use and may perform the
	// actions its type allows.
	StatusActivated Status = 2

	// StatusDeactivated means the account was taken out of use. It can be
	// reactivated.
	StatusDeactivated Status = 3

	// StatusSuspended means the account was locked by an administrator
	// and cannot be used until unsuspended.
	StatusSuspended Status = 4
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusInvalid:     "Invalid",
		StatusCreated:     "Created",
		StatusVerified:    "Verified",
		StatusActivated:   "Activated",
		StatusDeactivated: "Deactivated",
		StatusSuspended:   "Suspended",
	}
}

// Validate reports whether the status holds one of the defined lifecycle
// values. StatusInvalid fails validation.
func (s Status) Validate() error {
	if s < StatusCreated || s > StatusSuspended {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Invalid"
}

func (s Status) transitionError(action string) error {
	return errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%s is not a valid status to %s", s.String(), action))
}

// An unset status is always allowed as a transition source: a caller that
// holds only an account id has not loaded the status yet, and the final word
// on the transition belongs to the broker anyway.

// Verify transitions Created to Verified.
func (s Status) Verify() (Status, error) {
	if s != StatusInvalid && s != StatusCreated {
		return StatusInvalid, s.transitionError("verify")
	}
	return StatusVerified, nil
}

// Activate transitions Verified to Activated.
func (s Status) Activate() (Status, error) {
	if s != StatusInvalid && s != StatusVerified {
		return StatusInvalid, s.transitionError("activate")
	}
	return StatusActivated, nil
}

// Deactivate transitions Activated to Deactivated.
func (s Status) Deactivate() (Status, error) {
	if s != StatusInvalid && s != StatusActivated {
		return StatusInvalid, s.transitionError("deactivate")
	}
	return StatusDeactivated, nil
}

// Reactivate transitions Deactivated back to Activated.
func (s Status) Reactivate() (Status, error) {
	if s != StatusInvalid && s != StatusDeactivated {
		return StatusInvalid, s.transitionError("reactivate")
	}
	return StatusActivated, nil
}

// Suspend locks the account. Any status except an existing suspension may
// be suspended.
func (s Status) Suspend() (Status, error) {
	if s == StatusSuspended || (s != StatusInvalid && s.Validate() != nil) {
		return StatusInvalid, s.transitionError("suspend")
	}
	return StatusSuspended, nil
}

// Unsuspend unlocks a suspended account. The account returns to Created
// and has to be verified again.
func (s Status) Unsuspend() (Status, error) {
	if s != StatusInvalid && s != StatusSuspended {
		return StatusInvalid, s.transitionError("unsuspend")
	}
	return StatusCreated, nil
}
