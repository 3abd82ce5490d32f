package services

import (
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
)

// Arrival thresholds in miles. Each band has a wider exit threshold so a
// driver drifting along the boundary does not flap between states.
const (
	DistanceClose     = 5.0
	DistanceCloseExit = 10.0
	DistanceAt        = 0.25
	DistanceAtExit    = 1.0
)

// MovementClassifier derives the next movement state of a load from the
// driver's distance to the current target stop. It only ever moves a load
// between the on-route, arriving and arrived states of the leg it is
// already on; every other state is returned unchanged.
type MovementClassifier struct{}

// NewMovementClassifier creates a new MovementClassifier instance.
func NewMovementClassifier() MovementClassifier {
	return MovementClassifier{}
}

// Classify returns the movement state a load in state should be in given
// the driver's position and the position of the stop it is heading to.
func (m MovementClassifier) Classify(state load.State, position, target kernel.Location) load.State {
	distance := Distance(position, target, UnitMiles)

	switch state {
	case load.StatePickupOnRoute:
		return m.enter(distance, load.StatePickupOnRoute, load.StatePickupArriving, load.StatePickupArrived)
	case load.StatePickupArriving:
		return m.adjust(distance, load.StatePickupOnRoute, load.StatePickupArriving, load.StatePickupArrived)
	case load.StatePickupArrived:
		return m.leave(distance, load.StatePickupArriving, load.StatePickupArrived)
	case load.StateDropoffOnRoute:
		return m.enter(distance, load.StateDropoffOnRoute, load.StateDropoffArriving, load.StateDropoffArrived)
	case load.StateDropoffArriving:
		return m.adjust(distance, load.StateDropoffOnRoute, load.StateDropoffArriving, load.StateDropoffArrived)
	default:
		return state
	}
}

// enter promotes an on-route load when it crosses the entry thresholds.
func (m MovementClassifier) enter(distance float64, onRoute, arriving, arrived load.State) load.State {
	switch {
	case WithinRange(distance, DistanceAt):
		return arrived
	case WithinRange(distance, DistanceClose):
		return arriving
	default:
		return onRoute
	}
}

// adjust moves an arriving load in either direction using the exit
// threshold on the way out.
func (m MovementClassifier) adjust(distance float64, onRoute, arriving, arrived load.State) load.State {
	switch {
	case WithinRange(distance, DistanceAt):
		return arrived
	case !WithinRange(distance, DistanceCloseExit):
		return onRoute
	default:
		return arriving
	}
}

// leave demotes an arrived load only once it drifts past the exit
// threshold.
func (m MovementClassifier) leave(distance float64, arriving, arrived load.State) load.State {
	if !WithinRange(distance, DistanceAtExit) {
		return arriving
	}
	return arrived
}
