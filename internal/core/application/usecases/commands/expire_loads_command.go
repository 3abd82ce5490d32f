// Package commands contains business operations that modify system state.
// All commands follow the same pattern: a guarded command object, a handler
// validating it and working through the ports.
package commands

import (
	"errors"
	"time"

	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// ExpireLoadsCommand triggers the sweep that expires loads still waiting
// for a driver after their pickup window has closed.
type ExpireLoadsCommand struct {
	cutoff int64
	guard  guard.ConstructorGuard
}

var ErrExpireLoadsCommandIsNotConstructed = errors.New(
	"ExpireLoadsCommand must be created via NewExpireLoadsCommand constructor",
)

// NewExpireLoadsCommand creates a command expiring every open load whose
// pickup window ended at or before the given moment.
func NewExpireLoadsCommand(cutoff time.Time) (ExpireLoadsCommand, error) {
	if cutoff.IsZero() {
		return ExpireLoadsCommand{}, errs.NewValueIsRequiredError("cutoff")
	}
	return ExpireLoadsCommand{
		cutoff: cutoff.UnixMilli(),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Cutoff returns the sweep moment as epoch milliseconds, the unit the
// pickup windows are stored in.
func (c *ExpireLoadsCommand) Cutoff() int64 {
	return c.cutoff
}

// Validate ensures the command was created through the constructor.
func (c *ExpireLoadsCommand) Validate() error {
	return c.guard.Validate(ErrExpireLoadsCommandIsNotConstructed)
}
