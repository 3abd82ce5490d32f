package commands

import (
	"context"

	"freight/internal/core/ports"
)

// ExpireLoadsCommandHandler expires loads nobody picked up in time.
// Loads in Created or Posted whose pickup window end has passed move to
// Expired through the domain transition and are saved back.
type ExpireLoadsCommandHandler struct {
	loadRepository ports.LoadRepository
}

// NewExpireLoadsCommandHandler creates a handler for the expiry sweep.
func NewExpireLoadsCommandHandler(loadRepository ports.LoadRepository) ExpireLoadsCommandHandler {
	return ExpireLoadsCommandHandler{
		loadRepository: loadRepository,
	}
}

// Handle processes the expiry sweep. Returns how many loads were expired.
func (h *ExpireLoadsCommandHandler) Handle(ctx context.Context, cmd ExpireLoadsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	loads, err := h.loadRepository.GetAllExpirable(ctx, cmd.Cutoff())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, l := range loads {
		next, err := l.State().Expire()
		if err != nil {
			return expired, err
		}
		l.SetState(next)

		if err := h.loadRepository.Update(ctx, l); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}
