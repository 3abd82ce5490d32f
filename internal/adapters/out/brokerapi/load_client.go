package brokerapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

const uploadImageFormat = "image/jpg"

// Load API route templates.
const (
	routeLoadCreate         = "/api/load/create"
	routeLoadGet            = "/api/load/:id"
	routeLoadsAll           = "/api/loads"
	routeLoadsShipper       = "/api/loads/shipper/:id/:type"
	routeLoadsDriver        = "/api/loads/driver/:id/:type"
	routeLoadPost           = "/api/load/:id/post"
	routeLoadAccept         = "/api/load/:id/accept/:driverid"
	routeLoadComplete       = "/api/load/:id/complete"
	routeLoadCancel         = "/api/load/:id/cancel"
	routeLoadPickupDock     = "/api/load/:id/pickup/dock"
	routeLoadPickupUpload   = "/api/load/:id/pickup/upload"
	routeLoadPickupAccept   = "/api/load/:id/pickup/accept"
	routeLoadPickupReject   = "/api/load/:id/pickup/reject"
	routeLoadDropoffDock    = "/api/load/:id/dropoff/dock"
	routeLoadDropoffUpload  = "/api/load/:id/dropoff/upload"
	routeLoadDropoffAccept  = "/api/load/:id/dropoff/accept"
	routeLoadDropoffReject  = "/api/load/:id/dropoff/reject"
	routeLoadUpdateLocation = "/api/load/:id/update/location"
)

// LoadClient drives a load through its remote lifecycle.
type LoadClient struct {
	transport ports.Transport
	encoder   ports.ImageEncoder
	movement  services.MovementClassifier
}

// NewLoadClient creates a load client over the given transport.
func NewLoadClient(transport ports.Transport, encoder ports.ImageEncoder) (*LoadClient, error) {
	if transport == nil {
		return nil, errs.NewValueIsRequiredError("transport")
	}
	if encoder == nil {
		return nil, errs.NewValueIsRequiredError("encoder")
	}
	return &LoadClient{
		transport: transport,
		encoder:   encoder,
		movement:  services.NewMovementClassifier(),
	}, nil
}

// Create registers a new load. The load must not have an id or a state
// yet; everything else has to be fully valid before the request goes out.
func (c *LoadClient) Create(ctx context.Context, l *load.Load) (*load.Load, error) {
	if !l.ID().IsEmpty() {
		return nil, errs.NewValueIsInvalidErrorWithCause("id",
			fmt.Errorf("a load that already has an id cannot be created"))
	}
	if l.State() != load.StateInvalid {
		return nil, errs.NewValueIsInvalidErrorWithCause("state",
			fmt.Errorf("%s is not a valid state to create the load", l.State()))
	}

	mask := kernel.FieldMaskAll &^ (load.FieldID | load.FieldState)
	if invalid := l.Validate(mask); invalid != kernel.FieldMaskNone {
		return nil, errs.NewValueIsInvalidErrorWithCause("load",
			fmt.Errorf("fields %#x failed validation", uint32(invalid)))
	}

	document, err := c.transport.Send(ctx, http.MethodPost, routeLoadCreate, l.WriteJSON(map[string]any{}, mask))
	if err != nil {
		return nil, err
	}
	return loadFromDocument(document)
}

// Get fetches a single load by id.
func (c *LoadClient) Get(ctx context.Context, id kernel.ObjectID) (*load.Load, error) {
	if err := id.Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	document, err := c.transport.Send(ctx, http.MethodGet,
		expandRoute(routeLoadGet, map[string]string{"id": id.String()}), nil)
	if err != nil {
		return nil, err
	}
	return loadFromDocument(document)
}

// GetAll fetches every load the caller may see.
func (c *LoadClient) GetAll(ctx context.Context) ([]*load.Load, error) {
	document, err := c.transport.Send(ctx, http.MethodGet, routeLoadsAll, nil)
	if err != nil {
		return nil, err
	}
	return loadsFromDocument(document)
}

// GetAllForShipper fetches a shipper's loads filtered by lifecycle.
func (c *LoadClient) GetAllForShipper(ctx context.Context, shipperID kernel.ObjectID, filter Filter) ([]*load.Load, error) {
	return c.getAllFor(ctx, routeLoadsShipper, shipperID, filter)
}

// GetAllForDriver fetches a driver's loads filtered by lifecycle.
func (c *LoadClient) GetAllForDriver(ctx context.Context, driverID kernel.ObjectID, filter Filter) ([]*load.Load, error) {
	return c.getAllFor(ctx, routeLoadsDriver, driverID, filter)
}

func (c *LoadClient) getAllFor(ctx context.Context, route string, id kernel.ObjectID, filter Filter) ([]*load.Load, error) {
	if err := id.Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	document, err := c.transport.Send(ctx, http.MethodGet,
		expandRoute(route, map[string]string{"id": id.String(), "type": string(filter)}), nil)
	if err != nil {
		return nil, err
	}
	return loadsFromDocument(document)
}

// Post offers a created load to the market.
func (c *LoadClient) Post(ctx context.Context, l *load.Load) (*load.Load, error) {
	return c.transition(ctx, l, "post", routeLoadPost, []load.State{load.StateCreated}, nil, nil)
}

// Accept books the load for its driver. The driver id must already be
// set on the load.
func (c *LoadClient) Accept(ctx context.Context, l *load.Load) (*load.Load, error) {
	if err := l.DriverID().Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("driverID", err)
	}
	return c.transition(ctx, l, "accept", routeLoadAccept, []load.State{load.StatePosted},
		map[string]string{"driverid": l.DriverID().String()}, nil)
}

// Complete closes out a delivered load.
func (c *LoadClient) Complete(ctx context.Context, l *load.Load) (*load.Load, error) {
	return c.transition(ctx, l, "complete", routeLoadComplete, []load.State{load.StateDropoffAccepted}, nil, nil)
}

// Cancel withdraws a load that has not been accepted yet.
func (c *LoadClient) Cancel(ctx context.Context, l *load.Load) (*load.Load, error) {
	return c.transition(ctx, l, "cancel", routeLoadCancel, []load.State{load.StateCreated, load.StatePosted}, nil, nil)
}

// PickupDock reports the driver docked at the pickup site.
func (c *LoadClient) PickupDock(ctx context.Context, l *load.Load) (*load.Load, error) {
	return c.transition(ctx, l, "dock", routeLoadPickupDock, []load.State{load.StatePickupArrived}, nil, nil)
}

// PickupUpload sends the signed bill of lading photographed at pickup.
func (c *LoadClient) PickupUpload(ctx context.Context, l *load.Load, image io.Reader) (*load.Load, error) {
	body, err := c.imageBody(image)
	if err != nil {
		return nil, err
	}
	return c.transition(ctx, l, "upload", routeLoadPickupUpload, []load.State{load.StatePickupDocked}, nil, body)
}

// PickupAccept approves the uploaded pickup document.
func (c *LoadClient) PickupAccept(ctx context.Context, l *load.Load) (*load.Load, error) {
	return c.transition(ctx, l, "accept", routeLoadPickupAccept, []load.State{load.StatePickupUploaded}, nil, nil)
}

// PickupReject turns down the uploaded pickup document.
func (c *LoadClient) PickupReject(ctx context.Context, l *load.Load) (*load.Load, error) {
	return c.transition(ctx, l, "reject", routeLoadPickupReject, []load.State{load.StatePickupUploaded}, nil, nil)
}

// DropoffDock reports the driver docked at the dropoff site.
func (c *LoadClient) DropoffDock(ctx context.Context, l *load.Load) (*load.Load, error) {
	return c.transition(ctx, l, "dock", routeLoadDropoffDock, []load.State{load.StateDropoffArrived}, nil, nil)
}

// DropoffUpload sends the signed bill of lading photographed at dropoff.
func (c *LoadClient) DropoffUpload(ctx context.Context, l *load.Load, image io.Reader) (*load.Load, error) {
	body, err := c.imageBody(image)
	if err != nil {
		return nil, err
	}
	return c.transition(ctx, l, "upload", routeLoadDropoffUpload, []load.State{load.StateDropoffDocked}, nil, body)
}

// DropoffAccept approves the uploaded dropoff document.
func (c *LoadClient) DropoffAccept(ctx context.Context, l *load.Load) (*load.Load, error) {
	return c.transition(ctx, l, "accept", routeLoadDropoffAccept, []load.State{load.StateDropoffUploaded}, nil, nil)
}

// DropoffReject turns down the uploaded dropoff document.
func (c *LoadClient) DropoffReject(ctx context.Context, l *load.Load) (*load.Load, error) {
	return c.transition(ctx, l, "reject", routeLoadDropoffReject, []load.State{load.StateDropoffUploaded}, nil, nil)
}

// UpdateLocation reports the load's current position. Allowed only while
// the load is booked or on the road.
func (c *LoadClient) UpdateLocation(ctx context.Context, l *load.Load) (*load.Load, error) {
	if err := l.ID().Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	if invalid := l.Location().Validate(kernel.FieldMaskAll); invalid != kernel.FieldMaskNone {
		return nil, errs.NewValueIsRequiredError("location")
	}
	if l.State() != load.StateInvalid && !l.State().AllowsLocationUpdate() {
		return nil, errs.NewValueIsInvalidErrorWithCause("state",
			fmt.Errorf("%s is not a valid state to update the load location", l.State()))
	}

	document, err := c.transport.Send(ctx, http.MethodPut,
		expandRoute(routeLoadUpdateLocation, map[string]string{"id": l.ID().String()}),
		l.Location().WriteJSON(map[string]any{}, kernel.FieldMaskAll))
	if err != nil {
		return nil, err
	}
	return loadFromDocument(document)
}

// ReportPosition records a fresh driver position on the load, reclassifies
// the movement state against the stop the load is heading to, and pushes
// the position to the backend.
func (c *LoadClient) ReportPosition(ctx context.Context, l *load.Load, position kernel.Location) (*load.Load, error) {
	if invalid := position.Validate(kernel.FieldMaskAll); invalid != kernel.FieldMaskNone {
		return nil, errs.NewValueIsRequiredError("position")
	}
	l.Location().SetPosition(position.Latitude(), position.Longitude())
	if target, ok := movementTarget(l); ok {
		l.SetState(c.movement.Classify(l.State(), position, target))
	}
	return c.UpdateLocation(ctx, l)
}

// movementTarget picks the geocoded stop a moving load is heading to. A
// load outside the moving states, or one whose stop has no position yet,
// has no target.
func movementTarget(l *load.Load) (kernel.Location, bool) {
	var target kernel.Location
	switch l.State() {
	case load.StatePickupOnRoute, load.StatePickupArriving, load.StatePickupArrived:
		target = l.Pickup().Address().Location()
	case load.StateDropoffOnRoute, load.StateDropoffArriving:
		target = l.Dropoff().Address().Location()
	default:
		return target, false
	}
	return target, target.Validate(kernel.FieldMaskAll) == kernel.FieldMaskNone
}

// transition runs the shared gate for a state-changing call: valid id,
// current state in the operation's allow list. An unset state never
// blocks a call; the backend is the authority for loads the client has
// not seen yet.
func (c *LoadClient) transition(
	ctx context.Context,
	l *load.Load,
	action string,
	route string,
	allowed []load.State,
	params map[string]string,
	body map[string]any,
) (*load.Load, error) {
	if err := l.ID().Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	if !stateAllowed(l.State(), allowed) {
		return nil, errs.NewValueIsInvalidErrorWithCause("state",
			fmt.Errorf("%s is not a valid state to %s the load", l.State(), action))
	}

	if params == nil {
		params = map[string]string{}
	}
	params["id"] = l.ID().String()

	method := http.MethodPut
	if body != nil {
		method = http.MethodPost
	}
	document, err := c.transport.Send(ctx, method, expandRoute(route, params), body)
	if err != nil {
		return nil, err
	}
	return loadFromDocument(document)
}

func (c *LoadClient) imageBody(image io.Reader) (map[string]any, error) {
	if image == nil {
		return nil, errs.NewValueIsRequiredError("image")
	}
	encoded, err := c.encoder.Encode(image)
	if err != nil {
		return nil, err
	}
	return map[string]any{"image": encoded, "format": uploadImageFormat}, nil
}

func stateAllowed(state load.State, allowed []load.State) bool {
	if state == load.StateInvalid {
		return true
	}
	for _, candidate := range allowed {
		if state == candidate {
			return true
		}
	}
	return false
}

// loadFromDocument rebuilds a load from the response envelope. A load
// that fails post-parse validation is discarded whole.
func loadFromDocument(document map[string]any) (*load.Load, error) {
	if err := checkResult(document); err != nil {
		return nil, err
	}
	payload, ok := kernel.AsObject(document["load"])
	if !ok {
		return nil, errs.NewValueIsRequiredError("load")
	}
	l, invalid := load.LoadFromJSON(payload, kernel.FieldMaskAll)
	if l == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("load",
			fmt.Errorf("fields %#x failed validation", uint32(invalid)))
	}
	return l, nil
}

// loadsFromDocument rebuilds a listing. Entries that do not survive
// validation are dropped, not fatal.
func loadsFromDocument(document map[string]any) ([]*load.Load, error) {
	if err := checkResult(document); err != nil {
		return nil, err
	}
	entries, ok := kernel.AsArray(document["loads"])
	if !ok {
		return nil, errs.NewValueIsRequiredError("loads")
	}

	loads := make([]*load.Load, 0, len(entries))
	for _, entry := range entries {
		payload, ok := kernel.AsObject(entry)
		if !ok {
			continue
		}
		if l, _ := load.LoadFromJSON(payload, kernel.FieldMaskAll); l != nil {
			loads = append(loads, l)
		}
	}
	return loads, nil
}
