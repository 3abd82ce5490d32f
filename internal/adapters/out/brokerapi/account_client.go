package brokerapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// Account API route templates.
const (
	routeAccountCreate     = "/api/account/create"
	routeAccountGet        = "/api/account/:id"
	routeAccountsAll       = "/api/accounts"
	routeAccountsChildren  = "/api/accounts/:id/:type"
	routeAccountVerify     = "/api/account/:id/verify/:code"
	routeAccountActivate   = "/api/account/:id/activate"
	routeAccountDeactivate = "/api/account/:id/deactivate"
	routeAccountReactivate = "/api/account/:id/reactivate"
	routeAccountSuspend    = "/api/account/:id/suspend"
	routeAccountUnsuspend  = "/api/account/:id/unsuspend"
)

// AccountClient drives an account through its remote lifecycle. The
// status transition methods on account.Status act as the local gate:
// when they refuse the move, no request is issued.
type AccountClient struct {
	transport ports.Transport
}

// NewAccountClient creates an account client over the given transport.
func NewAccountClient(transport ports.Transport) (*AccountClient, error) {
	if transport == nil {
		return nil, errs.NewValueIsRequiredError("transport")
	}
	return &AccountClient{transport: transport}, nil
}

// Create registers a new account. The account must not have an id or a
// status yet; everything else has to be fully valid before the request
// goes out.
func (c *AccountClient) Create(ctx context.Context, a *account.Account) (*account.Account, error) {
	if !a.ID().IsEmpty() {
		return nil, errs.NewValueIsInvalidErrorWithCause("id",
			fmt.Errorf("an account that already has an id cannot be created"))
	}
	if a.Status() != account.StatusInvalid {
		return nil, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to create the account", a.Status()))
	}

	mask := kernel.FieldMaskAll &^ (account.FieldID | account.FieldStatus)
	if invalid := a.Validate(mask); invalid != kernel.FieldMaskNone {
		return nil, errs.NewValueIsInvalidErrorWithCause("account",
			fmt.Errorf("fields %#x failed validation", uint32(invalid)))
	}

	document, err := c.transport.Send(ctx, http.MethodPost, routeAccountCreate, a.WriteJSON(map[string]any{}, mask))
	if err != nil {
		return nil, err
	}
	return accountFromDocument(document)
}

// Get fetches a single account by id.
func (c *AccountClient) Get(ctx context.Context, id kernel.ObjectID) (*account.Account, error) {
	if err := id.Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	document, err := c.transport.Send(ctx, http.MethodGet,
		expandRoute(routeAccountGet, map[string]string{"id": id.String()}), nil)
	if err != nil {
		return nil, err
	}
	return accountFromDocument(document)
}

// GetAll fetches every account the caller may see.
func (c *AccountClient) GetAll(ctx context.Context) ([]*account.Account, error) {
	document, err := c.transport.Send(ctx, http.MethodGet, routeAccountsAll, nil)
	if err != nil {
		return nil, err
	}
	return accountsFromDocument(document)
}

// GetChildren fetches a master account's child accounts of the given
// type.
func (c *AccountClient) GetChildren(ctx context.Context, ownerID kernel.ObjectID, childType account.Type) ([]*account.Account, error) {
	if err := ownerID.Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	if childType == 0 || childType&^account.TypeAll != 0 {
		return nil, errs.NewValueIsInvalidError("type")
	}
	document, err := c.transport.Send(ctx, http.MethodGet,
		expandRoute(routeAccountsChildren, map[string]string{
			"id":   ownerID.String(),
			"type": strconv.Itoa(int(childType)),
		}), nil)
	if err != nil {
		return nil, err
	}
	return accountsFromDocument(document)
}

// Verify confirms a freshly created account with its emailed code.
func (c *AccountClient) Verify(ctx context.Context, a *account.Account, code string) (*account.Account, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errs.NewValueIsRequiredError("code")
	}
	return c.transition(ctx, a, routeAccountVerify, map[string]string{"code": code}, account.Status.Verify)
}

// Activate opens a verified account for business.
func (c *AccountClient) Activate(ctx context.Context, a *account.Account) (*account.Account, error) {
	return c.transition(ctx, a, routeAccountActivate, nil, account.Status.Activate)
}

// Deactivate takes an activated account out of service.
func (c *AccountClient) Deactivate(ctx context.Context, a *account.Account) (*account.Account, error) {
	return c.transition(ctx, a, routeAccountDeactivate, nil, account.Status.Deactivate)
}

// Reactivate brings a deactivated account back.
func (c *AccountClient) Reactivate(ctx context.Context, a *account.Account) (*account.Account, error) {
	return c.transition(ctx, a, routeAccountReactivate, nil, account.Status.Reactivate)
}

// Suspend locks the account out.
func (c *AccountClient) Suspend(ctx context.Context, a *account.Account) (*account.Account, error) {
	return c.transition(ctx, a, routeAccountSuspend, nil, account.Status.Suspend)
}

// Unsuspend lifts a suspension.
func (c *AccountClient) Unsuspend(ctx context.Context, a *account.Account) (*account.Account, error) {
	return c.transition(ctx, a, routeAccountUnsuspend, nil, account.Status.Unsuspend)
}

// transition runs the shared gate for a status-changing call: valid id,
// then the domain transition itself. When the transition refuses the
// move the error goes straight back with zero transport calls.
func (c *AccountClient) transition(
	ctx context.Context,
	a *account.Account,
	route string,
	params map[string]string,
	gate func(account.Status) (account.Status, error),
) (*account.Account, error) {
	if err := a.ID().Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	if _, err := gate(a.Status()); err != nil {
		return nil, err
	}

	if params == nil {
		params = map[string]string{}
	}
	params["id"] = a.ID().String()

	document, err := c.transport.Send(ctx, http.MethodPut, expandRoute(route, params), nil)
	if err != nil {
		return nil, err
	}
	return accountFromDocument(document)
}

// accountFromDocument rebuilds an account from the response envelope. An
// account that fails post-parse validation is discarded whole.
func accountFromDocument(document map[string]any) (*account.Account, error) {
	if err := checkResult(document); err != nil {
		return nil, err
	}
	payload, ok := kernel.AsObject(document["account"])
	if !ok {
		return nil, errs.NewValueIsRequiredError("account")
	}
	a, invalid := account.AccountFromJSON(payload, kernel.FieldMaskAll)
	if a == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("account",
			fmt.Errorf("fields %#x failed validation", uint32(invalid)))
	}
	return a, nil
}

// accountsFromDocument rebuilds a listing. Entries that do not survive
// validation are dropped, not fatal.
func accountsFromDocument(document map[string]any) ([]*account.Account, error) {
	if err := checkResult(document); err != nil {
		return nil, err
	}
	entries, ok := kernel.AsArray(document["accounts"])
	if !ok {
		return nil, errs.NewValueIsRequiredError("accounts")
	}

	accounts := make([]*account.Account, 0, len(entries))
	for _, entry := range entries {
		payload, ok := kernel.AsObject(entry)
		if !ok {
			continue
		}
		if a, _ := account.AccountFromJSON(payload, kernel.FieldMaskAll); a != nil {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}
