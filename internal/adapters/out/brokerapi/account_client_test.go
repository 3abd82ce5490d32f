package brokerapi_test

import (
	"context"
	"strconv"
	"testing"

	"freight/internal/adapters/out/brokerapi"
	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// buildDraftAccount builds a fully valid account that has not been
// created on the backend yet: no id, no status.
func buildDraftAccount(t *testing.T) *account.Account {
	t.Helper()

	a := account.NewAccount(nil)
	require.NoError(t, a.SetType(account.TypeMaster|account.TypeSystem))
	require.NoError(t, a.SetName("Avery", "Quinn"))
	require.NoError(t, a.SetEmail("avery@example.com"))
	require.NoError(t, a.SetPassword("hunter22"))

	addr := a.Address()
	require.NoError(t, addr.SetStreets([]string{"500 Congress Ave"}))
	require.NoError(t, addr.SetCity("Austin"))
	require.NoError(t, addr.SetState("TX"))
	require.NoError(t, addr.SetZipCode("78701"))
	require.NoError(t, addr.SetPhoneNumber("5125550142"))
	return a
}

func buildRemoteAccount(t *testing.T, status account.Status) *account.Account {
	t.Helper()
	a := buildDraftAccount(t)
	require.NoError(t, a.SetID(kernel.NewObjectID()))
	require.NoError(t, a.SetStatus(status))
	return a
}

func accountDocument(a *account.Account) map[string]any {
	return map[string]any{
		"_result": 0,
		"account": a.WriteJSON(map[string]any{}, kernel.FieldMaskAll),
	}
}

func buildAccountClient(t *testing.T) (*brokerapi.AccountClient, *MockTransport) {
	t.Helper()
	transport := new(MockTransport)
	client, err := brokerapi.NewAccountClient(transport)
	require.NoError(t, err)
	return client, transport
}

func TestAccountClient_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates_a_valid_draft", func(t *testing.T) {
		// Given
		client, transport := buildAccountClient(t)
		draft := buildDraftAccount(t)
		remote := buildRemoteAccount(t, account.StatusCreated)

		transport.On("Send", ctx, "POST", "/api/account/create", mock.MatchedBy(func(body map[string]any) bool {
			_, hasID := body["_id"]
			_, hasStatus := body["status"]
			return !hasID && !hasStatus && body["email"] == "avery@example.com"
		})).Return(accountDocument(remote), nil).Once()

		// When
		created, err := client.Create(ctx, draft)

		// Then
		require.NoError(t, err)
		assert.Equal(t, remote.ID(), created.ID())
		assert.Equal(t, account.StatusCreated, created.Status())
		transport.AssertExpectations(t)
	})

	t.Run("rejects_an_account_that_already_has_an_id", func(t *testing.T) {
		// Given
		client, transport := buildAccountClient(t)
		a := buildDraftAccount(t)
		require.NoError(t, a.SetID(kernel.NewObjectID()))

		// When
		_, err := client.Create(ctx, a)

		// Then
		require.Error(t, err)
		transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects_an_invalid_draft_without_a_request", func(t *testing.T) {
		// Given: a child account must name its owner
		client, transport := buildAccountClient(t)
		a := buildDraftAccount(t)
		require.NoError(t, a.SetType(account.TypeShipper))

		// When
		_, err := client.Create(ctx, a)

		// Then
		require.Error(t, err)
		transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAccountClient_Transitions(t *testing.T) {
	ctx := context.Background()

	t.Run("verifies_a_created_account_with_its_code", func(t *testing.T) {
		// Given
		client, transport := buildAccountClient(t)
		a := buildRemoteAccount(t, account.StatusCreated)
		remote := buildRemoteAccount(t, account.StatusVerified)

		transport.On("Send", ctx, "PUT", "/api/account/"+a.ID().String()+"/verify/42af", mock.Anything).
			Return(accountDocument(remote), nil).Once()

		// When
		verified, err := client.Verify(ctx, a, "42af")

		// Then
		require.NoError(t, err)
		assert.Equal(t, account.StatusVerified, verified.Status())
		transport.AssertExpectations(t)
	})

	t.Run("verify_requires_a_code", func(t *testing.T) {
		// Given
		client, transport := buildAccountClient(t)
		a := buildRemoteAccount(t, account.StatusCreated)

		// When
		_, err := client.Verify(ctx, a, "   ")

		// Then
		require.Error(t, err)
		transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("refuses_transitions_outside_the_allowed_statuses", func(t *testing.T) {
		// Given
		client, transport := buildAccountClient(t)
		a := buildRemoteAccount(t, account.StatusCreated)

		// When: a created account has not been verified yet
		_, err := client.Activate(ctx, a)

		// Then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid status")
		transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("an_unset_status_never_blocks_a_transition", func(t *testing.T) {
		// Given: only the id is known locally
		client, transport := buildAccountClient(t)
		a := account.NewAccount(nil)
		require.NoError(t, a.SetID(kernel.NewObjectID()))
		remote := buildRemoteAccount(t, account.StatusActivated)

		transport.On("Send", ctx, "PUT", "/api/account/"+a.ID().String()+"/activate", mock.Anything).
			Return(accountDocument(remote), nil).Once()

		// When
		activated, err := client.Activate(ctx, a)

		// Then
		require.NoError(t, err)
		assert.Equal(t, account.StatusActivated, activated.Status())
		transport.AssertExpectations(t)
	})

	t.Run("suspend_is_allowed_from_any_live_status", func(t *testing.T) {
		for _, status := range []account.Status{
			account.StatusCreated,
			account.StatusVerified,
			account.StatusActivated,
			account.StatusDeactivated,
		} {
			t.Run(status.String(), func(t *testing.T) {
				// Given
				client, transport := buildAccountClient(t)
				a := buildRemoteAccount(t, status)
				remote := buildRemoteAccount(t, account.StatusSuspended)

				transport.On("Send", ctx, "PUT", "/api/account/"+a.ID().String()+"/suspend", mock.Anything).
					Return(accountDocument(remote), nil).Once()

				// When
				suspended, err := client.Suspend(ctx, a)

				// Then
				require.NoError(t, err)
				assert.Equal(t, account.StatusSuspended, suspended.Status())
				transport.AssertExpectations(t)
			})
		}
	})

	t.Run("unsuspend_returns_the_account_to_created", func(t *testing.T) {
		// Given
		client, transport := buildAccountClient(t)
		a := buildRemoteAccount(t, account.StatusSuspended)
		remote := buildRemoteAccount(t, account.StatusCreated)

		transport.On("Send", ctx, "PUT", "/api/account/"+a.ID().String()+"/unsuspend", mock.Anything).
			Return(accountDocument(remote), nil).Once()

		// When
		unsuspended, err := client.Unsuspend(ctx, a)

		// Then
		require.NoError(t, err)
		assert.Equal(t, account.StatusCreated, unsuspended.Status())
		transport.AssertExpectations(t)
	})
}

func TestAccountClient_Listings(t *testing.T) {
	ctx := context.Background()

	t.Run("get_children_builds_the_typed_route", func(t *testing.T) {
		// Given
		client, transport := buildAccountClient(t)
		ownerID := kernel.NewObjectID()
		child := buildRemoteAccount(t, account.StatusActivated)

		transport.On("Send", ctx, "GET",
			"/api/accounts/"+ownerID.String()+"/"+strconv.Itoa(int(account.TypeDriver)), mock.Anything).
			Return(map[string]any{
				"_result":  0,
				"accounts": []any{child.WriteJSON(map[string]any{}, kernel.FieldMaskAll)},
			}, nil).Once()

		// When
		children, err := client.GetChildren(ctx, ownerID, account.TypeDriver)

		// Then
		require.NoError(t, err)
		require.Len(t, children, 1)
		assert.Equal(t, child.ID(), children[0].ID())
		transport.AssertExpectations(t)
	})

	t.Run("get_children_rejects_an_unknown_type", func(t *testing.T) {
		// Given
		client, transport := buildAccountClient(t)

		// When
		_, err := client.GetChildren(ctx, kernel.NewObjectID(), account.TypeInvalid)

		// Then
		require.Error(t, err)
		transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a_nonzero_result_code_is_a_rejection", func(t *testing.T) {
		// Given
		client, transport := buildAccountClient(t)

		transport.On("Send", ctx, "GET", "/api/accounts", mock.Anything).
			Return(map[string]any{"_result": 7}, nil).Once()

		// When
		_, err := client.GetAll(ctx)

		// Then
		require.ErrorIs(t, err, brokerapi.ErrRequestRejected)
	})
}
