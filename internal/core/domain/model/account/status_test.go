package account_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight/internal/core/domain/model/account"
)

func Test_Status_Validate(t *testing.T) {
	t.Run("lifecycle values are valid", func(t *testing.T) {
		for _, status := range []account.Status{
			account.StatusCreated, account.StatusVerified, account.StatusActivated,
			account.StatusDeactivated, account.StatusSuspended,
		} {
			assert.NoError(t, status.Validate(), status.String())
		}
	})

	t.Run("invalid and out of range values fail", func(t *testing.T) {
		assert.Error(t, account.StatusInvalid.Validate())
		assert.Error(t, account.Status(42).Validate())
	})
}

func Test_Status_Transitions(t *testing.T) {
	t.Run("the happy path walks the whole lifecycle", func(t *testing.T) {
		// Given
		status := account.StatusCreated

		// When / Then
		status, err := status.Verify()
		require.NoError(t, err)
		status, err = status.Activate()
		require.NoError(t, err)
		status, err = status.Deactivate()
		require.NoError(t, err)
		status, err = status.Reactivate()
		require.NoError(t, err)
		assert.Equal(t, account.StatusActivated, status)
	})

	t.Run("verify requires a created account", func(t *testing.T) {
		_, err := account.StatusActivated.Verify()
		assert.Error(t, err)
	})

	t.Run("activate requires a verified account", func(t *testing.T) {
		_, err := account.StatusCreated.Activate()
		assert.Error(t, err)
	})

	t.Run("suspend is allowed from every state except suspended", func(t *testing.T) {
		for _, status := range []account.Status{
			account.StatusCreated, account.StatusVerified,
			account.StatusActivated, account.StatusDeactivated,
		} {
			next, err := status.Suspend()
			require.NoError(t, err, status.String())
			assert.Equal(t, account.StatusSuspended, next)
		}
		_, err := account.StatusSuspended.Suspend()
		assert.Error(t, err)
	})

	t.Run("unsuspend returns the account to created", func(t *testing.T) {
		// Given
		status := account.StatusSuspended

		// When
		next, err := status.Unsuspend()

		// Then
		require.NoError(t, err)
		assert.Equal(t, account.StatusCreated, next)
		_, err = account.StatusActivated.Unsuspend()
		assert.Error(t, err)
	})

	t.Run("an unloaded status may attempt any transition", func(t *testing.T) {
		for name, transition := range map[string]func(account.Status) (account.Status, error){
			"verify":     account.Status.Verify,
			"activate":   account.Status.Activate,
			"deactivate": account.Status.Deactivate,
			"reactivate": account.Status.Reactivate,
			"suspend":    account.Status.Suspend,
			"unsuspend":  account.Status.Unsuspend,
		} {
			_, err := transition(account.StatusInvalid)
			assert.NoError(t, err, name)
		}
	})
}

func Test_Status_String(t *testing.T) {
	assert.Equal(t, "Created", account.StatusCreated.String())
	assert.Equal(t, "Suspended", account.StatusSuspended.String())
	assert.Equal(t, "Invalid", account.Status(99).String())
}
