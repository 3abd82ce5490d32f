package commands_test

import (
	"testing"
	"time"

	"freight/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExpireLoadsCommand(t *testing.T) {
	t.Run("carries_the_cutoff_as_epoch_milliseconds", func(t *testing.T) {
		// Given
		moment := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

		// When
		cmd, err := commands.NewExpireLoadsCommand(moment)

		// Then
		require.NoError(t, err)
		assert.Equal(t, moment.UnixMilli(), cmd.Cutoff())
		require.NoError(t, cmd.Validate())
	})

	t.Run("rejects_a_zero_cutoff", func(t *testing.T) {
		// Given / When
		_, err := commands.NewExpireLoadsCommand(time.Time{})

		// Then
		require.Error(t, err)
	})

	t.Run("zero_value_fails_validation", func(t *testing.T) {
		// Given
		var cmd commands.ExpireLoadsCommand

		// When / Then
		err := cmd.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be created via NewExpireLoadsCommand constructor")
	})
}
