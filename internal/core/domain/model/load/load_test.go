package load_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight/internal/core/domain/model/address"
	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
)

func fillStopAddress(t *testing.T, addr *address.Address, name string) {
	t.Helper()
	require.NoError(t, addr.SetName(name))
	require.NoError(t, addr.SetStreets([]string{"1 Dock Rd"}))
	require.NoError(t, addr.SetCity("Austin"))
	require.NoError(t, addr.SetState("TX"))
	require.NoError(t, addr.SetZipCode("78701"))
	require.NoError(t, addr.SetPhoneNumber("5125550100"))
	var position kernel.Location
	position.SetPosition(30.2672, -97.7431)
	addr.SetLocation(position)
}

func buildPostedLoad(t *testing.T) *load.Load {
	t.Helper()
	l := load.NewLoad()
	require.NoError(t, l.SetID(kernel.NewObjectID()))
	require.NoError(t, l.SetShipperID(kernel.NewObjectID()))
	l.SetState(load.StatePosted)

	fillStopAddress(t, l.Pickup().Address(), "Warehouse A")
	l.Pickup().Window().SetBegin(1700000000000)
	l.Pickup().Window().SetEnd(1700010000000)

	fillStopAddress(t, l.Dropoff().Address(), "Warehouse B")
	l.Dropoff().Window().SetBegin(1700020000000)
	l.Dropoff().Window().SetEnd(1700030000000)

	unit := cargo.NewUnit()
	require.NoError(t, unit.SetControlFlags(cargo.UnitStackable))
	require.NoError(t, unit.SetWidth(2))
	require.NoError(t, unit.SetHeight(2))
	require.NoError(t, unit.SetLength(2))
	require.NoError(t, unit.SetWeight(100))
	require.NoError(t, l.Contents().AddUnits(unit, 2))

	return l
}

func Test_Load_Validate(t *testing.T) {
	t.Run("posted load with both stops is valid", func(t *testing.T) {
		assert.Equal(t, kernel.FieldMaskNone, buildPostedLoad(t).Validate(kernel.FieldMaskAll))
	})

	t.Run("driver id is only required from completed onward", func(t *testing.T) {
		// Given
		l := buildPostedLoad(t)

		// When / Then: posted needs no driver
		assert.Equal(t, kernel.FieldMaskNone, l.Validate(load.FieldDriverID))

		l.SetState(load.StateCompleted)
		assert.Equal(t, load.FieldDriverID, l.Validate(load.FieldDriverID))

		require.NoError(t, l.SetDriverID(kernel.NewObjectID()))
		assert.Equal(t, kernel.FieldMaskNone, l.Validate(load.FieldDriverID))
	})

	t.Run("location is only required while moving", func(t *testing.T) {
		// Given
		l := buildPostedLoad(t)

		// When / Then: stationary states skip the check
		assert.Equal(t, kernel.FieldMaskNone, l.Validate(load.FieldLocation))

		l.SetState(load.StatePickupOnRoute)
		assert.Equal(t, load.FieldLocation, l.Validate(load.FieldLocation))

		l.Location().SetPosition(30.2672, -97.7431)
		assert.Equal(t, kernel.FieldMaskNone, l.Validate(load.FieldLocation))
	})

	t.Run("the dropoff window must open after the pickup window closes", func(t *testing.T) {
		// Given
		l := buildPostedLoad(t)
		l.Dropoff().Window().SetBegin(l.Pickup().Window().End())

		// When
		invalid := l.Validate(load.FieldPickupWindow | load.FieldDropoffWindow)

		// Then: both windows are blamed
		assert.Equal(t, load.FieldPickupWindow|load.FieldDropoffWindow, invalid)
	})

	t.Run("the window ordering is only checked when both are requested", func(t *testing.T) {
		// Given
		l := buildPostedLoad(t)
		l.Dropoff().Window().SetBegin(l.Pickup().Window().End())

		// Then
		assert.Equal(t, kernel.FieldMaskNone, l.Validate(load.FieldDropoffWindow))
	})

	t.Run("empty load reports the identity bits", func(t *testing.T) {
		invalid := load.NewLoad().Validate(load.FieldID | load.FieldState | load.FieldShipperID)
		assert.Equal(t, load.FieldID|load.FieldState|load.FieldShipperID, invalid)
	})

	t.Run("empty mask checks nothing", func(t *testing.T) {
		assert.Equal(t, kernel.FieldMaskNone, load.NewLoad().Validate(kernel.FieldMaskNone))
	})
}

func Test_Load_Log(t *testing.T) {
	t.Run("milestones overwrite per key", func(t *testing.T) {
		// Given
		l := load.NewLoad()
		l.LogMilestone(load.LogCreated, 1700000000000)

		// When
		l.LogMilestone(load.LogCreated, 1700000001000)

		// Then
		assert.Equal(t, int64(1700000001000), l.Log()[load.LogCreated])
	})

	t.Run("the returned log is a copy", func(t *testing.T) {
		// Given
		l := load.NewLoad()
		l.LogMilestone(load.LogCreated, 1700000000000)

		// When
		l.Log()[load.LogPickupArrived] = 42

		// Then
		assert.Len(t, l.Log(), 1)
	})
}

func Test_Load_JSON(t *testing.T) {
	t.Run("round trip preserves the aggregate", func(t *testing.T) {
		// Given
		source := buildPostedLoad(t)
		source.LogMilestone(load.LogCreated, 1700000000000)

		// When
		restored := load.NewLoad()
		invalid := restored.ReadJSON(source.WriteJSON(nil, kernel.FieldMaskAll))

		// Then
		require.Equal(t, kernel.FieldMaskNone, invalid)
		assert.Equal(t, source.ID(), restored.ID())
		assert.Equal(t, source.State(), restored.State())
		assert.Equal(t, source.ShipperID(), restored.ShipperID())
		assert.True(t, source.Pickup().Address().IsEqual(*restored.Pickup().Address()))
		assert.True(t, source.Dropoff().Window().IsEqual(*restored.Dropoff().Window()))
		assert.True(t, source.Contents().IsEqual(restored.Contents()))
		assert.Equal(t, source.Log(), restored.Log())
	})

	t.Run("driver id is withheld before completion", func(t *testing.T) {
		// Given
		l := buildPostedLoad(t)
		require.NoError(t, l.SetDriverID(kernel.NewObjectID()))

		// When / Then
		assert.NotContains(t, l.WriteJSON(nil, kernel.FieldMaskAll), "driverid")

		l.SetState(load.StateCompleted)
		assert.Contains(t, l.WriteJSON(nil, kernel.FieldMaskAll), "driverid")
	})

	t.Run("an empty log writes no key", func(t *testing.T) {
		assert.NotContains(t, buildPostedLoad(t).WriteJSON(nil, kernel.FieldMaskAll), "log")
	})

	t.Run("log entries merge instead of replacing", func(t *testing.T) {
		// Given
		l := load.NewLoad()
		l.LogMilestone(load.LogCreated, 1)

		// When
		invalid := l.ReadJSON(map[string]any{
			"log": map[string]any{load.LogPickupArrived: int64(2)},
		})

		// Then
		assert.Equal(t, kernel.FieldMaskNone, invalid)
		assert.Equal(t, map[string]int64{load.LogCreated: 1, load.LogPickupArrived: 2}, l.Log())
	})

	t.Run("partial masks write only the requested groups", func(t *testing.T) {
		// Given
		l := buildPostedLoad(t)

		// When
		target := l.WriteJSON(nil, load.FieldID|load.FieldPickupWindow)

		// Then
		assert.Contains(t, target, "_id")
		pickup, ok := target["pickup"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, pickup, "window")
		assert.NotContains(t, pickup, "address")
		assert.NotContains(t, target, "dropoff")
	})
}
