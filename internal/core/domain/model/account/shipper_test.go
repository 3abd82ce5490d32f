package account_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/address"
	"freight/internal/core/domain/model/kernel"
)

func buildWarehouseAddress(t *testing.T, city string) *address.Address {
	t.Helper()
	addr := &address.Address{}
	require.NoError(t, addr.SetName("Warehouse"))
	require.NoError(t, addr.SetStreets([]string{"1 Dock Rd"}))
	require.NoError(t, addr.SetCity(city))
	require.NoError(t, addr.SetState("TX"))
	require.NoError(t, addr.SetZipCode("78701"))
	require.NoError(t, addr.SetPhoneNumber("5125550100"))
	addr.SetLocation(buildPosition(t))
	return addr
}

func buildPosition(t *testing.T) kernel.Location {
	t.Helper()
	var location kernel.Location
	location.SetPosition(30.2672, -97.7431)
	return location
}

func Test_Shipper_SetEIN(t *testing.T) {
	t.Run("non digits are stripped before the length check", func(t *testing.T) {
		// Given
		shipper := account.NewShipper()

		// When
		err := shipper.SetEIN("12-3456789")

		// Then
		require.NoError(t, err)
		assert.Equal(t, "123456789", shipper.EIN())
	})

	t.Run("anything but nine digits is rejected", func(t *testing.T) {
		shipper := account.NewShipper()
		assert.Error(t, shipper.SetEIN("12345678"))
		assert.Error(t, shipper.SetEIN("1234567890"))
		assert.Error(t, shipper.SetEIN("no digits"))
	})
}

func Test_Shipper_Addresses(t *testing.T) {
	t.Run("duplicates collapse into one entry", func(t *testing.T) {
		// Given
		shipper := account.NewShipper()
		require.NoError(t, shipper.AddAddress(buildWarehouseAddress(t, "Austin")))

		// When
		err := shipper.AddAddress(buildWarehouseAddress(t, "Austin"))

		// Then
		require.NoError(t, err)
		assert.Len(t, shipper.Addresses(), 1)
	})

	t.Run("an incomplete address is rejected", func(t *testing.T) {
		assert.Error(t, account.NewShipper().AddAddress(&address.Address{}))
	})

	t.Run("remove drops the matching address", func(t *testing.T) {
		// Given
		shipper := account.NewShipper()
		require.NoError(t, shipper.AddAddress(buildWarehouseAddress(t, "Austin")))
		require.NoError(t, shipper.AddAddress(buildWarehouseAddress(t, "Houston")))

		// When
		err := shipper.RemoveAddress(buildWarehouseAddress(t, "Austin"))

		// Then
		require.NoError(t, err)
		require.Len(t, shipper.Addresses(), 1)
		assert.Equal(t, "Houston", shipper.Addresses()[0].City())
	})
}

func Test_Shipper_Validate(t *testing.T) {
	t.Run("an ein alone is enough", func(t *testing.T) {
		// Given: saved addresses are optional
		shipper := account.NewShipper()
		require.NoError(t, shipper.SetEIN("123456789"))

		// Then
		assert.Equal(t, kernel.FieldMaskNone, shipper.Validate(kernel.FieldMaskAll))
	})

	t.Run("a missing ein is reported", func(t *testing.T) {
		assert.Equal(t, account.ShipperFieldEIN,
			account.NewShipper().Validate(account.ShipperFieldEIN))
	})
}

func Test_Shipper_JSON(t *testing.T) {
	t.Run("round trip preserves ein and addresses", func(t *testing.T) {
		// Given
		source := account.NewShipper()
		require.NoError(t, source.SetEIN("123456789"))
		require.NoError(t, source.AddAddress(buildWarehouseAddress(t, "Austin")))

		// When
		restored := account.NewShipper()
		invalid := restored.ReadJSON(source.WriteJSON(nil, kernel.FieldMaskAll))

		// Then
		require.Equal(t, kernel.FieldMaskNone, invalid)
		assert.Equal(t, "123456789", restored.EIN())
		require.Len(t, restored.Addresses(), 1)
		assert.True(t, source.Addresses()[0].IsEqual(*restored.Addresses()[0]))
	})

	t.Run("no addresses key is written for an empty collection", func(t *testing.T) {
		assert.NotContains(t, account.NewShipper().WriteJSON(nil, kernel.FieldMaskAll), "addresses")
	})
}
