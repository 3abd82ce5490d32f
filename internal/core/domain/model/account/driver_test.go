package account_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight/internal/core/domain/model/account"
	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/kernel"
)

func buildFleetVehicle(t *testing.T, vin string) *cargo.Vehicle {
	t.Helper()
	vehicle := cargo.NewVehicle()
	require.NoError(t, vehicle.SetType(cargo.VehicleMotorized|cargo.VehicleHasContainer))
	require.NoError(t, vehicle.SetVIN(vin))
	require.NoError(t, vehicle.SetLicense("TX48201"))
	require.NoError(t, vehicle.SetModel("F-350 flatbed"))
	container := vehicle.Container()
	require.NoError(t, container.SetWidth(8))
	require.NoError(t, container.SetLength(20))
	require.NoError(t, container.SetMaxWeight(50))
	return vehicle
}

func buildDriver(t *testing.T) *account.Driver {
	t.Helper()
	driver := account.NewDriver()
	require.NoError(t, driver.SetCDL("CDL 1234"))
	require.NoError(t, driver.SetDOT("DOT 5678"))
	require.NoError(t, driver.SetMC("MC 9012"))
	require.NoError(t, driver.AddVehicle(buildFleetVehicle(t, "1FTFW1ET5DFC10312")))
	return driver
}

func Test_Driver_Setters(t *testing.T) {
	t.Run("credentials are stripped of whitespace", func(t *testing.T) {
		// Given
		driver := buildDriver(t)

		// Then
		assert.Equal(t, "CDL1234", driver.CDL())
		assert.Equal(t, "DOT5678", driver.DOT())
		assert.Equal(t, "MC9012", driver.MC())
	})

	t.Run("blank credentials are rejected", func(t *testing.T) {
		driver := account.NewDriver()
		assert.Error(t, driver.SetCDL("   "))
		assert.Error(t, driver.SetDOT(""))
		assert.Error(t, driver.SetMC(" \t "))
	})
}

func Test_Driver_Vehicles(t *testing.T) {
	t.Run("a duplicate vin is treated as already added", func(t *testing.T) {
		// Given
		driver := buildDriver(t)

		// When
		err := driver.AddVehicle(buildFleetVehicle(t, "1FTFW1ET5DFC10312"))

		// Then
		require.NoError(t, err)
		assert.Len(t, driver.Vehicles(), 1)
	})

	t.Run("an invalid vehicle is rejected", func(t *testing.T) {
		assert.Error(t, buildDriver(t).AddVehicle(cargo.NewVehicle()))
	})

	t.Run("remove drops the vehicle with the same vin", func(t *testing.T) {
		// Given
		driver := buildDriver(t)

		// When
		err := driver.RemoveVehicle(buildFleetVehicle(t, "1FTFW1ET5DFC10312"))

		// Then
		require.NoError(t, err)
		assert.Empty(t, driver.Vehicles())
	})
}

func Test_Driver_Validate(t *testing.T) {
	t.Run("configured driver is valid", func(t *testing.T) {
		assert.Equal(t, kernel.FieldMaskNone, buildDriver(t).Validate(kernel.FieldMaskAll))
	})

	t.Run("fleet needs at least one motorized vehicle", func(t *testing.T) {
		// Given
		driver := buildDriver(t)
		require.NoError(t, driver.RemoveVehicle(buildFleetVehicle(t, "1FTFW1ET5DFC10312")))

		// When
		invalid := driver.Validate(account.DriverFieldVehicles)

		// Then
		assert.Equal(t, account.DriverFieldVehicles, invalid)
	})

	t.Run("empty driver reports every credential", func(t *testing.T) {
		invalid := account.NewDriver().Validate(account.DriverFieldCDL | account.DriverFieldDOT | account.DriverFieldMC)
		assert.Equal(t, account.DriverFieldCDL|account.DriverFieldDOT|account.DriverFieldMC, invalid)
	})
}

func Test_Driver_JSON(t *testing.T) {
	t.Run("round trip preserves credentials and the fleet", func(t *testing.T) {
		// Given
		source := buildDriver(t)

		// When
		restored := account.NewDriver()
		invalid := restored.ReadJSON(source.WriteJSON(nil, kernel.FieldMaskAll))

		// Then
		require.Equal(t, kernel.FieldMaskNone, invalid)
		assert.Equal(t, source.CDL(), restored.CDL())
		require.Len(t, restored.Vehicles(), 1)
		assert.True(t, source.Vehicles()[0].IsEqual(restored.Vehicles()[0]))
	})

	t.Run("an empty fleet writes no vehicles key", func(t *testing.T) {
		driver := account.NewDriver()
		assert.NotContains(t, driver.WriteJSON(nil, kernel.FieldMaskAll), "vehicles")
	})

	t.Run("a bad fleet entry marks the field and keeps the rest", func(t *testing.T) {
		// Given
		driver := account.NewDriver()
		good := buildFleetVehicle(t, "1FTFW1ET5DFC10312").WriteJSON(nil, kernel.FieldMaskAll)

		// When
		invalid := driver.ReadJSON(map[string]any{
			"vehicles": []any{"junk", good},
		})

		// Then
		assert.Equal(t, account.DriverFieldVehicles, invalid)
		assert.Len(t, driver.Vehicles(), 1)
	})
}
