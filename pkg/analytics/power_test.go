package analytics

import (
	"testing"
	"time"

	"github.com/homewatt/homewatt/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestDevicePower(t *testing.T) {
	t.Run("configured power wins", func(t *testing.T) {
		d := types.Device{Type: types.DeviceTypeLight, PowerConsumption: 42}
		assert.Equal(t, 42.0, DevicePower(d))
	})

	t.Run("falls back to profile active power", func(t *testing.T) {
		d := types.Device{Type: types.DeviceTypeLight}
		assert.Equal(t, 60.0, DevicePower(d))
	})

	t.Run("unknown type falls back to default", func(t *testing.T) {
		d := types.Device{Type: "hovercraft"}
		assert.Equal(t, float64(DefaultPowerWatts), DevicePower(d))
	})
}

func TestTotalEnergyConsumed(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	t.Run("usage history is authoritative regardless of status", func(t *testing.T) {
		history := []types.UsageRecord{
			{EnergyConsumed: 1.5},
			{EnergyConsumed: 2.25},
		}
		on := types.Device{
			Type:                types.DeviceTypeTV,
			Status:              types.DeviceStatusOn,
			LastStatusChange:    now.Add(-10 * time.Hour),
			TotalEnergyConsumed: 99,
			UsageHistory:        history,
		}
		off := on
		off.Status = types.DeviceStatusOff

		assert.Equal(t, 3.75, TotalEnergyConsumed(on, now))
		assert.Equal(t, 3.75, TotalEnergyConsumed(off, now))
	})

	t.Run("on device accrues from last status change", func(t *testing.T) {
		d := types.Device{
			Type:             types.DeviceTypeLight,
			Status:           types.DeviceStatusOn,
			PowerConsumption: 100,
			LastStatusChange: now.Add(-2 * time.Hour),
		}
		// 100W * 2h / 1000 = 0.2 kWh
		assert.InDelta(t, 0.2, TotalEnergyConsumed(d, now), 1e-9)
	})

	t.Run("on device without timestamp assumes 24h", func(t *testing.T) {
		d := types.Device{
			Type:             types.DeviceTypeLight,
			Status:           types.DeviceStatusOn,
			PowerConsumption: 100,
		}
		assert.InDelta(t, 2.4, TotalEnergyConsumed(d, now), 1e-9)
	})

	t.Run("future timestamp never yields negative energy", func(t *testing.T) {
		d := types.Device{
			Type:             types.DeviceTypeLight,
			Status:           types.DeviceStatusOn,
			PowerConsumption: 100,
			LastStatusChange: now.Add(time.Hour),
		}
		assert.Equal(t, 0.0, TotalEnergyConsumed(d, now))
	})

	t.Run("off device returns recorded total", func(t *testing.T) {
		d := types.Device{
			Type:                types.DeviceTypePlug,
			Status:              types.DeviceStatusOff,
			TotalEnergyConsumed: 7.5,
		}
		assert.Equal(t, 7.5, TotalEnergyConsumed(d, now))
	})

	t.Run("off device without recorded total returns zero", func(t *testing.T) {
		d := types.Device{Type: types.DeviceTypePlug, Status: types.DeviceStatusOff}
		assert.Equal(t, 0.0, TotalEnergyConsumed(d, now))
	})

	t.Run("idempotent for fixed now", func(t *testing.T) {
		d := types.Device{
			Type:             types.DeviceTypeFan,
			Status:           types.DeviceStatusOn,
			PowerConsumption: 75,
			LastStatusChange: now.Add(-3 * time.Hour),
		}
		first := TotalEnergyConsumed(d, now)
		second := TotalEnergyConsumed(d, now)
		assert.Equal(t, first, second)

		// only increases as wall-clock time advances
		later := TotalEnergyConsumed(d, now.Add(time.Hour))
		assert.Greater(t, later, first)
	})
}
