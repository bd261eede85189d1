package analytics

import (
	"time"

	"github.com/homewatt/homewatt/pkg/types"
)

// lastChangeFallback is how far back we assume a device turned on when it is
// on but has no recorded transition timestamp.
const lastChangeFallback = 24 * time.Hour

// DevicePower returns the instantaneous draw of the device in watts. It
// prefers the device's configured power, then the profile's active power,
// then a small default. There is no error path.
func DevicePower(d types.Device) float64 {
	if d.PowerConsumption > 0 {
		return d.PowerConsumption
	}
	if p := ProfileFor(d.Type); p.ActivePower > 0 {
		return p.ActivePower
	}
	return DefaultPowerWatts
}

// TotalEnergyConsumed returns the cumulative energy for the device in kWh
// as of now.
//
// When usage history is present it is authoritative and summed. Otherwise a
// device that is on accrues an estimate for the current interval; the
// estimate is never written back into the device. A device that is off
// reports its recorded total.
func TotalEnergyConsumed(d types.Device, now time.Time) float64 {
	if len(d.UsageHistory) > 0 {
		var total float64
		for _, rec := range d.UsageHistory {
			total += rec.EnergyConsumed
		}
		return total
	}

	if d.On() {
		return DevicePower(d) * hoursSince(d.LastStatusChange, now) / 1000
	}

	return d.TotalEnergyConsumed
}

// hoursSince returns the elapsed hours from t to now, assuming the fallback
// window when t is missing, and never returning a negative value.
func hoursSince(t, now time.Time) float64 {
	if t.IsZero() {
		t = now.Add(-lastChangeFallback)
	}
	hours := now.Sub(t).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}
