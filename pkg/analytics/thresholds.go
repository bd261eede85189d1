package analytics

import (
	"github.com/homewatt/homewatt/pkg/types"
)

// Profile holds the static per-device-type constants that govern both the
// power fallback chain and the suggestion trigger conditions.
type Profile struct {
	// DailyUsageHours is the expected hours of use per day.
	DailyUsageHours float64
	// StandbyPower is the draw in watts while off but plugged in.
	StandbyPower float64
	// ActivePower is the typical draw in watts while on.
	ActivePower float64
	// UsageThreshold is the continuous on-time in hours above which usage
	// suggestions start to fire.
	UsageThreshold float64
	// EnergyThreshold is the monthly consumption in kWh above which the
	// high-consumption suggestion fires.
	EnergyThreshold float64

	// Optimal temperature range in Celsius, thermostats only.
	OptimalTempMin float64
	OptimalTempMax float64
	HasOptimalTemp bool

	// BrightnessThreshold (percent) applies to lights, SpeedThreshold (1-5)
	// to fans.
	BrightnessThreshold int
	SpeedThreshold      int
}

// DefaultPowerWatts is the last-resort power draw assumed for a device with
// no configured power and no profile.
const DefaultPowerWatts = 10

// profiles is the fixed threshold table, keyed by device type. It is never
// mutated at runtime.
var profiles = map[types.DeviceType]Profile{
	types.DeviceTypeLight: {
		DailyUsageHours:     6,
		StandbyPower:        0.5,
		ActivePower:         60,
		UsageThreshold:      8,
		EnergyThreshold:     15,
		BrightnessThreshold: 80,
	},
	types.DeviceTypeThermostat: {
		DailyUsageHours: 8,
		StandbyPower:    2,
		ActivePower:     1500,
		UsageThreshold:  10,
		EnergyThreshold: 350,
		OptimalTempMin:  20,
		OptimalTempMax:  24,
		HasOptimalTemp:  true,
	},
	types.DeviceTypeFan: {
		DailyUsageHours: 4,
		StandbyPower:    1,
		ActivePower:     75,
		UsageThreshold:  6,
		EnergyThreshold: 12,
		SpeedThreshold:  3,
	},
	types.DeviceTypeTV: {
		DailyUsageHours: 4,
		StandbyPower:    3,
		ActivePower:     120,
		UsageThreshold:  5,
		EnergyThreshold: 20,
	},
	types.DeviceTypeLock: {
		DailyUsageHours: 24,
		StandbyPower:    0.5,
		ActivePower:     5,
		UsageThreshold:  24,
		EnergyThreshold: 2,
	},
	types.DeviceTypePlug: {
		DailyUsageHours: 8,
		StandbyPower:    1,
		ActivePower:     100,
		UsageThreshold:  12,
		EnergyThreshold: 25,
	},
	types.DeviceTypeCoffeeMaker: {
		DailyUsageHours: 1,
		StandbyPower:    1,
		ActivePower:     900,
		UsageThreshold:  2,
		EnergyThreshold: 10,
	},
	types.DeviceTypeMicrowave: {
		DailyUsageHours: 0.5,
		StandbyPower:    2,
		ActivePower:     1100,
		UsageThreshold:  1,
		EnergyThreshold: 8,
	},
	types.DeviceTypeRefrigerator: {
		DailyUsageHours: 24,
		StandbyPower:    0,
		ActivePower:     150,
		UsageThreshold:  24,
		EnergyThreshold: 110,
	},
	types.DeviceTypeWashingMachine: {
		DailyUsageHours: 1,
		StandbyPower:    1,
		ActivePower:     500,
		UsageThreshold:  3,
		EnergyThreshold: 15,
	},
	types.DeviceTypeSpeaker: {
		DailyUsageHours: 5,
		StandbyPower:    2,
		ActivePower:     30,
		UsageThreshold:  8,
		EnergyThreshold: 6,
	},
	types.DeviceTypeWasher: {
		DailyUsageHours: 1,
		StandbyPower:    1,
		ActivePower:     500,
		UsageThreshold:  3,
		EnergyThreshold: 15,
	},
	types.DeviceTypeDryer: {
		DailyUsageHours: 1,
		StandbyPower:    1,
		ActivePower:     3000,
		UsageThreshold:  3,
		EnergyThreshold: 70,
	},
	types.DeviceTypeDishwasher: {
		DailyUsageHours: 1.5,
		StandbyPower:    1,
		ActivePower:     1300,
		UsageThreshold:  3,
		EnergyThreshold: 30,
	},
	types.DeviceTypeOven: {
		DailyUsageHours: 1,
		StandbyPower:    1,
		ActivePower:     2300,
		UsageThreshold:  2,
		EnergyThreshold: 50,
	},
	types.DeviceTypeComputer: {
		DailyUsageHours: 8,
		StandbyPower:    5,
		ActivePower:     200,
		UsageThreshold:  10,
		EnergyThreshold: 45,
	},
	types.DeviceTypePrinter: {
		DailyUsageHours: 0.5,
		StandbyPower:    4,
		ActivePower:     50,
		UsageThreshold:  2,
		EnergyThreshold: 5,
	},
	types.DeviceTypeRouter: {
		DailyUsageHours: 24,
		StandbyPower:    0,
		ActivePower:     10,
		UsageThreshold:  24,
		EnergyThreshold: 7,
	},
}

// defaultProfile covers device types not in the table so lookups always
// return a usable profile.
var defaultProfile = Profile{
	DailyUsageHours: 6,
	StandbyPower:    1,
	ActivePower:     DefaultPowerWatts,
	UsageThreshold:  8,
	EnergyThreshold: 20,
}

// ProfileFor returns the threshold profile for the given device type,
// falling back to a generic profile for unknown types.
func ProfileFor(t types.DeviceType) Profile {
	if p, ok := profiles[t]; ok {
		return p
	}
	return defaultProfile
}
