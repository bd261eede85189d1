package types

import "time"

// DeviceType is the fixed tag that selects a threshold profile and
// suggestion template for a device.
type DeviceType string

const (
	DeviceTypeLight          DeviceType = "light"
	DeviceTypeThermostat     DeviceType = "thermostat"
	DeviceTypeFan            DeviceType = "fan"
	DeviceTypeTV             DeviceType = "tv"
	DeviceTypeLock           DeviceType = "lock"
	DeviceTypePlug           DeviceType = "plug"
	DeviceTypeCoffeeMaker    DeviceType = "coffee_maker"
	DeviceTypeMicrowave      DeviceType = "microwave"
	DeviceTypeRefrigerator   DeviceType = "refrigerator"
	DeviceTypeWashingMachine DeviceType = "washing_machine"
	DeviceTypeSpeaker        DeviceType = "speaker"
	DeviceTypeWasher         DeviceType = "washer"
	DeviceTypeDryer          DeviceType = "dryer"
	DeviceTypeDishwasher     DeviceType = "dishwasher"
	DeviceTypeOven           DeviceType = "oven"
	DeviceTypeComputer       DeviceType = "computer"
	DeviceTypePrinter        DeviceType = "printer"
	DeviceTypeRouter         DeviceType = "router"
)

// DeviceStatus is the on/off state of a device.
type DeviceStatus string

const (
	DeviceStatusOn  DeviceStatus = "on"
	DeviceStatusOff DeviceStatus = "off"
)

// RoomKey associates a device with a room by name. The source system
// matches rooms to devices by exact case-sensitive string equality rather
// than by id, so this stays a value type with string equality and not a
// foreign key.
type RoomKey string

// RoomKeyUnknown buckets devices whose room name is empty.
const RoomKeyUnknown RoomKey = "unknown"

// Key normalizes a raw room name into a RoomKey.
func Key(name string) RoomKey {
	if name == "" {
		return RoomKeyUnknown
	}
	return RoomKey(name)
}

// UsageRecord is a single completed usage interval for a device. When a
// device has usage history, it is authoritative for total-consumption
// queries.
type UsageRecord struct {
	Timestamp        time.Time     `json:"timestamp"`
	Duration         time.Duration `json:"duration"`
	PowerConsumption float64       `json:"powerConsumption"` // watts
	EnergyConsumed   float64       `json:"energyConsumed"`   // kWh
}

// Device represents a smart-home device snapshot. The engine reads these;
// TotalEnergyConsumed is owned by the event feed and only ever read (or
// ephemerally estimated) by the analytics code.
type Device struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Type   DeviceType   `json:"type"`
	Room   RoomKey      `json:"room"`
	Status DeviceStatus `json:"status"`

	// LastStatusChange is the most recent on/off transition. When Status is
	// "on" this must be a past timestamp.
	LastStatusChange time.Time `json:"lastStatusChange"`

	// PowerConsumption is the instantaneous draw in watts while on.
	PowerConsumption float64 `json:"powerConsumption"`

	// TotalEnergyConsumed is cumulative kWh, monotonically non-decreasing,
	// updated on off-transitions by the event feed.
	TotalEnergyConsumed float64 `json:"totalEnergyConsumed"`

	// Type-specific settings
	Brightness  int     `json:"brightness,omitempty"`  // 0-100, lights
	Temperature float64 `json:"temperature,omitempty"` // Celsius, thermostats
	Speed       int     `json:"speed,omitempty"`       // 1-5, fans

	UsageHistory []UsageRecord `json:"usageHistory,omitempty"`
}

// On reports whether the device is currently on.
func (d Device) On() bool {
	return d.Status == DeviceStatusOn
}

// DisplayName returns the device name, defaulting when missing.
func (d Device) DisplayName() string {
	if d.Name == "" {
		return "Unknown Device"
	}
	return d.Name
}

// Room represents a room in the home. Devices reference rooms by name, not
// by ID.
type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}
