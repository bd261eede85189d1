package types

import "time"

// TimeRange is the caller-selected aggregation window. It controls both the
// lookback window and the bucket width of the output series.
type TimeRange string

const (
	TimeRangeDay   TimeRange = "day"
	TimeRangeWeek  TimeRange = "week"
	TimeRangeMonth TimeRange = "month"
	TimeRangeYear  TimeRange = "year"
)

// Valid reports whether the time range is one of the supported values.
func (r TimeRange) Valid() bool {
	switch r {
	case TimeRangeDay, TimeRangeWeek, TimeRangeMonth, TimeRangeYear:
		return true
	}
	return false
}

// EnergyPoint is a single bucket of the time series.
type EnergyPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"` // kWh
}

// DeviceTypeUsage is the per-device-type share of total consumption.
type DeviceTypeUsage struct {
	Type        DeviceType `json:"type"`
	Consumption float64    `json:"consumption"` // kWh
	Percentage  float64    `json:"percentage"`
}

// RoomUsage is the per-room share of total consumption.
type RoomUsage struct {
	Name        string  `json:"name"`
	Consumption float64 `json:"consumption"` // kWh
	Percentage  float64 `json:"percentage"`
}

// MostActiveRoom is the room with the highest consumption over the window.
type MostActiveRoom struct {
	Name        string  `json:"name"`
	Consumption float64 `json:"consumption"` // kWh
}

// AggregationResult is the response type for the analytics endpoint. On
// total failure to obtain input data, callers substitute the all-zero shape
// rather than erroring out to the UI.
type AggregationResult struct {
	EnergyData          []EnergyPoint     `json:"energyData"`
	DeviceTypeData      []DeviceTypeUsage `json:"deviceTypeData"`
	RoomData            []RoomUsage       `json:"roomData"`
	TotalEnergyConsumed float64           `json:"totalEnergyConsumed"` // kWh
	TotalCost           float64           `json:"totalCost"`
	TotalCO2            float64           `json:"totalCO2"` // kg
	MostActiveRoom      MostActiveRoom    `json:"mostActiveRoom"`
	EnergySavings       float64           `json:"energySavings"` // kWh
}

// ZeroAggregationResult returns the explicit empty result callers present
// when the data source is unreachable: zero totals, empty arrays, never
// fabricated consumption.
func ZeroAggregationResult() AggregationResult {
	return AggregationResult{
		EnergyData:     []EnergyPoint{},
		DeviceTypeData: []DeviceTypeUsage{},
		RoomData:       []RoomUsage{},
		MostActiveRoom: MostActiveRoom{Name: "None"},
	}
}
