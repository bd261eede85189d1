package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/homewatt/homewatt/pkg/types"
	"github.com/levenlabs/go-lflag"
)

const (
	// DefaultEnergyRate is the monetary rate in currency units per kWh.
	DefaultEnergyRate = 0.45
	// DefaultCO2Factor is the emission factor in kg CO2 per kWh.
	DefaultCO2Factor = 0.5

	// savingsHeuristic is the fixed estimated-savings fraction. It is an
	// explicit placeholder in the source system, not a historical
	// comparison.
	savingsHeuristic = 0.10
)

// Aggregator computes time-bucketed usage series and per-dimension totals
// over a device snapshot. It performs no I/O and is safe to invoke
// concurrently with independent snapshots.
type Aggregator struct {
	// EnergyRate is the cost per kWh used for the total cost estimate.
	EnergyRate float64
	// CO2Factor is the kg of CO2 attributed per kWh.
	CO2Factor float64

	now func() time.Time
}

// NewAggregator returns an Aggregator with the documented default rate and
// CO2 factor.
func NewAggregator() *Aggregator {
	return &Aggregator{
		EnergyRate: DefaultEnergyRate,
		CO2Factor:  DefaultCO2Factor,
		now:        time.Now,
	}
}

// Configured returns an Aggregator whose rate constants can be overridden
// via flags without code changes.
func Configured() *Aggregator {
	a := NewAggregator()
	rate := lflag.String("energy-rate", strconv.FormatFloat(DefaultEnergyRate, 'f', -1, 64), "Energy cost in currency units per kWh")
	co2 := lflag.String("co2-factor", strconv.FormatFloat(DefaultCO2Factor, 'f', -1, 64), "CO2 emission factor in kg per kWh")
	lflag.Do(func() {
		var err error
		if a.EnergyRate, err = strconv.ParseFloat(*rate, 64); err != nil {
			panic(fmt.Sprintf("invalid energy-rate: %v", err))
		}
		if a.CO2Factor, err = strconv.ParseFloat(*co2, 64); err != nil {
			panic(fmt.Sprintf("invalid co2-factor: %v", err))
		}
	})
	return a
}

// window returns the start of the lookback window for the time range.
func window(r types.TimeRange, now time.Time) time.Time {
	switch r {
	case types.TimeRangeDay:
		return now.Add(-24 * time.Hour)
	case types.TimeRangeWeek:
		return now.AddDate(0, 0, -7)
	case types.TimeRangeMonth:
		return now.AddDate(0, -1, 0)
	case types.TimeRangeYear:
		return now.AddDate(-1, 0, 0)
	default:
		// unknown ranges behave like a week rather than erroring
		return now.AddDate(0, 0, -7)
	}
}

// bucketInterval returns the width of each series bucket for the range.
func bucketInterval(r types.TimeRange) time.Duration {
	switch r {
	case types.TimeRangeDay:
		return time.Hour
	case types.TimeRangeYear:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Aggregate produces the usage series, per-type and per-room totals, cost
// and savings estimates for the requested window. It never fails: missing
// fields are defaulted and malformed devices contribute zero.
func (a *Aggregator) Aggregate(devices []types.Device, rooms []types.Room, timeRange types.TimeRange) types.AggregationResult {
	now := a.now()
	start := window(timeRange, now)
	interval := bucketInterval(timeRange)

	// The series always spans the full window so charts have a baseline
	// even when every device is off.
	var series []types.EnergyPoint
	for ts := start; ts.Before(now); ts = ts.Add(interval) {
		series = append(series, types.EnergyPoint{Timestamp: ts})
	}

	// Rooms are matched by exact name. With a room list present, device
	// room names that match no entry fall into the "unknown" bucket; with
	// no list the device names are taken as-is.
	known := make(map[types.RoomKey]bool, len(rooms))
	for _, r := range rooms {
		known[types.Key(r.Name)] = true
	}
	resolveRoom := func(name string) types.RoomKey {
		key := types.Key(name)
		if len(known) == 0 || known[key] {
			return key
		}
		return types.RoomKeyUnknown
	}

	var total float64
	perType := make(map[types.DeviceType]float64)
	perRoom := make(map[types.RoomKey]float64)

	for _, d := range devices {
		energy := a.deviceEnergyInWindow(d, start, now)

		total += energy
		perType[d.Type] += energy
		perRoom[resolveRoom(string(d.Room))] += energy

		// Only devices that are on and inside the window contribute to the
		// series; off devices' recorded totals have no timestamps to place.
		if !d.On() || d.LastStatusChange.IsZero() {
			continue
		}
		power := DevicePower(d)
		if power <= 0 {
			continue
		}
		effectiveStart := d.LastStatusChange
		if effectiveStart.Before(start) {
			effectiveStart = start
		}
		perBucket := power * interval.Hours() / 1000
		for i := range series {
			if !series[i].Timestamp.Before(effectiveStart) {
				series[i].Value += perBucket
			}
		}
	}

	typeData := make([]types.DeviceTypeUsage, 0, len(perType))
	for t, c := range perType {
		if c <= 0 {
			continue
		}
		typeData = append(typeData, types.DeviceTypeUsage{
			Type:        t,
			Consumption: c,
			Percentage:  percentage(c, total),
		})
	}
	sort.Slice(typeData, func(i, j int) bool {
		if typeData[i].Consumption != typeData[j].Consumption {
			return typeData[i].Consumption > typeData[j].Consumption
		}
		return typeData[i].Type < typeData[j].Type
	})

	roomData := make([]types.RoomUsage, 0, len(perRoom))
	for k, c := range perRoom {
		if c <= 0 {
			continue
		}
		roomData = append(roomData, types.RoomUsage{
			Name:        string(k),
			Consumption: c,
			Percentage:  percentage(c, total),
		})
	}
	sort.Slice(roomData, func(i, j int) bool {
		if roomData[i].Consumption != roomData[j].Consumption {
			return roomData[i].Consumption > roomData[j].Consumption
		}
		return roomData[i].Name < roomData[j].Name
	})

	mostActive := types.MostActiveRoom{Name: "None"}
	if len(roomData) > 0 {
		mostActive = types.MostActiveRoom{
			Name:        roomData[0].Name,
			Consumption: roomData[0].Consumption,
		}
	}

	var savings float64
	if total > 0 {
		savings = total * savingsHeuristic
	}

	if series == nil {
		series = []types.EnergyPoint{}
	}

	return types.AggregationResult{
		EnergyData:          series,
		DeviceTypeData:      typeData,
		RoomData:            roomData,
		TotalEnergyConsumed: total,
		TotalCost:           total * a.EnergyRate,
		TotalCO2:            total * a.CO2Factor,
		MostActiveRoom:      mostActive,
		EnergySavings:       savings,
	}
}

// deviceEnergyInWindow returns the kWh attributed to the device inside
// [start, now]. An on device accrues only the portion of its interval that
// overlaps the window; an off device's recorded total is treated as already
// representative of the window (a known simplification).
func (a *Aggregator) deviceEnergyInWindow(d types.Device, start, now time.Time) float64 {
	power := DevicePower(d)
	if d.On() && !d.LastStatusChange.IsZero() && power > 0 {
		effectiveStart := d.LastStatusChange
		if effectiveStart.Before(start) {
			effectiveStart = start
		}
		hours := now.Sub(effectiveStart).Hours()
		if hours < 0 {
			return 0
		}
		return power * hours / 1000
	}
	if d.TotalEnergyConsumed > 0 {
		return d.TotalEnergyConsumed
	}
	return 0
}

func percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
