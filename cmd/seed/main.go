package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/homewatt/homewatt/pkg/analytics"
	"github.com/homewatt/homewatt/pkg/log"
	"github.com/homewatt/homewatt/pkg/storage"
	"github.com/homewatt/homewatt/pkg/types"
	"github.com/levenlabs/go-lflag"
)

// seed populates the firestore emulator with a plausible household: rooms,
// devices in various states, and a week of hourly usage history so the
// dashboard has something to chart on first load.
func main() {
	os.Setenv("FIRESTORE_EMULATOR_HOST", "127.0.0.1:8087")
	s := storage.Configured()
	lflag.Configure()

	ctx := context.Background()

	log.Ctx(ctx).InfoContext(ctx, "seeding mock data")

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	rooms := []types.Room{
		{ID: "living-room", Name: "Living Room", Type: "living"},
		{ID: "kitchen", Name: "Kitchen", Type: "kitchen"},
		{ID: "bedroom", Name: "Bedroom", Type: "bedroom"},
		{ID: "office", Name: "Office", Type: "office"},
	}
	for _, r := range rooms {
		if err := s.UpsertRoom(ctx, r); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to seed room", "error", err, "room", r.ID)
			os.Exit(1)
		}
	}

	devices := []types.Device{
		{
			ID: "living-light", Name: "Ceiling Light", Type: types.DeviceTypeLight,
			Room: "Living Room", Status: types.DeviceStatusOn,
			LastStatusChange: now.Add(-3 * time.Hour),
			PowerConsumption: 60, Brightness: 95,
		},
		{
			ID: "living-tv", Name: "Television", Type: types.DeviceTypeTV,
			Room: "Living Room", Status: types.DeviceStatusOff,
			LastStatusChange: now.Add(-1 * time.Hour),
			PowerConsumption: 120,
		},
		{
			ID: "hall-thermostat", Name: "Thermostat", Type: types.DeviceTypeThermostat,
			Room: "Living Room", Status: types.DeviceStatusOn,
			LastStatusChange: now.Add(-12 * time.Hour),
			Temperature:      26,
		},
		{
			ID: "kitchen-fridge", Name: "Refrigerator", Type: types.DeviceTypeRefrigerator,
			Room: "Kitchen", Status: types.DeviceStatusOn,
			LastStatusChange: now.Add(-30 * 24 * time.Hour),
			PowerConsumption: 150,
		},
		{
			ID: "kitchen-coffee", Name: "Coffee Maker", Type: types.DeviceTypeCoffeeMaker,
			Room: "Kitchen", Status: types.DeviceStatusOff,
			LastStatusChange: now.Add(-20 * time.Hour),
			PowerConsumption: 900,
		},
		{
			ID: "bedroom-fan", Name: "Ceiling Fan", Type: types.DeviceTypeFan,
			Room: "Bedroom", Status: types.DeviceStatusOn,
			LastStatusChange: now.Add(-6 * time.Hour),
			PowerConsumption: 75, Speed: 4,
		},
		{
			ID: "bedroom-lamp", Name: "Bedside Lamp", Type: types.DeviceTypeLight,
			Room: "Bedroom", Status: types.DeviceStatusOn,
			LastStatusChange: now.Add(-2 * time.Hour),
			PowerConsumption: 40, Brightness: 60,
		},
		{
			ID: "office-computer", Name: "Workstation", Type: types.DeviceTypeComputer,
			Room: "Office", Status: types.DeviceStatusOn,
			LastStatusChange: now.Add(-9 * time.Hour),
			PowerConsumption: 200,
		},
	}

	weekStart := now.AddDate(0, 0, -7)
	for i := range devices {
		d := &devices[i]
		history, total := simulateHistory(rng, d, weekStart, now)
		d.UsageHistory = history
		d.TotalEnergyConsumed = total
		if err := s.UpsertDevice(ctx, *d); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to seed device", "error", err, "device", d.ID)
			os.Exit(1)
		}
	}

	log.Ctx(ctx).InfoContext(ctx, "seeded mock data",
		"rooms", len(rooms), "devices", len(devices))
}

// simulateHistory walks hour-by-hour over the window and records a usage
// interval whenever the device would plausibly have been on for that hour.
// It returns the records plus the summed energy.
func simulateHistory(rng *rand.Rand, d *types.Device, start, end time.Time) ([]types.UsageRecord, float64) {
	power := analytics.DevicePower(*d)
	var records []types.UsageRecord
	var total float64
	for t := start; t.Before(end); t = t.Add(time.Hour) {
		if !onDuringHour(rng, d.Type, t.Hour()) {
			continue
		}
		// jitter the duration so hours aren't uniformly full
		duration := time.Duration(float64(time.Hour) * (0.5 + rng.Float64()*0.5))
		energy := power * duration.Hours() / 1000
		records = append(records, types.UsageRecord{
			Timestamp:        t,
			Duration:         duration,
			PowerConsumption: power,
			EnergyConsumed:   energy,
		})
		total += energy
	}
	return records, total
}

// onDuringHour is a rough daily-rhythm model per device type.
func onDuringHour(rng *rand.Rand, t types.DeviceType, hour int) bool {
	switch t {
	case types.DeviceTypeRefrigerator:
		// compressor duty cycle, roughly half the time
		return rng.Float64() < 0.5
	case types.DeviceTypeThermostat:
		return rng.Float64() < 0.4
	case types.DeviceTypeCoffeeMaker:
		return hour >= 6 && hour < 9 && rng.Float64() < 0.6
	case types.DeviceTypeLight:
		return (hour >= 18 || hour < 1) && rng.Float64() < 0.8
	case types.DeviceTypeTV:
		return hour >= 19 && hour < 23 && rng.Float64() < 0.7
	case types.DeviceTypeFan:
		return hour >= 21 || hour < 5
	case types.DeviceTypeComputer:
		return hour >= 9 && hour < 18 && rng.Float64() < 0.9
	default:
		return rng.Float64() < 0.2
	}
}
