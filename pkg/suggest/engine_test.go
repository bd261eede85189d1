package suggest

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/homewatt/homewatt/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedEngine(now time.Time) *Engine {
	e := NewEngine()
	e.now = func() time.Time { return now }
	e.rng = rand.New(rand.NewSource(1))
	var n int
	e.newID = func() string {
		n++
		return fmt.Sprintf("test-%d", n)
	}
	return e
}

func TestGenerateNoDevices(t *testing.T) {
	e := fixedEngine(time.Now())

	for _, devices := range [][]types.Device{nil, {}} {
		res := e.Generate(devices, nil)
		assert.True(t, res.NoDevices)
		assert.False(t, res.HasDevices)
		assert.False(t, res.HasActiveSuggestions)
		assert.False(t, res.HasNewSuggestions)
		assert.Empty(t, res.Suggestions)
	}
}

func TestHighSettingsBrightLight(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)

	// just turned on: high-settings fires, excessive-usage must not
	d := types.Device{
		ID:               "light-1",
		Name:             "Desk Lamp",
		Type:             types.DeviceTypeLight,
		Room:             "Office",
		Status:           types.DeviceStatusOn,
		Brightness:       90,
		PowerConsumption: 60,
		LastStatusChange: now.Add(-time.Second),
	}

	res := e.Generate([]types.Device{d}, nil)
	require.Len(t, res.Suggestions, 1)
	s := res.Suggestions[0]
	assert.Contains(t, s.Title, "brightness")
	assert.Equal(t, types.SuggestionCategorySettings, s.Category)
	assert.Equal(t, "light-1", s.DeviceID)
	assert.NotEmpty(t, s.ID)
	assert.True(t, res.HasDevices)
	assert.True(t, res.HasActiveSuggestions)
}

func TestHighSettingsVariants(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)

	t.Run("fast fan", func(t *testing.T) {
		d := types.Device{
			Name:             "Ceiling Fan",
			Type:             types.DeviceTypeFan,
			Status:           types.DeviceStatusOn,
			Speed:            5,
			LastStatusChange: now.Add(-time.Minute),
		}
		s := e.checkHighSettings(d)
		require.NotNil(t, s)
		assert.Contains(t, s.Title, "fan speed")
	})

	t.Run("fan at threshold does not fire", func(t *testing.T) {
		d := types.Device{
			Type:             types.DeviceTypeFan,
			Status:           types.DeviceStatusOn,
			Speed:            3,
			LastStatusChange: now.Add(-time.Minute),
		}
		assert.Nil(t, e.checkHighSettings(d))
	})

	t.Run("hot thermostat", func(t *testing.T) {
		d := types.Device{
			Name:             "Hallway Thermostat",
			Type:             types.DeviceTypeThermostat,
			Status:           types.DeviceStatusOn,
			Temperature:      27,
			LastStatusChange: now.Add(-time.Minute),
		}
		s := e.checkHighSettings(d)
		require.NotNil(t, s)
		assert.Contains(t, s.Title, "temperature")
	})

	t.Run("thermostat in range does not fire", func(t *testing.T) {
		d := types.Device{
			Type:             types.DeviceTypeThermostat,
			Status:           types.DeviceStatusOn,
			Temperature:      22,
			LastStatusChange: now.Add(-time.Minute),
		}
		assert.Nil(t, e.checkHighSettings(d))
	})
}

func TestUsageChecksOverlap(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)

	// a light on for 12 hours trips both the excessive-usage and the
	// high-usage checks; the overlap is intentional
	d := types.Device{
		ID:               "light-2",
		Name:             "Porch Light",
		Type:             types.DeviceTypeLight,
		Room:             "Porch",
		Status:           types.DeviceStatusOn,
		PowerConsumption: 60,
		LastStatusChange: now.Add(-12 * time.Hour),
	}

	excessive := e.checkExcessiveUsage(d, now)
	high := e.checkHighUsage(d, now)
	require.NotNil(t, excessive)
	require.NotNil(t, high)
	assert.NotEqual(t, excessive.Title, high.Title)
}

func TestExcessiveUsageLightTitles(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)

	withRoom := types.Device{
		Name:             "Porch Light",
		Type:             types.DeviceTypeLight,
		Room:             "Porch",
		Status:           types.DeviceStatusOn,
		LastStatusChange: now.Add(-12 * time.Hour),
	}
	s := e.checkExcessiveUsage(withRoom, now)
	require.NotNil(t, s)
	assert.Equal(t, "Lights on too long in Porch", s.Title)

	// no room: name the device instead of the "unknown" bucket
	withoutRoom := withRoom
	withoutRoom.Room = ""
	s = e.checkExcessiveUsage(withoutRoom, now)
	require.NotNil(t, s)
	assert.Equal(t, "Porch Light on too long", s.Title)
}

func TestExcessiveUsageGates(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)

	t.Run("under usage threshold skips", func(t *testing.T) {
		d := types.Device{
			Type:             types.DeviceTypeLight,
			Status:           types.DeviceStatusOn,
			LastStatusChange: now.Add(-time.Hour),
		}
		assert.Nil(t, e.checkExcessiveUsage(d, now))
	})

	t.Run("missing timestamp assumes six hours", func(t *testing.T) {
		// 6h assumed < 8h threshold for lights, so no suggestion
		d := types.Device{
			Type:   types.DeviceTypeLight,
			Status: types.DeviceStatusOn,
		}
		assert.Nil(t, e.checkExcessiveUsage(d, now))
	})
}

func TestHighConsumptionRunsForOffDevices(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)

	d := types.Device{
		ID:                  "fridge-1",
		Name:                "Fridge",
		Type:                types.DeviceTypeRefrigerator,
		Status:              types.DeviceStatusOff,
		TotalEnergyConsumed: 150, // above the 110 kWh threshold
	}

	res := e.Generate([]types.Device{d}, nil)
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, types.SuggestionCategoryConsumption, res.Suggestions[0].Category)
}

func TestPatternDetection(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)

	recentlyOn := now.Add(-time.Minute)
	devices := []types.Device{
		{ID: "f1", Name: "Fan 1", Type: types.DeviceTypeFan, Room: "Bedroom", Status: types.DeviceStatusOn, Speed: 2, PowerConsumption: 75, LastStatusChange: recentlyOn},
		{ID: "f2", Name: "Fan 2", Type: types.DeviceTypeFan, Room: "Bedroom", Status: types.DeviceStatusOn, Speed: 2, PowerConsumption: 75, LastStatusChange: recentlyOn},
		// other device types in the room don't affect the fan pattern
		{ID: "tv1", Name: "TV", Type: types.DeviceTypeTV, Room: "Bedroom", Status: types.DeviceStatusOff},
		{ID: "l1", Name: "Lamp", Type: types.DeviceTypeLight, Room: "Bedroom", Status: types.DeviceStatusOff},
	}

	res := e.Generate(devices, nil)

	var patterns []types.Suggestion
	for _, s := range res.Suggestions {
		if s.Category == types.SuggestionCategoryAutomation {
			patterns = append(patterns, s)
		}
	}
	require.Len(t, patterns, 1)
	assert.Contains(t, patterns[0].Title, "fan")
	assert.Contains(t, patterns[0].Title, "Bedroom")
}

func TestPatternNeedsTwoOn(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)

	devices := []types.Device{
		{Type: types.DeviceTypeLight, Room: "Hall", Status: types.DeviceStatusOn, LastStatusChange: now.Add(-time.Minute)},
		{Type: types.DeviceTypeLight, Room: "Hall", Status: types.DeviceStatusOff},
	}

	assert.Empty(t, e.detectPatterns("Hall", devices))
}

func TestTruncationCap(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)

	// ten bright lights, each on long enough to produce several suggestions
	var devices []types.Device
	for i := 0; i < 10; i++ {
		devices = append(devices, types.Device{
			ID:               fmt.Sprintf("light-%d", i),
			Name:             fmt.Sprintf("Light %d", i),
			Type:             types.DeviceTypeLight,
			Room:             "Loft",
			Status:           types.DeviceStatusOn,
			Brightness:       95,
			PowerConsumption: 60,
			LastStatusChange: now.Add(-12 * time.Hour),
		})
	}

	res := e.Generate(devices, nil)
	assert.Len(t, res.Suggestions, maxSuggestions)
	assert.True(t, res.HasActiveSuggestions)
}

func TestConcurrentGenerate(t *testing.T) {
	e := NewEngine()
	now := time.Now()

	// enough bright lights that every call goes through the shuffle path
	var devices []types.Device
	for i := 0; i < 10; i++ {
		devices = append(devices, types.Device{
			ID:               fmt.Sprintf("light-%d", i),
			Name:             fmt.Sprintf("Light %d", i),
			Type:             types.DeviceTypeLight,
			Room:             "Loft",
			Status:           types.DeviceStatusOn,
			Brightness:       95,
			PowerConsumption: 60,
			LastStatusChange: now.Add(-12 * time.Hour),
		})
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := e.Generate(devices, nil)
			assert.Len(t, res.Suggestions, maxSuggestions)
		}()
	}
	wg.Wait()
}

func TestHasNewSuggestions(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)

	d := types.Device{
		ID:               "light-1",
		Name:             "Desk Lamp",
		Type:             types.DeviceTypeLight,
		Room:             "Office",
		Status:           types.DeviceStatusOn,
		Brightness:       90,
		PowerConsumption: 60,
		LastStatusChange: now.Add(-time.Second),
	}

	first := e.Generate([]types.Device{d}, nil)
	require.NotEmpty(t, first.Suggestions)
	assert.True(t, first.HasNewSuggestions)

	// same snapshot diffed against the previous batch: nothing new
	second := e.Generate([]types.Device{d}, first.Suggestions)
	assert.False(t, second.HasNewSuggestions)
}
