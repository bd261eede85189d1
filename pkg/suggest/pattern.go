package suggest

import (
	"fmt"

	"github.com/homewatt/homewatt/pkg/analytics"
	"github.com/homewatt/homewatt/pkg/types"
)

// patternTypes are the device types eligible for cross-device automation
// proposals. Checked in this fixed order so output is stable per room.
var patternTypes = []types.DeviceType{
	types.DeviceTypeLight,
	types.DeviceTypeThermostat,
	types.DeviceTypeFan,
}

// assumedAutomationHours is how many hours per day we assume an automation
// would reclaim.
const assumedAutomationHours = 2.0

// detectPatterns emits at most one automation suggestion per room/type
// combination: when a room has two or more devices of the same eligible
// type and at least two of them are simultaneously on, grouping them under
// a single automation is worth proposing.
func (e *Engine) detectPatterns(room types.RoomKey, devices []types.Device) []types.Suggestion {
	byType := make(map[types.DeviceType][]types.Device)
	for _, d := range devices {
		byType[d.Type] = append(byType[d.Type], d)
	}

	var out []types.Suggestion
	for _, t := range patternTypes {
		group := byType[t]
		if len(group) < 2 {
			continue
		}
		var combinedWatts float64
		onCount := 0
		for _, d := range group {
			if d.On() {
				onCount++
				combinedWatts += analytics.DevicePower(d)
			}
		}
		if onCount < 2 {
			continue
		}

		saving := combinedWatts * assumedAutomationHours * monthDays / 1000

		s := e.newSuggestion(
			fmt.Sprintf("Automate %ss in %s", string(t), string(room)),
			fmt.Sprintf("%d %ss are on at the same time in %s. A single automation could control them together.", onCount, string(t), string(room)),
			"automation", "purple", saving,
			"Create automation",
			types.SuggestionCategoryAutomation,
			"",
		)
		s.Details = []string{
			fmt.Sprintf("%d of %d %ss currently on", onCount, len(group), string(t)),
			fmt.Sprintf("Combined draw: %.0f W", combinedWatts),
		}
		out = append(out, *s)
	}
	return out
}
