package suggest

import (
	"fmt"
	"math"
	"time"

	"github.com/homewatt/homewatt/pkg/analytics"
	"github.com/homewatt/homewatt/pkg/types"
)

// monthDays converts a per-day figure into the monthly savings estimate the
// dashboard displays.
const monthDays = 30

// checkHighSettings fires when a device is running at a higher setting than
// it needs: bright lights, fast fans, hot thermostats. A device has exactly
// one type, so at most one variant fires.
func (e *Engine) checkHighSettings(d types.Device) *types.Suggestion {
	p := analytics.ProfileFor(d.Type)

	switch d.Type {
	case types.DeviceTypeLight:
		if p.BrightnessThreshold <= 0 || d.Brightness <= p.BrightnessThreshold {
			return nil
		}
		saving := p.ActivePower * 0.2 * p.DailyUsageHours * monthDays / 1000
		s := e.newSuggestion(
			fmt.Sprintf("Reduce brightness on %s", d.DisplayName()),
			fmt.Sprintf("%s is at %d%% brightness. Dimming to %d%% saves energy with little visible difference.", d.DisplayName(), d.Brightness, p.BrightnessThreshold),
			"lightbulb", "amber", saving,
			"Reduce brightness",
			types.SuggestionCategorySettings,
			d.ID,
		)
		s.Details = []string{
			fmt.Sprintf("Current brightness: %d%%", d.Brightness),
			fmt.Sprintf("Suggested brightness: %d%%", p.BrightnessThreshold),
		}
		return s

	case types.DeviceTypeFan:
		if p.SpeedThreshold <= 0 || d.Speed <= p.SpeedThreshold {
			return nil
		}
		saving := p.ActivePower * 0.15 * p.DailyUsageHours * monthDays / 1000
		s := e.newSuggestion(
			fmt.Sprintf("Lower fan speed on %s", d.DisplayName()),
			fmt.Sprintf("%s is running at speed %d of 5. Speed %d keeps the air moving for less power.", d.DisplayName(), d.Speed, p.SpeedThreshold),
			"fan", "blue", saving,
			"Lower speed",
			types.SuggestionCategorySettings,
			d.ID,
		)
		s.Details = []string{
			fmt.Sprintf("Current speed: %d", d.Speed),
			fmt.Sprintf("Suggested speed: %d", p.SpeedThreshold),
		}
		return s

	case types.DeviceTypeThermostat:
		if !p.HasOptimalTemp || d.Temperature <= p.OptimalTempMax {
			return nil
		}
		overBy := d.Temperature - p.OptimalTempMax
		saving := p.ActivePower * 0.1 * overBy * p.DailyUsageHours * monthDays / 1000
		s := e.newSuggestion(
			fmt.Sprintf("Adjust temperature on %s", d.DisplayName()),
			fmt.Sprintf("%s is set to %.1f°C, above the optimal range of %.0f-%.0f°C. Each degree matters.", d.DisplayName(), d.Temperature, p.OptimalTempMin, p.OptimalTempMax),
			"thermostat", "red", saving,
			"Adjust temperature",
			types.SuggestionCategorySettings,
			d.ID,
		)
		s.Details = []string{
			fmt.Sprintf("Current setting: %.1f°C", d.Temperature),
			fmt.Sprintf("Optimal range: %.0f-%.0f°C", p.OptimalTempMin, p.OptimalTempMax),
		}
		return s
	}

	return nil
}

// checkExcessiveUsage fires when a device has been on well past its
// expected daily usage. The copy varies by type; the percent-over gate
// keeps marginal overruns quiet.
func (e *Engine) checkExcessiveUsage(d types.Device, now time.Time) *types.Suggestion {
	p := analytics.ProfileFor(d.Type)
	hours := hoursOn(d, now)
	if hours < p.UsageThreshold {
		return nil
	}
	if p.DailyUsageHours <= 0 {
		return nil
	}
	percentOver := math.Round((hours/p.DailyUsageHours - 1) * 100)
	if percentOver < 10 {
		return nil
	}

	saving := (hours - p.DailyUsageHours) * analytics.DevicePower(d) * monthDays / 1000

	var title, desc string
	switch d.Type {
	case types.DeviceTypeLight:
		if d.Room != "" {
			title = fmt.Sprintf("Lights on too long in %s", string(d.Room))
		} else {
			title = fmt.Sprintf("%s on too long", d.DisplayName())
		}
		desc = fmt.Sprintf("%s has been on for %.1f hours, %.0f%% over its typical daily use. Turn it off when leaving the room.", d.DisplayName(), hours, percentOver)
	case types.DeviceTypeThermostat:
		title = fmt.Sprintf("%s running continuously", d.DisplayName())
		desc = fmt.Sprintf("%s has been heating or cooling for %.1f hours straight. A schedule would cut %.0f%% of the overrun.", d.DisplayName(), hours, percentOver)
	case types.DeviceTypeTV:
		title = fmt.Sprintf("%s left on", d.DisplayName())
		desc = fmt.Sprintf("%s has been on for %.1f hours. If nobody is watching, switch it off.", d.DisplayName(), hours)
	case types.DeviceTypeFan:
		title = fmt.Sprintf("%s running longer than needed", d.DisplayName())
		desc = fmt.Sprintf("%s has been spinning for %.1f hours, %.0f%% over its typical daily use.", d.DisplayName(), hours, percentOver)
	default:
		title = fmt.Sprintf("Excessive usage on %s", d.DisplayName())
		desc = fmt.Sprintf("%s has been on for %.1f hours, %.0f%% over its typical daily use of %.1f hours.", d.DisplayName(), hours, percentOver, p.DailyUsageHours)
	}

	s := e.newSuggestion(title, desc, "schedule", "orange", saving,
		"Turn off", types.SuggestionCategoryUsage, d.ID)
	s.Details = []string{
		fmt.Sprintf("On for %.1f hours", hours),
		fmt.Sprintf("Typical daily use: %.1f hours", p.DailyUsageHours),
	}
	return s
}

// checkHighUsage is a looser variant of checkExcessiveUsage gated only by
// the usage threshold. The overlap is intentional: both can fire for the
// same device.
func (e *Engine) checkHighUsage(d types.Device, now time.Time) *types.Suggestion {
	p := analytics.ProfileFor(d.Type)
	hours := hoursOn(d, now)
	if hours < p.UsageThreshold {
		return nil
	}

	saving := analytics.DevicePower(d) * p.DailyUsageHours * 0.15 * monthDays / 1000

	s := e.newSuggestion(
		fmt.Sprintf("High usage detected on %s", d.DisplayName()),
		fmt.Sprintf("%s has been on for %.1f hours. Consider turning it off when not in use.", d.DisplayName(), hours),
		"bolt", "yellow", saving,
		"Review usage",
		types.SuggestionCategoryUsage,
		d.ID,
	)
	s.Details = []string{fmt.Sprintf("On for %.1f hours", hours)}
	return s
}

// checkHighConsumption compares cumulative consumption against the type's
// monthly threshold. It runs regardless of the device's current status.
func (e *Engine) checkHighConsumption(d types.Device, now time.Time) *types.Suggestion {
	p := analytics.ProfileFor(d.Type)
	if p.EnergyThreshold <= 0 {
		return nil
	}
	consumed := analytics.TotalEnergyConsumed(d, now)
	if consumed <= p.EnergyThreshold {
		return nil
	}

	saving := consumed * 0.2

	s := e.newSuggestion(
		fmt.Sprintf("%s is a top energy consumer", d.DisplayName()),
		fmt.Sprintf("%s has consumed %.1f kWh, above the %.0f kWh expected for a %s this month.", d.DisplayName(), consumed, p.EnergyThreshold, string(d.Type)),
		"chart", "red", saving,
		"Review device",
		types.SuggestionCategoryConsumption,
		d.ID,
	)
	s.Details = []string{
		fmt.Sprintf("Consumed: %.1f kWh", consumed),
		fmt.Sprintf("Expected: %.0f kWh/month", p.EnergyThreshold),
	}
	return s
}

// newSuggestion fills the shared suggestion fields, deriving the impact
// label from the size of the saving.
func (e *Engine) newSuggestion(title, desc, icon, color string, savingKWH float64, action string, category types.SuggestionCategory, deviceID string) *types.Suggestion {
	impact := "Low"
	if savingKWH >= 20 {
		impact = "High"
	} else if savingKWH >= 5 {
		impact = "Medium"
	}
	return &types.Suggestion{
		ID:          e.newID(),
		Title:       title,
		Description: desc,
		Icon:        icon,
		IconColor:   color,
		Saving:      fmt.Sprintf("%.1f kWh/month", savingKWH),
		Impact:      impact,
		Action:      action,
		Category:    category,
		DeviceID:    deviceID,
	}
}
