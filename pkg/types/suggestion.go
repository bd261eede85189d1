package types

// SuggestionCategory groups suggestions for the dashboard filter chips.
type SuggestionCategory string

const (
	SuggestionCategorySettings    SuggestionCategory = "settings"
	SuggestionCategoryUsage       SuggestionCategory = "usage"
	SuggestionCategoryConsumption SuggestionCategory = "consumption"
	SuggestionCategoryAutomation  SuggestionCategory = "automation"
)

// Suggestion is a single energy-saving recommendation. Suggestions are
// created fresh on every evaluation and never persisted by the engine;
// callers may retain a previous batch to diff against.
type Suggestion struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Icon        string             `json:"icon"`
	IconColor   string             `json:"iconColor"`
	Saving      string             `json:"saving"` // e.g. "12.4 kWh/month"
	Impact      string             `json:"impact"`
	Action      string             `json:"action"`
	Category    SuggestionCategory `json:"category"`
	Details     []string           `json:"details,omitempty"`
	DeviceID    string             `json:"deviceID,omitempty"`
}

// SuggestionResult is the response type for the suggestions endpoint.
type SuggestionResult struct {
	Suggestions          []Suggestion `json:"suggestions"`
	HasDevices           bool         `json:"hasDevices"`
	HasActiveSuggestions bool         `json:"hasActiveSuggestions"`
	HasNewSuggestions    bool         `json:"hasNewSuggestions"`
	NoDevices            bool         `json:"noDevices"`
}
