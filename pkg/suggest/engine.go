// Package suggest evaluates a heuristic rule set over device state to
// produce ranked, de-duplicated energy-saving suggestions, including
// cross-device pattern detection for automation proposals.
package suggest

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/homewatt/homewatt/pkg/types"
)

// maxSuggestions caps how many suggestions are returned per evaluation.
const maxSuggestions = 5

// defaultOnHours is assumed when an on device has no recorded transition
// timestamp.
const defaultOnHours = 6.0

// Engine evaluates suggestion checks over a device snapshot. It is
// stateless across calls; each Generate works only on its inputs, so a
// single Engine is safe to share between concurrent requests. The rand
// source behind the truncation shuffle is the only shared state and is
// guarded by a mutex.
type Engine struct {
	now func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand

	newID func() string
}

// NewEngine returns an Engine with production defaults: wall clock, a
// freshly seeded random source for the truncation shuffle, and uuid IDs.
func NewEngine() *Engine {
	return &Engine{
		now:   time.Now,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		newID: uuid.NewString,
	}
}

// Generate runs every check against the snapshot and returns the capped
// suggestion list plus the summary flags. An empty device list
// short-circuits: no checks run at all.
func (e *Engine) Generate(devices []types.Device, previous []types.Suggestion) types.SuggestionResult {
	if len(devices) == 0 {
		return types.SuggestionResult{
			Suggestions: []types.Suggestion{},
			NoDevices:   true,
		}
	}

	now := e.now()

	var all []types.Suggestion

	// Per-device checks, in input order. The high-usage check deliberately
	// overlaps the excessive-usage check; both may fire for one device.
	for _, d := range devices {
		if d.On() {
			if s := e.checkHighSettings(d); s != nil {
				all = append(all, *s)
			}
			if s := e.checkExcessiveUsage(d, now); s != nil {
				all = append(all, *s)
			}
			if s := e.checkHighUsage(d, now); s != nil {
				all = append(all, *s)
			}
		}
		if s := e.checkHighConsumption(d, now); s != nil {
			all = append(all, *s)
		}
	}

	// Per-room pattern detection, rooms in first-seen order.
	byRoom := make(map[types.RoomKey][]types.Device)
	var roomOrder []types.RoomKey
	for _, d := range devices {
		key := types.Key(string(d.Room))
		if _, ok := byRoom[key]; !ok {
			roomOrder = append(roomOrder, key)
		}
		byRoom[key] = append(byRoom[key], d)
	}
	for _, key := range roomOrder {
		all = append(all, e.detectPatterns(key, byRoom[key])...)
	}

	// Ranking is intentionally random: when over the cap we shuffle and
	// truncate rather than sorting, so the dashboard rotates through the
	// full pool across refreshes.
	if len(all) > maxSuggestions {
		e.rngMu.Lock()
		e.rng.Shuffle(len(all), func(i, j int) {
			all[i], all[j] = all[j], all[i]
		})
		e.rngMu.Unlock()
		all = all[:maxSuggestions]
	}
	if all == nil {
		all = []types.Suggestion{}
	}

	seen := make(map[string]bool, len(previous))
	for _, p := range previous {
		seen[p.Title] = true
	}
	hasNew := false
	for _, s := range all {
		if !seen[s.Title] {
			hasNew = true
			break
		}
	}

	return types.SuggestionResult{
		Suggestions:          all,
		HasDevices:           true,
		HasActiveSuggestions: len(all) > 0,
		HasNewSuggestions:    hasNew,
	}
}

// hoursOn returns the continuous on-time of the device in hours.
func hoursOn(d types.Device, now time.Time) float64 {
	if d.LastStatusChange.IsZero() {
		return defaultOnHours
	}
	hours := now.Sub(d.LastStatusChange).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}
