package server

import (
	"log/slog"
	"net/http"

	"github.com/homewatt/homewatt/pkg/log"
	"github.com/homewatt/homewatt/pkg/types"
)

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	timeRange := types.TimeRange(r.URL.Query().Get("range"))
	if timeRange == "" {
		timeRange = types.TimeRangeWeek
	}
	if !timeRange.Valid() {
		writeJSONError(w, "invalid range: must be day, week, month or year", http.StatusBadRequest)
		return
	}

	devices, err := s.storage.GetDevices(ctx)
	if err != nil {
		// present an explicit all-zero result rather than fabricating (or
		// erroring out to) the dashboard
		log.Ctx(ctx).ErrorContext(ctx, "failed to get devices", slog.Any("error", err))
		writeJSON(w, types.ZeroAggregationResult())
		return
	}

	rooms, err := s.storage.GetRooms(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get rooms", slog.Any("error", err))
		writeJSON(w, types.ZeroAggregationResult())
		return
	}

	writeJSON(w, s.aggregator.Aggregate(devices, rooms, timeRange))
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	devices, err := s.storage.GetDevices(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get devices", slog.Any("error", err))
		writeJSONError(w, "failed to get devices", http.StatusInternalServerError)
		return
	}
	if devices == nil {
		devices = []types.Device{}
	}
	writeJSON(w, devices)
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rooms, err := s.storage.GetRooms(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get rooms", slog.Any("error", err))
		writeJSONError(w, "failed to get rooms", http.StatusInternalServerError)
		return
	}
	if rooms == nil {
		rooms = []types.Room{}
	}
	writeJSON(w, rooms)
}
