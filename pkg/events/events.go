// Package events consumes device state-transition events and settles
// energy accounting on off-transitions. It is the single writer of
// TotalEnergyConsumed and UsageHistory; the analytics engine only ever
// reads them.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/homewatt/homewatt/pkg/analytics"
	"github.com/homewatt/homewatt/pkg/log"
	"github.com/homewatt/homewatt/pkg/storage"
	"github.com/homewatt/homewatt/pkg/types"
	"github.com/levenlabs/go-lflag"
	"github.com/segmentio/kafka-go"
)

// StateEvent is a single on/off transition reported for a device.
type StateEvent struct {
	EventID          string             `json:"eventID,omitempty"`
	DeviceID         string             `json:"deviceID"`
	Status           types.DeviceStatus `json:"status"`
	PowerConsumption float64            `json:"powerConsumption,omitempty"` // watts
	Timestamp        time.Time          `json:"timestamp"`
}

// messageFetcher captures the read capability of the Kafka reader so tests
// can substitute their own.
type messageFetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Feed streams device state transitions from Kafka and applies them to the
// device store.
type Feed struct {
	storage storage.Database
	fetcher messageFetcher
	reader  *kafka.Reader

	brokers []string
	topic   string
	groupID string
	poll    time.Duration

	now func() time.Time
}

// Configured sets up the event feed based on flags. The feed is disabled
// (Enabled returns false) when no brokers are configured.
func Configured(db storage.Database) *Feed {
	brokers := lflag.String("kafka-brokers", "", "comma-delimited Kafka bootstrap brokers for the device state feed (empty disables the feed)")
	topic := lflag.String("kafka-state-topic", "device-state", "Kafka topic carrying device state transitions")
	groupID := lflag.String("kafka-group-id", "homewatt-analytics", "Kafka consumer group for the device state feed")
	poll := lflag.Duration("kafka-poll-timeout", 5*time.Second, "Duration to wait for Kafka messages per fetch")

	f := &Feed{
		storage: db,
		now:     time.Now,
	}

	lflag.Do(func() {
		if *brokers != "" {
			for _, b := range strings.Split(*brokers, ",") {
				f.brokers = append(f.brokers, strings.TrimSpace(b))
			}
		}
		f.topic = *topic
		f.groupID = *groupID
		f.poll = *poll
	})

	return f
}

// Enabled reports whether the feed has brokers to consume from.
func (f *Feed) Enabled() bool {
	return len(f.brokers) > 0
}

// Run blocks until the context is canceled or the reader is closed,
// consuming transition events and updating the device store.
func (f *Feed) Run(ctx context.Context) error {
	if !f.Enabled() {
		return errors.New("event feed not configured")
	}
	if f.fetcher == nil {
		f.reader = kafka.NewReader(kafka.ReaderConfig{
			Brokers:     f.brokers,
			GroupID:     f.groupID,
			Topic:       f.topic,
			StartOffset: kafka.FirstOffset,
			MinBytes:    1,
			MaxBytes:    10e6,
		})
		f.fetcher = f.reader
	}

	log.Ctx(ctx).InfoContext(ctx, "device state feed started",
		slog.String("topic", f.topic),
		slog.String("group", f.groupID),
		slog.String("brokers", strings.Join(f.brokers, ",")),
	)
	defer log.Ctx(ctx).InfoContext(ctx, "device state feed stopped")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		fetchCtx, cancel := context.WithTimeout(ctx, f.poll)
		msg, err := f.fetcher.FetchMessage(fetchCtx)
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			if errors.Is(err, context.Canceled) {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				continue
			}
			if errors.Is(err, io.ErrClosedPipe) || errors.Is(err, kafka.ErrGroupClosed) {
				return nil
			}
			log.Ctx(ctx).ErrorContext(ctx, "failed to fetch state event", slog.Any("error", err))
			continue
		}

		var ev StateEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			log.Ctx(ctx).WarnContext(ctx, "failed to decode state event", slog.Int64("offset", msg.Offset), slog.Any("error", err))
		} else if err := f.apply(ctx, ev); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to apply state event",
				slog.String("deviceID", ev.DeviceID),
				slog.Any("error", err),
			)
			// don't commit; we'll retry the event on the next fetch
			continue
		}

		if err := f.fetcher.CommitMessages(ctx, msg); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to commit state event", slog.Any("error", err))
		}
	}
}

// Close shuts down the underlying Kafka reader.
func (f *Feed) Close() error {
	if f == nil || f.reader == nil {
		return nil
	}
	return f.reader.Close()
}

// apply updates a device for a single transition. An off-transition closes
// the open interval: the accrued energy becomes a usage record and is added
// to the cumulative total. An on-transition only stamps the new state.
func (f *Feed) apply(ctx context.Context, ev StateEvent) error {
	if ev.DeviceID == "" {
		log.Ctx(ctx).WarnContext(ctx, "state event missing deviceID")
		return nil
	}

	device, err := f.storage.GetDevice(ctx, ev.DeviceID)
	if err != nil {
		if errors.Is(err, storage.ErrDeviceNotFound) {
			log.Ctx(ctx).WarnContext(ctx, "state event for unknown device", slog.String("deviceID", ev.DeviceID))
			return nil
		}
		return fmt.Errorf("failed to load device %s: %w", ev.DeviceID, err)
	}

	ts := ev.Timestamp
	if ts.IsZero() {
		ts = f.now()
	}

	switch ev.Status {
	case types.DeviceStatusOff:
		if device.On() {
			power := analytics.DevicePower(device)
			start := device.LastStatusChange
			if start.IsZero() || start.After(ts) {
				start = ts
			}
			duration := ts.Sub(start)
			energy := power * duration.Hours() / 1000
			device.UsageHistory = append(device.UsageHistory, types.UsageRecord{
				Timestamp:        start,
				Duration:         duration,
				PowerConsumption: power,
				EnergyConsumed:   energy,
			})
			device.TotalEnergyConsumed += energy
		}
		device.Status = types.DeviceStatusOff
		device.LastStatusChange = ts

	case types.DeviceStatusOn:
		device.Status = types.DeviceStatusOn
		device.LastStatusChange = ts
		if ev.PowerConsumption > 0 {
			device.PowerConsumption = ev.PowerConsumption
		}

	default:
		log.Ctx(ctx).WarnContext(ctx, "state event with unknown status",
			slog.String("deviceID", ev.DeviceID),
			slog.String("status", string(ev.Status)),
		)
		return nil
	}

	if err := f.storage.UpsertDevice(ctx, device); err != nil {
		return fmt.Errorf("failed to upsert device %s: %w", ev.DeviceID, err)
	}
	return nil
}
