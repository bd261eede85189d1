package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/homewatt/homewatt/pkg/log"
	"github.com/homewatt/homewatt/pkg/types"
	"github.com/levenlabs/go-lflag"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreProvider implements the Database interface using Google Cloud
// Firestore. Devices and rooms are stored as JSON blobs in flat
// collections.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
}

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate checks if the provider is properly configured.
func (f *FirestoreProvider) Validate() error {
	// Project ID verification could be here, but we allow empty if inferred.
	return nil
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// GetDevices retrieves every device document from the "devices" collection.
func (f *FirestoreProvider) GetDevices(ctx context.Context) ([]types.Device, error) {
	iter := f.client.Collection("devices").Documents(ctx)
	defer iter.Stop()

	var devices []types.Device
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating devices: %w", err)
		}

		d, err := decodeDevice(ctx, doc.Ref.ID, doc.Data())
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, nil
}

// GetDevice retrieves a single device by ID, returning ErrDeviceNotFound
// when no such document exists.
func (f *FirestoreProvider) GetDevice(ctx context.Context, deviceID string) (types.Device, error) {
	if deviceID == "" {
		return types.Device{}, fmt.Errorf("deviceID cannot be empty")
	}
	doc, err := f.client.Collection("devices").Doc(deviceID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.Device{}, ErrDeviceNotFound
		}
		return types.Device{}, fmt.Errorf("failed to fetch device %s: %w", deviceID, err)
	}
	return decodeDevice(ctx, doc.Ref.ID, doc.Data())
}

// UpsertDevice adds or replaces a device document as a JSON blob.
func (f *FirestoreProvider) UpsertDevice(ctx context.Context, device types.Device) error {
	if device.ID == "" {
		return fmt.Errorf("device missing id")
	}
	jsonBytes, err := json.Marshal(device)
	if err != nil {
		return fmt.Errorf("failed to marshal device: %w", err)
	}
	_, err = f.client.Collection("devices").Doc(device.ID).Set(ctx, map[string]interface{}{
		"json": string(jsonBytes),
		"room": string(device.Room),
		"type": string(device.Type),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert device %s: %w", device.ID, err)
	}
	return nil
}

// GetRooms retrieves every room document from the "rooms" collection.
func (f *FirestoreProvider) GetRooms(ctx context.Context) ([]types.Room, error) {
	iter := f.client.Collection("rooms").Documents(ctx)
	defer iter.Stop()

	var rooms []types.Room
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating rooms: %w", err)
		}

		r, err := decodeRoom(ctx, doc.Ref.ID, doc.Data())
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	return rooms, nil
}

// UpsertRoom adds or replaces a room document as a JSON blob.
func (f *FirestoreProvider) UpsertRoom(ctx context.Context, room types.Room) error {
	if room.ID == "" {
		return fmt.Errorf("room missing id")
	}
	jsonBytes, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}
	_, err = f.client.Collection("rooms").Doc(room.ID).Set(ctx, map[string]interface{}{
		"json": string(jsonBytes),
		"name": room.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert room %s: %w", room.ID, err)
	}
	return nil
}

func decodeDevice(ctx context.Context, id string, data map[string]interface{}) (types.Device, error) {
	val, ok := data["json"]
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "device doc missing json", slog.String("deviceID", id))
		return types.Device{}, fmt.Errorf("device document %s missing 'json' field", id)
	}
	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "device doc json not string", slog.String("deviceID", id))
		return types.Device{}, fmt.Errorf("device document %s 'json' field is not string", id)
	}

	var d types.Device
	if err := json.Unmarshal([]byte(jsonStr), &d); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal device", slog.String("deviceID", id), slog.Any("err", err))
		return types.Device{}, fmt.Errorf("failed to unmarshal device (id=%s): %w", id, err)
	}
	if d.ID == "" {
		d.ID = id
	}
	return d, nil
}

func decodeRoom(ctx context.Context, id string, data map[string]interface{}) (types.Room, error) {
	val, ok := data["json"]
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "room doc missing json", slog.String("roomID", id))
		return types.Room{}, fmt.Errorf("room document %s missing 'json' field", id)
	}
	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "room doc json not string", slog.String("roomID", id))
		return types.Room{}, fmt.Errorf("room document %s 'json' field is not string", id)
	}

	var r types.Room
	if err := json.Unmarshal([]byte(jsonStr), &r); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal room", slog.String("roomID", id), slog.Any("err", err))
		return types.Room{}, fmt.Errorf("failed to unmarshal room (id=%s): %w", id, err)
	}
	if r.ID == "" {
		r.ID = id
	}
	return r, nil
}
