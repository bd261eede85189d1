package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/homewatt/homewatt/pkg/types"
	"github.com/levenlabs/go-lflag"
)

var (
	ErrDeviceNotFound = errors.New("device not found")
	ErrRoomNotFound   = errors.New("room not found")
)

// Database defines the interface for the persisted device/room store. The
// analytics and suggestion engines never touch it directly; the HTTP layer
// and the event feed read snapshots from it and write status updates back.
type Database interface {
	// Devices
	GetDevices(ctx context.Context) ([]types.Device, error)
	GetDevice(ctx context.Context, deviceID string) (types.Device, error)
	UpsertDevice(ctx context.Context, device types.Device) error

	// Rooms
	GetRooms(ctx context.Context) ([]types.Room, error)
	UpsertRoom(ctx context.Context, room types.Room) error

	// Lifecycle
	Close() error
}

// Configured sets up the Storage provider based on flags.
func Configured() Database {
	provider := lflag.String("storage-provider", "firestore", "Storage provider to use (available: firestore)")

	var p struct{ Database }

	fs := configuredFirestore()

	lflag.Do(func() {
		switch *provider {
		case "firestore":
			if err := fs.Validate(); err != nil {
				panic(fmt.Sprintf("firestore validation failed: %v", err))
			}
			p.Database = fs
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}
