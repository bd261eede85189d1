package server

import (
	"context"

	"github.com/homewatt/homewatt/pkg/types"
	"github.com/stretchr/testify/mock"
)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) GetDevices(ctx context.Context) ([]types.Device, error) {
	args := m.Called(ctx)
	if len(args) > 0 {
		return args.Get(0).([]types.Device), args.Error(1)
	}
	return nil, nil
}

func (m *mockStorage) GetDevice(ctx context.Context, deviceID string) (types.Device, error) {
	args := m.Called(ctx, deviceID)
	if len(args) > 0 {
		return args.Get(0).(types.Device), args.Error(1)
	}
	return types.Device{}, nil
}

func (m *mockStorage) UpsertDevice(ctx context.Context, device types.Device) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func (m *mockStorage) GetRooms(ctx context.Context) ([]types.Room, error) {
	args := m.Called(ctx)
	if len(args) > 0 {
		return args.Get(0).([]types.Room), args.Error(1)
	}
	return nil, nil
}

func (m *mockStorage) UpsertRoom(ctx context.Context, room types.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *mockStorage) Close() error {
	args := m.Called()
	return args.Error(0)
}
