package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
	mock_storage "gitlab.ozon.dev/pupkingeorgij/custody/internal/storage/mocks"
)

func TestChainCache_LoadInitialData(t *testing.T) {
	ctx := context.Background()

	t.Run("groups orders by device", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orders := mock_storage.NewMockKeeperOrderRepository(ctrl)
		devices := mock_storage.NewMockDeviceRepository(ctrl)
		c := NewChainCache(orders, devices, nil)

		orders.EXPECT().ListAllActive(gomock.Any()).Return([]*repository.KeeperOrder{
			{DeviceID: 1, KeeperNo: 1, KeeperName: "kim"},
			{DeviceID: 1, KeeperNo: 2, KeeperName: "max"},
			{DeviceID: 2, KeeperNo: 1, KeeperName: "ann"},
		}, nil)
		devices.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&repository.Device{ID: 1, OwnerName: "olga"}, nil)
		devices.EXPECT().GetByID(gomock.Any(), int64(2)).Return(&repository.Device{ID: 2, OwnerName: "olga"}, nil)

		require.NoError(t, c.LoadInitialData(ctx))
		assert.Equal(t, 2, c.Len())

		chain, _, ok := c.Get(1)
		require.True(t, ok)
		assert.Equal(t, "max", chain.CurrentKeeper)
		assert.Len(t, chain.Orders, 2)
	})

	t.Run("repository error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orders := mock_storage.NewMockKeeperOrderRepository(ctrl)
		devices := mock_storage.NewMockDeviceRepository(ctrl)
		c := NewChainCache(orders, devices, nil)

		orders.EXPECT().ListAllActive(gomock.Any()).Return(nil, errors.New("db down"))

		assert.Error(t, c.LoadInitialData(ctx))
		assert.Equal(t, 0, c.Len())
	})
}

func TestChainCache_CopiesEntries(t *testing.T) {
	c := NewChainCache(nil, nil, nil)
	chain := &repository.KeeperChain{
		DeviceID:      5,
		CurrentKeeper: "kim",
		Orders:        []repository.KeeperOrder{{KeeperNo: 1, KeeperName: "kim"}},
	}
	require.True(t, c.Set(chain, 0))

	chain.Orders[0].KeeperName = "changed"
	got, _, ok := c.Get(5)
	require.True(t, ok)
	assert.Equal(t, "kim", got.Orders[0].KeeperName)

	got.Orders[0].KeeperName = "changed again"
	again, _, _ := c.Get(5)
	assert.Equal(t, "kim", again.Orders[0].KeeperName)

	c.Delete(5)
	_, _, ok = c.Get(5)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestChainCache_DropsChainsReadBeforeInvalidation(t *testing.T) {
	c := NewChainCache(nil, nil, nil)
	stale := &repository.KeeperChain{
		DeviceID:      7,
		CurrentKeeper: "kim",
		Orders:        []repository.KeeperOrder{{KeeperNo: 1, KeeperName: "kim"}},
	}

	_, gen, ok := c.Get(7)
	require.False(t, ok)

	// A transfer commits while the chain is being read.
	c.Delete(7)

	assert.False(t, c.Set(stale, gen))
	_, _, ok = c.Get(7)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())

	_, fresh, _ := c.Get(7)
	assert.Equal(t, gen+1, fresh)
	stale.Orders = append(stale.Orders, repository.KeeperOrder{KeeperNo: 2, KeeperName: "max"})
	stale.CurrentKeeper = "max"
	require.True(t, c.Set(stale, fresh))

	got, _, ok := c.Get(7)
	require.True(t, ok)
	assert.Len(t, got.Orders, 2)
}

func TestChainCache_LoadSkipsInvalidatedDevices(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mock_storage.NewMockKeeperOrderRepository(ctrl)
	devices := mock_storage.NewMockDeviceRepository(ctrl)
	c := NewChainCache(orders, devices, nil)

	orders.EXPECT().ListAllActive(gomock.Any()).Return([]*repository.KeeperOrder{
		{DeviceID: 1, KeeperNo: 1, KeeperName: "kim"},
		{DeviceID: 2, KeeperNo: 1, KeeperName: "ann"},
	}, nil)
	devices.EXPECT().GetByID(gomock.Any(), int64(1)).DoAndReturn(func(context.Context, int64) (*repository.Device, error) {
		c.Delete(2)
		return &repository.Device{ID: 1, OwnerName: "olga"}, nil
	})
	devices.EXPECT().GetByID(gomock.Any(), int64(2)).Return(&repository.Device{ID: 2, OwnerName: "olga"}, nil)

	require.NoError(t, c.LoadInitialData(context.Background()))

	_, _, ok := c.Get(1)
	assert.True(t, ok)
	_, _, ok = c.Get(2)
	assert.False(t, ok)
}
