package cache

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

type KeeperOrderRepository interface {
	ListAllActive(ctx context.Context) ([]*repository.KeeperOrder, error)
}

type DeviceRepository interface {
	GetByID(ctx context.Context, id int64) (*repository.Device, error)
}

// ChainCache holds keeper chains by device id. Entries are copied in and out,
// so callers never share slices with the cache.
type ChainCache struct {
	mu      sync.RWMutex
	cache   map[int64]*repository.KeeperChain
	gens    map[int64]uint64
	orders  KeeperOrderRepository
	devices DeviceRepository
	logger  *zap.Logger
}

func NewChainCache(orders KeeperOrderRepository, devices DeviceRepository, logger *zap.Logger) *ChainCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChainCache{
		cache:   make(map[int64]*repository.KeeperChain),
		gens:    make(map[int64]uint64),
		orders:  orders,
		devices: devices,
		logger:  logger,
	}
}

// LoadInitialData warms the cache with every device that has an active chain.
func (c *ChainCache) LoadInitialData(ctx context.Context) error {
	c.logger.Info("Loading initial data into keeper chain cache...")
	c.mu.RLock()
	startGens := maps.Clone(c.gens)
	c.mu.RUnlock()

	orders, err := c.orders.ListAllActive(ctx)
	if err != nil {
		return err
	}

	byDevice := make(map[int64][]repository.KeeperOrder)
	var deviceIDs []int64
	for _, o := range orders {
		if _, ok := byDevice[o.DeviceID]; !ok {
			deviceIDs = append(deviceIDs, o.DeviceID)
		}
		byDevice[o.DeviceID] = append(byDevice[o.DeviceID], *o)
	}

	chains := make(map[int64]*repository.KeeperChain, len(deviceIDs))
	for _, id := range deviceIDs {
		device, err := c.devices.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load device %d for chain cache: %w", id, err)
		}
		chainOrders := byDevice[id]
		chains[id] = &repository.KeeperChain{
			DeviceID:      device.ID,
			CurrentKeeper: chainOrders[len(chainOrders)-1].KeeperName,
			Orders:        chainOrders,
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for id, chain := range chains {
		if c.gens[id] != startGens[id] {
			continue
		}
		c.cache[id] = chain
	}
	metrics.ChainCacheItems.Set(float64(len(c.cache)))
	c.logger.Info("Keeper chain cache loaded", zap.Int("devices", len(c.cache)))
	return nil
}

// Get returns the cached chain and the device's generation. The generation
// is returned on a miss too, for the Set that follows the database read.
func (c *ChainCache) Get(deviceID int64) (*repository.KeeperChain, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	gen := c.gens[deviceID]
	chain, found := c.cache[deviceID]
	if !found {
		return nil, gen, false
	}
	return copyChain(chain), gen, true
}

// Set stores chain unless the device was invalidated after generation was
// read. It reports whether the chain was stored.
func (c *ChainCache) Set(chain *repository.KeeperChain, generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[chain.DeviceID] != generation {
		c.logger.Debug("Cache: stale keeper chain dropped", zap.Int64("device_id", chain.DeviceID))
		return false
	}
	c.cache[chain.DeviceID] = copyChain(chain)
	metrics.ChainCacheItems.Set(float64(len(c.cache)))
	c.logger.Debug("Cache: set keeper chain", zap.Int64("device_id", chain.DeviceID), zap.Int("orders", len(chain.Orders)))
	return true
}

// Delete drops the device's chain and advances its generation.
func (c *ChainCache) Delete(deviceID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[deviceID]++
	if _, found := c.cache[deviceID]; found {
		delete(c.cache, deviceID)
		metrics.ChainCacheItems.Set(float64(len(c.cache)))
		c.logger.Debug("Cache: deleted keeper chain", zap.Int64("device_id", deviceID))
	}
}

func (c *ChainCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func copyChain(chain *repository.KeeperChain) *repository.KeeperChain {
	out := *chain
	out.Orders = append([]repository.KeeperOrder(nil), chain.Orders...)
	return &out
}
