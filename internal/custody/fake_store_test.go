package custody

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

var errFakeUnsupported = errors.New("fake store: raw queries are not supported")

// fakeStore is an in-memory database. One transaction runs at a time, which
// is a coarser version of the device row locks, and rollback restores the
// snapshot taken at begin.
type fakeStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	users    map[int64]repository.User
	devices  map[int64]repository.Device
	requests map[int64]repository.Request
	orders   map[int64]repository.KeeperOrder
	outbox   []repository.OutboxTask
	nextID   int64
}

type fakeSnapshot struct {
	devices  map[int64]repository.Device
	requests map[int64]repository.Request
	orders   map[int64]repository.KeeperOrder
	outbox   []repository.OutboxTask
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]repository.User),
		devices:  make(map[int64]repository.Device),
		requests: make(map[int64]repository.Request),
		orders:   make(map[int64]repository.KeeperOrder),
		nextID:   100,
	}
}

func (f *fakeStore) repositories() Repositories {
	return Repositories{
		Devices:  fakeDevices{f},
		Users:    fakeUsers{f},
		Requests: fakeRequests{f},
		Orders:   fakeOrders{f},
		Outbox:   fakeOutbox{f},
	}
}

func (f *fakeStore) addUser(id int64, name string) {
	f.users[id] = repository.User{ID: id, Username: name}
}

func (f *fakeStore) addDevice(id int64, name string, ownerID int64, status repository.DeviceStatus) {
	f.devices[id] = repository.Device{ID: id, Name: name, SerialNumber: name + "-SN", OwnerID: ownerID, Status: status}
}

func (f *fakeStore) device(id int64) repository.Device {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.devices[id]
}

func (f *fakeStore) request(id int64) repository.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[id]
}

func (f *fakeStore) requestsOf(deviceID int64) []repository.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Request
	for _, r := range f.requests {
		if r.DeviceID == deviceID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeStore) ordersOf(deviceID int64) []repository.KeeperOrder {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.KeeperOrder
	for _, o := range f.orders {
		if o.DeviceID == deviceID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeStore) outboxLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.outbox)
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) userName(id int64) string {
	return f.users[id].Username
}

func (f *fakeStore) snapshot() fakeSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := fakeSnapshot{
		devices:  make(map[int64]repository.Device, len(f.devices)),
		requests: make(map[int64]repository.Request, len(f.requests)),
		orders:   make(map[int64]repository.KeeperOrder, len(f.orders)),
		outbox:   append([]repository.OutboxTask(nil), f.outbox...),
		nextID:   f.nextID,
	}
	for k, v := range f.devices {
		s.devices[k] = v
	}
	for k, v := range f.requests {
		s.requests[k] = v
	}
	for k, v := range f.orders {
		s.orders[k] = v
	}
	return s
}

func (f *fakeStore) restore(s fakeSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.devices = s.devices
	f.requests = s.requests
	f.orders = s.orders
	f.outbox = s.outbox
	f.nextID = s.nextID
}

// db.DB

func (f *fakeStore) BeginTx(ctx context.Context) (db.Tx, error) {
	f.txMu.Lock()
	return &fakeTx{store: f, snap: f.snapshot()}, nil
}

func (f *fakeStore) Get(context.Context, interface{}, string, ...interface{}) error {
	return errFakeUnsupported
}

func (f *fakeStore) Select(context.Context, interface{}, string, ...interface{}) error {
	return errFakeUnsupported
}

func (f *fakeStore) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return nil, errFakeUnsupported
}

func (f *fakeStore) ExecQueryRow(context.Context, string, ...interface{}) pgx.Row {
	return nil
}

type fakeTx struct {
	store *fakeStore
	snap  fakeSnapshot
	done  bool
}

func (t *fakeTx) Commit(context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.store.txMu.Unlock()
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.store.restore(t.snap)
	t.store.txMu.Unlock()
	return nil
}

func (t *fakeTx) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return nil, errFakeUnsupported
}

func (t *fakeTx) Get(context.Context, interface{}, string, ...interface{}) error {
	return errFakeUnsupported
}

func (t *fakeTx) Select(context.Context, interface{}, string, ...interface{}) error {
	return errFakeUnsupported
}

type fakeDevices struct{ f *fakeStore }

func (r fakeDevices) GetByID(_ context.Context, id int64) (*repository.Device, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	d, ok := r.f.devices[id]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	d.OwnerName = r.f.userName(d.OwnerID)
	return &d, nil
}

func (r fakeDevices) GetByIDTx(ctx context.Context, _ db.Tx, id int64) (*repository.Device, error) {
	return r.GetByID(ctx, id)
}

func (r fakeDevices) UpdateStatusTx(_ context.Context, _ db.Tx, device *repository.Device) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	d, ok := r.f.devices[device.ID]
	if !ok {
		return repository.ErrObjectNotFound
	}
	d.Status = device.Status
	d.UpdatedAt = device.UpdatedAt
	r.f.devices[device.ID] = d
	return nil
}

type fakeUsers struct{ f *fakeStore }

func (r fakeUsers) GetByID(_ context.Context, id int64) (*repository.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	u, ok := r.f.users[id]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	return &u, nil
}

func (r fakeUsers) GetByUsername(_ context.Context, username string) (*repository.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, u := range r.f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrObjectNotFound
}

type fakeRequests struct{ f *fakeStore }

func (r fakeRequests) CreateTx(_ context.Context, _ db.Tx, request *repository.Request) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	request.ID = r.f.id()
	r.f.requests[request.ID] = *request
	return nil
}

func (r fakeRequests) GetByID(_ context.Context, id int64) (*repository.Request, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	req, ok := r.f.requests[id]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	return &req, nil
}

func (r fakeRequests) UpdateTx(_ context.Context, _ db.Tx, request *repository.Request) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.requests[request.ID]; !ok {
		return repository.ErrObjectNotFound
	}
	r.f.requests[request.ID] = *request
	return nil
}

func (r fakeRequests) ListByDeviceTx(_ context.Context, _ db.Tx, deviceID int64) ([]*repository.Request, error) {
	var out []*repository.Request
	for _, req := range r.f.requestsOf(deviceID) {
		req := req
		out = append(out, &req)
	}
	return out, nil
}

func (r fakeRequests) ListViewsByEmployee(_ context.Context, employeeID int64) ([]*repository.RequestView, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*repository.RequestView
	for _, req := range r.f.requests {
		if employeeID != req.RequesterID && employeeID != req.CurrentKeeperID &&
			employeeID != req.NextKeeperID && employeeID != req.AccepterID {
			continue
		}
		d := r.f.devices[req.DeviceID]
		out = append(out, &repository.RequestView{
			Request:           req,
			DeviceName:        d.Name,
			SerialNumber:      d.SerialNumber,
			RequesterName:     r.f.userName(req.RequesterID),
			CurrentKeeperName: r.f.userName(req.CurrentKeeperID),
			NextKeeperName:    r.f.userName(req.NextKeeperID),
			AccepterName:      r.f.userName(req.AccepterID),
		})
	}
	return out, nil
}

func (r fakeRequests) ExistsByStatusAndDevice(_ context.Context, deviceID int64, status repository.RequestStatus) (bool, error) {
	for _, req := range r.f.requestsOf(deviceID) {
		if req.Status == status {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeRequests) DeleteByStatusAndDeviceTx(_ context.Context, _ db.Tx, deviceID int64, status repository.RequestStatus) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var n int64
	for id, req := range r.f.requests {
		if req.DeviceID == deviceID && req.Status == status {
			delete(r.f.requests, id)
			n++
		}
	}
	return n, nil
}

type fakeOrders struct{ f *fakeStore }

func (r fakeOrders) active(deviceID int64) []*repository.KeeperOrder {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*repository.KeeperOrder
	for _, o := range r.f.orders {
		o := o
		if o.IsReturned || (deviceID != 0 && o.DeviceID != deviceID) {
			continue
		}
		o.KeeperName = r.f.userName(o.KeeperID)
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DeviceID != out[j].DeviceID {
			return out[i].DeviceID < out[j].DeviceID
		}
		return out[i].KeeperNo < out[j].KeeperNo
	})
	return out
}

func (r fakeOrders) ListActiveByDevice(_ context.Context, deviceID int64) ([]*repository.KeeperOrder, error) {
	return r.active(deviceID), nil
}

func (r fakeOrders) ListActiveByDeviceTx(_ context.Context, _ db.Tx, deviceID int64) ([]*repository.KeeperOrder, error) {
	return r.active(deviceID), nil
}

func (r fakeOrders) ListAllActive(context.Context) ([]*repository.KeeperOrder, error) {
	return r.active(0), nil
}

func (r fakeOrders) CreateTx(_ context.Context, _ db.Tx, order *repository.KeeperOrder) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	order.ID = r.f.id()
	r.f.orders[order.ID] = *order
	return nil
}

func (r fakeOrders) UpdateTx(_ context.Context, _ db.Tx, order *repository.KeeperOrder) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	o, ok := r.f.orders[order.ID]
	if !ok {
		return repository.ErrObjectNotFound
	}
	o.DueDate = order.DueDate
	o.IsReturned = order.IsReturned
	o.UpdatedAt = order.UpdatedAt
	r.f.orders[order.ID] = o
	return nil
}

func (r fakeOrders) DeleteReturnedByDeviceTx(_ context.Context, _ db.Tx, deviceID int64) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var n int64
	for id, o := range r.f.orders {
		if o.DeviceID == deviceID && o.IsReturned {
			delete(r.f.orders, id)
			n++
		}
	}
	return n, nil
}

type fakeOutbox struct{ f *fakeStore }

func (r fakeOutbox) CreateTx(_ context.Context, _ db.Tx, task *repository.OutboxTask) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	task.ID = uuid.New()
	task.Status = repository.TaskStatusCreated
	r.f.outbox = append(r.f.outbox, *task)
	return nil
}

func (r fakeOutbox) GetProcessableTasksTx(context.Context, db.Tx, int) ([]*repository.OutboxTask, error) {
	return nil, errFakeUnsupported
}

func (r fakeOutbox) UpdateTaskStatusTx(context.Context, db.Tx, uuid.UUID, repository.TaskStatus, int, *string, *time.Time) error {
	return errFakeUnsupported
}

func (r fakeOutbox) UpdateTaskStatus(context.Context, uuid.UUID, repository.TaskStatus, int, *string, *time.Time) error {
	return errFakeUnsupported
}

// mapChainCache records invalidations so tests can assert on them.
// beforeSet, when set, runs ahead of every Set.
type mapChainCache struct {
	mu        sync.Mutex
	chains    map[int64]repository.KeeperChain
	gens      map[int64]uint64
	deletes   int
	beforeSet func()
}

func newMapChainCache() *mapChainCache {
	return &mapChainCache{
		chains: make(map[int64]repository.KeeperChain),
		gens:   make(map[int64]uint64),
	}
}

func (c *mapChainCache) Get(deviceID int64) (*repository.KeeperChain, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	chain, ok := c.chains[deviceID]
	if !ok {
		return nil, c.gens[deviceID], false
	}
	return &chain, c.gens[deviceID], true
}

func (c *mapChainCache) Set(chain *repository.KeeperChain, generation uint64) bool {
	if c.beforeSet != nil {
		hook := c.beforeSet
		c.beforeSet = nil
		hook()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[chain.DeviceID] != generation {
		return false
	}
	c.chains[chain.DeviceID] = *chain
	return true
}

func (c *mapChainCache) Delete(deviceID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.chains, deviceID)
	c.gens[deviceID]++
	c.deletes++
}
