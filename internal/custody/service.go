package custody

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/storage"
)

// ChainCache keeps keeper chain views between mutations of a device. Get
// reports the device's generation even on a miss; Set stores the chain only
// while that generation is current, and Delete moves it forward.
type ChainCache interface {
	Get(deviceID int64) (*repository.KeeperChain, uint64, bool)
	Set(chain *repository.KeeperChain, generation uint64) bool
	Delete(deviceID int64)
}

type Repositories struct {
	Devices  storage.DeviceRepository
	Users    storage.UserRepository
	Requests storage.RequestRepository
	Orders   storage.KeeperOrderRepository
	Outbox   storage.OutboxTaskRepository
}

// Service is the custody workflow engine. Every mutation runs in one
// transaction that first locks the affected device rows.
type Service struct {
	db       db.DB
	devices  storage.DeviceRepository
	users    storage.UserRepository
	requests storage.RequestRepository
	orders   storage.KeeperOrderRepository
	outbox   storage.OutboxTaskRepository
	policy   ApprovalPolicy
	chains   ChainCache
	logger   *zap.Logger
	topic    string

	timeNow func() time.Time
	newCode func() string
}

func NewService(database db.DB, repos Repositories, policy ApprovalPolicy, chains ChainCache, logger *zap.Logger) *Service {
	if policy == nil {
		policy = FirstApproverWins{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:       database,
		devices:  repos.Devices,
		users:    repos.Users,
		requests: repos.Requests,
		orders:   repos.Orders,
		outbox:   repos.Outbox,
		policy:   policy,
		chains:   chains,
		logger:   logger,
		topic:    repository.CustodyEventsTopic,
		timeNow:  func() time.Time { return time.Now().UTC() },
		newCode:  func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
	}
}

// SetEventsTopic overrides the topic custody events are published to.
func (s *Service) SetEventsTopic(topic string) {
	if topic != "" {
		s.topic = topic
	}
}

func (s *Service) Policy() ApprovalPolicy {
	return s.policy
}

func (s *Service) inTx(ctx context.Context, fn func(tx db.Tx) error) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// After a successful commit this is a no-op reporting ErrTxClosed.
	defer func() {
		if rbErr := tx.Rollback(context.Background()); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.logger.Warn("Failed to roll back transaction", zap.Error(rbErr))
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// lockDevice takes the device row lock and maps a missing row to NotFound.
func (s *Service) lockDevice(ctx context.Context, tx db.Tx, deviceID int64) (*repository.Device, error) {
	device, err := s.devices.GetByIDTx(ctx, tx, deviceID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, notFound("device %d does not exist", deviceID)
		}
		return nil, err
	}
	return device, nil
}

// deviceState is everything a transition may read for one locked device.
type deviceState struct {
	device   *repository.Device
	chain    []*repository.KeeperOrder
	requests []*repository.Request
}

func (s *Service) loadDeviceState(ctx context.Context, tx db.Tx, deviceID int64) (*deviceState, error) {
	device, err := s.lockDevice(ctx, tx, deviceID)
	if err != nil {
		return nil, err
	}
	chain, err := s.orders.ListActiveByDeviceTx(ctx, tx, deviceID)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.ListByDeviceTx(ctx, tx, deviceID)
	if err != nil {
		return nil, err
	}
	return &deviceState{device: device, chain: chain, requests: requests}, nil
}

func (st *deviceState) request(id int64) *repository.Request {
	for _, r := range st.requests {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (st *deviceState) lineage(code string) []*repository.Request {
	var out []*repository.Request
	for _, r := range st.requests {
		if r.Code == code {
			out = append(out, r)
		}
	}
	return out
}

// occupiedRequest is the TRANSFERRED request that put keeperID in possession.
func (st *deviceState) occupiedRequest(keeperID int64) *repository.Request {
	var found *repository.Request
	for _, r := range st.requests {
		if r.Status == repository.RequestTransferred && r.NextKeeperID == keeperID {
			if found == nil || r.ID > found.ID {
				found = r
			}
		}
	}
	return found
}

func (s *Service) setDeviceStatus(ctx context.Context, tx db.Tx, device *repository.Device, status repository.DeviceStatus) error {
	if device.Status == status {
		return nil
	}
	device.Status = status
	device.UpdatedAt = s.timeNow()
	return s.devices.UpdateStatusTx(ctx, tx, device)
}

func (s *Service) cancelRequest(ctx context.Context, tx db.Tx, r *repository.Request) error {
	now := s.timeNow()
	r.Status = repository.RequestCancelled
	r.CancelledDate = &now
	r.UpdatedAt = now
	return s.requests.UpdateTx(ctx, tx, r)
}

// invariant logs a broken internal assumption and hides its details from callers.
func (s *Service) invariant(l *zap.Logger, msg string, fields ...zap.Field) error {
	l.Error("Custody invariant violated: "+msg, fields...)
	return newError(ErrInvariant, "internal custody state is inconsistent")
}

func (s *Service) forgetChain(deviceIDs ...int64) {
	if s.chains == nil {
		return
	}
	for _, id := range deviceIDs {
		s.chains.Delete(id)
	}
}

func (s *Service) resolveUser(ctx context.Context, username string) (*repository.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, nil
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
