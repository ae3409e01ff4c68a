//go:generate mockgen -source ./repository.go -destination=./mocks/repository.go -package=mock_storage
package storage

import (
	"context"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

type DeviceRepository interface {
	GetByID(ctx context.Context, id int64) (*repository.Device, error)
	// GetByIDTx locks the device row until the transaction ends.
	GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.Device, error)
	UpdateStatusTx(ctx context.Context, tx db.Tx, device *repository.Device) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*repository.User, error)
	GetByUsername(ctx context.Context, username string) (*repository.User, error)
}

type RequestRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, request *repository.Request) error
	GetByID(ctx context.Context, id int64) (*repository.Request, error)
	UpdateTx(ctx context.Context, tx db.Tx, request *repository.Request) error
	ListByDeviceTx(ctx context.Context, tx db.Tx, deviceID int64) ([]*repository.Request, error)
	ListViewsByEmployee(ctx context.Context, employeeID int64) ([]*repository.RequestView, error)
	ExistsByStatusAndDevice(ctx context.Context, deviceID int64, status repository.RequestStatus) (bool, error)
	DeleteByStatusAndDeviceTx(ctx context.Context, tx db.Tx, deviceID int64, status repository.RequestStatus) (int64, error)
}

type KeeperOrderRepository interface {
	ListActiveByDevice(ctx context.Context, deviceID int64) ([]*repository.KeeperOrder, error)
	ListActiveByDeviceTx(ctx context.Context, tx db.Tx, deviceID int64) ([]*repository.KeeperOrder, error)
	ListAllActive(ctx context.Context) ([]*repository.KeeperOrder, error)
	CreateTx(ctx context.Context, tx db.Tx, order *repository.KeeperOrder) error
	UpdateTx(ctx context.Context, tx db.Tx, order *repository.KeeperOrder) error
	DeleteReturnedByDeviceTx(ctx context.Context, tx db.Tx, deviceID int64) (int64, error)
}
