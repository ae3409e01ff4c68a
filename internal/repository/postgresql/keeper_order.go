package postgresql

import (
	"context"
	"fmt"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/storage"
)

const activeOrdersQuery = `
        SELECT
            ko.id, ko.device_id, ko.keeper_id, u.username AS keeper_name, ko.keeper_no,
            ko.booking_date, ko.due_date, ko.is_returned, ko.created_at, ko.updated_at
        FROM keeper_orders ko
        JOIN users u ON u.id = ko.keeper_id
        WHERE NOT ko.is_returned`

type KeeperOrderRepo struct {
	db db.DB
}

func NewKeeperOrderRepo(db db.DB) storage.KeeperOrderRepository {
	return &KeeperOrderRepo{db: db}
}

func (r *KeeperOrderRepo) ListActiveByDevice(ctx context.Context, deviceID int64) ([]*repository.KeeperOrder, error) {
	var orders []*repository.KeeperOrder
	err := r.db.Select(ctx, &orders, activeOrdersQuery+" AND ko.device_id = $1 ORDER BY ko.keeper_no", deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list keeper orders of device %d: %w", deviceID, err)
	}
	return orders, nil
}

func (r *KeeperOrderRepo) ListActiveByDeviceTx(ctx context.Context, tx db.Tx, deviceID int64) ([]*repository.KeeperOrder, error) {
	var orders []*repository.KeeperOrder
	err := tx.Select(ctx, &orders, activeOrdersQuery+" AND ko.device_id = $1 ORDER BY ko.keeper_no", deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list keeper orders of device %d: %w", deviceID, err)
	}
	return orders, nil
}

func (r *KeeperOrderRepo) ListAllActive(ctx context.Context) ([]*repository.KeeperOrder, error) {
	var orders []*repository.KeeperOrder
	err := r.db.Select(ctx, &orders, activeOrdersQuery+" ORDER BY ko.device_id, ko.keeper_no")
	if err != nil {
		return nil, fmt.Errorf("failed to get all active keeper orders: %w", err)
	}
	return orders, nil
}

func (r *KeeperOrderRepo) CreateTx(ctx context.Context, tx db.Tx, order *repository.KeeperOrder) error {
	var id int64
	err := tx.Get(ctx, &id, `
        INSERT INTO keeper_orders (
            device_id, keeper_id, keeper_no, booking_date, due_date, is_returned, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `, order.DeviceID, order.KeeperID, order.KeeperNo, order.BookingDate, order.DueDate, order.IsReturned,
		order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert keeper order %d of device %d: %w", order.KeeperNo, order.DeviceID, err)
	}
	order.ID = id
	return nil
}

func (r *KeeperOrderRepo) UpdateTx(ctx context.Context, tx db.Tx, order *repository.KeeperOrder) error {
	tag, err := tx.Exec(ctx, `
        UPDATE keeper_orders
        SET due_date = $1, is_returned = $2, updated_at = $3
        WHERE id = $4
    `, order.DueDate, order.IsReturned, order.UpdatedAt, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update keeper order %d: %w", order.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *KeeperOrderRepo) DeleteReturnedByDeviceTx(ctx context.Context, tx db.Tx, deviceID int64) (int64, error) {
	tag, err := tx.Exec(ctx, "DELETE FROM keeper_orders WHERE device_id = $1 AND is_returned", deviceID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete returned keeper orders of device %d: %w", deviceID, err)
	}
	return tag.RowsAffected(), nil
}
