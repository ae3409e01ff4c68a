package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/storage"
)

const deviceColumns = `
        d.id, d.name, d.serial_number, d.status, d.owner_id, u.username AS owner_name,
        d.created_at, d.updated_at`

type DeviceRepo struct {
	db db.DB
}

func NewDeviceRepo(db db.DB) storage.DeviceRepository {
	return &DeviceRepo{db: db}
}

func (r *DeviceRepo) GetByID(ctx context.Context, id int64) (*repository.Device, error) {
	var device repository.Device
	err := r.db.Get(ctx, &device, `
        SELECT`+deviceColumns+`
        FROM devices d
        JOIN users u ON u.id = d.owner_id
        WHERE d.id = $1
    `, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get device %d: %w", id, err)
	}
	return &device, nil
}

func (r *DeviceRepo) GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.Device, error) {
	var device repository.Device
	err := tx.Get(ctx, &device, `
        SELECT`+deviceColumns+`
        FROM devices d
        JOIN users u ON u.id = d.owner_id
        WHERE d.id = $1
        FOR UPDATE OF d
    `, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to lock device %d: %w", id, err)
	}
	return &device, nil
}

func (r *DeviceRepo) UpdateStatusTx(ctx context.Context, tx db.Tx, device *repository.Device) error {
	tag, err := tx.Exec(ctx, `
        UPDATE devices
        SET status = $1, updated_at = $2
        WHERE id = $3
    `, device.Status, device.UpdatedAt, device.ID)
	if err != nil {
		return fmt.Errorf("failed to update status of device %d: %w", device.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}
