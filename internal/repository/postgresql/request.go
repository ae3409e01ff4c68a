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

const requestColumns = `
        r.id, r.request_code, r.requester_id, r.current_keeper_id, r.next_keeper_id,
        r.accepter_id, r.device_id, r.status, r.booking_date, r.return_date,
        r.approval_date, r.transferred_date, r.cancelled_date, r.created_at, r.updated_at`

type RequestRepo struct {
	db db.DB
}

func NewRequestRepo(db db.DB) storage.RequestRepository {
	return &RequestRepo{db: db}
}

func (r *RequestRepo) CreateTx(ctx context.Context, tx db.Tx, request *repository.Request) error {
	var id int64
	err := tx.Get(ctx, &id, `
        INSERT INTO requests (
            request_code, requester_id, current_keeper_id, next_keeper_id, accepter_id, device_id,
            status, booking_date, return_date, approval_date, transferred_date, cancelled_date,
            created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING id
    `, request.Code, request.RequesterID, request.CurrentKeeperID, request.NextKeeperID, request.AccepterID,
		request.DeviceID, request.Status, request.BookingDate, request.ReturnDate, request.ApprovalDate,
		request.TransferredDate, request.CancelledDate, request.CreatedAt, request.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}
	request.ID = id
	return nil
}

func (r *RequestRepo) GetByID(ctx context.Context, id int64) (*repository.Request, error) {
	var request repository.Request
	err := r.db.Get(ctx, &request, "SELECT"+requestColumns+" FROM requests r WHERE r.id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get request %d: %w", id, err)
	}
	return &request, nil
}

func (r *RequestRepo) UpdateTx(ctx context.Context, tx db.Tx, request *repository.Request) error {
	tag, err := tx.Exec(ctx, `
        UPDATE requests
        SET
            current_keeper_id = $1,
            status = $2,
            return_date = $3,
            approval_date = $4,
            transferred_date = $5,
            cancelled_date = $6,
            updated_at = $7
        WHERE id = $8
    `, request.CurrentKeeperID, request.Status, request.ReturnDate, request.ApprovalDate,
		request.TransferredDate, request.CancelledDate, request.UpdatedAt, request.ID)
	if err != nil {
		return fmt.Errorf("failed to update request %d: %w", request.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *RequestRepo) ListByDeviceTx(ctx context.Context, tx db.Tx, deviceID int64) ([]*repository.Request, error) {
	var requests []*repository.Request
	err := tx.Select(ctx, &requests, "SELECT"+requestColumns+" FROM requests r WHERE r.device_id = $1 ORDER BY r.id", deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests of device %d: %w", deviceID, err)
	}
	return requests, nil
}

func (r *RequestRepo) ListViewsByEmployee(ctx context.Context, employeeID int64) ([]*repository.RequestView, error) {
	var views []*repository.RequestView
	err := r.db.Select(ctx, &views, `
        SELECT`+requestColumns+`,
            d.name AS device_name,
            d.serial_number,
            rq.username AS requester_name,
            ck.username AS current_keeper_name,
            nk.username AS next_keeper_name,
            ac.username AS accepter_name
        FROM requests r
        JOIN devices d ON d.id = r.device_id
        JOIN users rq ON rq.id = r.requester_id
        JOIN users ck ON ck.id = r.current_keeper_id
        JOIN users nk ON nk.id = r.next_keeper_id
        JOIN users ac ON ac.id = r.accepter_id
        WHERE $1 IN (r.requester_id, r.current_keeper_id, r.next_keeper_id, r.accepter_id)
        ORDER BY r.id
    `, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests of employee %d: %w", employeeID, err)
	}
	return views, nil
}

func (r *RequestRepo) ExistsByStatusAndDevice(ctx context.Context, deviceID int64, status repository.RequestStatus) (bool, error) {
	var exists bool
	err := r.db.Get(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM requests WHERE device_id = $1 AND status = $2)", deviceID, status)
	if err != nil {
		return false, fmt.Errorf("failed to check %s requests of device %d: %w", status, deviceID, err)
	}
	return exists, nil
}

func (r *RequestRepo) DeleteByStatusAndDeviceTx(ctx context.Context, tx db.Tx, deviceID int64, status repository.RequestStatus) (int64, error) {
	tag, err := tx.Exec(ctx, "DELETE FROM requests WHERE device_id = $1 AND status = $2", deviceID, status)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s requests of device %d: %w", status, deviceID, err)
	}
	return tag.RowsAffected(), nil
}
