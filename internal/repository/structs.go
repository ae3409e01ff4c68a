package repository

import (
	"errors"
	"time"
)

var ErrObjectNotFound = errors.New("not found")

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Device struct {
	ID           int64        `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	SerialNumber string       `db:"serial_number" json:"serial_number"`
	Status       DeviceStatus `db:"status" json:"status"`
	OwnerID      int64        `db:"owner_id" json:"owner_id"`
	OwnerName    string       `db:"owner_name" json:"owner_name"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// Request is one custody transfer proposal. Code is shared by every row of
// the same lineage: the fan-out of one submission and its extension clones.
type Request struct {
	ID              int64         `db:"id" json:"id"`
	Code            string        `db:"request_code" json:"request_code"`
	RequesterID     int64         `db:"requester_id" json:"requester_id"`
	CurrentKeeperID int64         `db:"current_keeper_id" json:"current_keeper_id"`
	NextKeeperID    int64         `db:"next_keeper_id" json:"next_keeper_id"`
	AccepterID      int64         `db:"accepter_id" json:"accepter_id"`
	DeviceID        int64         `db:"device_id" json:"device_id"`
	Status          RequestStatus `db:"status" json:"status"`
	BookingDate     time.Time     `db:"booking_date" json:"booking_date"`
	ReturnDate      time.Time     `db:"return_date" json:"return_date"`
	ApprovalDate    *time.Time    `db:"approval_date" json:"approval_date,omitempty"`
	TransferredDate *time.Time    `db:"transferred_date" json:"transferred_date,omitempty"`
	CancelledDate   *time.Time    `db:"cancelled_date" json:"cancelled_date,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// RequestView is a request joined with the names the list screens show.
type RequestView struct {
	Request
	DeviceName        string `db:"device_name" json:"device_name"`
	SerialNumber      string `db:"serial_number" json:"serial_number"`
	RequesterName     string `db:"requester_name" json:"requester_name"`
	CurrentKeeperName string `db:"current_keeper_name" json:"current_keeper_name"`
	NextKeeperName    string `db:"next_keeper_name" json:"next_keeper_name"`
	AccepterName      string `db:"accepter_name" json:"accepter_name"`
}

// KeeperOrder is one link of a device's custody chain.
type KeeperOrder struct {
	ID          int64     `db:"id" json:"id"`
	DeviceID    int64     `db:"device_id" json:"device_id"`
	KeeperID    int64     `db:"keeper_id" json:"keeper_id"`
	KeeperName  string    `db:"keeper_name" json:"keeper_name"`
	KeeperNo    int       `db:"keeper_no" json:"keeper_no"`
	BookingDate time.Time `db:"booking_date" json:"booking_date"`
	DueDate     time.Time `db:"due_date" json:"due_date"`
	IsReturned  bool      `db:"is_returned" json:"is_returned"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// KeeperChain is the read model of a device's active custody chain.
type KeeperChain struct {
	DeviceID      int64         `json:"device_id"`
	CurrentKeeper string        `json:"current_keeper"`
	Orders        []KeeperOrder `json:"orders"`
}
