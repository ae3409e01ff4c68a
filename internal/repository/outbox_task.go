package repository

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusCreated    TaskStatus = "CREATED"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusFailed     TaskStatus = "FAILED"
	TaskStatusDone       TaskStatus = "DONE"
)

const CustodyEventsTopic = "custody_events"

type OutboxTask struct {
	ID          uuid.UUID       `db:"id"`
	Status      TaskStatus      `db:"status"`
	Payload     json.RawMessage `db:"payload"`
	Topic       string          `db:"topic"`
	Attempts    int             `db:"attempts"`
	LastError   *string         `db:"last_error"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	CompletedAt *time.Time      `db:"completed_at"`
}

type CustodyEventType string

const (
	EventRequestSubmitted   CustodyEventType = "request.submitted"
	EventRequestApproved    CustodyEventType = "request.approved"
	EventRequestCancelled   CustodyEventType = "request.cancelled"
	EventCustodyTransferred CustodyEventType = "custody.transferred"
	EventExtensionAsked     CustodyEventType = "extension.requested"
	EventExtensionGranted   CustodyEventType = "extension.granted"
	EventCustodyReturned    CustodyEventType = "custody.returned"
)

// CustodyEventPayload is what external notifiers (mail, dashboards) consume.
type CustodyEventPayload struct {
	Type         CustodyEventType `json:"type"`
	OccurredAt   time.Time        `json:"occurred_at"`
	DeviceID     int64            `json:"device_id"`
	RequestID    int64            `json:"request_id,omitempty"`
	RequestCode  string           `json:"request_code,omitempty"`
	Status       RequestStatus    `json:"status,omitempty"`
	KeeperNo     int              `json:"keeper_no,omitempty"`
	ReturnDate   *time.Time       `json:"return_date,omitempty"`
	OldKeepers   []string         `json:"old_keepers,omitempty"`
	NewKeeperID  int64            `json:"new_keeper_id,omitempty"`
	AccepterID   int64            `json:"accepter_id,omitempty"`
	RequesterID  int64            `json:"requester_id,omitempty"`
	NextKeeperID int64            `json:"next_keeper_id,omitempty"`
}
