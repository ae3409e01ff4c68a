package custody

import (
	"time"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

// MaxChainDepth bounds the number of active keeper orders per device.
const MaxChainDepth = 3

type BookingInput struct {
	Requester   string    `json:"requester"`
	NextKeeper  string    `json:"next_keeper"`
	DeviceID    int64     `json:"device_id"`
	BookingDate time.Time `json:"booking_date"`
	ReturnDate  time.Time `json:"return_date"`
}

type FailedBooking struct {
	Input      BookingInput `json:"input"`
	DeviceName string       `json:"device_name,omitempty"`
	Errors     []string     `json:"errors"`
}

type SubmitResult struct {
	Succeeded []*repository.Request `json:"succeeded"`
	Failed    []FailedBooking       `json:"failed"`
}

func (r *SubmitResult) OK() bool {
	return len(r.Failed) == 0
}

type ExtendInput struct {
	NextKeeper string    `json:"next_keeper"`
	DeviceID   int64     `json:"device_id"`
	ReturnDate time.Time `json:"return_date"`
}

type ReturnResult struct {
	OldKeepers []string `json:"old_keepers"`
}

// RequestFilter narrows a request listing. Empty fields do not filter.
type RequestFilter struct {
	RequestCode   string
	Device        string
	SerialNumber  string
	Approver      string
	Requester     string
	CurrentKeeper string
	NextKeeper    string
	Status        repository.RequestStatus
	BookedAfter   time.Time
	ReturnBefore  time.Time
}

type PageRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

type RequestPage struct {
	Items         []*repository.RequestView  `json:"items"`
	Page          int                        `json:"page"`
	Size          int                        `json:"size"`
	TotalElements int                        `json:"total_elements"`
	TotalPages    int                        `json:"total_pages"`
	Statuses      []repository.RequestStatus `json:"statuses"`
}
