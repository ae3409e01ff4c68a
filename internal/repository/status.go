package repository

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

type DeviceStatus string

const (
	DeviceVacant      DeviceStatus = "VACANT"
	DeviceOccupied    DeviceStatus = "OCCUPIED"
	DeviceUnavailable DeviceStatus = "UNAVAILABLE"
	DeviceBroken      DeviceStatus = "BROKEN"
)

func ParseDeviceStatus(s string) (DeviceStatus, error) {
	switch st := DeviceStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case DeviceVacant, DeviceOccupied, DeviceUnavailable, DeviceBroken:
		return st, nil
	default:
		return "", fmt.Errorf("unknown device status %q", s)
	}
}

// Usable reports whether the device may be booked.
func (s DeviceStatus) Usable() bool {
	switch s {
	case DeviceVacant, DeviceOccupied:
		return true
	case DeviceUnavailable, DeviceBroken:
		return false
	default:
		return false
	}
}

func (s DeviceStatus) Value() (driver.Value, error) {
	if _, err := ParseDeviceStatus(string(s)); err != nil {
		return nil, err
	}
	return string(s), nil
}

func (s *DeviceStatus) Scan(src interface{}) error {
	raw, err := scanText(src)
	if err != nil {
		return err
	}
	parsed, err := ParseDeviceStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type RequestStatus string

const (
	RequestPending     RequestStatus = "PENDING"
	RequestApproved    RequestStatus = "APPROVED"
	RequestCancelled   RequestStatus = "CANCELLED"
	RequestTransferred RequestStatus = "TRANSFERRED"
	RequestExtending   RequestStatus = "EXTENDING"
	RequestReturned    RequestStatus = "RETURNED"
)

var RequestStatuses = []RequestStatus{
	RequestPending,
	RequestApproved,
	RequestCancelled,
	RequestTransferred,
	RequestExtending,
	RequestReturned,
}

func ParseRequestStatus(s string) (RequestStatus, error) {
	switch st := RequestStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case RequestPending, RequestApproved, RequestCancelled, RequestTransferred, RequestExtending, RequestReturned:
		return st, nil
	default:
		return "", fmt.Errorf("unknown request status %q", s)
	}
}

// Live reports whether a request still takes part in the workflow.
func (s RequestStatus) Live() bool {
	switch s {
	case RequestPending, RequestApproved, RequestTransferred, RequestExtending:
		return true
	case RequestCancelled, RequestReturned:
		return false
	default:
		return false
	}
}

func (s RequestStatus) Value() (driver.Value, error) {
	if _, err := ParseRequestStatus(string(s)); err != nil {
		return nil, err
	}
	return string(s), nil
}

func (s *RequestStatus) Scan(src interface{}) error {
	raw, err := scanText(src)
	if err != nil {
		return err
	}
	parsed, err := ParseRequestStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func scanText(src interface{}) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("cannot scan %T into status", src)
	}
}
