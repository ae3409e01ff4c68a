package server

import (
	"time"
)

type AuditLogEntry struct {
	Timestamp  time.Time     `json:"timestamp"`
	Handler    string        `json:"handler"`
	Method     string        `json:"method"`
	Path       string        `json:"path"`
	StatusCode int           `json:"status_code"`
	Duration   time.Duration `json:"duration_ns"`
	Username   string        `json:"username,omitempty"`
	RequestID  string        `json:"request_id,omitempty"`
	DeviceID   string        `json:"device_id,omitempty"`
	EmployeeID string        `json:"employee_id,omitempty"`
	NewStatus  string        `json:"new_status,omitempty"`
	Request    string        `json:"request,omitempty"`
	Response   string        `json:"response,omitempty"`
}
