package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

func (s *Server) auditLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := AuditLogEntry{
			Timestamp: time.Now(),
			Method:    r.Method,
			Path:      r.URL.Path,
			Handler:   handlerName(r),
		}

		if username, _, ok := r.BasicAuth(); ok {
			entry.Username = username
		}

		if id, ok := mux.Vars(r)["id"]; ok {
			switch {
			case strings.HasPrefix(r.URL.Path, "/requests/"):
				entry.RequestID = id
			case strings.HasPrefix(r.URL.Path, "/devices/"):
				entry.DeviceID = id
			case strings.HasPrefix(r.URL.Path, "/employees/"):
				entry.EmployeeID = id
			}
		}

		skipRequestBody := strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data")
		if !skipRequestBody && r.Body != nil {
			requestBody, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			entry.Request = auditBody(requestBody, false)

			if entry.RequestID != "" && strings.HasSuffix(r.URL.Path, "/status") {
				var statusRequest struct {
					Status string `json:"status"`
				}
				if err := json.Unmarshal(requestBody, &statusRequest); err == nil {
					entry.NewStatus = statusRequest.Status
				}
			}
		}

		rec := newAuditRecorder(w)
		next.ServeHTTP(rec, r)

		entry.Duration = time.Since(entry.Timestamp)
		entry.StatusCode = rec.status
		entry.Response = rec.recordedBody()

		s.AuditManager.LogEntry(r.Context(), entry)
	})
}

func handlerName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
		return route.GetName()
	}
	return "unknown"
}
