package server

import (
	"bytes"
	"net/http"
)

// maxAuditBody bounds how much of a request or response body lands in the
// audit log. Paged request listings can get large.
const maxAuditBody = 4 << 10

type auditRecorder struct {
	http.ResponseWriter
	status    int
	body      bytes.Buffer
	truncated bool
}

func newAuditRecorder(w http.ResponseWriter) *auditRecorder {
	return &auditRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (w *auditRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *auditRecorder) Write(b []byte) (int, error) {
	if room := maxAuditBody - w.body.Len(); room > 0 {
		if len(b) > room {
			w.body.Write(b[:room])
			w.truncated = true
		} else {
			w.body.Write(b)
		}
	} else if len(b) > 0 {
		w.truncated = true
	}
	return w.ResponseWriter.Write(b)
}

func (w *auditRecorder) recordedBody() string {
	return auditBody(w.body.Bytes(), w.truncated)
}

func auditBody(b []byte, truncated bool) string {
	if len(b) > maxAuditBody {
		b, truncated = b[:maxAuditBody], true
	}
	if truncated {
		return string(b) + "...(truncated)"
	}
	return string(b)
}
