package resp

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/ncobase/cargohold/ecode"
)

// Exception is a failure response. Status selects the HTTP status and is
// not part of the body.
type Exception struct {
	Status  int    `json:"-"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// Error implements error so an Exception can travel through error returns.
func (e *Exception) Error() string {
	return e.Message
}

// Success writes data with 200 OK.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode writes data with statusCode. A string payload becomes
// {"message": ...}; no payload becomes {"message": "ok"}.
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	var payload any = map[string]string{"message": "ok"}
	if len(data) > 0 && data[0] != nil {
		payload = data[0]
		if msg, ok := payload.(string); ok {
			payload = map[string]string{"message": msg}
		}
	}
	writeJSON(w, statusCode, payload)
}

// Fail writes r. A nil r is an internal server error.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = InternalServer()
	}

	status, code := r.Status, r.Code
	if status == 0 {
		status = http.StatusBadRequest
	}
	if code == 0 {
		code = ecode.RequestErr
	}
	msg := r.Message
	if msg == "" {
		msg = ecode.Text(code)
	}

	writeJSON(w, status, &Exception{Code: code, Message: msg, Errors: r.Errors})
}

// Stream writes binary content with the given content type. size < 0 omits
// Content-Length.
func Stream(w http.ResponseWriter, contentType string, size int64, body io.Reader) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	w.WriteHeader(http.StatusOK)
	_, err := io.Copy(w, body)
	return err
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(append(body, '\n'))
}
