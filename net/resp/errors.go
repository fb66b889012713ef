package resp

import (
	"github.com/ncobase/cargohold/ecode"
)

// newException builds a failure for code; the HTTP status follows from it.
func newException(code int, message []string, errs ...any) *Exception {
	msg := ecode.Text(code)
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	e := &Exception{Status: ecode.ToHTTPStatus(code), Code: code, Message: msg}
	if len(errs) > 0 {
		e.Errors = errs[0]
	}
	return e
}

// BadRequest returns a 400 exception. errs, if given, carries per-field details.
func BadRequest(message string, errs ...any) *Exception {
	return newException(ecode.RequestErr, []string{message}, errs...)
}

func NotFound(message ...string) *Exception { return newException(ecode.NothingFound, message) }

func Conflict(message ...string) *Exception { return newException(ecode.Conflict, message) }

func Gone(message ...string) *Exception { return newException(ecode.Expired, message) }

func EntityTooLarge(message ...string) *Exception {
	return newException(ecode.EntityTooLarge, message)
}

func InternalServer(message ...string) *Exception { return newException(ecode.ServerErr, message) }

func ServiceUnavailable(message ...string) *Exception {
	return newException(ecode.ServiceUnavailable, message)
}
