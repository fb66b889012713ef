package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/cargohold/logging/logger"
	"github.com/ncobase/cargohold/net/resp"
	"github.com/ncobase/cargohold/oss"
	"github.com/ncobase/cargohold/paging"
	"github.com/ncobase/cargohold/service"
	"github.com/ncobase/cargohold/validator"
)

// toException maps a service error onto an HTTP failure. Unknown errors
// become a 500 without leaking their text.
func toException(err error) *resp.Exception {
	var cursor *paging.CursorError
	switch {
	case errors.As(err, &cursor):
		return resp.BadRequest("Invalid " + cursor.Cursor + " id")
	case errors.Is(err, paging.ErrInvalidCursor):
		return resp.BadRequest("Invalid cursor")
	case errors.Is(err, service.ErrMissingTenant),
		errors.Is(err, service.ErrInvalidTenantID),
		errors.Is(err, service.ErrInvalidFileID):
		return resp.BadRequest(rootMessage(err))
	case errors.Is(err, service.ErrInvalidPurpose),
		errors.Is(err, service.ErrInvalidArgument):
		return resp.BadRequest(err.Error())
	case errors.Is(err, service.ErrFileTooLarge):
		return resp.EntityTooLarge(service.ErrFileTooLarge.Error())
	case errors.Is(err, service.ErrLinkExpired):
		return resp.Gone(service.ErrLinkExpired.Error())
	case errors.Is(err, service.ErrLinkKeyTaken):
		return resp.Conflict(service.ErrLinkKeyTaken.Error())
	case errors.Is(err, service.ErrNotFound):
		return resp.NotFound("Not found")
	case errors.Is(err, oss.ErrUnavailable):
		return resp.ServiceUnavailable("Storage unavailable")
	default:
		return resp.InternalServer("Internal server error")
	}
}

// rootMessage returns the text of the innermost sentinel.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// fail writes the failure for err. Server side failures are logged and
// attached to the gin context for the request span.
func fail(c *gin.Context, log *logger.Logger, action string, err error) {
	e := toException(err)
	if e.Status >= 500 {
		log.Error(c.Request.Context(), action+" failed", "error", err)
		_ = c.Error(err)
	} else {
		log.Warn(c.Request.Context(), action+" rejected", "error", err)
	}
	resp.Fail(c.Writer, e)
}

// bindFail rejects a request whose body or query failed to bind into obj.
func bindFail(c *gin.Context, log *logger.Logger, obj any, err error) {
	log.Warn(c.Request.Context(), "invalid request", "error", err)
	if fields := validator.Fields(obj, err); fields != nil {
		resp.Fail(c.Writer, resp.BadRequest(validator.Message(obj, err), fields))
		return
	}
	resp.Fail(c.Writer, resp.BadRequest(validator.Message(obj, err)))
}
