package service

import (
	"errors"
	"fmt"

	"github.com/ncobase/cargohold/data/repository"
)

var (
	// ErrNotFound is returned when the requested entity does not exist or is
	// not visible to the caller's tenant.
	ErrNotFound = repository.ErrNotFound

	ErrMissingTenant   = errors.New("Missing X-Tenant-ID header")
	ErrInvalidPurpose  = errors.New("Invalid purpose")
	ErrInvalidTenantID = errors.New("Invalid tenant_id")
	ErrInvalidFileID   = errors.New("Invalid file_id")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrFileTooLarge    = errors.New("File size exceeds maximum")
	ErrLinkExpired     = errors.New("Link expired")
	ErrLinkKeyTaken    = errors.New("Link key already in use")
)

// argumentError is a client mistake described by its message alone.
type argumentError struct{ msg string }

func (e *argumentError) Error() string { return e.msg }

func (e *argumentError) Is(target error) bool { return target == ErrInvalidArgument }

func invalidArgument(format string, args ...any) error {
	return &argumentError{msg: fmt.Sprintf(format, args...)}
}
