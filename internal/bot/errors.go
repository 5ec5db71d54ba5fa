package bot

import (
	"errors"
	"fmt"

	"github.com/m3rciful/subbot/internal/access"
)

// Error codes reported in handler summaries as err_code.
const (
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeUsage            = "USAGE"
	CodeNotFound         = "NOT_FOUND"
)

var (
	// ErrPermissionDenied is the access package sentinel, re-exported for callers of the controller.
	ErrPermissionDenied = access.ErrPermissionDenied
	// ErrUsage marks missing or malformed command arguments.
	ErrUsage = errors.New("bot: usage")
	// ErrNotFound marks a delete or toggle that referenced nothing.
	ErrNotFound = errors.New("bot: not found")
)

// DomainError is a failure the controller already turned into a reply.
// It carries a stable code and unwraps to one of the sentinels above.
type DomainError struct {
	code    string
	Message string
	err     error
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.Message)
}

// Code returns the stable error code.
func (e *DomainError) Code() string { return e.code }

func (e *DomainError) Unwrap() error { return e.err }

func domainError(code, message string, sentinel error) *DomainError {
	return &DomainError{code: code, Message: message, err: sentinel}
}

func permissionDenied(message string) *DomainError {
	return domainError(CodePermissionDenied, message, ErrPermissionDenied)
}

func usageError(message string) *DomainError {
	return domainError(CodeUsage, message, ErrUsage)
}

func notFound(message string) *DomainError {
	return domainError(CodeNotFound, message, ErrNotFound)
}

// Outcome maps a reply error to the handler summary outcome.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrPermissionDenied):
		return "denied"
	case errors.Is(err, ErrUsage):
		return "usage"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "fail"
	}
}
