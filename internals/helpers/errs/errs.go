package errs

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrNotFound marks a missing root record (template, session, element).
// Missing children are not an error: reads degrade to emptier structures.
var ErrNotFound = errors.New("record not found")

// NotFound wraps ErrNotFound with the record kind for logging.
func NotFound(kind string) error {
	return fmt.Errorf("%s: %w", kind, ErrNotFound)
}

// PartialDataError: a lower-level fetch failed after the root succeeded.
// The caller recovers locally by serving the hierarchy built so far; the
// cause stays attached for operator visibility.
type PartialDataError struct {
	Stage string // which fetch failed ("tasks", "elements", ...)
	Cause error
}

func (e *PartialDataError) Error() string {
	return fmt.Sprintf("partial data: %s fetch failed: %v", e.Stage, e.Cause)
}

func (e *PartialDataError) Unwrap() error { return e.Cause }

// PersistenceError: a ledger write failed. Never retried automatically;
// surfaced to the caller so the UI can offer a retry.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s failed: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

// AsPartialData reports whether err is (or wraps) a PartialDataError.
func AsPartialData(err error) (*PartialDataError, bool) {
	var pe *PartialDataError
	ok := errors.As(err, &pe)
	return pe, ok
}

// ToFiber maps a service error onto the HTTP status the controllers use.
func ToFiber(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		var pe *PersistenceError
		if errors.As(err, &pe) {
			return fiber.NewError(fiber.StatusInternalServerError, pe.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
