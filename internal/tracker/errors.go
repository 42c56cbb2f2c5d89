package tracker

import (
	"errors"
	"fmt"

	"github.com/akyairhashvil/worktime/internal/models"
)

var (
	ErrNotFound       = errors.New("timer not found")
	ErrAlreadyRunning = models.ErrAlreadyRunning
	ErrNotRunning     = models.ErrNotRunning
)

// NotFoundError reports an operation that referenced an unknown handle.
type NotFoundError struct {
	Op     string
	Handle models.Handle
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s timer %d: %v", e.Op, e.Handle, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func notFound(op string, h models.Handle) error {
	return &NotFoundError{Op: op, Handle: h}
}
