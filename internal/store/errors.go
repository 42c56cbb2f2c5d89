package store

import (
	"fmt"
)

// PersistenceError reports an I/O failure while loading or saving timers.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e == nil {
		return ""
	}
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func wrapPersistErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Path: path, Err: err}
}

// MalformedRecordError describes one stored entry that could not be parsed.
// Loading recovers from it by substituting a default entry.
type MalformedRecordError struct {
	Line int // 1-based line or list position
	Raw  string
	Err  error
}

func (e *MalformedRecordError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("malformed record %d (%q): %v", e.Line, e.Raw, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }
