//go:build debug

package tracker

import "errors"

// AssertFound panics on unknown-handle errors in debug builds.
func AssertFound(err error) {
	if errors.Is(err, ErrNotFound) {
		panic(err)
	}
}
