//go:build !debug

package tracker

// AssertFound panics on unknown-handle errors in debug builds.
func AssertFound(error) {}
