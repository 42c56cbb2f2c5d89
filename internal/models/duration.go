package models

import (
	"fmt"
	"time"
)

// Duration is an elapsed-time value kept normalized: Minutes and Seconds are
// always in [0, 59] and overflow is carried into Hours.
type Duration struct {
	Hours   int
	Minutes int
	Seconds int
}

// Normalize decomposes a number of seconds into hours, minutes and seconds.
// Negative input clamps to zero.
func Normalize(totalSeconds int64) Duration {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return Duration{
		Hours:   int(totalSeconds / 3600),
		Minutes: int((totalSeconds % 3600) / 60),
		Seconds: int(totalSeconds % 60),
	}
}

// FromStd converts a time.Duration, dropping fractions of a second.
func FromStd(d time.Duration) Duration {
	return Normalize(int64(d / time.Second))
}

// HMS builds a Duration from possibly unnormalized parts.
func HMS(hours, minutes, seconds int) Duration {
	return Normalize(int64(hours)*3600 + int64(minutes)*60 + int64(seconds))
}

// TotalSeconds returns the duration expressed in seconds.
func (d Duration) TotalSeconds() int64 {
	return int64(d.Hours)*3600 + int64(d.Minutes)*60 + int64(d.Seconds)
}

// Std converts to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d.TotalSeconds()) * time.Second
}

func (d Duration) IsZero() bool {
	return d.TotalSeconds() == 0
}

// Add sums two durations.
func Add(a, b Duration) Duration {
	return Normalize(a.TotalSeconds() + b.TotalSeconds())
}

// Add returns d + other.
func (d Duration) Add(other Duration) Duration {
	return Add(d, other)
}

func (d Duration) String() string {
	return fmt.Sprintf("%d hours %d minutes %d seconds", d.Hours, d.Minutes, d.Seconds)
}

// Clock renders the duration as HH:MM:SS.
func (d Duration) Clock() string {
	return fmt.Sprintf("%02d:%02d:%02d", d.Hours, d.Minutes, d.Seconds)
}
