// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"time"

	"github.com/akyairhashvil/worktime/internal/models"
)

// Epoch is a fixed start time for manual clocks.
var Epoch = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

// EntryBuilder provides fluent API for creating persisted timer entries.
type EntryBuilder struct {
	entry models.Entry
}

func NewEntry() *EntryBuilder {
	return &EntryBuilder{entry: models.Entry{Label: "Test Timer"}}
}

func (b *EntryBuilder) WithLabel(l string) *EntryBuilder {
	b.entry.Label = l
	return b
}

func (b *EntryBuilder) WithHMS(h, m, s int) *EntryBuilder {
	b.entry.Duration = models.HMS(h, m, s)
	return b
}

func (b *EntryBuilder) Running() *EntryBuilder {
	b.entry.Running = true
	return b
}

func (b *EntryBuilder) Build() models.Entry {
	return b.entry
}

// Entries builds one idle, zero-duration entry per label.
func Entries(labels ...string) []models.Entry {
	out := make([]models.Entry, 0, len(labels))
	for _, l := range labels {
		out = append(out, NewEntry().WithLabel(l).Build())
	}
	return out
}
