// Package store persists the ordered set of timers to a file.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akyairhashvil/worktime/internal/models"
	"github.com/rs/zerolog"
)

// Format names a persistence encoding.
type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// ParseFormat maps a setting value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML, FormatSQLite:
		return f, nil
	case "", "csv", "txt":
		return FormatText, nil
	case "yml":
		return FormatYAML, nil
	case "db", "sqlite3":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("unknown store format %q", s)
}

// FormatForPath guesses the format from a file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	}
	return FormatText
}

// DefaultFileName returns the file name used for a format in the data dir.
func DefaultFileName(f Format) string {
	switch f {
	case FormatJSON:
		return "timers.json"
	case FormatYAML:
		return "timers.yaml"
	case FormatSQLite:
		return "timers.db"
	}
	return "config.txt"
}

// Result is the outcome of a load.
type Result struct {
	Entries []models.Entry
	// Defaults is set when the storage location did not exist.
	Defaults bool
	// Skipped lists entries that were replaced by defaults.
	Skipped []*MalformedRecordError
}

// Store loads and saves the full ordered set of timers.
//
//go:generate mockgen -source=store.go -destination=../app/mock_store_test.go -package=app
type Store interface {
	Load(ctx context.Context) (Result, error)
	Save(ctx context.Context, entries []models.Entry) error
	Location() string
}

// SaveTimeReporter is implemented by stores that know when they were last
// written.
type SaveTimeReporter interface {
	SavedAt(ctx context.Context) (time.Time, bool)
}

func fileSavedAt(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// NewFileStore opens a file-backed store for the given format.
func NewFileStore(format Format, path string, logger zerolog.Logger) (Store, error) {
	switch format {
	case FormatText:
		return NewTextStore(path, logger), nil
	case FormatJSON, FormatYAML:
		return NewStructuredStore(path, format, logger), nil
	}
	return nil, fmt.Errorf("format %q is not file based", format)
}

func logSkipped(log zerolog.Logger, path string, skipped []*MalformedRecordError) {
	for _, s := range skipped {
		log.Warn().Str("path", path).Int("record", s.Line).Str("raw", s.Raw).Err(s.Err).
			Msg("malformed record replaced with defaults")
	}
}
