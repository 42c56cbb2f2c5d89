package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/akyairhashvil/worktime/internal/models"
	"github.com/rs/zerolog"
)

// ErrTooFewFields marks a text line without the three duration fields.
var ErrTooFewFields = errors.New("expected label,hours,minutes,seconds")

var labelNewlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// TextStore keeps one timer per line as label,hours,minutes,seconds.
// Running state is not stored.
type TextStore struct {
	path string
	log  zerolog.Logger
}

func NewTextStore(path string, logger zerolog.Logger) *TextStore {
	return &TextStore{
		path: path,
		log:  logger.With().Str("component", "store").Str("format", string(FormatText)).Logger(),
	}
}

func (s *TextStore) Location() string { return s.path }

// SavedAt is the modification time of the file.
func (s *TextStore) SavedAt(context.Context) (time.Time, bool) { return fileSavedAt(s.path) }

func (s *TextStore) Load(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, wrapPersistErr("load", s.path, err)
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Info().Str("path", s.path).Msg("store not found, starting with defaults")
		return Result{Defaults: true}, nil
	}
	if err != nil {
		return Result{}, wrapPersistErr("load", s.path, err)
	}
	res := DecodeText(data)
	logSkipped(s.log, s.path, res.Skipped)
	s.log.Debug().Str("path", s.path).Int("entries", len(res.Entries)).Msg("loaded")
	return res, nil
}

func (s *TextStore) Save(ctx context.Context, entries []models.Entry) error {
	if err := ctx.Err(); err != nil {
		return wrapPersistErr("save", s.path, err)
	}
	data, err := EncodeText(entries)
	if err != nil {
		return wrapPersistErr("save", s.path, err)
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return wrapPersistErr("save", s.path, err)
	}
	s.log.Debug().Str("path", s.path).Int("entries", len(entries)).Msg("saved")
	return nil
}

// DecodeText decodes the line format. Blank lines are skipped; every other
// line yields exactly one entry even when it cannot be fully parsed.
func DecodeText(data []byte) Result {
	var res Result
	for i, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		entry, bad := parseTextLine(trimmed)
		if bad != nil {
			bad.Line = i + 1
			res.Skipped = append(res.Skipped, bad)
		}
		res.Entries = append(res.Entries, entry)
	}
	return res
}

func parseTextLine(line string) (models.Entry, *MalformedRecordError) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	fields, err := r.Read()
	if err != nil || len(fields) < 4 {
		// unquoted lines such as `"Quoted" project,1,2,3` do not survive the
		// CSV reader; read them the plain comma-split way
		return parsePlainLine(line, fields, err)
	}
	entry := models.Entry{Label: fields[0]}
	d, err := parseHMS(fields[1:4])
	if err != nil {
		return entry, &MalformedRecordError{Raw: line, Err: err}
	}
	entry.Duration = d
	return entry, nil
}

// parsePlainLine splits on every comma. The last three fields are the
// duration and everything before them is the label.
func parsePlainLine(line string, csvFields []string, csvErr error) (models.Entry, *MalformedRecordError) {
	parts := strings.Split(line, ",")
	if len(parts) < 4 {
		label := parts[0]
		if csvErr == nil && len(csvFields) > 0 {
			label = csvFields[0]
		}
		cause := csvErr
		if cause == nil {
			cause = ErrTooFewFields
		}
		return models.Entry{Label: label}, &MalformedRecordError{Raw: line, Err: cause}
	}
	n := len(parts) - 3
	entry := models.Entry{Label: strings.Join(parts[:n], ",")}
	d, err := parseHMS(parts[n:])
	if err != nil {
		return entry, &MalformedRecordError{Raw: line, Err: err}
	}
	entry.Duration = d
	return entry, nil
}

func parseHMS(fields []string) (models.Duration, error) {
	var parts [3]int
	for i := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return models.Duration{}, err
		}
		if n < 0 {
			return models.Duration{}, fmt.Errorf("negative value %d", n)
		}
		parts[i] = n
	}
	return models.HMS(parts[0], parts[1], parts[2]), nil
}

// EncodeText encodes entries in the line format. Newlines in labels become
// spaces; labels with commas or quotes are CSV-quoted.
func EncodeText(entries []models.Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, e := range entries {
		d := e.Duration
		record := []string{
			labelNewlines.Replace(e.Label),
			strconv.Itoa(d.Hours),
			strconv.Itoa(d.Minutes),
			strconv.Itoa(d.Seconds),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
