package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/akyairhashvil/worktime/internal/models"
	"github.com/akyairhashvil/worktime/internal/util"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Defaults applied to missing fields of a structured entry.
const (
	DefaultTimerName = "New Timer"
	defaultNumber    = "00"
)

// numField is a string-encoded integer. JSON numbers are accepted too.
type numField string

func (n *numField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = numField(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = numField(num.String())
	return nil
}

func padded(v int) numField { return numField(fmt.Sprintf("%02d", v)) }

func (n *numField) value() (int, error) {
	s := defaultNumber
	if n != nil {
		s = string(*n)
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value %d", v)
	}
	return v, nil
}

type structuredEntry struct {
	Name    *string   `json:"name" yaml:"name"`
	Hours   *numField `json:"hours" yaml:"hours"`
	Minutes *numField `json:"minutes" yaml:"minutes"`
	Seconds *numField `json:"seconds" yaml:"seconds"`
	Running *bool     `json:"running" yaml:"running"`
}

// StructuredStore keeps timers as a list of objects with name, hours,
// minutes, seconds and running fields, encoded as JSON or YAML.
type StructuredStore struct {
	path   string
	format Format
	log    zerolog.Logger
}

func NewStructuredStore(path string, format Format, logger zerolog.Logger) *StructuredStore {
	if format != FormatYAML {
		format = FormatJSON
	}
	return &StructuredStore{
		path:   path,
		format: format,
		log:    logger.With().Str("component", "store").Str("format", string(format)).Logger(),
	}
}

func (s *StructuredStore) Location() string { return s.path }

func (s *StructuredStore) SavedAt(context.Context) (time.Time, bool) { return fileSavedAt(s.path) }

func (s *StructuredStore) Load(ctx context.Context) (Result, error) {
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
	var res Result
	if s.format == FormatYAML {
		res, err = DecodeYAML(data)
	} else {
		res, err = DecodeJSON(data)
	}
	if err != nil {
		return Result{}, wrapPersistErr("load", s.path, err)
	}
	logSkipped(s.log, s.path, res.Skipped)
	s.log.Debug().Str("path", s.path).Int("entries", len(res.Entries)).Msg("loaded")
	return res, nil
}

func (s *StructuredStore) Save(ctx context.Context, entries []models.Entry) error {
	if err := ctx.Err(); err != nil {
		return wrapPersistErr("save", s.path, err)
	}
	var (
		data []byte
		err  error
	)
	if s.format == FormatYAML {
		data, err = EncodeYAML(entries)
	} else {
		data, err = EncodeJSON(entries)
	}
	if err != nil {
		return wrapPersistErr("save", s.path, err)
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return wrapPersistErr("save", s.path, err)
	}
	s.log.Debug().Str("path", s.path).Int("entries", len(entries)).Msg("saved")
	return nil
}

// DecodeJSON parses a JSON list of timer objects. An entry that cannot be
// decoded becomes a default timer; only a document that is not a list fails.
func DecodeJSON(data []byte) (Result, error) {
	var res Result
	if len(bytes.TrimSpace(data)) == 0 {
		return res, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return res, fmt.Errorf("decode timer list: %w", err)
	}
	for i, msg := range raw {
		var se structuredEntry
		err := json.Unmarshal(msg, &se)
		res.add(i+1, string(msg), se, err)
	}
	return res, nil
}

// DecodeYAML is the YAML counterpart of DecodeJSON.
func DecodeYAML(data []byte) (Result, error) {
	var res Result
	var nodes []yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return res, fmt.Errorf("decode timer list: %w", err)
	}
	for i := range nodes {
		var se structuredEntry
		err := nodes[i].Decode(&se)
		raw, _ := yaml.Marshal(&nodes[i])
		res.add(i+1, strings.TrimSpace(string(raw)), se, err)
	}
	return res, nil
}

func (r *Result) add(pos int, raw string, se structuredEntry, decodeErr error) {
	if decodeErr != nil {
		r.Entries = append(r.Entries, models.Entry{Label: DefaultTimerName})
		r.Skipped = append(r.Skipped, &MalformedRecordError{Line: pos, Raw: raw, Err: decodeErr})
		return
	}
	entry, err := se.entry()
	if err != nil {
		r.Skipped = append(r.Skipped, &MalformedRecordError{Line: pos, Raw: raw, Err: err})
	}
	r.Entries = append(r.Entries, entry)
}

func (se structuredEntry) entry() (models.Entry, error) {
	e := models.Entry{Label: DefaultTimerName, Running: util.Deref(se.Running)}
	if se.Name != nil {
		e.Label = *se.Name
	}
	h, err := se.Hours.value()
	if err != nil {
		return e, fmt.Errorf("hours: %w", err)
	}
	m, err := se.Minutes.value()
	if err != nil {
		return e, fmt.Errorf("minutes: %w", err)
	}
	s, err := se.Seconds.value()
	if err != nil {
		return e, fmt.Errorf("seconds: %w", err)
	}
	e.Duration = models.HMS(h, m, s)
	return e, nil
}

func toStructured(entries []models.Entry) []structuredEntry {
	out := make([]structuredEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, structuredEntry{
			Name:    util.Ptr(e.Label),
			Hours:   util.Ptr(padded(e.Duration.Hours)),
			Minutes: util.Ptr(padded(e.Duration.Minutes)),
			Seconds: util.Ptr(padded(e.Duration.Seconds)),
			Running: util.Ptr(e.Running),
		})
	}
	return out
}

// EncodeJSON writes entries as an indented JSON list.
func EncodeJSON(entries []models.Entry) ([]byte, error) {
	data, err := json.MarshalIndent(toStructured(entries), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// EncodeYAML writes entries as a YAML sequence.
func EncodeYAML(entries []models.Entry) ([]byte, error) {
	return yaml.Marshal(toStructured(entries))
}
