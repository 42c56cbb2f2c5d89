package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/akyairhashvil/worktime/internal/models"
	"github.com/akyairhashvil/worktime/internal/store"
	"github.com/akyairhashvil/worktime/internal/util"
)

const savedAtKey = "saved_at"

var _ store.Store = (*Database)(nil)

func (d *Database) Location() string { return d.dbFile }

// Load reads every timer in position order. A database that has never been
// saved to reports Defaults.
func (d *Database) Load(ctx context.Context) (store.Result, error) {
	ctx, cancel := d.withTimeout(ctx, defaultDBTimeout)
	defer cancel()

	var res store.Result
	if _, ok := d.GetSetting(ctx, savedAtKey); !ok {
		var count int
		if err := d.DB.QueryRowContext(ctx, "SELECT COUNT(1) FROM timers").Scan(&count); err != nil {
			return res, &store.PersistenceError{Op: "load", Path: d.dbFile, Err: wrapTimerErr("count", 0, err)}
		}
		if count == 0 {
			d.log.Info().Str("path", d.dbFile).Msg("no saved timers, starting with defaults")
			res.Defaults = true
			return res, nil
		}
	}

	rows, err := d.DB.QueryContext(ctx, `
		SELECT id, label, hours, minutes, seconds, running
		FROM timers
		ORDER BY position ASC, id ASC`)
	if err != nil {
		return res, &store.PersistenceError{Op: "load", Path: d.dbFile, Err: wrapTimerErr("list", 0, err)}
	}
	defer rows.Close()

	pos := 0
	for rows.Next() {
		pos++
		var r timerRow
		if err := rows.Scan(&r.ID, &r.Label, &r.Hours, &r.Minutes, &r.Seconds, &r.Running); err != nil {
			res.Entries = append(res.Entries, models.Entry{})
			res.Skipped = append(res.Skipped, &store.MalformedRecordError{Line: pos, Err: err})
			continue
		}
		entry, bad := r.entry()
		if bad != nil {
			bad.Line = pos
			res.Skipped = append(res.Skipped, bad)
		}
		res.Entries = append(res.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return store.Result{}, &store.PersistenceError{Op: "load", Path: d.dbFile, Err: wrapTimerErr("list", 0, err)}
	}
	for _, s := range res.Skipped {
		d.log.Warn().Int("record", s.Line).Err(s.Err).Msg("malformed timer row replaced with defaults")
	}
	return res, nil
}

// Save replaces the stored timers with entries in one transaction.
func (d *Database) Save(ctx context.Context, entries []models.Entry) error {
	ctx, cancel := d.withTimeout(ctx, defaultDBTimeout)
	defer cancel()

	fail := func(err error) error {
		return &store.PersistenceError{Op: "save", Path: d.dbFile, Err: err}
	}
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return fail(err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM timers"); err != nil {
		return fail(rollbackWithLog(d.log, tx, wrapTimerErr("clear", 0, err)))
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO timers (position, label, hours, minutes, seconds, running)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fail(rollbackWithLog(d.log, tx, err))
	}
	defer stmt.Close()
	for i, e := range entries {
		dur := e.Duration
		if _, err := stmt.ExecContext(ctx, i, e.Label, dur.Hours, dur.Minutes, dur.Seconds, util.BoolToInt(e.Running)); err != nil {
			return fail(rollbackWithLog(d.log, tx, wrapTimerErr("insert", int64(i+1), err)))
		}
	}
	if err := setSetting(ctx, tx, savedAtKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fail(rollbackWithLog(d.log, tx, err))
	}
	if err := tx.Commit(); err != nil {
		return fail(err)
	}
	d.log.Debug().Int("entries", len(entries)).Msg("saved")
	return nil
}

// SavedAt reports when the timers were last saved.
func (d *Database) SavedAt(ctx context.Context) (time.Time, bool) {
	v, ok := d.GetSetting(ctx, savedAtKey)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type timerRow struct {
	ID      int64
	Label   sql.NullString
	Hours   sql.NullInt64
	Minutes sql.NullInt64
	Seconds sql.NullInt64
	Running sql.NullInt64
}

func (r timerRow) entry() (models.Entry, *store.MalformedRecordError) {
	e := models.Entry{Label: nullableString(r.Label)}
	running, _ := nullableInt(r.Running)
	e.Running = util.IntToBool(running)
	h, okH := nullableInt(r.Hours)
	m, okM := nullableInt(r.Minutes)
	s, okS := nullableInt(r.Seconds)
	if !okH || !okM || !okS {
		return e, &store.MalformedRecordError{
			Raw: fmt.Sprintf("id=%d label=%q", r.ID, e.Label),
			Err: fmt.Errorf("invalid duration columns"),
		}
	}
	e.Duration = models.HMS(h, m, s)
	return e, nil
}
