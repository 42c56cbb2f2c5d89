package database

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/akyairhashvil/worktime/internal/models"
	"github.com/akyairhashvil/worktime/internal/store"
	"github.com/rs/zerolog"
)

func setupTestDB(t *testing.T, ctx context.Context) *Database {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	db, err := Open(ctx, dbPath, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("db close failed: %v", err)
		}
	})
	return db
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	if err := db.Close(); err != nil {
		t.Fatalf("db close failed: %v", err)
	}
	again, err := Open(ctx, db.dbFile, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open second run failed: %v", err)
	}
	_ = again.Close()
}

func TestLoadFreshDatabaseUsesDefaults(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	res, err := db.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !res.Defaults || len(res.Entries) != 0 {
		t.Fatalf("expected defaults, got %+v", res)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	entries := []models.Entry{
		{Label: "Coding", Duration: models.Duration{Hours: 4, Minutes: 2, Seconds: 1}, Running: true},
		{Label: "Email", Duration: models.Duration{Minutes: 15}},
		{Label: ""},
	}
	if err := db.Save(ctx, entries); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	res, err := db.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if res.Defaults {
		t.Fatalf("saved database should not report defaults")
	}
	if !reflect.DeepEqual(res.Entries, entries) {
		t.Fatalf("round trip = %+v, want %+v", res.Entries, entries)
	}
	if _, ok := db.SavedAt(ctx); !ok {
		t.Fatalf("expected saved_at setting")
	}

	// a save of an empty registry is still a save, not defaults
	if err := db.Save(ctx, nil); err != nil {
		t.Fatalf("Save empty failed: %v", err)
	}
	res, err = db.Load(ctx)
	if err != nil || res.Defaults || len(res.Entries) != 0 {
		t.Fatalf("expected empty non-default result, got %+v, %v", res, err)
	}
}

func TestLoadMalformedRow(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	if err := db.Save(ctx, []models.Entry{{Label: "ok", Duration: models.Duration{Seconds: 5}}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := db.DB.ExecContext(ctx, "INSERT INTO timers (position, label, hours, minutes, seconds) VALUES (1, 'broken', NULL, -3, 2)"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	res, err := db.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(res.Entries))
	}
	if res.Entries[1].Label != "broken" || !res.Entries[1].Duration.IsZero() {
		t.Fatalf("malformed row should keep label with zero duration, got %+v", res.Entries[1])
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Line != 2 {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
}

func TestSaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	original := []models.Entry{{Label: "keep", Duration: models.Duration{Minutes: 1}}}
	if err := db.Save(ctx, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := db.DB.ExecContext(ctx, "DROP TABLE settings"); err != nil {
		t.Fatalf("drop settings failed: %v", err)
	}
	err := db.Save(ctx, []models.Entry{{Label: "lost"}})
	var pe *store.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	var count int
	if err := db.DB.QueryRowContext(ctx, "SELECT COUNT(1) FROM timers WHERE label = 'keep'").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("failed save should leave previous timers, found %d", count)
	}
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)
	if _, ok := db.GetSetting(ctx, "theme"); ok {
		t.Fatalf("expected missing setting")
	}
	if err := setSetting(ctx, db.DB, "theme", "dracula"); err != nil {
		t.Fatalf("setSetting failed: %v", err)
	}
	if err := setSetting(ctx, db.DB, "theme", "default"); err != nil {
		t.Fatalf("setSetting overwrite failed: %v", err)
	}
	if v, ok := db.GetSetting(ctx, "theme"); !ok || v != "default" {
		t.Fatalf("GetSetting = %q, %v", v, ok)
	}
}
