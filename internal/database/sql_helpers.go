package database

import "database/sql"

// nullableInt converts a scanned column to int, treating NULL as zero.
// The second result is false for NULL or negative values.
func nullableInt(v sql.NullInt64) (int, bool) {
	if !v.Valid || v.Int64 < 0 {
		return 0, false
	}
	return int(v.Int64), true
}

// nullableString converts a scanned column to string, treating NULL as empty.
func nullableString(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}
