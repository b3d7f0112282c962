package sqlite

import "time"

// SetNow replaces the clock used for updated_at timestamps.
func SetNow(d *DB, now func() time.Time) {
	d.now = now
}
