package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dsn(":memory:"))
	assert.Equal(t, "rsvp.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", dsn("rsvp.db"))
	assert.Equal(t, "file:rsvp.db?mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", dsn("file:rsvp.db?mode=rwc"))
}

func TestOpenAppliesSchema(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO events (event_type, title, date, location, slug, host_name, host_email)
		VALUES ('wedding', 'W', '2030-01-01 10:00', 'Hall', 'w-1', 'Host', 'host@example.com')`)
	require.NoError(t, err)

	var mealOptions, attendance, color string
	var active bool
	require.NoError(t, db.QueryRow(`SELECT meal_options, custom_attendance_options, theme_color, is_active FROM events WHERE slug = 'w-1'`).
		Scan(&mealOptions, &attendance, &color, &active))
	assert.Equal(t, "[]", mealOptions)
	assert.JSONEq(t, `["attending","not_attending"]`, attendance)
	assert.Equal(t, "#000000", color)
	assert.True(t, active)

	_, err = db.Exec(`INSERT INTO rsvps (event_id, guest_name, attendance_status, number_of_guests) VALUES (1, 'G', 'attending', 11)`)
	assert.Error(t, err, "number_of_guests above 10 must violate the check constraint")
	_, err = db.Exec(`INSERT INTO rsvps (event_id, guest_name, attendance_status, number_of_guests) VALUES (1, 'G', 'maybe', 1)`)
	assert.Error(t, err, "unknown attendance status must violate the check constraint")
	_, err = db.Exec(`INSERT INTO rsvps (event_id, guest_name, attendance_status, number_of_guests) VALUES (99, 'G', 'attending', 1)`)
	assert.Error(t, err, "unknown event must violate the foreign key")

	_, err = db.Exec(`INSERT INTO rsvps (event_id, guest_name, attendance_status, number_of_guests) VALUES (1, 'G', 'attending', 2)`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM events WHERE id = 1`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM rsvps`).Scan(&n))
	assert.Zero(t, n, "rsvps cascade with their event")
}

func TestOpenTwiceIsIdempotent(t *testing.T) {
	path := t.TempDir() + "/rsvp.db"
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
