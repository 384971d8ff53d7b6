package store

import (
	"database/sql"
	"testing"

	"github.com/dukerupert/rsvp/internal/database"
	"github.com/dukerupert/rsvp/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestEvent(slug, hostEmail string) *model.Event {
	return &model.Event{
		EventType:               model.EventTypeWedding,
		Title:                   "Sarah's Wedding",
		Date:                    "2026-06-20 16:00",
		Location:                "Old Mill, Bozeman",
		AllowPlusOne:            true,
		MealOptions:             []string{"Beef", "Fish"},
		CustomAttendanceOptions: model.DefaultAttendanceOptions,
		Slug:                    slug,
		ThemeColor:              model.DefaultThemeColor,
		HostName:                "Sarah",
		HostEmail:               hostEmail,
	}
}
