package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dukerupert/rsvp/internal/model"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

func scanEvent(scanner interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	var locationURL, dressCode, programNotes, deadline, coverImage sql.NullString
	var allowPlusOne, requireMeal, active int
	var mealOptions, attendanceOptions string

	err := scanner.Scan(
		&e.ID, &e.EventType, &e.Title, &e.Date, &e.Location, &locationURL, &dressCode,
		&programNotes, &deadline, &allowPlusOne, &requireMeal, &mealOptions, &attendanceOptions,
		&e.Slug, &e.ThemeColor, &coverImage, &e.HostName, &e.HostEmail, &active,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.LocationURL = nullString(locationURL)
	e.DressCode = nullString(dressCode)
	e.ProgramNotes = nullString(programNotes)
	e.RSVPDeadline = nullString(deadline)
	e.CoverImageURL = nullString(coverImage)
	e.AllowPlusOne = allowPlusOne != 0
	e.RequireMealChoice = requireMeal != 0
	e.IsActive = active != 0

	if e.MealOptions, err = decodeList(mealOptions); err != nil {
		return nil, fmt.Errorf("decode meal options: %w", err)
	}
	if e.CustomAttendanceOptions, err = decodeList(attendanceOptions); err != nil {
		return nil, fmt.Errorf("decode attendance options: %w", err)
	}
	return &e, nil
}

const eventCols = `id, event_type, title, date, location, location_url, dress_code, program_notes,
	rsvp_deadline, allow_plusone, require_meal_choice, meal_options, custom_attendance_options,
	slug, theme_color, cover_image_url, host_name, host_email, is_active, created_at, updated_at`

// Create inserts e and returns the stored row. Slug must already be set.
func (s *EventStore) Create(ctx context.Context, e *model.Event) (*model.Event, error) {
	mealOptions, err := encodeList(e.MealOptions)
	if err != nil {
		return nil, err
	}
	attendanceOptions, err := encodeList(e.CustomAttendanceOptions)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO events (event_type, title, date, location, location_url, dress_code, program_notes,
			rsvp_deadline, allow_plusone, require_meal_choice, meal_options, custom_attendance_options,
			slug, theme_color, cover_image_url, host_name, host_email)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.EventType, e.Title, e.Date, e.Location, toNullString(e.LocationURL), toNullString(e.DressCode),
		toNullString(e.ProgramNotes), toNullString(e.RSVPDeadline), boolInt(e.AllowPlusOne),
		boolInt(e.RequireMealChoice), mealOptions, attendanceOptions, e.Slug, e.ThemeColor,
		toNullString(e.CoverImageURL), e.HostName, e.HostEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *EventStore) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventCols+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// GetBySlug returns the event regardless of is_active. Owners still see
// soft-deleted events.
func (s *EventStore) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventCols+` FROM events WHERE slug = ?`, slug)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	return e, nil
}

// GetActiveBySlug is the lookup behind public RSVP pages.
func (s *EventStore) GetActiveBySlug(ctx context.Context, slug string) (*model.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventCols+` FROM events WHERE slug = ? AND is_active = 1`, slug)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active event by slug: %w", err)
	}
	return e, nil
}

// ListActiveByHost returns the host's active events, newest first.
func (s *EventStore) ListActiveByHost(ctx context.Context, hostEmail string) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventCols+` FROM events WHERE host_email = ? AND is_active = 1 ORDER BY created_at DESC, id DESC`,
		hostEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("list events by host: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// Update writes the mutable fields of e. The row must belong to hostEmail;
// otherwise nothing changes and nil is returned.
func (s *EventStore) Update(ctx context.Context, e *model.Event, hostEmail string) (*model.Event, error) {
	mealOptions, err := encodeList(e.MealOptions)
	if err != nil {
		return nil, err
	}
	attendanceOptions, err := encodeList(e.CustomAttendanceOptions)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE events SET event_type = ?, title = ?, date = ?, location = ?, location_url = ?,
			dress_code = ?, program_notes = ?, rsvp_deadline = ?, allow_plusone = ?,
			require_meal_choice = ?, meal_options = ?, custom_attendance_options = ?,
			theme_color = ?, cover_image_url = ?, updated_at = datetime('now')
		WHERE id = ? AND host_email = ?`,
		e.EventType, e.Title, e.Date, e.Location, toNullString(e.LocationURL),
		toNullString(e.DressCode), toNullString(e.ProgramNotes), toNullString(e.RSVPDeadline),
		boolInt(e.AllowPlusOne), boolInt(e.RequireMealChoice), mealOptions, attendanceOptions,
		e.ThemeColor, toNullString(e.CoverImageURL), e.ID, hostEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return s.GetByID(ctx, e.ID)
}

// Deactivate soft-deletes the event. It reports whether a row owned by
// hostEmail was found.
func (s *EventStore) Deactivate(ctx context.Context, id int64, hostEmail string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE events SET is_active = 0, updated_at = datetime('now') WHERE id = ? AND host_email = ?`,
		id, hostEmail,
	)
	if err != nil {
		return false, fmt.Errorf("deactivate event: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *EventStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE slug = ?)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	list := []string{}
	if raw == "" {
		return list, nil
	}
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}
	return list, nil
}
