package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/rsvp/internal/model"
)

type RSVPStore struct {
	db *sql.DB
}

func NewRSVPStore(db *sql.DB) *RSVPStore {
	return &RSVPStore{db: db}
}

func scanRSVP(scanner interface{ Scan(...any) error }) (*model.RSVP, error) {
	var r model.RSVP
	var email, phone, plusOneName, message, ip, ua sql.NullString
	var hasPlusOne int
	var mealChoices string

	err := scanner.Scan(
		&r.ID, &r.EventID, &r.GuestName, &email, &phone, &r.AttendanceStatus, &r.NumberOfGuests,
		&hasPlusOne, &plusOneName, &mealChoices, &message, &ip, &ua, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.GuestEmail = nullString(email)
	r.GuestPhone = nullString(phone)
	r.PlusOneName = nullString(plusOneName)
	r.Message = nullString(message)
	r.IPAddress = nullString(ip)
	r.UserAgent = nullString(ua)
	r.HasPlusOne = hasPlusOne != 0
	if r.MealChoices, err = decodeList(mealChoices); err != nil {
		return nil, fmt.Errorf("decode meal choices: %w", err)
	}
	return &r, nil
}

const rsvpCols = `id, event_id, guest_name, guest_email, guest_phone, attendance_status, number_of_guests,
	has_plusone, plusone_name, meal_choices, message, ip_address, user_agent, created_at, updated_at`

// Create always inserts a new response. Repeat submissions under the same
// guest name are kept as separate rows.
func (s *RSVPStore) Create(ctx context.Context, r *model.RSVP) (*model.RSVP, error) {
	mealChoices, err := encodeList(r.MealChoices)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO rsvps (event_id, guest_name, guest_email, guest_phone, attendance_status,
			number_of_guests, has_plusone, plusone_name, meal_choices, message, ip_address, user_agent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.EventID, r.GuestName, toNullString(r.GuestEmail), toNullString(r.GuestPhone),
		r.AttendanceStatus, r.NumberOfGuests, boolInt(r.HasPlusOne), toNullString(r.PlusOneName),
		mealChoices, toNullString(r.Message), toNullString(r.IPAddress), toNullString(r.UserAgent),
	)
	if err != nil {
		return nil, fmt.Errorf("insert rsvp: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *RSVPStore) GetByID(ctx context.Context, id int64) (*model.RSVP, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+rsvpCols+` FROM rsvps WHERE id = ?`, id)
	r, err := scanRSVP(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rsvp: %w", err)
	}
	return r, nil
}

// ListByEvent returns the event's responses, newest first.
func (s *RSVPStore) ListByEvent(ctx context.Context, eventID int64) ([]model.RSVP, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+rsvpCols+` FROM rsvps WHERE event_id = ? ORDER BY created_at DESC, id DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	defer rows.Close()

	var rsvps []model.RSVP
	for rows.Next() {
		r, err := scanRSVP(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rsvp: %w", err)
		}
		rsvps = append(rsvps, *r)
	}
	return rsvps, rows.Err()
}

// Delete hard-deletes one response of the given event. It reports whether
// a row was removed.
func (s *RSVPStore) Delete(ctx context.Context, id, eventID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM rsvps WHERE id = ? AND event_id = ?`, id, eventID)
	if err != nil {
		return false, fmt.Errorf("delete rsvp: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
