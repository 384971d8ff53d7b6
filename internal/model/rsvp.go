package model

import "time"

const (
	AttendanceAttending    = "attending"
	AttendanceNotAttending = "not_attending"
)

const (
	MinGuests = 1
	MaxGuests = 10
)

type RSVP struct {
	ID               int64     `json:"id"`
	EventID          int64     `json:"event_id"`
	GuestName        string    `json:"guest_name"`
	GuestEmail       *string   `json:"guest_email"`
	GuestPhone       *string   `json:"guest_phone"`
	AttendanceStatus string    `json:"attendance_status"`
	NumberOfGuests   int       `json:"number_of_guests"`
	HasPlusOne       bool      `json:"has_plusone"`
	PlusOneName      *string   `json:"plusone_name"`
	MealChoices      []string  `json:"meal_choices"`
	Message          *string   `json:"message"`
	IPAddress        *string   `json:"ip_address,omitempty"`
	UserAgent        *string   `json:"user_agent,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RSVPStats summarises the responses of one event. Head-counts sum number_of_guests.
type RSVPStats struct {
	TotalResponses int `json:"total_responses"`
	Attending      int `json:"attending"`
	NotAttending   int `json:"not_attending"`
	TotalGuests    int `json:"total_guests"`
}
