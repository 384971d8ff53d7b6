package model

import "time"

const (
	EventTypeWedding      = "wedding"
	EventTypeEngagement   = "engagement"
	EventTypeBirthday     = "birthday"
	EventTypeBabyShower   = "baby_shower"
	EventTypeBridalShower = "bridal_shower"
	EventTypeCorporate    = "corporate"
	EventTypeAnniversary  = "anniversary"
	EventTypeGraduation   = "graduation"
	EventTypeCustom       = "custom"
)

// EventTypes lists every accepted event_type value.
var EventTypes = []string{
	EventTypeWedding, EventTypeEngagement, EventTypeBirthday, EventTypeBabyShower,
	EventTypeBridalShower, EventTypeCorporate, EventTypeAnniversary, EventTypeGraduation,
	EventTypeCustom,
}

const DefaultThemeColor = "#000000"

// DefaultAttendanceOptions is stored when an event does not customise its options.
var DefaultAttendanceOptions = []string{AttendanceAttending, AttendanceNotAttending}

type Event struct {
	ID                      int64     `json:"id"`
	EventType               string    `json:"event_type"`
	Title                   string    `json:"title"`
	Date                    string    `json:"date"`
	Location                string    `json:"location"`
	LocationURL             *string   `json:"location_url"`
	DressCode               *string   `json:"dress_code"`
	ProgramNotes            *string   `json:"program_notes"`
	RSVPDeadline            *string   `json:"rsvp_deadline"`
	AllowPlusOne            bool      `json:"allow_plusone"`
	RequireMealChoice       bool      `json:"require_meal_choice"`
	MealOptions             []string  `json:"meal_options"`
	CustomAttendanceOptions []string  `json:"custom_attendance_options"`
	Slug                    string    `json:"slug"`
	ThemeColor              string    `json:"theme_color"`
	CoverImageURL           *string   `json:"cover_image_url"`
	HostName                string    `json:"host_name"`
	HostEmail               string    `json:"host_email"`
	IsActive                bool      `json:"is_active"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// PublicEvent is the view served to guests. It omits the host's email.
type PublicEvent struct {
	ID                      int64    `json:"id"`
	EventType               string   `json:"event_type"`
	Title                   string   `json:"title"`
	Date                    string   `json:"date"`
	Location                string   `json:"location"`
	LocationURL             *string  `json:"location_url"`
	DressCode               *string  `json:"dress_code"`
	ProgramNotes            *string  `json:"program_notes"`
	RSVPDeadline            *string  `json:"rsvp_deadline"`
	AllowPlusOne            bool     `json:"allow_plusone"`
	RequireMealChoice       bool     `json:"require_meal_choice"`
	MealOptions             []string `json:"meal_options"`
	CustomAttendanceOptions []string `json:"custom_attendance_options"`
	Slug                    string   `json:"slug"`
	ThemeColor              string   `json:"theme_color"`
	CoverImageURL           *string  `json:"cover_image_url"`
	HostName                string   `json:"host_name"`
	RSVPOpen                bool     `json:"rsvp_open"`
}

func (e *Event) Public(rsvpOpen bool) PublicEvent {
	return PublicEvent{
		ID:                      e.ID,
		EventType:               e.EventType,
		Title:                   e.Title,
		Date:                    e.Date,
		Location:                e.Location,
		LocationURL:             e.LocationURL,
		DressCode:               e.DressCode,
		ProgramNotes:            e.ProgramNotes,
		RSVPDeadline:            e.RSVPDeadline,
		AllowPlusOne:            e.AllowPlusOne,
		RequireMealChoice:       e.RequireMealChoice,
		MealOptions:             e.MealOptions,
		CustomAttendanceOptions: e.CustomAttendanceOptions,
		Slug:                    e.Slug,
		ThemeColor:              e.ThemeColor,
		CoverImageURL:           e.CoverImageURL,
		HostName:                e.HostName,
		RSVPOpen:                rsvpOpen,
	}
}
