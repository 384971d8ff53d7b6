package event

import (
	"net/mail"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/dukerupert/rsvp/internal/apperr"
	"github.com/dukerupert/rsvp/internal/model"
)

var hexColorRegexp = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Input is the body of an event creation request.
type Input struct {
	EventType               string   `json:"event_type"`
	Title                   string   `json:"title"`
	Date                    string   `json:"date"`
	Location                string   `json:"location"`
	LocationURL             string   `json:"location_url"`
	DressCode               string   `json:"dress_code"`
	ProgramNotes            string   `json:"program_notes"`
	RSVPDeadline            string   `json:"rsvp_deadline"`
	AllowPlusOne            *bool    `json:"allow_plusone"`
	RequireMealChoice       bool     `json:"require_meal_choice"`
	MealOptions             []string `json:"meal_options"`
	CustomAttendanceOptions []string `json:"custom_attendance_options"`
	ThemeColor              string   `json:"theme_color"`
	CoverImageURL           string   `json:"cover_image_url"`
	HostName                string   `json:"host_name"`
	HostEmail               string   `json:"host_email"`
}

// Build validates in and returns an unsaved event without a slug.
func (in Input) Build() (*model.Event, error) {
	e := &model.Event{
		EventType:         strings.TrimSpace(in.EventType),
		Title:             strings.TrimSpace(in.Title),
		Location:          strings.TrimSpace(in.Location),
		LocationURL:       optional(in.LocationURL),
		DressCode:         optional(in.DressCode),
		ProgramNotes:      optional(in.ProgramNotes),
		AllowPlusOne:      true,
		RequireMealChoice: in.RequireMealChoice,
		MealOptions:       cleanList(in.MealOptions),
		ThemeColor:        strings.TrimSpace(in.ThemeColor),
		CoverImageURL:     optional(in.CoverImageURL),
		HostName:          strings.TrimSpace(in.HostName),
		HostEmail:         strings.TrimSpace(in.HostEmail),
		IsActive:          true,
	}
	if in.AllowPlusOne != nil {
		e.AllowPlusOne = *in.AllowPlusOne
	}
	if e.EventType == "" {
		e.EventType = model.EventTypeCustom
	}
	if e.ThemeColor == "" {
		e.ThemeColor = model.DefaultThemeColor
	}
	e.CustomAttendanceOptions = cleanList(in.CustomAttendanceOptions)
	if len(e.CustomAttendanceOptions) == 0 {
		e.CustomAttendanceOptions = slices.Clone(model.DefaultAttendanceOptions)
	}

	switch {
	case e.Title == "":
		return nil, apperr.Invalid("title is required")
	case e.Location == "":
		return nil, apperr.Invalid("location is required")
	case e.HostName == "":
		return nil, apperr.Invalid("host name is required")
	case e.HostEmail == "":
		return nil, apperr.Invalid("host email is required")
	}
	if _, err := mail.ParseAddress(e.HostEmail); err != nil {
		return nil, apperr.Invalid("host email is not a valid email address")
	}

	date, err := NormalizeWallClock(in.Date)
	if err != nil {
		return nil, apperr.Invalid("date must be formatted YYYY-MM-DD HH:MM")
	}
	e.Date = date
	if e.RSVPDeadline, err = optionalWallClock(in.RSVPDeadline); err != nil {
		return nil, err
	}

	if err := validate(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Patch is the body of an event update request. Nil fields are left as they are.
type Patch struct {
	EventType               *string   `json:"event_type"`
	Title                   *string   `json:"title"`
	Date                    *string   `json:"date"`
	Location                *string   `json:"location"`
	LocationURL             *string   `json:"location_url"`
	DressCode               *string   `json:"dress_code"`
	ProgramNotes            *string   `json:"program_notes"`
	RSVPDeadline            *string   `json:"rsvp_deadline"`
	AllowPlusOne            *bool     `json:"allow_plusone"`
	RequireMealChoice       *bool     `json:"require_meal_choice"`
	MealOptions             *[]string `json:"meal_options"`
	CustomAttendanceOptions *[]string `json:"custom_attendance_options"`
	ThemeColor              *string   `json:"theme_color"`
	CoverImageURL           *string   `json:"cover_image_url"`
}

// Apply returns a copy of e with p merged in. Slug, host and is_active are
// never changed by a patch.
func (p Patch) Apply(e *model.Event) (*model.Event, error) {
	out := *e
	if p.EventType != nil {
		out.EventType = strings.TrimSpace(*p.EventType)
	}
	if p.Title != nil {
		out.Title = strings.TrimSpace(*p.Title)
		if out.Title == "" {
			return nil, apperr.Invalid("title is required")
		}
	}
	if p.Date != nil {
		date, err := NormalizeWallClock(*p.Date)
		if err != nil {
			return nil, apperr.Invalid("date must be formatted YYYY-MM-DD HH:MM")
		}
		out.Date = date
	}
	if p.Location != nil {
		out.Location = strings.TrimSpace(*p.Location)
		if out.Location == "" {
			return nil, apperr.Invalid("location is required")
		}
	}
	if p.LocationURL != nil {
		out.LocationURL = optional(*p.LocationURL)
	}
	if p.DressCode != nil {
		out.DressCode = optional(*p.DressCode)
	}
	if p.ProgramNotes != nil {
		out.ProgramNotes = optional(*p.ProgramNotes)
	}
	if p.RSVPDeadline != nil {
		deadline, err := optionalWallClock(*p.RSVPDeadline)
		if err != nil {
			return nil, err
		}
		out.RSVPDeadline = deadline
	}
	if p.AllowPlusOne != nil {
		out.AllowPlusOne = *p.AllowPlusOne
	}
	if p.RequireMealChoice != nil {
		out.RequireMealChoice = *p.RequireMealChoice
	}
	if p.MealOptions != nil {
		out.MealOptions = cleanList(*p.MealOptions)
	}
	if p.CustomAttendanceOptions != nil {
		out.CustomAttendanceOptions = cleanList(*p.CustomAttendanceOptions)
		if len(out.CustomAttendanceOptions) == 0 {
			out.CustomAttendanceOptions = slices.Clone(model.DefaultAttendanceOptions)
		}
	}
	if p.ThemeColor != nil {
		out.ThemeColor = strings.TrimSpace(*p.ThemeColor)
	}
	if p.CoverImageURL != nil {
		out.CoverImageURL = optional(*p.CoverImageURL)
	}

	if err := validate(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func validate(e *model.Event) error {
	if !slices.Contains(model.EventTypes, e.EventType) {
		return apperr.Invalid("unknown event type %q", e.EventType)
	}
	if !hexColorRegexp.MatchString(e.ThemeColor) {
		return apperr.Invalid("theme color must be a hex color like #1a2b3c")
	}
	if e.RequireMealChoice && len(e.MealOptions) == 0 {
		return apperr.Invalid("meal options are required when a meal choice is required")
	}
	return nil
}

// RSVPInput is the body of a guest's response.
type RSVPInput struct {
	GuestName        string   `json:"guest_name"`
	GuestEmail       string   `json:"guest_email"`
	GuestPhone       string   `json:"guest_phone"`
	AttendanceStatus string   `json:"attendance_status"`
	NumberOfGuests   *int     `json:"number_of_guests"`
	HasPlusOne       bool     `json:"has_plusone"`
	PlusOneName      string   `json:"plusone_name"`
	MealChoices      []string `json:"meal_choices"`
	Message          string   `json:"message"`
}

// BuildRSVP validates in against e and returns an unsaved response.
func (in RSVPInput) BuildRSVP(e *model.Event, now time.Time) (*model.RSVP, error) {
	if !IsRSVPOpen(e, now) {
		return nil, apperr.Invalid("RSVPs are closed for this event")
	}

	r := &model.RSVP{
		EventID:          e.ID,
		GuestName:        strings.TrimSpace(in.GuestName),
		GuestEmail:       optional(in.GuestEmail),
		GuestPhone:       optional(in.GuestPhone),
		AttendanceStatus: strings.TrimSpace(in.AttendanceStatus),
		NumberOfGuests:   model.MinGuests,
		Message:          optional(in.Message),
		MealChoices:      cleanList(in.MealChoices),
	}
	if in.NumberOfGuests != nil {
		r.NumberOfGuests = *in.NumberOfGuests
	}

	if r.GuestName == "" {
		return nil, apperr.Invalid("guest name is required")
	}
	if r.AttendanceStatus != model.AttendanceAttending && r.AttendanceStatus != model.AttendanceNotAttending {
		return nil, apperr.Invalid("attendance status must be attending or not_attending")
	}
	if r.NumberOfGuests < model.MinGuests || r.NumberOfGuests > model.MaxGuests {
		return nil, apperr.Invalid("number of guests must be between %d and %d", model.MinGuests, model.MaxGuests)
	}
	if r.GuestEmail != nil {
		if _, err := mail.ParseAddress(*r.GuestEmail); err != nil {
			return nil, apperr.Invalid("guest email is not a valid email address")
		}
	}

	if in.HasPlusOne {
		if !e.AllowPlusOne {
			return nil, apperr.Invalid("this event does not allow a plus-one")
		}
		r.HasPlusOne = true
		r.PlusOneName = optional(in.PlusOneName)
	}

	if r.AttendanceStatus == model.AttendanceNotAttending {
		r.MealChoices = []string{}
		r.HasPlusOne = false
		r.PlusOneName = nil
		return r, nil
	}
	for _, choice := range r.MealChoices {
		if !slices.Contains(e.MealOptions, choice) {
			return nil, apperr.Invalid("%q is not a meal option for this event", choice)
		}
	}
	if e.RequireMealChoice && len(r.MealChoices) == 0 {
		return nil, apperr.Invalid("a meal choice is required")
	}
	return r, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalWallClock(s string) (*string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := NormalizeWallClock(s)
	if err != nil {
		return nil, apperr.Invalid("RSVP deadline must be formatted YYYY-MM-DD HH:MM")
	}
	return &v, nil
}

// cleanList trims entries and drops empty ones.
func cleanList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
