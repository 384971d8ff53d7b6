package event

import "github.com/dukerupert/rsvp/internal/model"

// Summarize counts responses and sums head-counts per attendance status.
func Summarize(rsvps []model.RSVP) model.RSVPStats {
	var s model.RSVPStats
	for _, r := range rsvps {
		switch r.AttendanceStatus {
		case model.AttendanceAttending:
			s.Attending += r.NumberOfGuests
		case model.AttendanceNotAttending:
			s.NotAttending += r.NumberOfGuests
		default:
			continue
		}
		s.TotalResponses++
	}
	s.TotalGuests = s.Attending + s.NotAttending
	return s
}
