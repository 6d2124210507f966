package query

import (
	"time"

	"github.com/Alijeyrad/dentalcenter/internal/model"
)

const (
	colorCompleted = "#28a745"
	colorPending   = "#ffc107"
	colorCancelled = "#dc3545"
	colorDefault   = "#3174ad"
)

// Event is one calendar entry. End equals Start.
type Event struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	Start  model.DateTime `json:"start"`
	End    model.DateTime `json:"end"`
	AllDay bool           `json:"allDay"`
	Status model.Status   `json:"status"`
	Color  string         `json:"color"`
}

func StatusColor(s model.Status) string {
	switch s {
	case model.StatusCompleted:
		return colorCompleted
	case model.StatusPending:
		return colorPending
	case model.StatusCancelled:
		return colorCancelled
	default:
		return colorDefault
	}
}

// Window is a half-open [From, To) range. A zero bound is open.
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && !t.Before(w.To) {
		return false
	}
	return true
}

// CalendarEvents turns dated incidents into events, soonest first.
func CalendarEvents(incidents []model.Incident, patients []model.Patient, w Window) []Event {
	names := NameIndex(patients)

	dated := make([]model.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if !inc.AppointmentDate.IsZero() && w.contains(inc.AppointmentDate.Time) {
			dated = append(dated, inc)
		}
	}
	sortAscending(dated)

	out := make([]Event, 0, len(dated))
	for _, inc := range dated {
		out = append(out, Event{
			ID:     inc.ID,
			Title:  inc.Title + " - " + nameOr(names, inc.PatientID, UnresolvedPatient),
			Start:  inc.AppointmentDate,
			End:    inc.AppointmentDate,
			Status: inc.Status,
			Color:  StatusColor(inc.Status),
		})
	}
	return out
}
