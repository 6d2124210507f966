package query

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Alijeyrad/dentalcenter/internal/model"
)

func ptr(v float64) *float64 { return &v }

func ids(incidents []model.Incident) []string {
	out := make([]string, 0, len(incidents))
	for _, inc := range incidents {
		out = append(out, inc.ID)
	}
	return out
}

var now = time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)

func TestUpcoming(t *testing.T) {
	got := Upcoming(model.DefaultIncidents(), now, UpcomingLimit)

	// 07-08 i1, 07-09 i5, 07-10 i3; i2 (06-15) and i4 (07-05) are past.
	if diff := cmp.Diff([]string{"i1", "i5", "i3"}, ids(got)); diff != "" {
		t.Errorf("Upcoming() (-want +got):\n%s", diff)
	}
}

func TestUpcoming_LimitAndTies(t *testing.T) {
	at := model.MustDateTime("2025-08-01T09:00:00")
	var incidents []model.Incident
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		incidents = append(incidents, model.Incident{ID: id, AppointmentDate: at})
	}

	got := Upcoming(incidents, now, UpcomingLimit)
	want := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	if diff := cmp.Diff(want, ids(got)); diff != "" {
		t.Errorf("Upcoming() (-want +got):\n%s", diff)
	}
}

func TestUpcoming_IncludesNow(t *testing.T) {
	incidents := []model.Incident{{ID: "x", AppointmentDate: model.NewDateTime(now)}}
	if got := Upcoming(incidents, now, 0); len(got) != 1 {
		t.Errorf("an appointment at now must count as upcoming, got %v", ids(got))
	}
}

func TestRevenue(t *testing.T) {
	incidents := []model.Incident{
		{Status: model.StatusCompleted, Cost: ptr(80)},
		{Status: model.StatusCompleted, Cost: ptr(120)},
		{Status: model.StatusPending},
		{Status: model.StatusCompleted},
		{Status: model.StatusCancelled, Cost: ptr(999)},
	}
	if got := Revenue(incidents); got != 200 {
		t.Errorf("Revenue() = %v, want 200", got)
	}
}

func TestCounts(t *testing.T) {
	incidents := model.DefaultIncidents()
	if got := CountOpen(incidents); got != 3 {
		t.Errorf("CountOpen() = %d, want 3", got)
	}
	if got := CountCompleted(incidents); got != 2 {
		t.Errorf("CountCompleted() = %d, want 2", got)
	}
}

func TestTopPatients(t *testing.T) {
	incidents := []model.Incident{
		{PatientID: "p1"}, {PatientID: "p2"}, {PatientID: "p1"},
		{PatientID: "p3"}, {PatientID: "p1"}, {PatientID: "ghost"},
	}
	patients := model.DefaultPatients()

	got := TopPatients(incidents, patients, TopPatientsLimit)
	want := []PatientCount{
		{PatientID: "p1", Name: "John Doe", Count: 3},
		{PatientID: "p2", Name: "Jane Smith", Count: 1},
		{PatientID: "p3", Name: "Peter Jones", Count: 1},
		{PatientID: "ghost", Name: UnknownPatient, Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TopPatients() (-want +got):\n%s", diff)
	}

	if got := TopPatients(incidents, patients, 2); len(got) != 2 {
		t.Errorf("TopPatients(limit 2) returned %d", len(got))
	}
}

func TestHistory(t *testing.T) {
	incidents := []model.Incident{
		{ID: "old", PatientID: "p1", AppointmentDate: model.MustDateTime("2025-01-01T10:00:00")},
		{ID: "soon", PatientID: "p1", AppointmentDate: model.MustDateTime("2025-07-08T10:00:00")},
		{ID: "other", PatientID: "p2", AppointmentDate: model.MustDateTime("2025-07-08T10:00:00")},
		{ID: "recent", PatientID: "p1", AppointmentDate: model.MustDateTime("2025-06-01T10:00:00")},
		{ID: "later", PatientID: "p1", AppointmentDate: model.MustDateTime("2025-09-01T10:00:00")},
	}

	upcoming, past := History(incidents, "p1", now)
	if diff := cmp.Diff([]string{"soon", "later"}, ids(upcoming)); diff != "" {
		t.Errorf("upcoming (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"recent", "old"}, ids(past)); diff != "" {
		t.Errorf("past (-want +got):\n%s", diff)
	}
}

func TestSearchPatients(t *testing.T) {
	patients := model.DefaultPatients()

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"p1", "p2", "p3"}},
		{"jane", []string{"p2"}},
		{"JONES", []string{"p3"}},
		{"0987", []string{"p2"}},
		{"zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := make([]string, 0)
			for _, p := range SearchPatients(patients, tt.term) {
				got = append(got, p.ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SearchPatients(%q) (-want +got):\n%s", tt.term, diff)
			}
		})
	}
}

func TestFilterIncidents(t *testing.T) {
	incidents := append(model.DefaultIncidents(), model.Incident{
		ID: "orphan", PatientID: "gone", Title: "Orphan", Status: model.StatusPending,
		AppointmentDate: model.MustDateTime("2025-01-01T00:00:00"),
	})
	patients := model.DefaultPatients()

	tests := []struct {
		name   string
		filter IncidentFilter
		want   []string
	}{
		{"all, recent first", IncidentFilter{Status: StatusAll}, []string{"i3", "i5", "i1", "i4", "i2", "orphan"}},
		{"by status", IncidentFilter{Status: "Completed"}, []string{"i1", "i2"}},
		{"by patient name", IncidentFilter{Search: "jane"}, []string{"i3"}},
		{"by description", IncidentFilter{Search: "WISDOM"}, []string{"i4"}},
		{"search and status", IncidentFilter{Search: "john", Status: "Scheduled"}, []string{"i5"}},
		{"unresolved name", IncidentFilter{Search: "n/a"}, []string{"orphan"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views := FilterIncidents(incidents, patients, tt.filter)
			got := make([]string, 0)
			for _, v := range views {
				got = append(got, v.ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterIncidents() (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCalendarEvents(t *testing.T) {
	incidents := append(model.DefaultIncidents(), model.Incident{ID: "undated", PatientID: "p1"})
	events := CalendarEvents(incidents, model.DefaultPatients(), Window{})

	if len(events) != 5 {
		t.Fatalf("len(events) = %d, want 5", len(events))
	}
	first := events[0]
	if first.ID != "i2" || first.Title != "Routine Check-up - John Doe" || first.Color != "#28a745" {
		t.Errorf("first event = %+v", first)
	}
	if !first.End.Equal(first.Start) || first.AllDay {
		t.Errorf("event end/allDay = %v/%v", first.End, first.AllDay)
	}

	july := Window{From: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2025, 7, 9, 16, 0, 0, 0, time.UTC)}
	var got []string
	for _, e := range CalendarEvents(incidents, model.DefaultPatients(), july) {
		got = append(got, e.ID)
	}
	if diff := cmp.Diff([]string{"i4", "i1"}, got); diff != "" {
		t.Errorf("windowed events (-want +got):\n%s", diff)
	}
}

func TestStatusColor(t *testing.T) {
	tests := map[model.Status]string{
		model.StatusCompleted: "#28a745",
		model.StatusPending:   "#ffc107",
		model.StatusCancelled: "#dc3545",
		model.StatusScheduled: "#3174ad",
	}
	for status, want := range tests {
		if got := StatusColor(status); got != want {
			t.Errorf("StatusColor(%s) = %s, want %s", status, got, want)
		}
	}
}
