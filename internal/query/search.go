package query

import (
	"slices"
	"strings"

	"github.com/Alijeyrad/dentalcenter/internal/model"
)

// SearchPatients keeps patients whose name or contact contains term, case
// folded. An empty term keeps everyone.
func SearchPatients(patients []model.Patient, term string) []model.Patient {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]model.Patient, 0, len(patients))
	for _, p := range patients {
		if needle == "" || contains(p.Name, needle) || contains(p.Contact, needle) {
			out = append(out, p)
		}
	}
	return out
}

// IncidentView is an incident with its patient's display name.
type IncidentView struct {
	model.Incident
	PatientName string `json:"patientName"`
}

type IncidentFilter struct {
	// Search matches title, description or patient name.
	Search string
	// Status is an exact status; "" or StatusAll matches any.
	Status string
}

func (f IncidentFilter) matchesStatus(s model.Status) bool {
	return f.Status == "" || f.Status == StatusAll || model.Status(f.Status) == s
}

// FilterIncidents applies f and returns the matches most recent first.
func FilterIncidents(incidents []model.Incident, patients []model.Patient, f IncidentFilter) []IncidentView {
	names := NameIndex(patients)
	needle := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]IncidentView, 0, len(incidents))
	for _, inc := range incidents {
		name := nameOr(names, inc.PatientID, UnresolvedPatient)
		if !f.matchesStatus(inc.Status) {
			continue
		}
		if needle != "" && !contains(inc.Title, needle) && !contains(inc.Description, needle) && !contains(name, needle) {
			continue
		}
		out = append(out, IncidentView{Incident: inc, PatientName: name})
	}

	SortViewsRecentFirst(out)
	return out
}

func SortViewsRecentFirst(views []IncidentView) {
	slices.SortStableFunc(views, func(a, b IncidentView) int {
		return b.AppointmentDate.Compare(a.AppointmentDate.Time)
	})
}

// Views attaches patient names without filtering or reordering.
func Views(incidents []model.Incident, patients []model.Patient) []IncidentView {
	names := NameIndex(patients)
	out := make([]IncidentView, 0, len(incidents))
	for _, inc := range incidents {
		out = append(out, IncidentView{Incident: inc, PatientName: nameOr(names, inc.PatientID, UnresolvedPatient)})
	}
	return out
}
