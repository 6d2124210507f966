// Package query derives read-only views from the persisted collections.
// Nothing here touches the store; callers pass the collections and the
// current time.
package query

import (
	"slices"
	"strings"
	"time"

	"github.com/Alijeyrad/dentalcenter/internal/model"
)

const (
	UpcomingLimit    = 10
	TopPatientsLimit = 5

	UnknownPatient    = "Unknown"
	UnresolvedPatient = "N/A"

	// StatusAll in a filter matches every status.
	StatusAll = "All"
)

// Upcoming returns incidents at or after now, soonest first, at most limit.
// Equal times keep collection order. limit <= 0 means no limit.
func Upcoming(incidents []model.Incident, now time.Time, limit int) []model.Incident {
	out := make([]model.Incident, 0)
	for _, inc := range incidents {
		if !inc.AppointmentDate.Before(now) {
			out = append(out, inc)
		}
	}
	sortAscending(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CountOpen counts Scheduled and Pending incidents.
func CountOpen(incidents []model.Incident) int {
	n := 0
	for _, inc := range incidents {
		if inc.Status.Open() {
			n++
		}
	}
	return n
}

func CountCompleted(incidents []model.Incident) int {
	n := 0
	for _, inc := range incidents {
		if inc.Status == model.StatusCompleted {
			n++
		}
	}
	return n
}

// Revenue sums the cost of completed incidents. A missing cost adds 0.
func Revenue(incidents []model.Incident) float64 {
	var total float64
	for _, inc := range incidents {
		if inc.Status == model.StatusCompleted {
			total += inc.CostValue()
		}
	}
	return total
}

type PatientCount struct {
	PatientID string `json:"patientId"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
}

// TopPatients ranks patients by incident count, highest first. Equal counts
// rank by first appearance in incidents. Names that do not resolve become
// UnknownPatient.
func TopPatients(incidents []model.Incident, patients []model.Patient, limit int) []PatientCount {
	counts := make(map[string]int)
	var order []string
	for _, inc := range incidents {
		if _, seen := counts[inc.PatientID]; !seen {
			order = append(order, inc.PatientID)
		}
		counts[inc.PatientID]++
	}

	names := NameIndex(patients)
	out := make([]PatientCount, 0, len(order))
	for _, id := range order {
		out = append(out, PatientCount{PatientID: id, Name: nameOr(names, id, UnknownPatient), Count: counts[id]})
	}
	slices.SortStableFunc(out, func(a, b PatientCount) int { return b.Count - a.Count })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// History splits one patient's incidents into upcoming (soonest first) and
// past (most recent first).
func History(incidents []model.Incident, patientID string, now time.Time) (upcoming, past []model.Incident) {
	upcoming, past = make([]model.Incident, 0), make([]model.Incident, 0)
	for _, inc := range incidents {
		if inc.PatientID != patientID {
			continue
		}
		if inc.AppointmentDate.Before(now) {
			past = append(past, inc)
		} else {
			upcoming = append(upcoming, inc)
		}
	}
	sortAscending(upcoming)
	SortRecentFirst(past)
	return upcoming, past
}

// SortRecentFirst orders incidents by appointment date, latest first.
func SortRecentFirst(incidents []model.Incident) {
	slices.SortStableFunc(incidents, func(a, b model.Incident) int {
		return b.AppointmentDate.Compare(a.AppointmentDate.Time)
	})
}

func sortAscending(incidents []model.Incident) {
	slices.SortStableFunc(incidents, func(a, b model.Incident) int {
		return a.AppointmentDate.Compare(b.AppointmentDate.Time)
	})
}

// NameIndex maps patient id to name.
func NameIndex(patients []model.Patient) map[string]string {
	m := make(map[string]string, len(patients))
	for _, p := range patients {
		m[p.ID] = p.Name
	}
	return m
}

func nameOr(names map[string]string, id, fallback string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return fallback
}

func contains(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}
