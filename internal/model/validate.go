package model

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
)

var reContact = regexp.MustCompile(`^\d{10}$`)

// ValidationError maps form fields to the message shown next to them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

func (e *ValidationError) errOrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ValidContact reports whether s is a 10-digit contact number.
func ValidContact(s string) bool {
	return reContact.MatchString(strings.TrimSpace(s))
}

// PatientInput is the raw patient form.
type PatientInput struct {
	Name       string `json:"name"`
	DOB        string `json:"dob"`
	Contact    string `json:"contact"`
	HealthInfo string `json:"healthInfo"`
}

// Over fills the fields left empty in the form from p, so a partial form
// updates only what it names.
func (in PatientInput) Over(p Patient) PatientInput {
	out := PatientInput{Name: p.Name, DOB: p.DOB.String(), Contact: p.Contact, HealthInfo: p.HealthInfo}
	if strings.TrimSpace(in.Name) != "" {
		out.Name = in.Name
	}
	if strings.TrimSpace(in.DOB) != "" {
		out.DOB = in.DOB
	}
	if strings.TrimSpace(in.Contact) != "" {
		out.Contact = in.Contact
	}
	if in.HealthInfo != "" {
		out.HealthInfo = in.HealthInfo
	}
	return out
}

// Validate checks the form against now and returns the normalised patient
// (without an id).
func (in PatientInput) Validate(now time.Time) (Patient, error) {
	var verr ValidationError
	p := Patient{
		Name:       strings.TrimSpace(in.Name),
		Contact:    strings.TrimSpace(in.Contact),
		HealthInfo: in.HealthInfo,
	}

	if p.Name == "" {
		verr.add("name", "Patient name is required.")
	}

	if strings.TrimSpace(in.DOB) == "" {
		verr.add("dob", "Date of birth is required.")
	} else if dob, err := ParseDate(in.DOB); err != nil {
		verr.add("dob", "Invalid date format.")
	} else if dob.After(now) {
		verr.add("dob", "Date of birth cannot be in the future.")
	} else {
		p.DOB = dob
	}

	if p.Contact == "" {
		verr.add("contact", "Contact information is required.")
	} else if !ValidContact(p.Contact) {
		verr.add("contact", "Contact must be a 10-digit number.")
	}

	return p, verr.errOrNil()
}

// IncidentInput is the raw incident form. Dates use the datetime-local or
// persisted layout; an empty Status means Scheduled.
type IncidentInput struct {
	PatientID       string   `json:"patientId"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Comments        string   `json:"comments"`
	AppointmentDate string   `json:"appointmentDate"`
	Cost            *float64 `json:"cost"`
	Treatment       *string  `json:"treatment"`
	Status          Status   `json:"status"`
	NextDate        string   `json:"nextDate"`
	Files           []File   `json:"files"`
}

// Validate returns the normalised incident (without an id).
func (in IncidentInput) Validate() (Incident, error) {
	var verr ValidationError
	inc := Incident{
		PatientID:   strings.TrimSpace(in.PatientID),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Comments:    in.Comments,
		Cost:        in.Cost,
		Status:      in.Status,
		Files:       in.Files,
	}
	if inc.Status == "" {
		inc.Status = StatusScheduled
	}
	if inc.Files == nil {
		inc.Files = []File{}
	}
	if in.Treatment != nil && strings.TrimSpace(*in.Treatment) != "" {
		t := *in.Treatment
		inc.Treatment = &t
	}

	if inc.PatientID == "" {
		verr.add("patientId", "Patient is required.")
	}
	if inc.Title == "" {
		verr.add("title", "Title is required.")
	}

	if strings.TrimSpace(in.AppointmentDate) == "" {
		verr.add("appointmentDate", "Appointment date and time are required.")
	} else if at, err := ParseDateTime(in.AppointmentDate); err != nil {
		verr.add("appointmentDate", "Invalid appointment date and time.")
	} else {
		inc.AppointmentDate = at
	}

	if !inc.Status.Valid() {
		verr.add("status", "Status must be one of Scheduled, Pending, Completed, Cancelled.")
	}
	if inc.Status == StatusCompleted && (in.Cost == nil || math.IsNaN(*in.Cost) || math.IsInf(*in.Cost, 0)) {
		verr.add("cost", "Cost is required and must be a number for completed incidents.")
	}

	if strings.TrimSpace(in.NextDate) != "" {
		next, err := ParseDateTime(in.NextDate)
		if err != nil {
			verr.add("nextDate", "Invalid next appointment date.")
		} else {
			inc.NextDate = &next
		}
	}

	return inc, verr.errOrNil()
}
