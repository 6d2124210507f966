package model

type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusScheduled, StatusPending, StatusCompleted, StatusCancelled}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Open reports whether the incident still awaits treatment.
func (s Status) Open() bool {
	return s == StatusScheduled || s == StatusPending
}

// File is an attachment stored inline. URL is a data URI carrying the mime
// type and the base64 payload.
type File struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

// Incident is an appointment together with its treatment outcome.
type Incident struct {
	ID              string    `json:"id"`
	PatientID       string    `json:"patientId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Comments        string    `json:"comments"`
	AppointmentDate DateTime  `json:"appointmentDate"`
	Cost            *float64  `json:"cost"`
	Treatment       *string   `json:"treatment"`
	Status          Status    `json:"status"`
	NextDate        *DateTime `json:"nextDate"`
	Files           []File    `json:"files"`
}

// CostValue returns the cost, treating a missing one as 0.
func (i Incident) CostValue() float64 {
	if i.Cost == nil {
		return 0
	}
	return *i.Cost
}
