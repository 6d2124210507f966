package model

func ptr[T any](v T) *T { return &v }

// DefaultUsers is the account list written on first run.
func DefaultUsers() []User {
	return []User{
		{ID: "1", Role: RoleAdmin, Email: "admin@entnt.in", Password: "admin123"},
		{ID: "2", Role: RolePatient, Email: "john@entnt.in", Password: "patient123", PatientID: "p1"},
	}
}

func DefaultPatients() []Patient {
	return []Patient{
		{ID: "p1", Name: "John Doe", DOB: MustDate("1990-05-10"), Contact: "1234567890", HealthInfo: "No allergies"},
		{ID: "p2", Name: "Jane Smith", DOB: MustDate("1985-11-20"), Contact: "0987654321", HealthInfo: "Seasonal allergies"},
		{ID: "p3", Name: "Peter Jones", DOB: MustDate("2000-03-15"), Contact: "1122334455", HealthInfo: "Asthma"},
	}
}

func DefaultIncidents() []Incident {
	return []Incident{
		{
			ID:              "i1",
			PatientID:       "p1",
			Title:           "Toothache",
			Description:     "Upper molar pain",
			Comments:        "Sensitive to cold",
			AppointmentDate: MustDateTime("2025-07-08T10:00:00"),
			Cost:            ptr(80.0),
			Treatment:       ptr("Filling"),
			Status:          StatusCompleted,
			Files: []File{
				{Name: "invoice-p1-i1.pdf", URL: "data:application/pdf;base64,JVBERi0xLjEKJcOkwNDAgb2JqCjw8L1R5cGUvRXhwZXJpbWVudGF0aW9uCj4+CmVuZG9iagoxIDAgb2JqCjw8L1R5cGUvQ2F0YWxvZwovUGFnZXMgMiAwIFEKtj4+CmVuZG9iagoyIDAgb2JqCjw8L1R5cGUvUGFnZXMKvF>L1JQQiAyIDAgUgovQ291bnQgMQpAL0tBfCBdCj4+CmVuZG9iagojIDAgb2JqCjw8L1R5cGUvUGFnZQovUGFyZW50IDIgMCBSCi9NZWRpYUJveCBbMCAwIDU5NSA4NDJdCj4+CmVuZG9iagQgdHJhbiAKNTQ2IDAgTgotY3JlYXRlZCAoZ2VuZXJhdGVkIGZpbGUgdXNlZCBmb3IgdGVzdGluZyBwdXJwb3NlcykgCi0xLjcgCi00IDAgUgovU2l6ZSA1CkwvUm9vdCAxIDAgUgovSW5mbyA0IDAgUgovSUQgWyAxMjM0NTY3ODkwYWJjZGVmIDAxMjM0NTY3ODkwYWJjZGVmIF0KPj4Kc3RhcnR4cmVmCjAgCiUlRU9G"},
				{Name: "xray-p1-i1.png", URL: "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="},
			},
		},
		{
			ID:              "i2",
			PatientID:       "p1",
			Title:           "Routine Check-up",
			Description:     "Annual dental check-up",
			Comments:        "Patient in good health",
			AppointmentDate: MustDateTime("2025-06-15T14:30:00"),
			Cost:            ptr(120.0),
			Treatment:       ptr("Cleaning and X-rays"),
			Status:          StatusCompleted,
			NextDate:        ptr(MustDateTime("2026-06-15T14:30:00")),
			Files:           []File{},
		},
		{
			ID:              "i3",
			PatientID:       "p2",
			Title:           "Filling Cavity",
			Description:     "Lower left molar cavity",
			Comments:        "Small cavity, needs filling",
			AppointmentDate: MustDateTime("2025-07-10T09:00:00"),
			Status:          StatusPending,
			Files:           []File{},
		},
		{
			ID:              "i4",
			PatientID:       "p3",
			Title:           "Wisdom Tooth Extraction",
			Description:     "Impacted wisdom tooth",
			Comments:        "Needs immediate extraction",
			AppointmentDate: MustDateTime("2025-07-05T11:00:00"),
			Status:          StatusScheduled,
			Files:           []File{},
		},
		{
			ID:              "i5",
			PatientID:       "p1",
			Title:           "Follow-up Check",
			Description:     "Check on previous filling",
			Comments:        "No issues reported",
			AppointmentDate: MustDateTime("2025-07-09T16:00:00"),
			Status:          StatusScheduled,
			Files:           []File{},
		},
	}
}
