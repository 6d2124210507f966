package dashboard

import "errors"

var (
	ErrNotPatient      = errors.New("session is not a patient session")
	ErrPatientNotFound = errors.New("patient not found")
)
