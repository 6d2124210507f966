package incident

import "errors"

var (
	ErrIncidentNotFound = errors.New("incident not found")
	ErrPatientNotFound  = errors.New("patient not found")
	ErrFileNotFound     = errors.New("attachment not found")
	ErrNoFiles          = errors.New("no files to attach")
)
