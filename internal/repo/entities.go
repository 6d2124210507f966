package repo

import (
	"github.com/Alijeyrad/dentalcenter/internal/model"
)

type Users struct{ collection[model.User] }

// ByEmail matches the email exactly, case included.
func (r Users) ByEmail(email string) (model.User, bool, error) {
	return r.find(func(u model.User) bool { return u.Email == email })
}

func (r Users) Get(id string) (model.User, bool, error) {
	return r.find(func(u model.User) bool { return u.ID == id })
}

type Patients struct{ collection[model.Patient] }

func (r Patients) Get(id string) (model.Patient, bool, error) {
	return r.find(func(p model.Patient) bool { return p.ID == id })
}

type Incidents struct{ collection[model.Incident] }

func (r Incidents) Get(id string) (model.Incident, bool, error) {
	return r.find(func(i model.Incident) bool { return i.ID == id })
}

// ForPatient returns the patient's incidents in stored order.
func (r Incidents) ForPatient(patientID string) ([]model.Incident, error) {
	all, err := r.All()
	if err != nil {
		return nil, err
	}
	out := make([]model.Incident, 0)
	for _, inc := range all {
		if inc.PatientID == patientID {
			out = append(out, inc)
		}
	}
	return out, nil
}

// Session is the single persisted login.
type Session struct{ tx *Tx }

// Get returns nil when nobody is logged in.
func (s Session) Get() (*model.User, error) {
	if v, ok := s.tx.staged[KeySession]; ok {
		u := v.(model.User)
		return &u, nil
	}
	if s.tx.removed[KeySession] {
		return nil, nil
	}

	var u model.User
	found, err := s.tx.store.Load(s.tx.ctx, KeySession, &u)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

// Set persists u without its password.
func (s Session) Set(u model.User) error {
	return s.tx.stage(KeySession, u.Public())
}

func (s Session) Clear() error {
	return s.tx.unstage(KeySession)
}
