package model

type Role string

const (
	RoleAdmin   Role = "Admin"
	RolePatient Role = "Patient"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RolePatient
}

// User is a login account. PatientID is set iff Role is RolePatient.
//
// Password holds either the plaintext credential (seed data) or an argon2id
// PHC string.
type User struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	PatientID string `json:"patientId,omitempty"`
}

// Public returns a copy without the credential, safe to persist as a session
// or return to clients.
func (u User) Public() User {
	u.Password = ""
	return u
}
