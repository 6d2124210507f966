package model

type Patient struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DOB        Date   `json:"dob"`
	Contact    string `json:"contact"`
	HealthInfo string `json:"healthInfo"`
}
