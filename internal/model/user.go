package model

// User is a registered person, identified by SSN. Users are never updated.
type User struct {
	SSN         string `json:"ssn"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth Date   `json:"date_of_birth"`
}
