package models

// Identity is the name/id snapshot stamped onto orders at checkout. It is
// deliberately decoupled from any live profile edit.
type Identity struct {
	Name      string `json:"name"`
	StudentID string `json:"studentId"`
	Email     string `json:"email,omitempty"`
}
