package models

// Team is an opaque reference supplied by the external registration
// subsystem. The engine never mutates teams and addresses them by ID only.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
