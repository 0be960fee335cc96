package models

// Role represents a named role users can belong to
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
