package model

// DefaultListName is the name given to newly created lists.
const DefaultListName = "List"

// List is a named, ordered container of tasks.
type List struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Position int    `json:"position" db:"position"`
}
