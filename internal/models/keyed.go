package models

// Keyed is implemented by records whose identifier is the store key they are
// kept under rather than a stored field.
type Keyed interface {
	SetID(id string)
}
