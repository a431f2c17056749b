package model

// Department is a normalized tag entity used to scope folders and documents.
// Departments are created lazily on first reference and never deleted here.
type Department struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
