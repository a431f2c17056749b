package model

import (
	"encoding/json"
	"time"
)

// Folder groups documents and is visible to one or more departments.
// The department set is canonical; the legacy singular department field that
// older clients still read is derived from the first element on marshal.
type Folder struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Departments []string  `json:"departments"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PrimaryDepartment returns the legacy singular department value, defined as
// the first element of the department set, or "" when the set is empty.
func (f *Folder) PrimaryDepartment() string {
	if len(f.Departments) == 0 {
		return ""
	}
	return f.Departments[0]
}

// MarshalJSON adds the derived "department" field for backward compatibility.
func (f Folder) MarshalJSON() ([]byte, error) {
	type alias Folder
	return json.Marshal(struct {
		alias
		Department string `json:"department"`
	}{
		alias:      alias(f),
		Department: f.PrimaryDepartment(),
	})
}
