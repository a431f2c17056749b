package model

import (
	"encoding/json"
	"time"
)

// Document is the metadata record for a stored document. StorageKey points at
// an object in the blob store, or holds NoFileKey when no file is attached.
// FolderID is nil for unfiled documents. The department set is canonical; the
// legacy singular department field is derived from its first element.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category,omitempty"`
	Departments []string  `json:"departments"`
	FolderID    *string   `json:"folderId"`
	OwnerID     string    `json:"ownerId,omitempty"`
	OwnerName   string    `json:"ownerName,omitempty"`
	StorageKey  string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasFile reports whether a real blob is attached to the document.
func (d *Document) HasFile() bool {
	return d.StorageKey != "" && d.StorageKey != NoFileKey
}

// PrimaryDepartment returns the legacy singular department value, defined as
// the first element of the department set, or "" when the set is empty.
func (d *Document) PrimaryDepartment() string {
	if len(d.Departments) == 0 {
		return ""
	}
	return d.Departments[0]
}

// MarshalJSON adds the derived "department" field for backward compatibility.
func (d Document) MarshalJSON() ([]byte, error) {
	type alias Document
	return json.Marshal(struct {
		alias
		Department string `json:"department"`
	}{
		alias:      alias(d),
		Department: d.PrimaryDepartment(),
	})
}
