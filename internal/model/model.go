// Package model contains domain models/data structures.
// These are pure domain types with no database-specific dependencies or tags;
// they are shared across the HTTP, service, and storage layers.
package model

// NoFileKey is the sentinel storage key meaning a document has no attached file.
// Documents may exist purely as metadata/links.
const NoFileKey = "no-file-attached"
