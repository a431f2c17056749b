// Package postgres implements the repository interfaces over database/sql
// with parameterized queries. It contains no business logic.
package postgres

import (
	"fmt"
	"strings"
)

// lowerInClause builds a "lower(col) IN ($n,...)" clause with lowercased
// arguments, starting placeholder numbering at start.
func lowerInClause(col string, names []string, start int) (string, []any) {
	ph := make([]string, len(names))
	args := make([]any, len(names))
	for i, n := range names {
		ph[i] = fmt.Sprintf("$%d", start+i)
		args[i] = strings.ToLower(n)
	}
	return fmt.Sprintf("lower(%s) IN (%s)", col, strings.Join(ph, ",")), args
}

// dedup collapses duplicate ids while preserving first-seen order, keeping
// association positions stable when callers pass repeated department names.
func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// nullIfEmpty maps "" to NULL for optional text columns.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
