package utils

import "strings"

// CleanIDSet trims whitespace, drops empty entries and duplicates, and removes
// excludeID from the set. Order of first appearance is preserved.
func CleanIDSet(ids []string, excludeID string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || id == excludeID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
