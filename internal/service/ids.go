package service

import "github.com/google/uuid"

// validID reports whether id is a well-formed entity ID.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func uniqueIDs(ids []string) []string {
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
