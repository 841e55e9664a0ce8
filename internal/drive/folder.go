package drive

import "strings"

// NormalizeFolderID extracts a folder ID from a configured value that may
// be a bare ID or a pasted Drive URL. The last path segment wins; query
// strings and fragments ("?usp=sharing") are stripped.
func NormalizeFolderID(raw string) string {
	id := strings.TrimSpace(raw)

	if i := strings.IndexAny(id, "?#"); i >= 0 {
		id = id[:i]
	}

	id = strings.TrimRight(id, "/")

	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}

	return id
}
