package store

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
)

// flattenSep joins nested field names in flattened keys.
const flattenSep = "."

// FlattenSnapshot flattens raw document data and injects the document ID
// under "id".
func FlattenSnapshot(id string, data map[string]any) Document {
	doc := Flatten(data)
	doc["id"] = id

	return doc
}

// Flatten collapses nested maps into a single-level map with dot-separated
// keys. Only maps recurse: arrays and scalars are kept as values, so a
// "questions" array survives flattening intact while "name": {"he": ...}
// becomes "name.he".
func Flatten(data map[string]any) Document {
	out := make(Document, len(data))
	flattenInto(out, "", data)

	return out
}

func flattenInto(out Document, prefix string, data map[string]any) {
	for k, v := range data {
		key := k
		if prefix != "" {
			key = prefix + flattenSep + k
		}

		if nested, ok := v.(map[string]any); ok {
			flattenInto(out, key, nested)
			continue
		}

		out[key] = v
	}
}

// Stringify renders a flattened field value for display or spreadsheet
// cells. Timestamps become RFC 3339, document references become their
// collection-relative path, everything else uses its default formatting.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339)
	case *firestore.DocumentRef:
		return relativeRefPath(val.Path)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// relativeRefPath strips the projects/.../documents/ prefix from a full
// Firestore resource name, leaving the collection/document path.
func relativeRefPath(full string) string {
	const marker = "/documents/"
	if i := strings.Index(full, marker); i >= 0 {
		return full[i+len(marker):]
	}

	return full
}
