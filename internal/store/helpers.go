package store

import (
	"encoding/json"
	"strings"
)

// placeholderList returns "?,?,?" for n placeholders.
func placeholderList(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

// marshalStrings converts []string to JSON text for storage.
func marshalStrings(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// unmarshalStrings parses stored JSON text back into []string.
func unmarshalStrings(text string) []string {
	if text == "" || text == "[]" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(text), &values); err != nil {
		return nil
	}
	return values
}

func marshalMetadata(meta Metadata) string {
	data, err := json.Marshal(meta)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func unmarshalMetadata(text string) Metadata {
	var meta Metadata
	if text == "" {
		return meta
	}
	_ = json.Unmarshal([]byte(text), &meta)
	return meta
}
