package store

import "encoding/json"

// ParseVector parses a vector persisted in serialized text form.
//
// Both drivers hand vectors to the store as text: pgvector's text output
// ("[0.1,0.2]") and the sqlite JSON column share the same shape. A value that
// fails to parse is treated as missing (nil), never as a zero vector.
func ParseVector(raw string) []float32 {
	if raw == "" {
		return nil
	}
	var vec []float32
	if err := json.Unmarshal([]byte(raw), &vec); err != nil {
		return nil
	}
	if len(vec) == 0 {
		return nil
	}
	return vec
}

// MarshalVector serializes a vector as a JSON array for text-column storage.
func MarshalVector(vec []float32) string {
	if len(vec) == 0 {
		return ""
	}
	raw, err := json.Marshal(vec)
	if err != nil {
		return ""
	}
	return string(raw)
}
