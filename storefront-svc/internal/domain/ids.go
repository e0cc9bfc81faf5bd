package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexID accepts the identifier shapes the remote API emits: plain strings,
// numbers, and objects carrying "_id", "id" or "$oid" (a populated reference
// or an extended-JSON ObjectId). It always holds the canonical string form.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	*f = FlexID(extractID(data, 0))
	return nil
}

func (f FlexID) String() string {
	return string(f)
}

// CanonicalID returns the first non-empty candidate.
func CanonicalID(candidates ...FlexID) string {
	for _, c := range candidates {
		if s := strings.TrimSpace(string(c)); s != "" {
			return s
		}
	}
	return ""
}

const maxIDDepth = 4

func extractID(data []byte, depth int) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || depth > maxIDDepth {
		return ""
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return ""
		}
		for _, key := range []string{"_id", "id", "$oid"} {
			if raw, ok := obj[key]; ok {
				if id := extractID(raw, depth+1); id != "" {
					return id
				}
			}
		}
		return ""
	case 'n':
		return ""
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return ""
		}
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}
}
