package pinned

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ID is a content id decoded leniently from JSON.
//
// Positive integers and numeric strings decode to their value. Anything else
// (negatives, fractions, booleans, text, null) decodes to 0 without error so
// that one bad row never rejects a whole list. Fractions are not truncated:
// "5.7" and 5.0 both decode to 0 and the row is dropped, where a truncating
// integer cast would have kept id 5.
type ID int64

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	*id = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*id = ParseID(s)
		return nil
	}
	*id = ParseID(string(data))
	return nil
}

// ParseID coerces s to a positive id, or 0.
func ParseID(s string) ID {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return ID(n)
}
