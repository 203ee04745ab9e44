package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Zone-less layouts are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// timestamp decodes RFC 3339 as well as the naive ISO forms browsers send
// from datetime-local inputs, e.g. "2024-01-01T09:00".
type timestamp struct {
	time.Time
}

func (t *timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	var s string
	if json.Unmarshal(b, &s) != nil {
		return errors.New("timestamp must be a string")
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}
