package restclient

import (
	"encoding/json"
	"strings"
)

// The backend represents the two-value status enum as Active/Inactive on some
// resources and Yes/No on others. The client normalizes at this boundary so
// nothing above it ever sees the wire inconsistency.

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// NormalizeStatus maps every observed wire spelling to the canonical enum.
// Unknown values map to Inactive.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active", "yes", "y", "true", "1":
		return StatusActive
	default:
		return StatusInactive
	}
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		*s = NormalizeStatus(v)
	case bool:
		if v {
			*s = StatusActive
		} else {
			*s = StatusInactive
		}
	case float64:
		if v != 0 {
			*s = StatusActive
		} else {
			*s = StatusInactive
		}
	default:
		*s = StatusInactive
	}
	return nil
}

// WireYesNo renders the canonical status for resources that still expect the
// Yes/No spelling on writes.
func (s Status) WireYesNo() string {
	if s == StatusActive {
		return "Yes"
	}
	return "No"
}
