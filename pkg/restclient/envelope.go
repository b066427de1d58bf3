package restclient

import (
	"encoding/json"
	"strings"
)

// The backend wraps payloads inconsistently: the same logical list may arrive
// as a bare array, under data, under data.data, or under data.result. The
// unwrapper probes an ordered set of candidate paths and returns the first
// value accepted by a predicate, so no screen ever re-implements the probing.

// Predicate decides whether a candidate value is the payload being looked for.
type Predicate func(v any) bool

// IsArray accepts JSON arrays; the collection-endpoint predicate.
func IsArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

// IsNonEmpty accepts non-empty objects and non-empty arrays; the
// single-entity predicate.
func IsNonEmpty(v any) bool {
	switch t := v.(type) {
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return false
	}
}

// DefaultPaths is the probing order observed against the backend. The empty
// path means the body itself.
var DefaultPaths = []string{"", "data", "data.data", "data.result"}

// Unwrapper extracts payloads from an envelope using ordered candidate paths.
type Unwrapper struct {
	Paths []string
}

// lookup walks a dot-separated path into decoded JSON; empty path returns v.
func lookup(v any, path string) (any, bool) {
	if path == "" {
		return v, true
	}
	cur := v
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Extract probes each candidate path in order and returns the first value the
// predicate accepts. A miss on every path is not an error: it reports found
// false and callers treat it as an empty result set.
func (u *Unwrapper) Extract(body json.RawMessage, accept Predicate) (any, bool) {
	return u.extract(body, u.paths(), accept)
}

func (u *Unwrapper) paths() []string {
	if len(u.Paths) == 0 {
		return DefaultPaths
	}
	return u.Paths
}

func (u *Unwrapper) extract(body json.RawMessage, paths []string, accept Predicate) (any, bool) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, false
	}
	for _, p := range paths {
		if v, ok := lookup(decoded, p); ok && accept(v) {
			return v, true
		}
	}
	return nil, false
}

// ExtractArray returns the first array payload found, re-encoded per element
// so callers can decode into their own row types. No array anywhere means an
// empty slice.
func (u *Unwrapper) ExtractArray(body json.RawMessage) []json.RawMessage {
	v, ok := u.Extract(body, IsArray)
	if !ok {
		return nil
	}
	items := v.([]any)
	out := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		b, err := json.Marshal(it)
		if err != nil {
			continue
		}
		out = append(out, b)
	}
	return out
}

// ExtractEntity returns the entity payload; when the backend wraps a single
// entity in a one-element array, that element is returned. Unlike the array
// probe, the entity probe runs innermost-first: a wrapped body is itself a
// non-empty object, so a shallow-first probe would return the envelope
// instead of the entity it wraps.
func (u *Unwrapper) ExtractEntity(body json.RawMessage) (json.RawMessage, bool) {
	paths := u.paths()
	inner := make([]string, len(paths))
	for i, p := range paths {
		inner[len(paths)-1-i] = p
	}
	v, ok := u.extract(body, inner, IsNonEmpty)
	if !ok {
		return nil, false
	}
	if arr, isArr := v.([]any); isArr {
		if len(arr) == 0 {
			return nil, false
		}
		v = arr[0]
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	return b, true
}

// TotalCount reads the row total from the first present of totalRecords,
// total, count; rowsLen is the fallback when none is present.
func TotalCount(body json.RawMessage, rowsLen int) int {
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return rowsLen
	}
	for _, key := range []string{"totalRecords", "total", "count"} {
		if v, ok := decoded[key]; ok {
			if f, isNum := v.(float64); isNum {
				return int(f)
			}
		}
	}
	return rowsLen
}
