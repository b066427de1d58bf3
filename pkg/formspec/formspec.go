// Package formspec declares form fields as data: what a field holds and how
// it is constrained, decoupled from how it is drawn. The mutation coordinator
// interprets the descriptors for client-side validation, so no screen
// re-implements required/numeric checks inline.
package formspec

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	Text Kind = iota
	Number
	Select
	Email
	File
)

// Field describes one form field. OptionsFrom names the cascade level that
// feeds a Select; Required Selects are exactly the "cascading id must be
// chosen" rule.
type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Required    bool
	OptionsFrom string
}

type Form struct {
	Fields []Field
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// Validate checks values against the descriptors and returns per-field
// messages. An empty map means the form may be submitted. Numeric fields
// that fail to parse block submission here so an unparseable value is never
// sent over the wire.
func (f *Form) Validate(values map[string]string) map[string]string {
	errs := map[string]string{}
	for _, fld := range f.Fields {
		v := strings.TrimSpace(values[fld.Name])
		if v == "" {
			if fld.Required {
				errs[fld.Name] = fmt.Sprintf("%s is required", fld.label())
			}
			continue
		}
		switch fld.Kind {
		case Number:
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				errs[fld.Name] = fmt.Sprintf("%s must be a number", fld.label())
			}
		case Email:
			if !strings.Contains(v, "@") || strings.HasPrefix(v, "@") || strings.HasSuffix(v, "@") {
				errs[fld.Name] = fmt.Sprintf("%s must be a valid email", fld.label())
			}
		}
	}
	return errs
}

// Numbers parses every Number field into a float; callers use this after a
// clean Validate so parsed payloads carry real numerics, not strings.
func (f *Form) Numbers(values map[string]string) map[string]float64 {
	out := map[string]float64{}
	for _, fld := range f.Fields {
		if fld.Kind != Number {
			continue
		}
		v := strings.TrimSpace(values[fld.Name])
		if v == "" {
			continue
		}
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			out[fld.Name] = n
		}
	}
	return out
}

// CascadeFields returns the Select fields bound to cascade levels in
// declaration order.
func (f *Form) CascadeFields() []Field {
	var out []Field
	for _, fld := range f.Fields {
		if fld.Kind == Select && fld.OptionsFrom != "" {
			out = append(out, fld)
		}
	}
	return out
}
