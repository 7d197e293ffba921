package models

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// OptionalString tells an absent JSON field apart from an explicit null.
// Invalid is set when the field holds something other than a string or null.
type OptionalString struct {
	Set     bool
	Null    bool
	Invalid bool
	Value   string
}

func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		o.Null = true
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		o.Invalid = true
	}
	return nil
}

// Ptr returns nil for an explicit null and a pointer to the value otherwise.
func (o OptionalString) Ptr() *string {
	if o.Null || !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

// OptionalBool is a tri-state boolean. It accepts true, false, 1, 0, "1",
// "0", "true" and "false"; anything else marks the field Invalid.
type OptionalBool struct {
	Set     bool
	Null    bool
	Invalid bool
	Value   bool
}

func (o *OptionalBool) UnmarshalJSON(b []byte) error {
	o.Set = true
	switch string(bytes.TrimSpace(b)) {
	case "null":
		o.Null = true
	case "true", "1", `"1"`, `"true"`:
		o.Value = true
	case "false", "0", `"0"`, `"false"`:
		o.Value = false
	default:
		o.Invalid = true
	}
	return nil
}
