package models

import (
	"bytes"
	"encoding/json"
)

// NullableFloat is a tri-state JSON number: absent, null, or a value.
type NullableFloat struct {
	Set   bool
	Valid bool
	Value float64
}

func NewNullableFloat(v float64) NullableFloat {
	return NullableFloat{Set: true, Valid: true, Value: v}
}

func NullFloat() NullableFloat {
	return NullableFloat{Set: true}
}

func (n *NullableFloat) UnmarshalJSON(data []byte) error {
	n.Set = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Valid = false
		n.Value = 0
		return nil
	}

	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}

	n.Valid = true

	return nil
}

// MarshalJSON renders an unset value as null. Use omitzero on the field
// to drop it from the payload entirely.
func (n NullableFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(n.Value)
}

// IsZero lets encoding/json omitzero skip an absent value.
func (n NullableFloat) IsZero() bool {
	return !n.Set
}

// Ptr returns the value as a pointer, nil for null.
func (n NullableFloat) Ptr() *float64 {
	if !n.Valid {
		return nil
	}

	v := n.Value

	return &v
}
