package model

import "encoding/json"

// Optional is a three-state JSON field: absent, explicit null, or a value.
// Import payloads update only the fields they actually carry, so "absent"
// must survive decoding instead of collapsing into the zero value.
type Optional[T any] struct {
	Present bool // key appeared in the payload
	Valid   bool // value was not null
	Value   T
}

// Some wraps a concrete value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Valid: true, Value: v}
}

// Null is an explicit JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Present: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present || !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns the value as a pointer, nil unless present and non-null.
func (o Optional[T]) Ptr() *T {
	if !o.Present || !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
