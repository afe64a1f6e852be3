package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FieldFlags is a field name -> enabled flag map stored as a jsonb column.
type FieldFlags map[string]bool

func (f *FieldFlags) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	}
	return fmt.Errorf("unsupported type for FieldFlags: %T", value)
}

func (f FieldFlags) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// Enabled reports whether a field flag is present and set.
func (f FieldFlags) Enabled(name string) bool {
	return f[name]
}

type StringList []string

func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("unsupported type for StringList: %T", value)
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// EditBag holds a user's pending profile edits keyed by field name.
// Keys are validated against the editable field set at the api boundary.
type EditBag map[string]any

func (b *EditBag) Scan(value any) error {
	if value == nil {
		*b = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	}
	return fmt.Errorf("unsupported type for EditBag: %T", value)
}

func (b EditBag) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	return json.Marshal(b)
}
