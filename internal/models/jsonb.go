package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap is a free-form JSON object stored in a JSONB column.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src any) error {
	data, err := jsonBytes(src)
	if err != nil {
		return err
	}
	out := JSONMap{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return fmt.Errorf("scan json map: %w", err)
		}
	}
	*m = out
	return nil
}

// UnreadCounts maps participant id to that participant's unread message count.
type UnreadCounts map[string]int

// Value implements driver.Valuer.
func (u UnreadCounts) Value() (driver.Value, error) {
	if u == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(u)
}

// Scan implements sql.Scanner.
func (u *UnreadCounts) Scan(src any) error {
	data, err := jsonBytes(src)
	if err != nil {
		return err
	}
	out := UnreadCounts{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return fmt.Errorf("scan unread counts: %w", err)
		}
	}
	*u = out
	return nil
}

func jsonBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported json source type %T", src)
	}
}
