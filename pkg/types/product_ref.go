package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ProductRef is an opaque catalog identifier. Clients send either numbers or
// strings; the JSON literal is stored as text so the id is echoed back with
// the kind it arrived with. The zero value is an absent id.
type ProductRef struct {
	literal string
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ProductRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = ProductRef{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		encoded, err := json.Marshal(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		*p = ProductRef{literal: string(encoded)}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("product id must be a string or number: %w", err)
	}
	*p = ProductRef{literal: n.String()}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p ProductRef) MarshalJSON() ([]byte, error) {
	if p.literal == "" {
		return []byte("null"), nil
	}
	return []byte(p.literal), nil
}

// String returns the id without JSON quoting.
func (p ProductRef) String() string {
	if strings.HasPrefix(p.literal, `"`) {
		var s string
		if err := json.Unmarshal([]byte(p.literal), &s); err == nil {
			return s
		}
	}
	return p.literal
}

// Value stores the JSON literal.
func (p ProductRef) Value() (driver.Value, error) {
	return p.literal, nil
}

// Scan reads a stored JSON literal. Text that is not valid JSON is read as a string id.
func (p *ProductRef) Scan(value any) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*p = ProductRef{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported product id type %T", value)
	}
	if raw == "" {
		*p = ProductRef{}
		return nil
	}
	if !json.Valid([]byte(raw)) {
		encoded, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		raw = string(encoded)
	}
	*p = ProductRef{literal: raw}
	return nil
}
