package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is the delivery address snapshot captured on an order, stored as JSONB.
type Address struct {
	Recipient  string   `json:"recipient" validate:"required"`
	Phone      string   `json:"phone" validate:"required"`
	Street     string   `json:"street" validate:"required"`
	Barangay   string   `json:"barangay,omitempty"`
	City       string   `json:"city" validate:"required"`
	Province   string   `json:"province,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Landmark   *string  `json:"landmark,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
}

// Validate reports the first missing required field.
func (a Address) Validate() error {
	switch {
	case strings.TrimSpace(a.Recipient) == "":
		return fmt.Errorf("address: missing recipient")
	case strings.TrimSpace(a.Phone) == "":
		return fmt.Errorf("address: missing phone")
	case strings.TrimSpace(a.Street) == "":
		return fmt.Errorf("address: missing street")
	case strings.TrimSpace(a.City) == "":
		return fmt.Errorf("address: missing city")
	}
	return nil
}

// Value marshals Address into JSON for Postgres.
func (a Address) Value() (driver.Value, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	buf, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes JSONB into the address.
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("address: unsupported scan type %T", value)
	}

	var decoded Address
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("address: decode %w", err)
	}
	*a = decoded
	return nil
}
