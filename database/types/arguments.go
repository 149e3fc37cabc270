package types

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Arguments is an instance's ordered launch argument list, stored as a JSON
// array.
type Arguments []string

var _ driver.Valuer = Arguments{}

var _ sql.Scanner = &Arguments{}

func (a Arguments) Value() (driver.Value, error) {
	if a == nil {
		a = Arguments{}
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *Arguments) Scan(src any) error {
	switch srcRaw := src.(type) {
	case string:
		return json.Unmarshal([]byte(srcRaw), a)
	case []byte:
		return json.Unmarshal(srcRaw, a)
	}
	return fmt.Errorf("invalid type for arguments: %T", src)
}
