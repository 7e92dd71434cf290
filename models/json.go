package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonValue serializes an embedded structure into a TEXT column.
func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// jsonScan restores an embedded structure from a TEXT column. NULL and empty
// values leave dst untouched.
func jsonScan(dst interface{}, src interface{}) error {
	if src == nil {
		return nil
	}
	var b []byte
	switch t := src.(type) {
	case []byte:
		b = t
	case string:
		b = []byte(t)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}
