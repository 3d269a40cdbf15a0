package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Tags represents a package's unordered tag list, stored as a JSON array in the database.
// It implements the sql.Scanner and driver.Valuer interfaces to handle database serialization.
type Tags []string

// Scan implements the sql.Scanner interface, allowing Tags to be read from the database.
func (t *Tags) Scan(value interface{}) error {
	if value == nil {
		*t = make(Tags, 0)
		return nil
	}

	switch v := value.(type) {
	case []byte:
		json.Unmarshal(v, &t)
		return nil
	case string:
		json.Unmarshal([]byte(v), &t)
		return nil
	default:
		return fmt.Errorf("unsupported type %T", v)
	}
}

// Value implements the driver.Valuer interface, allowing Tags to be written to the database.
func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "[]", nil
	}
	return json.Marshal(t)
}
