package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// To satisfy postgres jsonb data type
type StringList []string

func (sl *StringList) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, sl)
}

func (sl StringList) Value() (driver.Value, error) {
	if sl == nil {
		return json.Marshal(StringList{})
	}
	return json.Marshal(sl)
}
