package util

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TimeAsDateTimeTZ is stored as a RFC 3339 string but used as a time.Time
type TimeAsDateTimeTZ time.Time

func (t TimeAsDateTimeTZ) Value() (driver.Value, error) {
	return driver.Value(time.Time(t).Format(time.RFC3339)), nil
}

func (t TimeAsDateTimeTZ) Time() time.Time {
	return time.Time(t)
}

func (t TimeAsDateTimeTZ) String() string {
	return t.Time().String()
}

func (t *TimeAsDateTimeTZ) Scan(src interface{}) error {
	var str string
	switch src := src.(type) {
	case []byte:
		str = string(src)
	case string:
		str = src
	default:
		return fmt.Errorf("expected []byte or string, got %T", src)
	}

	tmp, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return err
	}

	*t = TimeAsDateTimeTZ(tmp)
	return nil
}

func (t TimeAsDateTimeTZ) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time())
}
