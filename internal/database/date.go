package database

import (
	"database/sql/driver"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Date stores a civil.Date in a DATE column.
// MySQL returns DATE as time.Time with parseTime, SQLite may return text, so scanning accepts both.
type Date struct {
	civil.Date
}

// NewDate wraps d for use as a query argument.
func NewDate(d civil.Date) Date {
	return Date{Date: d}
}

func (d Date) Value() (driver.Value, error) {
	return d.Date.String(), nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Date = civil.DateOf(v)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	case nil:
		d.Date = civil.Date{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into database.Date", src)
}

func (d *Date) parse(s string) error {
	if len(s) > len("2006-01-02") {
		s = s[:len("2006-01-02")]
	}
	parsed, err := civil.ParseDate(s)
	if err != nil {
		return fmt.Errorf("civil.ParseDate(%q) > %w", s, err)
	}
	d.Date = parsed
	return nil
}
