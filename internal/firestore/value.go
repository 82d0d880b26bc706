package firestore

import (
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
)

// value is the JSON form of a Firestore Value. Exactly one field is set.
type value struct {
	StringValue    *string     `json:"stringValue,omitempty"`
	IntegerValue   *string     `json:"integerValue,omitempty"`
	BooleanValue   *bool       `json:"booleanValue,omitempty"`
	TimestampValue *string     `json:"timestampValue,omitempty"`
	NullValue      *string     `json:"nullValue,omitempty"`
	ArrayValue     *arrayValue `json:"arrayValue,omitempty"`
	MapValue       *mapValue   `json:"mapValue,omitempty"`
}

type arrayValue struct {
	Values []value `json:"values,omitempty"`
}

type mapValue struct {
	Fields fields `json:"fields,omitempty"`
}

// fields are the named values of a document or a map value.
type fields map[string]value

func stringValue(s string) value {
	return value{StringValue: &s}
}

func intValue(i int) value {
	s := strconv.Itoa(i)
	return value{IntegerValue: &s}
}

func boolValue(b bool) value {
	return value{BooleanValue: &b}
}

func nullValue() value {
	s := "NULL_VALUE"
	return value{NullValue: &s}
}

func timestampValue(t time.Time) value {
	s := t.UTC().Format(time.RFC3339Nano)
	return value{TimestampValue: &s}
}

func optionalTimestampValue(t *time.Time) value {
	if t == nil {
		return nullValue()
	}
	return timestampValue(*t)
}

// dateValue stores a calendar date as a timestamp at midnight UTC.
func dateValue(d civil.Date) value {
	return timestampValue(d.In(time.UTC))
}

func arrayOf(values ...value) value {
	return value{ArrayValue: &arrayValue{Values: values}}
}

func mapOf(f fields) value {
	return value{MapValue: &mapValue{Fields: f}}
}

func (f fields) str(key string) string {
	v, ok := f[key]
	if !ok || v.StringValue == nil {
		return ""
	}
	return *v.StringValue
}

func (f fields) integer(key string) (int, error) {
	v, ok := f[key]
	if !ok || v.IntegerValue == nil {
		return 0, nil
	}
	i, err := strconv.Atoi(*v.IntegerValue)
	if err != nil {
		return 0, fmt.Errorf("field %s: strconv.Atoi(%q) > %w", key, *v.IntegerValue, err)
	}
	return i, nil
}

func (f fields) boolean(key string) bool {
	v, ok := f[key]
	return ok && v.BooleanValue != nil && *v.BooleanValue
}

func (f fields) timestamp(key string) (*time.Time, error) {
	v, ok := f[key]
	if !ok || v.TimestampValue == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *v.TimestampValue)
	if err != nil {
		return nil, fmt.Errorf("field %s: time.Parse(%q) > %w", key, *v.TimestampValue, err)
	}
	return &t, nil
}

func (f fields) time(key string) (time.Time, error) {
	t, err := f.timestamp(key)
	if err != nil || t == nil {
		return time.Time{}, err
	}
	return *t, nil
}

func (f fields) date(key string) (civil.Date, error) {
	t, err := f.timestamp(key)
	if err != nil || t == nil {
		return civil.Date{}, err
	}
	return civil.DateOf(t.UTC()), nil
}

func (f fields) array(key string) []value {
	v, ok := f[key]
	if !ok || v.ArrayValue == nil {
		return nil
	}
	return v.ArrayValue.Values
}
