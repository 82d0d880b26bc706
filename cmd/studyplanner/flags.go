package main

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/studyplanner/internal/study"
)

// DateFlag accepts dates as YYYY-MM-DD.
type DateFlag civil.Date

// Set implements pflag.Value.
func (d *DateFlag) Set(v string) error {
	date, err := civil.ParseDate(v)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", v)
	}
	*d = DateFlag(date)
	return nil
}

// String implements pflag.Value.
func (d *DateFlag) String() string {
	if d == nil || civil.Date(*d) == (civil.Date{}) {
		return ""
	}
	return civil.Date(*d).String()
}

// Type implements pflag.Value.
func (d *DateFlag) Type() string {
	return "date"
}

// Date returns the parsed date, or fallback when the flag was not set.
func (d *DateFlag) Date(fallback civil.Date) civil.Date {
	if civil.Date(*d) == (civil.Date{}) {
		return fallback
	}
	return civil.Date(*d)
}

// ReviewOffsetsFlag collects repeated --review values such as 7 or 30d.
type ReviewOffsetsFlag []study.ReviewOffset

// Set implements pflag.Value.
func (f *ReviewOffsetsFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		offset, err := study.ParseReviewOffset(strings.TrimSpace(part))
		if err != nil {
			return err
		}
		*f = append(*f, offset)
	}
	return nil
}

// String implements pflag.Value.
func (f *ReviewOffsetsFlag) String() string {
	if f == nil {
		return ""
	}
	days := make([]string, len(*f))
	for i, o := range *f {
		days[i] = fmt.Sprintf("%d", o.Days())
	}
	return strings.Join(days, ",")
}

// Type implements pflag.Value.
func (f *ReviewOffsetsFlag) Type() string {
	return "days"
}

var (
	_ pflag.Value = (*DateFlag)(nil)
	_ pflag.Value = (*ReviewOffsetsFlag)(nil)
)
