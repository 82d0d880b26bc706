package study

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidReviewOffset   = errors.New("study: review offset is not in the catalog")
	ErrReviewIndexOutOfRange = errors.New("study: review index out of range")
)

// ReviewOffset is the number of calendar days between a study and one of its reviews.
// Only the values returned by Catalog are valid.
type ReviewOffset int

const (
	Offset7Days   ReviewOffset = 7
	Offset15Days  ReviewOffset = 15
	Offset30Days  ReviewOffset = 30
	Offset60Days  ReviewOffset = 60
	Offset90Days  ReviewOffset = 90
	Offset120Days ReviewOffset = 120
)

var catalog = [...]ReviewOffset{
	Offset7Days,
	Offset15Days,
	Offset30Days,
	Offset60Days,
	Offset90Days,
	Offset120Days,
}

var (
	_ fmt.Stringer             = ReviewOffset(0)
	_ encoding.TextMarshaler   = ReviewOffset(0)
	_ encoding.TextUnmarshaler = (*ReviewOffset)(nil)
	_ json.Marshaler           = ReviewOffset(0)
	_ json.Unmarshaler         = (*ReviewOffset)(nil)
)

// Catalog returns the review offsets a study can select, ascending.
func Catalog() []ReviewOffset {
	offsets := make([]ReviewOffset, len(catalog))
	copy(offsets, catalog[:])
	return offsets
}

// IsValid reports whether o is part of the catalog.
func (o ReviewOffset) IsValid() bool {
	for _, c := range catalog {
		if o == c {
			return true
		}
	}
	return false
}

// Days returns the offset as a plain number of days.
func (o ReviewOffset) Days() int {
	return int(o)
}

// String returns the user-facing label, e.g. "7 dias".
func (o ReviewOffset) String() string {
	if o.IsValid() {
		return fmt.Sprintf("%d dias", int(o))
	}
	return fmt.Sprintf("ReviewOffset(%d)", int(o))
}

// MarshalText encodes the offset as its number of days.
func (o ReviewOffset) MarshalText() ([]byte, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidReviewOffset, int(o))
	}
	return []byte(strconv.Itoa(int(o))), nil
}

// UnmarshalText decodes a number of days, rejecting values outside the catalog.
func (o *ReviewOffset) UnmarshalText(text []byte) error {
	v, err := ParseReviewOffset(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// MarshalJSON encodes the offset as a JSON number.
func (o ReviewOffset) MarshalJSON() ([]byte, error) {
	return o.MarshalText()
}

// UnmarshalJSON accepts a JSON number or a string such as "30d".
func (o *ReviewOffset) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		s = string(data)
	}
	return o.UnmarshalText([]byte(s))
}

// ParseReviewOffset parses "30" or "30d" into a catalog offset.
func ParseReviewOffset(s string) (ReviewOffset, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(s), "d")
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidReviewOffset, s)
	}
	o := ReviewOffset(n)
	if !o.IsValid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidReviewOffset, n)
	}
	return o, nil
}
