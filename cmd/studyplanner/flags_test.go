package main

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"

	"github.com/at-ishikawa/studyplanner/internal/study"
)

func TestDateFlag_Set(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    civil.Date
		wantErr bool
	}{
		{
			name:  "iso date",
			value: "2024-02-29",
			want:  civil.Date{Year: 2024, Month: time.February, Day: 29},
		},
		{
			name:    "brazilian format",
			value:   "29/02/2024",
			wantErr: true,
		},
		{
			name:    "invalid day",
			value:   "2023-02-29",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flag DateFlag
			err := flag.Set(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "expected YYYY-MM-DD")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, civil.Date(flag))
		})
	}
}

func TestDateFlag_String(t *testing.T) {
	set := DateFlag(civil.Date{Year: 2024, Month: time.March, Day: 5})
	unset := DateFlag{}

	assert.Equal(t, "2024-03-05", set.String())
	assert.Equal(t, "", unset.String())
	assert.Equal(t, "", (*DateFlag)(nil).String())
	assert.Equal(t, "date", unset.Type())
}

func TestDateFlag_Date(t *testing.T) {
	fallback := civil.Date{Year: 2024, Month: time.January, Day: 1}
	set := DateFlag(civil.Date{Year: 2024, Month: time.March, Day: 5})
	unset := DateFlag{}

	assert.Equal(t, civil.Date{Year: 2024, Month: time.March, Day: 5}, set.Date(fallback))
	assert.Equal(t, fallback, unset.Date(fallback))
}

func TestReviewOffsetsFlag_Set(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    ReviewOffsetsFlag
		wantErr bool
	}{
		{
			name:   "repeated values",
			values: []string{"7", "30d"},
			want:   ReviewOffsetsFlag{study.Offset7Days, study.Offset30Days},
		},
		{
			name:   "comma separated",
			values: []string{"15, 60"},
			want:   ReviewOffsetsFlag{study.Offset15Days, study.Offset60Days},
		},
		{
			name:    "offset outside the catalog",
			values:  []string{"10"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flag ReviewOffsetsFlag
			var err error
			for _, v := range tt.values {
				if err = flag.Set(v); err != nil {
					break
				}
			}
			if tt.wantErr {
				assert.ErrorIs(t, err, study.ErrInvalidReviewOffset)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, flag)
		})
	}
}

func TestReviewOffsetsFlag_String(t *testing.T) {
	flag := ReviewOffsetsFlag{study.Offset7Days, study.Offset120Days}

	assert.Equal(t, "7,120", flag.String())
	assert.Equal(t, "", (*ReviewOffsetsFlag)(nil).String())
	assert.Equal(t, "days", flag.Type())
}
