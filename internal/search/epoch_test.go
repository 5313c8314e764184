package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesavant42/recordsearch/internal/models"
)

func TestParseDateTime(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	tests := []struct {
		text string
		loc  *time.Location
		want int64
	}{
		{"1700000000", time.UTC, 1700000000},
		{"2023-11-14 22:13:20", time.UTC, 1700000000},
		{"2023-11-14 22:13", time.UTC, 1699999980},
		{"2023-11-14T22:13:20", time.UTC, 1700000000},
		{"2023-11-14T22:13", time.UTC, 1699999980},
		{"2023-11-14 23:13:20", berlin, 1700000000},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseDateTime(tt.text, tt.loc)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseDateTimeBlankIsAbsent(t *testing.T) {
	for _, text := range []string{"", "   "} {
		got, err := ParseDateTime(text, time.UTC)
		require.NoError(t, err)
		assert.Nil(t, got, "blank must not become epoch zero")
	}
}

func TestParseDateTimeInvalid(t *testing.T) {
	for _, text := range []string{"yesterday", "2023-13-01 00:00", "14/11/2023 22:13"} {
		_, err := ParseDateTime(text, time.UTC)
		assert.Error(t, err, text)
	}
}

func TestFormatDateTime(t *testing.T) {
	assert.Equal(t, "", FormatDateTime(nil, time.UTC))

	epoch := int64(1700000000)
	assert.Equal(t, "2023-11-14 22:13:20", FormatDateTime(&epoch, time.UTC))

	minute := int64(1699999980)
	formatted := FormatDateTime(&minute, time.UTC)
	assert.Equal(t, "2023-11-14 22:13", formatted)

	back, err := ParseDateTime(formatted, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, minute, *back)
}

func TestDescribeQuery(t *testing.T) {
	q := models.Query{StartEpoch: 1700000000, EndEpoch: 1700003600, FilterField: models.FilterNone}
	assert.Equal(t, "2023-11-14 22:13:20 to 2023-11-14 23:13:20", DescribeQuery(q, time.UTC))

	q.FilterField = models.FilterUserID
	q.FilterValue = "u1"
	assert.Equal(t, "2023-11-14 22:13:20 to 2023-11-14 23:13:20, User ID = u1", DescribeQuery(q, time.UTC))
}
