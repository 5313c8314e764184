package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thesavant42/recordsearch/internal/models"
)

// DateTimeLayout is the layout shown to users as the date-time format hint
const DateTimeLayout = "2006-01-02 15:04"

// dateTimeLayouts are accepted by ParseDateTime, in order.
// The "T" variants are what browser datetime-local inputs submit.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	DateTimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDateTime converts a local date-time (or bare epoch seconds) into epoch seconds.
// Blank text is an absent value and returns nil, never zero.
func ParseDateTime(text string, loc *time.Location) (*int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}

	if isDigits(text) {
		epoch, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid epoch %q: %w", text, err)
		}
		return &epoch, nil
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			epoch := t.Unix()
			return &epoch, nil
		}
	}
	return nil, fmt.Errorf("invalid date-time %q: expected %s", text, DateTimeLayout)
}

// FormatDateTime renders epoch seconds as a local date-time for pre-filling inputs.
// A nil epoch renders as an empty string.
func FormatDateTime(epoch *int64, loc *time.Location) string {
	if epoch == nil {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	t := time.Unix(*epoch, 0).In(loc)
	if t.Second() != 0 {
		return t.Format("2006-01-02 15:04:05")
	}
	return t.Format(DateTimeLayout)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DescribeQuery renders a query's bounds and filter in loc for headings and reports
func DescribeQuery(q models.Query, loc *time.Location) string {
	start, end := q.StartEpoch, q.EndEpoch
	s := FormatDateTime(&start, loc) + " to " + FormatDateTime(&end, loc)
	if q.HasFilter() {
		s += fmt.Sprintf(", %s = %s", q.FilterField.Label(), q.FilterValue)
	}
	return s
}
