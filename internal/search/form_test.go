package search

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesavant42/recordsearch/internal/models"
)

func newTestForm() *Form {
	return NewForm(FormOptions{Location: time.UTC, AllowFilter: true})
}

func TestSubmitRequiresBothTimes(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       FieldErrors
	}{
		{
			name: "both missing",
			want: FieldErrors{
				FieldStart: "Start DateTime is a required field",
				FieldEnd:   "End DateTime is a required field",
			},
		},
		{
			name: "start missing",
			end:  "1700003600",
			want: FieldErrors{FieldStart: "Start DateTime is a required field"},
		},
		{
			name:  "end missing",
			start: "2023-11-14 22:13",
			want:  FieldErrors{FieldEnd: "End DateTime is a required field"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestForm()
			f.SetStart(tt.start)
			f.SetEnd(tt.end)

			q, err := f.Submit()
			require.Error(t, err)
			assert.Equal(t, models.Query{}, q)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.want, verr.Fields)
			assert.Equal(t, tt.want, f.Errors())
			assert.Equal(t, BannerMessage, f.Banner())

			_, ok := f.Committed()
			assert.False(t, ok)
		})
	}
}

func TestSubmitRejectsStartNotBeforeEnd(t *testing.T) {
	for _, tc := range [][2]string{
		{"1700003600", "1700000000"},
		{"1700000000", "1700000000"},
		{"2023-11-14 23:13", "2023-11-14 22:13"},
	} {
		f := newTestForm()
		f.SetStart(tc[0])
		f.SetEnd(tc[1])

		_, err := f.Submit()
		require.Error(t, err)
		assert.Equal(t, FieldErrors{
			FieldStart: "Start DateTime must take place before the End DateTime.",
			FieldEnd:   "End DateTime must take place after the Start DateTime.",
		}, f.Errors(), "start=%s end=%s", tc[0], tc[1])
	}
}

func TestSubmitFilterValueRules(t *testing.T) {
	for _, field := range models.FilterFields() {
		f := newTestForm()
		f.SetStart("1700000000")
		f.SetEnd("1700003600")
		f.SetFilterField(field)
		f.SetFilterValue("")

		q, err := f.Submit()
		if field == models.FilterNone {
			require.NoError(t, err, "none never validates the value")
			assert.Equal(t, models.FilterNone, q.FilterField)
			continue
		}
		require.Error(t, err, "field %s", field)
		assert.Equal(t, FieldErrors{
			FieldFilterValue: "Search Value must have a value if Search Parameter is not None",
		}, f.Errors())
	}
}

func TestSubmitNoneIgnoresFilterValue(t *testing.T) {
	f := newTestForm()
	f.SetStart("1700000000")
	f.SetEnd("1700003600")
	f.SetFilterValue("leftover text")

	q, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, "", q.FilterValue)
}

func TestSubmitAccumulatesAllErrors(t *testing.T) {
	f := newTestForm()
	f.SetEnd("not a date")
	f.SetFilterField(models.FilterPhone)

	_, err := f.Submit()
	require.Error(t, err)
	assert.Equal(t, FieldErrors{
		FieldStart:       "Start DateTime is a required field",
		FieldEnd:         "End DateTime must be a date-time like 2006-01-02 15:04",
		FieldFilterValue: "Search Value must have a value if Search Parameter is not None",
	}, f.Errors())
}

func TestSubmitEmitsEpochQuery(t *testing.T) {
	f := newTestForm()
	f.SetStart("2023-11-14 22:13:20")
	f.SetEnd("2023-11-14T23:13:20")
	f.SetFilterField(models.FilterPhone)
	f.SetFilterValue(" 555-1234 ")

	q, err := f.Submit()
	require.NoError(t, err)

	want := models.Query{
		StartEpoch:  1700000000,
		EndEpoch:    1700003600,
		FilterField: models.FilterPhone,
		FilterValue: "555-1234",
	}
	assert.Equal(t, want, q)

	committed, ok := f.Committed()
	require.True(t, ok)
	assert.Equal(t, want, committed)
	assert.Empty(t, f.Errors())
	assert.Empty(t, f.Banner())
}

func TestEditAfterSubmitUncommits(t *testing.T) {
	edits := map[string]func(f *Form){
		"start":        func(f *Form) { f.SetStart("1700000001") },
		"end":          func(f *Form) { f.SetEnd("1700003601") },
		"filter field": func(f *Form) { f.SetFilterField(models.FilterUserID) },
		"filter value": func(f *Form) { f.SetFilterValue("u1") },
	}

	for name, edit := range edits {
		t.Run(name, func(t *testing.T) {
			f := newTestForm()
			f.SetStart("1700000000")
			f.SetEnd("1700003600")
			_, err := f.Submit()
			require.NoError(t, err)

			edit(f)
			_, ok := f.Committed()
			assert.False(t, ok)
		})
	}
}

func TestResubmitReplacesQuery(t *testing.T) {
	f := newTestForm()
	f.SetStart("1700000000")
	f.SetEnd("1700003600")
	first, err := f.Submit()
	require.NoError(t, err)

	f.SetEnd("1700007200")
	second, err := f.Submit()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	committed, ok := f.Committed()
	require.True(t, ok)
	assert.Equal(t, second, committed)
}

func TestEditClearsOnlyThatFieldError(t *testing.T) {
	f := newTestForm()
	_, err := f.Submit()
	require.Error(t, err)

	f.SetStart("1700000000")
	assert.Empty(t, f.Error(FieldStart))
	assert.Equal(t, "End DateTime is a required field", f.Error(FieldEnd))
}

func TestFilterDisabledPinsNone(t *testing.T) {
	f := NewForm(FormOptions{Location: time.UTC})
	f.SetStart("1700000000")
	f.SetEnd("1700003600")
	f.SetFilterField(models.FilterPhone)

	q, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, models.FilterNone, q.FilterField)
	assert.False(t, f.AllowFilter())
}

func TestValidateRejectsUnknownFilterField(t *testing.T) {
	errs := Validate(Draft{Start: "1", End: "2", FilterField: "email"})
	assert.Equal(t, "Search Parameter must be one of [none phone voicemail userId clusterId]", errs[FieldFilterField])
	assert.NotContains(t, errs, FieldFilterValue)
}

func TestSanitizeInputStripsControlCharacters(t *testing.T) {
	assert.Equal(t, "555-1234", sanitizeInput(" 555\x00-1234\x07 "))
}
