package search

import (
	"strings"
	"time"

	"github.com/thesavant42/recordsearch/internal/models"
)

// FormOptions configures a search form
type FormOptions struct {
	Location    *time.Location // zone used to read local date-times, defaults to time.Local
	AllowFilter bool           // false pins the filter field to none
}

// Form maintains draft values, inline errors and the committed query.
// It is not safe for concurrent use; each front end owns one form per session.
type Form struct {
	opts      FormOptions
	draft     Draft
	errs      FieldErrors
	banner    string
	committed *models.Query
}

// NewForm creates an empty form with no committed query
func NewForm(opts FormOptions) *Form {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Form{
		opts: opts,
		draft: Draft{
			FilterField: models.FilterNone,
			loc:         opts.Location,
		},
		errs: FieldErrors{},
	}
}

// AllowFilter reports whether the optional filter is offered
func (f *Form) AllowFilter() bool { return f.opts.AllowFilter }

// Location returns the zone local date-times are read in
func (f *Form) Location() *time.Location { return f.opts.Location }

// SetStart updates the start date-time text
func (f *Form) SetStart(text string) {
	f.draft.Start = sanitizeInput(text)
	delete(f.errs, FieldStart)
	f.uncommit()
}

// SetEnd updates the end date-time text
func (f *Form) SetEnd(text string) {
	f.draft.End = sanitizeInput(text)
	delete(f.errs, FieldEnd)
	f.uncommit()
}

// SetFilterField selects the filter field. Ignored when filtering is disabled.
func (f *Form) SetFilterField(field models.FilterField) {
	if !f.opts.AllowFilter {
		return
	}
	if field == "" {
		field = models.FilterNone
	}
	f.draft.FilterField = field
	f.uncommit()
}

// SetFilterValue updates the filter value text
func (f *Form) SetFilterValue(text string) {
	f.draft.FilterValue = sanitizeInput(text)
	delete(f.errs, FieldFilterValue)
	f.uncommit()
}

// Submit validates the draft. On success it commits and returns exactly one new query,
// replacing any previous one. On failure it returns a *ValidationError and nothing is committed.
func (f *Form) Submit() (models.Query, error) {
	errs := Validate(f.draft)
	f.errs = errs
	if len(errs) > 0 {
		f.committed = nil
		f.banner = BannerMessage
		return models.Query{}, &ValidationError{Fields: copyErrors(errs)}
	}

	// both parse: Validate already checked them
	start, _ := ParseDateTime(f.draft.Start, f.opts.Location)
	end, _ := ParseDateTime(f.draft.End, f.opts.Location)

	q := models.Query{
		StartEpoch:  *start,
		EndEpoch:    *end,
		FilterField: f.draft.FilterField,
		FilterValue: strings.TrimSpace(f.draft.FilterValue),
	}.Normalize()

	f.committed = &q
	f.banner = ""
	return q, nil
}

// Committed returns the committed query, if any
func (f *Form) Committed() (models.Query, bool) {
	if f.committed == nil {
		return models.Query{}, false
	}
	return *f.committed, true
}

// Draft returns a copy of the current draft values
func (f *Form) Draft() Draft { return f.draft }

// Errors returns a copy of the inline field errors
func (f *Form) Errors() FieldErrors { return copyErrors(f.errs) }

// Error returns the inline error for a single field, or ""
func (f *Form) Error(field Field) string { return f.errs[field] }

// Banner returns the generic submit error, or "" when the last submit succeeded
func (f *Form) Banner() string { return f.banner }

// uncommit hides results for edited-but-unsubmitted criteria
func (f *Form) uncommit() {
	f.committed = nil
}

func copyErrors(errs FieldErrors) FieldErrors {
	out := make(FieldErrors, len(errs))
	for k, v := range errs {
		out[k] = v
	}
	return out
}

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
