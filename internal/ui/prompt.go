package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"

	"github.com/thesavant42/recordsearch/internal/models"
	"github.com/thesavant42/recordsearch/internal/search"
)

// ErrPromptCancelled is returned when the user aborts a prompt
var ErrPromptCancelled = errors.New("prompt cancelled")

// PromptForQuery asks for the search criteria with huh and submits them to form.
// A rejected submit prints the field errors to w and asks again with the values kept.
func PromptForQuery(form *search.Form, w io.Writer) (models.Query, error) {
	draft := form.Draft()
	start, end := draft.Start, draft.End
	value := draft.FilterValue
	filter := string(draft.FilterField)
	if filter == "" {
		filter = string(models.FilterNone)
	}

	for {
		hf := buildQueryForm(form, &start, &end, &filter, &value)
		if err := hf.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return models.Query{}, ErrPromptCancelled
			}
			return models.Query{}, fmt.Errorf("%w: %v", ErrPromptCancelled, err)
		}

		form.SetStart(start)
		form.SetEnd(end)
		if form.AllowFilter() {
			form.SetFilterField(models.FilterField(filter))
			form.SetFilterValue(value)
		}

		q, err := form.Submit()
		if err == nil {
			return q, nil
		}
		var verr *search.ValidationError
		if !errors.As(err, &verr) {
			return models.Query{}, err
		}
		PrintFieldErrors(w, verr.Fields)
	}
}

func buildQueryForm(form *search.Form, start, end, filter, value *string) *huh.Form {
	loc := form.Location()
	dateHint := fmt.Sprintf("%s (%s) or epoch seconds", search.DateTimeLayout, loc)

	validateDateTime := func(label string) func(string) error {
		return func(s string) error {
			epoch, err := search.ParseDateTime(s, loc)
			if err != nil {
				return fmt.Errorf("%s must be a date-time like %s", label, search.DateTimeLayout)
			}
			if epoch == nil {
				return fmt.Errorf("%s is a required field", label)
			}
			return nil
		}
	}

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().
				Title(search.LabelStart).
				Description(dateHint).
				Placeholder(search.DateTimeLayout).
				Value(start).
				Validate(validateDateTime(search.LabelStart)),
			huh.NewInput().
				Title(search.LabelEnd).
				Description(dateHint).
				Placeholder(search.DateTimeLayout).
				Value(end).
				Validate(validateDateTime(search.LabelEnd)),
		),
	}

	if form.AllowFilter() {
		options := make([]huh.Option[string], 0, len(models.FilterFields()))
		for _, f := range models.FilterFields() {
			options = append(options, huh.NewOption(f.Label(), string(f)))
		}
		groups = append(groups,
			huh.NewGroup(
				huh.NewSelect[string]().
					Title(search.LabelFilterField).
					Options(options...).
					Value(filter),
			),
			huh.NewGroup(
				huh.NewInput().
					Title(search.LabelFilterValue).
					Description("Required when a search parameter is chosen").
					Value(value),
			).WithHideFunc(func() bool {
				return *filter == string(models.FilterNone)
			}),
		)
	}

	return huh.NewForm(groups...).WithTheme(NewAppTheme())
}

// PromptForExport asks whether the results should be saved as markdown
func PromptForExport(count int) bool {
	var export bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Export %d records to Markdown?", count)).
				Description("Save the results as a markdown document").
				Affirmative("Yes").
				Negative("No").
				Value(&export),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return false // Default to no export on cancel
	}

	return export
}
