package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/thesavant42/recordsearch/internal/models"
	"github.com/thesavant42/recordsearch/internal/search"
	"github.com/thesavant42/recordsearch/internal/viewer"
)

// datetime-local inputs want this layout back
const inputLayout = "2006-01-02T15:04:05"

type handlers struct {
	form    search.FormOptions
	fetcher viewer.Fetcher
	logger  *log.Logger
}

type filterOption struct {
	Value    string
	Label    string
	Selected bool
}

type resultsData struct {
	State   string
	Message string
	Query   string
	Count   int
	Columns []string
	Rows    [][]string
}

type pageData struct {
	Location    string
	AllowFilter bool
	Start       string
	End         string
	Value       string
	ShowValue   bool
	Filters     []filterOption
	Errors      map[string]string
	Banner      string
	Results     *resultsData
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	form := search.NewForm(h.form)
	if err := render(w, http.StatusOK, h.page(form, nil)); err != nil {
		h.logger.Error("render failed", "err", err)
	}
}

// search validates the query string like a form submit and, when valid, runs one fetch
func (h *handlers) search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	form := search.NewForm(h.form)
	form.SetStart(params.Get("start"))
	form.SetEnd(params.Get("end"))
	if form.AllowFilter() {
		field, err := models.ParseFilterField(params.Get("field"))
		if err != nil {
			// let the validator report the unknown name inline
			field = models.FilterField(params.Get("field"))
		}
		form.SetFilterField(field)
		form.SetFilterValue(params.Get("value"))
	}

	q, err := form.Submit()
	if err != nil {
		var verr *search.ValidationError
		if !errors.As(err, &verr) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := render(w, http.StatusUnprocessableEntity, h.page(form, nil)); err != nil {
			h.logger.Error("render failed", "err", err)
		}
		return
	}

	v := viewer.New(h.fetcher, h.logger)
	snap := v.Load(r.Context(), q)

	if err := render(w, http.StatusOK, h.page(form, &snap)); err != nil {
		h.logger.Error("render failed", "err", err)
	}
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// page builds the template data from the form and an optional settled snapshot
func (h *handlers) page(form *search.Form, snap *viewer.Snapshot) pageData {
	loc := form.Location()
	draft := form.Draft()

	data := pageData{
		Location:    loc.String(),
		AllowFilter: form.AllowFilter(),
		Start:       inputValue(draft.Start, loc),
		End:         inputValue(draft.End, loc),
		Value:       draft.FilterValue,
		ShowValue:   draft.FilterField != models.FilterNone,
		Errors:      make(map[string]string),
		Banner:      form.Banner(),
	}
	for field, msg := range form.Errors() {
		data.Errors[string(field)] = msg
	}
	for _, f := range models.FilterFields() {
		data.Filters = append(data.Filters, filterOption{
			Value:    string(f),
			Label:    f.Label(),
			Selected: f == draft.FilterField,
		})
	}

	if snap != nil && snap.State != viewer.Idle && snap.State != viewer.Loading {
		res := &resultsData{
			State:   snap.State.String(),
			Message: snap.Message,
			Query:   search.DescribeQuery(snap.Query, loc),
			Count:   len(snap.Records),
			Columns: models.RecordColumnTitles,
		}
		for _, rec := range snap.Records {
			res.Rows = append(res.Rows, rec.Row())
		}
		data.Results = res
	}
	return data
}

// inputValue converts typed text into the datetime-local format when it parses,
// so epoch seconds and "YYYY-MM-DD HH:MM" come back as a filled-in picker.
func inputValue(text string, loc *time.Location) string {
	epoch, err := search.ParseDateTime(text, loc)
	if err != nil || epoch == nil {
		return text
	}
	return time.Unix(*epoch, 0).In(loc).Format(inputLayout)
}
