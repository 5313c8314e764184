package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/thesavant42/recordsearch/internal/api"
	"github.com/thesavant42/recordsearch/internal/config"
	"github.com/thesavant42/recordsearch/internal/models"
	"github.com/thesavant42/recordsearch/internal/search"
	"github.com/thesavant42/recordsearch/internal/ui"
	"github.com/thesavant42/recordsearch/internal/viewer"
)

// ErrInvalidQuery is returned after the field errors of a rejected search were printed
var ErrInvalidQuery = errors.New("invalid search criteria")

// Execute implements the go-flags Commander interface for SearchCommand.
func (c *SearchCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	logger := config.NewLogger(cfg, os.Stderr, "recordsearch")
	client := api.NewRecordsClient(cfg.ClientConfig(), logger)

	ctx, stop := signalContext()
	defer stop()

	return c.executeWithFetcher(ctx, cfg, client, logger, os.Stdout, os.Stderr)
}

// executeWithFetcher runs the search against a provided fetcher (for testing).
func (c *SearchCommand) executeWithFetcher(ctx context.Context, cfg *config.Config, fetcher viewer.Fetcher, logger *log.Logger, stdout, stderr io.Writer) error {
	form := search.NewForm(search.FormOptions{
		Location:    cfg.Location,
		AllowFilter: cfg.AllowFilter,
	})

	q, err := c.query(form, stderr)
	if err != nil {
		return err
	}

	v := viewer.New(fetcher, logger)
	var snap viewer.Snapshot
	if c.NoSpinner || c.Format != "table" {
		snap = v.Load(ctx, q)
	} else {
		err := ui.RunWithSpinner(ctx, "Fetching records...", func() {
			snap = v.Load(ctx, q)
		})
		if err != nil {
			return err
		}
	}

	switch snap.State {
	case viewer.Error:
		return errors.New(snap.Message)
	case viewer.Empty, viewer.Populated:
	default:
		// interrupted before the fetch settled
		return fmt.Errorf("search interrupted: %w", context.Cause(ctx))
	}

	if err := c.print(stdout, q, snap.Records, cfg); err != nil {
		return err
	}

	return c.export(q, snap.Records, cfg, stderr)
}

// confirmExport is swapped out in tests; the huh confirm needs a terminal
var confirmExport = ui.PromptForExport

// export writes the markdown file into --output, or into the working directory when an
// interactive session confirms it
func (c *SearchCommand) export(q models.Query, records []models.Record, cfg *config.Config, stderr io.Writer) error {
	dir := c.Output
	if dir == "" {
		if !c.Interactive || !confirmExport(len(records)) {
			return nil
		}
		dir = "."
	}

	path, err := ui.ExportRecordsToMarkdown(dir, q, records, cfg.Location)
	if err != nil {
		return err
	}
	ui.PrintSuccess(stderr, fmt.Sprintf("Exported %d records to %s", len(records), path))
	return nil
}

// query turns the flags (or the interactive prompt) into a committed query
func (c *SearchCommand) query(form *search.Form, stderr io.Writer) (models.Query, error) {
	form.SetStart(c.Start)
	form.SetEnd(c.End)
	if form.AllowFilter() {
		field, err := models.ParseFilterField(c.Field)
		if err != nil {
			return models.Query{}, fmt.Errorf("invalid --field: %w", err)
		}
		form.SetFilterField(field)
		form.SetFilterValue(c.Value)
	} else if c.Field != "" || c.Value != "" {
		fmt.Fprintln(stderr, "Filtering is disabled; ignoring --field and --value")
	}

	if c.Interactive {
		return ui.PromptForQuery(form, stderr)
	}

	q, err := form.Submit()
	if err != nil {
		var verr *search.ValidationError
		if errors.As(err, &verr) {
			ui.PrintFieldErrors(stderr, verr.Fields)
			return models.Query{}, ErrInvalidQuery
		}
		return models.Query{}, err
	}
	return q, nil
}

func (c *SearchCommand) print(w io.Writer, q models.Query, records []models.Record, cfg *config.Config) error {
	switch c.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "markdown":
		_, err := fmt.Fprint(w, ui.GenerateMarkdownReport(q, records, cfg.Location))
		return err
	default:
		ui.PrintHeader(w, q, cfg.Location, len(records))
		fmt.Fprintln(w)
		ui.PrintRecordTable(w, records)
		return nil
	}
}
