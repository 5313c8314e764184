package cli

import (
	"github.com/thesavant42/recordsearch/internal/api"
	"github.com/thesavant42/recordsearch/internal/config"
	"github.com/thesavant42/recordsearch/internal/search"
	"github.com/thesavant42/recordsearch/internal/ui"
)

// Execute implements the go-flags Commander interface for TUICommand.
func (c *TUICommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	logger, closer, err := config.NewFileLogger(cfg, cfg.LogFile, "recordsearch")
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info("starting interactive search", "backend", cfg.BackendURL, "tz", cfg.Location.String())

	return ui.RunSearchTUI(ui.SearchOptions{
		Form: search.FormOptions{
			Location:    cfg.Location,
			AllowFilter: cfg.AllowFilter,
		},
		Fetcher:   api.NewRecordsClient(cfg.ClientConfig(), logger),
		Logger:    logger,
		ExportDir: c.ExportDir,
	})
}
