package cli

import (
	"os"

	"github.com/thesavant42/recordsearch/internal/api"
	"github.com/thesavant42/recordsearch/internal/config"
	"github.com/thesavant42/recordsearch/internal/search"
	"github.com/thesavant42/recordsearch/internal/web"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	if c.Listen != "" {
		cfg.Listen = c.Listen
	}

	logger := config.NewLogger(cfg, os.Stderr, "recordsearch")
	srv := web.NewServer(web.Options{
		Addr: cfg.Listen,
		Form: search.FormOptions{
			Location:    cfg.Location,
			AllowFilter: cfg.AllowFilter,
		},
		Fetcher: api.NewRecordsClient(cfg.ClientConfig(), logger),
		Logger:  logger,
	})

	ctx, stop := signalContext()
	defer stop()

	logger.Info("serving record search", "addr", srv.Addr(), "backend", cfg.BackendURL)
	return srv.Run(ctx)
}
