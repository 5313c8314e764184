// Package cli wires configuration, the backend client and the three front ends
// (interactive TUI, one-shot search, web server) behind a go-flags command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	goflags "github.com/jessevdk/go-flags"

	"github.com/thesavant42/recordsearch/internal/config"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	TUI    *TUICommand
	Search *SearchCommand
	Serve  *ServeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "recordsearch"
	parser.LongDescription = "Search records by origination time range and an optional attribute filter."
	// no command means the interactive page
	parser.SubcommandsOptional = true

	cmds := &commands{
		TUI:    &TUICommand{globals: &globals},
		Search: &SearchCommand{globals: &globals},
		Serve:  &ServeCommand{globals: &globals},
	}

	parser.AddCommand("tui", "Interactive search (default)", "Run the interactive search form and results table in the terminal.", cmds.TUI)
	parser.AddCommand("search", "Run one search and print the results", "Validate the criteria, fetch the records once and print them as a table, JSON or markdown.", cmds.Search)
	parser.AddCommand("serve", "Serve the web search page", "Serve the search form and results table over HTTP.", cmds.Serve)

	return parser, &globals, cmds
}

// Run is the main entry point using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("recordsearch %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, cmds := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	if parser.Active == nil {
		return cmds.TUI.Execute(nil)
	}
	return nil
}

// IsUsageError reports whether err was produced (and already printed) by the flag parser
func IsUsageError(err error) bool {
	_, ok := err.(*goflags.Error)
	return ok
}

// loadConfig reads the environment and applies the global flag overrides
func loadConfig(g *GlobalFlags) (*config.Config, error) {
	if g == nil {
		g = &GlobalFlags{}
	}
	cfg, err := config.Load(g.EnvFile...)
	if err != nil {
		return nil, err
	}

	if g.Backend != "" {
		cfg.BackendURL = g.Backend
	}
	if g.LogLevel != "" {
		if _, err := config.ParseLevel(g.LogLevel); err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
		cfg.LogLevel = g.LogLevel
	}
	if g.LogFile != "" {
		cfg.LogFile = g.LogFile
	}
	if g.Timezone != "" {
		loc, err := config.LoadLocation(g.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid --timezone: %w", err)
		}
		cfg.Location = loc
	}
	if g.NoFilter {
		cfg.AllowFilter = false
	}
	return cfg, nil
}

// signalContext is cancelled on interrupt or termination
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
