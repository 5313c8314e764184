package main

import (
	"errors"
	"os"

	"github.com/thesavant42/recordsearch/internal/cli"
	"github.com/thesavant42/recordsearch/internal/ui"
)

var version = "dev"

func main() {
	if err := cli.Run(version); err != nil {
		// the parser prints its own usage errors; field errors are printed before ErrInvalidQuery
		if !cli.IsUsageError(err) && !errors.Is(err, cli.ErrInvalidQuery) {
			ui.PrintError(err.Error())
		}
		os.Exit(1)
	}
}
