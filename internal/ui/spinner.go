package ui

// spinner.go provides a blocking spinner for long-running CLI operations.
// The TUI draws its own bubbles spinner (NewAppSpinner) inside the results area.

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// RunWithSpinner executes an action while displaying a spinner.
// Cancelling ctx stops the spinner; the action should watch the same context.
//
// Example:
//
//	var snap viewer.Snapshot
//	err := RunWithSpinner(ctx, "Fetching records...", func() {
//	    snap = v.Load(ctx, q)
//	})
func RunWithSpinner(ctx context.Context, title string, action func()) error {
	err := spinner.New().
		Title(title).
		Context(ctx).
		Action(action).
		Run()
	if err != nil {
		return fmt.Errorf("spinner error: %w", err)
	}
	return nil
}
