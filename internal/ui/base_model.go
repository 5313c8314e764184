package ui

// base_model.go provides common TUI functionality for Bubble Tea models.

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// Table Initialization Helpers
// =============================================================================

// InitTable creates and configures a table with proper styling and dimensions.
// Use this instead of manually calling table.New() to ensure consistent setup.
//
// Example:
//
//	columns := CalculateColumns(RecordColumns(), layout.TableWidth)
//	m.table = InitTable(columns, rows, layout)
func InitTable(columns []table.Column, rows []table.Row, layout Layout) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(layout.TableHeight),
	)

	ApplyTableStyles(&t)

	// Ensure cursor starts at the top for proper viewport positioning
	t.GotoTop()

	return t
}

// tableColumnsFor fits the column specs into the layout.
// Each bubbles cell carries one space of padding on either side.
func tableColumnsFor(specs []ColumnSpec, layout Layout) []table.Column {
	return CalculateColumns(specs, layout.TableWidth-2*len(specs))
}

// =============================================================================
// Standard Init/Update Helpers
// =============================================================================

// StandardInit returns the standard Init command: ask for the window size.
func StandardInit() tea.Cmd {
	return tea.WindowSize()
}

// =============================================================================
// Key Handling Helpers
// =============================================================================

// HandleQuitKeysNoQ returns true and Quit cmd for esc/ctrl+c.
// "q" is left alone because the form has text inputs.
func HandleQuitKeysNoQ(key string) (bool, tea.Cmd) {
	switch key {
	case "esc", "ctrl+c":
		return true, tea.Quit
	}
	return false, nil
}
