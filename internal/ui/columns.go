package ui

// columns.go provides generic column width calculation for bubbles/table.
// Use ColumnSpec and CalculateColumns() instead of duplicating percentage-based math.

import (
	"github.com/charmbracelet/bubbles/table"

	"github.com/thesavant42/recordsearch/internal/models"
)

// =============================================================================
// Column Specification Types
// =============================================================================

// ColumnSpec defines a table column with flexible or fixed width.
// Use FlexRatio for columns that should expand/contract with terminal width.
// Use FixedWidth for columns that should maintain constant width.
type ColumnSpec struct {
	Title      string
	MinWidth   int // Minimum width (0 = no minimum)
	FixedWidth int // If > 0, use this exact width (ignores FlexRatio)
	FlexRatio  int // Relative ratio for flexible columns (0 = fixed-only)
}

// =============================================================================
// Column Calculation
// =============================================================================

// CalculateColumns computes column widths from specs.
// Flexible columns split remaining space by ratio after fixed columns are allocated.
//
// Example:
//
//	columns := CalculateColumns([]ColumnSpec{
//	    {Title: "ID", FlexRatio: 25, MinWidth: 10},
//	    {Title: "Phone", FlexRatio: 20, MinWidth: 12},
//	    {Title: "Origination Time", FixedWidth: 16},
//	}, layout.TableWidth)
//
// This allocates 16 chars to "Origination Time", then splits remaining space
// 25:20 between "ID" and "Phone", respecting minimums.
func CalculateColumns(specs []ColumnSpec, totalWidth int) []table.Column {
	if totalWidth < 50 {
		totalWidth = 50
	}

	// First pass: allocate fixed widths and sum flex ratios
	fixedTotal := 0
	flexTotal := 0
	for _, s := range specs {
		if s.FixedWidth > 0 {
			fixedTotal += s.FixedWidth
		} else {
			flexTotal += s.FlexRatio
		}
	}

	remaining := totalWidth - fixedTotal
	if remaining < 0 {
		remaining = 0
	}

	// Second pass: calculate final widths
	columns := make([]table.Column, len(specs))
	for i, s := range specs {
		var width int
		if s.FixedWidth > 0 {
			width = s.FixedWidth
		} else if flexTotal > 0 {
			width = remaining * s.FlexRatio / flexTotal
		}

		// Apply minimum width constraint
		if s.MinWidth > 0 && width < s.MinWidth {
			width = s.MinWidth
		}

		columns[i] = table.Column{Title: s.Title, Width: width}
	}

	return columns
}

// =============================================================================
// Pre-defined Column Layouts
// =============================================================================

// RecordColumns returns column specs for the records results table.
// Titles come from models.RecordColumnTitles so the CLI and web tables agree.
func RecordColumns() []ColumnSpec {
	titles := models.RecordColumnTitles
	return []ColumnSpec{
		{Title: titles[0], FlexRatio: 25, MinWidth: 10},
		{Title: titles[1], FixedWidth: 16},
		{Title: titles[2], FlexRatio: 15, MinWidth: 10},
		{Title: titles[3], FlexRatio: 20, MinWidth: 10},
		{Title: titles[4], FlexRatio: 20, MinWidth: 12},
		{Title: titles[5], FlexRatio: 20, MinWidth: 10},
	}
}
