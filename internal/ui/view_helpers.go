package ui

// view_helpers.go provides common View() rendering helpers.
// Use these to build consistent two-box layouts across all TUI models.

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
)

// =============================================================================
// Table Rendering with Full-Width Selection
// =============================================================================

// RenderTableWithSelection renders a bubbles table with full-width selection highlight.
// The table's Selected style should use a neutral background,
// and this function applies the visible selection styling.
//
// CRITICAL: Understanding bubbles/table View() output:
// - Line 0: Header row (with visual bottom border, but NOT a separate line)
// - Line 1+: Data rows (only visible rows due to viewport scrolling)
// - There is NO separate divider line from bubbles - we add one manually for consistency
//
// This handles scrolling correctly by calculating the visible cursor position based on
// the table's height and current cursor position.
//
// An unfocused table renders without any highlighted row.
func RenderTableWithSelection(t table.Model, layout Layout) string {
	tableOutput := t.View()
	lines := strings.Split(tableOutput, "\n")
	var result []string

	cursor := t.Cursor()
	if !t.Focused() {
		cursor = -1
	}

	// Calculate visible cursor index based on table scrolling
	// Table height is the number of visible data rows (doesn't include header)
	height := t.Height()
	totalRows := len(t.Rows())

	// Calculate scroll offset to match bubbles table internal viewport logic
	// When totalRows <= height, no scrolling occurs (start = 0)
	// When totalRows > height and cursor moves past visible area, viewport scrolls
	start := 0
	if totalRows > height {
		// Scrolling is possible
		if cursor >= height {
			start = cursor - height + 1
		}
		// Clamp start to valid range: cannot scroll past the point where
		// the last row is at the bottom of the viewport
		maxStart := totalRows - height
		if start > maxStart {
			start = maxStart
		}
	}
	// start is always >= 0 at this point since we only modify it when totalRows > height

	visibleCursorIndex := -1
	if cursor >= 0 {
		visibleCursorIndex = cursor - start
	}

	for i, line := range lines {
		// Header row (line 0) - render then add divider
		if i == 0 {
			result = append(result, RenderNormal(line))
			// Add divider after header
			result = append(result, strings.Repeat("─", layout.InnerWidth))
			continue
		}

		// Data rows start at line 1 in the bubbles output (line 0 is header)
		// dataRowIndex is 0-based index into visible rows
		dataRowIndex := i - 1

		// Apply selection styling to the visible cursor row
		// Strip escape codes first to prevent embedded reset codes from killing the background
		if dataRowIndex == visibleCursorIndex {
			// Truncate if too long to prevent overflow; the style pads to full width
			cleanLine := truncateToWidth(stripEscapeCodes(line), layout.InnerWidth)
			result = append(result, RenderSelectedWidth(cleanLine, layout.InnerWidth))
			continue
		}

		// Non-selected data rows - render without width constraint
		result = append(result, RenderNormal(line))
	}

	return strings.Join(result, "\n")
}

// =============================================================================
// Text Centering
// =============================================================================

// CenterTextPadded centers text and pads to full width.
func CenterTextPadded(text string, width int) string {
	textW := StringWidth(text)
	if textW >= width {
		return text
	}
	leftPad := (width - textW) / 2
	rightPad := width - textW - leftPad
	return strings.Repeat(" ", leftPad) + text + strings.Repeat(" ", rightPad)
}

// =============================================================================
// Dividers and Separators
// =============================================================================

// FullWidthDivider returns a horizontal divider spanning the inner width.
func FullWidthDivider(innerWidth int) string {
	return strings.Repeat("─", innerWidth)
}
