package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Layout constants - single source of truth for all viewport dimensions
const (
	MinViewportWidth  = 80
	MaxViewportWidth  = 140
	DefaultWidth      = 110 // Used when terminal size is unknown
	DefaultHeight     = 40
	MinViewportHeight = 24
	TableHeight       = 12
	BorderPadding     = 2 // left/right padding inside borders
	helpBoxHeight     = 3 // 1 row of help text + 2 border rows
)

// Layout holds computed dimensions for the current terminal size
type Layout struct {
	ViewportWidth  int // clamped terminal width
	ViewportHeight int // terminal height minus the help box
	ContentWidth   int // ViewportWidth - border chars
	TableWidth     int // sum of column widths + separators
	InnerWidth     int // EXACT width for content inside borders
	TableHeight    int // visible data rows in the results table
}

// NewLayout creates a Layout from the terminal size, clamping to min/max
func NewLayout(terminalWidth, terminalHeight int) Layout {
	width := clamp(terminalWidth, MinViewportWidth, MaxViewportWidth)
	height := clamp(terminalHeight, MinViewportHeight, terminalHeight)
	viewportHeight := height - helpBoxHeight

	// the form above the table takes roughly 16 rows
	tableHeight := clamp(viewportHeight-18, 3, 30)

	return Layout{
		ViewportWidth:  width,
		ViewportHeight: viewportHeight,
		ContentWidth:   width - 2,
		TableWidth:     width - 4,
		InnerWidth:     width - 2,
		TableHeight:    tableHeight,
	}
}

// DefaultLayout returns a layout using the default size
func DefaultLayout() Layout {
	return NewLayout(DefaultWidth, DefaultHeight)
}

// clamp restricts a value to the given range
func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Color palette - centralized color definitions
var (
	ColorBorder    = lipgloss.Color("196") // red
	ColorHighlight = lipgloss.Color("88")  // dark red background
	ColorText      = lipgloss.Color("15")  // bright white
	ColorAccent    = lipgloss.Color("226") // bright yellow
	ColorAccentDim = lipgloss.Color("220") // yellow (warnings)
	ColorTextDim   = lipgloss.Color("241") // gray
	ColorSuccess   = lipgloss.Color("82")  // green
	ColorBlack     = lipgloss.Color("0")   // black
)

// Common styles - reusable style definitions
var (
	// Border style for main viewport
	// Content inside borders must use InnerWidth (ViewportWidth - 2)
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	// Help box border is white to set it apart from content
	HelpBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorText)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Italic(true)

	// Accent style for highlighted text (yellow)
	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// Field labels in the search form
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true).
			Width(18)

	// Inline field error under an input
	FieldErrorStyle = lipgloss.NewStyle().
			Foreground(ColorBorder).
			Italic(true)

	// Error banner (validation banner and fetch errors)
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true).
			Padding(0, 1)

	// Warning banner ("No records found")
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorBlack).
			Background(ColorAccentDim).
			Bold(true).
			Padding(0, 1)

	StatusMsgStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	// Submit button
	ButtonStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Padding(0, 2).
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorTextDim)

	ButtonFocusedStyle = lipgloss.NewStyle().
				Foreground(ColorText).
				Background(ColorHighlight).
				Bold(true).
				Padding(0, 2).
				Border(lipgloss.NormalBorder()).
				BorderForeground(ColorBorder)
)

// RenderTitle renders a bold white title
func RenderTitle(s string) string { return TitleStyle.Render(s) }

// RenderNormal renders plain white text
func RenderNormal(s string) string { return NormalStyle.Render(s) }

// RenderDim renders gray secondary text
func RenderDim(s string) string { return DimStyle.Render(s) }

// RenderAccent renders yellow highlighted text
func RenderAccent(s string) string { return AccentStyle.Render(s) }

// RenderError renders an error banner
func RenderError(s string) string { return ErrorStyle.Render(s) }

// RenderWarning renders a warning banner
func RenderWarning(s string) string { return WarningStyle.Render(s) }

// RenderFieldError renders an inline field error
func RenderFieldError(s string) string { return FieldErrorStyle.Render(s) }

// RenderSelectedWidth renders text with the selection highlight padded to width
func RenderSelectedWidth(s string, width int) string {
	return SelectedStyle.Width(width).Render(s)
}

// StringWidth returns the display width of s, ignoring ANSI escape codes
func StringWidth(s string) int {
	return lipgloss.Width(s)
}

// stripEscapeCodes removes ANSI sequences so a selection background is not reset mid-line
func stripEscapeCodes(s string) string {
	return ansi.Strip(s)
}

// truncateToWidth cuts s to at most width display cells
func truncateToWidth(s string, width int) string {
	return ansi.Truncate(s, width, "")
}

// PadContentToHeight pads content with newlines so the border box keeps a stable height
func PadContentToHeight(content string, targetHeight int) string {
	lines := strings.Count(content, "\n") + 1
	if lines >= targetHeight {
		return content
	}
	return content + strings.Repeat("\n", targetHeight-lines)
}

// BuildTwoBoxView renders content in the red main box and help text in the white footer box
func BuildTwoBoxView(content, helpText string, layout Layout) string {
	main := BorderStyle.
		Width(layout.InnerWidth).
		Render(PadContentToHeight(content, layout.ViewportHeight-2))

	help := HelpBorderStyle.
		Width(layout.InnerWidth).
		Render(CenterTextPadded(HintStyle.Render(helpText), layout.InnerWidth))

	return lipgloss.JoinVertical(lipgloss.Left, main, help)
}

// ApplyTableStyles sets the app's header and selection styles on a bubbles table.
// The selected row keeps a neutral style; RenderTableWithSelection paints the highlight.
func ApplyTableStyles(t *table.Model) {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(false).
		Foreground(ColorText).
		Bold(true)
	s.Cell = s.Cell.Foreground(ColorText)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
}

// NewAppSpinner creates the white dot spinner used while records load
func NewAppSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorText)
	return s
}

// NewAppTheme creates a huh theme matching the app's style guide
// White text, red highlights/selection
func NewAppTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)
	t.Blurred.Title = t.Focused.Title

	t.Focused.Description = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Description = t.Focused.Description

	t.Focused.Base = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Base = t.Focused.Base

	// Selected option - red background, white text
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.UnselectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(ColorBorder)
	t.Focused.ErrorIndicator = t.Focused.ErrorMessage

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(ColorBorder)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(ColorBorder)

	return t
}
