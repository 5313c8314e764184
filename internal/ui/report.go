package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/thesavant42/recordsearch/internal/models"
	"github.com/thesavant42/recordsearch/internal/search"
)

var (
	// Color palette
	purple = lipgloss.Color("99")  // for borders
	pink   = lipgloss.Color("205") // for header text
	cyan   = lipgloss.Color("86")
	white  = lipgloss.Color("255")
	green  = lipgloss.Color("82")
	yellow = lipgloss.Color("220")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(pink).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(cyan).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Foreground(pink).
			Bold(true)

	cellStyle = lipgloss.NewStyle()

	rowStyle = cellStyle.Foreground(white)

	statStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	borderStyle = lipgloss.NewStyle().
			Foreground(purple)

	warningStyle = lipgloss.NewStyle().
			Foreground(yellow).
			Bold(true)
)

// PrintHeader prints a styled header describing the query
func PrintHeader(w io.Writer, q models.Query, loc *time.Location, count int) {
	header := titleStyle.Render("Records for " + search.DescribeQuery(q, loc))
	stats := subtitleStyle.Render(fmt.Sprintf("Total Records: %s", statStyle.Render(fmt.Sprintf("%d", count))))

	fmt.Fprintln(w)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, stats)
}

// PrintRecordTable prints a styled table of records
//
// This is a CLI report (non-interactive), so the table structure is built with string
// formatting. Lipgloss is used ONLY for colors/styling the output text.
// For the interactive TUI table, see the bubbles/table in search.go.
func PrintRecordTable(w io.Writer, records []models.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, warningStyle.Render("No records found"))
		return
	}

	titles := models.RecordColumnTitles
	rows := make([][]string, len(records))
	colWidths := make([]int, len(titles))
	for i, t := range titles {
		colWidths[i] = StringWidth(t)
	}
	// cells are printed verbatim, so columns grow to the widest value
	for i, r := range records {
		cells := r.Row()
		for j, c := range cells {
			if w := StringWidth(c); w > colWidths[j] {
				colWidths[j] = w
			}
		}
		rows[i] = cells
	}

	totalWidth := 1 // left border
	for _, cw := range colWidths {
		totalWidth += cw + 3 // " value " + separator
	}
	separator := strings.Repeat("─", totalWidth-2)

	fmt.Fprintln(w, borderStyle.Render("┌"+separator+"┐"))
	fmt.Fprintln(w, headerStyle.Render(formatReportRow(titles, colWidths)))
	fmt.Fprintln(w, borderStyle.Render("├"+separator+"┤"))
	for _, cells := range rows {
		fmt.Fprintln(w, rowStyle.Render(formatReportRow(cells, colWidths)))
	}
	fmt.Fprintln(w, borderStyle.Render("└"+separator+"┘"))
	fmt.Fprintln(w)
}

func formatReportRow(cells []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("│")
	for i, c := range cells {
		pad := widths[i] - StringWidth(c)
		if pad < 0 {
			pad = 0
		}
		sb.WriteString(" " + c + strings.Repeat(" ", pad) + " │")
	}
	return sb.String()
}

// PrintFieldErrors prints the validation banner and one line per offending field
func PrintFieldErrors(w io.Writer, errs search.FieldErrors) {
	fmt.Fprintln(w, warningStyle.Render(search.BannerMessage))
	for _, field := range []search.Field{search.FieldStart, search.FieldEnd, search.FieldFilterField, search.FieldFilterValue} {
		if msg, ok := errs[field]; ok {
			fmt.Fprintln(w, "  "+FieldErrorStyle.Render(msg))
		}
	}
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	successStyle := lipgloss.NewStyle().
		Foreground(green).
		Bold(true)
	fmt.Fprintln(w, successStyle.Render(message))
}

// PrintError prints an error message to stderr
func PrintError(message string) {
	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+message))
}

// GenerateMarkdownReport generates a markdown report of the records for a query
func GenerateMarkdownReport(q models.Query, records []models.Record, loc *time.Location) string {
	var sb strings.Builder

	sb.WriteString("# Record Search Results\n\n")
	sb.WriteString(fmt.Sprintf("**Query:** %s\n\n", search.DescribeQuery(q, loc)))
	sb.WriteString(fmt.Sprintf("**Request path:** `%s`\n\n", q.Path()))
	sb.WriteString(fmt.Sprintf("**Total Records:** %d\n\n", len(records)))
	sb.WriteString(generateMarkdownTable(records))

	return sb.String()
}

// generateMarkdownTable generates a markdown table of records
func generateMarkdownTable(records []models.Record) string {
	if len(records) == 0 {
		return "No records found\n"
	}

	var sb strings.Builder

	sb.WriteString("| " + strings.Join(models.RecordColumnTitles, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat("---|", len(models.RecordColumnTitles)) + "\n")

	for _, r := range records {
		cells := r.Row()
		for i, c := range cells {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	return sb.String()
}
