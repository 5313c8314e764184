package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/thesavant42/recordsearch/internal/models"
)

// ExportRecordsToMarkdown writes the records for a query to a timestamped markdown file in dir
func ExportRecordsToMarkdown(dir string, q models.Query, records []models.Record, loc *time.Location) (string, error) {
	// Generate filename from the query bounds and the export time
	timestamp := time.Now().Format("2006-01-02-150405")
	filename := fmt.Sprintf("records-%d-%d-%s.md", q.StartEpoch, q.EndEpoch, timestamp)
	if dir != "" {
		filename = filepath.Join(dir, filename)
	}

	content := GenerateMarkdownReport(q, records, loc)

	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write markdown file: %w", err)
	}

	return filename, nil
}
