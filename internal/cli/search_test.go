package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesavant42/recordsearch/internal/api"
	"github.com/thesavant42/recordsearch/internal/config"
	"github.com/thesavant42/recordsearch/internal/models"
)

type fakeFetcher struct {
	records []models.Record
	err     error
	calls   atomic.Int32
	last    models.Query
}

func (f *fakeFetcher) FetchRecords(_ context.Context, q models.Query) ([]models.Record, error) {
	f.calls.Add(1)
	f.last = q
	return f.records, f.err
}

func testConfig(allowFilter bool) *config.Config {
	return &config.Config{Location: time.UTC, AllowFilter: allowFilter}
}

func runSearch(t *testing.T, c *SearchCommand, cfg *config.Config, f *fakeFetcher) (string, string, error) {
	t.Helper()
	c.NoSpinner = true
	var stdout, stderr bytes.Buffer
	err := c.executeWithFetcher(context.Background(), cfg, f, nil, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func sampleRecords() []models.Record {
	return []models.Record{
		{ID: "r1", OriginationTime: 1700000100, ClusterID: "c1", UserID: "u1", Phone: "555-1234", Voicemail: "vm1"},
		{ID: "r2", OriginationTime: 1700000200, ClusterID: "c2", UserID: "u2", Phone: "555-1234"},
	}
}

func TestSearchPrintsTable(t *testing.T) {
	f := &fakeFetcher{records: sampleRecords()}
	c := &SearchCommand{Start: "2023-11-14 22:13:20", End: "1700003600", Format: "table"}

	out, _, err := runSearch(t, c, testConfig(true), f)
	require.NoError(t, err)

	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, int64(1700000000), f.last.StartEpoch)
	assert.Equal(t, int64(1700003600), f.last.EndEpoch)
	assert.Equal(t, models.FilterNone, f.last.FilterField)
	assert.Contains(t, out, "Total Records")
	assert.Contains(t, out, "r1")
	assert.Contains(t, out, "r2")
}

func TestSearchPrintsJSON(t *testing.T) {
	f := &fakeFetcher{records: sampleRecords()}
	c := &SearchCommand{Start: "1700000000", End: "1700003600", Field: "phone", Value: " 555-1234 ", Format: "json"}

	out, _, err := runSearch(t, c, testConfig(true), f)
	require.NoError(t, err)

	assert.Equal(t, models.FilterPhone, f.last.FilterField)
	assert.Equal(t, "555-1234", f.last.FilterValue)

	var got []models.Record
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, sampleRecords(), got)
}

func TestSearchEmptyJSONIsArray(t *testing.T) {
	f := &fakeFetcher{records: []models.Record{}}
	c := &SearchCommand{Start: "1700000000", End: "1700003600", Format: "json"}

	out, _, err := runSearch(t, c, testConfig(true), f)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestSearchEmptyTableSaysNoRecords(t *testing.T) {
	f := &fakeFetcher{records: []models.Record{}}
	c := &SearchCommand{Start: "1700000000", End: "1700003600", Format: "table"}

	out, _, err := runSearch(t, c, testConfig(true), f)
	require.NoError(t, err)
	assert.Contains(t, out, "No records found")
}

func TestSearchPrintsMarkdown(t *testing.T) {
	f := &fakeFetcher{records: sampleRecords()}
	c := &SearchCommand{Start: "1700000000", End: "1700003600", Format: "markdown"}

	out, _, err := runSearch(t, c, testConfig(true), f)
	require.NoError(t, err)
	assert.Contains(t, out, "# Record Search Results")
	assert.Contains(t, out, "`/mssql/records/1700000000/1700003600`")
}

func TestSearchValidationErrorsSkipFetch(t *testing.T) {
	f := &fakeFetcher{}
	c := &SearchCommand{Start: "1700003600", End: "1700000000", Field: "userId", Format: "table"}

	out, errOut, err := runSearch(t, c, testConfig(true), f)
	require.ErrorIs(t, err, ErrInvalidQuery)

	assert.Equal(t, int32(0), f.calls.Load())
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Please correct the listed errors and try again")
	assert.Contains(t, errOut, "must take place before the End DateTime")
	assert.Contains(t, errOut, "must take place after the Start DateTime")
	assert.Contains(t, errOut, "must have a value if Search Parameter is not None")
}

func TestSearchMissingTimesReported(t *testing.T) {
	f := &fakeFetcher{}
	_, errOut, err := runSearch(t, &SearchCommand{Format: "table"}, testConfig(true), f)
	require.ErrorIs(t, err, ErrInvalidQuery)
	assert.Contains(t, errOut, "Start DateTime")
	assert.Contains(t, errOut, "End DateTime")
	assert.Equal(t, int32(0), f.calls.Load())
}

func TestSearchUnknownField(t *testing.T) {
	f := &fakeFetcher{}
	c := &SearchCommand{Start: "1700000000", End: "1700003600", Field: "email", Value: "x"}

	_, _, err := runSearch(t, c, testConfig(true), f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--field")
	assert.Equal(t, int32(0), f.calls.Load())
}

func TestSearchFilterDisabledIgnoresField(t *testing.T) {
	f := &fakeFetcher{records: []models.Record{}}
	c := &SearchCommand{Start: "1700000000", End: "1700003600", Field: "phone", Value: "555", Format: "table"}

	_, errOut, err := runSearch(t, c, testConfig(false), f)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Filtering is disabled")
	assert.Equal(t, models.FilterNone, f.last.FilterField)
	assert.Empty(t, f.last.FilterValue)
}

func TestSearchBackendErrorFails(t *testing.T) {
	f := &fakeFetcher{err: &api.StatusError{StatusCode: 500}}
	c := &SearchCommand{Start: "1700000000", End: "1700003600", Format: "table"}

	out, _, err := runSearch(t, c, testConfig(true), f)
	require.Error(t, err)
	assert.Equal(t, "HTTP error status: 500", err.Error())
	assert.Empty(t, out)
}

func TestSearchWithoutBackendFails(t *testing.T) {
	c := &SearchCommand{Start: "1700000000", End: "1700003600", Format: "table", NoSpinner: true}
	client := api.NewRecordsClient(api.ClientConfig{}, nil)

	var stdout, stderr bytes.Buffer
	err := c.executeWithFetcher(context.Background(), testConfig(true), client, nil, &stdout, &stderr)
	require.Error(t, err)
	assert.Equal(t, "Backend server url is not defined in config", err.Error())
}

func TestSearchExportsMarkdown(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{records: sampleRecords()}
	c := &SearchCommand{Start: "1700000000", End: "1700003600", Format: "json", Output: dir}

	_, errOut, err := runSearch(t, c, testConfig(true), f)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Exported 2 records to")

	matches, err := filepath.Glob(filepath.Join(dir, "records-1700000000-1700003600-*.md"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	content, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "r1")
}

func stubConfirmExport(t *testing.T, answer bool) *int {
	t.Helper()
	asked := 0
	old := confirmExport
	confirmExport = func(count int) bool {
		asked++
		return answer
	}
	t.Cleanup(func() { confirmExport = old })
	return &asked
}

func TestInteractiveExportConfirmed(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	asked := stubConfirmExport(t, true)

	c := &SearchCommand{Interactive: true}
	q := models.Query{StartEpoch: 1700000000, EndEpoch: 1700003600, FilterField: models.FilterNone}

	var stderr bytes.Buffer
	require.NoError(t, c.export(q, sampleRecords(), testConfig(true), &stderr))
	assert.Equal(t, 1, *asked)
	assert.Contains(t, stderr.String(), "Exported 2 records to")

	matches, err := filepath.Glob(filepath.Join(dir, "records-1700000000-1700003600-*.md"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestInteractiveExportDeclined(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	asked := stubConfirmExport(t, false)

	c := &SearchCommand{Interactive: true}
	q := models.Query{StartEpoch: 1700000000, EndEpoch: 1700003600, FilterField: models.FilterNone}

	var stderr bytes.Buffer
	require.NoError(t, c.export(q, sampleRecords(), testConfig(true), &stderr))
	assert.Equal(t, 1, *asked)
	assert.Empty(t, stderr.String())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportNeverPromptsWithOutputOrFlags(t *testing.T) {
	asked := stubConfirmExport(t, true)

	f := &fakeFetcher{records: sampleRecords()}
	_, _, err := runSearch(t, &SearchCommand{Start: "1700000000", End: "1700003600", Format: "json"}, testConfig(true), f)
	require.NoError(t, err)

	dir := t.TempDir()
	q := models.Query{StartEpoch: 1700000000, EndEpoch: 1700003600, FilterField: models.FilterNone}
	var stderr bytes.Buffer
	require.NoError(t, (&SearchCommand{Interactive: true, Output: dir}).export(q, sampleRecords(), testConfig(true), &stderr))

	assert.Equal(t, 0, *asked)
	assert.Contains(t, stderr.String(), "Exported 2 records to "+dir)
}

// chdirForTest changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
