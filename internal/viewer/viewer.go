// Package viewer drives the fetch-and-render lifecycle for committed queries.
//
// A Viewer moves between Idle, Loading, Error, Empty and Populated. Every fetch is
// tagged with a sequence token; only the result carrying the latest token may leave
// Loading, so a slow response for an older query can never overwrite a newer one.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/thesavant42/recordsearch/internal/api"
	"github.com/thesavant42/recordsearch/internal/models"
)

// State is the render state of the results area
type State int

const (
	Idle State = iota
	Loading
	Error
	Empty
	Populated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Empty:
		return "empty"
	case Populated:
		return "populated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// User-facing messages
const (
	MsgBackendNotConfigured = "Backend server url is not defined in config"
	MsgBackendInvalid       = "Backend server url is invalid"
	MsgNoRecords            = "No records found"
)

// Fetcher retrieves the records for one query
type Fetcher interface {
	FetchRecords(ctx context.Context, q models.Query) ([]models.Record, error)
}

// Ticket identifies one fetch started by Begin
type Ticket struct {
	Token uint64
	Query models.Query
	Ctx   context.Context
}

// Result is the outcome of one fetch, tagged with its ticket's token
type Result struct {
	Token   uint64
	Query   models.Query
	Records []models.Record
	Err     error
}

// Snapshot is a copy of the viewer state for rendering
type Snapshot struct {
	State   State
	Query   models.Query
	Records []models.Record
	Message string
	Token   uint64
}

// Viewer is safe for concurrent use
type Viewer struct {
	fetcher Fetcher
	logger  *log.Logger

	mu      sync.Mutex
	state   State
	query   models.Query
	records []models.Record
	message string
	token   uint64
	cancel  context.CancelFunc
}

// New creates an idle viewer
func New(fetcher Fetcher, logger *log.Logger) *Viewer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Viewer{fetcher: fetcher, logger: logger}
}

// Begin enters Loading for q and returns the ticket for the fetch.
// Any in-flight fetch is cancelled and its result will be discarded.
func (v *Viewer) Begin(q models.Query) Ticket {
	return v.begin(context.Background(), q)
}

func (v *Viewer) begin(parent context.Context, q models.Query) Ticket {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	v.cancel = cancel
	v.token++
	v.state = Loading
	v.query = q
	v.records = nil
	v.message = ""

	v.logger.Debug("fetch started", "token", v.token, "query", q.String())
	return Ticket{Token: v.token, Query: q, Ctx: ctx}
}

// Fetch performs exactly one fetch for the ticket without touching viewer state
func (v *Viewer) Fetch(t Ticket) (res Result) {
	res = Result{Token: t.Token, Query: t.Query}
	defer func() {
		if r := recover(); r != nil {
			res.Records = nil
			res.Err = fmt.Errorf("fetch failed: %v", r)
		}
	}()

	if v.fetcher == nil {
		res.Err = api.ErrBackendNotConfigured
		return res
	}
	ctx := t.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	res.Records, res.Err = v.fetcher.FetchRecords(ctx, t.Query)
	return res
}

// Apply settles Loading with r if r belongs to the latest fetch.
// It returns false when r is stale and was discarded.
func (v *Viewer) Apply(r Result) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if r.Token != v.token || v.state != Loading {
		v.logger.Debug("discarding stale result", "token", r.Token, "latest", v.token)
		return false
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}

	switch {
	case r.Err != nil:
		v.state = Error
		v.records = nil
		v.message = Message(r.Err)
		v.logger.Error("fetch failed", "query", r.Query.String(), "err", r.Err)
	case len(r.Records) == 0:
		v.state = Empty
		v.records = []models.Record{}
		v.message = MsgNoRecords
	default:
		v.state = Populated
		v.records = r.Records
		v.message = ""
	}
	return true
}

// Load runs Begin, Fetch and Apply for q and returns the resulting snapshot.
// Cancelling ctx cancels the fetch. Fetch recovers panics, so Loading is always left.
func (v *Viewer) Load(ctx context.Context, q models.Query) Snapshot {
	if ctx == nil {
		ctx = context.Background()
	}
	t := v.begin(ctx, q)
	v.Apply(v.Fetch(t))
	return v.Snapshot()
}

// Reset un-mounts the results: cancels in-flight work, invalidates its token and returns to Idle
func (v *Viewer) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	if v.state != Idle {
		v.token++
	}
	v.state = Idle
	v.query = models.Query{}
	v.records = nil
	v.message = ""
}

// Snapshot returns a copy of the current state
func (v *Viewer) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	var records []models.Record
	if v.records != nil {
		records = make([]models.Record, len(v.records))
		copy(records, v.records)
	}
	return Snapshot{
		State:   v.state,
		Query:   v.query,
		Records: records,
		Message: v.message,
		Token:   v.token,
	}
}

// State returns the current render state
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Message turns a fetch error into the text shown in the error banner
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, api.ErrBackendNotConfigured):
		return MsgBackendNotConfigured
	case errors.Is(err, api.ErrInvalidBackendURL):
		detail := strings.TrimPrefix(err.Error(), api.ErrInvalidBackendURL.Error())
		detail = strings.TrimPrefix(detail, ": ")
		if detail == "" {
			return MsgBackendInvalid
		}
		return MsgBackendInvalid + ": " + detail
	}
	return err.Error()
}
