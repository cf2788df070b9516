package search

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/notegenius/notegenius/internal/model"
)

// DefaultDebounce matches the reference client's quiet period.
const DefaultDebounce = 300 * time.Millisecond

// FetchFunc performs the store re-fetch for a query.
type FetchFunc func(ctx context.Context, q model.Query) ([]model.Note, error)

// Engine owns the transient query state. Search-text changes are debounced:
// only the final query after a quiet period dispatches a fetch. Every dispatch
// carries a monotonically increasing sequence number, and a response is applied
// only when it is still the latest dispatched. Once a newer search has been
// issued, an earlier response is discarded even if that newer fetch is still
// in flight.
type Engine struct {
	ctx      context.Context
	fetch    FetchFunc
	interval time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	query   model.Query
	timer   *time.Timer
	seq     uint64 // last dispatched sequence
	applied uint64 // sequence of the results currently visible
	results []model.Note
	closed  bool
}

// NewEngine constructs an engine dispatching fetches under ctx.
func NewEngine(ctx context.Context, fetch FetchFunc, interval time.Duration, log *zap.Logger) *Engine {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{ctx: ctx, fetch: fetch, interval: interval, log: log}
}

// Query returns the current query state.
func (e *Engine) Query() model.Query {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.query
}

// HasResults reports whether at least one fetched result set has been applied.
func (e *Engine) HasResults() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applied > 0
}

// Results returns a copy of the latest applied result set.
func (e *Engine) Results() []model.Note {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Note, len(e.results))
	copy(out, e.results)
	return out
}

// SetFolder updates the folder scope and dispatches immediately; folder
// selection is a single deliberate action, not a keystroke stream.
func (e *Engine) SetFolder(folder string) {
	e.mu.Lock()
	e.query.Folder = folder
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.stopTimerLocked()
	seq, q := e.nextLocked()
	e.mu.Unlock()
	e.run(seq, q)
}

// SetSearch updates the search text and restarts the debounce window. An
// already-dispatched fetch is not cancelled; its response is discarded by the
// sequence guard once anything newer has been dispatched.
func (e *Engine) SetSearch(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.query.Search = text
	if e.closed {
		return
	}
	e.stopTimerLocked()
	e.timer = time.AfterFunc(e.interval, e.fire)
}

// Flush dispatches any pending debounced query immediately.
func (e *Engine) Flush() {
	e.mu.Lock()
	if e.timer == nil {
		e.mu.Unlock()
		return
	}
	e.stopTimerLocked()
	seq, q := e.nextLocked()
	e.mu.Unlock()
	e.run(seq, q)
}

// Close stops the pending timer; in-flight fetches finish but their results
// still pass through the sequence guard.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.stopTimerLocked()
}

func (e *Engine) fire() {
	e.mu.Lock()
	e.timer = nil
	if e.closed {
		e.mu.Unlock()
		return
	}
	seq, q := e.nextLocked()
	e.mu.Unlock()
	e.run(seq, q)
}

func (e *Engine) nextLocked() (uint64, model.Query) {
	e.seq++
	return e.seq, e.query
}

func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) run(seq uint64, q model.Query) {
	notes, err := e.fetch(e.ctx, q)
	if err != nil {
		e.log.Warn("search fetch failed", zap.Uint64("seq", seq), zap.Error(err))
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if seq != e.seq {
		e.log.Debug("discarding stale search response", zap.Uint64("seq", seq), zap.Uint64("latest", e.seq))
		return
	}
	e.applied = seq
	e.results = notes
}
