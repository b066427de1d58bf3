// Package listctrl owns the state behind one paginated, searchable,
// sortable table: current query, rows, total count, loading and error
// state. Fetches run asynchronously and a relevance check decides whether a
// response may be applied, so a slow stale response can never overwrite a
// newer one.
package listctrl

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"epolice/internal/logger"
	"epolice/internal/metrics"
	"epolice/pkg/notify"
	"epolice/pkg/restclient"
)

// PageSizes are the page lengths the table offers.
var PageSizes = []int{5, 10, 20, 30, 50}

// Query is the parameter set a fetch is keyed to. Two fetches with equal
// queries are interchangeable; anything else is stale.
type Query struct {
	PageIndex int // 0-based; the wire page is PageIndex+1
	PageSize  int
	Search    string
}

// Page is one fetched page of rows plus the backend's total row count.
type Page[T any] struct {
	Rows  []T
	Total int
}

// FetchFunc loads one page for a query.
type FetchFunc[T any] func(ctx context.Context, q Query) (Page[T], error)

// LessFunc orders two rows by a named column for client-side sorting.
type LessFunc[T any] func(column string, a, b T) bool

// State is an observable snapshot of the controller.
type State[T any] struct {
	Query     Query
	Rows      []T
	Total     int
	Loading   bool
	Err       string
	SortCol   string
	SortDesc  bool
}

type Controller[T any] struct {
	mu       sync.Mutex
	q        Query
	rows     []T
	total    int
	loading  bool
	errMsg   string
	sortCol  string
	sortDesc bool

	fetch    FetchFunc[T]
	less     LessFunc[T]
	manual   bool
	notifier notify.Notifier
	debounce time.Duration
	timer    *time.Timer
	closed   bool
	l        *slog.Logger
}

type Option[T any] func(*Controller[T])

func WithPageSize[T any](n int) Option[T] {
	return func(c *Controller[T]) { c.q.PageSize = n }
}

func WithNotifier[T any](n notify.Notifier) Option[T] {
	return func(c *Controller[T]) { c.notifier = n }
}

// WithDebounce sets the search debounce window; zero makes search immediate
// (tests rely on this).
func WithDebounce[T any](d time.Duration) Option[T] {
	return func(c *Controller[T]) { c.debounce = d }
}

// WithClientSort enables client-side ordering of the loaded page with less;
// without it sort changes are advisory only.
func WithClientSort[T any](less LessFunc[T]) Option[T] {
	return func(c *Controller[T]) { c.less = less }
}

// WithManualSorting marks sorting as backend-driven: sort changes trigger a
// re-fetch instead of a local sort.
func WithManualSorting[T any]() Option[T] {
	return func(c *Controller[T]) { c.manual = true }
}

func New[T any](fetch FetchFunc[T], opts ...Option[T]) *Controller[T] {
	c := &Controller[T]{
		fetch:    fetch,
		q:        Query{PageSize: 10},
		debounce: 400 * time.Millisecond,
		l:        logger.L(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.notifier == nil {
		c.notifier = &notify.LogNotifier{L: c.l}
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State[T]{
		Query:    c.q,
		Rows:     append([]T(nil), c.rows...),
		Total:    c.total,
		Loading:  c.loading,
		Err:      c.errMsg,
		SortCol:  c.sortCol,
		SortDesc: c.sortDesc,
	}
}

// Page returns the current 0-based page index.
func (c *Controller[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.q.PageIndex
}

// RowCount returns the number of rows currently loaded on this page.
func (c *Controller[T]) RowCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rows)
}

// Refresh re-fetches the current query; the initial load and every mutation
// go through here.
func (c *Controller[T]) Refresh(ctx context.Context) {
	c.mu.Lock()
	q := c.q
	c.loading = true
	c.mu.Unlock()
	c.fetchPage(ctx, q)
}

// SetPage moves to a 0-based page index and fetches immediately.
func (c *Controller[T]) SetPage(ctx context.Context, index int) {
	if index < 0 {
		index = 0
	}
	c.mu.Lock()
	c.q.PageIndex = index
	q := c.q
	c.loading = true
	c.mu.Unlock()
	c.fetchPage(ctx, q)
}

// SetPageSize switches the page length; values outside PageSizes are
// ignored. The page index is kept, matching the table widget's behavior.
func (c *Controller[T]) SetPageSize(ctx context.Context, n int) {
	valid := false
	for _, s := range PageSizes {
		if s == n {
			valid = true
			break
		}
	}
	if !valid {
		return
	}
	c.mu.Lock()
	c.q.PageSize = n
	q := c.q
	c.loading = true
	c.mu.Unlock()
	c.fetchPage(ctx, q)
}

// SetSearch schedules a debounced fetch for a new term. A fresh search
// always restarts at the first page. Rapid keystrokes reset the timer so
// only the final term fetches.
func (c *Controller[T]) SetSearch(ctx context.Context, term string) {
	c.mu.Lock()
	if c.closed || term == c.q.Search {
		c.mu.Unlock()
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	apply := func() {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}
		c.q.Search = term
		c.q.PageIndex = 0
		q := c.q
		c.loading = true
		c.mu.Unlock()
		c.fetchPage(ctx, q)
	}
	if c.debounce <= 0 {
		c.mu.Unlock()
		apply()
		return
	}
	c.timer = time.AfterFunc(c.debounce, apply)
	c.mu.Unlock()
}

// SetSort records the sort order. With manual sorting the backend re-fetches;
// otherwise only the currently loaded page is re-ordered locally.
func (c *Controller[T]) SetSort(ctx context.Context, column string, desc bool) {
	c.mu.Lock()
	c.sortCol = column
	c.sortDesc = desc
	if c.manual {
		q := c.q
		c.loading = true
		c.mu.Unlock()
		c.fetchPage(ctx, q)
		return
	}
	c.sortLocked()
	c.mu.Unlock()
}

// sortLocked orders rows in place per the current sort; callers hold the
// lock.
func (c *Controller[T]) sortLocked() {
	if c.less == nil || c.sortCol == "" {
		return
	}
	col, desc := c.sortCol, c.sortDesc
	sort.SliceStable(c.rows, func(i, j int) bool {
		if desc {
			return c.less(col, c.rows[j], c.rows[i])
		}
		return c.less(col, c.rows[i], c.rows[j])
	})
}

// fetchPage runs the fetch for q in the background and applies the result
// only if q is still the current query when the response lands. Responses
// for superseded queries are dropped silently; staleness is not a
// user-visible error.
func (c *Controller[T]) fetchPage(ctx context.Context, q Query) {
	metrics.ListFetchTotal.Inc()
	c.l.Debug("fetch_begin", "page", q.PageIndex, "limit", q.PageSize, "search", q.Search)
	go func() {
		page, err := c.fetch(ctx, q)
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || c.q != q {
			metrics.StaleDroppedTotal.Inc()
			c.l.Debug("stale_drop", "page", q.PageIndex, "search", q.Search)
			return
		}
		c.loading = false
		if err != nil {
			metrics.ListFetchFailTotal.Inc()
			c.rows = nil
			c.total = 0
			c.errMsg = restclient.UserMessage(err, "failed to load records")
			c.l.Debug("fetch_error", "err", err)
			c.notifier.Notify(notify.Error, c.errMsg)
			return
		}
		c.errMsg = ""
		c.rows = page.Rows
		c.total = page.Total
		c.sortLocked()
		c.l.Debug("fetch_ok", "rows", len(page.Rows), "total", page.Total)
	}()
}

// Close tears the controller down: the debounce timer is stopped and no
// in-flight response is applied afterwards.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
