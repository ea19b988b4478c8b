// Package listview paginates, filters and searches an in-memory copy of a
// remote collection. One Engine backs every list screen; the Controller in
// source.go decides whether filtering happens here or on the server.
package listview

// DefaultPageSize is used when an engine is created with a non-positive size.
const DefaultPageSize = 10

// Record is anything a list screen can show.
type Record interface {
	// RecordID is unique within one snapshot of the collection.
	RecordID() string
	// SearchText is the field free-text queries match against.
	SearchText() string
	// CategoryRef is the category id, or "" when the record has none.
	CategoryRef() string
}

// Slice is the visible page plus the metadata a pager needs.
type Slice[T Record] struct {
	Records       []T
	Page          int
	TotalPages    int
	TotalMatching int
}

// Engine holds the list state of a single screen. It is not safe for
// concurrent use; the owning screen drives it from its event loop.
type Engine[T Record] struct {
	pageSize int
	records  []T
	filtered []T
	query    string
	category string
	page     int

	// remote is set once the engine is fed server-filtered pages.
	remote      bool
	remoteTotal int
}

func New[T Record](pageSize int) *Engine[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Engine[T]{pageSize: pageSize, page: 1}
}

func (e *Engine[T]) PageSize() int    { return e.pageSize }
func (e *Engine[T]) Page() int        { return e.page }
func (e *Engine[T]) Query() string    { return e.query }
func (e *Engine[T]) Category() string { return e.category }
func (e *Engine[T]) Remote() bool     { return e.remote }

// Records returns the full collection in arrival order.
func (e *Engine[T]) Records() []T {
	out := make([]T, len(e.records))
	copy(out, e.records)
	return out
}

// Matching is the number of records passing both filters.
func (e *Engine[T]) Matching() int {
	if e.remote {
		return e.remoteTotal
	}
	return len(e.filtered)
}

// TotalPages is never less than one, even for an empty result.
func (e *Engine[T]) TotalPages() int {
	return pageCount(e.Matching(), e.pageSize)
}

// Load replaces the collection. Query, category and page survive unless
// the page no longer exists, in which case the engine returns to page 1.
func (e *Engine[T]) Load(records []T) {
	e.remote = false
	e.remoteTotal = 0
	e.records = append([]T(nil), records...)
	e.refilter()
	e.resetIfInvalid()
}

// LoadPage stores one server-filtered page. total is the server's count of
// matching records and is the only source for TotalPages in this mode.
func (e *Engine[T]) LoadPage(records []T, total int) {
	e.remote = true
	e.records = append([]T(nil), records...)
	e.filtered = e.records
	if total < len(records) {
		total = len(records)
	}
	e.remoteTotal = total
	e.clamp()
}

func (e *Engine[T]) SetQuery(text string) {
	if text == e.query {
		return
	}
	e.query = text
	e.filterChanged()
}

// SetCategory filters by category id; "" clears the filter.
func (e *Engine[T]) SetCategory(id string) {
	if id == e.category {
		return
	}
	e.category = id
	e.filterChanged()
}

func (e *Engine[T]) NextPage() {
	if e.page < e.TotalPages() {
		e.page++
	}
}

func (e *Engine[T]) PrevPage() {
	if e.page > 1 {
		e.page--
	}
}

// GoToPage clamps n into the valid range instead of failing.
func (e *Engine[T]) GoToPage(n int) {
	e.page = clampInt(n, 1, e.TotalPages())
}

// VisibleSlice returns the records on the current page.
func (e *Engine[T]) VisibleSlice() Slice[T] {
	s := Slice[T]{
		Page:          e.page,
		TotalPages:    e.TotalPages(),
		TotalMatching: e.Matching(),
	}
	if e.remote {
		s.Records = append([]T(nil), e.filtered...)
		if len(s.Records) > e.pageSize {
			s.Records = s.Records[:e.pageSize]
		}
		return s
	}

	start := (e.page - 1) * e.pageSize
	if start >= len(e.filtered) {
		s.Records = []T{}
		return s
	}
	end := start + e.pageSize
	if end > len(e.filtered) {
		end = len(e.filtered)
	}
	s.Records = append([]T(nil), e.filtered[start:end]...)
	return s
}

// RemoveRecord drops the record with the given id. The page moves back
// when its last occupant disappears.
func (e *Engine[T]) RemoveRecord(id string) bool {
	idx := -1
	for i, r := range e.records {
		if r.RecordID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	e.records = append(e.records[:idx:idx], e.records[idx+1:]...)
	if e.remote {
		e.filtered = e.records
		if e.remoteTotal > 0 {
			e.remoteTotal--
		}
	} else {
		e.refilter()
	}
	e.clamp()
	return true
}

func (e *Engine[T]) filterChanged() {
	if e.remote {
		// The server applies filters; whatever page comes back starts at 1.
		e.page = 1
		return
	}
	e.refilter()
	e.resetIfInvalid()
}

func (e *Engine[T]) refilter() {
	e.filtered = Filter(e.records, e.query, e.category)
}

func (e *Engine[T]) resetIfInvalid() {
	if e.page < 1 || e.page > e.TotalPages() {
		e.page = 1
	}
}

func (e *Engine[T]) clamp() {
	e.page = clampInt(e.page, 1, e.TotalPages())
}

func pageCount(n, size int) int {
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
