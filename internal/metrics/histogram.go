package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Histogram counts source lookup latencies into fixed millisecond buckets.
// Observations above the last bound land in an overflow bucket.
type Histogram struct {
	bounds   []int64
	counts   []atomic.Int64 // len(bounds)+1, the extra slot is overflow
	total    atomic.Int64
	maxMilli atomic.Int64
}

// NewHistogram creates a Histogram over ascending upper bounds in milliseconds.
func NewHistogram(boundsMillis []int64) *Histogram {
	bounds := append([]int64(nil), boundsMillis...)
	sort.Slice(bounds, func(i, j int) bool { return bounds[i] < bounds[j] })
	return &Histogram{
		bounds: bounds,
		counts: make([]atomic.Int64, len(bounds)+1),
	}
}

// Observe records one lookup.
func (h *Histogram) Observe(d time.Duration) {
	millis := d.Milliseconds()
	if millis < 0 {
		millis = 0
	}

	i := sort.Search(len(h.bounds), func(i int) bool { return millis <= h.bounds[i] })
	h.counts[i].Add(1)
	h.total.Add(1)

	for {
		cur := h.maxMilli.Load()
		if millis <= cur || h.maxMilli.CompareAndSwap(cur, millis) {
			return
		}
	}
}

// Snapshot is a point-in-time view of one histogram. Percentiles are bucket
// upper bounds in milliseconds; a percentile in the overflow bucket reports
// the slowest lookup seen.
type Snapshot struct {
	P50      int64 `json:"p50Ms"`
	P95      int64 `json:"p95Ms"`
	P99      int64 `json:"p99Ms"`
	Max      int64 `json:"maxMs"`
	Overflow int64 `json:"overflow"`
	Total    int64 `json:"total"`
}

// Snapshot reads the counters. Concurrent observations may or may not be included.
func (h *Histogram) Snapshot() Snapshot {
	counts := make([]int64, len(h.counts))
	var total int64
	for i := range h.counts {
		counts[i] = h.counts[i].Load()
		total += counts[i]
	}
	if total == 0 {
		return Snapshot{}
	}

	snap := Snapshot{
		Max:      h.maxMilli.Load(),
		Overflow: counts[len(counts)-1],
		Total:    total,
	}

	targets := []*int64{&snap.P50, &snap.P95, &snap.P99}
	ranks := []int64{rank(total, 50), rank(total, 95), rank(total, 99)}

	var cumulative int64
	next := 0
	for i, c := range counts {
		cumulative += c
		for next < len(ranks) && cumulative >= ranks[next] {
			*targets[next] = h.upperBound(i, snap.Max)
			next++
		}
	}
	return snap
}

// rank is the 1-based position of the pth percentile among total observations.
func rank(total int64, p int64) int64 {
	r := (total*p + 99) / 100
	if r < 1 {
		r = 1
	}
	return r
}

func (h *Histogram) upperBound(bucket int, slowest int64) int64 {
	if bucket < len(h.bounds) {
		return h.bounds[bucket]
	}
	return slowest
}

// BucketsSourceLookup suits nutrition source round-trips, which are bounded
// by the per-source timeout.
var BucketsSourceLookup = []int64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 15000}

// Registry holds one histogram per nutrition source, created on first use.
type Registry struct {
	mu     sync.RWMutex
	hists  map[string]*Histogram
	bounds []int64
}

// NewRegistry creates an empty Registry using BucketsSourceLookup.
func NewRegistry() *Registry {
	return &Registry{
		hists:  make(map[string]*Histogram),
		bounds: BucketsSourceLookup,
	}
}

// Histogram returns the histogram for name.
func (r *Registry) Histogram(name string) *Histogram {
	r.mu.RLock()
	h, ok := r.hists[name]
	r.mu.RUnlock()
	if ok {
		return h
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.hists[name]; ok {
		return h
	}
	h = NewHistogram(r.bounds)
	r.hists[name] = h
	return h
}

// Observe records one lookup against source.
func (r *Registry) Observe(source string, elapsed time.Duration) {
	r.Histogram(source).Observe(elapsed)
}

// Names returns the sources seen so far, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.hists))
	for name := range r.hists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a snapshot per source.
func (r *Registry) Snapshot() map[string]Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Snapshot, len(r.hists))
	for name, h := range r.hists {
		out[name] = h.Snapshot()
	}
	return out
}
