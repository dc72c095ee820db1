package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes inbound requests from backend calls.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindUpstream
)

// Entry is a single timing record stored in the ring buffer.
type Entry struct {
	Kind       EntryKind
	Path       string // "GET /college" for both kinds
	StatusCode int    // 0 when an upstream call never got a response
	DurationMs float64
	Timestamp  time.Time
}

// Failed reports whether the entry ended in a transport error or a 5xx.
func (e Entry) Failed() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}

// Collector is a fixed-size ring buffer for timing entries.
// When full, the oldest entries are overwritten; aggregation happens on read.
type Collector struct {
	mu       sync.Mutex
	entries  []Entry
	size     int
	pos      int
	requests int64
	upstream int64
}

// NewCollector creates a collector with the given ring buffer capacity.
// PRE: size > 0
// POST: Returns a ready-to-use collector with pre-allocated storage
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Record appends an entry to the ring buffer.
// PRE: e is a valid Entry
// POST: Entry stored; if buffer full, oldest entry overwritten
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % c.size
	c.mu.Unlock()
	if e.Kind == KindUpstream {
		atomic.AddInt64(&c.upstream, 1)
	} else {
		atomic.AddInt64(&c.requests, 1)
	}
}

// TotalRecorded returns the number of entries ever recorded of both kinds.
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.requests) + atomic.LoadInt64(&c.upstream)
}

// Snapshot holds aggregated performance data computed on read.
type Snapshot struct {
	TotalRequests    int64      `json:"total_requests"`
	TotalUpstream    int64      `json:"total_upstream"`
	RequestP50Ms     float64    `json:"request_p50_ms"`
	RequestP95Ms     float64    `json:"request_p95_ms"`
	RequestP99Ms     float64    `json:"request_p99_ms"`
	UpstreamP50Ms    float64    `json:"upstream_p50_ms"`
	UpstreamP95Ms    float64    `json:"upstream_p95_ms"`
	UpstreamFailures int        `json:"upstream_failures"`
	SlowestPaths     []PathStat `json:"slowest_paths"`
	SlowestUpstream  []PathStat `json:"slowest_upstream"`
}

// PathStat aggregates timing for a single route or backend endpoint.
type PathStat struct {
	Path    string  `json:"path"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	Count   int     `json:"count"`
	TotalMs float64 `json:"total_ms"`
}

// window accumulates one kind of entry.
type window struct {
	durations []float64
	stats     map[string]*PathStat
}

func (w *window) add(e Entry) {
	w.durations = append(w.durations, e.DurationMs)
	s, ok := w.stats[e.Path]
	if !ok {
		s = &PathStat{Path: e.Path}
		w.stats[e.Path] = s
	}
	s.Count++
	s.TotalMs += e.DurationMs
	if e.DurationMs > s.MaxMs {
		s.MaxMs = e.DurationMs
	}
}

// Snapshot computes aggregated stats from entries recorded at or after since.
// Sorting makes this expensive; it is only called from the debug endpoint.
// PRE: topN > 0
// POST: Returns a Snapshot with percentiles and top-N lists per kind
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, c.size)
	copy(buf, c.entries)
	c.mu.Unlock()

	requests := window{stats: map[string]*PathStat{}}
	upstream := window{stats: map[string]*PathStat{}}
	failures := 0

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		switch e.Kind {
		case KindRequest:
			requests.add(e)
		case KindUpstream:
			upstream.add(e)
			if e.Failed() {
				failures++
			}
		}
	}

	snap := Snapshot{
		TotalRequests:    atomic.LoadInt64(&c.requests),
		TotalUpstream:    atomic.LoadInt64(&c.upstream),
		UpstreamFailures: failures,
		SlowestPaths:     topByAvg(requests.stats, topN),
		SlowestUpstream:  topByAvg(upstream.stats, topN),
	}

	if len(requests.durations) > 0 {
		sort.Float64s(requests.durations)
		snap.RequestP50Ms = percentile(requests.durations, 50)
		snap.RequestP95Ms = percentile(requests.durations, 95)
		snap.RequestP99Ms = percentile(requests.durations, 99)
	}
	if len(upstream.durations) > 0 {
		sort.Float64s(upstream.durations)
		snap.UpstreamP50Ms = percentile(upstream.durations, 50)
		snap.UpstreamP95Ms = percentile(upstream.durations, 95)
	}

	return snap
}

// percentile returns the p-th percentile from a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// topByAvg returns the top N paths sorted by average duration, slowest first.
func topByAvg(stats map[string]*PathStat, n int) []PathStat {
	list := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].AvgMs > list[j].AvgMs
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}
