package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Cumulative wall time per named stage across all workers of a run.

var (
	mu          sync.Mutex
	stageTotals = make(map[string]time.Duration)
	stageCounts = make(map[string]int)
)

// Track returns a stop function that adds the elapsed time to the named stage.
// Usage: defer profiling.Track("render.Composite")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		stageTotals[name] += d
		stageCounts[name]++
		mu.Unlock()
	}
}

// Reset clears all stage totals.
func Reset() {
	mu.Lock()
	clear(stageTotals)
	clear(stageCounts)
	mu.Unlock()
}

// Stage is the accumulated timing of one stage.
type Stage struct {
	Name  string
	Total time.Duration
	Count int
}

// Mean returns the average duration of one call.
func (s Stage) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Snapshot returns all stages, slowest total first.
func Snapshot() []Stage {
	mu.Lock()
	out := make([]Stage, 0, len(stageTotals))
	for k, v := range stageTotals {
		out = append(out, Stage{Name: k, Total: v, Count: stageCounts[k]})
	}
	mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TopN formats the n slowest stages.
// Example: "render.Composite:812.4ms (avg 3.2ms), render.Write:120ms (avg 0.5ms)"
func TopN(n int) string {
	ss := Snapshot()
	if n > len(ss) {
		n = len(ss)
	}
	parts := make([]string, 0, n)
	for _, s := range ss[:n] {
		parts = append(parts, fmt.Sprintf("%s:%s (avg %s)", s.Name, formatMs(s.Total), formatMs(s.Mean())))
	}
	return strings.Join(parts, ", ")
}

func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := fmt.Sprintf("%.1f", ms)
	return strings.TrimSuffix(s, ".0") + "ms"
}
