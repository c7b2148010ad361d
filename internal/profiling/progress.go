package profiling

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// ReportInterval is the minimum time between two progress lines.
const ReportInterval = 100 * time.Millisecond

// Progress counts finished jobs and prints a rate-limited status line.
// Done is called concurrently by every worker; at most one of them prints
// at a time and the others never wait for it.
type Progress struct {
	total     int64
	completed atomic.Int64
	start     time.Time
	last      atomic.Int64 // unix nanos of the last report

	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

// NewProgress starts the clock for total jobs, reporting to out.
func NewProgress(total int, out io.Writer) *Progress {
	p := &Progress{total: int64(total), out: out, now: time.Now}
	p.start = p.now()
	p.last.Store(p.start.UnixNano())
	return p
}

// Completed returns the number of jobs finished so far.
func (p *Progress) Completed() int64 { return p.completed.Load() }

// Done records one finished job and maybe prints a report.
func (p *Progress) Done() {
	p.completed.Add(1)

	now := p.now()
	if now.UnixNano() <= p.last.Load()+int64(ReportInterval) {
		return
	}
	if !p.mu.TryLock() {
		return
	}
	defer p.mu.Unlock()
	p.last.Store(now.UnixNano())
	p.report(now, "\r")
}

// Finish prints one last report unconditionally and ends the line.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	p.last.Store(now.UnixNano())
	p.report(now, "\r\n")
}

// report must be called with p.mu held. Write errors are ignored.
func (p *Progress) report(now time.Time, end string) {
	completed := p.completed.Load()
	elapsed := now.Sub(p.start)
	_, _ = io.WriteString(p.out, FormatLine(completed, p.total, elapsed, ETA(elapsed, completed, p.total), end))
}

// ETA estimates the remaining time assuming a constant rate:
// elapsed * (total/completed - 1). It is zero before the first completion.
func ETA(elapsed time.Duration, completed, total int64) time.Duration {
	if completed <= 0 || completed >= total {
		return 0
	}
	return time.Duration(float64(elapsed) * (float64(total)/float64(completed) - 1))
}

// FormatLine renders one status line.
func FormatLine(completed, total int64, elapsed, eta time.Duration, end string) string {
	percent := 100.0
	if total > 0 {
		percent = float64(completed) / float64(total) * 100
	}
	em, es := minSec(elapsed)
	rm, rs := minSec(eta)
	return fmt.Sprintf("%d / %d\t\t%.2f %%\t\tET: %d min, %d sec\tETA: %d min, %d sec%s",
		completed, total, percent, em, es, rm, rs, end)
}

func minSec(d time.Duration) (int64, int64) {
	s := int64(d / time.Second)
	return s / 60, s % 60
}
