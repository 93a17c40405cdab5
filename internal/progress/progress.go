// Package progress converts high-frequency folder-completion events into a
// throttled stream of snapshots suitable for UI consumption. Workers may
// finish thousands of folders per second; subscribers see at most one
// snapshot per interval plus a guaranteed final snapshot at 100 percent.
package progress

import (
	"sync"
	"time"
)

// maxInFlightPercent caps snapshots emitted while the scan is running.
// Discovery can still grow the folder total, so 100 is reserved for the
// single final snapshot.
const maxInFlightPercent = 99.9

// Snapshot is a point-in-time view of a running scan. Each snapshot
// supersedes the previous one.
type Snapshot struct {
	ScannedFolders uint64  `json:"scanned_folders"`
	TotalFolders   uint64  `json:"total_folders"`
	Percent        float64 `json:"percent"`
	CurrentFolder  string  `json:"current_folder"`
}

// Reporter fans snapshots out to subscribers. Sends never block: a slow
// subscriber misses intermediate snapshots rather than stalling workers.
type Reporter struct {
	mu          sync.Mutex
	listeners   []chan Snapshot
	interval    time.Duration
	lastEmit    time.Time
	lastPercent float64
	finished    bool
}

// NewReporter creates a Reporter that emits at most one snapshot per
// interval. An interval of zero disables throttling.
func NewReporter(interval time.Duration) *Reporter {
	return &Reporter{interval: interval}
}

// Subscribe returns a channel that receives progress snapshots.
func (r *Reporter) Subscribe() <-chan Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Snapshot, 16)
	r.listeners = append(r.listeners, ch)
	return ch
}

// Reset rearms the reporter for a new scan: the finished latch, the
// monotonic clamp and the throttle window all start over. Subscribers stay
// subscribed across resets.
func (r *Reporter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.finished = false
	r.lastPercent = 0
	r.lastEmit = time.Time{}
}

// Unsubscribe closes and removes a listener channel.
func (r *Reporter) Unsubscribe(ch <-chan Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, listener := range r.listeners {
		if listener == ch {
			close(listener)
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Update records a completion event and emits a snapshot if the throttle
// interval has elapsed. The emitted percent is clamped so subscribers never
// observe a regression even when the folder total grows mid-scan.
func (r *Reporter) Update(scanned, total uint64, currentFolder string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished {
		return
	}

	percent := r.clampLocked(rawPercent(scanned, total))

	now := time.Now()
	if r.interval > 0 && !r.lastEmit.IsZero() && now.Sub(r.lastEmit) < r.interval {
		return
	}
	r.lastEmit = now

	r.broadcastLocked(Snapshot{
		ScannedFolders: scanned,
		TotalFolders:   total,
		Percent:        percent,
		CurrentFolder:  currentFolder,
	})
}

// Finish emits the guaranteed terminal snapshot at exactly 100 percent and
// stops further emission. Calling it more than once is a no-op.
func (r *Reporter) Finish(scanned, total uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished {
		return
	}
	r.finished = true
	r.lastPercent = 100

	r.broadcastLocked(Snapshot{
		ScannedFolders: scanned,
		TotalFolders:   total,
		Percent:        100,
	})
}

// clampLocked enforces monotonically non-decreasing percents below the
// in-flight cap. Caller holds r.mu.
func (r *Reporter) clampLocked(percent float64) float64 {
	if percent > maxInFlightPercent {
		percent = maxInFlightPercent
	}
	if percent < r.lastPercent {
		percent = r.lastPercent
	}
	r.lastPercent = percent
	return percent
}

func rawPercent(scanned, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(scanned) / float64(total) * 100
}

// broadcastLocked delivers snap to every listener without ever blocking a
// worker. A full buffer loses its oldest snapshot, not the new one, so a
// subscriber that stops reading still finds the terminal snapshot waiting.
// Caller holds r.mu, which also keeps Unsubscribe's close out of the way.
func (r *Reporter) broadcastLocked(snap Snapshot) {
	for _, listener := range r.listeners {
		select {
		case listener <- snap:
			continue
		default:
		}

		// Evict the oldest buffered snapshot to make room. Only the
		// reporter sends, so after one eviction the send cannot fail.
		select {
		case <-listener:
		default:
		}
		select {
		case listener <- snap:
		default:
		}
	}
}
