// Package scanner implements the scan engine: parallel traversal of the
// configured roots, size aggregation per candidate folder, and assembly of
// the final report.
package scanner

import (
	"context"
	"errors"
	"runtime"
	"sort"

	"github.com/fenilsonani/reclaim/internal/config"
	"github.com/fenilsonani/reclaim/internal/oplock"
	"github.com/fenilsonani/reclaim/internal/platform"
	"github.com/fenilsonani/reclaim/internal/progress"
)

// ErrScanCancelled is returned when the context is cancelled mid-scan. The
// boundary must treat any result accompanying it as incomplete.
var ErrScanCancelled = errors.New("scan cancelled")

// ErrNoScanRoots is returned when neither the platform nor the
// configuration contributes a scan root.
var ErrNoScanRoots = errors.New("no scan roots configured")

// Scanner coordinates one scan at a time. It owns the result accumulator
// and the progress reporter for the duration of a scan.
type Scanner struct {
	cfg      *config.Config
	plat     *platform.Info
	lock     *oplock.Lock
	reporter *progress.Reporter
	workers  int
}

// New creates a Scanner. The lock is shared with the quarantine engine so
// the two operations exclude each other.
func New(cfg *config.Config, plat *platform.Info, lock *oplock.Lock) *Scanner {
	workers := cfg.Scan.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 2 {
		workers = 2 // keep some I/O parallelism even on tiny machines
	}
	if workers > 32 {
		workers = 32
	}

	return &Scanner{
		cfg:      cfg,
		plat:     plat,
		lock:     lock,
		reporter: progress.NewReporter(cfg.Progress.Interval()),
		workers:  workers,
	}
}

// Progress returns the reporter emitting scan-progress snapshots.
func (s *Scanner) Progress() *progress.Reporter {
	return s.reporter
}

// SmartScan scans the implicit well-known roots plus any configured extras
// and returns the assembled report. A second call while a scan or a
// quarantine batch is in flight is rejected with *oplock.BusyError; a scan
// where every root is unreachable fails with *FatalScanError.
func (s *Scanner) SmartScan(ctx context.Context) (*ScanResult, error) {
	release, err := s.lock.TryAcquire("scan")
	if err != nil {
		return nil, err
	}
	defer release()

	roots := s.buildRoots()
	if len(roots) == 0 {
		return nil, ErrNoScanRoots
	}

	// The reporter survives across scans on the same Scanner; rearm it so
	// this scan gets its own monotonic run ending in a fresh 100.
	s.reporter.Reset()

	completions := make(chan CandidateFolder, 64)
	w := newWalker(ctx, s.cfg.Scan.MaxDepth, s.workers, s.cfg.Scan.ExcludePatterns, completions)

	// All completions flow through one accumulator goroutine: workers only
	// ever append, and no folder is touched after insertion.
	result := &ScanResult{}
	var scanned uint64
	accDone := make(chan struct{})
	go func() {
		defer close(accDone)
		for folder := range completions {
			result.Folders = append(result.Folders, folder)
			result.TotalSizeBytes += folder.SizeBytes
			scanned++
			s.reporter.Update(scanned, w.discovered.Load(), folder.Path)
		}
	}()

	// Roots are claimed in order so well-known deep locations win over the
	// home enumeration that contains them. Discovery is cheap; the sizing
	// pool does the heavy work concurrently.
	rootErrors := make(map[string]error)
	for _, root := range roots {
		if ctx.Err() != nil {
			break
		}
		var rootErr error
		if root.Discover {
			rootErr = w.scanDiscoverRoot(root.Path)
		} else {
			rootErr = w.scanChildrenRoot(root.Path)
		}
		if rootErr != nil {
			rootErrors[root.Path] = rootErr
		}
	}

	walkErr := w.sizing.Wait()
	close(completions)
	<-accDone

	if ctx.Err() != nil || errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
		return nil, ErrScanCancelled
	}
	if len(rootErrors) == len(roots) {
		return nil, &FatalScanError{RootErrors: rootErrors}
	}

	result.SoftErrors = w.softErrors.Load()
	sort.Slice(result.Folders, func(i, j int) bool {
		return result.Folders[i].SizeBytes > result.Folders[j].SizeBytes
	})

	s.reporter.Finish(scanned, w.discovered.Load())
	return result, nil
}

// buildRoots merges the platform's well-known roots with configured extras,
// dropping exact duplicates while keeping first-listed order.
func (s *Scanner) buildRoots() []platform.Root {
	var roots []platform.Root
	seen := make(map[string]bool)

	add := func(r platform.Root) {
		if r.Path == "" || seen[r.Path] {
			return
		}
		seen[r.Path] = true
		roots = append(roots, r)
	}

	for _, r := range s.cfg.Scan.ExtraRoots {
		add(platform.Root{Path: r.Path, Discover: r.Mode == "discover"})
	}
	for _, r := range s.plat.Roots {
		add(r)
	}

	return roots
}
