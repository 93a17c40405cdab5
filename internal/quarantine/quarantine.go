// Package quarantine moves previously scanned candidate folders into the
// trash, recoverably. It never unlinks anything outright: every removal is
// a move the user can undo.
package quarantine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fenilsonani/reclaim/internal/classify"
	"github.com/fenilsonani/reclaim/internal/config"
	"github.com/fenilsonani/reclaim/internal/oplock"
	"github.com/fenilsonani/reclaim/internal/platform"
	"github.com/fenilsonani/reclaim/internal/scanner"
)

// Outcome records what happened to one requested path.
type Outcome struct {
	Path       string
	Trashed    bool
	FreedBytes uint64
	Entry      *Entry
	Failure    *QuarantineError
}

// BatchResult aggregates the per-path outcomes of one quarantine call.
// Partial failure is normal: each path succeeds or fails on its own.
type BatchResult struct {
	Outcomes   map[string]Outcome
	FreedBytes uint64
	Trashed    int
	Failed     int
}

// Engine quarantines folders reported by the most recent scan. Its scope
// is fixed at construction: only reclaimable candidates from that report
// are eligible, everything else is refused as out of scope.
type Engine struct {
	trash     Trash
	lock      *oplock.Lock
	scope     map[string]scanner.CandidateFolder
	protected []string
}

// NewEngine builds an engine scoped to the given scan report. The lock is
// the same one the scanner holds, so a quarantine batch and a scan can
// never interleave.
func NewEngine(cfg *config.Config, plat *platform.Info, lock *oplock.Lock, report *scanner.ScanResult) (*Engine, error) {
	trash, err := NewTrash(plat, cfg.Quarantine.TrashDir)
	if err != nil {
		return nil, err
	}

	scope := make(map[string]scanner.CandidateFolder)
	if report != nil {
		for _, folder := range report.Folders {
			if classify.Reclaimable(folder.Category) {
				scope[filepath.Clean(folder.Path)] = folder
			}
		}
	}

	protected := append([]string{}, plat.ProtectedPaths...)
	protected = append(protected, cfg.Quarantine.ProtectedPaths...)

	return &Engine{
		trash:     trash,
		lock:      lock,
		scope:     scope,
		protected: protected,
	}, nil
}

// Trash exposes the underlying backend for listing and restoring.
func (e *Engine) Trash() Trash {
	return e.trash
}

// Quarantine moves each requested path into the trash. Paths outside the
// scan report's reclaimable candidates, protected locations, and paths
// that fail to move each get a categorized failure outcome; the rest of
// the batch proceeds regardless. A batch started while a scan is running
// is rejected with *oplock.BusyError.
func (e *Engine) Quarantine(ctx context.Context, paths []string) (*BatchResult, error) {
	release, err := e.lock.TryAcquire("quarantine")
	if err != nil {
		return nil, err
	}
	defer release()

	result := &BatchResult{Outcomes: make(map[string]Outcome, len(paths))}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		clean := filepath.Clean(path)
		if _, done := result.Outcomes[clean]; done {
			continue
		}

		outcome := e.quarantineOne(clean)
		result.Outcomes[clean] = outcome
		if outcome.Trashed {
			result.Trashed++
			result.FreedBytes += outcome.FreedBytes
		} else {
			result.Failed++
		}
	}

	return result, nil
}

func (e *Engine) quarantineOne(path string) Outcome {
	outcome := Outcome{Path: path}

	folder, inScope := e.scope[path]
	if !inScope {
		outcome.Failure = &QuarantineError{Path: path, Reason: ErrorOutOfScope}
		return outcome
	}
	if e.isProtected(path) {
		outcome.Failure = &QuarantineError{
			Path:     path,
			Reason:   ErrorOutOfScope,
			Original: fmt.Errorf("protected location"),
		}
		return outcome
	}

	if _, err := os.Lstat(path); err != nil {
		outcome.Failure = CategorizeError(path, err)
		return outcome
	}

	entry, err := e.trash.Put(path)
	if err != nil {
		outcome.Failure = CategorizeError(path, err)
		return outcome
	}

	outcome.Trashed = true
	outcome.FreedBytes = folder.SizeBytes
	outcome.Entry = entry
	return outcome
}

// Restore moves the most recently trashed entry for originalPath back to
// where it came from.
func (e *Engine) Restore(ctx context.Context, originalPath string) (*Entry, error) {
	release, err := e.lock.TryAcquire("restore")
	if err != nil {
		return nil, err
	}
	defer release()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := filepath.Clean(originalPath)
	entries, err := e.trash.List()
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if filepath.Clean(entry.OriginalPath) == clean {
			if err := e.trash.Restore(entry); err != nil {
				return nil, err
			}
			return entry, nil
		}
	}
	return nil, fmt.Errorf("nothing in trash for %s", clean)
}

// isProtected reports whether path is, or lives inside, a protected
// location. The built-in system list applies on top of the configured one.
func (e *Engine) isProtected(path string) bool {
	if platform.IsProtectedPath(path) {
		return true
	}
	for _, p := range e.protected {
		if path == p || strings.HasPrefix(path, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
