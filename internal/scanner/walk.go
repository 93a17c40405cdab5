package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/fenilsonani/reclaim/internal/classify"
)

// claimSet tracks which directories have been claimed as candidate folders.
// The invariant it enforces: no claim is ever an ancestor or descendant of
// another, so no byte is counted twice.
type claimSet struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

func newClaimSet() *claimSet {
	return &claimSet{paths: make(map[string]struct{})}
}

// claim registers path unless it, or one of its ancestors, is already
// claimed. Reports whether the claim was taken.
func (c *claimSet) claim(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for p := path; ; {
		if _, ok := c.paths[p]; ok {
			return false
		}
		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		p = parent
	}

	c.paths[path] = struct{}{}
	return true
}

// hasClaimAt reports whether path itself is claimed.
func (c *claimSet) hasClaimAt(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.paths[path]
	return ok
}

// hasClaimWithin reports whether a strict descendant of path is claimed.
func (c *claimSet) hasClaimWithin(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := path + string(filepath.Separator)
	for p := range c.paths {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// walker performs the traversal for one scan: cheap sequential discovery
// that claims candidate folders, and a bounded pool of sizing jobs that
// exhaustively sum each claimed subtree.
type walker struct {
	ctx         context.Context
	claims      *claimSet
	maxDepth    int
	workers     int
	excludes    []string
	discovered  atomic.Uint64
	softErrors  atomic.Uint64
	completions chan<- CandidateFolder
	sizing      errgroup.Group
}

func newWalker(ctx context.Context, maxDepth, workers int, excludes []string, completions chan<- CandidateFolder) *walker {
	w := &walker{
		ctx:         ctx,
		claims:      newClaimSet(),
		maxDepth:    maxDepth,
		workers:     workers,
		excludes:    excludes,
		completions: completions,
	}
	w.sizing.SetLimit(workers)
	return w
}

// scanChildrenRoot treats every immediate child directory of the root as a
// candidate folder, the way the user-facing top level of a home tree is
// presented. A child that already contains a claim from an earlier root is
// not claimed wholly (that would double count); it is discover-walked
// instead.
func (w *walker) scanChildrenRoot(root string) error {
	rootDev, err := devOfPath(root)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if w.excluded(name) {
			continue
		}

		child := filepath.Join(root, name)
		if w.claims.hasClaimAt(child) {
			continue
		}
		if w.claims.hasClaimWithin(child) {
			w.discover(child, 0, rootDev)
			continue
		}

		w.claimFolder(child, name, classify.Classify(child, name), rootDev)
	}

	return nil
}

// scanDiscoverRoot walks the root breadth-first to the depth ceiling,
// claiming directories that classify to a reclaimable category.
func (w *walker) scanDiscoverRoot(root string) error {
	rootDev, err := devOfPath(root)
	if err != nil {
		return err
	}
	if _, err := os.ReadDir(root); err != nil {
		return err
	}

	name := filepath.Base(root)
	if cat := classify.Classify(root, name); classify.Reclaimable(cat) && !w.claims.hasClaimWithin(root) {
		w.claimFolder(root, name, cat, rootDev)
		return nil
	}

	w.discover(root, 0, rootDev)
	return nil
}

// discover recursively enumerates subdirectories. A reclaimable match is
// claimed and never re-entered, so anything matching deeper inside it is
// absorbed into the outer claim.
func (w *walker) discover(dir string, depth int, rootDev uint64) {
	if w.ctx.Err() != nil {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.softErrors.Add(1)
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if w.excluded(name) {
			continue
		}

		child := filepath.Join(dir, name)
		if w.claims.hasClaimAt(child) {
			continue
		}

		if cat := classify.Classify(child, name); classify.Reclaimable(cat) && !w.claims.hasClaimWithin(child) {
			w.claimFolder(child, name, cat, rootDev)
			continue
		}

		if depth+1 >= w.maxDepth && !w.claims.hasClaimWithin(child) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			w.softErrors.Add(1)
			continue
		}
		if dev, ok := deviceOf(info); ok && dev != rootDev {
			continue
		}

		w.discover(child, depth+1, rootDev)
	}
}

// claimFolder registers the candidate and queues its size computation on
// the worker pool. Completion is delivered to the accumulator channel.
func (w *walker) claimFolder(path, name string, category classify.Category, rootDev uint64) {
	if !w.claims.claim(path) {
		return
	}
	w.discovered.Add(1)

	w.sizing.Go(func() error {
		size, err := w.dirSize(path, rootDev)
		if err != nil {
			return err
		}

		folder := CandidateFolder{
			Name:      name,
			Path:      path,
			SizeBytes: size,
			Category:  category,
		}

		select {
		case w.completions <- folder:
			return nil
		case <-w.ctx.Done():
			return w.ctx.Err()
		}
	})
}

// dirSize sums the sizes of all regular files beneath path, fanning out
// across its immediate subdirectories. Symbolic links are never followed
// and traversal stays on the root's device.
func (w *walker) dirSize(path string, rootDev uint64) (uint64, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		w.softErrors.Add(1)
		return 0, nil
	}

	var total atomic.Uint64
	var g errgroup.Group
	g.SetLimit(w.workers)

	for _, entry := range entries {
		if entry.Type()&fs.ModeSymlink != 0 {
			continue
		}
		if entry.IsDir() {
			sub := filepath.Join(path, entry.Name())
			g.Go(func() error {
				return w.walkSum(sub, rootDev, &total)
			})
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			w.softErrors.Add(1)
			continue
		}
		total.Add(uint64(info.Size()))
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return total.Load(), nil
}

// walkSum accumulates regular-file sizes below dir. Per-entry failures are
// soft: tallied, contribute zero, never abort the walk.
func (w *walker) walkSum(dir string, rootDev uint64, total *atomic.Uint64) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.softErrors.Add(1)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if cerr := w.ctx.Err(); cerr != nil {
			return cerr
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if d.IsDir() {
			info, ierr := d.Info()
			if ierr != nil {
				w.softErrors.Add(1)
				return fs.SkipDir
			}
			if dev, ok := deviceOf(info); ok && dev != rootDev {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, ierr := d.Info()
		if ierr != nil {
			w.softErrors.Add(1)
			return nil
		}
		total.Add(uint64(info.Size()))
		return nil
	})
}

func (w *walker) excluded(name string) bool {
	for _, pattern := range w.excludes {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

func devOfPath(path string) (uint64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, err
	}
	dev, _ := deviceOf(info)
	return dev, nil
}
