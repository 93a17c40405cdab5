package quarantine

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/fenilsonani/reclaim/internal/classify"
	"github.com/fenilsonani/reclaim/internal/config"
	"github.com/fenilsonani/reclaim/internal/oplock"
	"github.com/fenilsonani/reclaim/internal/platform"
	"github.com/fenilsonani/reclaim/internal/scanner"
	"github.com/fenilsonani/reclaim/internal/testutil"
)

func newTestEngine(t *testing.T, lock *oplock.Lock, report *scanner.ScanResult, protected ...string) *Engine {
	t.Helper()

	cfg := config.GetDefault()
	cfg.Quarantine.TrashDir = t.TempDir()
	cfg.Quarantine.ProtectedPaths = protected

	engine, err := NewEngine(cfg, &platform.Info{OS: platform.Linux}, lock, report)
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}
	return engine
}

func candidate(path string, size uint64, cat classify.Category) scanner.CandidateFolder {
	return scanner.CandidateFolder{Name: path, Path: path, SizeBytes: size, Category: cat}
}

func TestQuarantinePartialFailure(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("proj/node_modules/x.js", make([]byte, 100))
	validPath := f.Path("proj/node_modules")
	missingPath := f.Path("proj/.cache")
	strayPath := f.Path("proj/src")
	f.CreateDir("proj/src")

	report := &scanner.ScanResult{Folders: []scanner.CandidateFolder{
		candidate(validPath, 100, classify.CategoryPackageCaches),
		candidate(missingPath, 50, classify.CategoryPackageCaches),
	}}
	engine := newTestEngine(t, &oplock.Lock{}, report)

	result, err := engine.Quarantine(context.Background(), []string{validPath, missingPath, strayPath})
	if err != nil {
		t.Fatalf("Quarantine error: %v", err)
	}

	if result.Trashed != 1 || result.Failed != 2 {
		t.Errorf("trashed=%d failed=%d, want 1/2", result.Trashed, result.Failed)
	}
	if result.FreedBytes != 100 {
		t.Errorf("FreedBytes = %d, want 100", result.FreedBytes)
	}

	if !result.Outcomes[validPath].Trashed {
		t.Errorf("valid path not trashed: %+v", result.Outcomes[validPath])
	}
	if _, err := os.Lstat(validPath); !os.IsNotExist(err) {
		t.Error("valid path still on disk")
	}

	if got := result.Outcomes[missingPath].Failure; got == nil || got.Reason != ErrorNotFound {
		t.Errorf("missing path failure = %v, want NotFound", got)
	}
	if got := result.Outcomes[strayPath].Failure; got == nil || got.Reason != ErrorOutOfScope {
		t.Errorf("unreported path failure = %v, want OutOfScope", got)
	}
	if _, err := os.Lstat(strayPath); err != nil {
		t.Error("out-of-scope path was touched")
	}
}

func TestQuarantineRefusesNonReclaimableCandidates(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("home/Documents/thesis.txt", make([]byte, 10))
	docs := f.Path("home/Documents")

	report := &scanner.ScanResult{Folders: []scanner.CandidateFolder{
		candidate(docs, 10, classify.CategoryUserFiles),
	}}
	engine := newTestEngine(t, &oplock.Lock{}, report)

	result, err := engine.Quarantine(context.Background(), []string{docs})
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Outcomes[docs].Failure; got == nil || got.Reason != ErrorOutOfScope {
		t.Errorf("user files outcome = %v, want OutOfScope", got)
	}
	if _, err := os.Lstat(docs); err != nil {
		t.Error("user files were moved despite refusal")
	}
}

func TestQuarantineRefusesProtectedPaths(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("home/.cache/important/key", make([]byte, 10))
	cache := f.Path("home/.cache")

	report := &scanner.ScanResult{Folders: []scanner.CandidateFolder{
		candidate(cache, 10, classify.CategoryPackageCaches),
	}}
	engine := newTestEngine(t, &oplock.Lock{}, report, f.Path("home"))

	result, err := engine.Quarantine(context.Background(), []string{cache})
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Outcomes[cache].Failure; got == nil || got.Reason != ErrorOutOfScope {
		t.Errorf("protected outcome = %v, want OutOfScope", got)
	}
	if _, err := os.Lstat(cache); err != nil {
		t.Error("protected path was moved")
	}
}

func TestQuarantineRecoverable(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("proj/target/release/bin", []byte("build output"))
	target := f.Path("proj/target")

	report := &scanner.ScanResult{Folders: []scanner.CandidateFolder{
		candidate(target, 12, classify.CategoryBuildArtifacts),
	}}
	engine := newTestEngine(t, &oplock.Lock{}, report)

	result, err := engine.Quarantine(context.Background(), []string{target})
	if err != nil {
		t.Fatal(err)
	}
	entry := result.Outcomes[target].Entry
	if entry == nil {
		t.Fatal("no trash entry recorded")
	}

	restored, err := engine.Restore(context.Background(), target)
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	if restored.ID != entry.ID {
		t.Errorf("restored entry %q, want %q", restored.ID, entry.ID)
	}
	if _, err := os.ReadFile(f.Path("proj/target/release/bin")); err != nil {
		t.Errorf("restored content unreadable: %v", err)
	}
}

func TestQuarantineRejectedWhileScanHoldsLock(t *testing.T) {
	var lock oplock.Lock
	release, err := lock.TryAcquire("scan")
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	engine := newTestEngine(t, &lock, &scanner.ScanResult{})
	_, err = engine.Quarantine(context.Background(), []string{"/tmp/anything"})

	var busy *oplock.BusyError
	if !errors.As(err, &busy) {
		t.Fatalf("error = %v, want *oplock.BusyError", err)
	}
	if busy.Holder != "scan" {
		t.Errorf("Holder = %q, want scan", busy.Holder)
	}
}

func TestQuarantineDeduplicatesRequestedPaths(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("proj/node_modules/x.js", make([]byte, 40))
	path := f.Path("proj/node_modules")

	report := &scanner.ScanResult{Folders: []scanner.CandidateFolder{
		candidate(path, 40, classify.CategoryPackageCaches),
	}}
	engine := newTestEngine(t, &oplock.Lock{}, report)

	result, err := engine.Quarantine(context.Background(), []string{path, path, path + "/"})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Outcomes) != 1 {
		t.Errorf("outcomes = %d, want 1 after dedup", len(result.Outcomes))
	}
	if result.Trashed != 1 || result.FreedBytes != 40 {
		t.Errorf("trashed=%d freed=%d, want 1/40", result.Trashed, result.FreedBytes)
	}
}

func TestQuarantineCancelledMidBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := newTestEngine(t, &oplock.Lock{}, &scanner.ScanResult{})
	_, err := engine.Quarantine(ctx, []string{"/tmp/a", "/tmp/b"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestQuarantineNilReportMeansEmptyScope(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("proj/node_modules/x.js", []byte("x"))
	path := f.Path("proj/node_modules")

	engine := newTestEngine(t, &oplock.Lock{}, nil)
	result, err := engine.Quarantine(context.Background(), []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Outcomes[path].Failure; got == nil || got.Reason != ErrorOutOfScope {
		t.Errorf("outcome without any scan = %v, want OutOfScope", got)
	}
}
