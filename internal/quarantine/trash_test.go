package quarantine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fenilsonani/reclaim/internal/testutil"
)

func newTestTrash(t *testing.T) *xdgTrash {
	t.Helper()
	return &xdgTrash{root: t.TempDir()}
}

func TestTrashPutMovesTree(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("node_modules/pkg/index.js", []byte("module.exports = 1"))
	src := f.Path("node_modules")

	trash := newTestTrash(t)
	entry, err := trash.Put(src)
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}

	if _, err := os.Lstat(src); !os.IsNotExist(err) {
		t.Errorf("source still exists after Put")
	}
	moved, err := os.ReadFile(filepath.Join(entry.TrashedPath, "pkg", "index.js"))
	if err != nil {
		t.Fatalf("trashed content unreadable: %v", err)
	}
	if string(moved) != "module.exports = 1" {
		t.Errorf("trashed content = %q", moved)
	}

	info, err := os.ReadFile(filepath.Join(trash.infoDir(), entry.ID+".trashinfo"))
	if err != nil {
		t.Fatalf("no trashinfo written: %v", err)
	}
	if !strings.Contains(string(info), "[Trash Info]") ||
		!strings.Contains(string(info), "Path=") ||
		!strings.Contains(string(info), "DeletionDate=") {
		t.Errorf("trashinfo malformed:\n%s", info)
	}
}

func TestTrashRestoreRoundTrip(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("proj/target/debug/app", []byte("ELF"))
	src := f.Path("proj/target")

	trash := newTestTrash(t)
	entry, err := trash.Put(src)
	if err != nil {
		t.Fatal(err)
	}

	if err := trash.Restore(entry); err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	back, err := os.ReadFile(filepath.Join(src, "debug", "app"))
	if err != nil {
		t.Fatalf("restored content unreadable: %v", err)
	}
	if string(back) != "ELF" {
		t.Errorf("restored content = %q", back)
	}

	entries, err := trash.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("trash still lists %d entries after restore", len(entries))
	}
}

func TestTrashRestoreRefusesExistingTarget(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("cache/data.bin", []byte("old"))
	src := f.Path("cache")

	trash := newTestTrash(t)
	entry, err := trash.Put(src)
	if err != nil {
		t.Fatal(err)
	}

	// Something new appeared at the original location in the meantime.
	f.CreateFile("cache/fresh.bin", []byte("new"))

	if err := trash.Restore(entry); err == nil {
		t.Error("Restore overwrote an existing target")
	}
}

func TestTrashNameCollision(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("a/node_modules/x.js", []byte("a"))
	f.CreateFile("b/node_modules/x.js", []byte("b"))

	trash := newTestTrash(t)
	first, err := trash.Put(f.Path("a/node_modules"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := trash.Put(f.Path("b/node_modules"))
	if err != nil {
		t.Fatal(err)
	}

	if first.ID == second.ID {
		t.Fatalf("colliding names got the same trash ID %q", first.ID)
	}

	entries, err := trash.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("List = %d entries, want 2", len(entries))
	}
}

func TestTrashListRecordsOriginalPath(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("dir with spaces/.cache/blob", []byte("x"))
	src := f.Path("dir with spaces/.cache")

	trash := newTestTrash(t)
	if _, err := trash.Put(src); err != nil {
		t.Fatal(err)
	}

	entries, err := trash.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("List = %d entries, want 1", len(entries))
	}
	if entries[0].OriginalPath != src {
		t.Errorf("OriginalPath = %q, want %q (escaping must round-trip)", entries[0].OriginalPath, src)
	}
	if entries[0].DeletedAt.IsZero() {
		t.Error("DeletedAt not recorded")
	}
}

func TestTrashRemovePermanently(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("junk/file", []byte("x"))

	trash := newTestTrash(t)
	entry, err := trash.Put(f.Path("junk"))
	if err != nil {
		t.Fatal(err)
	}

	if err := trash.Remove(entry); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if _, err := os.Lstat(entry.TrashedPath); !os.IsNotExist(err) {
		t.Error("trashed files survive Remove")
	}
	entries, _ := trash.List()
	if len(entries) != 0 {
		t.Errorf("List = %d entries after Remove, want 0", len(entries))
	}
}

func TestTrashListEmptyWhenNeverUsed(t *testing.T) {
	trash := &xdgTrash{root: filepath.Join(t.TempDir(), "never-created")}
	entries, err := trash.List()
	if err != nil {
		t.Fatalf("List on pristine trash: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List = %d entries, want 0", len(entries))
	}
}

func TestCopyTreePreservesSymlinksUnfollowed(t *testing.T) {
	f := testutil.NewFixture(t)
	outside := f.CreateFile("outside/secret.txt", []byte("keep me"))
	f.CreateFile("cand/real.txt", []byte("data"))
	f.CreateSymlink(outside, "cand/link")

	dst := f.Path("copy")
	if err := copyTree(f.Path("cand"), dst); err != nil {
		t.Fatalf("copyTree error: %v", err)
	}

	target, err := os.Readlink(filepath.Join(dst, "link"))
	if err != nil {
		t.Fatalf("copied link unreadable: %v", err)
	}
	if target != outside {
		t.Errorf("link target = %q, want %q", target, outside)
	}
	if _, err := os.ReadFile(outside); err != nil {
		t.Errorf("symlink target was disturbed: %v", err)
	}
}
