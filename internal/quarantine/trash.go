package quarantine

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"

	"github.com/fenilsonani/reclaim/internal/platform"
)

// ErrRestoreUnsupported is returned by trash backends that can move files
// aside but have no metadata to move them back.
var ErrRestoreUnsupported = errors.New("restore is not supported by this trash backend")

const trashInfoTimeFormat = "2006-01-02T15:04:05"

// Entry describes one quarantined folder sitting in the trash.
type Entry struct {
	// ID is the name under the trash's files directory, unique per entry.
	ID           string
	Name         string
	OriginalPath string
	TrashedPath  string
	DeletedAt    time.Time
}

// Trash moves folders aside recoverably instead of deleting them.
type Trash interface {
	// Put moves the folder at src into the trash and returns its entry.
	Put(src string) (*Entry, error)

	// Restore moves a trashed entry back to its original location.
	Restore(entry *Entry) error

	// List returns all entries currently in the trash, newest first.
	List() ([]*Entry, error)

	// Remove permanently deletes an entry from the trash.
	Remove(entry *Entry) error
}

// NewTrash selects the trash backend for the platform. A non-empty dir
// overrides the location and always uses the freedesktop layout, which is
// what tests and custom quarantine directories rely on.
func NewTrash(plat *platform.Info, dir string) (Trash, error) {
	if dir != "" {
		return &xdgTrash{root: dir}, nil
	}

	switch plat.OS {
	case platform.MacOS:
		return &darwinTrash{dir: filepath.Join(plat.HomeDir, ".Trash")}, nil
	case platform.Linux:
		return &xdgTrash{root: filepath.Join(xdg.DataHome, "Trash")}, nil
	default:
		return nil, platform.ErrUnsupportedPlatform
	}
}

// xdgTrash implements the freedesktop.org trash layout: moved folders live
// under files/ and each has a matching info/<id>.trashinfo recording the
// original path and deletion time.
type xdgTrash struct {
	root string
}

func (t *xdgTrash) filesDir() string { return filepath.Join(t.root, "files") }
func (t *xdgTrash) infoDir() string  { return filepath.Join(t.root, "info") }

func (t *xdgTrash) ensure() error {
	if err := os.MkdirAll(t.filesDir(), 0700); err != nil {
		return err
	}
	return os.MkdirAll(t.infoDir(), 0700)
}

func (t *xdgTrash) Put(src string) (*Entry, error) {
	if err := t.ensure(); err != nil {
		return nil, err
	}

	name := filepath.Base(src)
	id := t.uniqueID(name)
	dst := filepath.Join(t.filesDir(), id)
	infoPath := filepath.Join(t.infoDir(), id+".trashinfo")

	entry := &Entry{
		ID:           id,
		Name:         name,
		OriginalPath: src,
		TrashedPath:  dst,
		DeletedAt:    time.Now(),
	}

	// The info file is written first so a crash mid-move never leaves an
	// orphaned folder with no way back.
	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		escapeTrashPath(src), entry.DeletedAt.Format(trashInfoTimeFormat))
	if err := os.WriteFile(infoPath, []byte(info), 0600); err != nil {
		return nil, err
	}

	if err := moveTree(src, dst); err != nil {
		os.Remove(infoPath)
		return nil, err
	}
	return entry, nil
}

// uniqueID picks a files/ name that collides with nothing already trashed.
func (t *xdgTrash) uniqueID(name string) string {
	id := name
	for {
		_, ferr := os.Lstat(filepath.Join(t.filesDir(), id))
		_, ierr := os.Lstat(filepath.Join(t.infoDir(), id+".trashinfo"))
		if os.IsNotExist(ferr) && os.IsNotExist(ierr) {
			return id
		}
		id = name + "." + uuid.NewString()[:8]
	}
}

func (t *xdgTrash) Restore(entry *Entry) error {
	if _, err := os.Lstat(entry.OriginalPath); err == nil {
		return fmt.Errorf("restore target already exists: %s", entry.OriginalPath)
	}
	if err := os.MkdirAll(filepath.Dir(entry.OriginalPath), 0755); err != nil {
		return err
	}
	if err := moveTree(entry.TrashedPath, entry.OriginalPath); err != nil {
		return err
	}
	return os.Remove(filepath.Join(t.infoDir(), entry.ID+".trashinfo"))
}

func (t *xdgTrash) List() ([]*Entry, error) {
	infos, err := os.ReadDir(t.infoDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []*Entry
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".trashinfo") {
			continue
		}
		entry, err := t.readInfo(strings.TrimSuffix(info.Name(), ".trashinfo"))
		if err != nil {
			continue // malformed entries are invisible, not fatal
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].DeletedAt.After(entries[j].DeletedAt)
	})
	return entries, nil
}

func (t *xdgTrash) readInfo(id string) (*Entry, error) {
	data, err := os.ReadFile(filepath.Join(t.infoDir(), id+".trashinfo"))
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:          id,
		TrashedPath: filepath.Join(t.filesDir(), id),
	}
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case "Path":
			original, err := url.PathUnescape(value)
			if err != nil {
				return nil, err
			}
			entry.OriginalPath = original
			entry.Name = filepath.Base(original)
		case "DeletionDate":
			when, err := time.ParseInLocation(trashInfoTimeFormat, value, time.Local)
			if err != nil {
				return nil, err
			}
			entry.DeletedAt = when
		}
	}
	if entry.OriginalPath == "" {
		return nil, fmt.Errorf("trashinfo %s has no Path", id)
	}
	return entry, nil
}

func (t *xdgTrash) Remove(entry *Entry) error {
	if err := os.RemoveAll(entry.TrashedPath); err != nil {
		return err
	}
	return os.Remove(filepath.Join(t.infoDir(), entry.ID+".trashinfo"))
}

// darwinTrash moves folders into ~/.Trash the way Finder expects to find
// them. Without .DS_Store put-back metadata there is nothing to restore
// from, so only Put and Remove are available.
type darwinTrash struct {
	dir string
}

func (t *darwinTrash) Put(src string) (*Entry, error) {
	if err := os.MkdirAll(t.dir, 0700); err != nil {
		return nil, err
	}

	name := filepath.Base(src)
	id := name
	for {
		if _, err := os.Lstat(filepath.Join(t.dir, id)); os.IsNotExist(err) {
			break
		}
		id = name + "." + uuid.NewString()[:8]
	}

	dst := filepath.Join(t.dir, id)
	if err := moveTree(src, dst); err != nil {
		return nil, err
	}
	return &Entry{
		ID:           id,
		Name:         name,
		OriginalPath: src,
		TrashedPath:  dst,
		DeletedAt:    time.Now(),
	}, nil
}

func (t *darwinTrash) Restore(*Entry) error { return ErrRestoreUnsupported }

func (t *darwinTrash) List() ([]*Entry, error) { return nil, ErrRestoreUnsupported }

func (t *darwinTrash) Remove(entry *Entry) error {
	return os.RemoveAll(entry.TrashedPath)
}

// moveTree renames src to dst, falling back to copy-then-remove when the
// trash sits on a different device.
func moveTree(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return err
	}

	if err := copyTree(src, dst); err != nil {
		os.RemoveAll(dst)
		return err
	}
	return os.RemoveAll(src)
}

func copyTree(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(target, dst)

	case info.IsDir():
		if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
			return err
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := copyTree(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
				return err
			}
		}
		return nil

	case info.Mode().IsRegular():
		return copyFile(src, dst, info.Mode().Perm())

	default:
		// Sockets, fifos and devices have no business in a cache folder;
		// skip them rather than fail the whole move.
		return nil
	}
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// escapeTrashPath percent-encodes a path for a trashinfo file, keeping the
// separators readable the way other freedesktop implementations write them.
func escapeTrashPath(path string) string {
	u := url.URL{Path: path}
	return u.EscapedPath()
}
