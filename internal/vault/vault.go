// Package vault is the file store the rename command runs against: a tree of
// notes addressed by slash-separated paths relative to the vault root, with
// one optional active file.
package vault

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/djherbis/times"
	"github.com/spf13/afero"
	"github.com/tmfelwu/obsidian-file-rename/internal/metadata"
	"github.com/tmfelwu/obsidian-file-rename/internal/planner"
	"github.com/tmfelwu/obsidian-file-rename/internal/scanner"
	"github.com/tmfelwu/obsidian-file-rename/pkg/types"
)

var (
	ErrNotFound          = errors.New("file not found in vault")
	ErrNotAFile          = errors.New("path is a directory")
	ErrDestinationExists = errors.New("destination already exists")
	ErrCrossDirectory    = errors.New("destination is outside the source folder")
)

type Vault struct {
	mu     sync.RWMutex
	fs     afero.Fs
	meta   *metadata.Extractor
	active string

	// birthTime reports the creation time of a vault path when the
	// underlying filesystem records one.
	birthTime func(p string) (time.Time, bool)
}

// New wraps fs, whose root is treated as the vault root.
func New(fs afero.Fs) *Vault {
	return &Vault{
		fs:   fs,
		meta: metadata.New(),
	}
}

// NewOS opens the directory root on disk as a vault.
func NewOS(root string) (*Vault, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("failed to open vault: %s is not a directory", root)
	}
	v := New(afero.NewBasePathFs(afero.NewOsFs(), root))
	v.birthTime = osBirthTime(root)
	return v, nil
}

func osBirthTime(root string) func(string) (time.Time, bool) {
	return func(p string) (time.Time, bool) {
		ts, err := times.Stat(filepath.Join(root, filepath.FromSlash(planner.NormalizePath(p))))
		if err != nil || !ts.HasBirthTime() {
			return time.Time{}, false
		}
		return ts.BirthTime(), true
	}
}

func fsPath(p string) string {
	p = planner.NormalizePath(p)
	if p == "/" {
		return "/"
	}
	return "/" + p
}

// SetActiveFile selects the file the rename command applies to. An empty
// path clears the selection.
func (v *Vault) SetActiveFile(p string) error {
	if strings.TrimSpace(p) == "" {
		v.mu.Lock()
		v.active = ""
		v.mu.Unlock()
		return nil
	}

	p = planner.NormalizePath(p)
	if _, err := v.stat(p); err != nil {
		return err
	}

	v.mu.Lock()
	v.active = p
	v.mu.Unlock()
	return nil
}

// ActiveFile returns the current selection, with ok=false when nothing is selected.
func (v *Vault) ActiveFile() (types.FileDescriptor, bool, error) {
	v.mu.RLock()
	active := v.active
	v.mu.RUnlock()

	if active == "" {
		return types.FileDescriptor{}, false, nil
	}
	desc, err := v.Describe(active)
	if err != nil {
		return types.FileDescriptor{}, false, err
	}
	return desc, true, nil
}

// Describe builds a descriptor for the file at p.
func (v *Vault) Describe(p string) (types.FileDescriptor, error) {
	p = planner.NormalizePath(p)
	if _, err := v.stat(p); err != nil {
		return types.FileDescriptor{}, err
	}

	created, modified, err := v.ReadTimestamps(p)
	if err != nil {
		return types.FileDescriptor{}, err
	}

	dir := dirOf(p)
	base, ext := SplitName(path.Base(p))

	return types.FileDescriptor{
		Path:       p,
		BaseName:   base,
		Extension:  ext,
		Dir:        dir,
		CreatedAt:  created,
		ModifiedAt: modified,
	}, nil
}

// dirOf returns the folder of a normalized vault path, "" for the root.
func dirOf(p string) string {
	dir := path.Dir(planner.NormalizePath(p))
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// SplitName splits a file name at its last dot. Dotfiles have no extension.
func SplitName(name string) (base, ext string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return name, ""
	}
	return name[:i], name[i+1:]
}

// ReadTimestamps returns the creation and modification time of p. The
// creation time comes from embedded metadata (frontmatter, EXIF) when the
// file carries it, then from the filesystem birth time, and falls back to the
// modification time when neither is available.
func (v *Vault) ReadTimestamps(p string) (created, modified time.Time, err error) {
	info, err := v.stat(p)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	modified = info.ModTime()
	created = modified
	if v.birthTime != nil {
		if born, ok := v.birthTime(p); ok {
			created = born
		}
	}

	_, ext := SplitName(path.Base(p))
	if !v.meta.Supports(ext) {
		return created, modified, nil
	}

	f, err := v.fs.Open(fsPath(p))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to open %s: %w", p, err)
	}
	defer f.Close()

	if res := v.meta.Extract(ext, f); res.CreatedAt != nil {
		created = *res.CreatedAt
	}
	return created, modified, nil
}

// Files lists the vault files with one of the given extensions, or every
// file when none are given.
func (v *Vault) Files(extensions ...string) ([]string, error) {
	return scanner.New(extensions).Scan(v.fs)
}

// PathExists reports whether p is occupied by a file or folder.
func (v *Vault) PathExists(p string) bool {
	ok, err := afero.Exists(v.fs, fsPath(p))
	return err == nil && ok
}

// Rename gives desc the name in newPath. It refuses to replace an existing
// entry or to move the file into another folder.
func (v *Vault) Rename(desc types.FileDescriptor, newPath string) error {
	newPath = planner.NormalizePath(newPath)
	if dirOf(newPath) != dirOf(desc.Path) {
		return fmt.Errorf("%w: %s", ErrCrossDirectory, newPath)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if ok, _ := afero.Exists(v.fs, fsPath(newPath)); ok {
		return fmt.Errorf("%w: %s", ErrDestinationExists, newPath)
	}
	if err := v.fs.Rename(fsPath(desc.Path), fsPath(newPath)); err != nil {
		return err
	}
	if v.active == desc.Path {
		v.active = newPath
	}
	return nil
}

func (v *Vault) stat(p string) (os.FileInfo, error) {
	info, err := v.fs.Stat(fsPath(p))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, p)
	}
	return info, nil
}
