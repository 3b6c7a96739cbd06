package vfs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrExists is returned when a move or rename target is already taken.
var ErrExists = errors.New("target already exists")

// FileSystem is the set of file operations the asset manager performs.
type FileSystem interface {
	// Fs exposes the underlying filesystem for reads.
	Fs() afero.Fs
	// Exists reports whether path exists.
	Exists(path string) bool
	// Move moves a file or directory to dst, creating parent directories.
	Move(src, dst string) error
	// Rename renames path within its directory.
	Rename(path, newName string) error
	// MoveToRecycleBin soft-deletes path.
	MoveToRecycleBin(path string) error
}

// RecycleBin takes ownership of removed files.
type RecycleBin interface {
	Recycle(fs afero.Fs, path string) error
}

// Local implements FileSystem over an afero.Fs.
type Local struct {
	fs  afero.Fs
	bin RecycleBin
}

// New creates a FileSystem on fs that recycles into bin.
func New(fs afero.Fs, bin RecycleBin) *Local {
	return &Local{fs: fs, bin: bin}
}

func (l *Local) Fs() afero.Fs {
	return l.fs
}

func (l *Local) Exists(path string) bool {
	ok, err := afero.Exists(l.fs, path)
	return err == nil && ok
}

func (l *Local) Move(src, dst string) error {
	return move(l.fs, src, dst)
}

func (l *Local) Rename(path, newName string) error {
	if newName == "" || strings.ContainsAny(newName, `/\`) {
		return fmt.Errorf("invalid file name %q", newName)
	}
	return move(l.fs, path, filepath.Join(filepath.Dir(path), newName))
}

func (l *Local) MoveToRecycleBin(path string) error {
	if !l.Exists(path) {
		return fmt.Errorf("recycle %s: %w", path, os.ErrNotExist)
	}
	return l.bin.Recycle(l.fs, path)
}

func move(fs afero.Fs, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return fmt.Errorf("move %s: %w", src, err)
	}
	if ok, _ := afero.Exists(fs, dst); ok {
		return fmt.Errorf("move %s: %w: %s", src, ErrExists, dst)
	}
	if err := fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("move %s: %w", src, err)
	}

	if !info.IsDir() {
		return moveFile(fs, src, dst)
	}

	err = afero.Walk(fs, src, func(p string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if fi.IsDir() {
			return fs.MkdirAll(target, 0o755)
		}
		return moveFile(fs, p, target)
	})
	if err != nil {
		return fmt.Errorf("move %s: %w", src, err)
	}
	return fs.RemoveAll(src)
}

// moveFile renames src to dst, falling back to copy and delete when the
// rename fails (e.g. across devices).
func moveFile(fs afero.Fs, src, dst string) error {
	if err := fs.Rename(src, dst); err == nil {
		return nil
	}

	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fs.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return fs.Remove(src)
}
