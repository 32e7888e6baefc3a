package texatlas

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// dirContainer reads page entries stored as loose files below a directory.
type dirContainer struct {
	root  string
	names []string
}

func openDirContainer(root string) (*dirContainer, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", root)
	}

	c := &dirContainer{root: root}
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip hidden files and directories.
		if p != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		ext := filepath.Ext(p)
		if ext != metadataExt && ext != imageExt {
			return nil
		}

		name, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		c.names = append(c.names, filepath.ToSlash(name))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *dirContainer) entryNames() []string {
	return c.names
}

func (c *dirContainer) openEntry(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(c.root, filepath.FromSlash(name)))
}

// dirWriter writes every entry to its own file below a directory.
type dirWriter struct {
	root    string
	current *os.File
}

func (d *dirWriter) createEntry(name string, _ bool) (io.Writer, error) {
	if err := d.closeCurrent(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("invalid entry name %q", name)
	}

	p := filepath.Join(d.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(p)
	if err != nil {
		return nil, err
	}
	d.current = f
	return f, nil
}

func (d *dirWriter) closeCurrent() error {
	if d.current == nil {
		return nil
	}
	err := d.current.Close()
	d.current = nil
	return err
}

func (d *dirWriter) finish() error {
	return d.closeCurrent()
}

// LoadDir decodes an atlas unpacked into dir, where every page is a
// <page>.json and <page>.png file pair. Pages in subdirectories are named
// by their slash separated relative path.
func LoadDir(dir string, opts ...Option) (*Result, error) {
	o := newOptions(opts)
	c, err := openDirContainer(dir)
	if err != nil {
		return nil, newError(CouldNotOpenContainer, "", err)
	}
	return decodeContainer(c, o)
}

// SaveDir writes every page of atlas into dir as a <page>.json and
// <page>.png file pair, creating dir if needed. LoadDir skips hidden files
// and directories, so page names with a path element starting with a dot
// are rejected before anything is written.
func SaveDir(dir string, atlas *MultiPageAtlas, opts ...Option) error {
	o := newOptions(opts)
	for _, page := range atlas.Pages() {
		if err := checkDirPageName(page.Name()); err != nil {
			return newError(CouldNotWriteContainer, page.Name(), err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newError(CouldNotWriteContainer, "", err)
	}

	w := &dirWriter{root: dir}
	if err := encodePages(w, atlas.Pages(), pairedEntries, o); err != nil {
		if cerr := w.finish(); cerr != nil {
			o.logger.Error("could not close page file", "dir", dir, "error", cerr)
		}
		return err
	}
	if err := w.finish(); err != nil {
		return newError(CouldNotWriteContainer, "", err)
	}
	return nil
}

var errHiddenPageName = errors.New("page name is hidden from LoadDir")

func checkDirPageName(name string) error {
	if !fs.ValidPath(name) {
		return fmt.Errorf("invalid page name %q", name)
	}
	for _, elem := range strings.Split(name, "/") {
		if strings.HasPrefix(elem, ".") {
			return fmt.Errorf("%q: %w", name, errHiddenPageName)
		}
	}
	return nil
}

func closeWithLoggedError(c io.Closer, l *slog.Logger) {
	if err := c.Close(); err != nil {
		l.Error("close failed", "error", err)
	}
}
