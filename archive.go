package texatlas

import (
	"fmt"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"io"
	"io/fs"
)

// Ext is the conventional file extension of an atlas archive.
const Ext = ".atlas"

// container is a read-only set of named entries.
type container interface {
	entryNames() []string
	openEntry(name string) (io.ReadCloser, error)
}

// entryWriter receives the entries of an atlas one after the other.
type entryWriter interface {
	// createEntry starts a new entry. The returned writer is valid until
	// the next call to createEntry or finish.
	createEntry(name string, compress bool) (io.Writer, error)
	finish() error
}

type zipContainer struct {
	names []string
	files map[string]*zip.File
}

func openZipContainer(r io.ReaderAt, size int64) (*zipContainer, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	zr.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
	zr.RegisterDecompressor(zstd.ZipMethodPKWare, zstd.ZipDecompressor())

	c := &zipContainer{
		names: make([]string, 0, len(zr.File)),
		files: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		// First entry wins, the same as zip.Reader.Open.
		if _, ok := c.files[f.Name]; ok {
			continue
		}
		c.files[f.Name] = f
		c.names = append(c.names, f.Name)
	}
	return c, nil
}

func (c *zipContainer) entryNames() []string {
	return c.names
}

func (c *zipContainer) openEntry(name string) (io.ReadCloser, error) {
	f, ok := c.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	return f.Open()
}

type zipWriter struct {
	zw *zip.Writer
}

// newZipWriter deflates at the best level since only the small metadata
// entries are compressed.
func newZipWriter(w io.Writer) *zipWriter {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})
	return &zipWriter{zw: zw}
}

// createEntry deflates compressed entries and stores the rest as is.
func (z *zipWriter) createEntry(name string, compress bool) (io.Writer, error) {
	method := zip.Store
	if compress {
		method = zip.Deflate
	}
	return z.zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
}

func (z *zipWriter) finish() error {
	return z.zw.Close()
}
