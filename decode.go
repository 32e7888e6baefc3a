package texatlas

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"golang.org/x/sync/errgroup"
	"io"
	"os"
	"sort"
	"strings"
)

// Warning is informational and never causes a decode to fail.
type Warning int

const (
	NoWarnings Warning = iota
	DimensionsNotPowerOfTwo
)

func (w Warning) String() string {
	switch w {
	case NoWarnings:
		return "no warnings"
	case DimensionsNotPowerOfTwo:
		return "texture dimensions are not a power of two"
	}
	return fmt.Sprintf("Warning(%d)", int(w))
}

// PageWarning attaches a Warning to the page it concerns.
type PageWarning struct {
	Page    string
	Warning Warning
}

// Result is a decoded atlas along with the warnings raised for its pages.
type Result struct {
	Atlas    *MultiPageAtlas
	Warnings []PageWarning
}

func (r *Result) HasNoWarnings() bool {
	return len(r.Warnings) == 0
}

// Warning returns the warning for the named page.
func (r *Result) Warning(page string) Warning {
	for _, w := range r.Warnings {
		if w.Page == page {
			return w.Warning
		}
	}
	return NoWarnings
}

var errNoPages = errors.New("container holds no atlas pages")

// Load decodes the atlas archive at path.
func Load(path string, opts ...Option) (*Result, error) {
	o := newOptions(opts)

	f, err := os.Open(path)
	if err != nil {
		return nil, newError(CouldNotOpenContainer, "", err)
	}
	defer closeWithLoggedError(f, o.logger)

	info, err := f.Stat()
	if err != nil {
		return nil, newError(CouldNotOpenContainer, "", err)
	}

	return decodeZip(f, info.Size(), o)
}

// LoadFromMemory decodes an atlas archive held in b.
func LoadFromMemory(b []byte, opts ...Option) (*Result, error) {
	return Decode(bytes.NewReader(b), int64(len(b)), opts...)
}

// Decode reads an atlas archive of the given size from r. Decoding is all
// or nothing: any failure on any page fails the whole call.
func Decode(r io.ReaderAt, size int64, opts ...Option) (*Result, error) {
	return decodeZip(r, size, newOptions(opts))
}

func decodeZip(r io.ReaderAt, size int64, o *options) (*Result, error) {
	c, err := openZipContainer(r, size)
	if err != nil {
		return nil, newError(CouldNotOpenContainer, "", err)
	}
	return decodeContainer(c, o)
}

// pageEntries names the two entries that make up one page.
type pageEntries struct {
	page     string
	metadata string
	image    string
}

// discoverPages pairs the .json and .png entries of a container by base
// name, walking the names in lexicographic order. It fails on the first
// base name that lacks either half.
func discoverPages(names []string) ([]pageEntries, error) {
	sorted := make([]string, 0, len(names))
	for _, n := range names {
		if strings.HasSuffix(n, metadataExt) || strings.HasSuffix(n, imageExt) {
			sorted = append(sorted, n)
		}
	}
	sort.Strings(sorted)

	present := make(map[string]bool, len(sorted))
	for _, n := range sorted {
		present[n] = true
	}

	// A lone coordinate_charts.json is the metadata of the single-page
	// layout, whose image is atlas.png.
	legacy := present[legacyMetadataEntry] &&
		!present["coordinate_charts"+imageExt] &&
		!present[legacyPageName+metadataExt]

	var (
		pages []pageEntries
		seen  = make(map[string]bool)
	)
	for _, n := range sorted {
		// Only one extension is stripped so page names may contain dots.
		base, ok := strings.CutSuffix(n, metadataExt)
		if !ok {
			base = strings.TrimSuffix(n, imageExt)
		}
		if legacy && n == legacyMetadataEntry {
			base = legacyPageName
		}
		if seen[base] {
			continue
		}
		seen[base] = true

		pe := pageEntries{
			page:     base,
			metadata: base + metadataExt,
			image:    base + imageExt,
		}
		if legacy && base == legacyPageName {
			pe.metadata = legacyMetadataEntry
		}
		if !present[pe.metadata] {
			return nil, newError(MissingMetadataEntry, base, fmt.Errorf("no entry %q", pe.metadata))
		}
		if !present[pe.image] {
			return nil, newError(MissingImageEntry, base, fmt.Errorf("no entry %q", pe.image))
		}
		pages = append(pages, pe)
	}

	if len(pages) == 0 {
		return nil, newError(MissingMetadataEntry, legacyPageName, errNoPages)
	}
	return pages, nil
}

func decodeContainer(c container, o *options) (*Result, error) {
	entries, err := discoverPages(c.entryNames())
	if err != nil {
		return nil, err
	}

	pages := make([]*Page, len(entries))
	warnings := make([]Warning, len(entries))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(o.concurrency)
	for i, pe := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			page, warning, err := decodePage(c, pe, o)
			if err != nil {
				return err
			}
			pages[i], warnings[i] = page, warning
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	atlas, err := NewMultiPageAtlas(pages)
	if err != nil {
		return nil, newError(MalformedMetadata, "", err)
	}

	res := &Result{Atlas: atlas}
	for i, w := range warnings {
		if w != NoWarnings {
			res.Warnings = append(res.Warnings, PageWarning{Page: entries[i].page, Warning: w})
		}
	}
	return res, nil
}

func decodePage(c container, pe pageEntries, o *options) (*Page, Warning, error) {
	logger := o.logger.With("page", pe.page)

	rc, err := c.openEntry(pe.metadata)
	if err != nil {
		return nil, NoWarnings, newError(MissingMetadataEntry, pe.page, err)
	}
	rec, entries, err := readPageRecord(rc)
	closeWithLoggedError(rc, logger)
	if err != nil {
		return nil, NoWarnings, newError(MalformedMetadata, pe.page, err)
	}

	rc, err = c.openEntry(pe.image)
	if err != nil {
		return nil, NoWarnings, newError(MissingImageEntry, pe.page, err)
	}
	pix, err := o.codec.Decode(rc)
	closeWithLoggedError(rc, logger)
	if err != nil {
		return nil, NoWarnings, newError(ImageDecodeFailure, pe.page, err)
	}

	switch {
	case pix.ColorType.IsFloat():
		return nil, NoWarnings, newError(GotFloatingPointImage, pe.page, fmt.Errorf("image has %v pixels", pix.ColorType))
	case !pix.ColorType.Valid():
		return nil, NoWarnings, newError(UnrecognizedColorType, pe.page, errUnrecognizedColor)
	}
	if err := pix.validate(); err != nil {
		return nil, NoWarnings, newError(ImageDecodeFailure, pe.page, err)
	}

	if rec.ColorType != ColorUnknown && rec.ColorType != pix.ColorType {
		if pix, err = pix.Convert(rec.ColorType); err != nil {
			return nil, NoWarnings, newError(MalformedMetadata, pe.page, err)
		}
	}
	if *rec.Origin == BottomLeft {
		pix.FlipRows()
	}

	page, err := NewPage(pix.Width, pix.Height, pix.ColorType, *rec.Origin, entries, pe.page, pix.Pix)
	if err != nil {
		return nil, NoWarnings, newError(MalformedMetadata, pe.page, err)
	}

	warning := NoWarnings
	if !isPowerOfTwo(page.Width()) || !isPowerOfTwo(page.Height()) {
		warning = DimensionsNotPowerOfTwo
		logger.Warn("page dimensions are not a power of two", "width", page.Width(), "height", page.Height())
	}
	logger.Debug("decoded page", "width", page.Width(), "height", page.Height(),
		"color", page.ColorType(), "origin", page.Origin(), "textures", page.TextureCount())

	return page, warning, nil
}
