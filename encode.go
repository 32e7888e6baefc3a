package texatlas

import (
	"bytes"
	"fmt"
	"golang.org/x/sync/errgroup"
	"io"
	"os"
)

// entryNamer picks the metadata and image entry names of a page.
type entryNamer func(p *Page) pageEntries

func pairedEntries(p *Page) pageEntries {
	return pageEntries{
		page:     p.Name(),
		metadata: p.Name() + metadataExt,
		image:    p.Name() + imageExt,
	}
}

func legacyEntries(p *Page) pageEntries {
	return pageEntries{
		page:     p.Name(),
		metadata: legacyMetadataEntry,
		image:    legacyImageEntry,
	}
}

// Save writes atlas to a new archive at path, one <page>.json and
// <page>.png pair per page.
func Save(path string, atlas *MultiPageAtlas, opts ...Option) error {
	return saveFile(path, opts, func(w io.Writer) error {
		return SaveToWriter(w, atlas, opts...)
	})
}

// SaveToWriter writes atlas as an archive to w.
func SaveToWriter(w io.Writer, atlas *MultiPageAtlas, opts ...Option) error {
	o := newOptions(opts)
	zw := newZipWriter(w)
	if err := encodePages(zw, atlas.Pages(), pairedEntries, o); err != nil {
		return err
	}
	if err := zw.finish(); err != nil {
		return newError(CouldNotWriteContainer, "", err)
	}
	return nil
}

// SavePage writes a single page to path using the single-page layout of
// coordinate_charts.json and atlas.png. Loading it back yields a page named
// "atlas".
func SavePage(path string, page *Page, opts ...Option) error {
	return saveFile(path, opts, func(w io.Writer) error {
		return EncodePage(w, page, opts...)
	})
}

// EncodePage is the io.Writer form of SavePage.
func EncodePage(w io.Writer, page *Page, opts ...Option) error {
	o := newOptions(opts)
	zw := newZipWriter(w)
	if err := encodePages(zw, []*Page{page}, legacyEntries, o); err != nil {
		return err
	}
	if err := zw.finish(); err != nil {
		return newError(CouldNotWriteContainer, page.Name(), err)
	}
	return nil
}

func saveFile(path string, opts []Option, write func(io.Writer) error) error {
	o := newOptions(opts)

	f, err := os.Create(path)
	if err != nil {
		return newError(CouldNotWriteContainer, "", err)
	}
	if err := write(f); err != nil {
		closeWithLoggedError(f, o.logger)
		return err
	}
	if err := f.Close(); err != nil {
		return newError(CouldNotWriteContainer, "", err)
	}
	return nil
}

// encodePages writes the metadata and image entries of every page in order.
// With more than one worker the page images are encoded up front.
func encodePages(w entryWriter, pages []*Page, names entryNamer, o *options) error {
	encoded := make([][]byte, len(pages))
	if o.concurrency > 1 && len(pages) > 1 {
		var g errgroup.Group
		g.SetLimit(o.concurrency)
		for i, p := range pages {
			g.Go(func() error {
				b, err := encodeImage(p, o)
				encoded[i] = b
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	for i, p := range pages {
		pe := names(p)

		img := encoded[i]
		if img == nil {
			var err error
			if img, err = encodeImage(p, o); err != nil {
				return err
			}
		}

		mw, err := w.createEntry(pe.metadata, true)
		if err != nil {
			return newError(CouldNotWriteContainer, pe.page, err)
		}
		if err := writePageRecord(mw, p); err != nil {
			return newError(CouldNotWriteContainer, pe.page, err)
		}

		iw, err := w.createEntry(pe.image, false)
		if err != nil {
			return newError(CouldNotWriteContainer, pe.page, err)
		}
		if _, err := iw.Write(img); err != nil {
			return newError(CouldNotWriteContainer, pe.page, err)
		}

		o.logger.Debug("encoded page", "page", pe.page, "metadata", pe.metadata, "image", pe.image, "bytes", len(img))
	}
	return nil
}

// encodeImage turns the page back into an upright image and encodes it.
func encodeImage(p *Page, o *options) ([]byte, error) {
	if p.ColorType().IsFloat() {
		return nil, newError(GotFloatingPointImage, p.Name(), fmt.Errorf("page has %v pixels", p.ColorType()))
	}

	var buf bytes.Buffer
	if err := o.codec.Encode(&buf, p.topDownPixels()); err != nil {
		return nil, newError(ImageEncodeFailure, p.Name(), err)
	}
	return buf.Bytes(), nil
}
