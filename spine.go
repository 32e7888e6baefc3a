package texatlas

import (
	"bufio"
	"fmt"
	"golang.org/x/sync/errgroup"
	"image"
	"io"
	"io/fs"
	"path"
	"reflect"
	"strconv"
	"strings"
)

// Angle is a rotation in degrees.
type Angle float64

func (a Angle) Degrees() float64 {
	return float64(a)
}

// quarterTurn reports whether the angle swaps the packed width and height.
func (a Angle) quarterTurn() bool {
	d := int(a) % 360
	if d < 0 {
		d += 360
	}
	return d == 90 || d == 270
}

// parse accepts the legacy true/false rotate flag as well as degrees.
func (a *Angle) parse(s string) error {
	if rotated, err := strconv.ParseBool(s); err == nil {
		*a = 0
		if rotated {
			*a = 90
		}
		return nil
	}
	deg, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*a = Angle(deg)
	return nil
}

type SpineFilter struct {
	Min, Mag string
}

// SpineBounds locates a region in its page image.
type SpineBounds struct {
	Position image.Point // top left corner
	Size     image.Point // before rotation
}

// SpineOffsets records the whitespace stripped from a region.
type SpineOffsets struct {
	Offset       image.Point // from the left and bottom edges
	OriginalSize image.Point
}

// SpinePage is one page of a Spine (libGDX) texture atlas.
type SpinePage struct {
	Name    string      `atlas:"name"`
	Size    image.Point `atlas:"size"`
	Format  string      `atlas:"format"`
	Filter  SpineFilter `atlas:"filter"`
	Repeat  string      `atlas:"repeat"`
	Pma     bool        `atlas:"pma"`
	Regions []SpineRegion
}

// SpineRegion is one sprite of a SpinePage. Both the 4.x keys (bounds,
// offsets) and the 3.x keys (xy, size, orig, offset) are understood.
type SpineRegion struct {
	Name    string
	Index   int          `atlas:"index"`
	Bounds  SpineBounds  `atlas:"bounds"`
	XY      image.Point  `atlas:"xy"`
	Size    image.Point  `atlas:"size"`
	Offsets SpineOffsets `atlas:"offsets"`
	Orig    image.Point  `atlas:"orig"`
	Offset  image.Point  `atlas:"offset"`
	Rotate  Angle        `atlas:"rotate"`
}

// TextureName is the region name, suffixed with its frame index when the
// region is part of an indexed sequence.
func (r *SpineRegion) TextureName() string {
	if r.Index >= 0 {
		return fmt.Sprintf("%s_%d", r.Name, r.Index)
	}
	return r.Name
}

// PackedBox is the area the region occupies in the page image.
func (r *SpineRegion) PackedBox() PixelBoundingBox {
	size := r.Bounds.Size
	if r.Rotate.quarterTurn() {
		size = image.Pt(size.Y, size.X)
	}
	return PixelBoundingBox{
		TopLeft: PixelOffset{U: r.Bounds.Position.X, V: r.Bounds.Position.Y},
		Width:   size.X,
		Height:  size.Y,
	}
}

func (r *SpineRegion) setDefaults() {
	if r.Bounds == (SpineBounds{}) {
		r.Bounds = SpineBounds{Position: r.XY, Size: r.Size}
	}
	if r.Offsets == (SpineOffsets{}) {
		if r.Orig != (image.Point{}) {
			r.Offsets = SpineOffsets{Offset: r.Offset, OriginalSize: r.Orig}
		} else {
			r.Offsets = SpineOffsets{OriginalSize: r.Bounds.Size}
		}
	}
}

// DecodeSpine parses a Spine atlas file line by line. Pages are separated by
// blank lines; a line without a colon names a page or, after the page
// header, starts a new region.
func DecodeSpine(r io.Reader) ([]SpinePage, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanLines)

	var (
		pages  []SpinePage
		page   *SpinePage
		region *SpineRegion
	)

	closeRegion := func() {
		if region != nil {
			region.setDefaults()
			page.Regions = append(page.Regions, *region)
			region = nil
		}
	}
	closePage := func() {
		closeRegion()
		if page != nil {
			pages = append(pages, *page)
			page = nil
		}
	}

	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())

		if text == "" {
			closePage()
			continue
		}

		key, value, ok := strings.Cut(text, ":")
		if !ok {
			if page == nil {
				page = &SpinePage{Name: text}
				continue
			}
			closeRegion()
			region = &SpineRegion{Name: text, Index: -1}
			continue
		}

		var target reflect.Value
		switch {
		case region != nil:
			target = reflect.ValueOf(region).Elem()
		case page != nil:
			target = reflect.ValueOf(page).Elem()
		default:
			return nil, fmt.Errorf("line %d: property outside of a page", line)
		}
		if err := setProperty(target, strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	closePage()

	return pages, scanner.Err()
}

// setProperty stores value in the field of v tagged atlas:"key". Unknown
// keys are ignored.
func setProperty(v reflect.Value, key, value string) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("atlas"); tag == "" || tag != key {
			continue
		}
		if err := setField(v.Field(i), value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func setField(f reflect.Value, s string) error {
	switch p := f.Addr().Interface().(type) {
	case *string:
		*p = s
	case *bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		*p = b
	case *int:
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*p = n
	case *Angle:
		return p.parse(s)
	case *SpineFilter:
		minFilter, magFilter, ok := strings.Cut(s, ",")
		if !ok {
			return fmt.Errorf("invalid filter %q", s)
		}
		*p = SpineFilter{Min: strings.TrimSpace(minFilter), Mag: strings.TrimSpace(magFilter)}
	case *image.Point:
		c, err := parseInts(s, 2)
		if err != nil {
			return err
		}
		*p = image.Pt(c[0], c[1])
	case *SpineBounds:
		c, err := parseInts(s, 4)
		if err != nil {
			return err
		}
		*p = SpineBounds{Position: image.Pt(c[0], c[1]), Size: image.Pt(c[2], c[3])}
	case *SpineOffsets:
		c, err := parseInts(s, 4)
		if err != nil {
			return err
		}
		*p = SpineOffsets{Offset: image.Pt(c[0], c[1]), OriginalSize: image.Pt(c[2], c[3])}
	default:
		return fmt.Errorf("unsupported field type %s", f.Type())
	}
	return nil
}

// parseInts splits a comma separated list of exactly count integers.
func parseInts(s string, count int) ([]int, error) {
	fields := strings.Split(s, ",")
	if len(fields) != count {
		return nil, fmt.Errorf("expected %d values, got %q", count, s)
	}
	out := make([]int, count)
	for i, field := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// ImportSpine converts a Spine atlas into a TopLeft MultiPageAtlas, loading
// every page image from fsys by its page name. Pages are named after their
// image file without the extension.
func ImportSpine(r io.Reader, fsys fs.FS, opts ...Option) (*MultiPageAtlas, error) {
	spinePages, err := DecodeSpine(r)
	if err != nil {
		return nil, newError(MalformedMetadata, "", err)
	}
	o := newOptions(opts)

	pages := make([]*Page, len(spinePages))

	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for i := range spinePages {
		sp := &spinePages[i]
		g.Go(func() error {
			page, err := importSpinePage(sp, fsys, o)
			pages[i] = page
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	atlas, err := NewMultiPageAtlas(pages)
	if err != nil {
		return nil, newError(MalformedMetadata, "", err)
	}
	return atlas, nil
}

func importSpinePage(sp *SpinePage, fsys fs.FS, o *options) (*Page, error) {
	name := strings.TrimSuffix(sp.Name, path.Ext(sp.Name))
	logger := o.logger.With("page", name)

	f, err := fsys.Open(sp.Name)
	if err != nil {
		return nil, newError(MissingImageEntry, name, err)
	}
	pix, err := o.codec.Decode(f)
	closeWithLoggedError(f, logger)
	if err != nil {
		return nil, newError(ImageDecodeFailure, name, err)
	}

	switch {
	case pix.ColorType.IsFloat():
		return nil, newError(GotFloatingPointImage, name, fmt.Errorf("image has %v pixels", pix.ColorType))
	case !pix.ColorType.Valid():
		return nil, newError(UnrecognizedColorType, name, errUnrecognizedColor)
	}
	if sp.Size != (image.Point{}) && sp.Size != image.Pt(pix.Width, pix.Height) {
		logger.Warn("page image size differs from atlas header", "header", sp.Size, "width", pix.Width, "height", pix.Height)
	}

	entries := make([]Entry, len(sp.Regions))
	for i := range sp.Regions {
		region := &sp.Regions[i]
		entries[i] = Entry{Index: i, Name: region.TextureName(), Box: region.PackedBox()}
	}

	page, err := NewPage(pix.Width, pix.Height, pix.ColorType, TopLeft, entries, name, pix.Pix)
	if err != nil {
		return nil, newError(MalformedMetadata, name, err)
	}
	logger.Debug("imported spine page", "regions", len(entries))
	return page, nil
}
