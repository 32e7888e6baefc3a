package texatlas

import (
	"encoding/json"
	"errors"
	"io"
	"sort"
)

const (
	metadataExt = ".json"
	imageExt    = ".png"

	// legacyMetadataEntry and legacyImageEntry make up a single-page
	// archive. Its page is called legacyPageName.
	legacyMetadataEntry = "coordinate_charts.json"
	legacyImageEntry    = "atlas.png"
	legacyPageName      = "atlas"
)

var (
	errMissingOrigin = errors.New("missing origin")
	errMissingCharts = errors.New("missing coordinate_charts")
)

type chartRecord struct {
	Name        string           `json:"name"`
	BoundingBox PixelBoundingBox `json:"bounding_box"`
}

// pageRecord is the JSON document stored next to every page image.
type pageRecord struct {
	Origin           *Origin             `json:"origin"`
	ColorType        ColorType           `json:"color_type,omitempty"`
	CoordinateCharts map[int]chartRecord `json:"coordinate_charts"`
}

func writePageRecord(w io.Writer, p *Page) error {
	origin := p.Origin()
	rec := pageRecord{
		Origin:           &origin,
		ColorType:        p.ColorType(),
		CoordinateCharts: make(map[int]chartRecord, p.TextureCount()),
	}
	for _, e := range p.Entries() {
		rec.CoordinateCharts[e.Index] = chartRecord{Name: e.Name, BoundingBox: e.Box}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&rec)
}

func readPageRecord(r io.Reader) (*pageRecord, []Entry, error) {
	var rec pageRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, nil, err
	}
	if rec.Origin == nil {
		return nil, nil, errMissingOrigin
	}
	if rec.CoordinateCharts == nil {
		return nil, nil, errMissingCharts
	}

	entries := make([]Entry, 0, len(rec.CoordinateCharts))
	for i, c := range rec.CoordinateCharts {
		entries = append(entries, Entry{Index: i, Name: c.Name, Box: c.BoundingBox})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })

	return &rec, entries, nil
}
