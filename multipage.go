package texatlas

import (
	"fmt"
)

// MultiPageAtlas is an ordered collection of uniquely named pages.
type MultiPageAtlas struct {
	pages []*Page
	names map[string]int
}

// NewMultiPageAtlas collects pages under their own names, preserving order.
// Two pages with the same name are an error.
func NewMultiPageAtlas(pages []*Page) (*MultiPageAtlas, error) {
	a := &MultiPageAtlas{
		pages: make([]*Page, 0, len(pages)),
		names: make(map[string]int, len(pages)),
	}
	for _, p := range pages {
		if p == nil {
			return nil, fmt.Errorf("nil page at index %d", len(a.pages))
		}
		if _, ok := a.names[p.Name()]; ok {
			return nil, fmt.Errorf("duplicate page name %q", p.Name())
		}
		a.names[p.Name()] = len(a.pages)
		a.pages = append(a.pages, p)
	}
	return a, nil
}

func (a *MultiPageAtlas) PageCount() int {
	return len(a.pages)
}

// Pages returns the pages in order.
func (a *MultiPageAtlas) Pages() []*Page {
	return append([]*Page(nil), a.pages...)
}

// PageNames returns the page names. Callers must not rely on the order.
func (a *MultiPageAtlas) PageNames() []string {
	names := make([]string, 0, len(a.names))
	for _, p := range a.pages {
		names = append(names, p.Name())
	}
	return names
}

func (a *MultiPageAtlas) ByPageName(name string) (*Page, bool) {
	i, ok := a.names[name]
	if !ok {
		return nil, false
	}
	return a.pages[i], true
}

func (a *MultiPageAtlas) ByPageIndex(i int) (*Page, bool) {
	if i < 0 || i >= len(a.pages) {
		return nil, false
	}
	return a.pages[i], true
}
