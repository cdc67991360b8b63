package pdf

import (
	"fmt"
	"sync"
)

// Font describes the typographic attributes a span or character shares.
type Font struct {
	Name   string
	Flags  int
	Size   float64
	Weight float64
}

// Character is a single ingested glyph. Created by character ingestion
// (component B) and immutable thereafter.
type Character struct {
	Bbox     Bbox
	Unicode  rune
	Rotation float64
	Font     Font
	CharIdx  int
}

// Span is a maximal run of characters sharing font and rotation, with no
// forced break. Created by the span builder (component C); may be split by
// the link overlay (component G); the renderer (component H) postprocesses
// a copy of its Text and leaves the span unchanged.
type Span struct {
	Chars        []Character
	Bbox         Bbox
	Text         string
	Rotation     float64
	Font         Font
	CharStartIdx int
	CharEndIdx   int
	URL          string
	Superscript  bool
	Subscript    bool
}

// Line is an ordered, non-empty sequence of spans sharing rotation.
type Line struct {
	Spans    []Span
	Bbox     Bbox
	Rotation float64
}

// Block is an ordered, non-empty sequence of lines.
type Block struct {
	Lines []Line
	Bbox  Bbox
}

// Page is one extracted page: its geometry, rotation, and block tree.
type Page struct {
	Page     int
	Bbox     Bbox
	Width    int
	Height   int
	Rotation int
	Blocks   []Block
	Refs     []Reference
}

// Link is an ephemeral annotation-derived hyperlink, consumed entirely by
// the link overlay pass (component G) and never exposed in the Page tree.
type Link struct {
	Page     int
	Bbox     Bbox
	DestPage *int
	DestPos  *[2]float64
	URL      string
}

// Reference is an intra-document anchor target. Its URL has the form
// "#page-<P>-<idx>".
type Reference struct {
	Page  int
	Idx   int
	Coord [2]float64
}

// URL returns the reference's canonical anchor URL.
func (r Reference) URL() string {
	return fmt.Sprintf("#page-%d-%d", r.Page, r.Idx)
}

// PageReference is a per-document registry of intra-document anchor
// targets, deduplicated by (page, coord). Pages may be extracted
// concurrently by the worker pool (see driver.go), so all access is
// guarded by mu.
type PageReference struct {
	mu     sync.Mutex
	byPage map[int][]Reference
	seen   map[[3]float64]Reference // {page, coordX, coordY} -> Reference
}

// NewPageReference creates an empty registry.
func NewPageReference() *PageReference {
	return &PageReference{
		byPage: make(map[int][]Reference),
		seen:   make(map[[3]float64]Reference),
	}
}

// Add inserts a reference to (destPage, coord), returning the existing
// Reference if one with the same (page, coord) was already added.
func (p *PageReference) Add(destPage int, coord [2]float64) Reference {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := [3]float64{float64(destPage), coord[0], coord[1]}
	if ref, ok := p.seen[key]; ok {
		return ref
	}
	ref := Reference{
		Page:  destPage,
		Idx:   len(p.byPage[destPage]),
		Coord: coord,
	}
	p.byPage[destPage] = append(p.byPage[destPage], ref)
	p.seen[key] = ref
	return ref
}

// Refs returns the ordered references targeting the given page.
func (p *PageReference) Refs(page int) []Reference {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Reference(nil), p.byPage[page]...)
}
