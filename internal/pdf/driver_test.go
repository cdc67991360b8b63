package pdf

import (
	"errors"
	"fmt"
	"testing"

	"pdftext/internal/config"
	"pdftext/internal/extractor"
)

// fakePage is a minimal in-memory extractor.Page for driver/api tests: a
// fixed-size page of monospaced characters reading left to right, one row
// of text, with no annotations.
type fakePage struct {
	rotation int
	width    float64
	height   float64
	text     string
	failChar int // index at which Char should error, or -1
	annots   []extractor.Annotation
}

func (p *fakePage) Rotation() int            { return p.rotation }
func (p *fakePage) MediaBox() [4]float64     { return [4]float64{0, 0, p.width, p.height} }
func (p *fakePage) CharCount() int           { return len(p.text) }
func (p *fakePage) Annotations() ([]extractor.Annotation, error) { return p.annots, nil }
func (p *fakePage) Flatten() error           { return nil }

func (p *fakePage) Char(i int) (extractor.CharInfo, error) {
	if i == p.failChar {
		return extractor.CharInfo{}, errors.New("simulated char read failure")
	}
	r := rune(p.text[i])
	x := float64(i) * 10
	return extractor.CharInfo{
		Unicode:    r,
		FontName:   "Fake",
		FontSize:   10,
		FontWeight: 400,
		LooseBox:   [4]float64{x, 0, x + 10, 10},
		TightBox:   [4]float64{x, 0, x + 9, 9},
	}, nil
}

// fakeDocument is an in-memory extractor.Document backed by a fixed list of
// pages, used to exercise ExtractDocument without touching a real PDF
// library.
type fakeDocument struct {
	pages     []*fakePage
	failOpen  int // page index at which Page() should error, or -1
	openCalls int
}

func (d *fakeDocument) PageCount() int { return len(d.pages) }

func (d *fakeDocument) Page(index int) (extractor.Page, error) {
	d.openCalls++
	if index == d.failOpen {
		return nil, fmt.Errorf("simulated open failure for page %d", index)
	}
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("page %d out of range", index)
	}
	return d.pages[index], nil
}

func (d *fakeDocument) Close() error { return nil }

func newFakeDocument(texts ...string) *fakeDocument {
	d := &fakeDocument{failOpen: -1}
	for _, t := range texts {
		d.pages = append(d.pages, &fakePage{width: 600, height: 800, text: t, failChar: -1})
	}
	return d
}

func TestExtractDocument_Serial(t *testing.T) {
	doc := newFakeDocument("hello world", "page two")
	opts := ExtractOptions{
		Page:      DefaultPageOptions(),
		Config:    config.Config{BlockThreshold: 0.8, WorkerPageThreshold: 10, FontnameSampleFreq: 6},
		FirstPage: 0,
		LastPage:  -1,
	}
	pages, err := ExtractDocument(doc, opts)
	if err != nil {
		t.Fatalf("ExtractDocument() error = %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("len(pages) = %d, want 2", len(pages))
	}
	if pages[0].Page != 0 || pages[1].Page != 1 {
		t.Errorf("pages out of order: %d, %d", pages[0].Page, pages[1].Page)
	}
}

func TestExtractDocument_Parallel(t *testing.T) {
	texts := make([]string, 20)
	for i := range texts {
		texts[i] = "some page text here"
	}
	doc := newFakeDocument(texts...)
	opts := ExtractOptions{
		Page:      DefaultPageOptions(),
		Config:    config.Config{BlockThreshold: 0.8, WorkerPageThreshold: 10, FontnameSampleFreq: 6, MaxWorkers: 4},
		FirstPage: 0,
		LastPage:  -1,
	}
	pages, err := ExtractDocument(doc, opts)
	if err != nil {
		t.Fatalf("ExtractDocument() error = %v", err)
	}
	if len(pages) != 20 {
		t.Fatalf("len(pages) = %d, want 20", len(pages))
	}
	for i, p := range pages {
		if p.Page != i {
			t.Errorf("pages[%d].Page = %d, want %d (order must be preserved)", i, p.Page, i)
		}
	}
}

func TestExtractDocument_WorkersClampedByPageCount(t *testing.T) {
	// 5 pages with the default threshold of 10 means floor(5/10) = 0, so
	// even a large requested worker count must clamp down to serial
	// execution rather than spinning up a pool.
	doc := newFakeDocument("a", "b", "c", "d", "e")
	opts := ExtractOptions{
		Page:      DefaultPageOptions(),
		Config:    config.Config{BlockThreshold: 0.8, WorkerPageThreshold: 10, FontnameSampleFreq: 6, MaxWorkers: 4},
		Workers:   32,
		FirstPage: 0,
		LastPage:  -1,
	}
	pages, err := ExtractDocument(doc, opts)
	if err != nil {
		t.Fatalf("ExtractDocument() error = %v", err)
	}
	if len(pages) != 5 {
		t.Fatalf("len(pages) = %d, want 5", len(pages))
	}
	for i, p := range pages {
		if p.Page != i {
			t.Errorf("pages[%d].Page = %d, want %d", i, p.Page, i)
		}
	}
}

func TestExtractPage_DisableLinksSkipsOverlay(t *testing.T) {
	doc := newFakeDocument("hi")
	p, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page(0) error = %v", err)
	}
	opts := DefaultPageOptions()
	opts.DisableLinks = true
	refs := NewPageReference()
	page, err := extractPage(p, 0, opts, refs)
	if err != nil {
		t.Fatalf("extractPage() error = %v", err)
	}
	if page.Refs != nil {
		t.Errorf("DisableLinks should leave page.Refs nil, got %v", page.Refs)
	}
}

func TestExtractDocument_InvalidRange(t *testing.T) {
	doc := newFakeDocument("only page")
	opts := ExtractOptions{
		Page:      DefaultPageOptions(),
		Config:    config.Default(),
		FirstPage: 5,
		LastPage:  -1,
	}
	if _, err := ExtractDocument(doc, opts); err == nil {
		t.Error("expected error for out-of-range first page")
	}
}

func TestExtractDocument_WorkerFailurePropagates(t *testing.T) {
	doc := newFakeDocument("ok page", "bad page")
	doc.pages[1].failChar = 0

	opts := ExtractOptions{
		Page:      DefaultPageOptions(),
		Config:    config.Default(),
		FirstPage: 0,
		LastPage:  -1,
	}
	_, err := ExtractDocument(doc, opts)
	if err == nil {
		t.Fatal("expected error from failing page")
	}
	var pdfErr *Error
	if !errors.As(err, &pdfErr) {
		t.Fatalf("error should be *Error, got %T", err)
	}
	if pdfErr.Code != ErrWorkerFailed {
		t.Errorf("error code = %v, want %v", pdfErr.Code, ErrWorkerFailed)
	}
}

func TestExtractPage_ProducesReadableText(t *testing.T) {
	doc := newFakeDocument("hi")
	p, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page(0) error = %v", err)
	}
	refs := NewPageReference()
	page, err := extractPage(p, 0, DefaultPageOptions(), refs)
	if err != nil {
		t.Fatalf("extractPage() error = %v", err)
	}
	if len(page.Blocks) == 0 {
		t.Fatal("expected at least one block")
	}
}
