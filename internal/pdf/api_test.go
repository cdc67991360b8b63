package pdf

import (
	"strings"
	"testing"

	"pdftext/internal/extractor"
)

type fakeOpener struct {
	doc *fakeDocument
}

func (o fakeOpener) Open(path string) (extractor.Document, error) {
	return o.doc, nil
}

func TestPlainText_ReturnsNonEmptyText(t *testing.T) {
	opener := fakeOpener{doc: newFakeDocument("hello there")}
	text, err := PlainText(opener, "fake.pdf", DefaultOptions(), 0, -1)
	if err != nil {
		t.Fatalf("PlainText() error = %v", err)
	}
	if text == "" {
		t.Error("PlainText() returned empty string")
	}
}

func TestPaginatedPlainText_OnePagePerEntry(t *testing.T) {
	opener := fakeOpener{doc: newFakeDocument("page one", "page two")}
	pages, err := PaginatedPlainText(opener, "fake.pdf", DefaultOptions(), 0, -1)
	if err != nil {
		t.Fatalf("PaginatedPlainText() error = %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("len(pages) = %d, want 2", len(pages))
	}
}

func TestDictionary_IncludesGeometry(t *testing.T) {
	opener := fakeOpener{doc: newFakeDocument("a b")}
	dict, err := Dictionary(opener, "fake.pdf", DefaultOptions(), 0, -1)
	if err != nil {
		t.Fatalf("Dictionary() error = %v", err)
	}
	if len(dict) != 1 {
		t.Fatalf("len(dict) = %d, want 1", len(dict))
	}
	if len(dict[0].Blocks) == 0 {
		t.Fatal("expected at least one block in dictionary output")
	}
}

func TestTable_ExtractsCellsWithinBox(t *testing.T) {
	opener := fakeOpener{doc: newFakeDocument("abcdef")}
	// The fake glyphs sit at PDF y 0..10 on an 800pt page, i.e. y 790..800
	// in top-left-origin page coordinates.
	box := NewBbox(0, 780, 600, 800)
	result, err := Table(opener, "fake.pdf", DefaultOptions(), DefaultTableOptions(), 0, []Bbox{box})
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if len(result.Cells) != 1 {
		t.Fatalf("len(result.Cells) = %d, want 1 (one per input box)", len(result.Cells))
	}
	if len(result.Cells[0]) == 0 {
		t.Error("expected at least one cell in the first box")
	}
}

func TestDictionary_KeepCharsIncludesCharBreakdown(t *testing.T) {
	opener := fakeOpener{doc: newFakeDocument("a b")}
	opts := DefaultOptions()
	opts.KeepChars = true
	dict, err := Dictionary(opener, "fake.pdf", opts, 0, -1)
	if err != nil {
		t.Fatalf("Dictionary() error = %v", err)
	}
	span := dict[0].Blocks[0].Lines[0].Spans[0]
	if len(span.Chars) == 0 {
		t.Fatal("expected KeepChars to populate span.Chars")
	}
	if span.Chars[0].Bbox == [4]float64{} {
		t.Error("expected a non-zero char bbox")
	}
}

func TestDictionary_DefaultOmitsChars(t *testing.T) {
	opener := fakeOpener{doc: newFakeDocument("a b")}
	dict, err := Dictionary(opener, "fake.pdf", DefaultOptions(), 0, -1)
	if err != nil {
		t.Fatalf("Dictionary() error = %v", err)
	}
	span := dict[0].Blocks[0].Lines[0].Spans[0]
	if len(span.Chars) != 0 {
		t.Error("expected span.Chars to be empty by default")
	}
}

func TestPlainText_JoinsPagesWithNewline(t *testing.T) {
	opener := fakeOpener{doc: newFakeDocument("page one", "page two")}
	text, err := PlainText(opener, "fake.pdf", DefaultOptions(), 0, -1)
	if err != nil {
		t.Fatalf("PlainText() error = %v", err)
	}
	if !strings.Contains(text, "\n\n") {
		t.Errorf("PlainText() across pages should be newline-joined, got %q", text)
	}
}
