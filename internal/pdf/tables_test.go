package pdf

import "testing"

func mkTableChar(r rune, x1, y1, x2, y2 float64) Character {
	return Character{Bbox: NewBbox(x1, y1, x2, y2), Unicode: r}
}

// mkTablePage builds a single-block, single-line page with one span holding
// chars, sized so that img_size == page size (no rescale) keeps the math
// simple for tests.
func mkTablePage(width, height float64, chars []Character) Page {
	line := Line{Spans: []Span{{Chars: chars}}}
	if len(chars) > 0 {
		box := chars[0].Bbox
		for _, c := range chars[1:] {
			box = box.Merge(c.Bbox)
		}
		line.Bbox = box
	}
	return Page{
		Width:  int(width),
		Height: int(height),
		Blocks: []Block{{Bbox: line.Bbox, Lines: []Line{line}}},
	}
}

func TestTableCellText_SplitsOnColumnGap(t *testing.T) {
	chars := []Character{
		mkTableChar('a', 0, 0, 5, 10),
		mkTableChar('b', 5, 0, 10, 10),
		// large gap here signals a column boundary
		mkTableChar('c', 100, 0, 105, 10),
		mkTableChar('d', 105, 0, 110, 10),
	}
	page := mkTablePage(200, 10, chars)
	box := NewBbox(0, 0, 200, 10)

	// gapThresh is a fraction of img_size, not a pixel distance: 0.02 means
	// "same cell if the gap is under 2% of the image width/height".
	cells := tableCellText(box, page, 200, 10, 0.8, 0.02)
	if len(cells) != 2 {
		t.Fatalf("len(cells) = %d, want 2, got %+v", len(cells), cells)
	}
	if cells[0].Text != "ab" || cells[1].Text != "cd" {
		t.Errorf("cell text = %q, %q, want \"ab\", \"cd\"", cells[0].Text, cells[1].Text)
	}
}

func TestTableCellText_IgnoresLinesOutsideTable(t *testing.T) {
	inBox := []Character{mkTableChar('a', 0, 0, 5, 10)}
	page := mkTablePage(1100, 1100, inBox)
	// Add a second, far-away line that shouldn't intersect the table box.
	farLine := Line{Bbox: NewBbox(1000, 1000, 1005, 1010), Spans: []Span{{Chars: []Character{mkTableChar('z', 1000, 1000, 1005, 1010)}}}}
	page.Blocks = append(page.Blocks, Block{Bbox: farLine.Bbox, Lines: []Line{farLine}})

	box := NewBbox(0, 0, 50, 50)
	cells := tableCellText(box, page, 1100, 1100, 0.8, 0.02)
	if len(cells) != 1 || cells[0].Text != "a" {
		t.Errorf("cells = %+v, want single cell \"a\"", cells)
	}
}

func TestTableCellText_Empty(t *testing.T) {
	page := mkTablePage(10, 10, nil)
	if cells := tableCellText(NewBbox(0, 0, 10, 10), page, 10, 10, 0.8, 0.02); cells != nil {
		t.Errorf("tableCellText with no chars = %v, want nil", cells)
	}
}

func TestTableCellText_TranslatesToTableLocalCoords(t *testing.T) {
	chars := []Character{mkTableChar('a', 100, 100, 105, 110)}
	page := mkTablePage(200, 200, chars)
	box := NewBbox(100, 100, 200, 200)

	cells := tableCellText(box, page, 200, 200, 0.8, 0.02)
	if len(cells) != 1 {
		t.Fatalf("len(cells) = %d, want 1", len(cells))
	}
	if cells[0].Bbox.XMin != 0 || cells[0].Bbox.YMin != 0 {
		t.Errorf("cell bbox = %+v, want translated to start at (0,0)", cells[0].Bbox)
	}
}

func TestTableCellText_RescalesByImgSize(t *testing.T) {
	// Page is half the image size, so a char at x=50..55 in page space maps
	// to x=100..110 in image space; scaling the table box the same way
	// should select the same characters.
	chars := []Character{mkTableChar('a', 50, 0, 55, 10)}
	page := mkTablePage(100, 10, chars)
	box := NewBbox(0, 0, 200, 20)

	cells := tableCellText(box, page, 200, 20, 0.8, 0.02)
	if len(cells) != 1 || cells[0].Text != "a" {
		t.Errorf("cells = %+v, want single cell \"a\" after rescale", cells)
	}
}

func TestIsSameSpan_RotationAxis(t *testing.T) {
	a := NewBbox(0, 0, 10, 10)
	b := NewBbox(10, 0, 20, 10)

	if !isSameSpan(b, a, 100, 100, 0.05, 0) {
		t.Error("expected same span for small x-gap at rotation 0")
	}

	c := NewBbox(0, 0, 10, 10)
	d := NewBbox(100, 100, 110, 110)
	if isSameSpan(d, c, 100, 100, 0.05, 0) {
		t.Error("expected different span for large gap")
	}
}

func TestDynamicGapThresh_FallsBackBelowSampleFloor(t *testing.T) {
	chars := []Character{mkTableChar('a', 0, 0, 5, 10), mkTableChar('b', 10, 0, 15, 10)}
	page := mkTablePage(100, 10, chars)
	if got := dynamicGapThresh(page, 100, 10, 42); got != 42 {
		t.Errorf("dynamicGapThresh() = %v, want fallback 42 below sample floor", got)
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := percentile(sorted, 0); got != 1 {
		t.Errorf("percentile(0) = %v, want 1", got)
	}
	if got := percentile(sorted, 100); got != 10 {
		t.Errorf("percentile(100) = %v, want 10", got)
	}
}
