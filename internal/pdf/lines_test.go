package pdf

import "testing"

func mkSpan(text string, x1, y1, x2, y2, rotation float64) Span {
	return Span{
		Chars:    []Character{{Bbox: NewBbox(x1, y1, x2, y2)}},
		Bbox:     NewBbox(x1, y1, x2, y2),
		Text:     text,
		Rotation: rotation,
	}
}

func TestBuildLines_SameRowMerges(t *testing.T) {
	spans := []Span{
		mkSpan("hello ", 0, 0, 20, 10, 0),
		mkSpan("world", 20, 0, 40, 10, 0),
	}
	lines := buildLines(spans)
	if len(lines) != 1 {
		t.Fatalf("len(lines) = %d, want 1", len(lines))
	}
	if len(lines[0].Spans) != 2 {
		t.Fatalf("len(lines[0].Spans) = %d, want 2", len(lines[0].Spans))
	}
}

func TestBuildLines_VerticalGapSplits(t *testing.T) {
	spans := []Span{
		mkSpan("line one", 0, 0, 20, 10, 0),
		mkSpan("line two", 0, 20, 20, 30, 0),
	}
	lines := buildLines(spans)
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
}

func TestBuildLines_RotationChangeSplits(t *testing.T) {
	spans := []Span{
		mkSpan("a", 0, 0, 10, 10, 0),
		mkSpan("b", 0, 0, 10, 10, 90),
	}
	lines := buildLines(spans)
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
}

func TestBuildLines_ForcedBreakOnNewline(t *testing.T) {
	s1 := mkSpan("end of line\n", 0, 0, 20, 10, 0)
	s2 := mkSpan("next", 0, 0, 20, 10, 0)
	lines := buildLines([]Span{s1, s2})
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2 after explicit newline", len(lines))
	}
}

func TestBuildLines_Empty(t *testing.T) {
	if lines := buildLines(nil); lines != nil {
		t.Errorf("buildLines(nil) = %v, want nil", lines)
	}
}
