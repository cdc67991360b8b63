package pdf

import "testing"

func mkLine(x1, y1, x2, y2 float64) Line {
	return Line{
		Spans: []Span{{Bbox: NewBbox(x1, y1, x2, y2), Text: "x"}},
		Bbox:  NewBbox(x1, y1, x2, y2),
	}
}

func TestBuildBlocks_Empty(t *testing.T) {
	if b := buildBlocks(nil); b != nil {
		t.Errorf("buildBlocks(nil) = %v, want nil", b)
	}
}

func TestBuildBlocks_ConsecutiveParagraphLinesMerge(t *testing.T) {
	lines := []Line{
		mkLine(0, 0, 100, 10),
		mkLine(0, 10, 100, 20),
		mkLine(0, 20, 100, 30),
	}
	blocks := buildBlocks(lines)
	if len(blocks) != 1 {
		t.Fatalf("len(blocks) = %d, want 1, got %+v", len(blocks), blocks)
	}
	if len(blocks[0].Lines) != 3 {
		t.Errorf("len(blocks[0].Lines) = %d, want 3", len(blocks[0].Lines))
	}
}

func TestBuildBlocks_LargeGapSplits(t *testing.T) {
	lines := []Line{
		mkLine(0, 0, 100, 10),
		mkLine(0, 10, 100, 20),
		mkLine(0, 400, 100, 410),
	}
	blocks := buildBlocks(lines)
	if len(blocks) < 2 {
		t.Fatalf("len(blocks) = %d, want >= 2 for a large vertical gap", len(blocks))
	}
}

func TestCoalesceOverlappingBlocks(t *testing.T) {
	blocks := []Block{
		{Bbox: NewBbox(0, 0, 10, 10), Lines: []Line{mkLine(0, 0, 10, 10)}},
		{Bbox: NewBbox(5, 5, 15, 15), Lines: []Line{mkLine(5, 5, 15, 15)}},
	}
	merged := coalesceOverlappingBlocks(blocks)
	if len(merged) != 1 {
		t.Fatalf("len(merged) = %d, want 1", len(merged))
	}
	if len(merged[0].Lines) != 2 {
		t.Errorf("len(merged[0].Lines) = %d, want 2", len(merged[0].Lines))
	}
}

func TestMedian(t *testing.T) {
	if v := median(nil); v != 0 {
		t.Errorf("median(nil) = %v, want 0", v)
	}
	if v := median([]float64{1, 2, 3}); v != 2 {
		t.Errorf("median([1,2,3]) = %v, want 2", v)
	}
	if v := median([]float64{1, 2, 3, 4}); v != 2.5 {
		t.Errorf("median([1,2,3,4]) = %v, want 2.5", v)
	}
}
