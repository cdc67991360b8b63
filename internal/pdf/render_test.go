package pdf

import "testing"

func TestPostprocessText_ExpandsLigatures(t *testing.T) {
	if got := postprocessText("ﬁle"); got != "file" {
		t.Errorf("postprocessText(ﬁle) = %q, want %q", got, "file")
	}
}

func TestPostprocessText_StripsControlChars(t *testing.T) {
	got := postprocessText("a\x00b\x1fc")
	if got != "abc" {
		t.Errorf("postprocessText with control chars = %q, want %q", got, "abc")
	}
}

func TestPostprocessText_PreservesWhitespace(t *testing.T) {
	got := postprocessText("a\tb\nc")
	if got != "a\tb\nc" {
		t.Errorf("postprocessText should preserve tab/newline, got %q", got)
	}
}

func TestPostprocessText_PreservesHyphenSentinel(t *testing.T) {
	s := "exam" + string(hyphenSentinel)
	if got := postprocessText(s); got != s {
		t.Errorf("postprocessText should preserve hyphen sentinel, got %q", got)
	}
}

func TestHandleHyphens_JoinsAcrossBreak(t *testing.T) {
	// No case-sensitivity rule: any non-space character following the
	// sentinel (after swallowing the line break it forced) just continues
	// the word. The sentinel stands in for the hyphen itself, so no literal
	// "-" follows it in the rendered text.
	s := "exam" + string(hyphenSentinel) + "\nple word"
	got := handleHyphens(s, false)
	if got != "example word" {
		t.Errorf("handleHyphens() = %q, want %q", got, "example word")
	}

	s2 := "Non" + string(hyphenSentinel) + "\nEuclidean"
	got2 := handleHyphens(s2, false)
	if got2 != "NonEuclidean" {
		t.Errorf("handleHyphens() = %q, want %q", got2, "NonEuclidean")
	}
}

func TestHandleHyphens_SpaceTerminatesJoin(t *testing.T) {
	s := "end" + string(hyphenSentinel) + "\n of sentence"
	got := handleHyphens(s, false)
	want := "end\nof sentence"
	if got != want {
		t.Errorf("handleHyphens() = %q, want %q", got, want)
	}
}

func TestHandleHyphens_KeepHyphensReplacesSentinelLiterally(t *testing.T) {
	s := "exam" + string(hyphenSentinel) + "ple"
	got := handleHyphens(s, true)
	want := "exam-\nple"
	if got != want {
		t.Errorf("handleHyphens() = %q, want %q", got, want)
	}
}

func TestSortBlocks_OrdersByRowThenColumn(t *testing.T) {
	blocks := []Block{
		{Bbox: NewBbox(100, 0, 200, 10), Lines: []Line{mkLine(100, 0, 200, 10)}},
		{Bbox: NewBbox(0, 0, 90, 10), Lines: []Line{mkLine(0, 0, 90, 10)}},
		{Bbox: NewBbox(0, 100, 90, 110), Lines: []Line{mkLine(0, 100, 90, 110)}},
	}
	sorted := sortBlocks(blocks, DefaultRenderOptions.Tolerance)
	if sorted[0].Bbox.XMin != 0 || sorted[0].Bbox.YMin != 0 {
		t.Errorf("first block should be top-left, got %+v", sorted[0].Bbox)
	}
	if sorted[2].Bbox.YMin != 100 {
		t.Errorf("last block should be the one on the next row, got %+v", sorted[2].Bbox)
	}
}

func TestRenderPage_JoinsBlocksAndLines(t *testing.T) {
	page := Page{
		Blocks: []Block{
			{
				Bbox: NewBbox(0, 0, 100, 20),
				Lines: []Line{
					{Bbox: NewBbox(0, 0, 100, 10), Spans: []Span{{Text: "line one"}}},
					{Bbox: NewBbox(0, 10, 100, 20), Spans: []Span{{Text: "line two"}}},
				},
			},
			{
				Bbox:  NewBbox(0, 100, 100, 110),
				Lines: []Line{{Bbox: NewBbox(0, 100, 100, 110), Spans: []Span{{Text: "next block"}}}},
			},
		},
	}
	got := RenderPage(page, DefaultRenderOptions, false, true)
	want := "line one\nline two\n\nnext block\n\n"
	if got != want {
		t.Errorf("RenderPage() = %q, want %q", got, want)
	}
}

func TestRenderPage_SortReordersBlocks(t *testing.T) {
	page := Page{
		Blocks: []Block{
			{
				Bbox:  NewBbox(50, 0, 100, 10),
				Lines: []Line{{Bbox: NewBbox(50, 0, 100, 10), Spans: []Span{{Text: "second"}}}},
			},
			{
				Bbox:  NewBbox(0, 0, 40, 10),
				Lines: []Line{{Bbox: NewBbox(0, 0, 40, 10), Spans: []Span{{Text: "first"}}}},
			},
		},
	}
	got := RenderPage(page, DefaultRenderOptions, true, true)
	want := "first\n\nsecond\n\n"
	if got != want {
		t.Errorf("RenderPage() with sort=true = %q, want %q", got, want)
	}
}
