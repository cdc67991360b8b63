package pdf

// SpanThresholds are the superscript-split tolerances used while grouping
// characters into spans (component C). τ_ld gates how far above the span a
// character must sit; τ_sh gates how short the character's own box must be
// relative to the span for the split to be treated as a script shift rather
// than a line continuation.
type SpanThresholds struct {
	LineDistance float64 // τ_ld, default 0.1
	ShortHeight  float64 // τ_sh, default 0.8
}

// DefaultSpanThresholds matches spec.md §4.C.
var DefaultSpanThresholds = SpanThresholds{LineDistance: 0.1, ShortHeight: 0.8}

const hyphenSentinel = '\x02'

// buildSpans groups characters into spans with a single greedy pass. A new
// span starts whenever font, rotation, hyphenation-sentinel termination, or
// the superscript-split heuristic fires against the current span's last
// character. Implements component C.
func buildSpans(chars []Character, th SpanThresholds) []Span {
	var spans []Span

	for _, c := range chars {
		if len(spans) > 0 {
			cur := &spans[len(spans)-1]
			if sameFont(cur.Font, c.Font) &&
				cur.Rotation == c.Rotation &&
				!endsWithRune(cur.Text, hyphenSentinel) &&
				!isSuperscriptSplit(*cur, c, th) {
				appendCharToSpan(cur, c)
				continue
			}
		}
		spans = append(spans, newSpan(c))
	}
	return spans
}

func newSpan(c Character) Span {
	return Span{
		Chars:        []Character{c},
		Bbox:         c.Bbox,
		Text:         string(c.Unicode),
		Rotation:     c.Rotation,
		Font:         c.Font,
		CharStartIdx: c.CharIdx,
		CharEndIdx:   c.CharIdx,
		URL:          "",
	}
}

func appendCharToSpan(s *Span, c Character) {
	s.Chars = append(s.Chars, c)
	s.Text += string(c.Unicode)
	s.CharEndIdx = c.CharIdx
	s.Bbox = s.Bbox.Merge(c.Bbox)
}

func sameFont(a, b Font) bool {
	return a.Name == b.Name && a.Flags == b.Flags && a.Size == b.Size && a.Weight == b.Weight
}

func endsWithRune(s string, r rune) bool {
	if s == "" {
		return false
	}
	runes := []rune(s)
	return runes[len(runes)-1] == r
}

// isSuperscriptSplit reports whether c lies clearly above and to the right
// of span — the geometric signal that c starts a superscript run rather
// than continuing the current span.
func isSuperscriptSplit(span Span, c Character, th SpanThresholds) bool {
	aboveSpan := c.Bbox.YMin < span.Bbox.YMin-span.Bbox.Height()*th.LineDistance
	shortChar := c.Bbox.YMax < span.Bbox.Height()*th.ShortHeight+span.Bbox.YMin
	rightOfSpan := c.Bbox.XMin > span.Bbox.XMax
	return aboveSpan && shortChar && rightOfSpan
}
