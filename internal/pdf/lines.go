package pdf

import "strings"

// buildLines groups spans into lines with a single greedy pass. A new line
// starts when the previous span ends in a hard linebreak or hyphenation
// sentinel, rotation changes, or the next span's top sits below the
// current line's bottom (a vertical gap the extractor didn't mark with a
// linebreak). Implements component D.
func buildLines(spans []Span) []Line {
	var lines []Line

	for _, s := range spans {
		if len(lines) > 0 {
			cur := &lines[len(lines)-1]
			last := cur.Spans[len(cur.Spans)-1]
			forcedBreak := strings.HasSuffix(last.Text, "\n") || strings.HasSuffix(last.Text, string(hyphenSentinel))
			if !forcedBreak && s.Rotation == cur.Rotation && s.Bbox.YMin <= cur.Bbox.YMax {
				cur.Spans = append(cur.Spans, s)
				cur.Bbox = cur.Bbox.Merge(s.Bbox)
				continue
			}
		}
		lines = append(lines, Line{Spans: []Span{s}, Bbox: s.Bbox, Rotation: s.Rotation})
	}
	return lines
}
