package pdf

import (
	"math"
	"strings"
	"unicode"
)

// ScriptThresholds gate assignScripts' superscript/subscript labeling, run
// after lines are fully assembled (as opposed to isSuperscriptSplit in
// spans.go, which fires during span grouping itself).
type ScriptThresholds struct {
	// HeightThreshold (τ_sh) is the max ratio of a candidate span's height to
	// a neighbour's (or the line's) height for that neighbour to still count
	// as full-height text rather than a taller glyph run.
	HeightThreshold float64
	// LineDistanceThreshold (τ_ld) is the fraction of a span's own height it
	// must clear another span's edge by to count as genuinely above/below it.
	LineDistanceThreshold float64
}

// DefaultScriptThresholds matches spec.md §4.F / the reference extractor's
// assign_scripts defaults.
var DefaultScriptThresholds = ScriptThresholds{HeightThreshold: 0.8, LineDistanceThreshold: 0.1}

// assignScripts labels spans in a line as Superscript or Subscript by
// comparing each span with the other spans on its line: its height with its
// immediate neighbours' heights and the line's height, and its top/bottom
// edges with every other span's. Its edges are never compared with the
// line's own bbox edges (the union of its spans' bboxes, so such a test
// could never fire). Implements component F.
func assignScripts(lines []Line, th ScriptThresholds) {
	for li := range lines {
		line := &lines[li]
		spans := line.Spans
		if len(spans) < 2 {
			continue
		}
		// Skip vertical lines; the scripted-text heuristic only makes sense
		// for horizontal reading order.
		if line.Bbox.Height() > line.Bbox.Width() {
			continue
		}

		for i := range spans {
			span := &spans[i]

			isFirst := i == 0 || strings.TrimSpace(spans[i-1].Text) == ""
			isLast := i == len(spans)-1 || strings.TrimSpace(spans[i+1].Text) == ""

			spanHeight := span.Bbox.Height()
			spanTop := span.Bbox.YMin
			spanBottom := span.Bbox.YMax

			lineFullheight := spanHeight/math.Max(1, line.Bbox.Height()) <= th.HeightThreshold
			nextFullheight := isLast || spanHeight/math.Max(1, spans[i+1].Bbox.Height()) <= th.HeightThreshold
			prevFullheight := isFirst || spanHeight/math.Max(1, spans[i-1].Bbox.Height()) <= th.HeightThreshold

			var above, below bool
			for j := range spans {
				if j == i {
					continue
				}
				s := spans[j]
				if spanTop < s.Bbox.YMin-s.Bbox.Height()*th.LineDistanceThreshold {
					above = true
				}
				if spanBottom > s.Bbox.YMax+s.Bbox.Height()*th.LineDistanceThreshold {
					below = true
				}
			}

			prevAbove := isFirst || spanTop < spans[i-1].Bbox.YMin
			nextAbove := isLast || spanTop < spans[i+1].Bbox.YMin
			prevBelow := isFirst || spanBottom > spans[i-1].Bbox.YMax
			nextBelow := isLast || spanBottom > spans[i+1].Bbox.YMax

			text := strings.TrimSpace(span.Text)
			textOkay := (len([]rune(text)) == 1 || isDigitString(text)) && (isAlnumString(text) || isMathSymbolSpan(text))

			switch {
			case (prevFullheight || nextFullheight) && (prevAbove || nextAbove) && above && lineFullheight && textOkay:
				span.Superscript = true
			case (prevFullheight || nextFullheight) && (prevBelow || nextBelow) && below && lineFullheight && textOkay:
				span.Subscript = true
			}
		}
	}
}

// isMathSymbolSpan reports whether every rune in the span's text belongs to
// Unicode general category Sm (Symbol, math), mirroring the reference
// extractor's use of unicodedata.category(char) == "Sm" to avoid
// mislabeling math operators as scripts.
func isMathSymbolSpan(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !unicode.Is(unicode.Sm, r) {
			return false
		}
	}
	return true
}

// isDigitString reports whether s is non-empty and every rune is a digit.
func isDigitString(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isAlnumString reports whether s is non-empty and every rune is a letter
// or a digit, mirroring Python's str.isalnum() for the common case.
func isAlnumString(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
