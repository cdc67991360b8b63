package pdf

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// ligatures maps common typographic ligatures to their expanded ASCII/latin
// form, applied during text rendering so downstream consumers never see a
// single-codepoint ligature glyph. Implements part of component H.
var ligatures = map[rune]string{
	'ﬀ': "ff",
	'ﬁ': "fi",
	'ﬂ': "fl",
	'ﬃ': "ffi",
	'ﬄ': "ffl",
	'ﬅ': "st",
	'ﬆ': "st",
}

// RenderOptions controls text rendering (component H).
type RenderOptions struct {
	// Tolerance (τ) is the bucket width used by sortBlocks's reading-order
	// sort: blocks whose y_min rounds to the same τ-sized bucket are
	// treated as being on the same visual row.
	Tolerance float64
}

// DefaultRenderOptions matches spec.md §4.H's tolerance of 1.25.
var DefaultRenderOptions = RenderOptions{Tolerance: 1.25}

// bucketSortByBbox buckets items by round(bboxOf(item).YMin/tolerance)*tolerance,
// sorts each bucket by XMin, and flattens buckets in ascending key order. This
// is the literal reading-order heuristic spec.md §4.H (blocks) and §4.J
// (table cells) both specify.
func bucketSortByBbox[T any](items []T, tolerance float64, bboxOf func(T) Bbox) []T {
	if len(items) <= 1 {
		return items
	}
	if tolerance <= 0 {
		tolerance = 1
	}

	buckets := make(map[float64][]T)
	var keys []float64
	for _, it := range items {
		key := math.Round(bboxOf(it).YMin/tolerance) * tolerance
		if _, ok := buckets[key]; !ok {
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], it)
	}
	sort.Float64s(keys)

	out := make([]T, 0, len(items))
	for _, k := range keys {
		group := buckets[k]
		sort.SliceStable(group, func(i, j int) bool {
			return bboxOf(group[i]).XMin < bboxOf(group[j]).XMin
		})
		out = append(out, group...)
	}
	return out
}

// sortBlocks orders blocks into reading order using the fixed-tolerance
// bucket sort required by spec.md §4.H step 1.
func sortBlocks(blocks []Block, tolerance float64) []Block {
	return bucketSortByBbox(blocks, tolerance, func(b Block) Bbox { return b.Bbox })
}

// RenderPage renders a page's blocks into a single reading-order string,
// implementing merge(page, sort, hyphens) from spec.md §4.H. When sort is
// true, blocks are first reordered via sortBlocks; when keepHyphens is
// false, soft-hyphenated line breaks are resolved by joining the split
// word instead of keeping the literal hyphen.
func RenderPage(page Page, opts RenderOptions, sort bool, keepHyphens bool) string {
	blocks := page.Blocks
	if sort {
		blocks = sortBlocks(blocks, opts.Tolerance)
	}

	var sb strings.Builder
	for _, b := range blocks {
		var blockText strings.Builder
		for _, l := range b.Lines {
			lineText := postprocessText(renderLineRaw(l))
			blockText.WriteString(strings.TrimRight(lineText, " \t\n\r\f"))
			blockText.WriteByte('\n')
		}
		sb.WriteString(strings.TrimRight(blockText.String(), " \t\n\r\f"))
		sb.WriteString("\n\n")
	}
	return handleHyphens(sb.String(), keepHyphens)
}

// renderLineRaw concatenates a line's span texts without any postprocessing;
// postprocessText operates over the whole line so multi-codepoint sequences
// (e.g. "\r\n" split across a span boundary) normalise correctly.
func renderLineRaw(l Line) string {
	var sb strings.Builder
	for _, s := range l.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// postprocessText replaces "\r\n" with "\n", expands ligatures and strips
// non-whitespace control characters (see isStrippedControl) while
// preserving the hyphenation sentinel, which is resolved later by
// handleHyphens.
func postprocessText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var sb strings.Builder
	for _, r := range s {
		if r == hyphenSentinel {
			sb.WriteRune(r)
			continue
		}
		if expansion, ok := ligatures[r]; ok {
			sb.WriteString(expansion)
			continue
		}
		if isStrippedControl(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// isStrippedControl reports whether r is a control character that should be
// dropped from rendered output: any rune in Unicode category Cc, Cf, Co or
// Cs, except the whitespace controls tab/newline/carriage-return.
// Unassigned code points (Cn) are kept.
func isStrippedControl(r rune) bool {
	switch r {
	case '\t', '\n', '\r':
		return false
	}
	return unicode.IsControl(r) || unicode.Is(unicode.Co, r) || unicode.Is(unicode.Cf, r) || unicode.Is(unicode.Cs, r)
}

// handleHyphens resolves the hyphenation sentinel inserted at span-join time
// for words split across a line break, implementing spec.md §4.H step 4
// exactly: if keepHyphens, every sentinel becomes a literal "-\n". Otherwise
// the sentinel (and any line-break characters immediately following it) is
// swallowed; if the next real character is a space, that space becomes the
// line break and the hyphen is dropped entirely; otherwise the hyphen is
// simply dropped and the word joins across the break.
func handleHyphens(s string, keepHyphens bool) string {
	if keepHyphens {
		return strings.ReplaceAll(s, string(hyphenSentinel), "-\n")
	}

	var sb strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != hyphenSentinel {
			sb.WriteRune(r)
			continue
		}
		j := i + 1
		for j < len(runes) && (runes[j] == '\n' || runes[j] == '\r') {
			j++
		}
		if j < len(runes) && runes[j] == ' ' {
			sb.WriteRune('\n')
			i = j
			continue
		}
		i = j - 1
	}
	return sb.String()
}
