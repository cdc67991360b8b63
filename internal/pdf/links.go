package pdf

import (
	"sort"

	"pdftext/internal/extractor"
)

// getLinks reads the page's link annotations and resolves each to either an
// intra-document Reference (GoTo actions and explicit /Dest entries) or an
// external URL (URI actions). Rects are normalized into the same top-left,
// rotation-applied coordinate space as character bboxes. Implements the
// link-reading half of component G.
func getLinks(p extractor.Page, geom pageGeometry, refs *PageReference) ([]Link, error) {
	annots, err := p.Annotations()
	if err != nil {
		return nil, NewError(ErrExtractorError, "read annotations failed", err)
	}

	var links []Link
	for _, a := range annots {
		if a.Sub != extractor.AnnotationLink {
			continue
		}
		bbox, err := normalizeCharBbox(a.Rect, geom)
		if err != nil {
			return nil, err
		}

		link := Link{Bbox: bbox}
		switch a.Kind {
		case extractor.ActionURI:
			link.URL = a.URI
		case extractor.ActionGoTo:
			if a.Dest != nil {
				dp := a.Dest.PageIndex
				link.DestPage = &dp
				var coord [2]float64
				if a.Dest.HasPos {
					coord = [2]float64{a.Dest.X, a.Dest.Y}
				}
				link.DestPos = &coord
				ref := refs.Add(dp, coord)
				link.URL = ref.URL()
			}
		default:
			continue
		}
		if link.URL == "" && link.DestPage == nil {
			continue
		}
		links = append(links, link)
	}
	return links, nil
}

// mergeLinks coalesces link rects that overlap by more than 50% of the
// smaller rect's area, keeping the first-seen URL. Reference extractors
// sometimes emit duplicate/adjacent annotations for a single hyperlink
// rendered across a line break.
func mergeLinks(links []Link) []Link {
	if len(links) <= 1 {
		return links
	}
	used := make([]bool, len(links))
	var merged []Link
	for i := range links {
		if used[i] {
			continue
		}
		cur := links[i]
		used[i] = true
		for j := i + 1; j < len(links); j++ {
			if used[j] {
				continue
			}
			other := links[j]
			smaller := cur.Bbox.Area()
			if other.Bbox.Area() < smaller {
				smaller = other.Bbox.Area()
			}
			if smaller <= 0 {
				continue
			}
			if cur.Bbox.IntersectionArea(other.Bbox)/smaller > 0.5 {
				cur.Bbox = cur.Bbox.Merge(other.Bbox)
				used[j] = true
			}
		}
		merged = append(merged, cur)
	}
	return merged
}

// matrixIntersectionArea returns, for every (link, span) pair, the raw
// intersection area between the link rect and the span rect (not a
// fraction of either area). Spec.md §4.G step 3 picks each link's span by
// an unconditional argmax over this matrix, so the values must stay
// comparable across spans of different sizes rather than normalized.
func matrixIntersectionArea(links []Link, spans []Span) [][]float64 {
	m := make([][]float64, len(links))
	for i, l := range links {
		m[i] = make([]float64, len(spans))
		for j, s := range spans {
			m[i][j] = l.Bbox.IntersectionArea(s.Bbox)
		}
	}
	return m
}

// buildSpanLinkMap attaches every link to the single span with maximum
// intersection area against it (spec.md §4.G step 3). Links with zero
// intersection against every span are dropped. spans must be the full,
// page-order-flattened span list so link attachment isn't biased toward
// whichever line happens to be processed first.
func buildSpanLinkMap(links []Link, spans []Span) map[int][]Link {
	if len(links) == 0 || len(spans) == 0 {
		return nil
	}
	matrix := matrixIntersectionArea(links, spans)

	m := make(map[int][]Link)
	for li, row := range matrix {
		best := -1
		bestArea := 0.0
		for si, area := range row {
			if area > bestArea {
				bestArea = area
				best = si
			}
		}
		if best < 0 {
			continue
		}
		m[best] = append(m[best], links[li])
	}
	return m
}

// reconstructSpans splits every span with attached links (per
// buildSpanLinkMap) into runs of characters by which link wins each
// character, leaving spans with no attached links untouched. Implements
// the span-splitting half of component G.
func reconstructSpans(spans []Span, spanLinks map[int][]Link) []Span {
	if len(spanLinks) == 0 {
		return spans
	}

	out := make([]Span, 0, len(spans))
	for i, span := range spans {
		if links, ok := spanLinks[i]; ok {
			out = append(out, splitSpanByLinks(span, links)...)
		} else {
			out = append(out, span)
		}
	}
	return out
}

// splitSpanByLinks breaks span into runs of characters by which link (if
// any) has the largest intersection area with each character's bbox
// (spec.md §4.G step 4). Characters with zero-area bboxes (zero-width
// glyphs) are tested via NewBboxNonZeroArea so they can still register an
// intersection.
func splitSpanByLinks(span Span, links []Link) []Span {
	if len(span.Chars) == 0 {
		return []Span{span}
	}

	urlFor := func(c Character) string {
		charBox := c.Bbox
		if charBox.Area() <= 0 {
			charBox = NewBboxNonZeroArea(charBox.XMin, charBox.YMin, charBox.XMax, charBox.YMax)
		}
		bestURL := ""
		bestArea := 0.0
		for _, l := range links {
			area := l.Bbox.IntersectionArea(charBox)
			if area > bestArea {
				bestArea = area
				bestURL = l.URL
			}
		}
		return bestURL
	}

	var out []Span
	var cur *Span
	var curURL string
	for _, c := range span.Chars {
		url := urlFor(c)
		if cur == nil || url != curURL {
			if cur != nil {
				out = append(out, *cur)
			}
			s := newSpan(c)
			s.Rotation = span.Rotation
			s.Font = span.Font
			s.URL = url
			cur = &s
			curURL = url
			continue
		}
		appendCharToSpan(cur, c)
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

// addLinksAndRefs wires resolved links into a page's spans (splitting spans
// across link boundaries as needed) and attaches the page's reference
// registry. Link attachment runs once over the page's full, flattened span
// list (not per line) so a link's best-matching span is found regardless of
// which line it falls on. When disableLinks is set, no link overlay or
// reference resolution runs and the page carries no URLs or refs.
// Implements component G end to end.
func addLinksAndRefs(page *Page, p extractor.Page, geom pageGeometry, refs *PageReference, disableLinks bool) error {
	if disableLinks {
		page.Refs = nil
		return nil
	}

	links, err := getLinks(p, geom, refs)
	if err != nil {
		return err
	}
	links = mergeLinks(links)

	if len(links) > 0 {
		var flat []Span
		for bi := range page.Blocks {
			for li := range page.Blocks[bi].Lines {
				flat = append(flat, page.Blocks[bi].Lines[li].Spans...)
			}
		}
		spanLinks := buildSpanLinkMap(links, flat)
		if len(spanLinks) > 0 {
			idx := 0
			for bi := range page.Blocks {
				block := &page.Blocks[bi]
				for li := range block.Lines {
					line := &block.Lines[li]
					n := len(line.Spans)
					sub := make(map[int][]Link, len(spanLinks))
					for k := 0; k < n; k++ {
						if ls, ok := spanLinks[idx+k]; ok {
							sub[k] = ls
						}
					}
					line.Spans = reconstructSpans(line.Spans, sub)
					idx += n
				}
			}
		}
	}

	page.Refs = refs.Refs(page.Page)
	sort.Slice(page.Refs, func(i, j int) bool { return page.Refs[i].Idx < page.Refs[j].Idx })
	return nil
}
