package pdf

import (
	"math"
	"sort"
	"strings"
)

// minGapSample is the floor original_source/pdftext/tables.py restores for
// the dynamic gap threshold: at or below this many character-gap samples, the
// 80th-percentile estimate is too noisy to trust, so the caller-supplied
// default threshold is used instead.
const minGapSample = 100

// dynamicGapThresh returns the 80th percentile of signed, per-axis
// normalised consecutive intra-span character gaps across the whole page,
// rotation-aware, falling back to fallback when no more than minGapSample
// samples are available. Implements part of component J.
func dynamicGapThresh(page Page, imgWidth, imgHeight, fallback float64) float64 {
	var gaps []float64
	for _, block := range page.Blocks {
		for _, line := range block.Lines {
			for _, span := range line.Spans {
				for i := 1; i < len(span.Chars); i++ {
					c1, c2 := span.Chars[i-1], span.Chars[i]
					switch page.Rotation {
					case 90:
						gaps = append(gaps, (c2.Bbox.XMin-c1.Bbox.XMax)/imgWidth)
					case 180:
						gaps = append(gaps, (c2.Bbox.YMin-c1.Bbox.YMax)/imgHeight)
					case 270:
						gaps = append(gaps, (c1.Bbox.XMin-c2.Bbox.XMax)/imgWidth)
					default:
						gaps = append(gaps, (c1.Bbox.YMin-c2.Bbox.YMax)/imgHeight)
					}
				}
			}
		}
	}
	if len(gaps) <= minGapSample {
		return fallback
	}
	sort.Float64s(gaps)
	return percentile(gaps, 80)
}

// percentile returns the p-th percentile of an ascending-sorted slice using
// linear interpolation between closest ranks, matching numpy.percentile's
// default method.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	idx := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// normalizedDiff reports whether (a-b), normalised by imgDim and optionally
// made absolute, is smaller than spaceThresh*mult.
func normalizedDiff(a, b, imgDim, spaceThresh, mult float64, useAbs bool) bool {
	d := a - b
	if useAbs {
		d = math.Abs(d)
	}
	return d/imgDim < spaceThresh*mult
}

// isSameSpan decides whether two consecutive, img_size-rescaled character
// bboxes belong to the same table-cell run. Each rotation branch is ported
// literally from original_source/pdftext/tables.py's is_same_span,
// including its apparent quirk: every branch's third condition normalises
// by the image height (dimension 1) except the 90-degree branch, which
// normalises by image width (dimension 0).
func isSameSpan(bbox, currBox Bbox, imgWidth, imgHeight, spaceThresh float64, rotation int) bool {
	switch rotation {
	case 90:
		return normalizedDiff(bbox.XMin, currBox.XMin, imgWidth, spaceThresh, 1, false) &&
			normalizedDiff(bbox.YMin, currBox.YMax, imgHeight, spaceThresh, 1, true) &&
			normalizedDiff(bbox.XMin, currBox.XMin, imgWidth, spaceThresh, 5, true)
	case 180:
		return normalizedDiff(bbox.XMax, currBox.XMin, imgWidth, spaceThresh, 1, false) &&
			normalizedDiff(bbox.YMin, currBox.YMin, imgHeight, spaceThresh, 1, true) &&
			normalizedDiff(bbox.XMax, currBox.XMin, imgHeight, spaceThresh, 5, true)
	case 270:
		return normalizedDiff(bbox.XMin, currBox.XMin, imgWidth, spaceThresh, 1, false) &&
			normalizedDiff(bbox.YMax, currBox.YMin, imgHeight, spaceThresh, 1, true) &&
			normalizedDiff(bbox.XMin, currBox.XMin, imgHeight, spaceThresh, 5, true)
	default:
		return normalizedDiff(bbox.XMin, currBox.XMax, imgWidth, spaceThresh, 1, false) &&
			normalizedDiff(bbox.YMin, currBox.YMin, imgHeight, spaceThresh, 1, true) &&
			normalizedDiff(bbox.XMin, currBox.XMax, imgHeight, spaceThresh, 5, true)
	}
}

// TableCell is one chunk of text recovered from inside a table bounding
// box: a run of characters treated as belonging to the same logical cell,
// with its bbox translated into table-local coordinates.
type TableCell struct {
	Text string
	Bbox Bbox
}

// tableCellText partitions the characters of page lines that substantially
// overlap tableBox into per-cell text runs. Only lines whose img_size-
// rescaled bbox covers at least tableThresh of their own area inside
// tableBox are considered; characters are then re-chunked with isSameSpan
// using gapThresh (the caller-computed, page-wide dynamic gap threshold).
// Cell bboxes are translated into table-local coordinates and returned in
// reading order. Implements component J.
func tableCellText(tableBox Bbox, page Page, imgWidth, imgHeight, tableThresh, gapThresh float64) []TableCell {
	pageWidth, pageHeight := float64(page.Width), float64(page.Height)
	rotation := page.Rotation

	var cells []TableCell
	for _, block := range page.Blocks {
		for _, line := range block.Lines {
			lineBox := line.Bbox.Rescale(imgWidth, imgHeight, pageWidth, pageHeight)
			if lineBox.IntersectionPct(tableBox) < tableThresh {
				continue
			}

			var curText strings.Builder
			var curBox Bbox
			hasCur := false

			flush := func() {
				if hasCur && strings.TrimSpace(curText.String()) != "" {
					cells = append(cells, TableCell{Text: curText.String(), Bbox: curBox})
				}
			}

			for _, span := range line.Spans {
				for _, c := range span.Chars {
					bbox := c.Bbox.Rescale(imgWidth, imgHeight, pageWidth, pageHeight)
					switch {
					case !hasCur:
						curText.Reset()
						curText.WriteRune(c.Unicode)
						curBox = bbox
						hasCur = true
					case isSameSpan(bbox, curBox, imgWidth, imgHeight, gapThresh, rotation):
						curText.WriteRune(c.Unicode)
						curBox = curBox.Merge(bbox)
					default:
						flush()
						curText.Reset()
						curText.WriteRune(c.Unicode)
						curBox = bbox
					}
				}
			}
			flush()
		}
	}

	for i := range cells {
		b := cells[i].Bbox
		cells[i].Bbox = NewBbox(b.XMin-tableBox.XMin, b.YMin-tableBox.YMin, b.XMax-tableBox.XMin, b.YMax-tableBox.YMin)
	}

	return bucketSortByBbox(cells, DefaultRenderOptions.Tolerance, func(c TableCell) Bbox { return c.Bbox })
}
