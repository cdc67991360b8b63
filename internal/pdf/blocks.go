package pdf

import "sort"

// buildBlocks groups lines into blocks in two stages: a greedy pass using
// dynamic x/y tolerances derived from the page's own line-spacing medians,
// followed by an overlap-coalesce pass that merges any blocks left
// overlapping by the first pass (e.g. from out-of-order glyph streams).
// Implements component E.
func buildBlocks(lines []Line) []Block {
	if len(lines) == 0 {
		return nil
	}

	allowedX, allowedY := blockTolerances(lines)

	var blocks []Block
	for _, line := range lines {
		if len(blocks) == 0 {
			blocks = append(blocks, Block{Lines: []Line{line}, Bbox: line.Bbox})
			continue
		}

		block := &blocks[len(blocks)-1]
		last := block.Lines[len(block.Lines)-1]

		dx := absF(line.Bbox.CenterX() - last.Bbox.CenterX())
		dy := absF(line.Bbox.CenterY() - last.Bbox.CenterY())

		merge := func() {
			block.Lines = append(block.Lines, line)
			block.Bbox = block.Bbox.Merge(line.Bbox)
		}

		switch {
		case dx <= allowedX && dy <= allowedY:
			merge()
		case len(block.Lines) == 1 && last.Bbox.XMin > line.Bbox.XMin && dy <= allowedY:
			// First line of the block is indented relative to this one.
			merge()
		case last.Bbox.XMax > line.Bbox.XMax && dy <= allowedY:
			// Previous (ragged) line extends further right than this one.
			merge()
		case dy < allowedY*0.2 && last.Bbox.XMax > line.Bbox.XMin:
			// Inline continuation, e.g. inline math between text spans.
			merge()
		case block.Bbox.IntersectionPct(line.Bbox) > 0:
			merge()
		default:
			blocks = append(blocks, Block{Lines: []Line{line}, Bbox: line.Bbox})
		}
	}

	return coalesceOverlappingBlocks(blocks)
}

// blockTolerances computes Gx = 1.5*median(Δx), Gy = 1.5*median(Δy) over
// consecutive line-center gaps, falling back to 0.1 when undefined.
func blockTolerances(lines []Line) (gx, gy float64) {
	var xDiffs, yDiffs []float64
	for i := 0; i < len(lines)-1; i++ {
		a := lines[i].Bbox
		b := lines[i+1].Bbox
		xDiffs = append(xDiffs, absF(b.CenterX()-a.CenterX()))
		yDiffs = append(yDiffs, absF(b.CenterY()-a.CenterY()))
	}
	mx := median(xDiffs)
	if mx == 0 {
		mx = 0.1
	}
	my := median(yDiffs)
	if my == 0 {
		my = 0.1
	}
	return 1.5 * mx, 1.5 * my
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// coalesceOverlappingBlocks walks blocks in order, merging any block that
// overlaps the previous one by any positive area.
func coalesceOverlappingBlocks(blocks []Block) []Block {
	var merged []Block
	for _, b := range blocks {
		if len(merged) == 0 {
			merged = append(merged, b)
			continue
		}
		prev := &merged[len(merged)-1]
		if prev.Bbox.IntersectionPct(b.Bbox) > 0 {
			prev.Lines = append(prev.Lines, b.Lines...)
			prev.Bbox = prev.Bbox.Merge(b.Bbox)
			continue
		}
		merged = append(merged, b)
	}
	return merged
}
