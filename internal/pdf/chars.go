package pdf

import (
	"math"
	"strings"

	"pdftext/internal/extractor"
)

// IngestOptions controls character ingestion (component B).
type IngestOptions struct {
	// QuoteLoosebox disables the loose-box exception for the "'" glyph.
	// See ingestChars for the exact rule.
	QuoteLoosebox bool
	// FlattenPDF bakes annotations/form fields into page content before
	// reading characters.
	FlattenPDF bool
	// Deduplicate runs the overprinted-glyph word deduplication pass.
	Deduplicate bool
}

// pageGeometry is the page geometry computed once per page: the media box,
// width/height of the unrotated media box (the page size Bbox.Rotate
// expects), and the rotation itself.
type pageGeometry struct {
	mediaBox      [4]float64
	width, height float64
	rotation      int
}

func computePageGeometry(p extractor.Page) pageGeometry {
	mb := p.MediaBox()
	width := math.Ceil(math.Abs(mb[2] - mb[0]))
	height := math.Ceil(math.Abs(mb[1] - mb[3]))
	rot := p.Rotation()
	return pageGeometry{mediaBox: mb, width: width, height: height, rotation: rot}
}

// ingestChars reads every character on page, normalizes its geometry into
// top-left-origin, rotation-applied page coordinates, and returns them in
// native index order. It implements component B.
func ingestChars(p extractor.Page, opts IngestOptions) ([]Character, pageGeometry, error) {
	if opts.FlattenPDF {
		if err := p.Flatten(); err != nil {
			return nil, pageGeometry{}, NewError(ErrExtractorError, "flatten failed", err)
		}
	}

	geom := computePageGeometry(p)
	n := p.CharCount()
	chars := make([]Character, 0, n)

	for i := 0; i < n; i++ {
		ci, err := p.Char(i)
		if err != nil {
			return nil, pageGeometry{}, NewError(ErrExtractorError, "read character failed", err)
		}

		rotationDeg := ci.RotationRad * 180 / math.Pi

		// The loose box overstates width for the "'" glyph in some
		// extractors; avoid it unless the caller asks to quote it anyway.
		useLoose := rotationDeg == 0 && (ci.Unicode != '\'' || opts.QuoteLoosebox)
		raw := ci.TightBox
		if useLoose {
			raw = ci.LooseBox
		}

		bbox, err := normalizeCharBbox(raw, geom)
		if err != nil {
			return nil, pageGeometry{}, err
		}

		chars = append(chars, Character{
			Bbox:     bbox,
			Unicode:  ci.Unicode,
			Rotation: rotationDeg,
			Font: Font{
				Name:   ci.FontName,
				Flags:  ci.FontFlags,
				Size:   ci.FontSize,
				Weight: ci.FontWeight,
			},
			CharIdx: i,
		})
	}

	if opts.Deduplicate {
		chars = deduplicateChars(chars)
	}

	return chars, geom, nil
}

// normalizeCharBbox translates a raw (x_start, y_start origin, bottom-left)
// glyph box into top-left-origin page coordinates and applies the page
// rotation, per spec.md §4.B step 3.
func normalizeCharBbox(raw [4]float64, geom pageGeometry) (Bbox, error) {
	x1 := raw[0] - geom.mediaBox[0]
	x2 := raw[2] - geom.mediaBox[0]
	y1 := raw[1] - geom.mediaBox[1]
	y2 := raw[3] - geom.mediaBox[1]

	ty1 := geom.height - y1
	ty2 := geom.height - y2

	box := NewBbox(min(x1, x2), min(ty1, ty2), max(x1, x2), max(ty1, ty2))
	rotated, err := box.Rotate(geom.width, geom.height, geom.rotation)
	if err != nil {
		return Bbox{}, err
	}
	return rotated, nil
}

// deduplicateChars removes overprinted glyphs used to simulate bold text.
// It forms synthetic "words" by concatenating consecutive characters that
// share font/rotation and are not separated by whitespace, then keeps only
// the first occurrence of each (rounded bbox, text, rotation, font) tuple,
// flattening the kept words' characters back out in order.
func deduplicateChars(chars []Character) []Character {
	if len(chars) == 0 {
		return chars
	}

	type word struct {
		chars []Character
		text  strings.Builder
	}

	var words []word
	var cur *word

	isBreak := func(r rune) bool {
		return r == ' ' || r == '\n' || r == '\t' || r == '\r'
	}

	for _, c := range chars {
		breakHere := isBreak(c.Unicode)
		var sameAsPrev, backwardJump bool
		if cur != nil {
			last := cur.chars[len(cur.chars)-1]
			sameAsPrev = last.Font == c.Font && last.Rotation == c.Rotation
			// An overprinted duplicate pass (simulating bold by redrawing the
			// same word) starts back at the word's left edge instead of
			// continuing rightward, unlike ordinary glyph flow.
			backwardJump = c.Bbox.XMin < last.Bbox.XMin
		}

		if breakHere || cur == nil || !sameAsPrev || backwardJump {
			words = append(words, word{})
			cur = &words[len(words)-1]
		}
		cur.chars = append(cur.chars, c)
		cur.text.WriteRune(c.Unicode)
	}

	type wordKey struct {
		x, y, x2, y2 float64
		text         string
		rotation     float64
		font         Font
	}

	seen := make(map[wordKey]bool, len(words))
	out := make([]Character, 0, len(chars))
	for _, w := range words {
		if len(w.chars) == 0 {
			continue
		}
		box := w.chars[0].Bbox
		for _, c := range w.chars[1:] {
			box = box.Merge(c.Bbox)
		}
		key := wordKey{
			x:        math.Round(box.XMin),
			y:        math.Round(box.YMin),
			x2:       math.Round(box.XMax),
			y2:       math.Round(box.YMax),
			text:     w.text.String(),
			rotation: w.chars[0].Rotation,
			font:     w.chars[0].Font,
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, w.chars...)
	}
	return out
}
