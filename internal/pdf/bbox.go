// Package pdf implements the layout reconstruction engine: it turns a flat
// stream of positioned characters into spans, lines and blocks, overlays
// hyperlinks, and renders reading-order plain text.
package pdf

// Bbox is an axis-aligned bounding box in a coordinate system with origin at
// the top-left of the displayed (rotation-applied) page. XMin <= XMax and
// YMin <= YMax always hold.
type Bbox struct {
	XMin, YMin, XMax, YMax float64
}

// NewBbox builds a Bbox from the four corner coordinates, reordering them so
// the min/max invariant holds regardless of input order.
func NewBbox(x1, y1, x2, y2 float64) Bbox {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Bbox{XMin: x1, YMin: y1, XMax: x2, YMax: y2}
}

// NewBboxNonZeroArea is like NewBbox but inflates XMax/YMax by 1 so the
// result always has positive area. Used for glyph boxes with zero width or
// height, so they still participate meaningfully in intersection tests.
func NewBboxNonZeroArea(x1, y1, x2, y2 float64) Bbox {
	b := NewBbox(x1, y1, x2, y2)
	b.XMax = b.XMin + (b.XMax-b.XMin)+1
	b.YMax = b.YMin + (b.YMax-b.YMin)+1
	return b
}

// Width returns XMax - XMin.
func (b Bbox) Width() float64 { return b.XMax - b.XMin }

// Height returns YMax - YMin.
func (b Bbox) Height() float64 { return b.YMax - b.YMin }

// Area returns Width * Height. Zero area is legal (e.g. a zero-width space
// glyph) and is handled specially by IntersectionPct.
func (b Bbox) Area() float64 { return b.Width() * b.Height() }

// CenterX returns the horizontal midpoint.
func (b Bbox) CenterX() float64 { return (b.XMin + b.XMax) / 2 }

// CenterY returns the vertical midpoint.
func (b Bbox) CenterY() float64 { return (b.YMin + b.YMax) / 2 }

// Merge returns the coordinate-wise min/max union of b and other.
func (b Bbox) Merge(other Bbox) Bbox {
	return Bbox{
		XMin: min(b.XMin, other.XMin),
		YMin: min(b.YMin, other.YMin),
		XMax: max(b.XMax, other.XMax),
		YMax: max(b.YMax, other.YMax),
	}
}

// OverlapX returns the non-negative 1-D overlap of b and other along x.
func (b Bbox) OverlapX(other Bbox) float64 {
	return max(0, min(b.XMax, other.XMax)-max(b.XMin, other.XMin))
}

// OverlapY returns the non-negative 1-D overlap of b and other along y.
func (b Bbox) OverlapY(other Bbox) float64 {
	return max(0, min(b.YMax, other.YMax)-max(b.YMin, other.YMin))
}

// IntersectionArea returns OverlapX * OverlapY.
func (b Bbox) IntersectionArea(other Bbox) float64 {
	return b.OverlapX(other) * b.OverlapY(other)
}

// IntersectionPct returns IntersectionArea / b.Area(), or 0 if b has zero
// area.
func (b Bbox) IntersectionPct(other Bbox) float64 {
	area := b.Area()
	if area == 0 {
		return 0
	}
	return b.IntersectionArea(other) / area
}

// Rotate maps b through one of the four canonical page rotations. pw/ph are
// the page size prior to rotation. It returns InvalidRotation for any value
// other than 0, 90, 180 or 270.
func (b Bbox) Rotate(pw, ph float64, deg int) (Bbox, error) {
	switch deg {
	case 0:
		return b, nil
	case 90:
		return NewBbox(ph-b.YMax, b.XMin, ph-b.YMin, b.XMax), nil
	case 180:
		return NewBbox(pw-b.XMax, ph-b.YMax, pw-b.XMin, ph-b.YMin), nil
	case 270:
		return NewBbox(b.YMin, pw-b.XMax, b.YMax, pw-b.XMin), nil
	default:
		return Bbox{}, &Error{Code: ErrInvalidRotation, Message: "rotation must be one of 0, 90, 180, 270 degrees"}
	}
}

// Rescale multiplies coordinates by the per-axis ratio between imgSize and
// the page's (width, height), as used by the table helper to map a page's
// normalized-by-page-size geometry onto a possibly differently-sized image.
func (b Bbox) Rescale(imgWidth, imgHeight float64, pageWidth, pageHeight float64) Bbox {
	rx := imgWidth / pageWidth
	ry := imgHeight / pageHeight
	return Bbox{
		XMin: b.XMin * rx,
		YMin: b.YMin * ry,
		XMax: b.XMax * rx,
		YMax: b.YMax * ry,
	}
}

// Array returns the box as [x_min, y_min, x_max, y_max].
func (b Bbox) Array() [4]float64 {
	return [4]float64{b.XMin, b.YMin, b.XMax, b.YMax}
}
