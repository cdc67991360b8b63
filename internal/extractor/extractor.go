// Package extractor defines the contract this module requires from a
// low-level PDF text extractor, and ships one concrete adapter
// implementation. The layout reconstruction engine in internal/pdf depends
// only on the interfaces here, never on a specific extractor library, so it
// can be tested against fakes.
package extractor

// CharInfo is the raw per-glyph data an extractor must expose for a single
// character on a page, in PDF points with origin at the bottom-left of the
// unrotated page (matching the extractor contract in the spec: geometry in
// points, origin bottom-left, rotation 0/90/180/270).
type CharInfo struct {
	Unicode    rune
	RotationRad float64 // char rotation, radians
	FontName   string
	FontFlags  int
	FontSize   float64
	FontWeight float64
	// LooseBox and TightBox are the two glyph rectangles the extractor can
	// report: loose includes side-bearing, tight excludes it.
	LooseBox [4]float64
	TightBox [4]float64
}

// AnnotationKind enumerates the annotation subtypes an extractor reports.
// Only Link is consumed by this module.
type AnnotationKind int

const (
	AnnotationOther AnnotationKind = iota
	AnnotationLink
)

// ActionKind enumerates the link-action types an extractor can resolve.
type ActionKind int

const (
	ActionUnsupported ActionKind = iota
	ActionGoTo
	ActionURI
)

// Destination is a resolved link target: a page index and, when available,
// an in-page (x, y) position in PDF point space (bottom-left origin).
type Destination struct {
	PageIndex int
	HasPos    bool
	X, Y      float64
}

// Annotation is a single page annotation as reported by the extractor.
type Annotation struct {
	Kind ActionKind
	Sub  AnnotationKind
	// Rect is the annotation rectangle in PDF point space, bottom-left
	// origin, unrotated page coordinates.
	Rect [4]float64
	// Dest is set when the annotation (or its action) resolves to an
	// internal destination.
	Dest *Destination
	// URI is set when the annotation's action is a URI action.
	URI string
}

// Page is a single page handle opened from a Document.
type Page interface {
	// Rotation returns the page's /Rotate value normalized to 0/90/180/270.
	Rotation() int
	// MediaBox returns (x_start, y_start, x_end, y_end) in PDF point space.
	MediaBox() [4]float64
	// CharCount returns the number of characters on the page's text layer.
	CharCount() int
	// Char returns the raw per-glyph data for character i.
	Char(i int) (CharInfo, error)
	// Annotations returns every link annotation on the page.
	Annotations() ([]Annotation, error)
	// Flatten bakes annotations and form fields into page content. After a
	// successful call the Page's character/annotation data reflects the
	// flattened state.
	Flatten() error
}

// Document is an open PDF document.
type Document interface {
	// PageCount returns the number of pages in the document.
	PageCount() int
	// Page opens the page at the given 0-based index.
	Page(index int) (Page, error)
	// Close releases the document handle. Implementations must support
	// concurrent Page/Char/Annotations calls against distinct page indices,
	// since the page driver shards work across a worker pool sharing one
	// Document handle (see internal/pdf/driver.go).
	Close() error
}

// Opener opens a Document from a file path. The concrete adapter
// (NativeOpener) is implemented in native.go.
type Opener interface {
	Open(path string) (Document, error)
}
