package extractor

import (
	"fmt"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/types"
)

// NativeOpener is the real Opener, backed by github.com/ledongthuc/pdf for
// per-character geometry and font data and github.com/pdfcpu/pdfcpu for
// page count, media box, rotation, annotations, actions and destinations.
// Neither library alone exposes the full extractor contract the spec
// assumes (true per-glyph rotation and font descriptor flags in
// particular), so the adapter approximates those, and its Flatten does not
// flatten form fields or annotations (see nativePage.Flatten) —
// see DESIGN.md for the specifics of the approximation.
type NativeOpener struct{}

// Open implements Opener.
func (NativeOpener) Open(path string) (Document, error) {
	f, r, err := lpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read pdf context: %w", err)
	}
	return &nativeDocument{path: path, file: f, reader: r, ctx: ctx}, nil
}

type nativeDocument struct {
	path   string
	file   interface{ Close() error }
	reader *lpdf.Reader
	ctx    *model.Context
}

func (d *nativeDocument) PageCount() int { return d.reader.NumPage() }

func (d *nativeDocument) Page(index int) (Page, error) {
	// ledongthuc/pdf pages are 1-based.
	page := d.reader.Page(index + 1)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d not found", index)
	}
	return &nativePage{doc: d, index: index, page: page}, nil
}

func (d *nativeDocument) Close() error {
	return d.file.Close()
}

type nativePage struct {
	doc   *nativeDocument
	index int
	page  lpdf.Page

	rowsOnce bool
	chars    []lpdf.Text
	rotation int
	mediaBox [4]float64
}

func (p *nativePage) ensureLoaded() error {
	if p.rowsOnce {
		return nil
	}
	p.rowsOnce = true

	rows, err := p.page.GetTextByRow()
	if err != nil {
		return fmt.Errorf("get text rows: %w", err)
	}
	for _, row := range rows {
		p.chars = append(p.chars, row.Content...)
	}

	p.rotation = normalizeRotation(p.page.V.Key("Rotate").Int64())
	box := p.page.V.Key("MediaBox")
	if box.Kind() == lpdf.Array && box.Len() == 4 {
		p.mediaBox = [4]float64{
			box.Index(0).Float64(), box.Index(1).Float64(),
			box.Index(2).Float64(), box.Index(3).Float64(),
		}
	} else {
		p.mediaBox = [4]float64{0, 0, 612, 792}
	}
	return nil
}

func normalizeRotation(v int64) int {
	r := int(v) % 360
	if r < 0 {
		r += 360
	}
	switch r {
	case 90, 180, 270:
		return r
	default:
		return 0
	}
}

func (p *nativePage) Rotation() int {
	p.ensureLoaded()
	return p.rotation
}

func (p *nativePage) MediaBox() [4]float64 {
	p.ensureLoaded()
	return p.mediaBox
}

func (p *nativePage) CharCount() int {
	p.ensureLoaded()
	return len(p.chars)
}

// charWidthFactor approximates a glyph's advance width as a fraction of its
// font size when the extraction library does not report a true width. This
// is a known simplification: ledongthuc/pdf's row-text API does not expose
// per-character advance width the way the spec's assumed extractor does.
const charWidthFactor = 0.5

func (p *nativePage) Char(i int) (CharInfo, error) {
	if err := p.ensureLoaded(); err != nil {
		return CharInfo{}, err
	}
	if i < 0 || i >= len(p.chars) {
		return CharInfo{}, fmt.Errorf("char index %d out of range", i)
	}
	t := p.chars[i]
	r := []rune(t.S)
	var ch rune = ' '
	if len(r) > 0 {
		ch = r[0]
	}

	fontSize := t.FontSize
	if fontSize <= 0 {
		fontSize = 10
	}
	width := fontSize * charWidthFactor
	height := fontSize

	loose := [4]float64{t.X, t.Y, t.X + width, t.Y + height}
	tight := [4]float64{t.X, t.Y, t.X + width*0.92, t.Y + height*0.88}

	fontLower := strings.ToLower(t.Font)
	flags := 0
	weight := 400.0
	if strings.Contains(fontLower, "bold") {
		flags |= fontFlagForceBold
		weight = 700
	}
	if strings.Contains(fontLower, "italic") || strings.Contains(fontLower, "oblique") {
		flags |= fontFlagItalic
	}

	return CharInfo{
		Unicode:    ch,
		RotationRad: 0, // ledongthuc/pdf does not report per-char rotation
		FontName:   t.Font,
		FontFlags:  flags,
		FontSize:   fontSize,
		FontWeight: weight,
		LooseBox:   loose,
		TightBox:   tight,
	}, nil
}

// Font descriptor flag bits, per the PDF spec's /Flags entry (table 123):
// bit 7 (0x40) is Italic, bit 19 (0x40000) is ForceBold.
const (
	fontFlagItalic    = 1 << 6
	fontFlagForceBold = 1 << 18
)

func (p *nativePage) Annotations() ([]Annotation, error) {
	pageDict, _, err := p.doc.ctx.XRefTable.PageDict(p.index+1, false)
	if err != nil || pageDict == nil {
		return nil, nil
	}
	arr, err := p.doc.ctx.XRefTable.DereferenceArray(pageDict["Annots"])
	if err != nil || arr == nil {
		return nil, nil
	}

	var out []Annotation
	for _, obj := range arr {
		annotDict, err := p.doc.ctx.XRefTable.DereferenceDict(obj)
		if err != nil || annotDict == nil {
			continue
		}
		if subtype := annotDict.NameEntry("Subtype"); subtype == nil || *subtype != "Link" {
			continue
		}
		rectArr, err := p.doc.ctx.XRefTable.DereferenceArray(annotDict["Rect"])
		if err != nil || len(rectArr) != 4 {
			continue
		}
		var rect [4]float64
		for i, v := range rectArr {
			n, _ := p.doc.ctx.XRefTable.DereferenceNumber(v)
			rect[i] = n
		}

		a := Annotation{Sub: AnnotationLink, Rect: rect}

		if destObj, ok := annotDict["Dest"]; ok {
			if dest := resolveDestArray(p.doc.ctx.XRefTable, destObj); dest != nil {
				a.Kind = ActionGoTo
				a.Dest = dest
				out = append(out, a)
				continue
			}
		}

		actionObj, ok := annotDict["A"]
		if !ok {
			a.Kind = ActionUnsupported
			out = append(out, a)
			continue
		}
		actionDict, err := p.doc.ctx.XRefTable.DereferenceDict(actionObj)
		if err != nil || actionDict == nil {
			a.Kind = ActionUnsupported
			out = append(out, a)
			continue
		}
		subtype := actionDict.NameEntry("S")
		switch {
		case subtype != nil && *subtype == "GoTo":
			a.Kind = ActionGoTo
			if dest := resolveDestArray(p.doc.ctx.XRefTable, actionDict["D"]); dest != nil {
				a.Dest = dest
			}
		case subtype != nil && *subtype == "URI":
			a.Kind = ActionURI
			if uriObj, ok := actionDict["URI"]; ok {
				if s, err := p.doc.ctx.XRefTable.DereferenceStringLiteral(uriObj); err == nil {
					a.URI = s
				}
			}
		default:
			a.Kind = ActionUnsupported
		}
		out = append(out, a)
	}
	return out, nil
}

func resolveDestArray(xref *model.XRefTable, obj types.Object) *Destination {
	arr, err := xref.DereferenceArray(obj)
	if err != nil || len(arr) < 1 {
		return nil
	}
	pageRef, err := xref.DereferenceInteger(arr[0])
	if err != nil {
		return nil
	}
	d := &Destination{PageIndex: int(*pageRef)}
	if len(arr) >= 4 {
		x, errX := xref.DereferenceNumber(arr[2])
		y, errY := xref.DereferenceNumber(arr[3])
		if errX == nil && errY == nil {
			d.HasPos = true
			d.X, d.Y = x, y
		}
	}
	return d
}

func (p *nativePage) Flatten() error {
	// Runs pdfcpu's Optimize on the document context and clears the cached
	// character rows, so the next Char call re-reads the page. Form fields
	// and annotations are not merged into the page content: the re-read
	// characters and the annotations are the same as before the call.
	if err := p.doc.ctx.Optimize(); err != nil {
		return fmt.Errorf("flatten: optimize: %w", err)
	}
	p.rowsOnce = false
	p.chars = nil
	return nil
}
