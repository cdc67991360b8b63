package pdf

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"pdftext/internal/config"
	"pdftext/internal/extractor"
	"pdftext/internal/logger"
)

// Options bundles every tunable across a whole-document extraction run,
// combining page-level thresholds with the render pass that turns an
// extracted Page into text. This is the surface the CLI and any library
// caller builds from config.Config. Field names mirror spec.md §6's
// keyword-only public API parameters (sort, hyphens, flatten_pdf,
// quote_loosebox, disable_links, keep_chars, workers).
type Options struct {
	Page   PageOptions
	Render RenderOptions
	Config config.Config

	// Sort reorders blocks into reading order via sortBlocks before
	// rendering or serializing (spec.md §4.H step 1).
	Sort bool
	// Hyphens, when true, keeps the literal "-\n" for every hyphen break
	// instead of joining the word across it (spec.md §4.H step 4).
	Hyphens bool
	// FlattenPDF bakes annotations/form fields into page content before
	// ingesting characters (spec.md §4.I).
	FlattenPDF bool
	// QuoteLoosebox disables the loose-box exception for the "'" glyph
	// during character ingestion (spec.md §4.B, component B).
	QuoteLoosebox bool
	// DisableLinks skips link overlay and reference resolution entirely.
	DisableLinks bool
	// KeepChars retains each span's per-character breakdown in
	// Dictionary's output; dropped by default (spec.md §6).
	KeepChars bool
	// Workers is the caller-requested worker count; zero falls back to
	// Config.MaxWorkers, then runtime.NumCPU() (spec.md §4.I).
	Workers int
}

// DefaultOptions matches spec.md's stated defaults and config.Default().
func DefaultOptions() Options {
	return Options{
		Page:          DefaultPageOptions(),
		Render:        DefaultRenderOptions,
		Config:        config.Default(),
		QuoteLoosebox: true,
	}
}

// extractAll opens the document through opener (tests pass a fake Opener)
// and runs ExtractDocument over the requested pages; PlainText/
// PaginatedPlainText/Dictionary/Table all go through it.
func extractAll(opener extractor.Opener, path string, opts Options, firstPage, lastPage int) ([]Page, error) {
	doc, err := opener.Open(path)
	if err != nil {
		return nil, NewError(ErrInputError, "open document failed", err)
	}
	defer doc.Close()

	pageOpts := opts.Page
	pageOpts.Ingest.FlattenPDF = opts.FlattenPDF
	pageOpts.Ingest.QuoteLoosebox = opts.QuoteLoosebox
	pageOpts.DisableLinks = opts.DisableLinks

	pages, err := ExtractDocument(doc, ExtractOptions{
		Page:      pageOpts,
		Config:    opts.Config,
		Workers:   opts.Workers,
		FirstPage: firstPage,
		LastPage:  lastPage,
	})
	if err != nil {
		logger.GetLogger().Error("document extraction failed", err, logger.String("path", path))
		return nil, err
	}
	return pages, nil
}

func renderPages(pages []Page, opts Options) []string {
	rendered := make([]string, len(pages))
	for i, p := range pages {
		rendered[i] = RenderPage(p, opts.Render, opts.Sort, opts.Hyphens)
	}
	return rendered
}

// PlainText renders every requested page of the document at path into a
// single string, pages joined by "\n". firstPage/lastPage are 0-indexed and
// inclusive; pass lastPage < 0 for "through the last page". Implements the
// plain-text half of component H / spec.md §6.
func PlainText(opener extractor.Opener, path string, opts Options, firstPage, lastPage int) (string, error) {
	pages, err := extractAll(opener, path, opts, firstPage, lastPage)
	if err != nil {
		return "", err
	}
	return strings.Join(renderPages(pages, opts), "\n"), nil
}

// PaginatedPlainText is PlainText but keeps pages distinct: index i of the
// returned slice is the rendered text of page firstPage+i.
func PaginatedPlainText(opener extractor.Opener, path string, opts Options, firstPage, lastPage int) ([]string, error) {
	pages, err := extractAll(opener, path, opts, firstPage, lastPage)
	if err != nil {
		return nil, err
	}
	return renderPages(pages, opts), nil
}

// DictPage is the JSON-serializable shape of one extracted page, used by
// Dictionary and the CLI's json subcommand.
type DictPage struct {
	Page     int         `json:"page"`
	Bbox     [4]float64  `json:"bbox"`
	Width    int         `json:"width"`
	Height   int         `json:"height"`
	Rotation int         `json:"rotation"`
	Blocks   []DictBlock `json:"blocks"`
	Refs     []DictRef   `json:"refs,omitempty"`
}

// DictBlock is one block in Dictionary's output.
type DictBlock struct {
	Bbox  [4]float64 `json:"bbox"`
	Lines []DictLine `json:"lines"`
}

// DictLine is one line in Dictionary's output.
type DictLine struct {
	Bbox  [4]float64 `json:"bbox"`
	Spans []DictSpan `json:"spans"`
}

// DictChar is one character in a DictSpan, only populated when the caller
// asks for Options.KeepChars.
type DictChar struct {
	Bbox     [4]float64 `json:"bbox"`
	Char     string     `json:"char"`
	Rotation float64    `json:"rotation"`
	CharIdx  int        `json:"char_idx"`
}

// DictSpan is one span in Dictionary's output.
type DictSpan struct {
	Bbox         [4]float64 `json:"bbox"`
	Text         string     `json:"text"`
	Rotation     float64    `json:"rotation"`
	Font         Font       `json:"font"`
	CharStartIdx int        `json:"char_start_idx"`
	CharEndIdx   int        `json:"char_end_idx"`
	Superscript  bool       `json:"superscript,omitempty"`
	Subscript    bool       `json:"subscript,omitempty"`
	URL          string     `json:"url,omitempty"`
	Chars        []DictChar `json:"chars,omitempty"`
}

// DictRef is one intra-document reference target in Dictionary's output.
type DictRef struct {
	Idx int     `json:"idx"`
	URL string  `json:"url"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

// Dictionary extracts every requested page into the fully structured block
// tree, post-processing each span's text the same way the renderer does,
// for callers that need geometry alongside text. Implements spec.md §6's
// structured-output surface; when Options.KeepChars is false (the default),
// per-span character lists are omitted from the output.
func Dictionary(opener extractor.Opener, path string, opts Options, firstPage, lastPage int) ([]DictPage, error) {
	pages, err := extractAll(opener, path, opts, firstPage, lastPage)
	if err != nil {
		return nil, err
	}

	out := make([]DictPage, len(pages))
	for i, p := range pages {
		dp := DictPage{Page: p.Page, Bbox: p.Bbox.Array(), Width: p.Width, Height: p.Height, Rotation: p.Rotation}
		blocks := p.Blocks
		if opts.Sort {
			blocks = sortBlocks(blocks, opts.Render.Tolerance)
		}
		for _, b := range blocks {
			db := DictBlock{Bbox: b.Bbox.Array()}
			for _, l := range b.Lines {
				dl := DictLine{Bbox: l.Bbox.Array()}
				for _, s := range l.Spans {
					ds := DictSpan{
						Bbox:         s.Bbox.Array(),
						Text:         norm.NFC.String(handleHyphens(postprocessText(s.Text), opts.Hyphens)),
						Rotation:     s.Rotation,
						Font:         s.Font,
						CharStartIdx: s.CharStartIdx,
						CharEndIdx:   s.CharEndIdx,
						Superscript:  s.Superscript,
						Subscript:    s.Subscript,
						URL:          s.URL,
					}
					if opts.KeepChars {
						for _, c := range s.Chars {
							ds.Chars = append(ds.Chars, DictChar{
								Bbox:     c.Bbox.Array(),
								Char:     string(c.Unicode),
								Rotation: c.Rotation,
								CharIdx:  c.CharIdx,
							})
						}
					}
					dl.Spans = append(dl.Spans, ds)
				}
				db.Lines = append(db.Lines, dl)
			}
			dp.Blocks = append(dp.Blocks, db)
		}
		for _, r := range p.Refs {
			dp.Refs = append(dp.Refs, DictRef{Idx: r.Idx, URL: r.URL(), X: r.Coord[0], Y: r.Coord[1]})
		}
		out[i] = dp
	}
	return out, nil
}

// TableOptions resolves spec.md §6's ambiguous table() parameters into a
// concrete Go surface: img_size becomes an explicit (ImgWidth, ImgHeight)
// pair (the caller's rendered-image dimensions, since this engine never
// rasterizes a page itself) that Table treats as "no rescale, use the
// page's own point dimensions" when left at zero. table_cell_text's
// table_thresh/space_thresh keyword defaults carry over directly.
type TableOptions struct {
	ImgWidth    float64
	ImgHeight   float64
	TableThresh float64
	SpaceThresh float64
}

// DefaultTableOptions matches spec.md §4.J's stated defaults, with img_size
// left at zero so Table rescales against the page's own dimensions.
func DefaultTableOptions() TableOptions {
	return TableOptions{
		TableThresh: 0.8,
		SpaceThresh: 0.01,
	}
}

// TableResult holds one page's extracted cell text, one cell list per
// caller-supplied bounding box, in the boxes' order (the engine does not detect table regions itself; see
// spec.md §4.J and its Non-goals).
type TableResult struct {
	Page  int          `json:"page"`
	Cells [][]TableCell `json:"cells"`
}

// Table extracts cell text for every box in boxes on the given page. It
// reuses the whole-page extraction pipeline (so links, scripts and block/
// line/span geometry are identical to plain_text/dictionary), then computes
// a page-wide dynamic intra-word gap threshold and re-chunks characters
// inside each box via tableCellText. Implements component J / spec.md §6's
// table surface.
func Table(opener extractor.Opener, path string, opts Options, tableOpts TableOptions, page int, boxes []Bbox) (TableResult, error) {
	pages, err := extractAll(opener, path, opts, page, page)
	if err != nil {
		return TableResult{}, err
	}
	if len(pages) == 0 {
		return TableResult{}, NewPageError(ErrInputError, "page out of range", page, nil)
	}
	p := pages[0]

	imgWidth, imgHeight := tableOpts.ImgWidth, tableOpts.ImgHeight
	if imgWidth <= 0 {
		imgWidth = float64(p.Width)
	}
	if imgHeight <= 0 {
		imgHeight = float64(p.Height)
	}

	gapThresh := dynamicGapThresh(p, imgWidth, imgHeight, tableOpts.SpaceThresh)

	cells := make([][]TableCell, len(boxes))
	for i, box := range boxes {
		cells[i] = tableCellText(box, p, imgWidth, imgHeight, tableOpts.TableThresh, gapThresh)
	}
	return TableResult{Page: page, Cells: cells}, nil
}
