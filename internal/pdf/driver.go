package pdf

import (
	"runtime"
	"sync"

	"pdftext/internal/config"
	"pdftext/internal/extractor"
)

// PageOptions bundles the per-page knobs a single-page extraction needs.
type PageOptions struct {
	Ingest IngestOptions
	Span   SpanThresholds
	Script ScriptThresholds
	// DisableLinks skips link overlay and reference resolution entirely
	// (component G), leaving spans unsplit and pages with no Refs.
	DisableLinks bool
}

// DefaultPageOptions matches spec.md's stated defaults.
func DefaultPageOptions() PageOptions {
	return PageOptions{
		Ingest: IngestOptions{Deduplicate: true},
		Span:   DefaultSpanThresholds,
		Script: DefaultScriptThresholds,
	}
}

// extractPage runs components B through G against a single already-open
// page, returning a fully assembled Page.
func extractPage(p extractor.Page, pageIdx int, opts PageOptions, refs *PageReference) (Page, error) {
	chars, geom, err := ingestChars(p, opts.Ingest)
	if err != nil {
		return Page{}, err
	}

	spans := buildSpans(chars, opts.Span)
	lines := buildLines(spans)
	assignScripts(lines, opts.Script)
	blocks := buildBlocks(lines)

	page := Page{
		Page:     pageIdx,
		Bbox:     NewBbox(0, 0, geom.width, geom.height),
		Width:    int(geom.width),
		Height:   int(geom.height),
		Rotation: geom.rotation,
		Blocks:   blocks,
	}

	if err := addLinksAndRefs(&page, p, geom, refs, opts.DisableLinks); err != nil {
		return Page{}, err
	}
	return page, nil
}

// ExtractOptions controls a whole-document extraction run (component I).
type ExtractOptions struct {
	Page                PageOptions
	Config              config.Config
	FirstPage, LastPage int // both inclusive, 0-indexed; LastPage < 0 means "to the end"
	// Workers is the caller-requested worker count ("requested" in
	// spec.md §4.I's clamp formula). Zero falls back to Config.MaxWorkers,
	// then runtime.NumCPU().
	Workers int
}

// ExtractDocument walks every requested page of doc and assembles its Page
// results in page order, sharding across a worker pool once the page count
// reaches twice cfg.WorkerPageThreshold (at most pageCount/threshold workers
// run, and a single worker means serial). A failure on any page is reported as a
// *Error with code ErrWorkerFailed and aborts the remaining work; pages
// already completed are discarded, matching the reference extractor's
// fail-fast behaviour (spec.md §5).
func ExtractDocument(doc extractor.Document, opts ExtractOptions) ([]Page, error) {
	last := opts.LastPage
	if last < 0 || last >= doc.PageCount() {
		last = doc.PageCount() - 1
	}
	if opts.FirstPage < 0 || opts.FirstPage > last {
		return nil, NewError(ErrInputError, "empty or invalid page range", nil)
	}

	indices := make([]int, 0, last-opts.FirstPage+1)
	for i := opts.FirstPage; i <= last; i++ {
		indices = append(indices, i)
	}

	refs := NewPageReference()

	requested := opts.Workers
	if requested <= 0 {
		requested = opts.Config.MaxWorkers
	}
	if requested <= 0 {
		requested = runtime.NumCPU()
	}

	threshold := opts.Config.WorkerPageThreshold
	if threshold <= 0 {
		threshold = 1
	}

	// workers := min(requested, floor(|page_range| / WORKER_PAGE_THRESHOLD)),
	// per spec.md §4.I.
	workers := requested
	if cap := len(indices) / threshold; workers > cap {
		workers = cap
	}
	if workers <= 1 {
		return extractSerial(doc, indices, opts.Page, refs)
	}
	return extractParallel(doc, indices, opts.Page, refs, workers)
}

func extractSerial(doc extractor.Document, indices []int, popts PageOptions, refs *PageReference) ([]Page, error) {
	out := make([]Page, len(indices))
	for i, idx := range indices {
		p, err := doc.Page(idx)
		if err != nil {
			return nil, NewPageError(ErrWorkerFailed, "open page failed", idx, err)
		}
		page, err := extractPage(p, idx, popts, refs)
		if err != nil {
			return nil, NewPageError(ErrWorkerFailed, "page extraction failed", idx, err)
		}
		out[i] = page
	}
	return out, nil
}

// extractParallel shards pages across a bounded worker pool. Each worker
// processes whole page indices independently; results are written directly
// into their final, page-order slot so no reordering step is needed.
//
// The reference extractor shards by spawning separate OS processes, each
// with its own document handle, so a crash in one page's native library
// call cannot take down the others. This adapter's extractor.Document is
// assumed goroutine-safe for concurrent Page/Char calls against distinct
// page indices; NativeOpener's pdfcpu/ledongthuc handles satisfy that for
// read-only access. Callers needing hard process isolation should shard at
// the OS-process level themselves, one NativeOpener per process.
func extractParallel(doc extractor.Document, indices []int, popts PageOptions, refs *PageReference, maxWorkers int) ([]Page, error) {
	workers := maxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(indices) {
		workers = len(indices)
	}

	out := make([]Page, len(indices))
	jobs := make(chan int, len(indices))
	for i := range indices {
		jobs <- i
	}
	close(jobs)

	var (
		mu       sync.Mutex
		firstErr error
		wg       sync.WaitGroup
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				mu.Lock()
				if firstErr != nil {
					mu.Unlock()
					return
				}
				mu.Unlock()

				idx := indices[i]
				p, err := doc.Page(idx)
				if err == nil {
					out[i], err = extractPage(p, idx, popts, refs)
				}
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = NewPageError(ErrWorkerFailed, "page extraction failed", idx, err)
					}
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
