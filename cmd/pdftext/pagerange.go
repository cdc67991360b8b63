package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// parsePageRange parses a comma-separated list of page tokens, each either a
// single 1-based page number ("3") or an inclusive range ("5-9"), into a
// deduplicated, ascending list of 0-indexed page numbers. An empty string
// means "every page" and returns nil, nil.
func parsePageRange(s string, pageCount int) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	seen := make(map[int]bool)
	var pages []int

	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}

		var lo, hi int
		if dash := strings.IndexByte(tok, '-'); dash > 0 {
			a, err := strconv.Atoi(strings.TrimSpace(tok[:dash]))
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q: %w", tok, err)
			}
			b, err := strconv.Atoi(strings.TrimSpace(tok[dash+1:]))
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q: %w", tok, err)
			}
			lo, hi = a, b
		} else {
			n, err := strconv.Atoi(tok)
			if err != nil {
				return nil, fmt.Errorf("invalid page token %q: %w", tok, err)
			}
			lo, hi = n, n
		}

		if lo > hi {
			lo, hi = hi, lo
		}
		if lo < 1 || hi > pageCount {
			return nil, fmt.Errorf("page token %q out of range 1-%d", tok, pageCount)
		}
		for p := lo; p <= hi; p++ {
			idx := p - 1
			if !seen[idx] {
				seen[idx] = true
				pages = append(pages, idx)
			}
		}
	}

	sort.Ints(pages)
	return pages, nil
}

// pageSpan collapses a (possibly sparse) sorted page-index list into the
// contiguous [first, last] span ExtractDocument expects, returning an error
// if the pages aren't actually contiguous — pdftext's engine extracts
// contiguous ranges, not arbitrary subsets, per spec.md §6.
func pageSpan(pages []int) (first, last int, err error) {
	if len(pages) == 0 {
		return 0, -1, nil
	}
	first, last = pages[0], pages[0]
	for _, p := range pages[1:] {
		if p > last {
			last = p
		}
	}
	for i, p := range pages {
		if p != first+i {
			return 0, 0, fmt.Errorf("non-contiguous page selection is not supported, got %v", pages)
		}
	}
	return first, last, nil
}
