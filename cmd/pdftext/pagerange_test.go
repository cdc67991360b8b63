package main

import (
	"reflect"
	"testing"
)

func TestParsePageRange(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		pageCount int
		want      []int
		wantErr   bool
	}{
		{"empty means all pages", "", 10, nil, false},
		{"single page", "3", 10, []int{2}, false},
		{"range", "2-4", 10, []int{1, 2, 3}, false},
		{"reversed range normalizes", "4-2", 10, []int{1, 2, 3}, false},
		{"comma list dedups and sorts", "5,1,3-4,3", 10, []int{0, 2, 3, 4}, false},
		{"whitespace tolerated", " 1 , 2 ", 10, []int{0, 1}, false},
		{"zero page rejected", "0", 10, nil, true},
		{"page beyond count rejected", "11", 10, nil, true},
		{"non-numeric token rejected", "abc", 10, nil, true},
		{"malformed range rejected", "1-x", 10, nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsePageRange(tc.input, tc.pageCount)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parsePageRange(%q) = %v, want error", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePageRange(%q) unexpected error: %v", tc.input, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("parsePageRange(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestPageSpan(t *testing.T) {
	tests := []struct {
		name      string
		pages     []int
		wantFirst int
		wantLast  int
		wantErr   bool
	}{
		{"empty selection", nil, 0, -1, false},
		{"single page", []int{4}, 4, 4, false},
		{"contiguous run", []int{2, 3, 4}, 2, 4, false},
		{"non-contiguous rejected", []int{1, 3}, 0, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			first, last, err := pageSpan(tc.pages)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("pageSpan(%v) = (%d, %d), want error", tc.pages, first, last)
				}
				return
			}
			if err != nil {
				t.Fatalf("pageSpan(%v) unexpected error: %v", tc.pages, err)
			}
			if first != tc.wantFirst || last != tc.wantLast {
				t.Fatalf("pageSpan(%v) = (%d, %d), want (%d, %d)", tc.pages, first, last, tc.wantFirst, tc.wantLast)
			}
		})
	}
}
