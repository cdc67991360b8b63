package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pdftext/internal/config"
	"pdftext/internal/extractor"
	"pdftext/internal/pdf"
)

var (
	jsonPages         string
	jsonOutput        string
	jsonIndent        bool
	jsonSort          bool
	jsonKeepChars     bool
	jsonFlattenPDF    bool
	jsonQuoteLoosebox bool
	jsonDisableLinks  bool
	jsonWorkers       int
)

var jsonCmd = &cobra.Command{
	Use:   "json <pdf-file>",
	Short: "Extract structured block/line/span JSON from a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runJSON,
}

func init() {
	jsonCmd.Flags().StringVarP(&jsonPages, "pages", "p", "", "Page range, e.g. \"1-3,5\" (default: all pages)")
	jsonCmd.Flags().StringVarP(&jsonOutput, "output", "o", "", "Output file (default: stdout)")
	jsonCmd.Flags().BoolVar(&jsonIndent, "indent", true, "Pretty-print the JSON output")
	jsonCmd.Flags().BoolVar(&jsonSort, "sort", false, "Reorder blocks into reading order")
	jsonCmd.Flags().BoolVar(&jsonKeepChars, "keep-chars", false, "Include each span's per-character breakdown")
	jsonCmd.Flags().BoolVar(&jsonFlattenPDF, "flatten-pdf", false, "Bake annotations/form fields into page content before extraction")
	jsonCmd.Flags().BoolVar(&jsonQuoteLoosebox, "quote-loosebox", true, "Use the loose glyph box even for the \"'\" character")
	jsonCmd.Flags().BoolVar(&jsonDisableLinks, "disable-links", false, "Skip link overlay and reference resolution")
	jsonCmd.Flags().IntVar(&jsonWorkers, "workers", 0, "Requested worker count (0 = use config default)")
}

func runJSON(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	opener := extractor.NativeOpener{}
	doc, err := opener.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	pageCount := doc.PageCount()
	doc.Close()

	pages, err := parsePageRange(jsonPages, pageCount)
	if err != nil {
		return err
	}
	first, last, err := pageSpan(pages)
	if err != nil {
		return err
	}

	opts := pdf.DefaultOptions()
	opts.Config = cfg
	opts.Sort = jsonSort
	opts.KeepChars = jsonKeepChars
	opts.FlattenPDF = jsonFlattenPDF
	opts.QuoteLoosebox = jsonQuoteLoosebox
	opts.DisableLinks = jsonDisableLinks
	opts.Workers = jsonWorkers

	dict, err := pdf.Dictionary(opener, path, opts, first, last)
	if err != nil {
		return fmt.Errorf("extract %s: %w", path, err)
	}

	out := os.Stdout
	if jsonOutput != "" {
		f, err := os.Create(jsonOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", jsonOutput, err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	if jsonIndent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(dict)
}
