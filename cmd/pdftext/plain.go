package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pdftext/internal/config"
	"pdftext/internal/extractor"
	"pdftext/internal/pdf"
)

var (
	plainPages         string
	plainOutput        string
	plainPaginated     bool
	plainSort          bool
	plainHyphens       bool
	plainFlattenPDF    bool
	plainQuoteLoosebox bool
	plainWorkers       int
)

var plainCmd = &cobra.Command{
	Use:   "plain <pdf-file>",
	Short: "Extract reading-order plain text from a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlain,
}

func init() {
	plainCmd.Flags().StringVarP(&plainPages, "pages", "p", "", "Page range, e.g. \"1-3,5\" (default: all pages)")
	plainCmd.Flags().StringVarP(&plainOutput, "output", "o", "", "Output file (default: stdout)")
	plainCmd.Flags().BoolVar(&plainPaginated, "paginated", false, "Separate pages with a form-feed instead of concatenating")
	plainCmd.Flags().BoolVar(&plainSort, "sort", false, "Reorder blocks into reading order before rendering")
	plainCmd.Flags().BoolVar(&plainHyphens, "hyphens", false, "Keep literal hyphen breaks instead of joining words across them")
	plainCmd.Flags().BoolVar(&plainFlattenPDF, "flatten-pdf", false, "Bake annotations/form fields into page content before extraction")
	plainCmd.Flags().BoolVar(&plainQuoteLoosebox, "quote-loosebox", true, "Use the loose glyph box even for the \"'\" character")
	plainCmd.Flags().IntVar(&plainWorkers, "workers", 0, "Requested worker count (0 = use config default)")
}

func runPlain(cmd *cobra.Command, args []string) error {
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

	pages, err := parsePageRange(plainPages, pageCount)
	if err != nil {
		return err
	}
	first, last, err := pageSpan(pages)
	if err != nil {
		return err
	}

	opts := pdf.DefaultOptions()
	opts.Config = cfg
	opts.Sort = plainSort
	opts.Hyphens = plainHyphens
	opts.FlattenPDF = plainFlattenPDF
	opts.QuoteLoosebox = plainQuoteLoosebox
	opts.Workers = plainWorkers

	var text string
	if plainPaginated {
		pages, err := pdf.PaginatedPlainText(opener, path, opts, first, last)
		if err != nil {
			return fmt.Errorf("extract %s: %w", path, err)
		}
		for i, p := range pages {
			if i > 0 {
				text += "\f"
			}
			text += p
		}
	} else {
		text, err = pdf.PlainText(opener, path, opts, first, last)
		if err != nil {
			return fmt.Errorf("extract %s: %w", path, err)
		}
	}

	out := os.Stdout
	if plainOutput != "" {
		f, err := os.Create(plainOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", plainOutput, err)
		}
		defer f.Close()
		out = f
	}
	_, err = fmt.Fprint(out, text)
	return err
}
