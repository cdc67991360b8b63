package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "pdftext",
	Short:   "pdftext extracts reading-order text and structure from PDFs",
	Version: version,
}

func init() {
	rootCmd.AddCommand(plainCmd)
	rootCmd.AddCommand(jsonCmd)
	rootCmd.AddCommand(tableExtractCmd)
}
