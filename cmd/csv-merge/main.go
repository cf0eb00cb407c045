package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/zombor/invoice-extract/internal/merging"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("csv-merge")
	var (
		pattern     = fs.StringLong("pattern", "*.csv", "File pattern to match")
		dedupe      = fs.BoolLong("dedupe", "Drop exact duplicate rows")
		sortBy      = fs.StringLong("sort-by", "", "Sort rows by this column")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("CSV_MERGE"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	args := fs.GetArgs()
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: expected two arguments: a folder of CSV files and an output path\n")
		os.Exit(1)
	}
	folder, output := args[0], args[1]

	table, err := merging.Merge(folder, *pattern, merging.Options{
		Dedupe: *dedupe,
		SortBy: *sortBy,
	})
	if err != nil {
		slog.Error("Merge failed", "folder", folder, "error", err)
		os.Exit(1)
	}

	if err := merging.WriteFile(output, table); err != nil {
		slog.Error("Failed to write output", "output", output, "error", err)
		os.Exit(1)
	}

	slog.Info("Merge complete", "output", output, "rows", len(table.Rows))
}
