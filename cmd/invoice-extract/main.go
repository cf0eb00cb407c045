package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/zombor/invoice-extract/internal/extracting"
	"github.com/zombor/invoice-extract/internal/invoice"
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

	fs := ff.NewFlagSet("invoice-extract")
	var (
		output        = fs.String('o', "output", "invoices.csv", "Output CSV path")
		extractorType = fs.StringLong("extractor", "fitz", "PDF text extractor: 'fitz' or 'plain'")
		ledgerPath    = fs.StringLong("ledger", "", "Parse-ledger database path (optional)")
		showVersion   = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("INVOICE_EXTRACT"),
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
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: expected one argument: a PDF file or a directory of PDFs\n")
		os.Exit(1)
	}
	input := args[0]

	// Initialize extractor based on type
	var extractor extracting.Extractor
	switch *extractorType {
	case "fitz":
		extractor = extracting.NewFitz()
	case "plain":
		extractor = extracting.NewPlainText()
	default:
		slog.Error("Invalid extractor type", "type", *extractorType, "valid", "fitz or plain")
		os.Exit(1)
	}
	defer extractor.Close()

	// Initialize the optional parse ledger
	var ledger invoice.Ledger
	if *ledgerPath != "" {
		slog.Info("Opening parse ledger...", "path", *ledgerPath)
		boltLedger, err := invoice.NewBoltLedger(*ledgerPath)
		if err != nil {
			slog.Error("Failed to open ledger", "error", err)
			os.Exit(1)
		}
		defer boltLedger.Close()
		ledger = boltLedger
	}

	service := invoice.NewService(extractor, ledger)

	records, err := service.ProcessPath(input)
	if err != nil {
		slog.Error("Failed to process input", "input", input, "error", err)
		os.Exit(1)
	}

	if err := invoice.WriteCSVFile(*output, records); err != nil {
		slog.Error("Failed to write output", "output", *output, "error", err)
		os.Exit(1)
	}

	slog.Info("Extraction complete", "output", *output, "records", len(records))
}
