package invoice

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zombor/invoice-extract/internal/extracting"
)

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles batch extraction of invoice records from PDF files
type Service struct {
	extractor  extracting.Extractor
	ledger     Ledger // optional, nil disables the parse ledger
	timeSource TimeSource
}

// NewService creates a new Service with the default time source
func NewService(extractor extracting.Extractor, ledger Ledger) *Service {
	return &Service{
		extractor:  extractor,
		ledger:     ledger,
		timeSource: &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(extractor extracting.Extractor, ledger Ledger, timeSrc TimeSource) *Service {
	return &Service{
		extractor:  extractor,
		ledger:     ledger,
		timeSource: timeSrc,
	}
}

// ProcessFile extracts the text of one PDF and parses it into records.
// A date that matched a pattern but is not a real calendar date is tolerated:
// the records are returned with an empty date field.
func (s *Service) ProcessFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	text, err := s.extractor.ExtractText(data)
	if err != nil {
		s.recordDocument(path, 0, "", err)
		return nil, fmt.Errorf("extracting text: %w", err)
	}

	records, date, dateErr := ParseDocument(text)
	if dateErr != nil {
		slog.Warn("Failed to resolve receipt date", "path", path, "error", dateErr)
	}

	s.recordDocument(path, len(records), date, dateErr)

	return records, nil
}

// ProcessPath processes a single PDF file, or every PDF under a directory
// (recursively, in lexicographic path order). A document that fails to decode
// is logged and skipped; it never aborts the rest of the batch.
func (s *Service) ProcessPath(path string) ([]Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stating input: %w", err)
	}

	if !info.IsDir() {
		if !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil, fmt.Errorf("input must be a PDF file or a directory containing PDFs: %s", path)
		}
		return s.ProcessFile(path)
	}

	var paths []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".pdf") {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}
	sort.Strings(paths)

	records := []Record{}
	for _, p := range paths {
		recs, err := s.ProcessFile(p)
		if err != nil {
			slog.Warn("Failed to parse document", "path", p, "error", err)
			continue
		}
		slog.Info("Parsed document", "path", p, "records", len(recs))
		records = append(records, recs...)
	}

	return records, nil
}

// recordDocument writes a ledger entry for one processed file, preserving the
// original ParsedAt across reruns. Ledger failures only warn; the records are
// already in hand.
func (s *Service) recordDocument(path string, count int, date string, cause error) {
	if s.ledger == nil {
		return
	}

	now := s.timeSource.Now()
	doc := &Document{
		Path:      path,
		Records:   count,
		Date:      date,
		ParsedAt:  now,
		UpdatedAt: now,
	}
	if cause != nil {
		doc.Error = cause.Error()
	}

	if previous, err := s.ledger.GetDocument(path); err == nil {
		doc.ParsedAt = previous.ParsedAt
	}

	if err := s.ledger.SaveDocument(doc); err != nil {
		slog.Warn("Failed to record document in ledger", "path", path, "error", err)
	}
}
