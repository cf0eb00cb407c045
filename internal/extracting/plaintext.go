package extracting

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// PlainText implements the Extractor interface with a pure Go PDF reader.
// It avoids the cgo dependency of MuPDF at the cost of weaker handling of
// exotic font encodings.
type PlainText struct{}

// NewPlainText creates a new PlainText Extractor instance
func NewPlainText() *PlainText {
	return &PlainText{}
}

// ExtractText extracts the text layer of the PDF
func (p *PlainText) ExtractText(pdfData []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting text: %w", err)
	}

	text, err := io.ReadAll(textReader)
	if err != nil {
		return "", fmt.Errorf("reading text: %w", err)
	}

	return string(text), nil
}

// Close closes the extractor
func (p *PlainText) Close() error {
	return nil
}
