package extracting

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Fitz implements the Extractor interface using MuPDF via go-fitz
type Fitz struct{}

// NewFitz creates a new Fitz Extractor instance
func NewFitz() *Fitz {
	return &Fitz{}
}

// ExtractText extracts the text layer of every page in the PDF
func (f *Fitz) ExtractText(pdfData []byte) (string, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("extracting text from page %d: %w", i+1, err)
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n"), nil
}

// Close closes the extractor
func (f *Fitz) Close() error {
	return nil
}
