package extracting

// Extractor defines the interface for PDF text extraction operations
type Extractor interface {
	// ExtractText returns the plain text of every page in the document,
	// pages joined by newlines
	ExtractText(pdfData []byte) (string, error)
	// Close closes the extractor and releases resources
	Close() error
}
