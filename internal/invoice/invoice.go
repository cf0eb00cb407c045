package invoice

import "time"

// Record represents one purchased item extracted from a receipt.
// The csv tags fix the output column contract.
type Record struct {
	Name    string `csv:"name"`
	Type    string `csv:"type"` // reserved, currently always empty
	PriceKg string `csv:"price-kg"`
	QtyUnit string `csv:"QTE x P.U"`
	Amount  string `csv:"amount"`
	Date    string `csv:"date"` // dd/mm/yyyy, empty when no date was found
}

// Document is the ledger entry for one processed source file
type Document struct {
	Path      string    `json:"path"`
	Records   int       `json:"records"`
	Date      string    `json:"date"`
	Error     string    `json:"error,omitempty"`
	ParsedAt  time.Time `json:"parsed_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
