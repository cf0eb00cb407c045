package invoice

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate indicates a date-shaped substring whose calendar values are
// out of range (e.g. day 32). The document's product lines are still usable.
var ErrInvalidDate = errors.New("invalid date")

var (
	// e.g. "0.350 kg x 12,50 €/kg"
	weightPriceRe = regexp.MustCompile(`(?i)^\s*(\d+(?:[.,]\d+)?)\s*kg\s*x\s*(\d+(?:[.,]\d+)?)\s*€\s*/\s*kg\s*$`)

	// e.g. "5% CHISTORRA REFLETS 1 x 4.70 4.70"
	// groups: 1=name 2=qty 3=unit price 4=amount
	productRe = regexp.MustCompile(`(?i)^\s*(?:\d{1,2}(?:[.,]\d{1,2})?\s*%)?\s*(.+?)\s+(\d+)\s*x\s*(\d+(?:[.,]\d{1,2})?)\s+(-?\d+(?:[.,]\d{1,2})?)\s*$`)

	leadingPercentRe = regexp.MustCompile(`^\s*\d{1,2}(?:[.,]\d{1,2})?\s*%\s*`)
	innerSpacesRe    = regexp.MustCompile(`\s{2,}`)
)

// noisePrefixes are accessory receipt lines carrying no item data. Matched
// case-insensitively against the start of the line, before product matching,
// so that structurally product-like noise is never misclassified.
var noisePrefixes = []string{
	"remise immédiate",
	"total",
	"taux tva",
	"détails de vos avantages",
	"avantages -10%",
	"ma carte",
	"€ crédités",
	"vignettes",
	"payé par",
	"tva produit",
	"carte bancaire",
}

// datePatterns are tried in order; the first pattern in this list that matches
// anywhere in the text wins, not the earliest occurrence across all patterns.
// groups: 1=day 2=month 3=year 4=hour 5=minute
var datePatterns = []*regexp.Regexp{
	// "12/05/2024 à 14h32", "12/05/2024 14:32"
	regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})\s*(?:à\s*)?(\d{1,2})[h:](\d{2})`),
	// "12.05.24 14:32", "12.05.2024 14:32"
	regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{2,4})\s+(\d{1,2}):(\d{2})`),
}

// normalizeDecimal canonicalizes the decimal separator to a dot
func normalizeDecimal(s string) string {
	return strings.ReplaceAll(s, ",", ".")
}

// trimWeight drops insignificant trailing zeros from a normalized weight
// token ("0.350" -> "0.35"). Unit prices keep their printed precision.
func trimWeight(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// findDate scans the whole document text for a receipt timestamp and returns
// the calendar date as dd/mm/yyyy. No match is a valid empty state, not an
// error; a match with out-of-range values returns ErrInvalidDate.
func findDate(text string) (string, error) {
	for _, re := range datePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 { // '25' -> 2025
			year += 2000
		}
		hour, _ := strconv.Atoi(m[4])
		minute, _ := strconv.Atoi(m[5])

		// time.Date normalizes out-of-range values instead of failing, so an
		// invalid date is detected by round-tripping the components.
		dt := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
		if dt.Year() != year || dt.Month() != time.Month(month) || dt.Day() != day ||
			dt.Hour() != hour || dt.Minute() != minute {
			return "", fmt.Errorf("%w: %q", ErrInvalidDate, m[0])
		}

		return dt.Format("02/01/2006"), nil
	}
	return "", nil
}

type lineClass int

const (
	classBlank lineClass = iota
	classWeightPrice
	classNoise
	classProduct
	classUnrecognized
)

// classified is the tagged result of dispatching one line. The class
// precedence (blank, weight-price, noise, product, unrecognized) is fixed:
// a weight-price line is never tested against the product pattern, and noise
// filtering runs before product matching.
type classified struct {
	class       lineClass
	weightPrice string // set for classWeightPrice
	discount    bool   // set for classProduct lines that are discount rows
	record      Record // set for classProduct; price-kg and date filled in later
}

func classifyLine(raw string) classified {
	line := strings.TrimSpace(raw)
	if line == "" {
		return classified{class: classBlank}
	}

	if m := weightPriceRe.FindStringSubmatch(line); m != nil {
		weight := trimWeight(normalizeDecimal(m[1]))
		price := normalizeDecimal(m[2])
		return classified{
			class:       classWeightPrice,
			weightPrice: fmt.Sprintf("%skg x %s€/kg", weight, price),
		}
	}

	lower := strings.ToLower(line)
	for _, prefix := range noisePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return classified{class: classNoise}
		}
	}

	if m := productRe.FindStringSubmatch(line); m != nil {
		// The non-greedy name group can retain a discount-percentage token
		// the optional prefix group did not consume; strip it again.
		name := strings.TrimSpace(leadingPercentRe.ReplaceAllString(strings.TrimSpace(m[1]), ""))
		name = innerSpacesRe.ReplaceAllString(name, " ")

		return classified{
			class:    classProduct,
			discount: strings.HasPrefix(strings.ToLower(name), "remise"),
			record: Record{
				Name:    name,
				QtyUnit: fmt.Sprintf("%s x %s", m[2], normalizeDecimal(m[3])),
				Amount:  normalizeDecimal(m[4]),
			},
		}
	}

	return classified{class: classUnrecognized}
}

// parseLines folds over one document's lines in order, pairing each pending
// weight-price line with the next matched product line in FIFO order. The
// queue is local to the call, so documents never share pending state; values
// still queued at end of input are dropped.
func parseLines(lines []string, date string) []Record {
	records := []Record{}
	var pending []string

	for _, raw := range lines {
		c := classifyLine(raw)
		switch c.class {
		case classWeightPrice:
			pending = append(pending, c.weightPrice)
		case classProduct:
			var priceKg string
			if len(pending) > 0 {
				priceKg = pending[0]
				pending = pending[1:]
			}
			// Discount rows consume their pending weight-price but never
			// produce a record.
			if c.discount {
				continue
			}
			rec := c.record
			rec.PriceKg = priceKg
			rec.Date = date
			records = append(records, rec)
		}
	}

	return records
}

// ParseDocument extracts all product records from one document's text. The
// date is resolved once for the whole document and stamped on every record.
// A returned ErrInvalidDate does not invalidate the records; they carry an
// empty date instead.
func ParseDocument(text string) ([]Record, string, error) {
	date, dateErr := findDate(text)
	records := parseLines(strings.Split(text, "\n"), date)
	return records, date, dateErr
}
