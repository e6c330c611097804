package commission

import "strings"

// Table maps carrier codes to commission percentages. It is loaded
// once from configuration and read-only afterwards.
type Table struct {
	rates map[string]float64
}

// NewTable normalizes the configured rates to upper-case carrier
// codes.
func NewTable(rates map[string]float64) *Table {
	normalized := make(map[string]float64, len(rates))
	for code, pct := range rates {
		normalized[strings.ToUpper(strings.TrimSpace(code))] = pct
	}
	return &Table{rates: normalized}
}

// For returns the commission percentage for a carrier code. Lookup is
// case-insensitive; an empty or unknown code earns 0, never an error.
func (t *Table) For(carrierCode string) float64 {
	code := strings.ToUpper(strings.TrimSpace(carrierCode))
	if code == "" {
		return 0
	}
	return t.rates[code]
}
