package invoicing

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/invo/backend/internal/domain/shared"
)

// InvoiceNumberPrefix is the fixed prefix of every invoice number.
const InvoiceNumberPrefix = "INV"

// ErrInvalidInvoiceNumber is returned when parsing a malformed invoice number.
var ErrInvalidInvoiceNumber = shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number does not match INV-YYYYMMDD-NNNN")

// DateKey renders the calendar day of t (UTC) as the 8-digit date segment
// used to partition daily sequences.
func DateKey(t time.Time) string {
	return t.UTC().Format("20060102")
}

// FormatInvoiceNumber renders a date key and daily sequence into the canonical
// invoice number. The sequence is zero-padded to 4 digits; values beyond 9999
// widen rather than truncate.
func FormatInvoiceNumber(dateKey string, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", InvoiceNumberPrefix, dateKey, seq)
}

var invoiceNumberPattern = regexp.MustCompile(`^INV-(\d{8})-(\d{4,})$`)

// ParseInvoiceNumber parses a canonical invoice number back into its date key
// and sequence. Anything that does not match the fixed pattern (8-digit date,
// literal dashes, at least 4 sequence digits) fails with
// ErrInvalidInvoiceNumber.
func ParseInvoiceNumber(s string) (string, int64, error) {
	m := invoiceNumberPattern.FindStringSubmatch(s)
	if m == nil {
		return "", 0, ErrInvalidInvoiceNumber
	}
	seq, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil || seq < 1 {
		return "", 0, ErrInvalidInvoiceNumber
	}
	return m[1], seq, nil
}
