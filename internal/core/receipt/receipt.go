package receipt

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceReceipt is the validated, typed fiscal record extracted from one
// verification page. It is constructed once per pipeline run, immutable
// after construction and discarded after conversion.
type SourceReceipt struct {
	TaxID              string
	ShopName           string
	ShopAddress        string
	City               string
	AdministrativeUnit string
	InvoiceNumber      string
	Status             string

	// Timestamp is the fiscalization time printed on the receipt, in the
	// fixed Serbian layout (see ParseTimestamp).
	Timestamp time.Time

	// TotalAmount is the receipt total. It is carried independently of the
	// item line sums: the two need not match exactly and the converter must
	// never re-derive one from the other.
	TotalAmount decimal.Decimal

	DocumentCounter        int64
	TransactionTypeCounter int64

	// Items preserves the row order of the rendered specification table.
	Items []LineItem
}

// LineItem is one validated purchased-item row.
type LineItem struct {
	Name        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineSum     decimal.Decimal
	VATRate     VATRate
	PaymentType PaymentType
}

// Equal reports field-by-field equality, used to assert that extraction and
// validation of the same rendered page is deterministic.
func (r *SourceReceipt) Equal(other *SourceReceipt) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.TaxID != other.TaxID ||
		r.ShopName != other.ShopName ||
		r.ShopAddress != other.ShopAddress ||
		r.City != other.City ||
		r.AdministrativeUnit != other.AdministrativeUnit ||
		r.InvoiceNumber != other.InvoiceNumber ||
		r.Status != other.Status ||
		!r.Timestamp.Equal(other.Timestamp) ||
		!r.TotalAmount.Equal(other.TotalAmount) ||
		r.DocumentCounter != other.DocumentCounter ||
		r.TransactionTypeCounter != other.TransactionTypeCounter ||
		len(r.Items) != len(other.Items) {
		return false
	}
	for i := range r.Items {
		a, b := r.Items[i], other.Items[i]
		if a.Name != b.Name ||
			!a.Quantity.Equal(b.Quantity) ||
			!a.UnitPrice.Equal(b.UnitPrice) ||
			!a.LineSum.Equal(b.LineSum) ||
			a.VATRate != b.VATRate ||
			a.PaymentType != b.PaymentType {
			return false
		}
	}
	return true
}
