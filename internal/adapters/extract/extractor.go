// Package extract maps a rendered verification page to the untyped raw
// field set. Fields are located through a fixed extraction table keyed on
// the stable element ids the portal's Knockout.js view model binds to,
// never by visual position.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"taxpoint/ms_receipt_core/internal/core/receipt"
)

// fieldSelectors is the typed extraction table: one stable selector per
// semantic field, iterated explicitly. All of these fields are optional at
// extraction time; required-ness is the validator's concern.
var fieldSelectors = []struct {
	field    receipt.Field
	selector string
}{
	{receipt.FieldTaxID, "span#tinLabel"},
	{receipt.FieldShopName, "span#shopFullNameLabel"},
	{receipt.FieldShopAddress, "span#addressLabel"},
	{receipt.FieldCity, "span#cityLabel"},
	{receipt.FieldAdministrativeUnit, "span#administrativeUnitLabel"},
	{receipt.FieldInvoiceNumber, "span#invoiceNumberLabel"},
	{receipt.FieldTimestamp, "span#sdcDateTimeLabel"},
	{receipt.FieldTotalAmount, "span#totalAmountLabel"},
	{receipt.FieldDocumentCounter, "span#totalCounterLabel"},
	{receipt.FieldTransactionTypeCounter, "span#transactionTypeCounterLabel"},
	{receipt.FieldPaymentMethod, "span#paymentTypeLabel"},
	{receipt.FieldStatus, "label#invoiceStatusLabel"},
}

// itemsSelector finds the specification table body the view model populates
// with one row per purchased item.
const itemsSelector = "tbody[data-bind*='Specifications'] tr"

// FieldExtractor reads semantic fields from rendered HTML.
type FieldExtractor struct{}

// New creates a FieldExtractor.
func New() *FieldExtractor {
	return &FieldExtractor{}
}

var _ receipt.Extractor = (*FieldExtractor)(nil)

// Extract parses the rendered document and captures every semantic field
// plus the ordered line items. A missing optional field yields an empty
// string; a missing line-items container yields an ExtractionError naming
// the items field.
func (e *FieldExtractor) Extract(html string) (receipt.RawFieldSet, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return receipt.RawFieldSet{}, &receipt.ExtractionError{Field: receipt.FieldItems}
	}

	raw := receipt.RawFieldSet{Fields: make(map[receipt.Field]string, len(fieldSelectors))}
	for _, entry := range fieldSelectors {
		raw.Fields[entry.field] = strings.TrimSpace(doc.Find(entry.selector).First().Text())
	}

	items := e.itemsFromBindings(doc)
	if len(items) == 0 {
		// The view model container is gone, or rendered without any parsable
		// rows; fall back to a shape-based scan before declaring the layout
		// broken.
		if fallback := e.itemsFromAnyTable(doc); fallback != nil {
			items = fallback
		}
	}
	if items == nil {
		return receipt.RawFieldSet{}, &receipt.ExtractionError{Field: receipt.FieldItems}
	}

	payment := raw.Fields[receipt.FieldPaymentMethod]
	for i := range items {
		items[i].PaymentLabel = payment
	}
	raw.Items = items
	return raw, nil
}

// itemsFromBindings extracts rows from the Knockout-bound specification
// table. Returns nil when the container itself is absent; an empty slice
// means the container exists but holds no rows.
func (e *FieldExtractor) itemsFromBindings(doc *goquery.Document) []receipt.LineItemRaw {
	container := doc.Find("tbody[data-bind*='Specifications']")
	if container.Length() == 0 {
		return nil
	}

	items := make([]receipt.LineItemRaw, 0)
	seen := make(map[string]bool)
	doc.Find(itemsSelector).Each(func(_ int, row *goquery.Selection) {
		item, ok := e.itemFromRow(row)
		if !ok {
			return
		}
		// The portal occasionally renders the bound table twice; keep the
		// first occurrence so row order is preserved.
		key := item.Name + "|" + item.Quantity + "|" + item.UnitPrice
		if seen[key] {
			return
		}
		seen[key] = true
		items = append(items, item)
	})
	return items
}

// itemsFromAnyTable scans every table row for the item shape: at least four
// cells with numeric quantity, price and sum. Used only when the bound
// container disappeared or produced no rows.
func (e *FieldExtractor) itemsFromAnyTable(doc *goquery.Document) []receipt.LineItemRaw {
	var items []receipt.LineItemRaw
	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		if item, ok := e.itemFromRow(row); ok {
			items = append(items, item)
		}
	})
	return items
}

// itemFromRow reads one specification row. Column layout is fixed by the
// portal: name, quantity, unit price, line sum, then optional tax base,
// VAT amount and tax label columns.
func (e *FieldExtractor) itemFromRow(row *goquery.Selection) (receipt.LineItemRaw, bool) {
	cells := row.Find("td, th")
	if cells.Length() < 4 {
		return receipt.LineItemRaw{}, false
	}

	texts := make([]string, cells.Length())
	cells.Each(func(i int, cell *goquery.Selection) {
		texts[i] = strings.TrimSpace(cell.Text())
	})

	item := receipt.LineItemRaw{
		Name:      texts[0],
		Quantity:  texts[1],
		UnitPrice: texts[2],
		LineSum:   texts[3],
	}
	if len(texts) > 4 {
		item.TaxBase = texts[4]
	}
	if len(texts) > 5 {
		item.VATAmount = texts[5]
	}
	if len(texts) > 6 {
		item.VATLabel = texts[6]
	}

	if item.Name == "" || !looksNumeric(item.Quantity) || !looksNumeric(item.UnitPrice) || !looksNumeric(item.LineSum) {
		return receipt.LineItemRaw{}, false
	}
	return item, true
}

// looksNumeric is a cheap shape check used to skip header and summary rows;
// exact parsing happens in the validator.
func looksNumeric(text string) bool {
	if text == "" {
		return false
	}
	digits := 0
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == ',' || r == '-' || r == ' ':
		default:
			return false
		}
	}
	return digits > 0
}
