package receipt

// Field identifies one semantic field captured from the rendered
// verification page. Extraction is keyed on these names, never on the
// visual position of an element.
type Field string

const (
	FieldTaxID                  Field = "tax_id"
	FieldShopName               Field = "shop_name"
	FieldShopAddress            Field = "shop_address"
	FieldCity                   Field = "city"
	FieldAdministrativeUnit     Field = "administrative_unit"
	FieldInvoiceNumber          Field = "invoice_number"
	FieldTimestamp              Field = "timestamp"
	FieldTotalAmount            Field = "total_amount"
	FieldDocumentCounter        Field = "document_counter"
	FieldTransactionTypeCounter Field = "transaction_type_counter"
	FieldPaymentMethod          Field = "payment_method"
	FieldStatus                 Field = "status"
	FieldItems                  Field = "items"
)

// RawFieldSet is the untyped capture of one rendered page. It is produced
// by the extractor and consumed immediately by the validator; it is never
// persisted and never shared between pipeline runs.
type RawFieldSet struct {
	Fields map[Field]string
	Items  []LineItemRaw
}

// Get returns the captured text for a field, or "" when the field was
// absent from the page (absence of an optional field is not an error).
func (r RawFieldSet) Get(field Field) string {
	return r.Fields[field]
}

// LineItemRaw is one purchased-item row exactly as rendered: all numeric
// values are still locale-formatted text. Row order is significant and must
// survive into the output.
type LineItemRaw struct {
	Name         string
	Quantity     string
	UnitPrice    string
	LineSum      string
	TaxBase      string
	VATAmount    string
	VATLabel     string
	PaymentLabel string
}
