// Package validate turns a raw field set into a typed source receipt, or
// rejects it with the complete list of field-level failures.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"taxpoint/ms_receipt_core/internal/core/receipt"
)

// Validator assembles and validates source receipts. The code tables are
// immutable and shared by every run.
type Validator struct {
	codes receipt.CodeTables
}

// New creates a Validator bound to the given code tables.
func New(codes receipt.CodeTables) *Validator {
	return &Validator{codes: codes}
}

// Validate builds a SourceReceipt from the raw capture. Every field-level
// failure is collected before returning, so the resulting ValidationError
// names all offending fields rather than the first one encountered.
//
// Unknown VAT and payment labels do not fail validation: they map to the
// unrecognized variants so the converter can still emit a best-effort
// record.
func (v *Validator) Validate(raw receipt.RawFieldSet) (*receipt.SourceReceipt, error) {
	var faults []receipt.FieldFault
	fail := func(field receipt.Field, format string, args ...any) {
		faults = append(faults, receipt.FieldFault{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	src := &receipt.SourceReceipt{
		TaxID:              strings.TrimSpace(raw.Get(receipt.FieldTaxID)),
		ShopName:           strings.TrimSpace(raw.Get(receipt.FieldShopName)),
		ShopAddress:        strings.TrimSpace(raw.Get(receipt.FieldShopAddress)),
		City:               strings.TrimSpace(raw.Get(receipt.FieldCity)),
		AdministrativeUnit: strings.TrimSpace(raw.Get(receipt.FieldAdministrativeUnit)),
		InvoiceNumber:      strings.TrimSpace(raw.Get(receipt.FieldInvoiceNumber)),
		Status:             strings.TrimSpace(raw.Get(receipt.FieldStatus)),
	}

	if src.TaxID == "" {
		fail(receipt.FieldTaxID, "required field is empty")
	}
	if src.ShopName == "" {
		fail(receipt.FieldShopName, "required field is empty")
	}

	if text := strings.TrimSpace(raw.Get(receipt.FieldTimestamp)); text == "" {
		fail(receipt.FieldTimestamp, "required field is empty")
	} else if ts, err := receipt.ParseTimestamp(text); err != nil {
		fail(receipt.FieldTimestamp, "unparseable timestamp %q", text)
	} else {
		src.Timestamp = ts
	}

	if text := strings.TrimSpace(raw.Get(receipt.FieldTotalAmount)); text == "" {
		fail(receipt.FieldTotalAmount, "required field is empty")
	} else if total, err := receipt.ParseDecimal(text); err != nil {
		fail(receipt.FieldTotalAmount, "%v", err)
	} else if total.IsNegative() {
		fail(receipt.FieldTotalAmount, "must not be negative, got %s", total)
	} else {
		src.TotalAmount = total
	}

	src.DocumentCounter = v.counter(raw, receipt.FieldDocumentCounter, fail)
	src.TransactionTypeCounter = v.counter(raw, receipt.FieldTransactionTypeCounter, fail)

	if len(raw.Items) == 0 {
		fail(receipt.FieldItems, "at least one line item is required")
	}
	src.Items = make([]receipt.LineItem, 0, len(raw.Items))
	for i, rawItem := range raw.Items {
		item, itemFaults := v.validateItem(i, rawItem)
		if len(itemFaults) > 0 {
			faults = append(faults, itemFaults...)
			continue
		}
		src.Items = append(src.Items, item)
	}

	if len(faults) > 0 {
		return nil, &receipt.ValidationError{Faults: faults}
	}
	return src, nil
}

// counter parses a non-negative integer counter field. Counters are
// optional on some receipt types, so an empty field parses to zero.
func (v *Validator) counter(raw receipt.RawFieldSet, field receipt.Field, fail func(receipt.Field, string, ...any)) int64 {
	text := strings.TrimSpace(raw.Get(field))
	if text == "" {
		return 0
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		fail(field, "not an integer: %q", text)
		return 0
	}
	if n < 0 {
		fail(field, "must not be negative, got %d", n)
		return 0
	}
	return n
}

// validateItem parses one raw row. Faults are reported against the items
// field with the row index so the complete diagnosis stays in one error.
func (v *Validator) validateItem(index int, raw receipt.LineItemRaw) (receipt.LineItem, []receipt.FieldFault) {
	var faults []receipt.FieldFault
	fail := func(format string, args ...any) {
		faults = append(faults, receipt.FieldFault{
			Field:  receipt.FieldItems,
			Reason: fmt.Sprintf("item %d: %s", index+1, fmt.Sprintf(format, args...)),
		})
	}

	item := receipt.LineItem{
		Name:        strings.TrimSpace(raw.Name),
		VATRate:     v.codes.VATRateFor(raw.VATLabel),
		PaymentType: v.codes.PaymentTypeFor(raw.PaymentLabel),
	}
	if item.Name == "" {
		fail("name is empty")
	}

	parse := func(what string, text string) decimal.Decimal {
		value, err := receipt.ParseDecimal(text)
		if err != nil {
			fail("%s: %v", what, err)
			return decimal.Zero
		}
		return value
	}

	item.Quantity = parse("quantity", raw.Quantity)
	item.UnitPrice = parse("unit price", raw.UnitPrice)
	item.LineSum = parse("line sum", raw.LineSum)

	if len(faults) == 0 && !item.Quantity.IsPositive() {
		fail("quantity must be positive, got %s", item.Quantity)
	}
	return item, faults
}
