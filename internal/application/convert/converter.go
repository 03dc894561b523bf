// Package convert maps a validated source receipt onto the fixed external
// target contract: field renames, enum remapping, minor-unit scaling, a VAT
// aggregation table and a synthetic identifier.
package convert

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"taxpoint/ms_receipt_core/internal/core/receipt"
	"taxpoint/ms_receipt_core/internal/core/target"
)

// Contract constants fixed by the target schema.
const (
	documentCode      = 3
	documentFormatVer = 4
	fiscalDriveNumber = "0000000000000000"
	fnsURL            = "www.nalog.gov.rs"
	operationSale     = 1
	taxationSimple    = 2
	productTypeGoods  = 1
)

// Fallback output codes for labels validation classified as unrecognized.
const (
	fallbackNdsCode     = 2 // 10%
	fallbackPaymentCode = 4
)

// ndsCodes remaps domain VAT rates onto the target nds enum.
var ndsCodes = map[receipt.VATRate]int{
	receipt.VATRateExempt:   1,
	receipt.VATRateReduced:  2,
	receipt.VATRateStandard: 3,
}

// paymentCodes remaps domain payment types onto the target paymentType
// enum.
var paymentCodes = map[receipt.PaymentType]int{
	receipt.PaymentCash:       4,
	receipt.PaymentCard:       1,
	receipt.PaymentElectronic: 2,
	receipt.PaymentCredit:     3,
	receipt.PaymentPrepaid:    5,
	receipt.PaymentProvision:  6,
}

// Converter produces target records. It is pure and deterministic apart
// from identifier generation and the capture timestamp; both are
// injectable so tests can pin them.
type Converter struct {
	newID func() string
	now   func() time.Time
}

// Option customizes a Converter.
type Option func(*Converter)

// WithIDGenerator replaces the identifier source.
func WithIDGenerator(gen func() string) Option {
	return func(c *Converter) { c.newID = gen }
}

// WithClock replaces the capture-time source.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) { c.now = now }
}

// New creates a Converter. By default identifiers come from crypto/rand
// (see NewRecordID) and capture time from the wall clock.
func New(opts ...Option) *Converter {
	c := &Converter{
		newID: NewRecordID,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert maps src onto the target contract. A fresh identifier is drawn
// per call: converting the same receipt twice yields records that differ
// only in their identifiers and capture timestamps.
func (c *Converter) Convert(src *receipt.SourceReceipt) *target.Record {
	items := make([]target.Item, 0, len(src.Items))
	for _, item := range src.Items {
		items = append(items, target.Item{
			Name:        item.Name,
			Quantity:    json.Number(item.Quantity.String()),
			Price:       minorUnits(item.UnitPrice),
			Sum:         minorUnits(item.LineSum),
			Nds:         ndsCodeFor(item.VATRate),
			PaymentType: paymentCodeFor(item.PaymentType),
			ProductType: productTypeGoods,
		})
	}

	rec := target.Receipt{
		Code:                    documentCode,
		DateTime:                src.Timestamp.Format("2006-01-02T15:04:05"),
		FiscalDocumentFormatVer: documentFormatVer,
		FiscalDocumentNumber:    src.DocumentCounter,
		FiscalDriveNumber:       fiscalDriveNumber,
		FiscalSign:              src.TransactionTypeCounter,
		FnsURL:                  fnsURL,
		Items:                   items,
		KktRegID:                src.TaxID,
		AmountsReceiptNds:       aggregateVAT(src.Items),
		OperationType:           operationSale,
		RetailPlace:             src.ShopName,
		RetailPlaceAddress:      src.ShopAddress + ", " + src.City,
		TaxationType:            taxationSimple,
		AppliedTaxationType:     taxationSimple,
		TotalSum:                minorUnits(src.TotalAmount),
		User:                    src.ShopName,
		UserInn:                 src.TaxID,
	}
	// The portal cannot tell cash from card settlement apart reliably, so
	// the whole total is reported as electronic settlement.
	rec.EcashTotalSum = rec.TotalSum

	return &target.Record{
		ID:        c.newID(),
		CreatedAt: c.now().Format(time.RFC3339),
		Ticket:    target.Ticket{Document: target.Document{Receipt: rec}},
	}
}

// aggregateVAT builds one bucket per distinct rate code: the code and the
// sum of line sums carrying it, in first-seen order of the codes.
func aggregateVAT(items []receipt.LineItem) *target.AmountsReceiptNds {
	if len(items) == 0 {
		return nil
	}

	sums := make(map[int]int64, 4)
	order := make([]int, 0, 4)
	for _, item := range items {
		code := ndsCodeFor(item.VATRate)
		if _, ok := sums[code]; !ok {
			order = append(order, code)
		}
		sums[code] += minorUnits(item.LineSum)
	}

	buckets := make([]target.AmountsNds, 0, len(order))
	for _, code := range order {
		buckets = append(buckets, target.AmountsNds{Nds: code, NdsSum: sums[code]})
	}
	return &target.AmountsReceiptNds{AmountsNds: buckets}
}

// minorUnits scales a major-unit decimal to integer minor units (dinars to
// para), rounding half away from zero on sub-para remainders.
func minorUnits(value decimal.Decimal) int64 {
	return value.Shift(2).Round(0).IntPart()
}

func ndsCodeFor(rate receipt.VATRate) int {
	if code, ok := ndsCodes[rate]; ok {
		return code
	}
	return fallbackNdsCode
}

func paymentCodeFor(pt receipt.PaymentType) int {
	if code, ok := paymentCodes[pt]; ok {
		return code
	}
	return fallbackPaymentCode
}
