package convert

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"taxpoint/ms_receipt_core/internal/core/receipt"
)

func fixedConverter() *Converter {
	ids := 0
	return New(
		WithIDGenerator(func() string {
			ids++
			return map[int]string{1: "aaaaaaaaaaaaaaaaaaaaaaaa", 2: "bbbbbbbbbbbbbbbbbbbbbbbb"}[ids]
		}),
		WithClock(func() time.Time {
			return time.Date(2025, 7, 21, 15, 0, 0, 0, time.UTC)
		}),
	)
}

func sourceReceipt() *receipt.SourceReceipt {
	return &receipt.SourceReceipt{
		TaxID:                  "112233445",
		ShopName:               "1234567-Продавница 1",
		ShopAddress:            "УЛИЦА БР 1",
		City:                   "Београд",
		InvoiceNumber:          "PW4F7L3V-PW4F7L3V-1234",
		Status:                 "Проверен",
		Timestamp:              time.Date(2025, 7, 21, 14, 3, 57, 0, time.UTC),
		TotalAmount:            decimal.RequireFromString("1839.96"),
		DocumentCounter:        1234,
		TransactionTypeCounter: 1198,
		Items: []receipt.LineItem{
			{
				Name:        "Хлеб бели 500г",
				Quantity:    decimal.RequireFromString("2"),
				UnitPrice:   decimal.RequireFromString("39.99"),
				LineSum:     decimal.RequireFromString("79.98"),
				VATRate:     receipt.VATRateReduced,
				PaymentType: receipt.PaymentCash,
			},
			{
				Name:        "Млеко 2.8% 1л",
				Quantity:    decimal.RequireFromString("1"),
				UnitPrice:   decimal.RequireFromString("1759.98"),
				LineSum:     decimal.RequireFromString("1759.98"),
				VATRate:     receipt.VATRateStandard,
				PaymentType: receipt.PaymentCash,
			},
		},
	}
}

func TestConvert_ContractConstants(t *testing.T) {
	rec := fixedConverter().Convert(sourceReceipt()).Ticket.Document.Receipt

	if rec.Code != 3 {
		t.Errorf("expected code 3, got %d", rec.Code)
	}
	if rec.FiscalDocumentFormatVer != 4 {
		t.Errorf("expected format version 4, got %d", rec.FiscalDocumentFormatVer)
	}
	if rec.FiscalDriveNumber != "0000000000000000" {
		t.Errorf("unexpected fiscal drive number %q", rec.FiscalDriveNumber)
	}
	if rec.FnsURL != "www.nalog.gov.rs" {
		t.Errorf("unexpected fns url %q", rec.FnsURL)
	}
	if rec.OperationType != 1 {
		t.Errorf("expected operation type 1, got %d", rec.OperationType)
	}
	if rec.TaxationType != 2 || rec.AppliedTaxationType != 2 {
		t.Errorf("expected taxation type 2/2, got %d/%d", rec.TaxationType, rec.AppliedTaxationType)
	}
}

func TestConvert_FieldMapping(t *testing.T) {
	record := fixedConverter().Convert(sourceReceipt())
	rec := record.Ticket.Document.Receipt

	if record.ID != "aaaaaaaaaaaaaaaaaaaaaaaa" {
		t.Errorf("unexpected record id %q", record.ID)
	}
	if record.CreatedAt != "2025-07-21T15:00:00Z" {
		t.Errorf("unexpected createdAt %q", record.CreatedAt)
	}
	if rec.DateTime != "2025-07-21T14:03:57" {
		t.Errorf("unexpected dateTime %q", rec.DateTime)
	}
	if rec.TotalSum != 183996 {
		t.Errorf("expected total 183996 minor units, got %d", rec.TotalSum)
	}
	if rec.EcashTotalSum != 183996 {
		t.Errorf("expected full total as electronic settlement, got %d", rec.EcashTotalSum)
	}
	if rec.CashTotalSum != 0 {
		t.Errorf("expected zero cash total, got %d", rec.CashTotalSum)
	}
	if rec.FiscalDocumentNumber != 1234 {
		t.Errorf("unexpected fiscal document number %d", rec.FiscalDocumentNumber)
	}
	if rec.FiscalSign != 1198 {
		t.Errorf("unexpected fiscal sign %d", rec.FiscalSign)
	}
	if rec.KktRegID != "112233445" || rec.UserInn != "112233445" {
		t.Errorf("expected tax id in kktRegId and userInn, got %q/%q", rec.KktRegID, rec.UserInn)
	}
	if rec.RetailPlace != "1234567-Продавница 1" || rec.User != "1234567-Продавница 1" {
		t.Errorf("expected shop name in retailPlace and user, got %q/%q", rec.RetailPlace, rec.User)
	}
	if rec.RetailPlaceAddress != "УЛИЦА БР 1, Београд" {
		t.Errorf("unexpected retailPlaceAddress %q", rec.RetailPlaceAddress)
	}
}

func TestConvert_Items(t *testing.T) {
	rec := fixedConverter().Convert(sourceReceipt()).Ticket.Document.Receipt

	if len(rec.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(rec.Items))
	}

	first := rec.Items[0]
	if first.Name != "Хлеб бели 500г" {
		t.Errorf("unexpected name %q", first.Name)
	}
	if first.Quantity != json.Number("2") {
		t.Errorf("unexpected quantity %v", first.Quantity)
	}
	if first.Price != 3999 {
		t.Errorf("expected price 3999 minor units, got %d", first.Price)
	}
	if first.Sum != 7998 {
		t.Errorf("expected sum 7998 minor units, got %d", first.Sum)
	}
	if first.Nds != 2 {
		t.Errorf("expected nds 2 for reduced rate, got %d", first.Nds)
	}
	if first.PaymentType != 4 {
		t.Errorf("expected paymentType 4 for cash, got %d", first.PaymentType)
	}
	if first.ProductType != 1 {
		t.Errorf("expected productType 1, got %d", first.ProductType)
	}

	if rec.Items[1].Nds != 3 {
		t.Errorf("expected nds 3 for standard rate, got %d", rec.Items[1].Nds)
	}
}

func TestConvert_VATAggregation(t *testing.T) {
	src := sourceReceipt()
	src.Items = []receipt.LineItem{
		{Name: "a", Quantity: decimal.New(1, 0), LineSum: decimal.New(100, 0), VATRate: receipt.VATRateStandard},
		{Name: "b", Quantity: decimal.New(1, 0), LineSum: decimal.New(50, 0), VATRate: receipt.VATRateReduced},
		{Name: "c", Quantity: decimal.New(1, 0), LineSum: decimal.New(25, 0), VATRate: receipt.VATRateStandard},
	}

	rec := fixedConverter().Convert(src).Ticket.Document.Receipt
	if rec.AmountsReceiptNds == nil {
		t.Fatal("expected VAT aggregation table")
	}

	buckets := rec.AmountsReceiptNds.AmountsNds
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	// First-seen order: standard (3) before reduced (2).
	if buckets[0].Nds != 3 || buckets[0].NdsSum != 12500 {
		t.Errorf("unexpected first bucket %+v", buckets[0])
	}
	if buckets[1].Nds != 2 || buckets[1].NdsSum != 5000 {
		t.Errorf("unexpected second bucket %+v", buckets[1])
	}
}

func TestConvert_UnrecognizedLabelsFallBack(t *testing.T) {
	src := sourceReceipt()
	src.Items[0].VATRate = receipt.VATRateUnrecognized
	src.Items[0].PaymentType = receipt.PaymentUnrecognized

	rec := fixedConverter().Convert(src).Ticket.Document.Receipt
	if rec.Items[0].Nds != 2 {
		t.Errorf("expected fallback nds 2, got %d", rec.Items[0].Nds)
	}
	if rec.Items[0].PaymentType != 4 {
		t.Errorf("expected fallback paymentType 4, got %d", rec.Items[0].PaymentType)
	}
}

func TestConvert_FreshIdentifierPerCall(t *testing.T) {
	c := fixedConverter()
	first := c.Convert(sourceReceipt())
	second := c.Convert(sourceReceipt())

	if first.ID == second.ID {
		t.Errorf("expected distinct identifiers, both %q", first.ID)
	}

	// Everything except the identifier is identical for identical input.
	if first.Ticket.Document.Receipt.TotalSum != second.Ticket.Document.Receipt.TotalSum {
		t.Error("expected identical receipts for identical input")
	}
}

func TestConvert_QuantityRendersAsJSONNumber(t *testing.T) {
	src := sourceReceipt()
	src.Items = src.Items[:1]
	src.Items[0].Quantity = decimal.RequireFromString("0.486")

	record := fixedConverter().Convert(src)
	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// The weight must serialize as a bare number, not a string.
	if !strings.Contains(string(data), `"quantity":0.486`) {
		t.Errorf("expected bare numeric quantity in %s", data)
	}
}
