// Package target holds the output schema of the conversion: a fixed
// external JSON contract mirroring the Russian fiscal receipt format.
// Field names and nesting must not change.
package target

import "encoding/json"

// Record is the top-level converted receipt.
type Record struct {
	// ID is a 24-character opaque token generated fresh per conversion. It
	// is never derived from the input: converting the same receipt twice
	// yields two different identifiers.
	ID string `json:"_id"`

	// CreatedAt is the capture time (not the receipt time), RFC 3339 with
	// timezone offset.
	CreatedAt string `json:"createdAt"`

	Ticket Ticket `json:"ticket"`
}

// Ticket wraps the document, per the contract nesting.
type Ticket struct {
	Document Document `json:"document"`
}

// Document wraps the receipt, per the contract nesting.
type Document struct {
	Receipt Receipt `json:"receipt"`
}

// Receipt is the fiscal receipt body. All monetary fields are integers in
// minor currency units.
type Receipt struct {
	CashTotalSum            int64              `json:"cashTotalSum"`
	Code                    int                `json:"code"`
	CreditSum               int64              `json:"creditSum"`
	DateTime                string             `json:"dateTime"` // ISO-8601, no offset
	EcashTotalSum           int64              `json:"ecashTotalSum"`
	FiscalDocumentFormatVer int                `json:"fiscalDocumentFormatVer"`
	FiscalDocumentNumber    int64              `json:"fiscalDocumentNumber"`
	FiscalDriveNumber       string             `json:"fiscalDriveNumber"`
	FiscalSign              int64              `json:"fiscalSign"`
	FnsURL                  string             `json:"fnsUrl"`
	Items                   []Item             `json:"items"`
	KktRegID                string             `json:"kktRegId"`
	Nds0                    int64              `json:"nds0"`
	AmountsReceiptNds       *AmountsReceiptNds `json:"amountsReceiptNds,omitempty"`
	OperationType           int                `json:"operationType"`
	Operator                *string            `json:"operator"`
	PrepaidSum              int64              `json:"prepaidSum"`
	ProvisionSum            int64              `json:"provisionSum"`
	RequestNumber           *int64             `json:"requestNumber"`
	RetailPlace             string             `json:"retailPlace"`
	RetailPlaceAddress      string             `json:"retailPlaceAddress"`
	ShiftNumber             *int64             `json:"shiftNumber"`
	TaxationType            int                `json:"taxationType"`
	AppliedTaxationType     int                `json:"appliedTaxationType"`
	TotalSum                int64              `json:"totalSum"`
	User                    string             `json:"user"`
	UserInn                 string             `json:"userInn"`
}

// Item is one purchased line in the output schema.
type Item struct {
	Name        string      `json:"name"`
	Quantity    json.Number `json:"quantity"`
	Price       int64       `json:"price"`
	Sum         int64       `json:"sum"`
	Nds         int         `json:"nds"`
	PaymentType int         `json:"paymentType"`
	ProductType int         `json:"productType"`
}

// AmountsNds is one VAT aggregation bucket: the rate code and the summed
// line totals (minor units) of every item carrying that code.
type AmountsNds struct {
	Nds    int   `json:"nds"`
	NdsSum int64 `json:"ndsSum"`
}

// AmountsReceiptNds holds the VAT aggregation table in first-seen rate
// code order.
type AmountsReceiptNds struct {
	AmountsNds []AmountsNds `json:"amountsNds"`
}
