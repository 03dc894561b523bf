package receipt

import "strings"

// VATRate is the domain tax-rate classification of a line item.
type VATRate string

const (
	VATRateExempt       VATRate = "exempt"
	VATRateReduced      VATRate = "reduced" // 10%
	VATRateStandard     VATRate = "standard" // 20%
	VATRateUnrecognized VATRate = "unrecognized"
)

// PaymentType is the domain payment classification of a line item.
type PaymentType string

const (
	PaymentCash         PaymentType = "cash"
	PaymentCard         PaymentType = "card"
	PaymentElectronic   PaymentType = "electronic"
	PaymentCredit       PaymentType = "credit"
	PaymentPrepaid      PaymentType = "prepaid"
	PaymentProvision    PaymentType = "provision"
	PaymentUnrecognized PaymentType = "unrecognized"
)

type vatEntry struct {
	token string
	rate  VATRate
}

type paymentEntry struct {
	token string
	kind  PaymentType
}

// CodeTables maps the label tokens printed on Serbian receipts to domain
// enum values. Entries are ordered: composite labels resolve to the first
// matching token, so the same label always yields the same value. The
// tables are built once at process start and never mutated; every
// validator and converter receives the same value.
type CodeTables struct {
	vat     []vatEntry
	payment []paymentEntry
}

// DefaultCodeTables builds the closed token sets used by the government
// verification portal. Cyrillic tax labels per the Serbian fiscalization
// scheme: А = exempt, Е = 10%, Ђ = 20%. The 20% tokens precede the 10%
// tokens, which precede the exempt ones; payment tokens list non-cash
// methods before cash.
func DefaultCodeTables() CodeTables {
	return CodeTables{
		vat: []vatEntry{
			{"Ђ", VATRateStandard},
			{"20", VATRateStandard},
			{"Е", VATRateReduced},
			{"E", VATRateReduced}, // latin homoglyph seen on some receipts
			{"10", VATRateReduced},
			{"А", VATRateExempt},
			{"A", VATRateExempt},
		},
		payment: []paymentEntry{
			{"платна картица", PaymentCard},
			{"platna kartica", PaymentCard},
			{"card", PaymentCard},
			{"пренос на рачун", PaymentElectronic},
			{"electronic", PaymentElectronic},
			{"ваучер", PaymentPrepaid},
			{"vaucer", PaymentPrepaid},
			{"prepaid", PaymentPrepaid},
			{"credit", PaymentCredit},
			{"готовина", PaymentCash},
			{"gotovina", PaymentCash},
			{"cash", PaymentCash},
		},
	}
}

// VATRateFor resolves a rendered tax label. Unknown labels resolve to
// VATRateUnrecognized rather than failing, so a best-effort record can
// still be emitted for edge-case receipts.
func (t CodeTables) VATRateFor(label string) VATRate {
	label = strings.TrimSpace(label)
	if label == "" {
		return VATRateUnrecognized
	}
	for _, e := range t.vat {
		if label == e.token {
			return e.rate
		}
	}
	// Composite labels such as "Е (10%)" carry the token inside.
	for _, e := range t.vat {
		if strings.Contains(label, e.token) {
			return e.rate
		}
	}
	return VATRateUnrecognized
}

// PaymentTypeFor resolves a rendered payment-method label, case-insensitive.
// Unknown labels resolve to PaymentUnrecognized.
func (t CodeTables) PaymentTypeFor(label string) PaymentType {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return PaymentUnrecognized
	}
	for _, e := range t.payment {
		if label == e.token {
			return e.kind
		}
	}
	for _, e := range t.payment {
		if strings.Contains(label, e.token) {
			return e.kind
		}
	}
	return PaymentUnrecognized
}
