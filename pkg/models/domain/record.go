package domain

// Kind identifies which of the two session datasets a record belongs to.
type Kind string

const (
	KindReceived Kind = "recibidos"
	KindIssued   Kind = "emitidos"
)

// SheetName returns the checkpoint sheet name for the dataset kind.
func (k Kind) SheetName() string {
	if k == KindIssued {
		return "Emitidos"
	}
	return "Recibidos"
}

// FlagColumn returns the classification column header for the dataset kind:
// "Deducible" for received documents, "Seleccionar" for issued ones.
func (k Kind) FlagColumn() string {
	if k == KindIssued {
		return "Seleccionar"
	}
	return "Deducible"
}

// Record is one CFDI document flattened to a tabular row. Values keep the
// raw string form of the source attributes; monetary fields are
// numeric-convertible strings and are coerced only at summarization and
// export time.
type Record struct {
	SourceFile     string
	IssuerRFC      string
	IssuerName     string
	IssuerRegime   string
	ReceiverRFC    string
	ReceiverName   string
	ReceiverZip    string
	ReceiverRegime string
	CFDIUse        string
	Kind           string
	Series         string
	Folio          string
	Date           string
	SubTotal       string
	Discount       string
	TaxTransferred string
	TaxNames       string
	TaxWithheld    string
	Total          string
	UUID           string
	PaymentMethod  string
	PaymentForm    string
	Currency       string
	ExchangeRate   string
	Version        string
	State          string
	Status         string
	EFOSCheck      string
	CheckedAt      string
	Concepts       string
	RelatedUUIDs   string
	RelationType   string
	VAT16          string

	// Included is the per-row classification flag: Deducible on received
	// datasets, Seleccionar on issued ones. New batches default to true.
	Included bool
}

// Dataset is the ordered collection of records owned by the session state.
// Only the dataset service appends or removes rows.
type Dataset []Record
