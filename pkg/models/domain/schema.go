package domain

// Columns is the export/checkpoint column order. Headers keep the Spanish
// names of the SAT attributes so checkpoints stay compatible across tools;
// the classification flag column (Deducible/Seleccionar) is appended per
// dataset kind.
var Columns = []string{
	"XML",
	"Rfc Emisor",
	"Nombre Emisor",
	"Régimen Fiscal Emisor",
	"Rfc Receptor",
	"Nombre Receptor",
	"CP Receptor",
	"Régimen Receptor",
	"Uso Cfdi Receptor",
	"Tipo",
	"Serie",
	"Folio",
	"Fecha",
	"Sub Total",
	"Descuento",
	"Total impuesto Trasladado",
	"Nombre Impuesto",
	"Total impuesto Retenido",
	"Total",
	"UUID",
	"Método de Pago",
	"Forma de Pago",
	"Moneda",
	"Tipo de Cambio",
	"Versión",
	"Estado",
	"Estatus",
	"Validación EFOS",
	"Fecha Consulta",
	"Conceptos",
	"Relacionados",
	"Tipo Relación",
	"Traslado IVA 0.160000 %",
}

// SummaryColumns is the fixed monetary column set used for period sums.
var SummaryColumns = []string{
	"Sub Total",
	"Descuento",
	"Total impuesto Trasladado",
	"Total impuesto Retenido",
	"Total",
	"Traslado IVA 0.160000 %",
}

// NumericColumns lists the columns rendered with a numeric cell format on
// spreadsheet export.
var NumericColumns = []string{
	"Sub Total",
	"Descuento",
	"Total impuesto Trasladado",
	"Total impuesto Retenido",
	"Total",
	"Tipo de Cambio",
}

// Value returns the cell for a named column. Unknown columns yield "".
func (r Record) Value(column string) string {
	switch column {
	case "XML":
		return r.SourceFile
	case "Rfc Emisor":
		return r.IssuerRFC
	case "Nombre Emisor":
		return r.IssuerName
	case "Régimen Fiscal Emisor":
		return r.IssuerRegime
	case "Rfc Receptor":
		return r.ReceiverRFC
	case "Nombre Receptor":
		return r.ReceiverName
	case "CP Receptor":
		return r.ReceiverZip
	case "Régimen Receptor":
		return r.ReceiverRegime
	case "Uso Cfdi Receptor":
		return r.CFDIUse
	case "Tipo":
		return r.Kind
	case "Serie":
		return r.Series
	case "Folio":
		return r.Folio
	case "Fecha":
		return r.Date
	case "Sub Total":
		return r.SubTotal
	case "Descuento":
		return r.Discount
	case "Total impuesto Trasladado":
		return r.TaxTransferred
	case "Nombre Impuesto":
		return r.TaxNames
	case "Total impuesto Retenido":
		return r.TaxWithheld
	case "Total":
		return r.Total
	case "UUID":
		return r.UUID
	case "Método de Pago":
		return r.PaymentMethod
	case "Forma de Pago":
		return r.PaymentForm
	case "Moneda":
		return r.Currency
	case "Tipo de Cambio":
		return r.ExchangeRate
	case "Versión":
		return r.Version
	case "Estado":
		return r.State
	case "Estatus":
		return r.Status
	case "Validación EFOS":
		return r.EFOSCheck
	case "Fecha Consulta":
		return r.CheckedAt
	case "Conceptos":
		return r.Concepts
	case "Relacionados":
		return r.RelatedUUIDs
	case "Tipo Relación":
		return r.RelationType
	case "Traslado IVA 0.160000 %":
		return r.VAT16
	}
	return ""
}

// SetValue assigns a named column. Unknown columns are ignored, which lets
// checkpoint loaders tolerate extra columns.
func (r *Record) SetValue(column, value string) {
	switch column {
	case "XML":
		r.SourceFile = value
	case "Rfc Emisor":
		r.IssuerRFC = value
	case "Nombre Emisor":
		r.IssuerName = value
	case "Régimen Fiscal Emisor":
		r.IssuerRegime = value
	case "Rfc Receptor":
		r.ReceiverRFC = value
	case "Nombre Receptor":
		r.ReceiverName = value
	case "CP Receptor":
		r.ReceiverZip = value
	case "Régimen Receptor":
		r.ReceiverRegime = value
	case "Uso Cfdi Receptor":
		r.CFDIUse = value
	case "Tipo":
		r.Kind = value
	case "Serie":
		r.Series = value
	case "Folio":
		r.Folio = value
	case "Fecha":
		r.Date = value
	case "Sub Total":
		r.SubTotal = value
	case "Descuento":
		r.Discount = value
	case "Total impuesto Trasladado":
		r.TaxTransferred = value
	case "Nombre Impuesto":
		r.TaxNames = value
	case "Total impuesto Retenido":
		r.TaxWithheld = value
	case "Total":
		r.Total = value
	case "UUID":
		r.UUID = value
	case "Método de Pago":
		r.PaymentMethod = value
	case "Forma de Pago":
		r.PaymentForm = value
	case "Moneda":
		r.Currency = value
	case "Tipo de Cambio":
		r.ExchangeRate = value
	case "Versión":
		r.Version = value
	case "Estado":
		r.State = value
	case "Estatus":
		r.Status = value
	case "Validación EFOS":
		r.EFOSCheck = value
	case "Fecha Consulta":
		r.CheckedAt = value
	case "Conceptos":
		r.Concepts = value
	case "Relacionados":
		r.RelatedUUIDs = value
	case "Tipo Relación":
		r.RelationType = value
	case "Traslado IVA 0.160000 %":
		r.VAT16 = value
	}
}

// Row renders the record in Columns order, without the flag column.
func (r Record) Row() []string {
	row := make([]string, len(Columns))
	for i, col := range Columns {
		row[i] = r.Value(col)
	}
	return row
}
