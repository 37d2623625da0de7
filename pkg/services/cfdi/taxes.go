package cfdi

import (
	"sort"
	"strconv"
	"strings"
)

// VAT-16% sentinel: a transfer line with this tax code and rate feeds the
// "Traslado IVA 0.160000 %" column.
const (
	vatTaxCode = "002"
	vatRate16  = "0.160000"
)

type taxTotals struct {
	transferred string
	names       string
	vat16       string
	withheld    string
}

// aggregateTaxes computes the transferred/withheld totals and the VAT-16%
// line for one document.
//
// The document-level TotalImpuestosTrasladados attribute, when present, is
// authoritative and used verbatim; the issuer already certified it. The
// itemized transfer lines are scanned either way, because the tax-code set
// and the VAT-16% amount only exist per line. Without the summary attribute
// the transferred total is the sum of every itemized line, with unparsable
// amounts contributing zero. Withheld tax has no summary shortcut and is
// always summed from the itemized lines.
func aggregateTaxes(doc *comprobante) taxTotals {
	traslados, retenciones := collectTaxLines(doc)

	names := make(map[string]struct{})
	var vat16 string
	for _, t := range traslados {
		if t.Impuesto != "" {
			names[t.Impuesto] = struct{}{}
		}
		if t.Impuesto == vatTaxCode && t.TasaOCuota == vatRate16 {
			vat16 = t.Importe
		}
	}

	var transferred string
	if doc.Impuestos != nil && doc.Impuestos.TotalImpuestosTrasladados != nil {
		transferred = *doc.Impuestos.TotalImpuestosTrasladados
	} else {
		var sum float64
		for _, t := range traslados {
			sum += parseAmount(t.Importe)
		}
		transferred = formatAmount(sum)
	}

	var withheld float64
	for _, r := range retenciones {
		withheld += parseAmount(r.Importe)
	}

	return taxTotals{
		transferred: transferred,
		names:       joinSorted(names),
		vat16:       vat16,
		withheld:    formatAmount(withheld),
	}
}

// collectTaxLines gathers every itemized transfer and withholding line in
// document order: per-concept lines first, then the document-level summary
// lines, so a document-level VAT entry wins the VAT-16% slot.
func collectTaxLines(doc *comprobante) ([]trasladoXML, []retencionXML) {
	var traslados []trasladoXML
	var retenciones []retencionXML

	add := func(imp *impuestosXML) {
		if imp == nil {
			return
		}
		traslados = append(traslados, imp.Traslados.Traslados...)
		retenciones = append(retenciones, imp.Retenciones.Retenciones...)
	}

	for _, c := range doc.Conceptos.Conceptos {
		add(c.Impuestos)
	}
	add(doc.Impuestos)

	return traslados, retenciones
}

// parseAmount coerces a monetary string; anything unparsable contributes
// zero rather than failing the document.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func joinSorted(set map[string]struct{}) string {
	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return strings.Join(codes, ", ")
}
