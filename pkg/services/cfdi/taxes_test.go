package cfdi

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractTaxes(t *testing.T, doc string) taxTotals {
	t.Helper()
	var c comprobante
	require.NoError(t, xml.Unmarshal([]byte(doc), &c))
	return aggregateTaxes(&c)
}

func TestAggregateSummaryAttributeAuthoritative(t *testing.T) {
	// Summary attribute present, no itemized lines: used verbatim.
	doc := `<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/4">
	  <cfdi:Impuestos TotalImpuestosTrasladados="160.00"/>
	</cfdi:Comprobante>`

	got := extractTaxes(t, doc)
	assert.Equal(t, "160.00", got.transferred)
	assert.Empty(t, got.names)
	assert.Empty(t, got.vat16)
}

func TestAggregateFallbackEquivalence(t *testing.T) {
	// One itemized line of 160.00 and no summary attribute must yield the
	// same transferred total as the explicit summary above.
	doc := `<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/4">
	  <cfdi:Impuestos>
	    <cfdi:Traslados>
	      <cfdi:Traslado Impuesto="002" TasaOCuota="0.160000" Importe="160.00"/>
	    </cfdi:Traslados>
	  </cfdi:Impuestos>
	</cfdi:Comprobante>`

	got := extractTaxes(t, doc)
	assert.Equal(t, "160.00", got.transferred)
	assert.Equal(t, "002", got.names)
	assert.Equal(t, "160.00", got.vat16)
}

func TestAggregateUnparsableAmountsContributeZero(t *testing.T) {
	doc := `<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/4">
	  <cfdi:Impuestos>
	    <cfdi:Traslados>
	      <cfdi:Traslado Impuesto="002" Importe="abc"/>
	      <cfdi:Traslado Impuesto="003" Importe="100.50"/>
	      <cfdi:Traslado Impuesto="001"/>
	    </cfdi:Traslados>
	    <cfdi:Retenciones>
	      <cfdi:Retencion Impuesto="001" Importe="not-a-number"/>
	      <cfdi:Retencion Impuesto="002" Importe="25.00"/>
	    </cfdi:Retenciones>
	  </cfdi:Impuestos>
	</cfdi:Comprobante>`

	got := extractTaxes(t, doc)
	assert.Equal(t, "100.50", got.transferred)
	assert.Equal(t, "25.00", got.withheld)
	assert.Equal(t, "001, 002, 003", got.names)
}

func TestAggregateVATLineRequiresCodeAndRate(t *testing.T) {
	// An IEPS line at 16% or a VAT line at another rate must not populate
	// the VAT-16% column.
	doc := `<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/4">
	  <cfdi:Impuestos>
	    <cfdi:Traslados>
	      <cfdi:Traslado Impuesto="003" TasaOCuota="0.160000" Importe="40.00"/>
	      <cfdi:Traslado Impuesto="002" TasaOCuota="0.080000" Importe="20.00"/>
	    </cfdi:Traslados>
	  </cfdi:Impuestos>
	</cfdi:Comprobante>`

	got := extractTaxes(t, doc)
	assert.Empty(t, got.vat16)
	assert.Equal(t, "60.00", got.transferred)
}

func TestAggregateConceptLevelLinesScanned(t *testing.T) {
	doc := `<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/4">
	  <cfdi:Conceptos>
	    <cfdi:Concepto Descripcion="A" Importe="100.00">
	      <cfdi:Impuestos>
	        <cfdi:Traslados>
	          <cfdi:Traslado Impuesto="002" TasaOCuota="0.160000" Importe="16.00"/>
	        </cfdi:Traslados>
	      </cfdi:Impuestos>
	    </cfdi:Concepto>
	  </cfdi:Conceptos>
	</cfdi:Comprobante>`

	got := extractTaxes(t, doc)
	assert.Equal(t, "16.00", got.transferred)
	assert.Equal(t, "16.00", got.vat16)
	assert.Equal(t, "002", got.names)
}
