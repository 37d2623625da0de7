// Package cfdi turns CFDI 4.0 XML documents into flat tabular records.
package cfdi

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/fiscal-tools/cfdi-atlas/pkg/models/domain"
	"github.com/fiscal-tools/cfdi-atlas/pkg/services/catalog"
)

const (
	cfdiNS = "http://www.sat.gob.mx/cfd/4"
	tfdNS  = "http://www.sat.gob.mx/TimbreFiscalDigital"
)

// ParseError reports a document that could not be decoded. Batch callers
// skip the document and keep going.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type comprobante struct {
	Version           string `xml:"Version,attr"`
	Serie             string `xml:"Serie,attr"`
	Folio             string `xml:"Folio,attr"`
	Fecha             string `xml:"Fecha,attr"`
	SubTotal          string `xml:"SubTotal,attr"`
	Descuento         string `xml:"Descuento,attr"`
	Total             string `xml:"Total,attr"`
	Moneda            string `xml:"Moneda,attr"`
	TipoCambio        string `xml:"TipoCambio,attr"`
	TipoDeComprobante string `xml:"TipoDeComprobante,attr"`
	MetodoPago        string `xml:"MetodoPago,attr"`
	FormaPago         string `xml:"FormaPago,attr"`

	Emisor       *emisorXML        `xml:"http://www.sat.gob.mx/cfd/4 Emisor"`
	Receptor     *receptorXML      `xml:"http://www.sat.gob.mx/cfd/4 Receptor"`
	Relacionados *relacionadosXML  `xml:"http://www.sat.gob.mx/cfd/4 CfdiRelacionados"`
	Conceptos    conceptosXML      `xml:"http://www.sat.gob.mx/cfd/4 Conceptos"`
	Impuestos    *impuestosXML     `xml:"http://www.sat.gob.mx/cfd/4 Impuestos"`
	Complemento  []complementoNode `xml:"http://www.sat.gob.mx/cfd/4 Complemento"`
}

type emisorXML struct {
	Rfc           string `xml:"Rfc,attr"`
	Nombre        string `xml:"Nombre,attr"`
	RegimenFiscal string `xml:"RegimenFiscal,attr"`
}

type receptorXML struct {
	Rfc                     string `xml:"Rfc,attr"`
	Nombre                  string `xml:"Nombre,attr"`
	DomicilioFiscalReceptor string `xml:"DomicilioFiscalReceptor,attr"`
	RegimenFiscalReceptor   string `xml:"RegimenFiscalReceptor,attr"`
	UsoCFDI                 string `xml:"UsoCFDI,attr"`
}

type relacionadosXML struct {
	TipoRelacion string `xml:"TipoRelacion,attr"`
	Relacionados []struct {
		UUID string `xml:"UUID,attr"`
	} `xml:"http://www.sat.gob.mx/cfd/4 CfdiRelacionado"`
}

type conceptosXML struct {
	Conceptos []conceptoXML `xml:"http://www.sat.gob.mx/cfd/4 Concepto"`
}

type conceptoXML struct {
	Descripcion string        `xml:"Descripcion,attr"`
	Importe     string        `xml:"Importe,attr"`
	Impuestos   *impuestosXML `xml:"http://www.sat.gob.mx/cfd/4 Impuestos"`
}

type impuestosXML struct {
	// TotalImpuestosTrasladados is a pointer so an absent summary
	// attribute is distinguishable from an empty one.
	TotalImpuestosTrasladados *string `xml:"TotalImpuestosTrasladados,attr"`

	Traslados struct {
		Traslados []trasladoXML `xml:"http://www.sat.gob.mx/cfd/4 Traslado"`
	} `xml:"http://www.sat.gob.mx/cfd/4 Traslados"`
	Retenciones struct {
		Retenciones []retencionXML `xml:"http://www.sat.gob.mx/cfd/4 Retencion"`
	} `xml:"http://www.sat.gob.mx/cfd/4 Retenciones"`
}

type trasladoXML struct {
	Impuesto   string `xml:"Impuesto,attr"`
	TasaOCuota string `xml:"TasaOCuota,attr"`
	Importe    string `xml:"Importe,attr"`
}

type retencionXML struct {
	Impuesto string `xml:"Impuesto,attr"`
	Importe  string `xml:"Importe,attr"`
}

// complementoNode keeps the complement subtree generic: the fiscal stamp may
// sit at any depth below cfdi:Complemento.
type complementoNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr        `xml:",any,attr"`
	Nodes   []complementoNode `xml:",any"`
}

// Extract decodes one CFDI document into a Record. It is pure and safe for
// concurrent use. Malformed XML yields a *ParseError; optional sub-elements
// (issuer, receiver, fiscal stamp, tax summary) that are absent leave their
// fields at the empty default.
func Extract(name string, data []byte) (domain.Record, error) {
	var doc comprobante
	if err := xml.Unmarshal(data, &doc); err != nil {
		return domain.Record{}, &ParseError{File: name, Err: err}
	}

	rec := domain.Record{
		SourceFile:    name,
		Version:       doc.Version,
		Series:        doc.Serie,
		Folio:         doc.Folio,
		Date:          doc.Fecha,
		SubTotal:      doc.SubTotal,
		Discount:      doc.Descuento,
		Total:         doc.Total,
		Currency:      doc.Moneda,
		ExchangeRate:  doc.TipoCambio,
		Kind:          doc.TipoDeComprobante,
		PaymentMethod: doc.MetodoPago,
	}

	label, ok := catalog.PaymentFormLabel(doc.FormaPago)
	rec.PaymentForm = catalog.Composite(doc.FormaPago, label, ok)

	if doc.Emisor != nil {
		rec.IssuerRFC = doc.Emisor.Rfc
		rec.IssuerName = doc.Emisor.Nombre
		rec.IssuerRegime = doc.Emisor.RegimenFiscal
	}

	if doc.Receptor != nil {
		rec.ReceiverRFC = doc.Receptor.Rfc
		rec.ReceiverName = doc.Receptor.Nombre
		rec.ReceiverZip = doc.Receptor.DomicilioFiscalReceptor
		rec.ReceiverRegime = doc.Receptor.RegimenFiscalReceptor
		useLabel, useOK := catalog.CFDIUseLabel(doc.Receptor.UsoCFDI)
		rec.CFDIUse = catalog.Composite(doc.Receptor.UsoCFDI, useLabel, useOK)
	}

	if doc.Relacionados != nil {
		rec.RelationType = doc.Relacionados.TipoRelacion
		var uuids []string
		for _, rel := range doc.Relacionados.Relacionados {
			if rel.UUID != "" {
				uuids = append(uuids, rel.UUID)
			}
		}
		rec.RelatedUUIDs = strings.Join(uuids, "; ")
	}

	rec.UUID = findStampUUID(doc.Complemento)

	taxes := aggregateTaxes(&doc)
	rec.TaxTransferred = taxes.transferred
	rec.TaxNames = taxes.names
	rec.TaxWithheld = taxes.withheld
	rec.VAT16 = taxes.vat16

	var concepts []string
	for _, c := range doc.Conceptos.Conceptos {
		concepts = append(concepts, c.Descripcion+": "+c.Importe)
	}
	rec.Concepts = strings.Join(concepts, "; ")

	return rec, nil
}

// findStampUUID walks the complement subtree for the first
// tfd:TimbreFiscalDigital node and returns its UUID attribute.
func findStampUUID(nodes []complementoNode) string {
	for _, n := range nodes {
		if n.XMLName.Space == tfdNS && n.XMLName.Local == "TimbreFiscalDigital" {
			for _, attr := range n.Attrs {
				if attr.Name.Local == "UUID" {
					return attr.Value
				}
			}
			return ""
		}
		if uuid := findStampUUID(n.Nodes); uuid != "" {
			return uuid
		}
	}
	return ""
}
