// Package catalog holds the static SAT code catalogs used to label CFDI
// attributes. The tables are loaded once at process start and read-only
// afterwards.
package catalog

// paymentForms maps SAT c_FormaPago codes to their descriptions.
var paymentForms = map[string]string{
	"01": "Efectivo",
	"02": "Cheque Nominativo",
	"03": "Transferencia Electrónica de Fondos SPEI",
	"04": "Tarjeta de Crédito",
	"05": "Monedero Electrónico",
	"06": "Dinero Electrónico",
	"8":  "Vales de Despensa",
	"12": "Dación en Pago",
	"13": "Pago por Subrogación",
	"14": "Pago por Consignación",
	"15": "Condonación",
	"17": "Compensación",
	"23": "Novación",
	"24": "Confusión",
	"25": "Remisión de Deuda",
	"26": "Prescripción o Caducidad",
	"27": "A Satisfacción del Acreedor",
	"28": "Tarjeta de Débito",
	"29": "Tarjeta de Servicios",
	"30": "Aplicación de Anticipos",
	"31": "Intermediario Pagos",
	"99": "Por Definir",
}

// cfdiUses maps SAT c_UsoCFDI codes to their descriptions.
var cfdiUses = map[string]string{
	"G01":  "Adquisición de mercancías",
	"G02":  "Devoluciones, descuentos o bonificaciones",
	"G03":  "Gastos en general",
	"I01":  "Construcciones",
	"I02":  "Mobiliario y equipo de oficina por inversiones",
	"I03":  "Equipo de transporte",
	"I04":  "Equipo de computo y accesorios",
	"I05":  "Dados, troqueles, moldes, matrices y herramental",
	"I06":  "Comunicaciones telefónicas",
	"I07":  "Comunicaciones satelitales",
	"I08":  "Otra maquinaria y equipo",
	"D01":  "Honorarios médicos, dentales y gastos hospitalarios",
	"D02":  "Gastos médicos por incapacidad o discapacidad",
	"D03":  "Gastos funerarios",
	"D04":  "Donativos",
	"D05":  "Intereses reales pagados por créditos hipotecarios (casa habitación)",
	"D06":  "Aportaciones voluntarias al SAR",
	"D07":  "Primas por seguros de gastos médicos",
	"D08":  "Gastos de transportación escolar obligatoria",
	"D09":  "Depósitos en cuentas para el ahorro, primas que tengan como base planes de pensiones",
	"D10":  "Pagos por servicios educativos (colegiaturas)",
	"S01":  "Sin efectos fiscales",
	"CP01": "Pagos",
	"CN01": "Nómina",
}

// PaymentFormLabel resolves a c_FormaPago code. Unknown codes return ok=false.
func PaymentFormLabel(code string) (string, bool) {
	label, ok := paymentForms[code]
	return label, ok
}

// CFDIUseLabel resolves a c_UsoCFDI code. Unknown codes return ok=false.
func CFDIUseLabel(code string) (string, bool) {
	label, ok := cfdiUses[code]
	return label, ok
}

// Composite renders "<code>-<label>" when the catalog knows the code and
// the raw code otherwise. Empty codes stay empty.
func Composite(code, label string, ok bool) string {
	if !ok || label == "" {
		return code
	}
	return code + "-" + label
}
