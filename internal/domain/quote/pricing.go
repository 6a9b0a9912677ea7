package quote

import (
	"github.com/shopspring/decimal"

	"github.com/bitmx/cotizador-api/internal/domain/entity"
)

// Discounts porcentajes de descuento permitidos en una línea.
var Discounts = []int{0, 3, 5, 7, 10, 15, 50, 100}

// ValidDiscount verifica que el porcentaje esté en el conjunto permitido.
func ValidDiscount(pct int) bool {
	for _, d := range Discounts {
		if d == pct {
			return true
		}
	}
	return false
}

// ResolveUnitPrice determina el precio unitario de una línea: el del catálogo,
// o el sobreescrito por el actor solo cuando el producto lo permite. Un
// sobreprecio negativo se recorta a 0; si el producto no es editable, el precio
// de catálogo se impone sin importar lo enviado.
func ResolveUnitPrice(product *entity.Product, override *decimal.Decimal) decimal.Decimal {
	if override == nil || !product.PriceEditable {
		return product.Price
	}
	if override.IsNegative() {
		return decimal.Zero
	}
	return *override
}

// Totals importes agregados de la cabecera de una cotización.
type Totals struct {
	SubTotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
}

// ComputeTotals deriva los totales de cabecera a partir de las líneas:
// sub_total = Σ bruto, discount_total = Σ descuento, tax = tasa de IVA sobre la
// base neta, total = neto + IVA. Todo a 2 decimales, mitad hacia arriba.
func ComputeTotals(lines []*entity.QuoteLine, taxRate decimal.Decimal) Totals {
	var sub, disc decimal.Decimal
	for _, l := range lines {
		sub = sub.Add(l.GrossTotal())
		disc = disc.Add(l.DiscountValue())
	}
	net := sub.Sub(disc)
	tax := net.Mul(taxRate).Round(2)
	return Totals{
		SubTotal:      sub.Round(2),
		DiscountTotal: disc.Round(2),
		Tax:           tax,
		Total:         net.Add(tax).Round(2),
	}
}

// SectionSubTotals suma el neto de las líneas por sección.
func SectionSubTotals(lines []*entity.QuoteLine) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, l := range lines {
		if l.SectionID == nil {
			continue
		}
		totals[*l.SectionID] = totals[*l.SectionID].Add(l.NetTotal())
	}
	return totals
}
