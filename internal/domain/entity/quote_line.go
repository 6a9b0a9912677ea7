package entity

import "github.com/shopspring/decimal"

// DescriptionMaxLen longitud máxima de la descripción congelada de una línea.
const DescriptionMaxLen = 100

// QuoteLine es una partida de producto dentro de una cotización.
// Description es una instantánea del nombre del producto al momento de crear
// la línea: un renombre posterior en el catálogo no la altera. Las líneas nunca
// se editan individualmente; cada edición reconstruye el juego completo.
type QuoteLine struct {
	ID           string
	QuoteID      string
	SectionID    *string // nulo solo si la sección fue eliminada (no debe ocurrir tras un rebuild)
	ProductID    string
	Description  string
	Quantity     int             // >= 1
	UnitPrice    decimal.Decimal // >= 0; precio de catálogo o sobreescrito si el producto lo permite
	Discount     int             // porcentaje, uno de 0/3/5/7/10/15/50/100
	DeliveryTime int             // días hábiles, >= 0
	Position     int             // orden de captura dentro de la cotización
}

// GrossTotal es cantidad × precio unitario, redondeado a 2 decimales (mitad hacia arriba).
func (l *QuoteLine) GrossTotal() decimal.Decimal {
	return decimal.NewFromInt(int64(l.Quantity)).Mul(l.UnitPrice).Round(2)
}

// DiscountValue es el importe del descuento sobre el total bruto, a 2 decimales.
func (l *QuoteLine) DiscountValue() decimal.Decimal {
	pct := decimal.NewFromInt(int64(l.Discount)).Div(decimal.NewFromInt(100))
	return l.GrossTotal().Mul(pct).Round(2)
}

// NetTotal es el total bruto menos el descuento.
func (l *QuoteLine) NetTotal() decimal.Decimal {
	return l.GrossTotal().Sub(l.DiscountValue())
}
