package entity

import "github.com/shopspring/decimal"

// QuoteSection agrupa líneas de una cotización por tipo de producto.
// A lo más una sección por (cotización, nombre); las secciones se destruyen y
// recrean completas en cada reconstrucción de líneas, nunca se editan en sitio.
type QuoteSection struct {
	ID          string
	QuoteID     string
	Name        string // etiqueta del tipo de producto (ej. "Equipo")
	ProductType string // código EQU/CON/SER/ACC/REF
	SubTotal    decimal.Decimal
	Position    int // orden de aparición en la cotización
}
