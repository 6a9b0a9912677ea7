package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto del catálogo. El tipo determina la sección de la cotización
// en la que cae cada línea.
const (
	ProductTypeEquipment  = "EQU"
	ProductTypeConsumable = "CON"
	ProductTypeService    = "SER"
	ProductTypeAccessory  = "ACC"
	ProductTypeSpareParts = "REF"
)

var productTypeLabels = map[string]string{
	ProductTypeEquipment:  "Equipo",
	ProductTypeConsumable: "Consumible",
	ProductTypeService:    "Servicio",
	ProductTypeAccessory:  "Accesorio",
	ProductTypeSpareParts: "Refacciones",
}

// ProductTypeLabel devuelve la etiqueta legible del tipo (nombre de sección).
// Un código desconocido regresa el código mismo.
func ProductTypeLabel(code string) string {
	if label, ok := productTypeLabels[code]; ok {
		return label
	}
	return code
}

// Product es una entrada del catálogo. PriceEditable indica si el precio
// unitario puede sobreescribirse al cotizar; si es falso, el precio de catálogo
// se impone siempre del lado del servidor.
type Product struct {
	ID            string
	SKU           string
	Name          string
	Slug          string
	Description   string
	Price         decimal.Decimal
	PriceEditable bool
	ProductType   string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
