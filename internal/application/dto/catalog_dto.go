package dto

import "github.com/shopspring/decimal"

// ProductResponse producto del catálogo como insumo de cotización.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	PriceEditable bool            `json:"price_editable"`
	ProductType   string          `json:"product_type"`
	TypeLabel     string          `json:"type_label"`
}

// CustomerResponse cliente del directorio.
type CustomerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	RFC  string `json:"rfc"`
}

// ContactResponse contacto activo de un cliente.
type ContactResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}
