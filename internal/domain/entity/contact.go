package entity

import "time"

// Contact es una persona de contacto de un cliente. Siempre pertenece a
// exactamente un cliente; una cotización solo puede referenciar contactos del
// cliente que cotiza.
type Contact struct {
	ID         string
	CustomerID string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FullName nombre completo del contacto.
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}
