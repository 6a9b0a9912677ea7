package entity

import "time"

// Customer es un cliente del directorio comercial.
type Customer struct {
	ID         string
	Name       string
	Slug       string
	RFC        string
	AssignedTo *string // vendedor asignado, opcional
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
