package repository

import "github.com/bitmx/cotizador-api/internal/domain/entity"

// ProductRepository define el puerto de lectura del catálogo de productos.
// El catálogo se administra fuera de este sistema; aquí solo se consulta.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	// ListByIDs resuelve en una sola consulta todos los productos referenciados
	// por una reconstrucción de líneas.
	ListByIDs(ids []string) ([]*entity.Product, error)
	ListActive(limit, offset int) ([]*entity.Product, error)
}

// CustomerRepository define el puerto de lectura del directorio de clientes.
type CustomerRepository interface {
	GetByID(id string) (*entity.Customer, error)
	GetBySlug(slug string) (*entity.Customer, error)
	List(limit, offset int) ([]*entity.Customer, error)
}

// ContactRepository define el puerto de lectura de contactos de clientes.
type ContactRepository interface {
	GetByID(id string) (*entity.Contact, error)
	ListActiveByCustomer(customerID string) ([]*entity.Contact, error)
}
