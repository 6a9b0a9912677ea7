package catalog

import (
	"context"

	"github.com/bitmx/cotizador-api/internal/application/dto"
	"github.com/bitmx/cotizador-api/internal/domain"
	"github.com/bitmx/cotizador-api/internal/domain/entity"
	"github.com/bitmx/cotizador-api/internal/domain/repository"
)

// LookupUseCase alimenta a la capa de presentación con los insumos de una
// cotización: productos activos, clientes y sus contactos activos. Catálogo y
// directorio se administran en otra parte; aquí todo es de solo lectura.
type LookupUseCase struct {
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	contactRepo  repository.ContactRepository
}

// NewLookupUseCase construye el caso de uso.
func NewLookupUseCase(
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	contactRepo repository.ContactRepository,
) *LookupUseCase {
	return &LookupUseCase{productRepo: productRepo, customerRepo: customerRepo, contactRepo: contactRepo}
}

// Products lista productos activos del catálogo.
func (uc *LookupUseCase) Products(ctx context.Context, page dto.PageRequest) ([]dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.productRepo.ListActive(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ProductResponse{
			ID:            p.ID,
			SKU:           p.SKU,
			Name:          p.Name,
			Price:         p.Price,
			PriceEditable: p.PriceEditable,
			ProductType:   p.ProductType,
			TypeLabel:     entity.ProductTypeLabel(p.ProductType),
		})
	}
	return out, nil
}

// Customers lista clientes del directorio.
func (uc *LookupUseCase) Customers(ctx context.Context, page dto.PageRequest) ([]dto.CustomerResponse, error) {
	page.DefaultPage()
	customers, err := uc.customerRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, dto.CustomerResponse{ID: c.ID, Name: c.Name, Slug: c.Slug, RFC: c.RFC})
	}
	return out, nil
}

// Contacts lista los contactos activos de un cliente, como los filtra la
// pantalla de alta de cotizaciones.
func (uc *LookupUseCase) Contacts(ctx context.Context, customerID string) ([]dto.ContactResponse, error) {
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	contacts, err := uc.contactRepo.ListActiveByCustomer(customer.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, dto.ContactResponse{
			ID:         c.ID,
			CustomerID: c.CustomerID,
			FirstName:  c.FirstName,
			LastName:   c.LastName,
			Email:      c.Email,
			Phone:      c.Phone,
		})
	}
	return out, nil
}
