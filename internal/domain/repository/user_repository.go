package repository

import "github.com/bitmx/cotizador-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	// ListActiveSales vendedores activos (para asignación por CSR/gerente).
	ListActiveSales() ([]*entity.User, error)
}
