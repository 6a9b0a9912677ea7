package quotes

import (
	"context"

	"github.com/bitmx/cotizador-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con repos de
// cotizaciones y catálogo atados a esa transacción. Si fn retorna error, el
// runner garantiza rollback en todas las rutas de salida: una reconstrucción
// que falla a medias deja intacto el juego de líneas anterior.
type TxRunner interface {
	RunQuote(ctx context.Context, fn func(
		quoteRepo repository.QuoteRepository,
		productRepo repository.ProductRepository,
	) error) error
}
