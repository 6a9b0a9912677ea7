package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bitmx/cotizador-api/internal/application/quotes"
	"github.com/bitmx/cotizador-api/internal/domain/repository"
)

// Ensure TxRunner implements quotes.TxRunner.
var _ quotes.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunQuote inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. El rollback diferido cubre toda ruta de salida, incluido
// un panic dentro de fn.
func (r *TxRunner) RunQuote(ctx context.Context, fn func(
	quoteRepo repository.QuoteRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	quoteRepo := NewQuoteRepository(tx)
	productRepo := NewProductRepository(tx)

	if err := fn(quoteRepo, productRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
