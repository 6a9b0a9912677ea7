package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitmx/cotizador-api/internal/domain/entity"
)

// QuoteFilter criterios de listado de cotizaciones.
type QuoteFilter struct {
	CustomerSlug string // slug del cliente, opcional
	UserID       string // vendedor asignado, opcional; obligatorio para actores sin rol elevado
	Status       string // opcional
	Limit        int
	Offset       int
}

// DashboardStats agregados para el tablero de ventas. Lo produce la DB; el use
// case lo convierte en DTO.
type DashboardStats struct {
	OpenCount       int             // cotizaciones activas no terminales
	PendingApproval int             // en RVW
	SentCount       int             // en SNT
	WonCount        int             // ganadas en el período
	WonTotal        decimal.Decimal // suma de totales ganados en el período
}

// QuoteRepository define el puerto de persistencia para Quote y sus agregados
// (secciones, líneas y comentarios). Las implementaciones deben poder operar
// igual sobre un pool que sobre una transacción.
type QuoteRepository interface {
	// Create inserta la cabecera y deja en q.Seq el consecutivo asignado por la DB.
	Create(q *entity.Quote) error
	// SetIdentity fija folio y vigencia una sola vez (segunda fase del primer guardado).
	SetIdentity(id, quoteID string, validUntil time.Time) error
	// Update actualiza cabecera: estado, sellos de workflow, totales, términos de pago.
	Update(q *entity.Quote) error
	GetByID(id string) (*entity.Quote, error)
	GetByQuoteID(quoteID string) (*entity.Quote, error)
	List(f QuoteFilter) ([]*entity.Quote, int, error)
	// Deactivate apaga la cotización (nunca se borra físicamente).
	Deactivate(id string) error

	// Secciones y líneas: el rebuild borra todo y recrea; las líneas se borran
	// antes que las secciones para que no quede ninguna huérfana.
	DeleteLines(quoteID string) error
	DeleteSections(quoteID string) error
	CreateSection(s *entity.QuoteSection) error
	CreateLine(l *entity.QuoteLine) error
	GetSections(quoteID string) ([]*entity.QuoteSection, error)
	GetLines(quoteID string) ([]*entity.QuoteLine, error)

	// Comentarios: solo alta y listado, del más reciente al más antiguo.
	CreateComment(c *entity.QuoteComment) error
	GetComments(quoteID string) ([]*entity.QuoteComment, error)

	// Dashboard devuelve los agregados del tablero; userID vacío = todos los
	// vendedores, wonFrom/wonTo acotan las ganadas del período.
	Dashboard(userID string, wonFrom, wonTo time.Time) (*DashboardStats, error)
}
