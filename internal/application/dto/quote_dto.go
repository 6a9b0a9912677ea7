package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateQuoteRequest body para POST /api/quotes.
// UserID es opcional: los vendedores siempre quedan asignados a sí mismos;
// CSR/gerente pueden asignar a cualquier vendedor activo.
type CreateQuoteRequest struct {
	CustomerID   string `json:"customer_id"`
	ContactID    string `json:"contact_id"`
	UserID       string `json:"user_id,omitempty"`
	PaymentTerms string `json:"payment_terms,omitempty"`
}

// LineInput una partida deseada en la reconstrucción de líneas.
// UnitPrice solo se honra si el producto permite editar precio.
type LineInput struct {
	ProductID    string           `json:"product_id"`
	Quantity     int              `json:"quantity"`
	Discount     int              `json:"discount"`
	DeliveryTime int              `json:"delivery_time"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	Description  string           `json:"description,omitempty"`
}

// RebuildLinesRequest body para PUT /api/quotes/:id/lines. Es un reemplazo
// total: las líneas no enviadas desaparecen.
type RebuildLinesRequest struct {
	PaymentTerms string      `json:"payment_terms,omitempty"`
	Lines        []LineInput `json:"lines"`
}

// MarkLostRequest body para POST /api/quotes/:id/lost.
type MarkLostRequest struct {
	Reason string `json:"reason"`
}

// AddCommentRequest body para POST /api/quotes/:id/comments.
type AddCommentRequest struct {
	Comment string `json:"comment"`
}

// QuoteLineResponse partida con sus importes derivados.
type QuoteLineResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Description   string          `json:"description"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Discount      int             `json:"discount"`
	DeliveryTime  int             `json:"delivery_time"`
	GrossTotal    decimal.Decimal `json:"gross_total"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	NetTotal      decimal.Decimal `json:"net_total"`
}

// QuoteSectionResponse sección con sus líneas anidadas.
type QuoteSectionResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	ProductType string              `json:"product_type"`
	SubTotal    decimal.Decimal     `json:"sub_total"`
	Lines       []QuoteLineResponse `json:"lines"`
}

// QuoteCommentResponse comentario en respuestas.
type QuoteCommentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// QuoteResponse cabecera de cotización en respuestas.
type QuoteResponse struct {
	ID            string          `json:"id"`
	QuoteID       string          `json:"quote_id"`
	CustomerID    string          `json:"customer_id"`
	ContactID     string          `json:"contact_id"`
	UserID        string          `json:"user_id"`
	Status        string          `json:"status"`
	PaymentTerms  string          `json:"payment_terms"`
	ValidUntil    string          `json:"valid_until,omitempty"` // YYYY-MM-DD
	SubTotal      decimal.Decimal `json:"sub_total"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	ApprovedBy *string    `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	SentBy     *string    `json:"sent_by,omitempty"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	WonBy      *string    `json:"won_by,omitempty"`
	WonAt      *time.Time `json:"won_at,omitempty"`
	LostBy     *string    `json:"lost_by,omitempty"`
	LostAt     *time.Time `json:"lost_at,omitempty"`
	LostReason string     `json:"lost_reason,omitempty"`
}

// QuoteDetailResponse cabecera + secciones con líneas + comentarios.
type QuoteDetailResponse struct {
	QuoteResponse
	Sections []QuoteSectionResponse `json:"sections"`
	Comments []QuoteCommentResponse `json:"comments"`
}

// QuoteListResponse página de cotizaciones.
type QuoteListResponse struct {
	Quotes []QuoteResponse `json:"quotes"`
	Page   PageResponse    `json:"page"`
}

// DashboardResponse agregados del tablero de ventas.
type DashboardResponse struct {
	OpenCount       int             `json:"open_count"`
	PendingApproval int             `json:"pending_approval"`
	SentCount       int             `json:"sent_count"`
	WonCount        int             `json:"won_count"`
	WonTotal        decimal.Decimal `json:"won_total"`
}
