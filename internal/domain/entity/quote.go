package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una cotización.
const (
	StatusDraft           = "DFT" // Borrador del vendedor
	StatusPendingApproval = "RVW" // Aprobación interna pendiente
	StatusApproved        = "APP" // Aprobada (manual o automática)
	StatusSent            = "SNT" // Enviada al cliente
	StatusWon             = "WON" // Ganada
	StatusLost            = "LST" // Perdida
	StatusExpired         = "EXP" // Expirada (marcada por un proceso externo)
)

// Términos de pago.
const (
	PaymentCash  = "CSH" // Contado
	PaymentNet7  = "N07" // Crédito 7 días
	PaymentNet15 = "N15" // Crédito 15 días
	PaymentNet30 = "N30" // Crédito 30 días
	PaymentNet60 = "N60" // Crédito 60 días
	PaymentNet90 = "N90" // Crédito 90 días
)

// ValidPaymentTerms verifica que el código de términos de pago sea uno de los conocidos.
func ValidPaymentTerms(code string) bool {
	switch code {
	case PaymentCash, PaymentNet7, PaymentNet15, PaymentNet30, PaymentNet60, PaymentNet90:
		return true
	}
	return false
}

// Quote representa la cabecera de una cotización.
// Folio (quote_id) y ValidUntil quedan fijos después del primer guardado exitoso;
// antes de ese momento ambos son nulos. Seq es el consecutivo numérico asignado
// por la base de datos, del cual se deriva el folio.
type Quote struct {
	ID           string
	Seq          int64
	QuoteID      string // BIT-<iniciales>-<YYMMDD>-<#####>, único e inmutable
	CustomerID   string
	ContactID    string // debe pertenecer al cliente, siempre
	UserID       string // vendedor asignado (dueño)
	Status       string
	PaymentTerms string
	ValidUntil   *time.Time

	SubTotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	UpdatedBy string

	ApprovedBy *string
	ApprovedAt *time.Time
	SentBy     *string
	SentAt     *time.Time
	WonBy      *string
	WonAt      *time.Time
	LostBy     *string
	LostAt     *time.Time
	LostReason string
}

// IsTerminal indica si la cotización está en un estado final (WON, LST, EXP).
func (q *Quote) IsTerminal() bool {
	switch q.Status {
	case StatusWon, StatusLost, StatusExpired:
		return true
	}
	return false
}

// IsEditable indica si las líneas de la cotización pueden modificarse
// (solo en DFT, APP o RVW; editar una APP/RVW dispara reevaluación).
func (q *Quote) IsEditable() bool {
	switch q.Status {
	case StatusDraft, StatusApproved, StatusPendingApproval:
		return true
	}
	return false
}

// HasIdentity indica si el folio y la vigencia ya fueron asignados.
func (q *Quote) HasIdentity() bool {
	return q.QuoteID != "" && q.ValidUntil != nil
}
