package quote

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bitmx/cotizador-api/internal/domain"
	"github.com/bitmx/cotizador-api/internal/domain/entity"
)

// ApprovalPolicy decide si una cotización cerrada internamente se aprueba en
// automático (APP) o pasa a revisión (RVW). Los umbrales concretos viven en la
// configuración, nunca en el dominio.
type ApprovalPolicy interface {
	AutoApprove(q *entity.Quote, lines []*entity.QuoteLine) bool
}

// ThresholdPolicy aprueba en automático cuando ninguna línea excede el
// descuento máximo y el total de la cotización no excede el tope. Un tope <= 0
// desactiva esa cota.
type ThresholdPolicy struct {
	MaxDiscount int
	MaxTotal    decimal.Decimal
}

// AutoApprove implementa ApprovalPolicy.
func (p ThresholdPolicy) AutoApprove(q *entity.Quote, lines []*entity.QuoteLine) bool {
	for _, l := range lines {
		if l.Discount > p.MaxDiscount {
			return false
		}
	}
	if p.MaxTotal.IsPositive() && q.Total.GreaterThan(p.MaxTotal) {
		return false
	}
	return true
}

// CanManage indica si el actor puede operar la cotización: su dueño (vendedor
// asignado) o cualquier CSR/gerente.
func CanManage(actor *entity.User, q *entity.Quote) bool {
	return actor.ID == q.UserID || actor.IsCSR() || actor.IsManager()
}

// CloseInternal cierra el borrador: pasa a APP si la política lo permite, si no
// a RVW. Solo desde DFT y solo por el dueño o CSR/gerente. La aprobación
// automática estampa actor y fecha igual que una aprobación manual.
func CloseInternal(q *entity.Quote, lines []*entity.QuoteLine, actor *entity.User, policy ApprovalPolicy, now time.Time) error {
	if !CanManage(actor, q) {
		return domain.ErrForbidden
	}
	if q.Status != entity.StatusDraft {
		return domain.ErrInvalidTransition
	}
	if policy.AutoApprove(q, lines) {
		stampApproved(q, actor, now)
		return nil
	}
	q.Status = entity.StatusPendingApproval
	return nil
}

// Approve aprueba una cotización en revisión. Solo gerentes.
func Approve(q *entity.Quote, actor *entity.User, now time.Time) error {
	if !actor.IsManager() {
		return domain.ErrForbidden
	}
	if q.Status != entity.StatusPendingApproval {
		return domain.ErrInvalidTransition
	}
	stampApproved(q, actor, now)
	return nil
}

// MarkSent marca una cotización aprobada como enviada al cliente.
func MarkSent(q *entity.Quote, actor *entity.User, now time.Time) error {
	if !CanManage(actor, q) {
		return domain.ErrForbidden
	}
	if q.Status != entity.StatusApproved {
		return domain.ErrInvalidTransition
	}
	q.Status = entity.StatusSent
	q.SentBy = &actor.ID
	q.SentAt = &now
	return nil
}

// MarkWon marca como ganada una cotización enviada.
func MarkWon(q *entity.Quote, actor *entity.User, now time.Time) error {
	if !CanManage(actor, q) {
		return domain.ErrForbidden
	}
	if q.Status != entity.StatusSent {
		return domain.ErrInvalidTransition
	}
	q.Status = entity.StatusWon
	q.WonBy = &actor.ID
	q.WonAt = &now
	return nil
}

// MarkLost marca como perdida una cotización enviada. El motivo es obligatorio.
func MarkLost(q *entity.Quote, actor *entity.User, reason string, now time.Time) error {
	if !CanManage(actor, q) {
		return domain.ErrForbidden
	}
	if q.Status != entity.StatusSent {
		return domain.ErrInvalidTransition
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.NewValidationError("se requiere el motivo de la pérdida")
	}
	q.Status = entity.StatusLost
	q.LostBy = &actor.ID
	q.LostAt = &now
	q.LostReason = reason
	return nil
}

// MarkExpired expira una cotización no terminal. Lo invoca un colaborador
// externo (calendarizador); no hay barrido interno.
func MarkExpired(q *entity.Quote) error {
	if q.IsTerminal() {
		return domain.ErrInvalidTransition
	}
	q.Status = entity.StatusExpired
	return nil
}

// Reevaluate se invoca tras editar las líneas de una cotización APP o RVW: el
// cambio de contenido invalida la aprobación previa, así que se vuelve a correr
// la misma política de aprobación automática. En DFT no hace nada.
func Reevaluate(q *entity.Quote, lines []*entity.QuoteLine, actor *entity.User, policy ApprovalPolicy, now time.Time) {
	if q.Status != entity.StatusApproved && q.Status != entity.StatusPendingApproval {
		return
	}
	if policy.AutoApprove(q, lines) {
		stampApproved(q, actor, now)
		return
	}
	q.Status = entity.StatusPendingApproval
	q.ApprovedBy = nil
	q.ApprovedAt = nil
}

func stampApproved(q *entity.Quote, actor *entity.User, now time.Time) {
	q.Status = entity.StatusApproved
	q.ApprovedBy = &actor.ID
	q.ApprovedAt = &now
}
