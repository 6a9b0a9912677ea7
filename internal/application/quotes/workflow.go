package quotes

import (
	"context"
	"time"

	"github.com/bitmx/cotizador-api/internal/application/dto"
	"github.com/bitmx/cotizador-api/internal/domain"
	"github.com/bitmx/cotizador-api/internal/domain/entity"
	"github.com/bitmx/cotizador-api/internal/domain/quote"
	"github.com/bitmx/cotizador-api/internal/domain/repository"
)

// WorkflowUseCase aplica las transiciones de estado de una cotización. Cada
// transición valida estado actual y rol del actor, estampa actor y fecha junto
// con el cambio de estado, y persiste la cabecera en una sola escritura.
type WorkflowUseCase struct {
	quoteRepo repository.QuoteRepository
	userRepo  repository.UserRepository
	policy    quote.ApprovalPolicy
	now       func() time.Time
}

// NewWorkflowUseCase construye el caso de uso.
func NewWorkflowUseCase(
	quoteRepo repository.QuoteRepository,
	userRepo repository.UserRepository,
	policy quote.ApprovalPolicy,
	nowFn func() time.Time,
) *WorkflowUseCase {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &WorkflowUseCase{quoteRepo: quoteRepo, userRepo: userRepo, policy: policy, now: nowFn}
}

// load trae cotización y actor; nil en cualquiera es error.
func (uc *WorkflowUseCase) load(actorID, quoteID string) (*entity.Quote, *entity.User, error) {
	actor, err := uc.userRepo.GetByID(actorID)
	if err != nil {
		return nil, nil, err
	}
	if actor == nil {
		return nil, nil, domain.ErrUserNotFound
	}
	q, err := uc.quoteRepo.GetByID(quoteID)
	if err != nil {
		return nil, nil, err
	}
	if q == nil || !q.IsActive {
		return nil, nil, domain.ErrNotFound
	}
	return q, actor, nil
}

func (uc *WorkflowUseCase) persist(q *entity.Quote, actorID string, now time.Time) (*dto.QuoteResponse, error) {
	q.UpdatedAt = now
	q.UpdatedBy = actorID
	if err := uc.quoteRepo.Update(q); err != nil {
		return nil, err
	}
	resp := toQuoteResponse(q)
	return &resp, nil
}

// CloseInternal cierra el borrador: APP si la política de aprobación automática
// lo permite, RVW si requiere revisión del gerente.
func (uc *WorkflowUseCase) CloseInternal(ctx context.Context, actorID, quoteID string) (*dto.QuoteResponse, error) {
	q, actor, err := uc.load(actorID, quoteID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.quoteRepo.GetLines(q.ID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if err := quote.CloseInternal(q, lines, actor, uc.policy, now); err != nil {
		return nil, err
	}
	return uc.persist(q, actor.ID, now)
}

// Approve aprueba una cotización en revisión (solo gerentes).
func (uc *WorkflowUseCase) Approve(ctx context.Context, actorID, quoteID string) (*dto.QuoteResponse, error) {
	q, actor, err := uc.load(actorID, quoteID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if err := quote.Approve(q, actor, now); err != nil {
		return nil, err
	}
	return uc.persist(q, actor.ID, now)
}

// MarkSent marca como enviada una cotización aprobada.
func (uc *WorkflowUseCase) MarkSent(ctx context.Context, actorID, quoteID string) (*dto.QuoteResponse, error) {
	q, actor, err := uc.load(actorID, quoteID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if err := quote.MarkSent(q, actor, now); err != nil {
		return nil, err
	}
	return uc.persist(q, actor.ID, now)
}

// MarkWon marca como ganada una cotización enviada.
func (uc *WorkflowUseCase) MarkWon(ctx context.Context, actorID, quoteID string) (*dto.QuoteResponse, error) {
	q, actor, err := uc.load(actorID, quoteID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if err := quote.MarkWon(q, actor, now); err != nil {
		return nil, err
	}
	return uc.persist(q, actor.ID, now)
}

// MarkLost marca como perdida una cotización enviada; el motivo es obligatorio.
func (uc *WorkflowUseCase) MarkLost(ctx context.Context, actorID, quoteID, reason string) (*dto.QuoteResponse, error) {
	q, actor, err := uc.load(actorID, quoteID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if err := quote.MarkLost(q, actor, reason, now); err != nil {
		return nil, err
	}
	return uc.persist(q, actor.ID, now)
}

// MarkExpired expira una cotización no terminal. Disparado por un
// calendarizador externo, de ahí que no valide dueño.
func (uc *WorkflowUseCase) MarkExpired(ctx context.Context, actorID, quoteID string) (*dto.QuoteResponse, error) {
	q, actor, err := uc.load(actorID, quoteID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	if err := quote.MarkExpired(q); err != nil {
		return nil, err
	}
	return uc.persist(q, actor.ID, uc.now())
}

// Deactivate apaga la cotización. Las cotizaciones nunca se borran físicamente.
func (uc *WorkflowUseCase) Deactivate(ctx context.Context, actorID, quoteID string) error {
	q, actor, err := uc.load(actorID, quoteID)
	if err != nil {
		return err
	}
	if !actor.IsCSR() && !actor.IsManager() {
		return domain.ErrForbidden
	}
	return uc.quoteRepo.Deactivate(q.ID)
}
