package quotes

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bitmx/cotizador-api/internal/application/dto"
	"github.com/bitmx/cotizador-api/internal/domain"
	"github.com/bitmx/cotizador-api/internal/domain/entity"
	"github.com/bitmx/cotizador-api/internal/domain/quote"
	"github.com/bitmx/cotizador-api/internal/domain/repository"
)

// CreateQuoteUseCase crea la cabecera de una cotización en borrador y le asigna
// folio y vigencia en la misma transacción: si la asignación falla, no queda
// ninguna cotización sin folio.
type CreateQuoteUseCase struct {
	txRunner     TxRunner
	customerRepo repository.CustomerRepository
	contactRepo  repository.ContactRepository
	userRepo     repository.UserRepository
	now          func() time.Time
}

// NewCreateQuoteUseCase construye el caso de uso. nowFn permite inyectar el
// reloj en tests; nil usa time.Now.
func NewCreateQuoteUseCase(
	txRunner TxRunner,
	customerRepo repository.CustomerRepository,
	contactRepo repository.ContactRepository,
	userRepo repository.UserRepository,
	nowFn func() time.Time,
) *CreateQuoteUseCase {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &CreateQuoteUseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		contactRepo:  contactRepo,
		userRepo:     userRepo,
		now:          nowFn,
	}
}

// Create valida cliente/contacto/asignación, inserta la cotización en DFT y
// fija folio + vigencia como segunda escritura dentro de la misma transacción.
func (uc *CreateQuoteUseCase) Create(ctx context.Context, actorID string, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	actor, err := uc.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, domain.ErrUserNotFound
	}

	if in.CustomerID == "" || in.ContactID == "" {
		return nil, domain.NewValidationError("cliente y contacto son obligatorios")
	}
	terms := in.PaymentTerms
	if terms == "" {
		terms = entity.PaymentCash
	}
	if !entity.ValidPaymentTerms(terms) {
		return nil, domain.NewValidationError("términos de pago desconocidos: " + terms)
	}

	// Regla de asignación: un vendedor siempre se asigna a sí mismo; CSR y
	// gerente pueden asignar a cualquier vendedor activo.
	assignee := actor
	if in.UserID != "" && in.UserID != actor.ID {
		if !actor.IsCSR() && !actor.IsManager() {
			return nil, domain.ErrForbidden
		}
		assignee, err = uc.userRepo.GetByID(in.UserID)
		if err != nil {
			return nil, err
		}
		if assignee == nil || !assignee.IsActive {
			return nil, domain.ErrUserNotFound
		}
	}
	// Precondición del folio: sin nombre y apellido no hay iniciales. Se valida
	// antes de insertar para que jamás persista una cotización sin identidad.
	if strings.TrimSpace(assignee.FirstName) == "" || strings.TrimSpace(assignee.LastName) == "" {
		return nil, domain.ErrMissingNameParts
	}

	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	contact, err := uc.contactRepo.GetByID(in.ContactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, domain.ErrNotFound
	}
	if contact.CustomerID != customer.ID {
		return nil, domain.NewValidationError("el contacto no pertenece al cliente seleccionado")
	}
	if !contact.IsActive {
		return nil, domain.NewValidationError("el contacto está inactivo")
	}

	now := uc.now()
	q := &entity.Quote{
		ID:            uuid.New().String(),
		CustomerID:    customer.ID,
		ContactID:     contact.ID,
		UserID:        assignee.ID,
		Status:        entity.StatusDraft,
		PaymentTerms:  terms,
		SubTotal:      decimal.Zero,
		DiscountTotal: decimal.Zero,
		Tax:           decimal.Zero,
		Total:         decimal.Zero,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
		CreatedBy:     actor.ID,
		UpdatedBy:     actor.ID,
	}

	err = uc.txRunner.RunQuote(ctx, func(quoteRepo repository.QuoteRepository, _ repository.ProductRepository) error {
		// Primera inserción: la DB asigna el consecutivo en q.Seq.
		if err := quoteRepo.Create(q); err != nil {
			return err
		}
		// Segunda fase: folio y vigencia, una sola vez.
		if _, err := quote.AssignIdentity(q, assignee, now); err != nil {
			return err
		}
		return quoteRepo.SetIdentity(q.ID, q.QuoteID, *q.ValidUntil)
	})
	if err != nil {
		return nil, err
	}

	resp := toQuoteResponse(q)
	return &resp, nil
}
