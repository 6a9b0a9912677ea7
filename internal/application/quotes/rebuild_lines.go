package quotes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bitmx/cotizador-api/internal/application/dto"
	"github.com/bitmx/cotizador-api/internal/domain"
	"github.com/bitmx/cotizador-api/internal/domain/entity"
	"github.com/bitmx/cotizador-api/internal/domain/quote"
	"github.com/bitmx/cotizador-api/internal/domain/repository"
)

// RebuildLinesUseCase reemplaza por completo las líneas y secciones de una
// cotización a partir del juego deseado, recalcula los totales de cabecera y,
// si la cotización estaba aprobada o en revisión, vuelve a correr la política
// de aprobación. Todo dentro de una sola transacción: una falla a medias deja
// el juego anterior intacto.
type RebuildLinesUseCase struct {
	txRunner TxRunner
	userRepo repository.UserRepository
	policy   quote.ApprovalPolicy
	taxRate  decimal.Decimal
	now      func() time.Time
}

// NewRebuildLinesUseCase construye el caso de uso.
func NewRebuildLinesUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	policy quote.ApprovalPolicy,
	taxRate decimal.Decimal,
	nowFn func() time.Time,
) *RebuildLinesUseCase {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &RebuildLinesUseCase{
		txRunner: txRunner,
		userRepo: userRepo,
		policy:   policy,
		taxRate:  taxRate,
		now:      nowFn,
	}
}

// validateInput revisa las precondiciones estáticas de cada línea enviada y
// acumula todas las fallas con su índice, no solo la primera.
func validateInput(in dto.RebuildLinesRequest) error {
	var lineErrs []domain.LineError
	for i, l := range in.Lines {
		if l.ProductID == "" {
			lineErrs = append(lineErrs, domain.LineError{Index: i, Field: "product_id", Reason: "requerido"})
		}
		if l.Quantity < 1 {
			lineErrs = append(lineErrs, domain.LineError{Index: i, Field: "quantity", Reason: "debe ser al menos 1"})
		}
		if !quote.ValidDiscount(l.Discount) {
			lineErrs = append(lineErrs, domain.LineError{Index: i, Field: "discount", Reason: "porcentaje fuera del conjunto permitido"})
		}
		if l.DeliveryTime < 0 {
			lineErrs = append(lineErrs, domain.LineError{Index: i, Field: "delivery_time", Reason: "no puede ser negativo"})
		}
	}
	if len(lineErrs) > 0 {
		return domain.NewValidationError("líneas inválidas", lineErrs...)
	}
	if in.PaymentTerms != "" && !entity.ValidPaymentTerms(in.PaymentTerms) {
		return domain.NewValidationError("términos de pago desconocidos: " + in.PaymentTerms)
	}
	return nil
}

// Rebuild ejecuta el reemplazo total de líneas de la cotización.
func (uc *RebuildLinesUseCase) Rebuild(ctx context.Context, actorID, quoteID string, in dto.RebuildLinesRequest) (*dto.QuoteDetailResponse, error) {
	actor, err := uc.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := uc.now()
	var (
		q        *entity.Quote
		sections []*entity.QuoteSection
		lines    []*entity.QuoteLine
		comments []*entity.QuoteComment
	)

	err = uc.txRunner.RunQuote(ctx, func(quoteRepo repository.QuoteRepository, productRepo repository.ProductRepository) error {
		q, err = quoteRepo.GetByID(quoteID)
		if err != nil {
			return err
		}
		if q == nil || !q.IsActive {
			return domain.ErrNotFound
		}
		if !quote.CanManage(actor, q) {
			return domain.ErrForbidden
		}
		if !q.IsEditable() {
			return domain.ErrInvalidTransition
		}

		// 1) Borrar el juego anterior: líneas primero, luego secciones, para
		// que jamás sobreviva una línea huérfana de sección.
		if err := quoteRepo.DeleteLines(q.ID); err != nil {
			return err
		}
		if err := quoteRepo.DeleteSections(q.ID); err != nil {
			return err
		}

		// 2) Resolver todos los productos en una sola consulta.
		products, err := resolveProducts(productRepo, in.Lines)
		if err != nil {
			return err
		}

		// 3) Recrear secciones y líneas en el orden enviado. La sección de cada
		// tipo de producto se crea en el primer encuentro y se reutiliza después.
		sections = sections[:0]
		lines = lines[:0]
		sectionByType := make(map[string]*entity.QuoteSection)
		for i, l := range in.Lines {
			product := products[l.ProductID]
			section, ok := sectionByType[product.ProductType]
			if !ok {
				section = &entity.QuoteSection{
					ID:          uuid.New().String(),
					QuoteID:     q.ID,
					Name:        entity.ProductTypeLabel(product.ProductType),
					ProductType: product.ProductType,
					Position:    len(sections),
				}
				sectionByType[product.ProductType] = section
				sections = append(sections, section)
			}
			description := l.Description
			if description == "" {
				description = product.Name
			}
			// El corte es por runas para no partir caracteres multibyte.
			if runes := []rune(description); len(runes) > entity.DescriptionMaxLen {
				description = string(runes[:entity.DescriptionMaxLen])
			}
			sectionID := section.ID
			lines = append(lines, &entity.QuoteLine{
				ID:           uuid.New().String(),
				QuoteID:      q.ID,
				SectionID:    &sectionID,
				ProductID:    product.ID,
				Description:  description,
				Quantity:     l.Quantity,
				UnitPrice:    quote.ResolveUnitPrice(product, l.UnitPrice),
				Discount:     l.Discount,
				DeliveryTime: l.DeliveryTime,
				Position:     i,
			})
		}

		// 4) Subtotales por sección y persistencia.
		subTotals := quote.SectionSubTotals(lines)
		for _, s := range sections {
			s.SubTotal = subTotals[s.ID]
			if err := quoteRepo.CreateSection(s); err != nil {
				return err
			}
		}
		for _, l := range lines {
			if err := quoteRepo.CreateLine(l); err != nil {
				return err
			}
		}

		// 5) Totales de cabecera, términos de pago y reevaluación de aprobación:
		// editar una cotización aprobada o en revisión invalida la aprobación
		// previa y vuelve a correr la misma política.
		totals := quote.ComputeTotals(lines, uc.taxRate)
		q.SubTotal = totals.SubTotal
		q.DiscountTotal = totals.DiscountTotal
		q.Tax = totals.Tax
		q.Total = totals.Total
		if in.PaymentTerms != "" {
			q.PaymentTerms = in.PaymentTerms
		}
		quote.Reevaluate(q, lines, actor, uc.policy, now)
		q.UpdatedAt = now
		q.UpdatedBy = actor.ID
		if err := quoteRepo.Update(q); err != nil {
			return err
		}

		comments, err = quoteRepo.GetComments(q.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return toDetailResponse(q, sections, lines, comments), nil
}

// resolveProducts junta los IDs referenciados, los resuelve en lote y falla con
// detalle por línea si alguno no existe o está inactivo: un producto
// desconocido aborta la reconstrucción completa.
func resolveProducts(productRepo repository.ProductRepository, inputs []dto.LineInput) (map[string]*entity.Product, error) {
	ids := make([]string, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for _, l := range inputs {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	found, err := productRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	products := make(map[string]*entity.Product, len(found))
	for _, p := range found {
		products[p.ID] = p
	}
	var lineErrs []domain.LineError
	for i, l := range inputs {
		if products[l.ProductID] == nil {
			lineErrs = append(lineErrs, domain.LineError{Index: i, Field: "product_id", Reason: "producto desconocido"})
		}
	}
	if len(lineErrs) > 0 {
		return nil, domain.NewValidationError("productos no resueltos", lineErrs...)
	}
	return products, nil
}
