package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bitmx/cotizador-api/internal/application/dto"
	"github.com/bitmx/cotizador-api/internal/application/quotes"
	"github.com/bitmx/cotizador-api/internal/domain"
	"github.com/bitmx/cotizador-api/internal/domain/repository"
)

// QuoteHandler maneja las peticiones HTTP de cotizaciones (protegido).
type QuoteHandler struct {
	createUC   *quotes.CreateQuoteUseCase
	rebuildUC  *quotes.RebuildLinesUseCase
	workflowUC *quotes.WorkflowUseCase
	commentUC  *quotes.CommentUseCase
	queryUC    *quotes.QueryUseCase
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(
	createUC *quotes.CreateQuoteUseCase,
	rebuildUC *quotes.RebuildLinesUseCase,
	workflowUC *quotes.WorkflowUseCase,
	commentUC *quotes.CommentUseCase,
	queryUC *quotes.QueryUseCase,
) *QuoteHandler {
	return &QuoteHandler{
		createUC:   createUC,
		rebuildUC:  rebuildUC,
		workflowUC: workflowUC,
		commentUC:  commentUC,
		queryUC:    queryUC,
	}
}

// respondError mapea errores de dominio a códigos HTTP. Los errores de
// validación de líneas cargan el detalle por índice en Details.
func respondError(c *fiber.Ctx, err error) error {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: vErr.Message, Details: vErr.Lines,
		})
	}
	switch {
	case errors.Is(err, domain.ErrMissingNameParts):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el vendedor asignado no tiene nombre y apellido completos"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autorizado"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "la cotización no admite esta operación en su estado actual"})
	case errors.Is(err, domain.ErrIdentityAssigned):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el folio ya fue asignado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Create crea una cotización en borrador con folio y vigencia asignados.
// POST /api/quotes
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.createUC.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista cotizaciones con filtros opcionales.
// GET /api/quotes?customer=<slug>&user_id=<id>&status=<code>&limit=&offset=
func (h *QuoteHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de página inválidos"})
	}
	f := repository.QuoteFilter{
		CustomerSlug: c.Query("customer"),
		UserID:       c.Query("user_id"),
		Status:       c.Query("status"),
	}
	out, err := h.queryUC.List(c.Context(), GetUserID(c), f, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get obtiene el detalle completo de una cotización.
// GET /api/quotes/:id
func (h *QuoteHandler) Get(c *fiber.Ctx) error {
	out, err := h.queryUC.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RebuildLines reemplaza el juego completo de líneas de la cotización.
// PUT /api/quotes/:id/lines
func (h *QuoteHandler) RebuildLines(c *fiber.Ctx) error {
	var in dto.RebuildLinesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.rebuildUC.Rebuild(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CloseInternal cierra el borrador: aprobada o a revisión según la política.
// POST /api/quotes/:id/close
func (h *QuoteHandler) CloseInternal(c *fiber.Ctx) error {
	out, err := h.workflowUC.CloseInternal(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve aprueba una cotización en revisión (solo gerencia).
// POST /api/quotes/:id/approve
func (h *QuoteHandler) Approve(c *fiber.Ctx) error {
	out, err := h.workflowUC.Approve(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkSent marca la cotización como enviada al cliente.
// POST /api/quotes/:id/send
func (h *QuoteHandler) MarkSent(c *fiber.Ctx) error {
	out, err := h.workflowUC.MarkSent(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkWon marca la cotización como ganada.
// POST /api/quotes/:id/won
func (h *QuoteHandler) MarkWon(c *fiber.Ctx) error {
	out, err := h.workflowUC.MarkWon(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkLost marca la cotización como perdida; el motivo es obligatorio.
// POST /api/quotes/:id/lost
func (h *QuoteHandler) MarkLost(c *fiber.Ctx) error {
	var in dto.MarkLostRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.workflowUC.MarkLost(c.Context(), GetUserID(c), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkExpired expira la cotización. Pensado para el calendarizador externo,
// por eso queda restringido a admin y gerencia.
// POST /api/quotes/:id/expire
func (h *QuoteHandler) MarkExpired(c *fiber.Ctx) error {
	out, err := h.workflowUC.MarkExpired(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Deactivate apaga la cotización (borrado lógico).
// DELETE /api/quotes/:id
func (h *QuoteHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.workflowUC.Deactivate(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddComment agrega una nota a la cotización.
// POST /api/quotes/:id/comments
func (h *QuoteHandler) AddComment(c *fiber.Ctx) error {
	var in dto.AddCommentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.commentUC.Add(c.Context(), GetUserID(c), c.Params("id"), in.Comment)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Dashboard agregados del tablero de ventas del actor (completo para gerencia).
// GET /api/quotes/dashboard
func (h *QuoteHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.queryUC.Dashboard(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
