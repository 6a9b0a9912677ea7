package quotes

import (
	"context"
	"time"

	"github.com/bitmx/cotizador-api/internal/application/dto"
	"github.com/bitmx/cotizador-api/internal/domain"
	"github.com/bitmx/cotizador-api/internal/domain/repository"
)

// QueryUseCase consultas de lectura: detalle, listado y tablero. Los vendedores
// solo ven sus propias cotizaciones en listado y tablero; CSR y gerente ven
// todas (el tablero, como en el original, solo se abre completo a gerencia).
type QueryUseCase struct {
	quoteRepo repository.QuoteRepository
	userRepo  repository.UserRepository
	now       func() time.Time
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(quoteRepo repository.QuoteRepository, userRepo repository.UserRepository, nowFn func() time.Time) *QueryUseCase {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &QueryUseCase{quoteRepo: quoteRepo, userRepo: userRepo, now: nowFn}
}

// Get devuelve el detalle completo: cabecera, secciones con líneas y
// comentarios del más reciente al más antiguo.
func (uc *QueryUseCase) Get(ctx context.Context, quoteID string) (*dto.QuoteDetailResponse, error) {
	q, err := uc.quoteRepo.GetByID(quoteID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	sections, err := uc.quoteRepo.GetSections(q.ID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.quoteRepo.GetLines(q.ID)
	if err != nil {
		return nil, err
	}
	comments, err := uc.quoteRepo.GetComments(q.ID)
	if err != nil {
		return nil, err
	}
	return toDetailResponse(q, sections, lines, comments), nil
}

// List lista cotizaciones de la más reciente a la más antigua. Actores sin rol
// elevado quedan restringidos a las suyas sin importar el filtro pedido.
func (uc *QueryUseCase) List(ctx context.Context, actorID string, f repository.QuoteFilter, page dto.PageRequest) (*dto.QuoteListResponse, error) {
	actor, err := uc.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, domain.ErrUserNotFound
	}
	if !actor.IsCSR() && !actor.IsManager() {
		f.UserID = actor.ID
	}
	page.DefaultPage()
	f.Limit = page.Limit
	f.Offset = page.Offset

	list, total, err := uc.quoteRepo.List(f)
	if err != nil {
		return nil, err
	}
	resp := &dto.QuoteListResponse{
		Quotes: make([]dto.QuoteResponse, 0, len(list)),
		Page:   dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, q := range list {
		resp.Quotes = append(resp.Quotes, toQuoteResponse(q))
	}
	return resp, nil
}

// Dashboard agrega abiertas, en revisión, enviadas y ganadas del mes en curso.
func (uc *QueryUseCase) Dashboard(ctx context.Context, actorID string) (*dto.DashboardResponse, error) {
	actor, err := uc.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, domain.ErrUserNotFound
	}
	userID := actor.ID
	if actor.IsManager() {
		userID = "" // gerencia ve el tablero completo
	}
	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	stats, err := uc.quoteRepo.Dashboard(userID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardResponse{
		OpenCount:       stats.OpenCount,
		PendingApproval: stats.PendingApproval,
		SentCount:       stats.SentCount,
		WonCount:        stats.WonCount,
		WonTotal:        stats.WonTotal,
	}, nil
}
