package quotes

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bitmx/cotizador-api/internal/application/dto"
	"github.com/bitmx/cotizador-api/internal/domain"
	"github.com/bitmx/cotizador-api/internal/domain/entity"
	"github.com/bitmx/cotizador-api/internal/domain/repository"
)

// CommentUseCase agrega notas a una cotización. Las notas son de solo
// agregado: nunca se editan ni se borran.
type CommentUseCase struct {
	quoteRepo repository.QuoteRepository
	userRepo  repository.UserRepository
	now       func() time.Time
}

// NewCommentUseCase construye el caso de uso.
func NewCommentUseCase(quoteRepo repository.QuoteRepository, userRepo repository.UserRepository, nowFn func() time.Time) *CommentUseCase {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &CommentUseCase{quoteRepo: quoteRepo, userRepo: userRepo, now: nowFn}
}

// Add agrega un comentario a la cotización.
func (uc *CommentUseCase) Add(ctx context.Context, actorID, quoteID, text string) (*dto.QuoteCommentResponse, error) {
	actor, err := uc.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, domain.ErrUserNotFound
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewValidationError("el comentario no puede estar vacío")
	}
	q, err := uc.quoteRepo.GetByID(quoteID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	comment := &entity.QuoteComment{
		ID:        uuid.New().String(),
		QuoteID:   q.ID,
		UserID:    actor.ID,
		Comment:   text,
		CreatedAt: uc.now(),
	}
	if err := uc.quoteRepo.CreateComment(comment); err != nil {
		return nil, err
	}
	return &dto.QuoteCommentResponse{
		ID:        comment.ID,
		UserID:    comment.UserID,
		Comment:   comment.Comment,
		CreatedAt: comment.CreatedAt,
	}, nil
}
