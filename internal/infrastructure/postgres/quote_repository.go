package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bitmx/cotizador-api/internal/domain/entity"
	"github.com/bitmx/cotizador-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo implementación de QuoteRepository (usable con pool o tx).
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

const quoteColumns = `
	id, seq, COALESCE(quote_id, ''), customer_id, contact_id, user_id,
	status, payment_terms, valid_until,
	sub_total, discount_total, tax, total,
	is_active, created_at, updated_at, created_by, updated_by,
	approved_by, approved_at, sent_by, sent_at,
	won_by, won_at, lost_by, lost_at, COALESCE(lost_reason, '')`

// Create inserta la cabecera y recupera el consecutivo asignado por la DB.
// El folio y la vigencia se fijan después con SetIdentity, en la misma tx.
func (r *QuoteRepo) Create(q *entity.Quote) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	query := `
		INSERT INTO quotes (id, customer_id, contact_id, user_id, status, payment_terms,
			sub_total, discount_total, tax, total,
			is_active, created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING seq`
	err := r.q.QueryRow(context.Background(), query,
		q.ID, q.CustomerID, q.ContactID, q.UserID, q.Status, q.PaymentTerms,
		q.SubTotal, q.DiscountTotal, q.Tax, q.Total,
		q.IsActive, q.CreatedAt, q.UpdatedAt, q.CreatedBy, q.UpdatedBy,
	).Scan(&q.Seq)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// SetIdentity fija folio y vigencia. Falla si el folio ya existiera en otra
// cotización (constraint único sobre quote_id).
func (r *QuoteRepo) SetIdentity(id, quoteID string, validUntil time.Time) error {
	query := `UPDATE quotes SET quote_id = $2, valid_until = $3 WHERE id = $1 AND quote_id IS NULL`
	tag, err := r.q.Exec(context.Background(), query, id, quoteID, validUntil)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("quote folio already exists: %w", err)
		}
		return fmt.Errorf("set quote identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set quote identity: folio ya asignado o cotización inexistente")
	}
	return nil
}

// Update actualiza la cabecera: estado, sellos de workflow, totales y términos.
// Folio, vigencia y consecutivo nunca se tocan aquí.
func (r *QuoteRepo) Update(q *entity.Quote) error {
	query := `
		UPDATE quotes
		SET status = $2, payment_terms = $3,
		    sub_total = $4, discount_total = $5, tax = $6, total = $7,
		    updated_at = $8, updated_by = $9,
		    approved_by = $10, approved_at = $11,
		    sent_by = $12, sent_at = $13,
		    won_by = $14, won_at = $15,
		    lost_by = $16, lost_at = $17, lost_reason = $18
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		q.ID, q.Status, q.PaymentTerms,
		q.SubTotal, q.DiscountTotal, q.Tax, q.Total,
		q.UpdatedAt, q.UpdatedBy,
		q.ApprovedBy, q.ApprovedAt,
		q.SentBy, q.SentAt,
		q.WonBy, q.WonAt,
		q.LostBy, q.LostAt, q.LostReason,
	)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	return nil
}

// GetByID obtiene una cotización por su ID interno.
func (r *QuoteRepo) GetByID(id string) (*entity.Quote, error) {
	return r.getOne("id = $1", id)
}

// GetByQuoteID obtiene una cotización por su folio.
func (r *QuoteRepo) GetByQuoteID(quoteID string) (*entity.Quote, error) {
	return r.getOne("quote_id = $1", quoteID)
}

func (r *QuoteRepo) getOne(where string, arg any) (*entity.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE ` + where
	q, err := scanQuote(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}

func scanQuote(row pgx.Row) (*entity.Quote, error) {
	var q entity.Quote
	err := row.Scan(
		&q.ID, &q.Seq, &q.QuoteID, &q.CustomerID, &q.ContactID, &q.UserID,
		&q.Status, &q.PaymentTerms, &q.ValidUntil,
		&q.SubTotal, &q.DiscountTotal, &q.Tax, &q.Total,
		&q.IsActive, &q.CreatedAt, &q.UpdatedAt, &q.CreatedBy, &q.UpdatedBy,
		&q.ApprovedBy, &q.ApprovedAt, &q.SentBy, &q.SentAt,
		&q.WonBy, &q.WonAt, &q.LostBy, &q.LostAt, &q.LostReason,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// List devuelve cotizaciones activas filtradas y el total sin paginar.
func (r *QuoteRepo) List(f repository.QuoteFilter) ([]*entity.Quote, int, error) {
	where := "q.is_active = TRUE"
	args := []any{}
	if f.CustomerSlug != "" {
		args = append(args, f.CustomerSlug)
		where += fmt.Sprintf(" AND c.slug = $%d", len(args))
	}
	if f.UserID != "" {
		args = append(args, f.UserID)
		where += fmt.Sprintf(" AND q.user_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND q.status = $%d", len(args))
	}

	countQuery := `SELECT COUNT(*) FROM quotes q JOIN customers c ON c.id = q.customer_id WHERE ` + where
	var total int
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotes: %w", err)
	}

	cols := `
		q.id, q.seq, COALESCE(q.quote_id, ''), q.customer_id, q.contact_id, q.user_id,
		q.status, q.payment_terms, q.valid_until,
		q.sub_total, q.discount_total, q.tax, q.total,
		q.is_active, q.created_at, q.updated_at, q.created_by, q.updated_by,
		q.approved_by, q.approved_at, q.sent_by, q.sent_at,
		q.won_by, q.won_at, q.lost_by, q.lost_at, COALESCE(q.lost_reason, '')`
	args = append(args, f.Limit, f.Offset)
	listQuery := fmt.Sprintf(`
		SELECT %s FROM quotes q JOIN customers c ON c.id = q.customer_id
		WHERE %s
		ORDER BY q.created_at DESC
		LIMIT $%d OFFSET $%d`, cols, where, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan quote: %w", err)
		}
		list = append(list, q)
	}
	return list, total, rows.Err()
}

// Deactivate apaga la cotización sin borrarla.
func (r *QuoteRepo) Deactivate(id string) error {
	query := `UPDATE quotes SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("deactivate quote: %w", err)
	}
	return nil
}

// DeleteLines borra todas las líneas de la cotización. Se llama antes que
// DeleteSections para no dejar líneas huérfanas.
func (r *QuoteRepo) DeleteLines(quoteID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM quote_lines WHERE quote_id = $1`, quoteID)
	if err != nil {
		return fmt.Errorf("delete quote lines: %w", err)
	}
	return nil
}

// DeleteSections borra todas las secciones de la cotización.
func (r *QuoteRepo) DeleteSections(quoteID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM quote_sections WHERE quote_id = $1`, quoteID)
	if err != nil {
		return fmt.Errorf("delete quote sections: %w", err)
	}
	return nil
}

// CreateSection persiste una sección.
func (r *QuoteRepo) CreateSection(s *entity.QuoteSection) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO quote_sections (id, quote_id, name, product_type, sub_total, position)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.QuoteID, s.Name, s.ProductType, s.SubTotal, s.Position,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("section name already exists for quote: %w", err)
		}
		return fmt.Errorf("insert quote section: %w", err)
	}
	return nil
}

// CreateLine persiste una línea.
func (r *QuoteRepo) CreateLine(l *entity.QuoteLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO quote_lines (id, quote_id, section_id, product_id, description,
			quantity, unit_price, discount, delivery_time, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.QuoteID, l.SectionID, l.ProductID, l.Description,
		l.Quantity, l.UnitPrice, l.Discount, l.DeliveryTime, l.Position,
	)
	if err != nil {
		return fmt.Errorf("insert quote line: %w", err)
	}
	return nil
}

// GetSections obtiene las secciones en su orden de aparición.
func (r *QuoteRepo) GetSections(quoteID string) ([]*entity.QuoteSection, error) {
	query := `
		SELECT id, quote_id, name, product_type, sub_total, position
		FROM quote_sections WHERE quote_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list quote sections: %w", err)
	}
	defer rows.Close()
	var list []*entity.QuoteSection
	for rows.Next() {
		var s entity.QuoteSection
		if err := rows.Scan(&s.ID, &s.QuoteID, &s.Name, &s.ProductType, &s.SubTotal, &s.Position); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// GetLines obtiene las líneas en su orden de captura.
func (r *QuoteRepo) GetLines(quoteID string) ([]*entity.QuoteLine, error) {
	query := `
		SELECT id, quote_id, section_id, product_id, description,
		       quantity, unit_price, discount, delivery_time, position
		FROM quote_lines WHERE quote_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list quote lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.QuoteLine
	for rows.Next() {
		var l entity.QuoteLine
		if err := rows.Scan(&l.ID, &l.QuoteID, &l.SectionID, &l.ProductID, &l.Description,
			&l.Quantity, &l.UnitPrice, &l.Discount, &l.DeliveryTime, &l.Position); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// CreateComment persiste un comentario.
func (r *QuoteRepo) CreateComment(c *entity.QuoteComment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `
		INSERT INTO quote_comments (id, quote_id, user_id, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.QuoteID, c.UserID, c.Comment, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quote comment: %w", err)
	}
	return nil
}

// GetComments obtiene los comentarios del más reciente al más antiguo.
func (r *QuoteRepo) GetComments(quoteID string) ([]*entity.QuoteComment, error) {
	query := `
		SELECT id, quote_id, user_id, comment, created_at
		FROM quote_comments WHERE quote_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list quote comments: %w", err)
	}
	defer rows.Close()
	var list []*entity.QuoteComment
	for rows.Next() {
		var c entity.QuoteComment
		if err := rows.Scan(&c.ID, &c.QuoteID, &c.UserID, &c.Comment, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Dashboard calcula los agregados del tablero en una sola consulta.
// userID vacío = todos los vendedores (vista de gerencia).
func (r *QuoteRepo) Dashboard(userID string, wonFrom, wonTo time.Time) (*repository.DashboardStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status NOT IN ('WON', 'LST', 'EXP')),
			COUNT(*) FILTER (WHERE status = 'RVW'),
			COUNT(*) FILTER (WHERE status = 'SNT'),
			COUNT(*) FILTER (WHERE status = 'WON' AND won_at >= $2 AND won_at < $3),
			COALESCE(SUM(total) FILTER (WHERE status = 'WON' AND won_at >= $2 AND won_at < $3), 0)
		FROM quotes
		WHERE is_active = TRUE AND ($1 = '' OR user_id = $1)`
	var stats repository.DashboardStats
	err := r.q.QueryRow(context.Background(), query, userID, wonFrom, wonTo).Scan(
		&stats.OpenCount, &stats.PendingApproval, &stats.SentCount,
		&stats.WonCount, &stats.WonTotal,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &stats, nil
}
