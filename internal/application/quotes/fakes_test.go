package quotes_test

import (
	"context"
	"sort"
	"time"

	"github.com/bitmx/cotizador-api/internal/application/quotes"
	"github.com/bitmx/cotizador-api/internal/domain/entity"
	"github.com/bitmx/cotizador-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El estado vive en fakeState; el fakeTxRunner toma una
// instantánea antes de cada callback y la restaura si fn falla, imitando el
// rollback de una transacción real.
// ──────────────────────────────────────────────────────────────────────────────

type fakeState struct {
	seq      int64
	quotes   map[string]*entity.Quote
	sections map[string][]*entity.QuoteSection // por quote ID
	lines    map[string][]*entity.QuoteLine    // por quote ID
	comments map[string][]*entity.QuoteComment // por quote ID
	products map[string]*entity.Product
}

func newFakeState() *fakeState {
	return &fakeState{
		quotes:   make(map[string]*entity.Quote),
		sections: make(map[string][]*entity.QuoteSection),
		lines:    make(map[string][]*entity.QuoteLine),
		comments: make(map[string][]*entity.QuoteComment),
		products: make(map[string]*entity.Product),
	}
}

func (s *fakeState) snapshot() *fakeState {
	c := newFakeState()
	c.seq = s.seq
	for id, q := range s.quotes {
		cp := *q
		c.quotes[id] = &cp
	}
	for id, list := range s.sections {
		for _, sec := range list {
			cp := *sec
			c.sections[id] = append(c.sections[id], &cp)
		}
	}
	for id, list := range s.lines {
		for _, l := range list {
			cp := *l
			c.lines[id] = append(c.lines[id], &cp)
		}
	}
	for id, list := range s.comments {
		for _, cm := range list {
			cp := *cm
			c.comments[id] = append(c.comments[id], &cp)
		}
	}
	c.products = s.products // catálogo de solo lectura
	return c
}

func (s *fakeState) restore(snap *fakeState) {
	s.seq = snap.seq
	s.quotes = snap.quotes
	s.sections = snap.sections
	s.lines = snap.lines
	s.comments = snap.comments
}

// fakeQuoteRepo implementa repository.QuoteRepository sobre fakeState.
type fakeQuoteRepo struct {
	st *fakeState
}

var _ repository.QuoteRepository = (*fakeQuoteRepo)(nil)

func (r *fakeQuoteRepo) Create(q *entity.Quote) error {
	r.st.seq++
	q.Seq = r.st.seq
	cp := *q
	r.st.quotes[q.ID] = &cp
	return nil
}

func (r *fakeQuoteRepo) SetIdentity(id, quoteID string, validUntil time.Time) error {
	q := r.st.quotes[id]
	q.QuoteID = quoteID
	vu := validUntil
	q.ValidUntil = &vu
	return nil
}

func (r *fakeQuoteRepo) Update(q *entity.Quote) error {
	cp := *q
	r.st.quotes[q.ID] = &cp
	return nil
}

func (r *fakeQuoteRepo) GetByID(id string) (*entity.Quote, error) {
	q, ok := r.st.quotes[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (r *fakeQuoteRepo) GetByQuoteID(quoteID string) (*entity.Quote, error) {
	for _, q := range r.st.quotes {
		if q.QuoteID == quoteID {
			cp := *q
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeQuoteRepo) List(f repository.QuoteFilter) ([]*entity.Quote, int, error) {
	var all []*entity.Quote
	for _, q := range r.st.quotes {
		if !q.IsActive {
			continue
		}
		if f.UserID != "" && q.UserID != f.UserID {
			continue
		}
		if f.Status != "" && q.Status != f.Status {
			continue
		}
		cp := *q
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if f.Offset < len(all) {
		all = all[f.Offset:]
	} else {
		all = nil
	}
	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (r *fakeQuoteRepo) Deactivate(id string) error {
	if q, ok := r.st.quotes[id]; ok {
		q.IsActive = false
	}
	return nil
}

func (r *fakeQuoteRepo) DeleteLines(quoteID string) error {
	delete(r.st.lines, quoteID)
	return nil
}

func (r *fakeQuoteRepo) DeleteSections(quoteID string) error {
	delete(r.st.sections, quoteID)
	return nil
}

func (r *fakeQuoteRepo) CreateSection(s *entity.QuoteSection) error {
	cp := *s
	r.st.sections[s.QuoteID] = append(r.st.sections[s.QuoteID], &cp)
	return nil
}

func (r *fakeQuoteRepo) CreateLine(l *entity.QuoteLine) error {
	cp := *l
	r.st.lines[l.QuoteID] = append(r.st.lines[l.QuoteID], &cp)
	return nil
}

func (r *fakeQuoteRepo) GetSections(quoteID string) ([]*entity.QuoteSection, error) {
	return r.st.sections[quoteID], nil
}

func (r *fakeQuoteRepo) GetLines(quoteID string) ([]*entity.QuoteLine, error) {
	return r.st.lines[quoteID], nil
}

func (r *fakeQuoteRepo) CreateComment(c *entity.QuoteComment) error {
	cp := *c
	r.st.comments[c.QuoteID] = append([]*entity.QuoteComment{&cp}, r.st.comments[c.QuoteID]...)
	return nil
}

func (r *fakeQuoteRepo) GetComments(quoteID string) ([]*entity.QuoteComment, error) {
	return r.st.comments[quoteID], nil
}

func (r *fakeQuoteRepo) Dashboard(userID string, wonFrom, wonTo time.Time) (*repository.DashboardStats, error) {
	stats := &repository.DashboardStats{}
	for _, q := range r.st.quotes {
		if !q.IsActive {
			continue
		}
		if userID != "" && q.UserID != userID {
			continue
		}
		switch q.Status {
		case entity.StatusWon:
			if q.WonAt != nil && !q.WonAt.Before(wonFrom) && q.WonAt.Before(wonTo) {
				stats.WonCount++
				stats.WonTotal = stats.WonTotal.Add(q.Total)
			}
		case entity.StatusLost, entity.StatusExpired:
		default:
			stats.OpenCount++
			if q.Status == entity.StatusPendingApproval {
				stats.PendingApproval++
			}
			if q.Status == entity.StatusSent {
				stats.SentCount++
			}
		}
	}
	return stats, nil
}

// fakeProductRepo implementa repository.ProductRepository sobre el catálogo.
type fakeProductRepo struct {
	st *fakeState
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) ListByIDs(ids []string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := r.st.products[id]; ok && p.IsActive {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListActive(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.st.products {
		if p.IsActive {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// fakeTxRunner imita el rollback transaccional restaurando la instantánea si
// el callback falla.
type fakeTxRunner struct {
	st *fakeState
}

var _ quotes.TxRunner = (*fakeTxRunner)(nil)

func (r *fakeTxRunner) RunQuote(ctx context.Context, fn func(
	quoteRepo repository.QuoteRepository,
	productRepo repository.ProductRepository,
) error) error {
	snap := r.st.snapshot()
	if err := fn(&fakeQuoteRepo{st: r.st}, &fakeProductRepo{st: r.st}); err != nil {
		r.st.restore(snap)
		return err
	}
	return nil
}

// fakeUserRepo implementa repository.UserRepository sobre un mapa.
type fakeUserRepo struct {
	users map[string]*entity.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) Create(u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ListActiveSales() ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if u.IsActive && u.IsSales() {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeCustomerRepo implementa repository.CustomerRepository sobre un mapa.
type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

var _ repository.CustomerRepository = (*fakeCustomerRepo)(nil)

func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) GetBySlug(slug string) (*entity.Customer, error) {
	for _, c := range r.customers {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.customers {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// fakeContactRepo implementa repository.ContactRepository sobre un mapa.
type fakeContactRepo struct {
	contacts map[string]*entity.Contact
}

var _ repository.ContactRepository = (*fakeContactRepo)(nil)

func (r *fakeContactRepo) GetByID(id string) (*entity.Contact, error) {
	c, ok := r.contacts[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeContactRepo) ListActiveByCustomer(customerID string) ([]*entity.Contact, error) {
	var out []*entity.Contact
	for _, c := range r.contacts {
		if c.CustomerID == customerID && c.IsActive {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}
