package quotes_test

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmx/cotizador-api/internal/application/dto"
	"github.com/bitmx/cotizador-api/internal/application/quotes"
	"github.com/bitmx/cotizador-api/internal/domain"
	"github.com/bitmx/cotizador-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

// boolPolicy política de aprobación fija para tests.
type boolPolicy bool

func (p boolPolicy) AutoApprove(q *entity.Quote, lines []*entity.QuoteLine) bool {
	return bool(p)
}

var ivaRate = decimal.RequireFromString("0.16")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedQuote inserta una cotización con identidad asignada en el estado fake.
func seedQuote(env *testEnv, status string) *entity.Quote {
	validUntil := time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)
	q := &entity.Quote{
		ID:           "q1",
		Seq:          1,
		QuoteID:      "BIT-MG-251028-00001",
		CustomerID:   "cust-1",
		ContactID:    "cont-1",
		UserID:       "seller",
		Status:       status,
		PaymentTerms: entity.PaymentCash,
		ValidUntil:   &validUntil,
		IsActive:     true,
		CreatedAt:    fixedNow,
		UpdatedAt:    fixedNow,
		CreatedBy:    "seller",
		UpdatedBy:    "seller",
	}
	env.st.quotes[q.ID] = q
	env.st.seq = 1
	return q
}

func seedCatalog(env *testEnv) {
	env.st.products["p-equ"] = &entity.Product{
		ID: "p-equ", SKU: "EQ-001", Name: "Compresor dental", Price: dec("1000.00"),
		PriceEditable: false, ProductType: entity.ProductTypeEquipment, IsActive: true,
	}
	env.st.products["p-con"] = &entity.Product{
		ID: "p-con", SKU: "CN-001", Name: "Guantes de nitrilo", Price: dec("19.99"),
		PriceEditable: false, ProductType: entity.ProductTypeConsumable, IsActive: true,
	}
	env.st.products["p-ser"] = &entity.Product{
		ID: "p-ser", SKU: "SV-001", Name: "Instalación en sitio", Price: dec("500.00"),
		PriceEditable: true, ProductType: entity.ProductTypeService, IsActive: true,
	}
}

func newRebuildUC(env *testEnv, policy boolPolicy) *quotes.RebuildLinesUseCase {
	return quotes.NewRebuildLinesUseCase(env.tx, env.users, policy, ivaRate, func() time.Time { return fixedNow })
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRebuild_CreaSeccionesYTotales(t *testing.T) {
	env := newTestEnv()
	seedQuote(env, entity.StatusDraft)
	seedCatalog(env)
	uc := newRebuildUC(env, false)

	out, err := uc.Rebuild(context.Background(), "seller", "q1", dto.RebuildLinesRequest{
		Lines: []dto.LineInput{
			{ProductID: "p-equ", Quantity: 1, Discount: 0, DeliveryTime: 10},
			{ProductID: "p-con", Quantity: 3, Discount: 10, DeliveryTime: 3},
		},
	})
	require.NoError(t, err)

	// Dos secciones en orden de primer encuentro, nombradas por tipo.
	require.Len(t, out.Sections, 2)
	assert.Equal(t, "Equipo", out.Sections[0].Name)
	assert.Equal(t, "Consumible", out.Sections[1].Name)
	require.Len(t, out.Sections[0].Lines, 1)
	require.Len(t, out.Sections[1].Lines, 1)

	// Subtotal de sección = suma de netos de sus líneas.
	// Consumible: 3 × 19.99 = 59.97, descuento 10% = 6.00, neto 53.97.
	assert.True(t, out.Sections[0].SubTotal.Equal(dec("1000.00")), "Equipo: %s", out.Sections[0].SubTotal)
	assert.True(t, out.Sections[1].SubTotal.Equal(dec("53.97")), "Consumible: %s", out.Sections[1].SubTotal)

	// Totales de cabecera: sub 1059.97, desc 6.00, IVA 16% del neto = 168.64.
	assert.True(t, out.SubTotal.Equal(dec("1059.97")), "sub_total: %s", out.SubTotal)
	assert.True(t, out.DiscountTotal.Equal(dec("6.00")), "discount_total: %s", out.DiscountTotal)
	assert.True(t, out.Tax.Equal(dec("168.64")), "tax: %s", out.Tax)
	assert.True(t, out.Total.Equal(dec("1222.61")), "total: %s", out.Total)

	// El borrador sigue siendo borrador: cerrar es un paso aparte.
	assert.Equal(t, entity.StatusDraft, out.Status)

	// Las líneas persistidas conservan el orden de captura.
	stored := env.st.lines["q1"]
	require.Len(t, stored, 2)
	assert.Equal(t, 0, stored[0].Position)
	assert.Equal(t, "p-equ", stored[0].ProductID)
	assert.Equal(t, 1, stored[1].Position)
	assert.Equal(t, "p-con", stored[1].ProductID)
}

func TestRebuild_ReemplazaJuegoCompleto(t *testing.T) {
	env := newTestEnv()
	seedQuote(env, entity.StatusDraft)
	seedCatalog(env)
	uc := newRebuildUC(env, false)

	_, err := uc.Rebuild(context.Background(), "seller", "q1", dto.RebuildLinesRequest{
		Lines: []dto.LineInput{
			{ProductID: "p-equ", Quantity: 1},
			{ProductID: "p-con", Quantity: 2},
		},
	})
	require.NoError(t, err)

	// Segundo rebuild con una sola línea: la línea no enviada desaparece y no
	// queda ninguna sección vacía.
	out, err := uc.Rebuild(context.Background(), "seller", "q1", dto.RebuildLinesRequest{
		Lines: []dto.LineInput{{ProductID: "p-con", Quantity: 5}},
	})
	require.NoError(t, err)

	require.Len(t, out.Sections, 1)
	assert.Equal(t, "Consumible", out.Sections[0].Name)
	assert.Len(t, env.st.lines["q1"], 1)
	assert.Len(t, env.st.sections["q1"], 1)
}

func TestRebuild_ProductoDesconocidoAbortaYConserva(t *testing.T) {
	env := newTestEnv()
	seedQuote(env, entity.StatusDraft)
	seedCatalog(env)
	uc := newRebuildUC(env, false)

	_, err := uc.Rebuild(context.Background(), "seller", "q1", dto.RebuildLinesRequest{
		Lines: []dto.LineInput{{ProductID: "p-equ", Quantity: 1}},
	})
	require.NoError(t, err)
	prevTotal := env.st.quotes["q1"].Total

	_, err = uc.Rebuild(context.Background(), "seller", "q1", dto.RebuildLinesRequest{
		Lines: []dto.LineInput{
			{ProductID: "p-con", Quantity: 1},
			{ProductID: "p-fantasma", Quantity: 1},
		},
	})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Lines, 1)
	assert.Equal(t, 1, vErr.Lines[0].Index)
	assert.Equal(t, "product_id", vErr.Lines[0].Field)

	// El rollback dejó intacto el juego anterior.
	require.Len(t, env.st.lines["q1"], 1)
	assert.Equal(t, "p-equ", env.st.lines["q1"][0].ProductID)
	assert.True(t, env.st.quotes["q1"].Total.Equal(prevTotal), "los totales no deben cambiar")
}

func TestRebuild_PrecioSobreescritoSoloSiEditable(t *testing.T) {
	env := newTestEnv()
	seedQuote(env, entity.StatusDraft)
	seedCatalog(env)
	uc := newRebuildUC(env, false)

	override := dec("750.00")
	lowball := dec("1.00")
	out, err := uc.Rebuild(context.Background(), "seller", "q1", dto.RebuildLinesRequest{
		Lines: []dto.LineInput{
			{ProductID: "p-ser", Quantity: 1, UnitPrice: &override},
			{ProductID: "p-equ", Quantity: 1, UnitPrice: &lowball},
		},
	})
	require.NoError(t, err)

	stored := env.st.lines["q1"]
	require.Len(t, stored, 2)
	assert.True(t, stored[0].UnitPrice.Equal(dec("750.00")), "precio editable se honra")
	assert.True(t, stored[1].UnitPrice.Equal(dec("1000.00")), "precio no editable se impone de catálogo")
	assert.True(t, out.SubTotal.Equal(dec("1750.00")))
}

func TestRebuild_DescuentoFueraDelConjunto(t *testing.T) {
	env := newTestEnv()
	seedQuote(env, entity.StatusDraft)
	seedCatalog(env)
	uc := newRebuildUC(env, false)

	_, err := uc.Rebuild(context.Background(), "seller", "q1", dto.RebuildLinesRequest{
		Lines: []dto.LineInput{{ProductID: "p-equ", Quantity: 1, Discount: 20}},
	})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Lines, 1)
	assert.Equal(t, "discount", vErr.Lines[0].Field)
}

func TestRebuild_EstadoEnviadoRechaza(t *testing.T) {
	env := newTestEnv()
	seedQuote(env, entity.StatusSent)
	seedCatalog(env)
	uc := newRebuildUC(env, false)

	_, err := uc.Rebuild(context.Background(), "seller", "q1", dto.RebuildLinesRequest{
		Lines: []dto.LineInput{{ProductID: "p-equ", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestRebuild_VendedorForaneoProhibido(t *testing.T) {
	env := newTestEnv()
	seedQuote(env, entity.StatusDraft)
	seedCatalog(env)
	uc := newRebuildUC(env, false)

	_, err := uc.Rebuild(context.Background(), "other", "q1", dto.RebuildLinesRequest{
		Lines: []dto.LineInput{{ProductID: "p-equ", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRebuild_AprobadaVuelveARevision(t *testing.T) {
	env := newTestEnv()
	q := seedQuote(env, entity.StatusApproved)
	approvedBy := "manager"
	approvedAt := fixedNow.Add(-time.Hour)
	q.ApprovedBy = &approvedBy
	q.ApprovedAt = &approvedAt
	seedCatalog(env)
	uc := newRebuildUC(env, false)

	out, err := uc.Rebuild(context.Background(), "seller", "q1", dto.RebuildLinesRequest{
		Lines: []dto.LineInput{{ProductID: "p-equ", Quantity: 2}},
	})
	require.NoError(t, err)

	// Editar una aprobada invalida la aprobación anterior.
	assert.Equal(t, entity.StatusPendingApproval, out.Status)
	assert.Nil(t, out.ApprovedBy)
	assert.Nil(t, out.ApprovedAt)
}

func TestRebuild_AprobadaSeReaprobaConPolitica(t *testing.T) {
	env := newTestEnv()
	q := seedQuote(env, entity.StatusApproved)
	approvedBy := "manager"
	q.ApprovedBy = &approvedBy
	seedCatalog(env)
	uc := newRebuildUC(env, true)

	out, err := uc.Rebuild(context.Background(), "seller", "q1", dto.RebuildLinesRequest{
		Lines: []dto.LineInput{{ProductID: "p-con", Quantity: 1}},
	})
	require.NoError(t, err)

	// La política volvió a aprobar, con sello nuevo del actor de la edición.
	assert.Equal(t, entity.StatusApproved, out.Status)
	require.NotNil(t, out.ApprovedBy)
	assert.Equal(t, "seller", *out.ApprovedBy)
	require.NotNil(t, out.ApprovedAt)
	assert.True(t, out.ApprovedAt.Equal(fixedNow))
}

func TestRebuild_DescripcionSeCongelaYRecorta(t *testing.T) {
	env := newTestEnv()
	seedQuote(env, entity.StatusDraft)
	seedCatalog(env)
	uc := newRebuildUC(env, false)

	long := strings.Repeat("x", 150)
	_, err := uc.Rebuild(context.Background(), "seller", "q1", dto.RebuildLinesRequest{
		Lines: []dto.LineInput{
			{ProductID: "p-equ", Quantity: 1},
			{ProductID: "p-con", Quantity: 1, Description: long},
		},
	})
	require.NoError(t, err)

	stored := env.st.lines["q1"]
	require.Len(t, stored, 2)
	// Sin descripción explícita se congela el nombre actual del producto.
	assert.Equal(t, "Compresor dental", stored[0].Description)
	assert.Len(t, stored[1].Description, entity.DescriptionMaxLen)
}

func TestRebuild_RecorteNoParteCaracteresMultibyte(t *testing.T) {
	env := newTestEnv()
	seedQuote(env, entity.StatusDraft)
	seedCatalog(env)
	uc := newRebuildUC(env, false)

	// El límite cae en medio de la "é": el corte debe ser por runas.
	long := strings.Repeat("x", 99) + "é-café"
	_, err := uc.Rebuild(context.Background(), "seller", "q1", dto.RebuildLinesRequest{
		Lines: []dto.LineInput{{ProductID: "p-con", Quantity: 1, Description: long}},
	})
	require.NoError(t, err)

	stored := env.st.lines["q1"]
	require.Len(t, stored, 1)
	got := stored[0].Description
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, entity.DescriptionMaxLen, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("x", 99)+"é", got)
}

func TestRebuild_ActualizaTerminosDePago(t *testing.T) {
	env := newTestEnv()
	seedQuote(env, entity.StatusDraft)
	seedCatalog(env)
	uc := newRebuildUC(env, false)

	out, err := uc.Rebuild(context.Background(), "seller", "q1", dto.RebuildLinesRequest{
		PaymentTerms: entity.PaymentNet30,
		Lines:        []dto.LineInput{{ProductID: "p-equ", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentNet30, out.PaymentTerms)
}
