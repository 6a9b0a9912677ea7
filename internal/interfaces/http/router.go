package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bitmx/cotizador-api/internal/application/auth"
	"github.com/bitmx/cotizador-api/internal/application/catalog"
	"github.com/bitmx/cotizador-api/internal/application/quotes"
	"github.com/bitmx/cotizador-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CreateQuote  *quotes.CreateQuoteUseCase
	RebuildLines *quotes.RebuildLinesUseCase
	Workflow     *quotes.WorkflowUseCase
	Comments     *quotes.CommentUseCase
	Query        *quotes.QueryUseCase
	Lookup       *catalog.LookupUseCase
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo y directorio (protegido, solo lectura)
	catalogHandler := NewCatalogHandler(deps.Lookup)
	protected.Get("/products", catalogHandler.Products)
	protected.Get("/customers", catalogHandler.Customers)
	protected.Get("/customers/:id/contacts", catalogHandler.Contacts)

	// Cotizaciones (protegido)
	quotesGroup := protected.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.CreateQuote, deps.RebuildLines, deps.Workflow, deps.Comments, deps.Query)
	quotesGroup.Post("/", quoteHandler.Create)
	quotesGroup.Get("/", quoteHandler.List)
	quotesGroup.Get("/dashboard", quoteHandler.Dashboard)
	quotesGroup.Get("/:id", quoteHandler.Get)
	quotesGroup.Put("/:id/lines", quoteHandler.RebuildLines)
	quotesGroup.Post("/:id/close", quoteHandler.CloseInternal)
	quotesGroup.Post("/:id/approve", RequireRole(entity.RoleManager), quoteHandler.Approve)
	quotesGroup.Post("/:id/send", quoteHandler.MarkSent)
	quotesGroup.Post("/:id/won", quoteHandler.MarkWon)
	quotesGroup.Post("/:id/lost", quoteHandler.MarkLost)
	quotesGroup.Post("/:id/expire", RequireRole(entity.RoleAdmin, entity.RoleManager), quoteHandler.MarkExpired)
	quotesGroup.Post("/:id/comments", quoteHandler.AddComment)
	quotesGroup.Delete("/:id", RequireRole(entity.RoleCSR, entity.RoleManager), quoteHandler.Deactivate)
}
