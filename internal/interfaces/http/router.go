package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Presupuestos-api/internal/application/auth"
	"github.com/jhoicas/Presupuestos-api/internal/application/quoting"
	"github.com/jhoicas/Presupuestos-api/internal/application/usecase"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	CompanyUC  *usecase.CompanyUseCase
	ProductUC  *usecase.ProductUseCase
	CustomerUC *quoting.CustomerUseCase
	VendorUC   *quoting.VendorUseCase
	QuoteUC    *quoting.QuoteUseCase
	PDFUC      *quoting.PDFUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Alta de empresa (público, bootstrap del primer administrador)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Post("/companies", companyHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	approvers := RequireRole(entity.RoleAdmin, entity.RoleAprobador)

	protected.Get("/auth/me", authHandler.Me)

	company := protected.Group("/company")
	company.Get("/", companyHandler.Get)
	company.Put("/", adminOnly, companyHandler.Update)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/arba-padron", adminOnly, customerHandler.ImportARBAPadron)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	vendors := protected.Group("/vendors")
	vendorHandler := NewVendorHandler(deps.VendorUC)
	vendors.Post("/", adminOnly, vendorHandler.Create)
	vendors.Get("/", vendorHandler.List)

	quotes := protected.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.QuoteUC, deps.PDFUC)
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/", quoteHandler.List)
	quotes.Get("/:id", quoteHandler.Get)
	quotes.Get("/:id/pdf", quoteHandler.PDF)
	quotes.Post("/:id/copy", quoteHandler.Copy)
	quotes.Post("/:id/lines", quoteHandler.AddLine)
	quotes.Put("/:id/lines/:lineId", quoteHandler.UpdateLine)
	quotes.Delete("/:id/lines/:lineId", quoteHandler.RemoveLine)
	quotes.Post("/:id/emit", quoteHandler.Emit)
	quotes.Post("/:id/approve", approvers, quoteHandler.Approve)
	quotes.Post("/:id/reject", approvers, quoteHandler.Reject)
	quotes.Post("/:id/invoice", approvers, quoteHandler.Invoice)
	quotes.Post("/:id/delete", quoteHandler.Delete)
	quotes.Post("/:id/recalculate", quoteHandler.Recalculate)
}
