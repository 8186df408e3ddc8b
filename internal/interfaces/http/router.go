package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturation-api/internal/application/access"
	appanalytics "github.com/jhoicas/facturation-api/internal/application/analytics"
	"github.com/jhoicas/facturation-api/internal/application/billing"
	"github.com/jhoicas/facturation-api/internal/application/payment"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions      *access.SessionService
	Subscriptions *access.SubscriptionService
	Payments      *payment.UseCase
	Dashboard     *appanalytics.DashboardUseCase
	ClientUC      *billing.ClientUseCase
	ProductUC     *billing.ProductUseCase
	CategoryUC    *billing.CategoryUseCase
	InvoiceUC     *billing.InvoiceUseCase
	QuoteUC       *billing.QuoteUseCase
	DeliveryUC    *billing.DeliveryNoteUseCase
	SettingsUC    *billing.SettingsUseCase
	PDF           *billing.PDFUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	auth := AuthMiddleware(deps.JWTSecret)
	optional := OptionalAuth(deps.JWTSecret)
	subscribed := RequireSubscription(deps.Subscriptions)

	// módulo protegido: token + suscripción vigente + permiso del módulo
	module := func(prefix, permission string) fiber.Router {
		return api.Group(prefix, auth, subscribed, RequirePermission(deps.Sessions, permission))
	}

	// Auth (público salvo logout)
	authHandler := NewAuthHandler(deps.Sessions)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", auth, authHandler.Logout)
	authGroup.Get("/me", optional, authHandler.Me)

	// Acceso y suscripción: solo token
	accessHandler := NewAccessHandler(deps.Sessions, deps.Subscriptions)
	api.Get("/access/route", optional, accessHandler.Route)
	api.Get("/subscription", auth, accessHandler.Subscription)
	api.Post("/subscription/trial", auth, accessHandler.StartTrial)

	// Pagos: /paiement no exige suscripción
	paymentHandler := NewPaymentHandler(deps.Payments)
	payments := api.Group("/payments", auth)
	payments.Post("/init", paymentHandler.Init)
	payments.Post("/init-payment", paymentHandler.Init)
	payments.Post("/confirm", paymentHandler.Confirm)
	payments.Post("/fail", paymentHandler.Fail)
	api.Post("/init-payment", auth, paymentHandler.Init)

	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	module("/dashboard", entity.PermissionDashboard).Get("/", dashboardHandler.Get)

	clientHandler := NewClientHandler(deps.ClientUC)
	clients := module("/clients", entity.PermissionClients)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	productHandler := NewProductHandler(deps.ProductUC)
	products := module("/products", entity.PermissionProducts)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := module("/categories", entity.PermissionCategories)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDF)
	invoices := module("/invoices", entity.PermissionInvoices)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	quoteHandler := NewQuoteHandler(deps.QuoteUC, deps.PDF)
	quotes := module("/quotes", entity.PermissionQuotes)
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/", quoteHandler.List)
	quotes.Get("/:id", quoteHandler.GetByID)
	quotes.Put("/:id", quoteHandler.Update)
	quotes.Patch("/:id/status", quoteHandler.UpdateStatus)
	quotes.Post("/:id/convert", quoteHandler.Convert)
	quotes.Delete("/:id", quoteHandler.Delete)
	quotes.Get("/:id/pdf", quoteHandler.DownloadPDF)

	deliveryHandler := NewDeliveryNoteHandler(deps.DeliveryUC, deps.PDF)
	notes := module("/delivery-notes", entity.PermissionDeliveryNotes)
	notes.Post("/", deliveryHandler.Create)
	notes.Get("/", deliveryHandler.List)
	notes.Get("/:id", deliveryHandler.GetByID)
	notes.Delete("/:id", deliveryHandler.Delete)
	notes.Get("/:id/pdf", deliveryHandler.DownloadPDF)

	// Paramètres: solo admin, sin exigir suscripción
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settings := api.Group("/settings", auth, RequireRole(entity.RoleAdmin), RequirePermission(deps.Sessions, entity.PermissionSettings))
	settings.Get("/company", settingsHandler.GetCompany)
	settings.Put("/company", settingsHandler.SaveCompany)
	settings.Get("/bank", settingsHandler.GetBank)
	settings.Put("/bank", settingsHandler.SaveBank)
}
