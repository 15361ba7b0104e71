package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/conversion-pro/internal/application/analytics"
	"github.com/jhoicas/conversion-pro/internal/application/auth"
	"github.com/jhoicas/conversion-pro/internal/application/imports"
	"github.com/jhoicas/conversion-pro/internal/application/leads"
	"github.com/jhoicas/conversion-pro/internal/application/reports"
	"github.com/jhoicas/conversion-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	Book       *leads.Book
	ListUC     *leads.ListUseCase
	FollowUpUC *leads.FollowUpUseCase
	ImportUC   *imports.ImportUseCase
	SummaryUC  *analytics.SummaryUseCase
	ExportUC   *reports.ExportUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	admin := RequireRole(string(entity.RoleAdmin))

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/meta", Meta)

	// Leads: las rutas fijas van antes de /:id
	leadHandler := NewLeadHandler(deps.Book, deps.ListUC, deps.FollowUpUC)
	lg := protected.Group("/leads")
	lg.Get("/", leadHandler.List)
	lg.Post("/", leadHandler.Create)
	lg.Delete("/", admin, leadHandler.WipeOrigin)
	lg.Delete("/all", admin, leadHandler.WipeAll)
	lg.Post("/selection/toggle", admin, leadHandler.ToggleSelection)
	lg.Post("/selection/all", admin, leadHandler.ToggleAll)
	lg.Delete("/selection", admin, leadHandler.DeleteSelected)
	lg.Get("/:id", leadHandler.Get)
	lg.Put("/:id", leadHandler.Update)
	lg.Delete("/:id", admin, leadHandler.Delete)
	lg.Get("/:id/follow-up", leadHandler.FollowUp)

	// Carga masiva (admin)
	importHandler := NewImportHandler(deps.ImportUC)
	ig := protected.Group("/imports", admin)
	ig.Post("/", importHandler.Upload)
	ig.Get("/:id", importHandler.Get)
	ig.Put("/:id/default-status", importHandler.SetDefaultStatus)
	ig.Delete("/:id/rows/:index", importHandler.DeleteRow)
	ig.Post("/:id/commit", importHandler.Commit)
	ig.Delete("/:id", importHandler.Discard)

	// Analítica y exportaciones (admin)
	analyticsHandler := NewAnalyticsHandler(deps.SummaryUC)
	protected.Get("/analytics/summary", admin, analyticsHandler.Summary)
	protected.Get("/analytics/summary.pdf", admin, analyticsHandler.SummaryPDF)

	exportHandler := NewExportHandler(deps.ExportUC)
	protected.Get("/exports/leads.csv", admin, exportHandler.CSV)
	protected.Get("/exports/leads.xlsx", admin, exportHandler.XLSX)
}
