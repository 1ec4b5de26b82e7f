package http

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Dashboard  *DashboardHandler
	Stock      *StockHandler
	Materials  *MaterialHandler
	Categories *CategoryHandler
	Requesters *RequesterHandler
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", RequestUser())

	// Tablero y operaciones de almacén por obra
	obras := api.Group("/obras/:obraID")
	obras.Get("/dashboard", deps.Dashboard.Get)
	obras.Post("/dashboard/refresh", deps.Dashboard.Refresh)
	obras.Get("/dashboard/stream", deps.Dashboard.Stream)
	obras.Get("/dashboard/report.pdf", deps.Dashboard.Report)
	obras.Post("/movements", deps.Stock.RegisterMovement)
	obras.Get("/movements/export.xlsx", deps.Stock.ExportMovements)
	obras.Post("/requisitions", deps.Stock.CreateRequisition)

	// Catálogo de materiales (las rutas fijas antes de /:id)
	materials := api.Group("/materials")
	materials.Post("/import", deps.Materials.Import)
	materials.Get("/export.xlsx", deps.Materials.Export)
	materials.Post("/", deps.Materials.Create)
	materials.Get("/", deps.Materials.List)
	materials.Get("/:id", deps.Materials.GetByID)
	materials.Put("/:id", deps.Materials.Update)
	materials.Delete("/:id", deps.Materials.Delete)

	categories := api.Group("/categories")
	categories.Post("/", deps.Categories.Create)
	categories.Get("/", deps.Categories.List)
	categories.Get("/:id", deps.Categories.GetByID)
	categories.Put("/:id", deps.Categories.Update)
	categories.Delete("/:id", deps.Categories.Delete)

	requesters := api.Group("/requesters")
	requesters.Post("/", deps.Requesters.Create)
	requesters.Get("/", deps.Requesters.List)
	requesters.Get("/:id", deps.Requesters.GetByID)
	requesters.Put("/:id", deps.Requesters.Update)
	requesters.Delete("/:id", deps.Requesters.Delete)
}
