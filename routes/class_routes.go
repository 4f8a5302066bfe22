package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mkamau27/school_admin/handlers"
	"github.com/mkamau27/school_admin/middleware"
)

func ClassRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	classes := api.Group("/classes", middleware.Protected(), middleware.StaffRequired())
	classes.Get("", handlers.ListClasses)
	classes.Get("/:classId", handlers.GetClass)
	classes.Get("/:classId/fee-changes", handlers.ListFeeChanges)

	admin := api.Group("/classes", middleware.Protected(), middleware.AdminRequired())
	admin.Post("", handlers.CreateClass)
	admin.Put("/:classId", handlers.UpdateClass)
	admin.Put("/:classId/fee-settings", handlers.UpdateFeeSettings)
}
