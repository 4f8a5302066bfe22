package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mkamau27/school_admin/handlers"
	"github.com/mkamau27/school_admin/middleware"
)

func StudentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	students := api.Group("/students", middleware.Protected(), middleware.StaffRequired())
	students.Get("", handlers.ListStudents)
	students.Post("", handlers.CreateStudent)
	students.Put("/:studentId", handlers.UpdateStudent)
	students.Delete("/:studentId", handlers.DeactivateStudent)

	api.Get("/my-children", middleware.Protected(), middleware.ParentRequired(), handlers.ListMyChildren)
}
