package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/mkamau27/school_admin/handlers"
	"github.com/mkamau27/school_admin/middleware"
)

func FeeRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	staff := api.Group("/classes", middleware.Protected(), middleware.StaffRequired())
	staff.Get("/:classId/fee-status", handlers.GetClassFeeStatus)
	staff.Post("/:classId/students/:studentId/fee-records", handlers.GenerateFeeRecord)

	// Staff and the student's own parent; the handler enforces ownership.
	api.Get("/students/:studentId/fee-records", middleware.Protected(), handlers.GetStudentFeeRecords)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(handlers.ServeWs))
}
