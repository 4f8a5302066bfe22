package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mkamau27/school_admin/handlers"
	"github.com/mkamau27/school_admin/middleware"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", handlers.LoginUser)
	auth.Post("/forgot-password", handlers.ForgotPassword)
	auth.Post("/reset-password", handlers.ResetPassword)

	auth.Post("/register", middleware.Protected(), middleware.AdminRequired(), handlers.RegisterUser)
}
