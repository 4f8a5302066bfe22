package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mkamau27/school_admin/handlers"
	"github.com/mkamau27/school_admin/middleware"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/payments/webhook", handlers.HandlePaymentWebhook)

	parent := api.Group("/fee-records", middleware.Protected(), middleware.ParentRequired())
	parent.Post("/:recordId/pay", handlers.SubmitFeePayment)
	parent.Post("/:recordId/mpesa", handlers.InitiateMpesaPayment)
	parent.Post("/:recordId/paypal/create-order", handlers.CreatePayPalOrderHandler)

	api.Post("/fee-records/paypal/capture-order", middleware.Protected(), middleware.ParentRequired(), handlers.CapturePayPalOrderHandler)

	admin := api.Group("/fee-records", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/pending-approvals", handlers.ListPendingApprovals)
	admin.Post("/:recordId/approve", handlers.ApproveFeePayment)
	admin.Post("/:recordId/reject", handlers.RejectFeePayment)
}
