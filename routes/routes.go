package routes

import (
	"github.com/gofiber/fiber/v2"

	"peerreview-backend/controllers"
	"peerreview-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth + signup endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)
	api.Get("/companies", controllers.GetCompanies)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard for retried mutations (bulk submit especially)
	protected.Use(middlewares.Idempotency())

	// Directory
	protected.Get("/employees", controllers.GetEmployees)

	// Requester side
	protected.Post("/request/request-users", controllers.RequestUsers)
	protected.Get("/request/request-states", controllers.RequestStates)
	protected.Post("/request/cancel", controllers.CancelRequest)

	// Receiver side
	protected.Get("/respond/inbox", controllers.Inbox)
	protected.Post("/respond/accept", controllers.AcceptRequest)
	protected.Post("/respond/reject", controllers.RejectRequest)
	protected.Post("/respond/complete", controllers.CompleteRequest)
}
