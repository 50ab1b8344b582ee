package proxy

import "github.com/gofiber/fiber/v2"

type RouteConfig struct {
	App        *fiber.App
	Handler    *Handler
	Middleware *Middleware
}

func Setup(c *RouteConfig) {
	c.App.Use(c.Middleware.Recover())
	c.App.Use(c.Middleware.RequestID())
	c.App.Use(c.Middleware.AccessLog())
	c.App.Use(c.Middleware.Cors())

	c.App.Get("/health", c.Handler.Health)

	api := c.App.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", c.Handler.Login)
	auth.Post("/register", c.Handler.Register)
	auth.Get("/stats", c.Middleware.RequireAuth(), c.Handler.Stats)
	auth.Post("/complete-assessment", c.Middleware.RequireAuth(), c.Handler.CompleteAssessment)

	quiz := api.Group("/icfes/quiz", c.Middleware.RequireAuth())
	quiz.Post("/start-session", c.Handler.StartSession)
	quiz.Post("/session/:sessionId/submit-answer", c.Handler.SubmitAnswer)
	quiz.Get("/session/:sessionId/current-question", c.Handler.CurrentQuestion)
	quiz.Get("/session/:sessionId/feedback", c.Handler.Feedback)
}
