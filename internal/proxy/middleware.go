package proxy

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/torredebabel/icfes/internal/api"
	"github.com/torredebabel/icfes/internal/proxy/response"
)

const requestIDKey = "requestid"

type Middleware struct {
	Log         *logrus.Logger
	CORSOrigins string
}

func NewMiddleware(log *logrus.Logger, corsOrigins string) *Middleware {
	return &Middleware{Log: log, CORSOrigins: corsOrigins}
}

func (m *Middleware) Recover() fiber.Handler {
	return recover.New()
}

func (m *Middleware) Cors() fiber.Handler {
	allowOrigins := "*"
	if m.CORSOrigins != "" {
		allowOrigins = m.CORSOrigins
	}

	return cors.New(cors.Config{
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Content-Length, Accept-Encoding, " + api.RequestIDHeader,
		AllowMethods:  "GET, POST, OPTIONS",
		AllowOrigins:  allowOrigins,
		ExposeHeaders: "Content-Length, Content-Type, " + api.RequestIDHeader,
	})
}

// RequestID reuses the caller's X-Request-ID or assigns a new one.
func (m *Middleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     api.RequestIDHeader,
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	})
}

// AccessLog logs one line per request.
func (m *Middleware) AccessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The error handler has not written the response yet.
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		entry := m.Log.WithFields(logrus.Fields{
			"request_id":  requestID(c),
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if status >= fiber.StatusInternalServerError {
			entry.Warn("request")
		} else {
			entry.Info("request")
		}
		return err
	}
}

// RequireAuth rejects requests without an Authorization header before
// they reach the backend.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return response.NewFailed("No authorization header", fiber.NewError(fiber.StatusUnauthorized, ""), nil).Send(c)
		}
		return c.Next()
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestIDKey).(string); ok {
		return id
	}
	return ""
}
