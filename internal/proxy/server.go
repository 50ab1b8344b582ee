// Package proxy is the HTTP front the terminal client talks to. It checks
// credentials and request shapes, then forwards calls to the learning
// backend and relays its answers unchanged.
package proxy

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/torredebabel/icfes/internal/config"
	"github.com/torredebabel/icfes/internal/proxy/response"
	"github.com/torredebabel/icfes/internal/proxy/validate"
)

// New builds the proxy app with all routes registered.
func New(cfg config.ServerConfig, log *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "icfes-proxy",
		ErrorHandler:          ErrorHandler(log),
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
	})

	h := NewHandler(HandlerConfig{
		BackendURL: cfg.BackendURL,
		Timeout:    cfg.Timeout,
		Validator:  validate.NewValidator(),
		Log:        log,
	})
	Setup(&RouteConfig{
		App:        app,
		Handler:    h,
		Middleware: NewMiddleware(log, cfg.CORSOrigins),
	})
	return app
}

// ErrorHandler turns handler errors into envelopes. Server-side failures
// are logged and reported without detail.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		if code >= fiber.StatusInternalServerError {
			log.WithField("request_id", requestID(ctx)).WithError(err).Error("request failed")
			return response.NewInternalServerError().Send(ctx)
		}

		var fields *validate.FieldsError
		if errors.As(err, &fields) {
			return response.NewFailed("Invalid request", err, log).Send(ctx)
		}
		return response.NewFailed(err.Error(), fiber.NewError(code, ""), log).Send(ctx)
	}
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
