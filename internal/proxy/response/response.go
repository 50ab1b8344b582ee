// Package response writes the {success, message, data, error} envelope
// shared by every proxy route.
package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/torredebabel/icfes/internal/proxy/validate"
)

type Response struct {
	StatusCode int    `json:"-"`
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Error      any    `json:"error,omitempty"`
	Data       any    `json:"data,omitempty"`
}

func NewInternalServerError() *Response {
	return &Response{
		Success:    false,
		Message:    "Internal server error",
		StatusCode: fiber.StatusInternalServerError,
	}
}

// NewFailed builds a failure envelope. A *fiber.Error sets the status,
// a *validate.FieldsError yields 400 with per-field messages and anything
// else is a 500.
func NewFailed(msg string, err error, logger logrus.FieldLogger) *Response {
	res := &Response{
		Success:    false,
		Message:    msg,
		StatusCode: fiber.StatusInternalServerError,
	}

	var fe *fiber.Error
	var fields *validate.FieldsError
	switch {
	case errors.As(err, &fe):
		res.StatusCode = fe.Code
		if fe.Message != "" && fe.Message != msg {
			res.Error = fe.Message
		}
	case errors.As(err, &fields):
		res.StatusCode = fiber.StatusBadRequest
		res.Error = fields.Fields
	}

	if logger != nil && res.StatusCode >= fiber.StatusInternalServerError {
		logger.WithError(err).Error(msg)
	}
	return res
}

func NewSuccess(msg string, data any) *Response {
	return &Response{
		Success:    true,
		Message:    msg,
		StatusCode: fiber.StatusOK,
		Data:       data,
	}
}

func (r *Response) Send(ctx *fiber.Ctx) error {
	return ctx.Status(r.StatusCode).JSON(r)
}
