package proxy

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"github.com/torredebabel/icfes/internal/api"
	"github.com/torredebabel/icfes/internal/proxy/response"
	"github.com/torredebabel/icfes/internal/proxy/validate"
)

type startSessionBody struct {
	Area          string `json:"area" validate:"required,max=64"`
	Difficulty    string `json:"difficulty" validate:"required,max=16"`
	QuestionCount int    `json:"question_count" validate:"omitempty,min=1,max=100"`
}

type submitAnswerBody struct {
	QuestionID     string `json:"question_id" validate:"required"`
	SelectedAnswer string `json:"selected_answer" validate:"required,max=8"`
}

type assessmentBody struct {
	AssessmentType string         `json:"assessment_type" validate:"required,oneof=vocational manual_selection"`
	AssignedRole   string         `json:"assigned_role" validate:"required,oneof=TANK DPS SUPPORT SPECIALIST"`
	Method         string         `json:"method" validate:"omitempty,oneof=survey manual random"`
	Scores         map[string]int `json:"scores" validate:"omitempty,dive,min=0"`
	Answers        []int          `json:"answers" validate:"omitempty,dive,min=0"`
}

type loginBody struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type HandlerConfig struct {
	BackendURL string
	Timeout    time.Duration
	Validator  *validate.Validator
	Log        *logrus.Logger
}

// Handler forwards client calls to the backend.
type Handler struct {
	backend   string
	timeout   time.Duration
	validator *validate.Validator
	log       *logrus.Logger
}

func NewHandler(c HandlerConfig) *Handler {
	return &Handler{
		backend:   c.BackendURL,
		timeout:   c.Timeout,
		validator: c.Validator,
		log:       c.Log,
	}
}

// POST /api/icfes/quiz/start-session
func (h *Handler) StartSession(c *fiber.Ctx) error {
	var body startSessionBody
	if err := h.validator.ParseAndValidate(c, &body); err != nil {
		return response.NewFailed("Invalid quiz settings", err, h.log).Send(c)
	}
	return h.forward(c, "/icfes/quiz/start-session")
}

// POST /api/icfes/quiz/session/:sessionId/submit-answer
func (h *Handler) SubmitAnswer(c *fiber.Ctx) error {
	id, err := h.sessionID(c)
	if err != nil {
		return response.NewFailed("Invalid session", err, h.log).Send(c)
	}
	var body submitAnswerBody
	if err := h.validator.ParseAndValidate(c, &body); err != nil {
		return response.NewFailed("Invalid answer", err, h.log).Send(c)
	}
	return h.forward(c, "/icfes/quiz/session/"+id+"/submit-answer")
}

// GET /api/icfes/quiz/session/:sessionId/current-question
func (h *Handler) CurrentQuestion(c *fiber.Ctx) error {
	id, err := h.sessionID(c)
	if err != nil {
		return response.NewFailed("Invalid session", err, h.log).Send(c)
	}
	return h.forward(c, "/icfes/quiz/session/"+id+"/current-question")
}

// GET /api/icfes/quiz/session/:sessionId/feedback
func (h *Handler) Feedback(c *fiber.Ctx) error {
	id, err := h.sessionID(c)
	if err != nil {
		return response.NewFailed("Invalid session", err, h.log).Send(c)
	}
	return h.forward(c, "/icfes/quiz/session/"+id+"/feedback")
}

// POST /api/auth/login
func (h *Handler) Login(c *fiber.Ctx) error {
	var body loginBody
	if err := h.validator.ParseAndValidate(c, &body); err != nil {
		return response.NewFailed("Invalid credentials", err, h.log).Send(c)
	}
	return h.forward(c, "/auth/login/")
}

// POST /api/auth/register
func (h *Handler) Register(c *fiber.Ctx) error {
	if !json.Valid(c.Body()) {
		return response.NewFailed("Request body is not valid JSON", fiber.NewError(fiber.StatusBadRequest, ""), nil).Send(c)
	}
	return h.forward(c, "/auth/register/")
}

// GET /api/auth/stats
func (h *Handler) Stats(c *fiber.Ctx) error {
	return h.forward(c, "/auth/stats/")
}

// POST /api/auth/complete-assessment
func (h *Handler) CompleteAssessment(c *fiber.Ctx) error {
	var body assessmentBody
	if err := h.validator.ParseAndValidate(c, &body); err != nil {
		return response.NewFailed("Invalid assessment", err, h.log).Send(c)
	}
	return h.forward(c, "/auth/complete-assessment/")
}

// GET /health
func (h *Handler) Health(c *fiber.Ctx) error {
	return response.NewSuccess("ok", fiber.Map{"backend": h.backend}).Send(c)
}

func (h *Handler) sessionID(c *fiber.Ctx) (string, error) {
	id := c.Params("sessionId")
	if err := h.validator.Var("session_id", id, "required,uuid"); err != nil {
		return "", err
	}
	return id, nil
}

// forward relays the current request to path on the backend and copies
// the backend response, status included, back to the caller.
func (h *Handler) forward(c *fiber.Ctx, path string) error {
	target := joinURL(h.backend, path)
	if q := c.Request().URI().QueryString(); len(q) > 0 {
		target += "?" + string(q)
	}

	rid := requestID(c)
	c.Request().Header.Set(api.RequestIDHeader, rid)
	// Bodies are inspected below, so ask for them uncompressed.
	c.Request().Header.Del(fiber.HeaderAcceptEncoding)
	log := h.log.WithFields(logrus.Fields{"request_id": rid, "path": path})

	// The backend response replaces ours; keep headers set by middleware.
	var kept fasthttp.ResponseHeader
	c.Response().Header.CopyTo(&kept)
	err := proxy.DoTimeout(c, target, h.timeout)
	restoreHeaders(c, &kept)
	if err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			log.WithError(err).Warn("backend timed out")
			return response.NewFailed("Backend timed out", fiber.NewError(fiber.StatusGatewayTimeout, ""), nil).Send(c)
		}
		log.WithError(err).Warn("backend unreachable")
		return response.NewFailed("Backend unavailable", fiber.NewError(fiber.StatusBadGateway, ""), nil).Send(c)
	}

	status := c.Response().StatusCode()
	if body := c.Response().Body(); len(body) > 0 && !json.Valid(body) {
		log.WithField("status", status).Warn("backend returned a non-JSON body")
		c.Response().ResetBody()
		return response.NewFailed("Invalid backend response", fiber.NewError(fiber.StatusBadGateway, ""), nil).Send(c)
	}
	log.WithField("status", status).Debug("forwarded")
	return nil
}

func restoreHeaders(c *fiber.Ctx, kept *fasthttp.ResponseHeader) {
	kept.VisitAll(func(k, v []byte) {
		switch string(k) {
		case fiber.HeaderContentType, fiber.HeaderContentLength:
			return
		}
		if len(c.Response().Header.PeekBytes(k)) == 0 {
			c.Response().Header.SetBytesKV(k, v)
		}
	})
}
