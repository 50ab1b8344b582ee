package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// RequestIDHeader carries a per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// TokenSource supplies the bearer credential for authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the backend through the same-origin proxy.
type Client struct {
	cfg    Config
	http   *http.Client
	tokens TokenSource
	log    logrus.FieldLogger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logrus.FieldLogger) ClientOption {
	return func(c *Client) { c.log = l }
}

// New creates a Client. tokens may be nil, in which case every
// authenticated call fails with an AuthenticationError. A non-positive
// Timeout falls back to DefaultTimeout.
func New(cfg Config, tokens TokenSource, opts ...ClientOption) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{},
		tokens: tokens,
		log:    discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartSession creates a new quiz session.
func (c *Client) StartSession(ctx context.Context, req StartSessionRequest) (*StartSessionData, error) {
	var out StartSessionData
	if err := c.doEnvelope(ctx, http.MethodPost, "/icfes/quiz/start-session", req, schemaStartSession, &out); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return &out, nil
}

// SubmitAnswer submits the selected option for a question.
func (c *Client) SubmitAnswer(ctx context.Context, sessionID string, req SubmitAnswerRequest) (*AnswerResult, error) {
	var out AnswerResult
	p := "/icfes/quiz/session/" + url.PathEscape(sessionID) + "/submit-answer"
	if err := c.doEnvelope(ctx, http.MethodPost, p, req, schemaAnswerResult, &out); err != nil {
		return nil, fmt.Errorf("submit answer: %w", err)
	}
	return &out, nil
}

// CurrentQuestion fetches the next unanswered question, or reports that
// the session is complete.
func (c *Client) CurrentQuestion(ctx context.Context, sessionID string) (*NextQuestionData, error) {
	var out NextQuestionData
	p := "/icfes/quiz/session/" + url.PathEscape(sessionID) + "/current-question"
	if err := c.doEnvelope(ctx, http.MethodGet, p, nil, schemaNextQuestion, &out); err != nil {
		return nil, fmt.Errorf("current question: %w", err)
	}
	return &out, nil
}

// Feedback fetches the aggregate summary of a finished session.
func (c *Client) Feedback(ctx context.Context, sessionID string) (*Feedback, error) {
	var out Feedback
	p := "/icfes/quiz/session/" + url.PathEscape(sessionID) + "/feedback"
	if err := c.doEnvelope(ctx, http.MethodGet, p, nil, schemaFeedback, &out); err != nil {
		return nil, fmt.Errorf("feedback: %w", err)
	}
	return &out, nil
}

// CompleteAssessment records the user's role assignment.
func (c *Client) CompleteAssessment(ctx context.Context, req AssessmentRequest) error {
	status, raw, err := c.send(ctx, http.MethodPost, "/auth/complete-assessment", req, true)
	if err != nil {
		return fmt.Errorf("complete assessment: %w", err)
	}
	var env envelope
	if len(raw) > 0 && json.Unmarshal(raw, &env) == nil && env.Success != nil && !*env.Success {
		return fmt.Errorf("complete assessment: %w", &UpstreamError{StatusCode: status, Message: env.text()})
	}
	return nil
}

// Login exchanges an email and password for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*Tokens, error) {
	status, raw, err := c.send(ctx, http.MethodPost, "/auth/login", LoginRequest{Username: email, Password: password}, false)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	var out Tokens
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("login: %w", &UpstreamError{StatusCode: status, Message: "malformed login response", Err: err})
	}
	if out.Access == "" {
		return nil, fmt.Errorf("login: %w", &UpstreamError{StatusCode: status, Message: "no access token issued"})
	}
	return &out, nil
}

// Stats fetches the user's profile and onboarding status.
func (c *Client) Stats(ctx context.Context) (*UserStats, error) {
	status, raw, err := c.send(ctx, http.MethodGet, "/auth/stats", nil, true)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	var out UserStats
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("stats: %w", &UpstreamError{StatusCode: status, Message: "malformed stats response", Err: err})
	}
	return &out, nil
}

// envelope is the {success, data, message} wrapper used by the quiz
// endpoints. Error bodies may carry "error" or "detail" instead.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Detail  string          `json:"detail"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) text() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Error) > 0 {
		var s string
		if json.Unmarshal(e.Error, &s) == nil && s != "" {
			return s
		}
		if string(e.Error) != "null" {
			return string(e.Error)
		}
	}
	return e.Detail
}

// doEnvelope performs an authenticated call and decodes the data payload
// after validating it against the named schema.
func (c *Client) doEnvelope(ctx context.Context, method, p string, body any, schema string, out any) error {
	status, raw, err := c.send(ctx, method, p, body, true)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &UpstreamError{StatusCode: status, Message: "malformed response envelope", Err: err}
	}
	if env.Success == nil || !*env.Success {
		msg := env.text()
		if msg == "" {
			msg = "backend reported failure"
		}
		return &UpstreamError{StatusCode: status, Message: msg}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &UpstreamError{StatusCode: status, Message: "response has no data"}
	}
	if err := validatePayload(schema, env.Data); err != nil {
		c.log.WithFields(logrus.Fields{"path": p, "schema": schema}).WithError(err).Warn("backend payload broke contract")
		return &UpstreamError{StatusCode: status, Message: "unexpected response payload", Err: err}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &UpstreamError{StatusCode: status, Message: "undecodable response payload", Err: err}
	}
	return nil
}

// send performs one HTTP round trip. Authenticated calls without a
// credential fail before any network I/O. It returns the status code and
// body of 2xx responses; every other outcome is a typed error.
func (c *Client) send(ctx context.Context, method, p string, body any, authed bool) (int, []byte, error) {
	var token string
	if authed {
		if c.tokens == nil {
			return 0, nil, &AuthenticationError{Err: ErrNoCredential}
		}
		t, err := c.tokens.Token(ctx)
		if err != nil {
			return 0, nil, &AuthenticationError{Err: err}
		}
		if t == "" {
			return 0, nil, &AuthenticationError{Err: ErrNoCredential}
		}
		token = t
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + p
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"path":       p,
	})

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("backend unreachable")
		msg := "backend unreachable"
		if errors.Is(err, context.DeadlineExceeded) {
			msg = fmt.Sprintf("request timed out after %s", c.cfg.Timeout)
		}
		return 0, nil, &UpstreamError{Message: msg, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, &UpstreamError{StatusCode: resp.StatusCode, Message: "read response body", Err: err}
	}

	log = log.WithFields(logrus.Fields{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode == http.StatusUnauthorized {
		log.Warn("credential rejected")
		return resp.StatusCode, nil, &AuthenticationError{
			Err: &UpstreamError{StatusCode: resp.StatusCode, Message: errorMessage(raw, resp.Status)},
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(raw, resp.Status)
		log.WithField("message", msg).Warn("backend request failed")
		return resp.StatusCode, nil, &UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}

	log.Debug("backend request")
	return resp.StatusCode, raw, nil
}

// errorMessage extracts a human-readable message from an error body.
func errorMessage(raw []byte, fallback string) string {
	var env envelope
	if json.Unmarshal(raw, &env) == nil {
		if msg := env.text(); msg != "" {
			return msg
		}
	}
	return fallback
}
