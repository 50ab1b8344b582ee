package quiz

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/torredebabel/icfes/internal/api"
)

// Backend is the subset of the API client the controller drives.
type Backend interface {
	StartSession(ctx context.Context, req api.StartSessionRequest) (*api.StartSessionData, error)
	SubmitAnswer(ctx context.Context, sessionID string, req api.SubmitAnswerRequest) (*api.AnswerResult, error)
	CurrentQuestion(ctx context.Context, sessionID string) (*api.NextQuestionData, error)
	Feedback(ctx context.Context, sessionID string) (*api.Feedback, error)
}

// Controller drives one user's quiz session through
// not-started → question-shown → result-shown → (question-shown | feedback-shown).
//
// At most one backend request is outstanding at a time; a second call
// while one is in flight fails with ErrBusy. Reset abandons the in-flight
// request, whose eventual response is discarded with ErrStale. A failed
// call leaves the state exactly as it was before the call.
type Controller struct {
	backend Backend
	cfg     Config
	log     logrus.FieldLogger

	mu         sync.Mutex
	phase      Phase
	session    *Session
	result     *api.AnswerResult
	feedback   *api.Feedback
	busy       bool
	cancel     context.CancelFunc
	generation uint64
	step       uint64
}

// NewController creates a Controller. log may be nil.
func NewController(backend Backend, cfg Config, log logrus.FieldLogger) *Controller {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Controller{
		backend: backend,
		cfg:     cfg,
		log:     log,
	}
}

// Config returns the controller's settings.
func (c *Controller) Config() Config {
	return c.cfg
}

// State returns a copy of the current view state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Phase:      c.phase,
		Result:     c.result,
		Feedback:   c.feedback,
		Busy:       c.busy,
		Generation: c.generation,
		Step:       c.step,
	}
	if c.session != nil {
		cp := *c.session
		st.Session = &cp
	}
	return st
}

// Start creates a new backend session. questionCount <= 0 uses
// DefaultQuestionCount for the difficulty.
func (c *Controller) Start(ctx context.Context, area, difficulty string, questionCount int) (*Session, error) {
	area = strings.TrimSpace(area)
	difficulty = strings.TrimSpace(difficulty)
	if area == "" || difficulty == "" {
		return nil, fmt.Errorf("start: area and difficulty are required: %w", ErrInvalidInput)
	}
	if questionCount <= 0 {
		questionCount = DefaultQuestionCount(difficulty)
	}

	ctx, gen, err := c.begin(ctx, "start", true, PhaseNotStarted)
	if err != nil {
		return nil, err
	}

	data, err := c.backend.StartSession(ctx, api.StartSessionRequest{
		Area:          area,
		Difficulty:    difficulty,
		QuestionCount: questionCount,
	})
	if err == nil && data.CurrentQuestion == nil {
		err = &api.UpstreamError{Message: "session started without a question"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ferr := c.finish(gen); ferr != nil {
		return nil, ferr
	}
	if err != nil {
		c.log.WithFields(logrus.Fields{"area": area, "difficulty": difficulty}).WithError(err).Warn("start session failed")
		return nil, err
	}

	c.session = newSession(data, area, difficulty, questionCount)
	c.result = nil
	c.feedback = nil
	c.transition(PhaseQuestionShown)

	c.log.WithFields(logrus.Fields{
		"session_id": c.session.ID,
		"area":       c.session.Area,
		"difficulty": c.session.Difficulty,
		"total":      c.session.TotalQuestions,
	}).Info("quiz session started")

	cp := *c.session
	return &cp, nil
}

// Submit sends the selected option for the current question. The backend
// decides whether the option key is valid.
func (c *Controller) Submit(ctx context.Context, questionID, optionKey string) (*api.AnswerResult, error) {
	if strings.TrimSpace(optionKey) == "" {
		return nil, fmt.Errorf("submit: empty option: %w", ErrInvalidInput)
	}

	c.mu.Lock()
	if c.phase == PhaseQuestionShown && !c.busy && c.session.CurrentQuestion.ID != questionID {
		current := c.session.CurrentQuestion.ID
		c.mu.Unlock()
		return nil, fmt.Errorf("submit %q while %q is shown: %w", questionID, current, ErrQuestionMismatch)
	}
	c.mu.Unlock()

	ctx, gen, err := c.begin(ctx, "submit", false, PhaseQuestionShown)
	if err != nil {
		return nil, err
	}
	sessionID := c.sessionID()

	res, err := c.backend.SubmitAnswer(ctx, sessionID, api.SubmitAnswerRequest{
		QuestionID:     questionID,
		SelectedAnswer: optionKey,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if ferr := c.finish(gen); ferr != nil {
		return nil, ferr
	}
	if err != nil {
		c.log.WithField("session_id", sessionID).WithError(err).Warn("submit answer failed")
		return nil, err
	}

	c.result = res
	c.session.mergeTotals(res.TotalScore, res.TotalXP)
	c.session.countAnswer()
	c.transition(PhaseResultShown)

	c.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"question":   questionID,
		"correct":    res.IsCorrect,
		"complete":   res.SessionComplete,
	}).Debug("answer evaluated")

	return res, nil
}

// Next fetches the next question. If the backend reports the session as
// complete, Next continues into the feedback flow and the controller ends
// in PhaseFeedbackShown.
func (c *Controller) Next(ctx context.Context) (*Outcome, error) {
	ctx, gen, err := c.begin(ctx, "next", false, PhaseResultShown)
	if err != nil {
		return nil, err
	}
	return c.next(ctx, gen)
}

// Feedback fetches the aggregate summary of the session.
func (c *Controller) Feedback(ctx context.Context) (*api.Feedback, error) {
	ctx, gen, err := c.begin(ctx, "feedback", false, PhaseResultShown)
	if err != nil {
		return nil, err
	}
	out, err := c.fetchFeedback(ctx, gen, nil)
	if err != nil {
		return nil, err
	}
	return out.Feedback, nil
}

// Advance leaves PhaseResultShown: towards the feedback when the last
// result completed the session, towards the next question otherwise.
func (c *Controller) Advance(ctx context.Context) (*Outcome, error) {
	ctx, gen, err := c.begin(ctx, "advance", false, PhaseResultShown)
	if err != nil {
		return nil, err
	}
	return c.advance(ctx, gen)
}

func (c *Controller) advance(ctx context.Context, gen uint64) (*Outcome, error) {
	c.mu.Lock()
	complete := c.result != nil && c.result.SessionComplete
	c.mu.Unlock()

	if complete {
		return c.fetchFeedback(ctx, gen, nil)
	}
	return c.next(ctx, gen)
}

// AdvanceAfter waits the configured display delay, then calls Advance.
// It returns ErrStale if the result it was armed for was replaced or
// reset while waiting, and ctx.Err() if ctx ends first.
func (c *Controller) AdvanceAfter(ctx context.Context) (*Outcome, error) {
	st := c.State()
	if st.Phase != PhaseResultShown {
		return nil, fmt.Errorf("advance in phase %s: %w", st.Phase, ErrInvalidPhase)
	}

	if c.cfg.AdvanceDelay > 0 {
		t := time.NewTimer(c.cfg.AdvanceDelay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	return c.AdvanceAt(ctx, st.Step)
}

// AdvanceAt calls Advance only if the controller is still at step. Timer
// driven callers use it to ignore ticks armed for an earlier result.
func (c *Controller) AdvanceAt(ctx context.Context, step uint64) (*Outcome, error) {
	c.mu.Lock()
	if c.step != step {
		c.mu.Unlock()
		return nil, ErrStale
	}
	ctx, gen, err := c.claim(ctx, "advance", false, PhaseResultShown)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c.advance(ctx, gen)
}

// Reset discards all local state and abandons any in-flight request.
// It is idempotent.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.session != nil {
		c.log.WithField("session_id", c.session.ID).Debug("quiz session reset")
	}
	c.generation++
	c.busy = false
	c.session = nil
	c.result = nil
	c.feedback = nil
	c.transition(PhaseNotStarted)
}

// next performs the current-question call for an operation begun at gen.
func (c *Controller) next(ctx context.Context, gen uint64) (*Outcome, error) {
	sessionID := c.sessionID()
	data, err := c.backend.CurrentQuestion(ctx, sessionID)
	if err == nil && !data.SessionComplete && data.Question == nil {
		err = &api.UpstreamError{Message: "no question and no completion signal"}
	}

	if err == nil && data.SessionComplete {
		c.log.WithField("session_id", sessionID).Debug("completion detected on next question")
		return c.fetchFeedback(ctx, gen, &data.Progress)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ferr := c.finish(gen); ferr != nil {
		return nil, ferr
	}
	if err != nil {
		c.log.WithField("session_id", sessionID).WithError(err).Warn("fetch next question failed")
		return nil, err
	}

	c.session.CurrentQuestion = data.Question
	c.session.mergeProgress(data.Progress)
	c.result = nil
	c.transition(PhaseQuestionShown)

	return &Outcome{Question: data.Question, Progress: c.session.Progress}, nil
}

// fetchFeedback performs the feedback call for an operation begun at gen.
// progress, when non-nil, is the progress that came with a completion
// signal and is merged only if the feedback call succeeds.
func (c *Controller) fetchFeedback(ctx context.Context, gen uint64, progress *api.Progress) (*Outcome, error) {
	sessionID := c.sessionID()
	fb, err := c.backend.Feedback(ctx, sessionID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if ferr := c.finish(gen); ferr != nil {
		return nil, ferr
	}
	if err != nil {
		c.log.WithField("session_id", sessionID).WithError(err).Warn("fetch feedback failed")
		return nil, err
	}

	if progress != nil {
		c.session.mergeProgress(*progress)
	}
	c.session.CurrentQuestion = nil
	c.session.mergeTotals(fb.FinalScore, 0)
	c.feedback = fb
	c.transition(PhaseFeedbackShown)

	c.log.WithFields(logrus.Fields{
		"session_id":  sessionID,
		"final_score": fb.FinalScore,
		"accuracy":    fb.Accuracy,
	}).Info("quiz session finished")

	return &Outcome{Complete: true, Progress: c.session.Progress, Feedback: fb}, nil
}

// begin claims the controller for one request. It fails with ErrBusy if a
// request is outstanding and ErrInvalidPhase if the phase is not allowed.
// When newGeneration is set the generation is bumped (Start).
func (c *Controller) begin(ctx context.Context, op string, newGeneration bool, allowed ...Phase) (context.Context, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.claim(ctx, op, newGeneration, allowed...)
}

// claim is begin with mu already held.
func (c *Controller) claim(ctx context.Context, op string, newGeneration bool, allowed ...Phase) (context.Context, uint64, error) {
	if c.busy {
		return nil, 0, fmt.Errorf("%s: %w", op, ErrBusy)
	}
	ok := false
	for _, p := range allowed {
		if c.phase == p {
			ok = true
			break
		}
	}
	if !ok {
		return nil, 0, fmt.Errorf("%s in phase %s: %w", op, c.phase, ErrInvalidPhase)
	}

	if newGeneration {
		c.generation++
	}
	ctx, cancel := context.WithCancel(ctx)
	c.busy = true
	c.cancel = cancel
	return ctx, c.generation, nil
}

// finish releases the claim taken by begin. It must be called with mu
// held. A superseded generation yields ErrStale and leaves state alone.
func (c *Controller) finish(gen uint64) error {
	if gen != c.generation {
		return ErrStale
	}
	c.busy = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return nil
}

// transition moves to phase and bumps the step. mu must be held.
func (c *Controller) transition(p Phase) {
	c.phase = p
	c.step++
}

func (c *Controller) sessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.ID
}
