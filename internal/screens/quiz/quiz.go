package quiz

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/torredebabel/icfes/internal/api"
	qz "github.com/torredebabel/icfes/internal/quiz"
	"github.com/torredebabel/icfes/internal/router"
	"github.com/torredebabel/icfes/internal/screen"
	"github.com/torredebabel/icfes/internal/screens/summary"
	"github.com/torredebabel/icfes/internal/store"
	"github.com/torredebabel/icfes/internal/ui/components"
	"github.com/torredebabel/icfes/internal/ui/layout"
)

// QuizScreen runs one quiz session against the backend.
type QuizScreen struct {
	ctrl       *qz.Controller
	attempts   store.AttemptRepo
	log        logrus.FieldLogger
	area       string
	difficulty string
	count      int

	state       qz.State
	choice      components.MultiChoice
	loading     bool
	errMsg      string
	retry       func() tea.Cmd
	confirmQuit bool

	ctx    context.Context
	cancel context.CancelFunc
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.EscHandler = (*QuizScreen)(nil)

// New creates a QuizScreen. count <= 0 uses the difficulty's default
// question count. attempts may be nil.
func New(ctrl *qz.Controller, attempts store.AttemptRepo, log logrus.FieldLogger, area, difficulty string, count int) *QuizScreen {
	ctx, cancel := context.WithCancel(context.Background())
	return &QuizScreen{
		ctrl:       ctrl,
		attempts:   attempts,
		log:        log,
		area:       area,
		difficulty: difficulty,
		count:      count,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.start()
}

func (s *QuizScreen) Title() string {
	return "Quiz · " + qz.Label(s.area)
}

func (s *QuizScreen) HandlesEsc() bool { return true }

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "S", Description: "Salir del quiz"},
			{Key: "N", Description: "Seguir"},
		}
	case s.errMsg != "":
		return []layout.KeyHint{
			{Key: "R", Description: "Reintentar"},
			{Key: "Esc", Description: "Volver"},
		}
	case s.state.Phase == qz.PhaseResultShown:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Siguiente"},
			{Key: "Esc", Description: "Salir"},
		}
	default:
		return []layout.KeyHint{
			{Key: "1-4", Description: "Responder"},
			{Key: "↑↓ Enter", Description: "Elegir"},
			{Key: "Esc", Description: "Salir"},
		}
	}
}

func (s *QuizScreen) View(width, height int) string {
	switch {
	case s.confirmQuit:
		return renderQuitConfirm(width)
	case s.errMsg != "":
		return renderError(width, s.errMsg, s.retry != nil)
	case s.state.Session == nil:
		return renderLoading(width)
	}
	return s.renderQuestionView(width)
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		return s.handleStarted(msg)
	case answeredMsg:
		return s.handleAnswered(msg)
	case advanceTickMsg:
		return s, s.advance(msg.Step)
	case advancedMsg:
		return s.handleAdvanced(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) start() tea.Cmd {
	s.loading = true
	ctrl, ctx := s.ctrl, s.ctx
	area, difficulty, count := s.area, s.difficulty, s.count
	return func() tea.Msg {
		_, err := ctrl.Start(ctx, area, difficulty, count)
		return startedMsg{Err: err}
	}
}

func (s *QuizScreen) submit(questionID, key string) tea.Cmd {
	s.loading = true
	ctrl, ctx := s.ctrl, s.ctx
	return func() tea.Msg {
		res, err := ctrl.Submit(ctx, questionID, key)
		return answeredMsg{Key: key, Result: res, Err: err}
	}
}

// advance moves past the result shown at step. A tick armed for an
// earlier result finds a newer step and is discarded by the controller.
func (s *QuizScreen) advance(step uint64) tea.Cmd {
	ctrl, ctx := s.ctrl, s.ctx
	return func() tea.Msg {
		out, err := ctrl.AdvanceAt(ctx, step)
		return advancedMsg{Outcome: out, Err: err}
	}
}

func (s *QuizScreen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	if ignorable(msg.Err) {
		return s, nil
	}
	s.loading = false
	if msg.Err != nil {
		s.fail(msg.Err, s.start)
		return s, nil
	}
	s.sync()
	return s, nil
}

func (s *QuizScreen) handleAnswered(msg answeredMsg) (screen.Screen, tea.Cmd) {
	if ignorable(msg.Err) {
		return s, nil
	}
	s.loading = false
	if msg.Err != nil {
		q := s.state.Session.CurrentQuestion
		s.fail(msg.Err, func() tea.Cmd { return s.submit(q.ID, msg.Key) })
		return s, nil
	}

	s.sync()
	s.choice.Reveal(msg.Key, msg.Result.CorrectAnswer)

	step := s.state.Step
	delay := s.ctrl.Config().AdvanceDelay
	if delay <= 0 {
		return s, s.advance(step)
	}
	return s, tea.Tick(delay, func(time.Time) tea.Msg {
		return advanceTickMsg{Step: step}
	})
}

func (s *QuizScreen) handleAdvanced(msg advancedMsg) (screen.Screen, tea.Cmd) {
	if ignorable(msg.Err) {
		return s, nil
	}
	s.loading = false
	if msg.Err != nil {
		step := s.state.Step
		s.fail(msg.Err, func() tea.Cmd { return s.advance(step) })
		return s, nil
	}

	s.sync()
	if msg.Outcome.Complete {
		return s, s.finish()
	}
	return s, nil
}

// finish stores the attempt locally and swaps in the summary screen.
func (s *QuizScreen) finish() tea.Cmd {
	st := s.state
	attempts, log, ctx := s.attempts, s.log, s.ctx
	return func() tea.Msg {
		if data, ok := st.Attempt(); ok && attempts != nil {
			if err := attempts.AppendAttempt(ctx, data); err != nil && log != nil {
				log.WithField("session_id", data.SessionID).WithError(err).Warn("record attempt failed")
			}
		}
		var fb api.Feedback
		if st.Feedback != nil {
			fb = *st.Feedback
		}
		return router.ReplaceScreenMsg{Screen: summary.New(*st.Session, fb)}
	}
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "s", "S", "y", "Y":
			return s, s.quit()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if s.errMsg != "" {
		switch key {
		case "r", "R":
			if s.retry == nil {
				return s, nil
			}
			retry := s.retry
			s.errMsg, s.retry = "", nil
			return s, retry()
		case "esc", "enter":
			return s, s.quit()
		}
		return s, nil
	}

	if key == "esc" {
		if s.state.Session == nil {
			return s, s.quit()
		}
		s.confirmQuit = true
		return s, nil
	}

	if s.loading {
		return s, nil
	}

	switch s.state.Phase {
	case qz.PhaseQuestionShown:
		var idx int
		s.choice, idx = s.choice.Update(msg)
		if idx < 0 {
			return s, nil
		}
		return s, s.submit(s.state.Session.CurrentQuestion.ID, s.choice.SelectedKey())
	case qz.PhaseResultShown:
		if key == "enter" || key == "space" {
			s.loading = true
			return s, s.advance(s.state.Step)
		}
	}
	return s, nil
}

// quit abandons the session and leaves the screen.
func (s *QuizScreen) quit() tea.Cmd {
	s.ctrl.Reset()
	s.cancel()
	return func() tea.Msg { return router.PopScreenMsg{} }
}

// sync copies the controller state and rebuilds the option list when a
// new question is shown.
func (s *QuizScreen) sync() {
	prev := s.state
	s.state = s.ctrl.State()
	if s.state.Phase != qz.PhaseQuestionShown || s.state.Session == nil {
		return
	}
	q := s.state.Session.CurrentQuestion
	if prev.Session != nil && prev.Phase == qz.PhaseQuestionShown && prev.Session.CurrentQuestion == q {
		return
	}
	keys := make([]string, len(q.Options))
	texts := make([]string, len(q.Options))
	for i, opt := range q.Options {
		keys[i] = opt.Key
		texts[i] = opt.Text
	}
	s.choice = components.NewMultiChoice("", keys, texts)
}

// fail shows err. Authentication failures cannot be retried from here.
func (s *QuizScreen) fail(err error, retry func() tea.Cmd) {
	s.errMsg = errorText(err)
	s.retry = nil
	if !api.IsAuthError(err) && !errors.Is(err, qz.ErrInvalidInput) {
		s.retry = retry
	}
}

// ignorable reports errors that belong to a request this screen no
// longer waits for.
func ignorable(err error) bool {
	return errors.Is(err, qz.ErrStale) || errors.Is(err, qz.ErrBusy) || errors.Is(err, context.Canceled)
}

func errorText(err error) string {
	var ue *api.UpstreamError
	switch {
	case api.IsAuthError(err):
		return "Tu sesión no es válida. Inicia sesión de nuevo."
	case errors.As(err, &ue) && ue.StatusCode == 0:
		return "No se pudo contactar al servidor."
	case errors.As(err, &ue) && ue.Message != "":
		return ue.Message
	default:
		return err.Error()
	}
}
