package quiz

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torredebabel/icfes/internal/api"
)

// fakeBackend serves a fixed-size session of questions q-1..q-N.
type fakeBackend struct {
	mu       sync.Mutex
	total    int
	answered int
	score    int
	xp       int
	lazy     bool // never flag completion on submit
	calls    map[string]int
	lastReq  api.StartSessionRequest

	startErr    error
	submitErr   error
	nextErr     error
	feedbackErr error

	// When set, SubmitAnswer signals entered and waits for release or ctx.
	entered chan struct{}
	release chan struct{}
}

func newFakeBackend(total int) *fakeBackend {
	return &fakeBackend{total: total, calls: map[string]int{}}
}

func question(n int) *api.Question {
	return &api.Question{
		ID:      fmt.Sprintf("q-%d", n),
		Content: fmt.Sprintf("Pregunta %d", n),
		Options: api.Options{{Key: "A", Text: "uno"}, {Key: "B", Text: "dos"}},
	}
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) StartSession(_ context.Context, req api.StartSessionRequest) (*api.StartSessionData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["start"]++
	f.lastReq = req
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &api.StartSessionData{
		SessionID:       "s-1",
		Area:            req.Area,
		Difficulty:      req.Difficulty,
		TotalQuestions:  f.total,
		CurrentQuestion: question(1),
		Progress:        api.Progress{Answered: 0, Total: f.total},
	}, nil
}

func (f *fakeBackend) SubmitAnswer(ctx context.Context, _ string, req api.SubmitAnswerRequest) (*api.AnswerResult, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["submit"]++
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.answered++
	f.score += 10
	f.xp += 5
	return &api.AnswerResult{
		IsCorrect:       req.SelectedAnswer == "A",
		CorrectAnswer:   "A",
		PointsEarned:    10,
		XPEarned:        5,
		TotalScore:      f.score,
		TotalXP:         f.xp,
		SessionComplete: !f.lazy && f.answered >= f.total,
	}, nil
}

func (f *fakeBackend) CurrentQuestion(_ context.Context, _ string) (*api.NextQuestionData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["next"]++
	if f.nextErr != nil {
		return nil, f.nextErr
	}
	if f.answered >= f.total {
		return &api.NextQuestionData{SessionComplete: true, Message: "Sesión completada"}, nil
	}
	return &api.NextQuestionData{
		Question: question(f.answered + 1),
		Progress: api.Progress{Answered: f.answered, Total: f.total, Percentage: float64(f.answered) / float64(f.total) * 100},
	}, nil
}

func (f *fakeBackend) Feedback(_ context.Context, _ string) (*api.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["feedback"]++
	if f.feedbackErr != nil {
		return nil, f.feedbackErr
	}
	return &api.Feedback{
		Accuracy:       100,
		FinalScore:     f.score,
		TotalQuestions: f.total,
		Message:        "¡Excelente!",
	}, nil
}

func newTestController(b Backend) *Controller {
	return NewController(b, Config{AdvanceDelay: 0}, nil)
}

func TestStartUsesDifficultyDefaults(t *testing.T) {
	tests := []struct {
		difficulty string
		want       int
	}{
		{DifficultyEasy, 5},
		{DifficultyMedium, 7},
		{DifficultyHard, 10},
	}
	for _, tt := range tests {
		t.Run(tt.difficulty, func(t *testing.T) {
			b := newFakeBackend(tt.want)
			c := newTestController(b)

			s, err := c.Start(context.Background(), "matematicas", tt.difficulty, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.lastReq.QuestionCount)
			assert.Equal(t, "s-1", s.ID)
			assert.Equal(t, 0, s.Progress.Answered)
			require.NotNil(t, s.CurrentQuestion)
			assert.Equal(t, PhaseQuestionShown, c.State().Phase)
		})
	}
}

func TestStartExplicitCount(t *testing.T) {
	b := newFakeBackend(3)
	c := newTestController(b)
	_, err := c.Start(context.Background(), "ingles", DifficultyHard, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, b.lastReq.QuestionCount)
}

func TestStartValidatesInput(t *testing.T) {
	b := newFakeBackend(5)
	c := newTestController(b)

	_, err := c.Start(context.Background(), "", DifficultyEasy, 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = c.Start(context.Background(), "matematicas", " ", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, b.count("start"))
}

func TestStartFailureLeavesNotStarted(t *testing.T) {
	b := newFakeBackend(5)
	b.startErr = &api.UpstreamError{StatusCode: 500, Message: "Internal server error"}
	c := newTestController(b)

	_, err := c.Start(context.Background(), "matematicas", DifficultyEasy, 0)
	var upErr *api.UpstreamError
	require.True(t, errors.As(err, &upErr))

	st := c.State()
	assert.Equal(t, PhaseNotStarted, st.Phase)
	assert.Nil(t, st.Session)
	assert.False(t, st.Busy)
}

func TestStartWithoutCredentialMakesNoRequest(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	client := api.New(api.Config{BaseURL: srv.URL, Timeout: time.Second}, nil)
	c := NewController(client, DefaultConfig(), nil)

	_, err := c.Start(context.Background(), "matematicas", DifficultyEasy, 0)
	var authErr *api.AuthenticationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
	assert.Equal(t, PhaseNotStarted, c.State().Phase)
}

func TestRoundTripReachesAnsweredN(t *testing.T) {
	const n = 5
	b := newFakeBackend(n)
	b.lazy = true
	c := newTestController(b)
	ctx := context.Background()

	_, err := c.Start(ctx, "matematicas", DifficultyEasy, n)
	require.NoError(t, err)

	for i := 1; i <= n; i++ {
		st := c.State()
		require.Equal(t, PhaseQuestionShown, st.Phase)
		_, err := c.Submit(ctx, st.Session.CurrentQuestion.ID, "A")
		require.NoError(t, err)
		assert.Equal(t, i, c.State().Session.Progress.Answered)

		out, err := c.Advance(ctx)
		require.NoError(t, err)
		if i < n {
			require.False(t, out.Complete)
			assert.Equal(t, fmt.Sprintf("q-%d", i+1), out.Question.ID)
			assert.Equal(t, i, out.Progress.Answered)
		} else {
			assert.True(t, out.Complete)
			require.NotNil(t, out.Feedback)
		}
	}

	st := c.State()
	assert.Equal(t, PhaseFeedbackShown, st.Phase)
	assert.Equal(t, n, st.Session.Progress.Answered)
	assert.Equal(t, n*10, st.Session.Score)
	assert.Equal(t, n*5, st.Session.XP)
	assert.Equal(t, n, b.count("next"), "n-1 questions plus one completion signal")
	assert.Equal(t, 1, b.count("feedback"))
}

func TestCompleteResultGoesStraightToFeedback(t *testing.T) {
	b := newFakeBackend(1)
	c := newTestController(b)
	ctx := context.Background()

	s, err := c.Start(ctx, "ciencias_naturales", DifficultyEasy, 1)
	require.NoError(t, err)
	res, err := c.Submit(ctx, s.CurrentQuestion.ID, "B")
	require.NoError(t, err)
	require.True(t, res.SessionComplete)
	assert.False(t, res.IsCorrect)

	out, err := c.Advance(ctx)
	require.NoError(t, err)
	assert.True(t, out.Complete)
	assert.Equal(t, 0, b.count("next"))
	assert.Equal(t, 1, b.count("feedback"))
	assert.Equal(t, PhaseFeedbackShown, c.State().Phase)
}

func TestNextDetectsCompletionLazily(t *testing.T) {
	b := newFakeBackend(1)
	b.lazy = true
	c := newTestController(b)
	ctx := context.Background()

	s, err := c.Start(ctx, "lectura_critica", DifficultyMedium, 1)
	require.NoError(t, err)
	res, err := c.Submit(ctx, s.CurrentQuestion.ID, "A")
	require.NoError(t, err)
	require.False(t, res.SessionComplete)

	out, err := c.Next(ctx)
	require.NoError(t, err)
	assert.True(t, out.Complete)

	st := c.State()
	assert.Equal(t, PhaseFeedbackShown, st.Phase)
	require.NotNil(t, st.Feedback)
	assert.Equal(t, "¡Excelente!", st.Feedback.Message)
	assert.Nil(t, st.Session.CurrentQuestion)
}

func TestSubmitQuestionMismatch(t *testing.T) {
	b := newFakeBackend(3)
	c := newTestController(b)
	ctx := context.Background()

	_, err := c.Start(ctx, "matematicas", DifficultyEasy, 3)
	require.NoError(t, err)

	_, err = c.Submit(ctx, "q-99", "A")
	assert.ErrorIs(t, err, ErrQuestionMismatch)
	assert.Equal(t, 0, b.count("submit"))
	assert.Equal(t, PhaseQuestionShown, c.State().Phase)
}

func TestSubmitFailureKeepsQuestion(t *testing.T) {
	b := newFakeBackend(3)
	c := newTestController(b)
	ctx := context.Background()

	s, err := c.Start(ctx, "matematicas", DifficultyEasy, 3)
	require.NoError(t, err)
	before := c.State()

	b.submitErr = &api.UpstreamError{StatusCode: 502, Message: "backend unavailable"}
	_, err = c.Submit(ctx, s.CurrentQuestion.ID, "A")
	require.Error(t, err)

	after := c.State()
	assert.Equal(t, PhaseQuestionShown, after.Phase)
	assert.Nil(t, after.Result)
	assert.Equal(t, before.Session, after.Session)
	assert.Equal(t, before.Step, after.Step)
	assert.False(t, after.Busy)

	b.submitErr = nil
	_, err = c.Submit(ctx, s.CurrentQuestion.ID, "A")
	require.NoError(t, err)
	assert.Equal(t, PhaseResultShown, c.State().Phase)
}

func TestNextFailureKeepsResult(t *testing.T) {
	b := newFakeBackend(3)
	c := newTestController(b)
	ctx := context.Background()

	s, err := c.Start(ctx, "matematicas", DifficultyEasy, 3)
	require.NoError(t, err)
	_, err = c.Submit(ctx, s.CurrentQuestion.ID, "A")
	require.NoError(t, err)

	b.nextErr = errors.New("connection reset")
	_, err = c.Advance(ctx)
	require.Error(t, err)

	st := c.State()
	assert.Equal(t, PhaseResultShown, st.Phase)
	assert.NotNil(t, st.Result)
	assert.Equal(t, "q-1", st.Session.CurrentQuestion.ID)
}

func TestFeedbackFailureKeepsResult(t *testing.T) {
	b := newFakeBackend(1)
	c := newTestController(b)
	ctx := context.Background()

	s, err := c.Start(ctx, "matematicas", DifficultyEasy, 1)
	require.NoError(t, err)
	_, err = c.Submit(ctx, s.CurrentQuestion.ID, "A")
	require.NoError(t, err)

	b.feedbackErr = errors.New("timeout")
	_, err = c.Feedback(ctx)
	require.Error(t, err)
	assert.Equal(t, PhaseResultShown, c.State().Phase)

	b.feedbackErr = nil
	fb, err := c.Feedback(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, fb.FinalScore)
	assert.Equal(t, PhaseFeedbackShown, c.State().Phase)
}

func TestOperationsRejectWrongPhase(t *testing.T) {
	b := newFakeBackend(3)
	c := newTestController(b)
	ctx := context.Background()

	_, err := c.Submit(ctx, "q-1", "A")
	assert.ErrorIs(t, err, ErrInvalidPhase)
	_, err = c.Next(ctx)
	assert.ErrorIs(t, err, ErrInvalidPhase)

	_, err = c.Start(ctx, "matematicas", DifficultyEasy, 3)
	require.NoError(t, err)
	_, err = c.Start(ctx, "matematicas", DifficultyEasy, 3)
	assert.ErrorIs(t, err, ErrInvalidPhase)
	_, err = c.Advance(ctx)
	assert.ErrorIs(t, err, ErrInvalidPhase)
	_, err = c.AdvanceAfter(ctx)
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestConcurrentCallIsBusy(t *testing.T) {
	b := newFakeBackend(3)
	c := newTestController(b)
	ctx := context.Background()

	s, err := c.Start(ctx, "matematicas", DifficultyEasy, 3)
	require.NoError(t, err)

	b.entered = make(chan struct{})
	b.release = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(ctx, s.CurrentQuestion.ID, "A")
		done <- err
	}()
	<-b.entered

	assert.True(t, c.State().Busy)
	_, err = c.Submit(ctx, s.CurrentQuestion.ID, "A")
	assert.ErrorIs(t, err, ErrBusy)

	close(b.release)
	require.NoError(t, <-done)
	assert.Equal(t, PhaseResultShown, c.State().Phase)
}

func TestResetDiscardsInFlightResponse(t *testing.T) {
	b := newFakeBackend(3)
	c := newTestController(b)
	ctx := context.Background()

	s, err := c.Start(ctx, "matematicas", DifficultyEasy, 3)
	require.NoError(t, err)
	genBefore := c.State().Generation

	b.entered = make(chan struct{})
	b.release = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(ctx, s.CurrentQuestion.ID, "A")
		done <- err
	}()
	<-b.entered

	c.Reset()
	assert.ErrorIs(t, <-done, ErrStale)

	st := c.State()
	assert.Equal(t, PhaseNotStarted, st.Phase)
	assert.Nil(t, st.Session)
	assert.Nil(t, st.Result)
	assert.False(t, st.Busy)
	assert.Greater(t, st.Generation, genBefore)

	b.entered = nil
	_, err = c.Start(ctx, "ingles", DifficultyHard, 3)
	require.NoError(t, err)
}

func TestResetIsIdempotent(t *testing.T) {
	c := newTestController(newFakeBackend(1))
	c.Reset()
	c.Reset()
	assert.Equal(t, PhaseNotStarted, c.State().Phase)
}

func TestAdvanceAfterWaitsDelay(t *testing.T) {
	b := newFakeBackend(2)
	c := NewController(b, Config{AdvanceDelay: 20 * time.Millisecond}, nil)
	ctx := context.Background()

	s, err := c.Start(ctx, "matematicas", DifficultyEasy, 2)
	require.NoError(t, err)
	_, err = c.Submit(ctx, s.CurrentQuestion.ID, "A")
	require.NoError(t, err)

	start := time.Now()
	out, err := c.AdvanceAfter(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, "q-2", out.Question.ID)
}

func TestAdvanceAfterCancelled(t *testing.T) {
	b := newFakeBackend(2)
	c := NewController(b, Config{AdvanceDelay: time.Hour}, nil)

	s, err := c.Start(context.Background(), "matematicas", DifficultyEasy, 2)
	require.NoError(t, err)
	_, err = c.Submit(context.Background(), s.CurrentQuestion.ID, "A")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.AdvanceAfter(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, b.count("next"))
	assert.Equal(t, PhaseResultShown, c.State().Phase)
}

func TestAdvanceAtIgnoresOldStep(t *testing.T) {
	b := newFakeBackend(3)
	c := newTestController(b)
	ctx := context.Background()

	s, err := c.Start(ctx, "matematicas", DifficultyEasy, 3)
	require.NoError(t, err)
	_, err = c.Submit(ctx, s.CurrentQuestion.ID, "A")
	require.NoError(t, err)
	armed := c.State().Step

	// Manual advance, then answer the next question before the timer fires.
	out, err := c.Advance(ctx)
	require.NoError(t, err)
	_, err = c.Submit(ctx, out.Question.ID, "A")
	require.NoError(t, err)

	_, err = c.AdvanceAt(ctx, armed)
	assert.ErrorIs(t, err, ErrStale)
	assert.Equal(t, PhaseResultShown, c.State().Phase)
	assert.Equal(t, 1, b.count("next"))
}

func TestMergeTotalsNeverDecreases(t *testing.T) {
	s := &Session{Score: 40, XP: 20}
	s.mergeTotals(30, 25)
	assert.Equal(t, 40, s.Score)
	assert.Equal(t, 25, s.XP)
}

func TestCountAnswerCapsAtTotal(t *testing.T) {
	s := &Session{TotalQuestions: 2, Progress: api.Progress{Answered: 2, Total: 2}}
	s.countAnswer()
	assert.Equal(t, 2, s.Progress.Answered)
	assert.Equal(t, 100.0, s.Progress.Percentage)
}

func TestDefaultQuestionCount(t *testing.T) {
	assert.Equal(t, 5, DefaultQuestionCount(DifficultyEasy))
	assert.Equal(t, 7, DefaultQuestionCount(DifficultyMedium))
	assert.Equal(t, 10, DefaultQuestionCount(DifficultyHard))
	assert.Equal(t, 7, DefaultQuestionCount("EXPERT"))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, Config{}.Validate())
	assert.Error(t, Config{AdvanceDelay: -time.Second}.Validate())
	assert.Error(t, Config{AdvanceDelay: 2 * time.Minute}.Validate())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Matemáticas", Label("matematicas"))
	assert.Equal(t, "Avanzado", Label(DifficultyHard))
	assert.Equal(t, "otra", Label("otra"))
}

func TestAdvanceAtRacingManualAdvance(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		c := newTestController(newFakeBackend(3))
		s, err := c.Start(ctx, "matematicas", DifficultyEasy, 3)
		require.NoError(t, err)
		_, err = c.Submit(ctx, s.CurrentQuestion.ID, "A")
		require.NoError(t, err)
		armed := c.State().Step

		var wg sync.WaitGroup
		var manualErr, timerErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, manualErr = c.Advance(ctx)
		}()
		go func() {
			defer wg.Done()
			_, timerErr = c.AdvanceAt(ctx, armed)
		}()
		wg.Wait()

		if timerErr != nil {
			require.NoError(t, manualErr)
			assert.True(t, errors.Is(timerErr, ErrStale) || errors.Is(timerErr, ErrBusy), "timer tick: %v", timerErr)
		} else {
			assert.Error(t, manualErr)
		}
		assert.Equal(t, PhaseQuestionShown, c.State().Phase)
	}
}
