package quiz

import "github.com/torredebabel/icfes/internal/api"

// Session is the client-held view of one backend quiz run.
type Session struct {
	ID              string
	Area            string
	Difficulty      string
	TotalQuestions  int
	CurrentQuestion *api.Question
	Progress        api.Progress
	Score           int
	XP              int
}

// Outcome is returned by the operations that move past a result: either
// the next question or, once the session is complete, its feedback.
type Outcome struct {
	Question *api.Question
	Progress api.Progress
	Complete bool
	Feedback *api.Feedback
}

// State is a point-in-time copy of the controller's view state.
type State struct {
	Phase    Phase
	Session  *Session
	Result   *api.AnswerResult
	Feedback *api.Feedback
	Busy     bool

	// Generation changes on every Start and Reset.
	Generation uint64

	// Step changes on every successful transition. Timers carry the step
	// they were armed at so a late tick cannot advance a newer result.
	Step uint64
}

// newSession builds a Session from the start-session payload.
func newSession(data *api.StartSessionData, area, difficulty string, count int) *Session {
	s := &Session{
		ID:              data.SessionID,
		Area:            data.Area,
		Difficulty:      data.Difficulty,
		TotalQuestions:  data.TotalQuestions,
		CurrentQuestion: data.CurrentQuestion,
		Progress:        data.Progress,
		Score:           data.CurrentScore,
		XP:              data.CurrentXP,
	}
	if s.Area == "" {
		s.Area = area
	}
	if s.Difficulty == "" {
		s.Difficulty = difficulty
	}
	if s.TotalQuestions <= 0 {
		s.TotalQuestions = count
	}
	if s.Progress.Total <= 0 {
		s.Progress.Total = s.TotalQuestions
	}
	return s
}

// mergeTotals applies cumulative score and XP snapshots. Both only grow.
func (s *Session) mergeTotals(score, xp int) {
	if score > s.Score {
		s.Score = score
	}
	if xp > s.XP {
		s.XP = xp
	}
}

// mergeProgress replaces progress with the server's view. A progress
// with a zero total carries no information and is ignored.
func (s *Session) mergeProgress(p api.Progress) {
	if p.Total <= 0 {
		return
	}
	s.Progress = p
}

// countAnswer mirrors an accepted answer into progress until the server's
// next progress report replaces it.
func (s *Session) countAnswer() {
	total := s.Progress.Total
	if total <= 0 {
		total = s.TotalQuestions
	}
	answered := s.Progress.Answered + 1
	if total > 0 && answered > total {
		answered = total
	}
	s.Progress.Answered = answered
	s.Progress.Total = total
	if total > 0 {
		s.Progress.Percentage = float64(answered) / float64(total) * 100
	}
}
