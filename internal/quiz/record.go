package quiz

import "github.com/torredebabel/icfes/internal/store"

// Attempt summarizes a finished session for the local history. It
// reports false until the session feedback has been shown.
func (s State) Attempt() (store.AttemptData, bool) {
	if s.Phase != PhaseFeedbackShown || s.Session == nil || s.Feedback == nil {
		return store.AttemptData{}, false
	}

	total := s.Feedback.TotalQuestions
	if total <= 0 {
		total = s.Session.TotalQuestions
	}
	score := s.Feedback.FinalScore
	if score <= 0 {
		score = s.Session.Score
	}
	return store.AttemptData{
		SessionID:      s.Session.ID,
		Area:           s.Session.Area,
		Difficulty:     s.Session.Difficulty,
		TotalQuestions: total,
		FinalScore:     score,
		TotalXP:        s.Session.XP,
		Accuracy:       s.Feedback.Accuracy,
	}, true
}
