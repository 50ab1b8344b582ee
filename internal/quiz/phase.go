package quiz

// Phase is the controller's position in the question → result → feedback cycle.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseQuestionShown
	PhaseResultShown
	PhaseFeedbackShown
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseQuestionShown:
		return "question-shown"
	case PhaseResultShown:
		return "result-shown"
	case PhaseFeedbackShown:
		return "feedback-shown"
	default:
		return "unknown"
	}
}
