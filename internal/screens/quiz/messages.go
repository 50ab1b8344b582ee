package quiz

import (
	"github.com/torredebabel/icfes/internal/api"
	qz "github.com/torredebabel/icfes/internal/quiz"
)

// startedMsg is sent when the backend session has been created.
type startedMsg struct {
	Err error
}

// answeredMsg is sent when the backend has judged an answer.
type answeredMsg struct {
	Key    string
	Result *api.AnswerResult
	Err    error
}

// advanceTickMsg fires when the result display delay ends. Step is the
// controller step the timer was armed at.
type advanceTickMsg struct {
	Step uint64
}

// advancedMsg is sent when the controller has moved past a result.
type advancedMsg struct {
	Outcome *qz.Outcome
	Err     error
}
