package role

import (
	"fmt"
	"math/rand/v2"
)

// ContractViolation reports a caller bug: answers that do not fit the
// battery. It is never an expected runtime condition.
type ContractViolation struct {
	Reason string
}

func (e *ContractViolation) Error() string {
	return "role contract violation: " + e.Reason
}

// Scores holds the running total per category.
type Scores map[Category]int

// NewScores returns totals for all four categories, starting at 0.
func NewScores() Scores {
	s := make(Scores, len(Categories))
	for _, c := range Categories {
		s[c] = 0
	}
	return s
}

// Add accumulates an option's weights.
func (s Scores) Add(weights map[Category]int) {
	for c, w := range weights {
		s[c] += w
	}
}

// Leader returns the category with the strictly greatest total, ties
// going to the category that comes first in Categories.
func (s Scores) Leader() Category {
	best := Categories[0]
	for _, c := range Categories[1:] {
		if s[c] > s[best] {
			best = c
		}
	}
	return best
}

// Map returns the totals keyed by category name.
func (s Scores) Map() map[string]int {
	out := make(map[string]int, len(s))
	for c, v := range s {
		out[string(c)] = v
	}
	return out
}

// Result is a completed classification.
type Result struct {
	Category Category
	Scores   Scores
	Answers  []int
}

// Classify sums the weights of the selected options and returns the
// leading category. b must pass Validate and answers must hold one valid
// option index per question.
func Classify(b Battery, answers []int) (Result, error) {
	if err := b.Validate(); err != nil {
		return Result{}, &ContractViolation{Reason: err.Error()}
	}
	if len(answers) != len(b.Questions) {
		return Result{}, &ContractViolation{
			Reason: fmt.Sprintf("%d answers for %d questions", len(answers), len(b.Questions)),
		}
	}

	scores := NewScores()
	for i, idx := range answers {
		opts := b.Questions[i].Options
		if idx < 0 || idx >= len(opts) {
			return Result{}, &ContractViolation{
				Reason: fmt.Sprintf("answer %d: option %d out of range [0,%d)", i+1, idx, len(opts)),
			}
		}
		scores.Add(opts[idx].Weights)
	}

	return Result{
		Category: scores.Leader(),
		Scores:   scores,
		Answers:  append([]int(nil), answers...),
	}, nil
}

// ClassifyRandom picks one of the four categories uniformly. A nil rng
// uses the global source.
func ClassifyRandom(rng *rand.Rand) Category {
	if rng == nil {
		return Categories[rand.IntN(len(Categories))]
	}
	return Categories[rng.IntN(len(Categories))]
}

// Assessment accumulates answers over a battery one question at a time.
type Assessment struct {
	battery Battery
	scores  Scores
	answers []int
}

// NewAssessment starts an assessment over b.
func NewAssessment(b Battery) *Assessment {
	return &Assessment{battery: b, scores: NewScores()}
}

// Current returns the next unanswered question.
func (a *Assessment) Current() (Question, bool) {
	if a.Done() {
		return Question{}, false
	}
	return a.battery.Questions[len(a.answers)], true
}

// Record applies the option chosen for the current question.
func (a *Assessment) Record(optionIndex int) error {
	q, ok := a.Current()
	if !ok {
		return &ContractViolation{Reason: fmt.Sprintf("battery of %d questions already answered", a.battery.Len())}
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return &ContractViolation{
			Reason: fmt.Sprintf("option %d out of range [0,%d)", optionIndex, len(q.Options)),
		}
	}
	opt := q.Options[optionIndex]
	if err := opt.check(); err != nil {
		return &ContractViolation{Reason: fmt.Sprintf("question %d option %d: %v", a.Answered()+1, optionIndex+1, err)}
	}
	a.scores.Add(opt.Weights)
	a.answers = append(a.answers, optionIndex)
	return nil
}

// Answered returns how many questions have been answered.
func (a *Assessment) Answered() int { return len(a.answers) }

// Total returns the battery length.
func (a *Assessment) Total() int { return a.battery.Len() }

// Done reports whether every question has been answered.
func (a *Assessment) Done() bool { return len(a.answers) >= a.battery.Len() }

// Scores returns a copy of the running totals.
func (a *Assessment) Scores() Scores {
	out := make(Scores, len(a.scores))
	for c, v := range a.scores {
		out[c] = v
	}
	return out
}

// Result classifies the recorded answers.
func (a *Assessment) Result() (Result, error) {
	return Classify(a.battery, a.answers)
}
