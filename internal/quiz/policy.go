package quiz

import (
	"errors"
	"fmt"
	"time"
)

// Difficulty tiers accepted by the backend.
const (
	DifficultyEasy   = "EASY"
	DifficultyMedium = "MEDIUM"
	DifficultyHard   = "HARD"
)

// Choice is a selectable identifier with its display label.
type Choice struct {
	ID    string
	Label string
}

// Areas are the exam areas offered by the backend.
var Areas = []Choice{
	{ID: "matematicas", Label: "Matemáticas"},
	{ID: "lectura_critica", Label: "Lectura Crítica"},
	{ID: "ciencias_naturales", Label: "Ciencias Naturales"},
	{ID: "sociales_ciudadanas", Label: "Sociales y Ciudadanas"},
	{ID: "ingles", Label: "Inglés"},
}

// Difficulties are the difficulty tiers, lowest first.
var Difficulties = []Choice{
	{ID: DifficultyEasy, Label: "Principiante"},
	{ID: DifficultyMedium, Label: "Intermedio"},
	{ID: DifficultyHard, Label: "Avanzado"},
}

// DefaultQuestionCount returns the policy question count for a difficulty
// tier. Unknown tiers get the mid-tier count.
func DefaultQuestionCount(difficulty string) int {
	switch difficulty {
	case DifficultyEasy:
		return 5
	case DifficultyHard:
		return 10
	default:
		return 7
	}
}

// Label returns the display label for an area or difficulty ID, or the ID
// itself when unknown.
func Label(id string) string {
	for _, c := range Areas {
		if c.ID == id {
			return c.Label
		}
	}
	for _, c := range Difficulties {
		if c.ID == id {
			return c.Label
		}
	}
	return id
}

// DefaultAdvanceDelay is how long a result stays on screen before the
// controller moves on.
const DefaultAdvanceDelay = 3 * time.Second

// Config holds controller settings.
type Config struct {
	// AdvanceDelay is the display time of an answer result before
	// AdvanceAfter moves on. Zero advances immediately.
	AdvanceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{AdvanceDelay: DefaultAdvanceDelay}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.AdvanceDelay < 0 {
		return errors.New("quiz advance delay must not be negative")
	}
	if c.AdvanceDelay > time.Minute {
		return fmt.Errorf("quiz advance delay %s exceeds 1m", c.AdvanceDelay)
	}
	return nil
}
