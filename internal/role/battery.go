package role

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Option is one answer choice and the points it awards per category.
// Categories missing from Weights award 0.
type Option struct {
	Text    string           `yaml:"text"`
	Weights map[Category]int `yaml:"weights"`
}

// Question is one battery item.
type Question struct {
	Text    string   `yaml:"text"`
	Options []Option `yaml:"options"`
}

// Battery is an ordered list of weighted questions.
type Battery struct {
	Questions []Question `yaml:"questions"`
}

// Len returns the number of questions.
func (b Battery) Len() int { return len(b.Questions) }

// Validate checks that the battery can be classified: at least one
// question, at least one option per question, known categories and
// non-negative weights.
func (b Battery) Validate() error {
	if len(b.Questions) == 0 {
		return errors.New("battery has no questions")
	}
	for i, q := range b.Questions {
		if len(q.Options) == 0 {
			return fmt.Errorf("question %d has no options", i+1)
		}
		for j, opt := range q.Options {
			if err := opt.check(); err != nil {
				return fmt.Errorf("question %d option %d: %w", i+1, j+1, err)
			}
		}
	}
	return nil
}

// check rejects weights for unknown roles and negative weights.
func (o Option) check() error {
	for c, w := range o.Weights {
		if !c.Valid() {
			return fmt.Errorf("unknown role %q", c)
		}
		if w < 0 {
			return fmt.Errorf("negative weight %d for %s", w, c)
		}
	}
	return nil
}

// ParseBattery decodes and validates a YAML battery.
func ParseBattery(data []byte) (Battery, error) {
	var b Battery
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Battery{}, fmt.Errorf("parse battery: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Battery{}, fmt.Errorf("invalid battery: %w", err)
	}
	return b, nil
}

// LoadBattery reads a YAML battery file.
func LoadBattery(path string) (Battery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Battery{}, fmt.Errorf("read battery: %w", err)
	}
	return ParseBattery(data)
}

//go:embed battery.yaml
var defaultBatteryYAML []byte

var defaultBattery = sync.OnceValues(func() (Battery, error) {
	return ParseBattery(defaultBatteryYAML)
})

// DefaultBattery returns the built-in eight question vocational battery.
func DefaultBattery() Battery {
	b, err := defaultBattery()
	if err != nil {
		panic(fmt.Sprintf("built-in battery: %v", err))
	}
	return b
}
