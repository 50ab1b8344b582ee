// Package screens holds what the terminal screens share: their
// dependencies and the messages they send to the app.
package screens

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/torredebabel/icfes/internal/api"
	"github.com/torredebabel/icfes/internal/quiz"
	"github.com/torredebabel/icfes/internal/role"
	"github.com/torredebabel/icfes/internal/store"
	"github.com/torredebabel/icfes/internal/ui/layout"
)

// Profile loads the signed-in user's profile.
type Profile interface {
	Stats(ctx context.Context) (*api.UserStats, error)
}

// Sessions logs users in and out.
type Sessions interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	CurrentEmail(ctx context.Context) string
}

// Roles records role assignments.
type Roles interface {
	Complete(ctx context.Context, r role.Record) error
}

// Deps bundles the services the screens use. Nil members disable the
// features that need them.
type Deps struct {
	Profile  Profile
	Sessions Sessions
	Roles    Roles
	Battery  role.Battery
	Attempts store.AttemptRepo

	// NewQuiz returns a fresh controller for each quiz run.
	NewQuiz func() *quiz.Controller

	Log logrus.FieldLogger
}

// Logger returns d.Log or a logger that discards everything.
func (d Deps) Logger() logrus.FieldLogger {
	if d.Log != nil {
		return d.Log
	}
	l := logrus.New()
	l.SetOutput(discard{})
	return l
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// StatusMsg updates the player summary in the header.
type StatusMsg struct {
	Status layout.Status
}
