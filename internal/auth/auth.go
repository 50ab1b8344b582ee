// Package auth supplies and manages the bearer credential used for
// backend calls.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/torredebabel/icfes/internal/api"
	"github.com/torredebabel/icfes/internal/store"
)

// Provider supplies the current bearer token. An empty token with a nil
// error means "no credential".
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// Static is a fixed token, typically from ICFES_TOKEN.
type Static string

func (s Static) Token(context.Context) (string, error) {
	return strings.TrimSpace(string(s)), nil
}

// StoreProvider reads the token saved by the last login.
type StoreProvider struct {
	Repo store.CredentialRepo
}

func (p StoreProvider) Token(ctx context.Context) (string, error) {
	if p.Repo == nil {
		return "", nil
	}
	c, err := p.Repo.LoadCredential(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	return c.AccessToken, nil
}

// Chain returns the first non-empty token from its providers.
type Chain []Provider

func (c Chain) Token(ctx context.Context) (string, error) {
	for _, p := range c {
		if p == nil {
			continue
		}
		t, err := p.Token(ctx)
		if err != nil {
			return "", err
		}
		if t != "" {
			return t, nil
		}
	}
	return "", nil
}

// Authenticator is the subset of the API client used for login.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.Tokens, error)
}

// Service logs users in and out, persisting the issued tokens.
type Service struct {
	client Authenticator
	repo   store.CredentialRepo
	log    logrus.FieldLogger
}

// NewService creates a Service.
func NewService(client Authenticator, repo store.CredentialRepo, log logrus.FieldLogger) *Service {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Service{client: client, repo: repo, log: log}
}

// Login exchanges credentials for tokens and stores them locally.
func (s *Service) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}

	tokens, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := s.repo.SaveCredential(ctx, store.Credential{
		Email:        email,
		AccessToken:  tokens.Access,
		RefreshToken: tokens.Refresh,
	}); err != nil {
		return err
	}

	s.log.WithField("email", email).Info("logged in")
	return nil
}

// Logout removes the stored credential.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.repo.DeleteCredential(ctx); err != nil {
		return err
	}
	s.log.Info("logged out")
	return nil
}

// CurrentEmail returns the email of the stored credential, or "".
func (s *Service) CurrentEmail(ctx context.Context) string {
	c, err := s.repo.LoadCredential(ctx)
	if err != nil {
		return ""
	}
	return c.Email
}
