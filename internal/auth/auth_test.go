package auth

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torredebabel/icfes/internal/api"
	"github.com/torredebabel/icfes/internal/store"
)

type memRepo struct {
	cred *store.Credential
}

func (m *memRepo) SaveCredential(_ context.Context, c store.Credential) error {
	m.cred = &c
	return nil
}

func (m *memRepo) LoadCredential(context.Context) (*store.Credential, error) {
	if m.cred == nil {
		return nil, store.ErrNotFound
	}
	return m.cred, nil
}

func (m *memRepo) DeleteCredential(context.Context) error {
	m.cred = nil
	return nil
}

type fakeAuthenticator struct {
	tokens *api.Tokens
	err    error
	calls  int
}

func (f *fakeAuthenticator) Login(context.Context, string, string) (*api.Tokens, error) {
	f.calls++
	return f.tokens, f.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestStoreProvider(t *testing.T) {
	repo := &memRepo{}
	p := StoreProvider{Repo: repo}

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tok)

	repo.cred = &store.Credential{AccessToken: "a1"}
	tok, err = p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a1", tok)
}

func TestChainPrefersFirstNonEmpty(t *testing.T) {
	repo := &memRepo{cred: &store.Credential{AccessToken: "stored"}}

	tok, err := Chain{Static(""), StoreProvider{Repo: repo}}.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stored", tok)

	tok, err = Chain{Static(" env "), StoreProvider{Repo: repo}}.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "env", tok)

	tok, err = Chain{nil, Static("")}.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestLoginStoresTokens(t *testing.T) {
	repo := &memRepo{}
	client := &fakeAuthenticator{tokens: &api.Tokens{Access: "a1", Refresh: "r1"}}
	svc := NewService(client, repo, quietLogger())

	require.NoError(t, svc.Login(context.Background(), " ana@example.com ", "secret"))
	require.NotNil(t, repo.cred)
	assert.Equal(t, "a1", repo.cred.AccessToken)
	assert.Equal(t, "ana@example.com", svc.CurrentEmail(context.Background()))

	require.NoError(t, svc.Logout(context.Background()))
	assert.Nil(t, repo.cred)
	assert.Empty(t, svc.CurrentEmail(context.Background()))
}

func TestLoginFailureKeepsPreviousCredential(t *testing.T) {
	repo := &memRepo{cred: &store.Credential{AccessToken: "old"}}
	client := &fakeAuthenticator{err: errors.New("bad password")}
	svc := NewService(client, repo, quietLogger())

	err := svc.Login(context.Background(), "ana@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "old", repo.cred.AccessToken)
}

func TestLoginRequiresFields(t *testing.T) {
	client := &fakeAuthenticator{}
	svc := NewService(client, &memRepo{}, quietLogger())

	assert.Error(t, svc.Login(context.Background(), "", "x"))
	assert.Error(t, svc.Login(context.Background(), "a@b.c", ""))
	assert.Equal(t, 0, client.calls)
}
