// Package session owns the authenticated identity and the bearer credential
// that authorizes every other API call. It is the single writer of the
// credential; all other components only read it through the API client.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/notegenius/notegenius/internal/model"
)

// State is the session lifecycle position.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// AuthAPI is the auth collaborator surface consumed by the session.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (model.Tokens, model.User, error)
	Signup(ctx context.Context, name, email, password string) (model.Tokens, model.User, error)
	Me(ctx context.Context) (model.User, error)
}

// CredentialSink receives the active bearer token; implemented by api.Client.
type CredentialSink interface {
	SetToken(string)
	ClearToken()
}

// TokenStore is the durable slot persisting the credential across restarts.
type TokenStore interface {
	Save(model.Tokens) error
	// Load returns an error when no valid (unexpired) credential is stored.
	Load() (model.Tokens, error)
	Clear() error
}

// UserPatch merges into the in-memory user without a round trip. Nil fields
// are left untouched.
type UserPatch struct {
	Name      *string
	Email     *string
	AvatarURL *string
}

// Session is the process-scoped authentication context.
type Session struct {
	auth  AuthAPI
	creds CredentialSink
	store TokenStore
	log   *zap.Logger

	mu    sync.Mutex
	state State
	user  *model.User
}

// New constructs an unauthenticated session.
func New(auth AuthAPI, creds CredentialSink, store TokenStore, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{auth: auth, creds: creds, store: store, log: log}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns a copy of the authenticated user, or nil.
func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Login authenticates with email/password. On success the credential is
// installed on the sink and persisted to the durable slot.
func (s *Session) Login(ctx context.Context, email, password string) (model.User, error) {
	s.begin()
	toks, user, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.abort()
		return model.User{}, err
	}
	s.commit(toks, user)
	return user, nil
}

// Signup registers a new account; contract mirrors Login. A duplicate email
// surfaces as errs.ErrAlreadyExists from the collaborator.
func (s *Session) Signup(ctx context.Context, name, email, password string) (model.User, error) {
	s.begin()
	toks, user, err := s.auth.Signup(ctx, name, email, password)
	if err != nil {
		s.abort()
		return model.User{}, err
	}
	s.commit(toks, user)
	return user, nil
}

// Logout clears the credential and the user unconditionally. Idempotent,
// never fails; durable-slot cleanup is best effort.
func (s *Session) Logout() {
	s.mu.Lock()
	s.state = Unauthenticated
	s.user = nil
	s.mu.Unlock()

	s.creds.ClearToken()
	if s.store != nil {
		if err := s.store.Clear(); err != nil {
			s.log.Warn("clear token store", zap.Error(err))
		}
	}
}

// Restore installs a previously persisted credential, if any. Returns true
// when a credential was found; the caller should follow up with
// FetchCurrentUser to validate it.
func (s *Session) Restore() bool {
	if s.store == nil {
		return false
	}
	toks, err := s.store.Load()
	if err != nil {
		return false
	}
	s.creds.SetToken(toks.AccessToken)
	s.mu.Lock()
	s.state = Authenticated
	s.mu.Unlock()
	return true
}

// FetchCurrentUser validates the restored credential by loading the user
// behind it. A failure (expired or rejected credential) triggers Logout as a
// side effect; this is the sole automatic-logout trigger besides a 401 on any
// other request.
func (s *Session) FetchCurrentUser(ctx context.Context) (model.User, error) {
	user, err := s.auth.Me(ctx)
	if err != nil {
		s.log.Info("current user fetch failed, logging out", zap.Error(err))
		s.Logout()
		return model.User{}, err
	}
	s.mu.Lock()
	s.state = Authenticated
	s.user = &user
	s.mu.Unlock()
	return user, nil
}

// UpdateUser merges non-nil patch fields into the in-memory user. Used after
// independent side-effecting operations (avatar upload) complete. No-op when
// unauthenticated.
func (s *Session) UpdateUser(patch UserPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	if patch.Name != nil {
		s.user.Name = *patch.Name
	}
	if patch.Email != nil {
		s.user.Email = *patch.Email
	}
	if patch.AvatarURL != nil {
		s.user.AvatarURL = *patch.AvatarURL
	}
}

func (s *Session) begin() {
	s.mu.Lock()
	s.state = Authenticating
	s.mu.Unlock()
}

func (s *Session) abort() {
	s.mu.Lock()
	s.state = Unauthenticated
	s.mu.Unlock()
}

func (s *Session) commit(toks model.Tokens, user model.User) {
	s.creds.SetToken(toks.AccessToken)
	if s.store != nil {
		if err := s.store.Save(toks); err != nil {
			s.log.Warn("persist token", zap.Error(err))
		}
	}
	s.mu.Lock()
	s.state = Authenticated
	s.user = &user
	s.mu.Unlock()
}
