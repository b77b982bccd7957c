package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// State is the session lifecycle state the UI renders from.
type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

var (
	// ErrOperationInFlight is returned when a login, refresh or logout is
	// already running. Auth operations never overlap.
	ErrOperationInFlight = errors.New("auth operation already in flight")

	// ErrSessionExpired means the stored credentials are no longer usable
	// and the user has to log in again.
	ErrSessionExpired = errors.New("session expired")
)

// loginMessages maps server error codes to the fixed strings shown on the
// login form. Raw codes never reach the user.
var loginMessages = map[string]string{
	"INVALID_CREDENTIALS": "Invalid email or password",
	"USER_NOT_FOUND":      "User not found",
	"WRONG_PASSWORD":      "Invalid password",
	"TOO_MANY_REQUESTS":   "Too many failed attempts. Please try again later.",
}

const loginFallbackMessage = "Login failed"

// LoginError carries the user-facing message for a failed login. The
// underlying cause stays reachable through Unwrap for logging.
type LoginError struct {
	Message string
	cause   error
}

func (e *LoginError) Error() string {
	return e.Message
}

func (e *LoginError) Unwrap() error {
	return e.cause
}

// Backend is the server surface the session talks to.
type Backend interface {
	Login(ctx context.Context, email, password string) (Pair, error)
	Refresh(ctx context.Context, refreshToken string) (Pair, error)
	Logout(ctx context.Context, accessToken string) error
}

// Session owns the credential pair and the auth lifecycle. All operations
// are serialized: a second call while one is running fails fast with
// ErrOperationInFlight instead of queueing.
type Session struct {
	backend Backend
	store   TokenStore
	now     func() time.Time

	mu          sync.Mutex
	state       State
	lastError   string
	inFlight    bool
	subscribers map[int]func(State)
	nextSubID   int
}

func NewSession(backend Backend, store TokenStore) *Session {
	s := &Session{
		backend:     backend,
		store:       store,
		now:         time.Now,
		state:       StateUnknown,
		subscribers: map[int]func(State){},
	}

	pair, err := store.Load()
	switch {
	case err != nil, pair.Empty():
		s.state = StateUnauthenticated
	case IsExpired(pair.RefreshToken, s.now()):
		_ = store.Clear()
		s.state = StateUnauthenticated
	default:
		s.state = StateAuthenticated
	}

	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the user-facing message of the most recent failed
// login, or "" after a successful one.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Loading reports whether an auth operation is currently running.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Subscribe registers a state listener and returns an unsubscribe func. The
// listener fires on every transition, including same-value sets.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Login exchanges credentials for a token pair. A repeated login simply
// overwrites the stored pair; any error surfaces as a LoginError with a
// user-facing message.
func (s *Session) Login(ctx context.Context, email, password string) error {
	release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()

	pair, err := s.backend.Login(ctx, email, password)
	if err != nil {
		// A failed login ends any previous session too, so the store is
		// cleared along with the state flip and the two never disagree.
		_ = s.store.Clear()
		lerr := loginError(err)
		s.setLastError(lerr.Message)
		s.setState(StateUnauthenticated)
		return lerr
	}

	if err := s.store.Save(pair); err != nil {
		_ = s.store.Clear()
		s.setLastError(loginFallbackMessage)
		s.setState(StateUnauthenticated)
		return fmt.Errorf("save credentials: %w", err)
	}

	s.setLastError("")
	s.setState(StateAuthenticated)
	return nil
}

// Logout revokes the session server-side when it can, but the local pair is
// cleared and the state flips to unauthenticated no matter what the network
// does.
func (s *Session) Logout(ctx context.Context) error {
	release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()

	pair, loadErr := s.store.Load()
	if loadErr == nil && !pair.Empty() {
		_ = s.backend.Logout(ctx, pair.AccessToken)
	}

	clearErr := s.store.Clear()
	s.setState(StateUnauthenticated)
	if clearErr != nil {
		return fmt.Errorf("clear credentials: %w", clearErr)
	}
	return nil
}

// Refresh rotates the token pair. When the stored refresh token is already
// expired it fails before any network call and drops the session.
func (s *Session) Refresh(ctx context.Context) error {
	release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()

	return s.refreshLocked(ctx)
}

// AccessToken returns a usable access token, refreshing the pair first when
// the stored one has expired.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	release, err := s.acquire()
	if err != nil {
		return "", err
	}
	defer release()

	pair, err := s.store.Load()
	if err != nil {
		return "", fmt.Errorf("load credentials: %w", err)
	}
	if pair.Empty() {
		return "", ErrSessionExpired
	}

	if !IsExpired(pair.AccessToken, s.now()) {
		return pair.AccessToken, nil
	}

	if err := s.refreshLocked(ctx); err != nil {
		return "", err
	}

	pair, err = s.store.Load()
	if err != nil {
		return "", fmt.Errorf("load credentials: %w", err)
	}
	return pair.AccessToken, nil
}

func (s *Session) refreshLocked(ctx context.Context) error {
	pair, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	if pair.Empty() || IsExpired(pair.RefreshToken, s.now()) {
		_ = s.store.Clear()
		s.setState(StateUnauthenticated)
		return ErrSessionExpired
	}

	rotated, err := s.backend.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		// Any refresh failure drops the session; repeating the call after
		// a failure keeps returning failure without side effects.
		_ = s.store.Clear()
		s.setState(StateUnauthenticated)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Unauthorized() {
			return ErrSessionExpired
		}
		return fmt.Errorf("refresh session: %w", err)
	}

	if err := s.store.Save(rotated); err != nil {
		return fmt.Errorf("save rotated credentials: %w", err)
	}

	s.setState(StateAuthenticated)
	return nil
}

func (s *Session) acquire() (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return nil, ErrOperationInFlight
	}
	s.inFlight = true

	return func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}, nil
}

func (s *Session) setLastError(msg string) {
	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	listeners := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

func loginError(err error) *LoginError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg, ok := loginMessages[apiErr.Code]; ok {
			return &LoginError{Message: msg, cause: err}
		}
	}
	return &LoginError{Message: loginFallbackMessage, cause: err}
}
