package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Pair is a credential pair. The two tokens are stored and cleared together;
// a pair with only one token present is treated as absent.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (p Pair) Empty() bool {
	return p.AccessToken == "" || p.RefreshToken == ""
}

// TokenStore persists the credential pair between runs.
type TokenStore interface {
	Load() (Pair, error)
	Save(pair Pair) error
	Clear() error
}

// IsExpired inspects a JWT's exp claim without verifying the signature; the
// server still verifies everything. Tokens that cannot be parsed count as
// expired, so a corrupt store never produces doomed network calls.
func IsExpired(token string, now time.Time) bool {
	if token == "" {
		return true
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}

	expiresAt, err := claims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return true
	}

	return !now.Before(expiresAt.Time)
}

// MemoryTokenStore keeps the pair in process memory only.
type MemoryTokenStore struct {
	mu   sync.Mutex
	pair Pair
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load() (Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pair.Empty() {
		return Pair{}, nil
	}
	return s.pair, nil
}

func (s *MemoryTokenStore) Save(pair Pair) error {
	if pair.Empty() {
		return errors.New("cannot save a partial credential pair")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = Pair{}
	return nil
}

// FileTokenStore persists the pair as a JSON file readable only by the
// owner.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Load() (Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Pair{}, nil
		}
		return Pair{}, fmt.Errorf("read token file: %w", err)
	}

	var pair Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		return Pair{}, fmt.Errorf("decode token file: %w", err)
	}
	if pair.Empty() {
		return Pair{}, nil
	}

	return pair, nil
}

func (s *FileTokenStore) Save(pair Pair) error {
	if pair.Empty() {
		return errors.New("cannot save a partial credential pair")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encode token file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}

	return nil
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
