package redis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	authsvc "github.com/m2dev/codefolio/internal/services/auth"
)

func newTestSessionRepo(t *testing.T) (*SessionRepo, *miniredis.Miniredis) {
	t.Helper()
	m := miniredis.RunT(t)
	return NewSessionRepo(NewClient(m.Addr(), "", 0)), m
}

func testRecord(sid string) authsvc.SessionRecord {
	return authsvc.SessionRecord{
		SID:       sid,
		UserID:    1,
		Role:      authsvc.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestSessionRepoRefreshTokenNeverStoredRaw(t *testing.T) {
	repo, m := newTestSessionRepo(t)
	ctx := context.Background()

	const refreshToken = "eyJhbGciOiJIUzI1NiJ9.signed-refresh-token.sig"
	if err := repo.Create(ctx, testRecord("sid-1"), refreshToken); err != nil {
		t.Fatalf("create session: %v", err)
	}

	for _, key := range m.Keys() {
		if strings.Contains(key, refreshToken) {
			t.Fatalf("raw refresh token leaked into key %q", key)
		}
	}

	session, err := repo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		t.Fatalf("get by refresh token: %v", err)
	}
	if session.SID != "sid-1" || session.UserID != 1 {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestSessionRepoRotateKillsOldToken(t *testing.T) {
	repo, _ := newTestSessionRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testRecord("sid-1"), "old-token"); err != nil {
		t.Fatalf("create session: %v", err)
	}

	newExpiry := time.Now().Add(2 * time.Hour)
	if err := repo.RotateRefresh(ctx, "sid-1", "old-token", "new-token", newExpiry); err != nil {
		t.Fatalf("rotate refresh: %v", err)
	}

	if _, err := repo.GetByRefreshToken(ctx, "old-token"); !errors.Is(err, authsvc.ErrRefreshNotFound) {
		t.Fatalf("old token must stop resolving, got %v", err)
	}

	session, err := repo.GetByRefreshToken(ctx, "new-token")
	if err != nil {
		t.Fatalf("new token must resolve: %v", err)
	}
	if session.ExpiresAt.Unix() != newExpiry.Unix() {
		t.Fatalf("rotation must extend the session, got %v want %v", session.ExpiresAt, newExpiry)
	}
}

func TestSessionRepoDeleteSessionRemovesRefreshPointer(t *testing.T) {
	repo, m := newTestSessionRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testRecord("sid-1"), "token-1"); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := repo.DeleteSession(ctx, "sid-1"); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	if _, err := repo.GetSession(ctx, "sid-1"); !errors.Is(err, authsvc.ErrSessionNotFound) {
		t.Fatalf("session must be gone, got %v", err)
	}
	if _, err := repo.GetByRefreshToken(ctx, "token-1"); !errors.Is(err, authsvc.ErrRefreshNotFound) {
		t.Fatalf("refresh pointer must be gone, got %v", err)
	}
	for _, key := range m.Keys() {
		if strings.HasPrefix(key, refreshKeyPrefix) || strings.HasPrefix(key, sessionRefPrefix) {
			t.Fatalf("stale key survived delete: %q", key)
		}
	}
}

func TestSessionRepoDeleteAllForUser(t *testing.T) {
	repo, _ := newTestSessionRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, testRecord("sid-1"), "token-1"); err != nil {
		t.Fatalf("create first session: %v", err)
	}
	if err := repo.Create(ctx, testRecord("sid-2"), "token-2"); err != nil {
		t.Fatalf("create second session: %v", err)
	}

	if err := repo.DeleteAllForUser(ctx, 1); err != nil {
		t.Fatalf("delete all for user: %v", err)
	}

	for _, token := range []string{"token-1", "token-2"} {
		if _, err := repo.GetByRefreshToken(ctx, token); !errors.Is(err, authsvc.ErrRefreshNotFound) {
			t.Fatalf("token %q must stop resolving, got %v", token, err)
		}
	}
}
