package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/m2dev/codefolio/internal/domain/model"
	"github.com/m2dev/codefolio/internal/pkg/security"
	redrepo "github.com/m2dev/codefolio/internal/repo/redis"
	authsvc "github.com/m2dev/codefolio/internal/services/auth"
	ratesvc "github.com/m2dev/codefolio/internal/services/rate"
)

type stubUserStore struct {
	user model.AdminUser
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (model.AdminUser, error) {
	if email != s.user.Email {
		return model.AdminUser{}, authsvc.ErrUserNotFound
	}
	return s.user, nil
}

func newAuthHandlerForTest(t *testing.T, maxAttempts int) *AuthHandler {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	hash, err := security.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	users := &stubUserStore{user: model.AdminUser{
		ID:           1,
		Email:        "admin@example.com",
		PasswordHash: hash,
	}}

	jwtManager := authsvc.NewJWTManager("test-secret", 15*time.Minute, 45*24*time.Hour)
	limiter := ratesvc.NewLoginLimiter(redrepo.NewRateRepo(redisClient), maxAttempts, time.Minute)
	svc := authsvc.NewService(jwtManager, redrepo.NewSessionRepo(redisClient), users, limiter, 45*24*time.Hour)

	return NewAuthHandler(svc)
}

func performLogin(t *testing.T, h *AuthHandler, email, password string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		t.Fatalf("marshal login body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func TestAuthHandlerLoginSuccess(t *testing.T) {
	h := newAuthHandlerForTest(t, 5)

	resp := performLogin(t, h, "admin@example.com", "correct horse")
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d, body %s", resp.Code, http.StatusOK, resp.Body.String())
	}

	var payload struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresInSec int64  `json:"expires_in_sec"`
		Me           struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"me"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.AccessToken == "" || payload.RefreshToken == "" {
		t.Fatalf("expected both tokens in response")
	}
	if payload.ExpiresInSec <= 0 {
		t.Fatalf("expected positive expires_in_sec, got %d", payload.ExpiresInSec)
	}
	if payload.Me.ID != 1 || payload.Me.Role != authsvc.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", payload.Me)
	}
}

func TestAuthHandlerLoginInvalidCredentials(t *testing.T) {
	h := newAuthHandlerForTest(t, 5)

	for _, tc := range []struct{ email, password string }{
		{"admin@example.com", "wrong"},
		{"nobody@example.com", "whatever"},
	} {
		resp := performLogin(t, h, tc.email, tc.password)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status for %q: got %d want %d", tc.email, resp.Code, http.StatusUnauthorized)
		}

		var payload struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if payload.Code != "INVALID_CREDENTIALS" {
			t.Fatalf("unexpected error code: got %q want %q", payload.Code, "INVALID_CREDENTIALS")
		}
	}
}

func TestAuthHandlerLoginThrottled(t *testing.T) {
	h := newAuthHandlerForTest(t, 2)

	for i := 0; i < 2; i++ {
		_ = performLogin(t, h, "admin@example.com", "wrong")
	}

	resp := performLogin(t, h, "admin@example.com", "correct horse")
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: got %d want %d", resp.Code, http.StatusTooManyRequests)
	}

	var payload struct {
		Code          string `json:"code"`
		RetryAfterSec int64  `json:"retry_after_sec"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "TOO_MANY_REQUESTS" {
		t.Fatalf("unexpected error code: %q", payload.Code)
	}
	if payload.RetryAfterSec <= 0 {
		t.Fatalf("expected positive retry_after_sec, got %d", payload.RetryAfterSec)
	}
}

func TestAuthHandlerRefreshRotates(t *testing.T) {
	h := newAuthHandlerForTest(t, 5)

	login := performLogin(t, h, "admin@example.com", "correct horse")
	var first struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode login response: %v", err)
	}

	body, _ := json.Marshal(map[string]string{"refresh_token": first.RefreshToken})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Refresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d, body %s", rec.Code, rec.Body.String())
	}

	var second struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &second); err != nil {
		t.Fatalf("decode refresh response: %v", err)
	}
	if second.RefreshToken == "" || second.RefreshToken == first.RefreshToken {
		t.Fatalf("expected rotated refresh token")
	}

	// Replaying the old token must fail.
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	h.Refresh(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status for replayed token: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthHandlerLogoutRequiresIdentity(t *testing.T) {
	h := newAuthHandlerForTest(t, 5)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthHandlerLogoutWithIdentity(t *testing.T) {
	h := newAuthHandlerForTest(t, 5)

	login := performLogin(t, h, "admin@example.com", "correct horse")
	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode login response: %v", err)
	}

	claims, err := h.service.ValidateAccessToken(context.Background(), payload.AccessToken)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
		UserID: claims.UserID,
		SID:    claims.SID,
		Role:   claims.Role,
	}))
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d, body %s", rec.Code, rec.Body.String())
	}

	if _, err := h.service.ValidateAccessToken(context.Background(), payload.AccessToken); err == nil {
		t.Fatalf("access token still valid after logout")
	}
}
