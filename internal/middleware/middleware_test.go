package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pet-diary/internal/platform/logger"
	"pet-diary/internal/ports/auth"
)

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token == "good" {
		return auth.Claims{UserID: "u-token", Email: "a@x.com"}, nil
	}
	return auth.Claims{}, errors.New("bad token")
}

func whoAmI() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := GetClaims(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(c.UserID))
	})
}

func TestAuthContext(t *testing.T) {
	cases := []struct {
		name       string
		verifier   auth.AuthVerifier
		allowDebug bool
		headers    map[string]string
		wantStatus int
		wantUser   string
	}{
		{"bearer ok", stubVerifier{}, false, map[string]string{"Authorization": "Bearer good"}, http.StatusOK, "u-token"},
		{"bearer lowercase scheme", stubVerifier{}, false, map[string]string{"Authorization": "bearer good"}, http.StatusOK, "u-token"},
		{"bad token no debug", stubVerifier{}, false, map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized, ""},
		{"debug header allowed", nil, true, map[string]string{DebugUserHeader: "u-dev"}, http.StatusOK, "u-dev"},
		{"debug header ignored in prod", stubVerifier{}, false, map[string]string{DebugUserHeader: "u-dev"}, http.StatusUnauthorized, ""},
		{"token wins over debug", stubVerifier{}, true, map[string]string{"Authorization": "Bearer good", DebugUserHeader: "u-dev"}, http.StatusOK, "u-token"},
		{"nothing", nil, true, nil, http.StatusUnauthorized, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := AuthContext(tc.verifier, tc.allowDebug)(whoAmI())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			if tc.wantUser != "" && rec.Body.String() != tc.wantUser {
				t.Fatalf("expected user %q, got %q", tc.wantUser, rec.Body.String())
			}
		})
	}
}

func TestRequestLog_WritesStatusAndUser(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatJSON, Output: &buf})

	h := AuthContext(nil, true)(RequestLog(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/pets", nil)
	req.Header.Set(DebugUserHeader, "u1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"status":418`, `"user_id":"u1"`, `"path":"/pets"`, `"level":"WARN"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log line, got %s", want, out)
		}
	}
}

func TestRateLimit_PerIP(t *testing.T) {
	h := RateLimit(0.001, 2)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if hit("10.0.0.1:1111") != http.StatusOK || hit("10.0.0.1:2222") != http.StatusOK {
		t.Fatalf("expected burst of 2 to pass")
	}
	if code := hit("10.0.0.1:3333"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", code)
	}
	if code := hit("10.0.0.2:1111"); code != http.StatusOK {
		t.Fatalf("other ip should not be limited, got %d", code)
	}
}

func TestIPRateLimiter_SweepsStaleVisitors(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := start
	rl := newIPRateLimiter(1, 1)
	rl.now = func() time.Time { return clock }
	rl.lastSweep = start

	rl.get("10.0.0.1")
	rl.get("10.0.0.2")

	clock = start.Add(visitorTTL / 2)
	rl.get("10.0.0.2")
	if len(rl.visitors) != 2 {
		t.Fatalf("no sweep expected before TTL, got %d visitors", len(rl.visitors))
	}

	// .1 lleva más de un TTL sin verse; .2 no.
	clock = start.Add(visitorTTL + time.Second)
	rl.get("10.0.0.3")
	if _, ok := rl.visitors["10.0.0.1"]; ok {
		t.Fatalf("stale visitor should be swept")
	}
	if _, ok := rl.visitors["10.0.0.2"]; !ok {
		t.Fatalf("recent visitor should survive the sweep")
	}
	if len(rl.visitors) != 2 {
		t.Fatalf("expected 2 visitors after sweep, got %d", len(rl.visitors))
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":      "abc",
		"bearer  abc ":    "abc",
		"  Bearer abc":    "abc",
		"Basic abc":       "",
		"Bearer":          "",
		"":                "",
		"Bearerabc":       "",
		"BEARER tok.en.x": "tok.en.x",
	}
	for in, want := range cases {
		if got := bearerToken(in); got != want {
			t.Fatalf("bearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetClaims_RequiresUserID(t *testing.T) {
	if _, ok := GetClaims(context.Background()); ok {
		t.Fatalf("empty context should have no claims")
	}
	if _, ok := GetClaims(WithClaims(context.Background(), auth.Claims{Email: "a@x.com"})); ok {
		t.Fatalf("claims without user id should not count")
	}
	c, ok := GetClaims(WithClaims(context.Background(), auth.Claims{UserID: "u-1"}))
	if !ok || c.UserID != "u-1" {
		t.Fatalf("expected claims for u-1, got %+v ok=%v", c, ok)
	}
}
