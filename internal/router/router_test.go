package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	jwtauth "pet-diary/internal/adapters/auth/jwt"
	"pet-diary/internal/platform/config"
	"pet-diary/internal/ports/storage"
	"pet-diary/internal/router"
)

func TestHTTP_EndToEnd_PetsAndDiary(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AllowDebugUser: true}))
	defer ts.Close()

	// 1) Dos usuarios
	ownerID := signup(t, ts.URL, "ana", "Ana@X.com", "secret1")
	otherID := signup(t, ts.URL, "bob", "bob@x.com", "secret2")

	// 2) Email repetido (case-insensitive) => 409
	{
		st, body := doReq(t, ts.URL, "POST", "/auth/signup", "", map[string]any{
			"username": "ana2", "email": "ana@x.com", "password": "secret3",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate email, got %d body=%s", st, string(body))
		}
	}

	// 3) Login por username
	{
		st, body := doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{
			"identifier": "ana", "password": "secret1",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{
			"email": "ana@x.com", "password": "wrong",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 bad password, got %d", st)
		}
	}

	// 4) Sin auth => 401
	if st, _ := doReq(t, ts.URL, "GET", "/pets", "", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", st)
	}

	// 5) Tipo inválido => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/pets", ownerID, map[string]any{"name": "Nemo", "pet_type": "fish"})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 invalid pet type, got %d", st)
		}
	}

	petID := createPet(t, ts.URL, ownerID, map[string]any{
		"name":     "Rex",
		"pet_type": "dog",
		"age":      3,
		"tags":     []string{"playful"},
	})

	// 6) Otro usuario no ve, no edita, no borra
	{
		if st, _ := doReq(t, ts.URL, "GET", "/pets/"+petID, otherID, nil); st != http.StatusNotFound {
			t.Fatalf("expected 404 get foreign pet, got %d", st)
		}
		if st, _ := doReq(t, ts.URL, "PATCH", "/pets/"+petID, otherID, map[string]any{"name": "Hacked"}); st != http.StatusNotFound {
			t.Fatalf("expected 404 patch foreign pet, got %d", st)
		}
		if st, _ := doReq(t, ts.URL, "DELETE", "/pets/"+petID, otherID, nil); st != http.StatusNoContent {
			t.Fatalf("expected 204 idempotent delete, got %d", st)
		}

		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID, ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected owner still sees pet, got %d", st)
		}
		var p struct {
			Name string `json:"name"`
		}
		_ = json.Unmarshal(body, &p)
		if p.Name != "Rex" {
			t.Fatalf("pet modified by other user: %s", string(body))
		}
	}

	// 7) Reminders default del tipo
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/reminders", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 reminders, got %d", st)
		}
		var rs struct {
			Reminders []map[string]any `json:"reminders"`
		}
		_ = json.Unmarshal(body, &rs)
		if len(rs.Reminders) == 0 {
			t.Fatalf("expected default reminders for dog, got %s", string(body))
		}
	}

	// 8) Diario: orden newest first
	t1 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	firstID := createPost(t, ts.URL, ownerID, petID, "first", t1)
	_ = createPost(t, ts.URL, ownerID, petID, "second", t2)

	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/diary", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list diary, got %d", st)
		}
		var posts []struct {
			Title string `json:"title"`
		}
		_ = json.Unmarshal(body, &posts)
		if len(posts) != 2 || posts[0].Title != "second" || posts[1].Title != "first" {
			t.Fatalf("expected [second, first], got %s", string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/pets/"+petID+"/diary?limit=1", ownerID, nil)
		_ = json.Unmarshal(body, &posts)
		if st != http.StatusOK || len(posts) != 1 {
			t.Fatalf("expected 1 post with limit=1, got %d body=%s", st, string(body))
		}
	}

	// 9) Otro usuario: no puede postear en el pet ajeno; su listado viene vacío
	{
		st, _ := doReq(t, ts.URL, "POST", "/pets/"+petID+"/diary", otherID, map[string]any{"title": "nope"})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 post on foreign pet, got %d", st)
		}
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/diary", otherID, nil)
		if st != http.StatusOK || string(bytes.TrimSpace(body)) != "[]" {
			t.Fatalf("expected empty list for other user, got %d body=%s", st, string(body))
		}

		// posts son públicos
		if st, _ := doReq(t, ts.URL, "GET", "/diary/"+firstID, otherID, nil); st != http.StatusOK {
			t.Fatalf("expected 200 public post, got %d", st)
		}
	}

	// 10) Borrar el pet borra su diario
	{
		if st, _ := doReq(t, ts.URL, "DELETE", "/pets/"+petID, ownerID, nil); st != http.StatusNoContent {
			t.Fatalf("expected 204 delete pet, got %d", st)
		}
		if st, _ := doReq(t, ts.URL, "GET", "/diary/"+firstID, ownerID, nil); st != http.StatusNotFound {
			t.Fatalf("expected 404 post after pet delete, got %d", st)
		}
		if st, _ := doReq(t, ts.URL, "DELETE", "/pets/"+petID, ownerID, nil); st != http.StatusNoContent {
			t.Fatalf("expected 204 second delete, got %d", st)
		}
	}
}

func TestHTTP_BearerTokens(t *testing.T) {
	tokens := jwtauth.New("test-secret", time.Hour)
	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: tokens,
		TokenIssuer:  tokens,
	}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "POST", "/auth/signup", "", map[string]any{
		"username": "ana", "email": "ana@x.com", "password": "secret1",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 signup, got %d body=%s", st, string(body))
	}
	var sess struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	_ = json.Unmarshal(body, &sess)
	if sess.Token == "" {
		t.Fatalf("expected token in signup response: %s", string(body))
	}

	req, _ := http.NewRequest("GET", ts.URL+"/me", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	_ = res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 /me with token, got %d", res.StatusCode)
	}

	// Sin AllowDebugUser el header no sirve.
	if st, _ := doReq(t, ts.URL, "GET", "/me", sess.User.ID, nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 with debug header in strict mode, got %d", st)
	}
}

func TestHTTP_HealthReportsStorageDown(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{
		Health: func(context.Context) error {
			return fmt.Errorf("ping: %w", storage.ErrConnection)
		},
	}))
	defer ts.Close()

	if st, _ := doReq(t, ts.URL, "GET", "/health", "", nil); st != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", st)
	}

	ok := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ok.Close()
	if st, body := doReq(t, ok.URL, "GET", "/health", "", nil); st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected 200 ok, got %d %s", st, string(body))
	}
}

func signup(t *testing.T, baseURL, username, email, password string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/auth/signup", "", map[string]any{
		"username": username, "email": email, "password": password,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 signup, got %d body=%s", st, string(body))
	}

	var resp struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.User.ID == "" {
		t.Fatalf("signup: missing id body=%s", string(body))
	}
	return resp.User.ID
}

func createPet(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.ID
}

func createPost(t *testing.T, baseURL, userID, petID, title string, at time.Time) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets/"+petID+"/diary", userID, map[string]any{
		"title":      title,
		"created_at": at.Format(time.RFC3339),
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create post, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create post: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func TestHTTP_AuthRateLimit(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthRPS: 0.001, AuthBurst: 1}))
	defer ts.Close()

	login := map[string]any{"email": "nobody@x.com", "password": "whatever"}
	if st, _ := doReq(t, ts.URL, "POST", "/auth/login", "", login); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 on first attempt, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "POST", "/auth/login", "", login); st != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on second attempt, got %d", st)
	}

	// El límite es solo para /auth.
	if st, _ := doReq(t, ts.URL, "GET", "/health", "", nil); st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}
}

func TestHTTP_SignupRejectsPasswordOver72Bytes(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "POST", "/auth/signup", "", map[string]any{
		"username": "long", "email": "long@x.com", "password": strings.Repeat("p", 80),
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for an 80-byte password, got %d (%s)", st, body)
	}
}

func TestHTTP_DebugHeaderIgnoredWithDefaultConfig(t *testing.T) {
	for _, k := range []string{"ENV", "STORAGE", "ALLOW_DEBUG_USER"} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
	t.Setenv("JWT_SECRET", "real-secret")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	// Mismas opciones que arma cmd/api.
	tokens := jwtauth.New(cfg.JWTSecret, cfg.JWTTTL)
	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier:   tokens,
		TokenIssuer:    tokens,
		AllowDebugUser: cfg.DebugUserAllowed(),
	}))
	defer ts.Close()

	victimID := signup(t, ts.URL, "victim", "victim@x.com", "secret1")

	if st, _ := doReq(t, ts.URL, "GET", "/me", victimID, nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 for /me with only the debug header, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "POST", "/pets", victimID, map[string]any{"name": "Rex", "pet_type": "dog"}); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 creating a pet with only the debug header, got %d", st)
	}
}
