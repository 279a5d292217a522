package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/time/rate"

	"github.com/HSouheill/storefront_backend/cache"
	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/security"
)

func newUser(role models.Role) *models.User {
	return &models.User{ID: primitive.NewObjectID(), Email: "ada@example.com", Role: role}
}

func protectedServer(tokens *security.TokenManager, blacklist *security.Blacklist, extra ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	g := e.Group("/api", JWTMiddleware(tokens, blacklist))
	g.GET("/me", func(c echo.Context) error {
		id, err := CurrentUserID(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, id.Hex()+" "+string(CurrentRole(c)))
	}, extra...)
	return e
}

func get(e *echo.Echo, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware(t *testing.T) {
	tokens := security.NewTokenManager("secret", time.Hour)
	blacklist := security.NewBlacklist(cache.NewMemory())
	e := protectedServer(tokens, blacklist)
	u := newUser(models.RoleUser)
	token, exp, err := tokens.Issue(u)
	if err != nil {
		t.Fatal(err)
	}

	rec := get(e, "/api/me", token)
	if rec.Code != http.StatusOK || rec.Body.String() != u.ID.Hex()+" user" {
		t.Fatalf("valid token: %d %s", rec.Code, rec.Body.String())
	}

	rec = get(e, "/api/me?token="+token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("query token: %d", rec.Code)
	}

	if rec := get(e, "/api/me", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token: %d", rec.Code)
	}
	other := security.NewTokenManager("other-secret", time.Hour)
	forged, _, _ := other.Issue(u)
	if rec := get(e, "/api/me", forged); rec.Code != http.StatusUnauthorized {
		t.Errorf("forged token: %d", rec.Code)
	}

	if err := blacklist.Revoke(context.Background(), token, exp); err != nil {
		t.Fatal(err)
	}
	rec = get(e, "/api/me", token)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "invalidated") {
		t.Errorf("revoked token: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	tokens := security.NewTokenManager("secret", time.Hour)
	e := protectedServer(tokens, nil, RequireAdmin())

	userToken, _, _ := tokens.Issue(newUser(models.RoleUser))
	if rec := get(e, "/api/me", userToken); rec.Code != http.StatusForbidden {
		t.Errorf("user on admin route: %d", rec.Code)
	}
	adminToken, _, _ := tokens.Issue(newUser(models.RoleAdmin))
	if rec := get(e, "/api/me", adminToken); rec.Code != http.StatusOK {
		t.Errorf("admin: %d", rec.Code)
	}

	bare := echo.New()
	bare.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireAdmin())
	if rec := get(bare, "/x", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: %d", rec.Code)
	}
}

type touchRecorder struct {
	mu  sync.Mutex
	ids []primitive.ObjectID
	hit chan struct{}
}

func (r *touchRecorder) TouchActivity(_ context.Context, id primitive.ObjectID, _ time.Time) error {
	r.mu.Lock()
	r.ids = append(r.ids, id)
	r.mu.Unlock()
	r.hit <- struct{}{}
	return nil
}

func TestActivityTracker(t *testing.T) {
	tokens := security.NewTokenManager("secret", time.Hour)
	rec := &touchRecorder{hit: make(chan struct{}, 1)}
	e := protectedServer(tokens, nil, ActivityTracker(rec))
	u := newUser(models.RoleUser)
	token, _, _ := tokens.Issue(u)

	if res := get(e, "/api/me", token); res.Code != http.StatusOK {
		t.Fatalf("status %d", res.Code)
	}
	select {
	case <-rec.hit:
	case <-time.After(2 * time.Second):
		t.Fatal("activity not recorded")
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.ids) != 1 || rec.ids[0] != u.ID {
		t.Errorf("touched %v", rec.ids)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter()
	rl.SetLimit("/api/auth/login", rate.Every(time.Hour), 2)
	e := echo.New()
	e.Use(rl.RateLimit())
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.POST("/api/auth/login", ok)
	e.GET("/api/accounts", ok)

	post := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "203.0.113.7:1234"
		res := httptest.NewRecorder()
		e.ServeHTTP(res, req)
		return res.Code
	}
	for i := 0; i < 2; i++ {
		if code := post("/api/auth/login"); code != http.StatusOK {
			t.Fatalf("attempt %d: %d", i, code)
		}
	}
	if code := post("/api/auth/login"); code != http.StatusTooManyRequests {
		t.Fatalf("third attempt: %d", code)
	}

	// The IP stays blocked on other routes too.
	req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)
	if res.Code != http.StatusTooManyRequests || res.Header().Get("Retry-After") == "" {
		t.Errorf("blocked ip: %d retry-after=%q", res.Code, res.Header().Get("Retry-After"))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	req.RemoteAddr = "198.51.100.1:1234"
	res = httptest.NewRecorder()
	e.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Errorf("other ip: %d", res.Code)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter()
	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.blocked["1.2.3.4"] = now.Add(-time.Second)
	rl.blocked["5.6.7.8"] = now.Add(time.Minute)

	rl.cleanup()
	if _, ok := rl.blocked["1.2.3.4"]; ok {
		t.Error("expired block kept")
	}
	if _, ok := rl.blocked["5.6.7.8"]; !ok {
		t.Error("active block dropped")
	}
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestLogger(), SecurityHeadersWithConfig(SecurityConfig{ConnectSources: []string{"wss://shop.example"}, HSTS: true}))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	res := get(e, "/", "")
	h := res.Header()
	if h.Get("X-Frame-Options") != "DENY" || h.Get("Strict-Transport-Security") == "" {
		t.Errorf("headers = %v", h)
	}
	if !strings.Contains(h.Get("Content-Security-Policy"), "connect-src 'self' wss://shop.example") {
		t.Errorf("csp = %q", h.Get("Content-Security-Policy"))
	}
	if h.Get(echo.HeaderXRequestID) == "" {
		t.Error("missing request id")
	}
}

func TestCORS(t *testing.T) {
	e := echo.New()
	e.Use(CORS([]string{"https://shop.example"}))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set(echo.HeaderOrigin, "https://shop.example")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)
	if res.Header().Get(echo.HeaderAccessControlAllowOrigin) != "https://shop.example" {
		t.Errorf("allowed origin = %q", res.Header().Get(echo.HeaderAccessControlAllowOrigin))
	}

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	res = httptest.NewRecorder()
	e.ServeHTTP(res, req)
	if res.Header().Get(echo.HeaderAccessControlAllowOrigin) != "" {
		t.Error("foreign origin allowed")
	}
}
