package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthMiddleware_WithValidCookie(t *testing.T) {
	m := NewAuthMiddleware("test-secret")

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		id, ok := GetSessionIDFromContext(r.Context())
		if !ok {
			t.Fatalf("session id not in context")
		}
		if id != "3f1c2a9e-session" {
			t.Fatalf("session id from context = %q, want %q", id, "3f1c2a9e-session")
		}
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)

	m.SetSessionCookie(w, "3f1c2a9e-session")
	res := w.Result()
	resCookies := res.Cookies()
	if len(resCookies) == 0 {
		t.Fatalf("no cookies set by SetSessionCookie")
	}

	r.AddCookie(resCookies[0])

	handler := m.Middleware(next)
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if !nextCalled {
		t.Fatalf("next handler was not called")
	}
}

func TestAuthMiddleware_WithoutCookie(t *testing.T) {
	m := NewAuthMiddleware("test-secret")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)

	handler := m.Middleware(next)
	handler.ServeHTTP(w, r)

	res := w.Result()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ForeignSignature(t *testing.T) {
	issuer := NewAuthMiddleware("other-secret")
	m := NewAuthMiddleware("test-secret")

	w := httptest.NewRecorder()
	issuer.SetSessionCookie(w, "s1")
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("no cookies set")
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})

	r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	r.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	m.Middleware(next).ServeHTTP(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestParseCookie_Malformed(t *testing.T) {
	m := NewAuthMiddleware("test-secret")

	for _, v := range []string{"", "nodot", ".sig", "id."} {
		if _, ok := m.parseCookie(v); ok {
			t.Fatalf("parseCookie(%q) must fail", v)
		}
	}
}
