// Package middleware содержит HTTP middleware сервиса Ready-to-Eat.
package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"
)

type contextKey string

const sessionIDKey contextKey = "sessionID"

const (
	sessionCookieName = "rte_session"
	sessionCookieTTL  = 24 * time.Hour
)

// AuthMiddleware проверяет подписанный cookie клиентской сессии.
type AuthMiddleware struct {
	secretKey []byte
}

// NewAuthMiddleware создаёт новый экземпляр AuthMiddleware с указанным секретным ключом.
// При пустом ключе генерируется случайный: cookie перестают быть валидными после перезапуска.
func NewAuthMiddleware(secret string) *AuthMiddleware {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &AuthMiddleware{
		secretKey: key,
	}
}

// Middleware проверяет cookie сессии и добавляет её идентификатор в контекст запроса.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		sessionID, ok := a.parseCookie(cookie.Value)
		if !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SetSessionCookie устанавливает подписанный cookie для указанной сессии.
func (a *AuthMiddleware) SetSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID + "." + a.sign(sessionID),
		Path:     "/",
		Expires:  time.Now().Add(sessionCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie удаляет cookie сессии.
func (a *AuthMiddleware) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *AuthMiddleware) sign(value string) string {
	mac := hmac.New(sha256.New, a.secretKey)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

func (a *AuthMiddleware) parseCookie(cookieValue string) (string, bool) {
	idx := strings.LastIndex(cookieValue, ".")
	if idx <= 0 || idx == len(cookieValue)-1 {
		return "", false
	}

	sessionID := cookieValue[:idx]
	signature := cookieValue[idx+1:]

	if !hmac.Equal([]byte(signature), []byte(a.sign(sessionID))) {
		return "", false
	}

	return sessionID, true
}

// GetSessionIDFromContext извлекает идентификатор сессии из контекста запроса.
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

// WithSessionID кладёт идентификатор сессии в контекст.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}
