package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const emailContextKey contextKey = "auth_email"

// cookieName — имя auth-cookie с JWT.
const cookieName = "auth_token"

// tokenTTL — срок жизни выданного токена.
const tokenTTL = 30 * 24 * time.Hour

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// SetLoginCookie подписывает JWT с email пользователя и ставит auth-cookie.
func SetLoginCookie(w http.ResponseWriter, email, secret string) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		Email: email,
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// WithAuth извлекает email из auth-cookie и кладёт его в контекст запроса.
// Отсутствие или невалидность cookie не прерывает запрос: решение
// «401 или нет» принимает хендлер.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(cookieName)
			if err == nil && c.Value != "" {
				var cl claims
				token, err := jwt.ParseWithClaims(c.Value, &cl, func(t *jwt.Token) (interface{}, error) {
					return []byte(secret), nil
				}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
				if err == nil && token.Valid && cl.Email != "" {
					ctx := context.WithValue(r.Context(), emailContextKey, cl.Email)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetEmailFromContext возвращает email аутентифицированного пользователя.
func GetEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailContextKey).(string)
	return email, ok && email != ""
}
