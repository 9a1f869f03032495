// Package middlewarectx содержит HTTP middleware для проверки bearer-токенов
// и ограничения частоты запросов.
//
// AuthMiddleware проверяет наличие и валидность токена Clerk в заголовке
// Authorization и в случае успеха добавляет в контекст claims пользователя.
// Отсутствие заголовка даёт 403, невалидный токен — 401, ненастроенная
// проверка (нет JWKS URL) — 503; статусы совпадают с поведением исходного
// сервиса.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/ai-vision-service/internal/http/response"
	"github.com/magabrotheeeer/ai-vision-service/internal/lib/clerk"
	"github.com/magabrotheeeer/ai-vision-service/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserID — ключ для идентификатора пользователя в контексте
	UserID Key = "user_id"
	// UserClaims — ключ для claims пользователя в контексте
	UserClaims Key = "claims"
)

// TokenVerifier описывает интерфейс проверки bearer-токена.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*clerk.Claims, error)
}

// ClaimsFromContext извлекает claims пользователя из контекста запроса.
func ClaimsFromContext(ctx context.Context) (*clerk.Claims, bool) {
	claims, ok := ctx.Value(UserClaims).(*clerk.Claims)
	return claims, ok
}

// AuthMiddleware возвращает HTTP middleware, проверяющий bearer-токен.
// Verifier может быть nil, если JWKS URL не настроен: тогда защищённые
// запросы получают 503 вместо паники.
func AuthMiddleware(verifier TokenVerifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("Not authenticated"))
				return
			}

			if verifier == nil {
				log.Error("authentication is not configured, CLERK_JWKS_URL is not set")
				w.WriteHeader(http.StatusServiceUnavailable)
				render.JSON(w, r, response.Error("Authentication is not configured"))
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := verifier.Verify(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserID, claims.Subject)
			ctx = context.WithValue(ctx, UserClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
