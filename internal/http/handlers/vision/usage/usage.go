// Package usage реализует HTTP-обработчик проверки использования квоты.
// Операция только читает состояние и не создаёт запись пользователя.
package usage

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/ai-vision-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ai-vision-service/internal/http/response"
	"github.com/magabrotheeeer/ai-vision-service/internal/lib/clerk"
	"github.com/magabrotheeeer/ai-vision-service/internal/lib/sl"
	"github.com/magabrotheeeer/ai-vision-service/internal/services/analysis"
)

// Handler управляет HTTP-запросами на проверку использования.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики проверки использования.
type Service interface {
	Usage(ctx context.Context, claims *clerk.Claims) (*analysis.UsageInfo, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущее использование квоты
// @Description Возвращает уровень подписки, число выполненных анализов и лимит текущего пользователя.
// @Tags Vision
// @Produce json
// @Success 200 {object} analysis.UsageInfo "Использование квоты"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Security BearerAuth
// @Router /python-api/usage [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vision.usage"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	claims, ok := middlewarectx.ClaimsFromContext(r.Context())
	if !ok {
		log.Error("claims not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Not authenticated"))
		return
	}

	info, err := h.service.Usage(r.Context(), claims)
	if err != nil {
		log.Error("failed to read usage", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.InternalError(err))
		return
	}

	render.JSON(w, r, info)
}
