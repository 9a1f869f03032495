package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

// ServeHTTP godoc
// @Summary Проверка работоспособности сервиса
// @Description Возвращает фиксированный статус без аутентификации.
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]any "Сервис работает"
// @Router /python-api/health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vision.health"
	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, map[string]any{
		"status":  "healthy",
		"service": "AI Vision Service",
	})
}
