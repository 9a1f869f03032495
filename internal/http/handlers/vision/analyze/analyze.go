// Package analyze реализует HTTP-обработчик анализа загруженного изображения.
//
// Handler принимает multipart-запрос с полем file, извлекает claims
// пользователя из контекста, вызывает бизнес-логику анализа и возвращает
// описание изображения вместе с данными об использовании квоты.
//
// Любая ошибка конвейера преобразуется в структурированный JSON-ответ
// в формате {"detail": ...}; необработанных паник наружу не уходит.
package analyze

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/ai-vision-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ai-vision-service/internal/http/response"
	"github.com/magabrotheeeer/ai-vision-service/internal/lib/clerk"
	"github.com/magabrotheeeer/ai-vision-service/internal/lib/sl"
	"github.com/magabrotheeeer/ai-vision-service/internal/lib/upload"
	"github.com/magabrotheeeer/ai-vision-service/internal/models"
	"github.com/magabrotheeeer/ai-vision-service/internal/services/analysis"
)

const maxSizeMB = upload.MaxFileSize / (1024 * 1024)

// Handler управляет HTTP-запросами на анализ изображений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики анализа изображения.
type Service interface {
	Analyze(ctx context.Context, claims *clerk.Claims, filename string, file io.Reader) (*analysis.Result, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проанализировать изображение
// @Description Принимает изображение (jpg, jpeg, png, webp, до 5 МБ) и возвращает его текстовое описание. Бесплатный уровень ограничен одним анализом.
// @Tags Vision
// @Accept mpfd
// @Produce json
// @Param file formData file true "Файл изображения"
// @Success 200 {object} map[string]any "Результат анализа"
// @Failure 400 {object} response.Response "Недопустимый тип файла"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 413 {object} response.Response "Файл слишком большой"
// @Failure 429 {object} response.Response "Квота исчерпана"
// @Failure 500 {object} response.Response "Ошибка модели или сервера"
// @Security BearerAuth
// @Router /python-api/analyze [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vision.analyze"
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

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Error("failed to read multipart file field", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("file field is required"))
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.service.Analyze(r.Context(), claims, header.Filename, file)
	if err != nil {
		h.renderError(w, r, log, err)
		return
	}

	log.Info("analysis completed", slog.String("filename", header.Filename))
	render.JSON(w, r, map[string]any{
		"success":    true,
		"analysis":   result.Analysis,
		"usage":      result.Usage,
		"image_info": result.ImageInfo,
	})
}

// renderError отображает ошибку конвейера в HTTP-статус и тело ответа.
// Квота и ошибки валидации — ожидаемые исходы и не логируются как сбои.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var invalidType *models.InvalidFileTypeError
	var tooLarge *models.FileTooLargeError
	var providerErr *models.ProviderError

	switch {
	case errors.Is(err, models.ErrQuotaExceeded):
		log.Info("free tier limit reached")
		w.WriteHeader(http.StatusTooManyRequests)
		render.JSON(w, r, response.Error("Free tier limit reached"))
	case errors.As(err, &invalidType):
		log.Info("invalid file type", slog.String("filename", invalidType.Filename))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.InvalidFileType(invalidType, upload.AllowedExtensions()))
	case errors.As(err, &tooLarge):
		log.Info("file too large", slog.Int64("size_bytes", tooLarge.SizeBytes))
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		render.JSON(w, r, response.FileTooLarge(tooLarge, maxSizeMB))
	case errors.As(err, &providerErr):
		log.Error("vision provider call failed", sl.Err(providerErr.Err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.ProviderError(providerErr))
	default:
		log.Error("unexpected analyze failure", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.InternalError(err))
	}
}
