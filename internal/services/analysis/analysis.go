// Package analysis содержит бизнес-логику анализа изображений:
// разрешение уровня подписки, контроль квоты, валидацию загрузки,
// обращение к модели и учёт использования.
package analysis

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/ai-vision-service/internal/lib/clerk"
	"github.com/magabrotheeeer/ai-vision-service/internal/lib/sl"
	"github.com/magabrotheeeer/ai-vision-service/internal/lib/upload"
	"github.com/magabrotheeeer/ai-vision-service/internal/metrics"
	"github.com/magabrotheeeer/ai-vision-service/internal/models"
)

// UsageLedger определяет методы учёта использования анализов.
type UsageLedger interface {
	// AcquireUser захватывает блокировку пользователя на время операции.
	AcquireUser(userID string) func()
	// GetOrInit возвращает запись пользователя, создавая её при первом обращении.
	GetOrInit(ctx context.Context, userID string, tier models.Tier) (models.UsageRecord, error)
	// CheckQuota возвращает models.ErrQuotaExceeded при исчерпанной квоте.
	CheckQuota(ctx context.Context, userID string) error
	// Increment увеличивает счётчик анализов и возвращает новое значение.
	Increment(ctx context.Context, userID string) (int, error)
	// Peek возвращает снимок записи, не создавая её.
	Peek(ctx context.Context, userID string) (models.UsageRecord, error)
}

// VisionProvider описывает обращение к модели анализа изображений.
type VisionProvider interface {
	Describe(ctx context.Context, image []byte, mimeType string) (string, error)
}

// ResultCache описывает методы кеширования результатов анализа.
type ResultCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

const cacheTTL = 24 * time.Hour

// UnlimitedLabel значение limit и remaining для premium-уровня.
const UnlimitedLabel = "unlimited"

// Usage блок учёта использования в ответе операции анализа.
type Usage struct {
	Tier         models.Tier `json:"tier"`
	AnalysesUsed int         `json:"analyses_used"`
	Limit        any         `json:"limit"`
	Remaining    any         `json:"remaining"`
}

// ImageInfo сведения о загруженном изображении в ответе.
type ImageInfo struct {
	Filename string  `json:"filename"`
	SizeKB   float64 `json:"size_kb"`
	Type     string  `json:"type"`
}

// Result результат успешного анализа изображения.
type Result struct {
	Analysis  string
	Usage     Usage
	ImageInfo ImageInfo
}

// UsageInfo результат операции проверки использования.
type UsageInfo struct {
	UserID       string      `json:"user_id"`
	Tier         models.Tier `json:"tier"`
	AnalysesUsed int         `json:"analyses_used"`
	Limit        any         `json:"limit"`
}

// Service реализует бизнес-логику анализа изображений.
// Кеш и провайдер могут отсутствовать: без провайдера запросы анализа
// завершаются ProviderError, без кеша каждый запрос идёт в модель.
type Service struct {
	ledger   UsageLedger
	provider VisionProvider
	cache    ResultCache
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// New создает новый Service с переданными зависимостями.
func New(ledger UsageLedger, provider VisionProvider, resultCache ResultCache, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{
		ledger:   ledger,
		provider: provider,
		cache:    resultCache,
		metrics:  m,
		log:      log,
	}
}

// Analyze выполняет полный конвейер анализа одного изображения:
// разрешение уровня → блокировка пользователя → квота → расширение →
// чтение тела → размер → модель → инкремент → сборка результата.
// Счётчик увеличивается строго после успешного получения описания.
func (s *Service) Analyze(ctx context.Context, claims *clerk.Claims, filename string, file io.Reader) (*Result, error) {
	const op = "services.analysis.Analyze"
	log := s.log.With(slog.String("op", op), slog.String("user_id", claims.Subject))

	userID := claims.Subject
	tier := claims.ResolveTier()

	release := s.ledger.AcquireUser(userID)
	defer release()

	if _, err := s.ledger.GetOrInit(ctx, userID, tier); err != nil {
		return nil, err
	}
	if err := s.ledger.CheckQuota(ctx, userID); err != nil {
		s.metrics.AnalysesTotal.WithLabelValues(string(tier), "quota_exceeded").Inc()
		return nil, err
	}

	ext, err := upload.MatchExtension(filename)
	if err != nil {
		s.metrics.AnalysesTotal.WithLabelValues(string(tier), "invalid_file_type").Inc()
		return nil, err
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	size := int64(len(content))

	if err := upload.CheckSize(size); err != nil {
		s.metrics.AnalysesTotal.WithLabelValues(string(tier), "file_too_large").Inc()
		return nil, err
	}

	mimeType := upload.MimeType(ext)

	description, err := s.describe(ctx, log, content, mimeType)
	if err != nil {
		s.metrics.AnalysesTotal.WithLabelValues(string(tier), "provider_error").Inc()
		return nil, &models.ProviderError{Err: err}
	}

	used, err := s.ledger.Increment(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.metrics.AnalysesTotal.WithLabelValues(string(tier), "success").Inc()
	log.Info("image analyzed", slog.String("mime_type", mimeType), slog.Int64("size_bytes", size))

	result := &Result{
		Analysis: description,
		Usage: Usage{
			Tier:         tier,
			AnalysesUsed: used,
			Limit:        UnlimitedLabel,
			Remaining:    UnlimitedLabel,
		},
		ImageInfo: ImageInfo{
			Filename: filename,
			SizeKB:   models.Round2(float64(size) / 1024),
			Type:     mimeType,
		},
	}
	if tier != models.TierPremium {
		result.Usage.Limit = models.FreeTierLimit
		result.Usage.Remaining = models.FreeTierLimit - used
	}
	return result, nil
}

// describe возвращает описание изображения из кеша либо от модели.
// Ошибки кеша не фатальны: запрос уходит в модель, а сбой логируется.
func (s *Service) describe(ctx context.Context, log *slog.Logger, content []byte, mimeType string) (string, error) {
	if s.provider == nil {
		return "", errors.New("vision provider is not configured")
	}

	cacheKey := fmt.Sprintf("analysis:%s:%x", mimeType, sha256.Sum256(content))
	if s.cache != nil {
		var cached string
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			log.Warn("failed to read analysis cache", sl.Err(err))
		} else if found {
			log.Info("analysis served from cache")
			return cached, nil
		}
	}

	start := time.Now()
	description, err := s.provider.Describe(ctx, content, mimeType)
	s.metrics.ProviderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, description, cacheTTL); err != nil {
			log.Warn("failed to cache analysis", sl.Err(err))
		}
	}
	return description, nil
}

// Usage возвращает текущее использование без изменения состояния.
// Уровень берётся только из метаданных токена, без переопределения
// по плану подписки.
func (s *Service) Usage(ctx context.Context, claims *clerk.Claims) (*UsageInfo, error) {
	tier := claims.MetadataTier()

	record, err := s.ledger.Peek(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	info := &UsageInfo{
		UserID:       claims.Subject,
		Tier:         tier,
		AnalysesUsed: record.AnalysesUsed,
		Limit:        UnlimitedLabel,
	}
	if tier != models.TierPremium {
		info.Limit = models.FreeTierLimit
	}
	return info, nil
}
