// Package memory реализует учёт использования анализов в памяти процесса.
//
// Хранилище живёт ровно столько, сколько живёт процесс: записи создаются
// при первом обращении пользователя, никогда не удаляются и теряются при
// перезапуске. Это осознанное ограничение, а не дефект.
package memory

import (
	"context"
	"sync"

	"github.com/magabrotheeeer/ai-vision-service/internal/models"
)

type userEntry struct {
	opMu   sync.Mutex // сериализует проверку квоты и инкремент одного пользователя
	record models.UsageRecord
}

// Storage потокобезопасное in-memory хранилище записей использования.
// Записи разных пользователей независимы; для одного пользователя
// AcquireUser даёт взаимное исключение на время проверки и инкремента.
type Storage struct {
	mu    sync.Mutex // защищает map и поля record
	users map[string]*userEntry
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		users: make(map[string]*userEntry),
	}
}

func (s *Storage) entry(userID string) *userEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.users[userID]
	if !ok {
		e = &userEntry{}
		s.users[userID] = e
	}
	return e
}

// AcquireUser захватывает блокировку пользователя и возвращает функцию
// освобождения. Сервис держит её от проверки квоты до инкремента, чтобы
// два параллельных запроса бесплатного пользователя не прошли проверку
// одновременно.
func (s *Storage) AcquireUser(userID string) func() {
	e := s.entry(userID)
	e.opMu.Lock()
	return e.opMu.Unlock
}

// GetOrInit возвращает запись пользователя, создавая её с нулевым счётчиком
// при первом обращении. Уровень подписки существующей записи намеренно
// не обновляется: для квоты действует уровень на момент первого обращения,
// хотя ответы всегда сообщают свежеразрешённый уровень.
func (s *Storage) GetOrInit(_ context.Context, userID string, tier models.Tier) (models.UsageRecord, error) {
	e := s.entry(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.record.Tier == "" {
		e.record.Tier = tier
	}
	return e.record, nil
}

// CheckQuota возвращает models.ErrQuotaExceeded, если пользователь
// на бесплатном уровне уже израсходовал свою квоту. Premium не ограничен.
func (s *Storage) CheckQuota(_ context.Context, userID string) error {
	e := s.entry(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.record.Tier == models.TierFree && e.record.AnalysesUsed >= models.FreeTierLimit {
		return models.ErrQuotaExceeded
	}
	return nil
}

// Increment увеличивает счётчик анализов пользователя и возвращает
// новое значение. Вызывается только после успешного анализа.
func (s *Storage) Increment(_ context.Context, userID string) (int, error) {
	e := s.entry(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	e.record.AnalysesUsed++
	return e.record.AnalysesUsed, nil
}

// Peek возвращает снимок записи пользователя, не создавая её.
// Для неизвестного пользователя возвращается нулевая запись.
func (s *Storage) Peek(_ context.Context, userID string) (models.UsageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.users[userID]
	if !ok {
		return models.UsageRecord{}, nil
	}
	return e.record, nil
}
