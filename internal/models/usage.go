// Package models содержит общие доменные типы сервиса анализа изображений:
// уровни подписки, запись учёта использования и таксономию ошибок.
package models

// Tier уровень подписки пользователя, определяет квоту на анализы.
type Tier string

const (
	// TierFree бесплатный уровень, ограничен FreeTierLimit анализами.
	TierFree Tier = "free"
	// TierPremium платный уровень, без ограничений.
	TierPremium Tier = "premium"
)

// FreeTierLimit максимальное число анализов для бесплатного уровня
// за время жизни процесса.
const FreeTierLimit = 1

// UsageRecord запись учёта использования для одного пользователя.
// Запись создаётся при первом обращении и никогда не удаляется,
// счётчик AnalysesUsed только растёт.
type UsageRecord struct {
	Tier         Tier `json:"tier"`
	AnalysesUsed int  `json:"analyses_used"`
}
