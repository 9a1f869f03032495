// Package clerk проверяет JWT-токены Clerk через JWKS-эндпоинт
// и извлекает из них claims, необходимые для определения уровня подписки.
package clerk

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/ai-vision-service/internal/models"
)

// Claims расшифрованный и проверенный payload токена для одного запроса.
// Subject обязателен, остальные поля опциональны и по умолчанию пусты.
type Claims struct {
	Subject          string        // идентификатор пользователя (sub)
	SubscriptionTier string        // public_metadata.subscription_tier
	Plan             string        // subscription.plan
	Raw              jwt.MapClaims // полный набор claims токена
}

func claimsFromMap(mc jwt.MapClaims) *Claims {
	claims := &Claims{
		Subject: readString(mc, "sub"),
		Raw:     mc,
	}
	if meta, ok := mc["public_metadata"].(map[string]any); ok {
		if tier, ok := meta["subscription_tier"].(string); ok {
			claims.SubscriptionTier = tier
		}
	}
	if sub, ok := mc["subscription"].(map[string]any); ok {
		if plan, ok := sub["plan"].(string); ok {
			claims.Plan = plan
		}
	}
	return claims
}

// ResolveTier определяет уровень подписки для операции анализа.
// Берётся public_metadata.subscription_tier (по умолчанию free), но если
// subscription.plan содержит подстроку "premium" без учёта регистра,
// результат всегда premium, независимо от значения в метаданных.
func (c *Claims) ResolveTier() models.Tier {
	isPremiumPlan := strings.Contains(strings.ToLower(c.Plan), "premium")
	if c.SubscriptionTier == string(models.TierPremium) || isPremiumPlan {
		return models.TierPremium
	}
	return models.TierFree
}

// MetadataTier возвращает уровень подписки только из public_metadata,
// без переопределения по subscription.plan. Используется операцией
// проверки использования, которая исторически не учитывает план.
func (c *Claims) MetadataTier() models.Tier {
	if c.SubscriptionTier == "" {
		return models.TierFree
	}
	return models.Tier(c.SubscriptionTier)
}

func readString(mc jwt.MapClaims, key string) string {
	if s, ok := mc[key].(string); ok {
		return s
	}
	return ""
}
