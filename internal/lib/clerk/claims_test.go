package clerk

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/ai-vision-service/internal/models"
)

func TestClaimsFromMap(t *testing.T) {
	mc := jwt.MapClaims{
		"sub": "user_123",
		"public_metadata": map[string]any{
			"subscription_tier": "premium",
		},
		"subscription": map[string]any{
			"plan": "Premium Monthly",
		},
	}

	claims := claimsFromMap(mc)
	assert.Equal(t, "user_123", claims.Subject)
	assert.Equal(t, "premium", claims.SubscriptionTier)
	assert.Equal(t, "Premium Monthly", claims.Plan)
}

func TestClaimsFromMap_MissingFields(t *testing.T) {
	claims := claimsFromMap(jwt.MapClaims{"sub": "user_123"})
	assert.Equal(t, "user_123", claims.Subject)
	assert.Empty(t, claims.SubscriptionTier)
	assert.Empty(t, claims.Plan)
}

func TestResolveTier(t *testing.T) {
	tests := []struct {
		name     string
		tier     string
		plan     string
		expected models.Tier
	}{
		{name: "без метаданных и плана", expected: models.TierFree},
		{name: "явный premium в метаданных", tier: "premium", expected: models.TierPremium},
		{name: "явный free в метаданных", tier: "free", expected: models.TierFree},
		{name: "план перекрывает free из метаданных", tier: "free", plan: "Premium Monthly", expected: models.TierPremium},
		{name: "подстрока premium без учёта регистра", plan: "PREMIUM annual", expected: models.TierPremium},
		{name: "план без premium", plan: "basic", expected: models.TierFree},
		{name: "неизвестный уровень в метаданных", tier: "gold", expected: models.TierFree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &Claims{SubscriptionTier: tt.tier, Plan: tt.plan}
			assert.Equal(t, tt.expected, claims.ResolveTier())
		})
	}
}

func TestMetadataTier(t *testing.T) {
	// Операция проверки использования не учитывает subscription.plan.
	claims := &Claims{SubscriptionTier: "free", Plan: "Premium Monthly"}
	assert.Equal(t, models.TierFree, claims.MetadataTier())

	claims = &Claims{SubscriptionTier: "premium"}
	assert.Equal(t, models.TierPremium, claims.MetadataTier())

	claims = &Claims{}
	assert.Equal(t, models.TierFree, claims.MetadataTier())
}
