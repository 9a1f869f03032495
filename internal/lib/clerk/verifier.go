package clerk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

const defaultLeeway = 30 * time.Second

// Verifier проверяет подпись и срок действия JWT по ключам JWKS-эндпоинта.
type Verifier struct {
	keyfunc keyfunc.Keyfunc
	parser  *jwt.Parser
}

// NewVerifier создаёт Verifier для заданного JWKS URL.
// Ключи загружаются и обновляются фоново средствами keyfunc.
func NewVerifier(jwksURL string) (*Verifier, error) {
	if jwksURL == "" {
		return nil, errors.New("jwks url must be set")
	}

	keyProvider, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to init JWKS keyfunc: %w", err)
	}

	parser := jwt.NewParser(
		jwt.WithLeeway(defaultLeeway),
		jwt.WithValidMethods([]string{
			jwt.SigningMethodRS256.Name,
			jwt.SigningMethodRS384.Name,
			jwt.SigningMethodRS512.Name,
		}),
	)

	return &Verifier{
		keyfunc: keyProvider,
		parser:  parser,
	}, nil
}

// Verify разбирает и проверяет токен, возвращает извлечённые claims.
func (v *Verifier) Verify(_ context.Context, tokenString string) (*Claims, error) {
	token, err := v.parser.Parse(tokenString, v.keyfunc.Keyfunc)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	claims := claimsFromMap(mapClaims)
	if claims.Subject == "" {
		return nil, errors.New("token missing sub")
	}
	return claims, nil
}
