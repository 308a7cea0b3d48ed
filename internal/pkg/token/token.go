// Package token содержит вспомогательные функции для bearer токенов.
// Подпись не проверяется: шлюз не владеет секретом, токен проверяет backend.
package token

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/blake2b"
)

// Claims сведения из непроверенного токена, пригодные только для логов и ключей лимитов.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Expired истинна, если в токене указан exp и он уже прошёл.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// FromHeader возвращает токен из заголовка Authorization. Схема Bearer необязательна.
func FromHeader(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// Fingerprint короткий необратимый отпечаток токена для логов и ключей.
func Fingerprint(raw string) string {
	if raw == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:8])
}

// Parse извлекает клеймы без проверки подписи. ok=false для не-JWT токенов.
func Parse(raw string) (Claims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Claims{}, false
	}

	var out Claims
	for _, key := range []string{"sub", "id", "userId"} {
		if v, ok := claims[key].(string); ok && v != "" {
			out.Subject = v
			break
		}
	}
	if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, true
}
