package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Виды токенов. Refresh-токен не должен проходить как access и наоборот.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// Claims — полезная нагрузка JWT MedMonitor.
type Claims struct {
	UserID int64  `json:"uid"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

// NewToken выпускает подписанный HS256 токен указанного вида.
func NewToken(userID int64, kind, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// NewTokenPair выпускает пару access/refresh. Пара всегда выпускается вместе.
func NewTokenPair(userID int64, secret string, accessTTL, refreshTTL time.Duration) (access, refresh string, err error) {
	access, err = NewToken(userID, TokenKindAccess, secret, accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}
	refresh, err = NewToken(userID, TokenKindRefresh, secret, refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("sign refresh token: %w", err)
	}
	return access, refresh, nil
}

// ParseToken проверяет подпись/срок и требует совпадения вида токена.
func ParseToken(tokenString, kind, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("token kind %q, want %q", claims.Kind, kind)
	}
	return claims, nil
}

// BearerToken достаёт голый токен из заголовка Authorization.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// WithAuth кладёт user_id в контекст запроса, если пришёл валидный access-токен.
// Запрос без токена (или с невалидным) проходит дальше анонимным —
// решение «401 или нет» принимает хендлер.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := BearerToken(r); raw != "" {
				if claims, err := ParseToken(raw, TokenKindAccess, secret); err == nil {
					ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserIDFromContext возвращает user_id, положенный WithAuth.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
