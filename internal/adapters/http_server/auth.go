package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"staybook/internal/domain"
)

// Authenticator turns a bearer JWT into a domain.Actor. It only extracts
// identity; authorization decisions stay with the services.
type Authenticator struct{ secret []byte }

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

type ctxKey int

const actorKey ctxKey = iota

// Sign issues a token for the given actor. Used by the seeder output and
// by tests; the service itself has no login endpoint.
func (a *Authenticator) Sign(actor domain.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(actor.UserID, 10),
		"role": string(actor.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.secret, nil
		})
		if err != nil || !tok.Valid {
			writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid token")
			return
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid claims")
			return
		}
		sub, _ := claims["sub"].(string)
		uid, err := strconv.ParseInt(sub, 10, 64)
		if err != nil || uid <= 0 {
			writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid subject")
			return
		}
		role, _ := claims["role"].(string)
		actor := domain.Actor{UserID: uid, Role: domain.Role(role)}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
	})
}

func actorFrom(ctx context.Context) (domain.Actor, bool) {
	a, ok := ctx.Value(actorKey).(domain.Actor)
	return a, ok
}
