package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const userContextKey contextKey = "user"

var errMissingToken = errors.New("missing bearer token")

// Authenticator проверяет HS256 bearer-токены административного API.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// tokenQueryParam используется там, где клиент не может выставить заголовок:
// PSS-консоли и push-подписка Pub/Sub.
const tokenQueryParam = "token"

func bearerToken(r *http.Request, allowQuery bool) (string, error) {
	header := r.Header.Get("Authorization")
	if tokenString, ok := strings.CutPrefix(header, "Bearer "); ok && tokenString != "" {
		return tokenString, nil
	}
	if allowQuery {
		if tokenString := r.URL.Query().Get(tokenQueryParam); tokenString != "" {
			return tokenString, nil
		}
	}
	return "", errMissingToken
}

func (a *Authenticator) parse(r *http.Request, allowQuery bool) (jwt.MapClaims, error) {
	tokenString, err := bearerToken(r, allowQuery)
	if err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Authenticate пропускает запрос дальше только с валидным токеном; claims кладутся в контекст.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return a.authenticate(next, false)
}

// AuthenticateStream как Authenticate, но принимает токен и из ?token=.
func (a *Authenticator) AuthenticateStream(next http.Handler) http.Handler {
	return a.authenticate(next, true)
}

func (a *Authenticator) authenticate(next http.Handler, allowQuery bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.parse(r, allowQuery)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="tkd-competition"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize требует одну из ролей в claim "role". Используется после Authenticate.
func Authorize(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, err := GetUserRoleFromContext(r.Context())
			if err != nil {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			for _, role := range roles {
				if role == userRole {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}
