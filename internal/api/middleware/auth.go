package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/AmeyaMprojects/pilot-brief/internal/api/models"
	"github.com/AmeyaMprojects/pilot-brief/internal/auth"
)

type operatorKey struct{}

// TokenAuthorizer validates an operator token for a scope.
type TokenAuthorizer interface {
	Authorize(token, scope string) (*auth.Claims, error)
}

// OperatorAuth requires a bearer operator token granting scope.
// Missing or invalid tokens get 401, a valid token without the scope gets 403.
func OperatorAuth(tokens TokenAuthorizer, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, detail := bearerToken(r)
			if detail != "" {
				writeAuthProblem(w, r, models.NewUnauthorized(GetRequestID(r.Context()), detail))
				return
			}

			claims, err := tokens.Authorize(token, scope)
			if err != nil {
				traceID := GetRequestID(r.Context())
				switch {
				case errors.Is(err, auth.ErrInsufficientScope):
					writeAuthProblem(w, r, models.NewForbidden(traceID, "token does not grant "+scope))
				case errors.Is(err, auth.ErrTokenExpired):
					writeAuthProblem(w, r, models.NewUnauthorized(traceID, "operator token has expired"))
				default:
					writeAuthProblem(w, r, models.NewUnauthorized(traceID, "invalid operator token"))
				}
				return
			}

			ctx := context.WithValue(r.Context(), operatorKey{}, claims.Operator())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token, or returns a problem detail.
func bearerToken(r *http.Request) (string, string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", "missing authorization header"
	}

	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "invalid authorization header format"
	}

	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", "missing bearer token"
	}
	return token, ""
}

// writeAuthProblem writes the problem directly; the response package imports
// this one.
func writeAuthProblem(w http.ResponseWriter, r *http.Request, problem *models.Problem) {
	if problem.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="pilot-brief-admin"`)
	}
	problem.Instance = r.URL.Path
	problem.Write(w)
}

// GetOperator returns the authenticated operator name, or "" when the
// request did not pass OperatorAuth.
func GetOperator(ctx context.Context) string {
	if name, ok := ctx.Value(operatorKey{}).(string); ok {
		return name
	}
	return ""
}
