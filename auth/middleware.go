package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/leadflowhq/LeadFlow/models"
)

type contextKey string

const accountKey contextKey = "account"

// BearerToken pulls the opaque session token out of the Authorization
// header. The admin UI sends it as "Bearer <token>".
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// AuthMiddleware guards admin endpoints. Unknown and expired tokens are
// rejected distinctly; only admin roles pass.
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := VerifySession(BearerToken(r))
		if err != nil {
			msg := "unauthorized"
			if err == ErrSessionExpired {
				msg = "session expired"
			}
			http.Error(w, msg, http.StatusUnauthorized)
			return
		}
		if account.Role != "admin" && account.Role != "super_admin" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		ctx := context.WithValue(r.Context(), accountKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireRole wraps a handler that only the given role may call.
func RequireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := AccountFromContext(r.Context())
		if account == nil || account.Role != role {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// WithAccount attaches an account the way AuthMiddleware does; used by
// handlers invoked outside the middleware chain (tests, internal calls).
func WithAccount(ctx context.Context, account *models.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

func AccountFromContext(ctx context.Context) *models.Account {
	account, _ := ctx.Value(accountKey).(*models.Account)
	return account
}
