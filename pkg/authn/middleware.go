package authn

import (
	"log/slog"
	"net/http"

	"github.com/cinecore/cine-auth/pkg/token"
	"github.com/cinecore/cine-auth/pkg/user"
)

// Middleware authenticates every request passing through it and binds a
// Result to the request context. It never writes a response and never halts
// the chain: a missing or invalid credential is deferred as a typed error
// for the route's guards (or the handler itself) to act on. Paths in
// skipPaths bypass authentication entirely.
func Middleware(tokens *token.Service, skipPaths ...string) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			// Header first, then the cookie the OAuth flow uses.
			tokenStr := tokens.AccessTokenFromRequest(r)
			if tokenStr == "" {
				slog.Info("Request without access token", "path", r.URL.Path)
				res := Result{Err: ErrForbidden{Reason: "access token is not present"}}
				next.ServeHTTP(w, r.WithContext(WithResult(r.Context(), res)))
				return
			}

			principal, err := resolvePrincipal(tokens, r, tokenStr)
			if err != nil {
				slog.Error("Failed to authenticate request", "path", r.URL.Path, "err", err)
				res := Result{Err: err}
				next.ServeHTTP(w, r.WithContext(WithResult(r.Context(), res)))
				return
			}

			res := Result{Principal: principal}
			next.ServeHTTP(w, r.WithContext(WithResult(r.Context(), res)))
		})
	}
}

func resolvePrincipal(tokens *token.Service, r *http.Request, tokenStr string) (*Principal, error) {
	u, err := tokens.UserFromAccessToken(r.Context(), tokenStr)
	if err != nil {
		return nil, err
	}

	local, err := tokens.HasCategory(tokenStr, token.CategoryAccess)
	if err != nil {
		return nil, err
	}

	kind := KindOAuth
	if local {
		kind = KindLocal
	}
	return &Principal{
		Kind:  kind,
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
	}, nil
}

// RequireAuth is the terminal guard for routes that do not tolerate
// anonymous access. It renders the deferred error through the centralized
// error mapping.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := PrincipalFrom(r); err != nil {
			WriteError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole guards a route with a role check on top of RequireAuth
// semantics. Must be used below Middleware.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := PrincipalFrom(r)
			if err != nil {
				WriteError(w, r, err)
				return
			}
			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			slog.Warn("User lacks required role",
				"email", principal.Email,
				"role", principal.Role,
				"requiredRoles", roles)
			WriteError(w, r, ErrUnauthorizedUser{Reason: "insufficient role"})
		})
	}
}
