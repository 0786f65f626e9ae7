package authn

import (
	"context"
	"net/http"
)

// Result is what the middleware binds to the request context: either a
// resolved principal or the typed error that prevented one. Carrying the
// error instead of rejecting lets anonymous-tolerant routes proceed while
// guarded routes render it later.
type Result struct {
	Principal *Principal
	Err       error
}

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "authn context value " + k.name
}

var resultKey = &contextKey{"Result"}

// WithResult returns a context carrying the authentication result.
func WithResult(ctx context.Context, res Result) context.Context {
	return context.WithValue(ctx, resultKey, res)
}

// ResultFrom returns the authentication result bound to the context, if any.
func ResultFrom(ctx context.Context) (Result, bool) {
	res, ok := ctx.Value(resultKey).(Result)
	return res, ok
}

// PrincipalFrom returns the authenticated principal for the request, or the
// deferred error when authentication did not produce one.
func PrincipalFrom(r *http.Request) (*Principal, error) {
	res, ok := ResultFrom(r.Context())
	if !ok {
		return nil, ErrForbidden{Reason: "no authentication result on request"}
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Principal == nil {
		return nil, ErrForbidden{Reason: "no credential presented"}
	}
	return res.Principal, nil
}
