package oauth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/cinecore/cine-auth/pkg/authn"
	"github.com/cinecore/cine-auth/pkg/token"
)

// AccessCookieMaxAge bounds the OAuth access cookie at one hour.
const AccessCookieMaxAge = 60 * 60

// RefreshCookieMaxAge matches the refresh-token TTL of 14 days.
const RefreshCookieMaxAge = 14 * 24 * 60 * 60

// WhitelistedPathPrefix is the route subtree the auth middleware skips.
const WhitelistedPathPrefix = "/oauth"

// Handle terminates the provider login flow. Unlike local signin, both
// tokens are delivered as cookies: the browser arrives here on a redirect,
// so there is no client reading response headers.
type Handle struct {
	service        *Service
	cookieHttpOnly bool
	cookieSecure   bool
}

// Option configures a Handle.
type Option func(*Handle)

// WithCookieHttpOnly controls the HttpOnly flag on token cookies.
func WithCookieHttpOnly(httpOnly bool) Option {
	return func(h *Handle) {
		h.cookieHttpOnly = httpOnly
	}
}

// WithCookieSecure controls the Secure flag on token cookies.
func WithCookieSecure(secure bool) Option {
	return func(h *Handle) {
		h.cookieSecure = secure
	}
}

func NewHandle(service *Service, options ...Option) *Handle {
	h := &Handle{
		service:        service,
		cookieHttpOnly: true,
	}
	for _, option := range options {
		option(h)
	}
	return h
}

// RegisterRoutes mounts the provider callback endpoints.
func (h *Handle) RegisterRoutes(r chi.Router) {
	r.Route(WhitelistedPathPrefix, func(r chi.Router) {
		r.Post("/{provider}/signin", h.PostProviderSignin)
	})
}

// PostProviderSignin accepts the verified userinfo payload for a provider,
// reconciles it with the local records, and sets both token cookies.
// (POST /oauth/{provider}/signin)
func (h *Handle) PostProviderSignin(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	var attributes map[string]interface{}
	if err := render.DecodeJSON(r.Body, &attributes); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"message": "unable to parse provider payload"})
		return
	}

	var (
		pu  ProviderUser
		err error
	)
	switch provider {
	case "google":
		pu, err = GoogleUser(attributes)
	case "naver":
		pu, err = NaverUser(attributes)
	default:
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"message": "unknown provider: " + provider})
		return
	}
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"message": err.Error()})
		return
	}

	u, pair, err := h.service.SignIn(r.Context(), pu)
	if err != nil {
		authn.WriteError(w, r, err)
		return
	}

	h.setCookie(w, token.AccessTokenName, pair.AccessToken, AccessCookieMaxAge)
	h.setCookie(w, token.RefreshTokenName, pair.RefreshToken, RefreshCookieMaxAge)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, u)
}

func (h *Handle) setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Path:     "/",
		Value:    value,
		MaxAge:   maxAge,
		HttpOnly: h.cookieHttpOnly,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
