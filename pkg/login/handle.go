package login

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/cinecore/cine-auth/pkg/authn"
	"github.com/cinecore/cine-auth/pkg/token"
	"github.com/cinecore/cine-auth/pkg/user"
)

// RefreshCookieMaxAge is the refresh cookie lifetime: 14 days, matching the
// refresh-token TTL.
const RefreshCookieMaxAge = 14 * 24 * 60 * 60

type SigninRequest struct {
	UserEmail string `json:"userEmail"`
	UserPw    string `json:"userPw"`
}

type SignupRequest struct {
	UserEmail string `json:"userEmail"`
	UserPw    string `json:"userPw"`
	UserName  string `json:"userName,omitempty"`
	Alias     string `json:"alias,omitempty"`
	PhoneNum  string `json:"phoneNum,omitempty"`
}

type UpdateRequest struct {
	UserPw   string `json:"userPw,omitempty"`
	UserName string `json:"userName,omitempty"`
	Alias    string `json:"alias,omitempty"`
	PhoneNum string `json:"phoneNum,omitempty"`
}

type Message struct {
	Message string `json:"message"`
}

// Handle serves the /users auth surface: signin, signup, reissue, signout,
// plus the authenticated profile update and account deletion.
type Handle struct {
	users          *user.Service
	tokens         *token.Service
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

func NewHandle(users *user.Service, tokens *token.Service, options ...Option) *Handle {
	h := &Handle{
		users:          users,
		tokens:         tokens,
		cookieHttpOnly: true,
	}
	for _, option := range options {
		option(h)
	}
	return h
}

func (h *Handle) setRefreshCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     token.RefreshTokenName,
		Path:     "/",
		Value:    value,
		MaxAge:   RefreshCookieMaxAge,
		HttpOnly: h.cookieHttpOnly,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// PostSignin verifies credentials and mints the token pair: access token in
// the response header, refresh token in an HttpOnly cookie. A malformed body
// and a wrong password produce the same response on purpose.
// (POST /users/signin)
func (h *Handle) PostSignin(w http.ResponseWriter, r *http.Request) {
	var data SigninRequest
	if err := render.DecodeJSON(r.Body, &data); err != nil {
		slog.Info("Invalid signin request format", "err", err)
		authn.WriteError(w, r, authn.ErrInvalidLogin{})
		return
	}

	u, err := h.users.GetByEmail(r.Context(), data.UserEmail)
	if err != nil {
		slog.Info("Signin failed: unknown email", "err", err)
		authn.WriteError(w, r, authn.ErrInvalidLogin{})
		return
	}

	valid, err := user.CheckPasswordHash(data.UserPw, u.Password)
	if err != nil || !valid {
		slog.Info("Signin failed: password mismatch", "email", data.UserEmail)
		authn.WriteError(w, r, authn.ErrInvalidLogin{})
		return
	}

	accessToken, err := h.tokens.Codec().CreateAccessToken(u.Email, u.ID, string(u.Role), token.CategoryAccess)
	if err != nil {
		authn.WriteError(w, r, err)
		return
	}
	refreshToken, err := h.tokens.Codec().CreateRefreshToken(r.Context(), u.Email, token.CategoryRefresh)
	if err != nil {
		authn.WriteError(w, r, err)
		return
	}

	w.Header().Set(token.AccessTokenName, accessToken)
	h.setRefreshCookie(w, refreshToken)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Message{Message: "signed in"})
}

// PostSignup registers a new identity record. The path is whitelisted from
// the auth middleware.
// (POST /users/signup)
func (h *Handle) PostSignup(w http.ResponseWriter, r *http.Request) {
	var data SignupRequest
	if err := render.DecodeJSON(r.Body, &data); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Message{Message: "unable to parse request body"})
		return
	}

	params := user.SignupParams{
		Email:    data.UserEmail,
		Password: data.UserPw,
		Role:     user.RoleUser,
		Name:     data.UserName,
		Alias:    data.Alias,
		Phone:    data.PhoneNum,
	}

	u, err := h.users.Signup(r.Context(), params)
	if err != nil {
		authn.WriteError(w, r, err)
		return
	}

	slog.Info("User signed up", "email", u.Email)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Message{Message: "signed up"})
}

// GetReissue mints a fresh access token from the refresh cookie and returns
// it in the response header.
// (GET /users/reissue)
func (h *Handle) GetReissue(w http.ResponseWriter, r *http.Request) {
	refreshToken := h.tokens.RefreshTokenFromRequest(r)

	accessToken, err := h.tokens.ReissueAccessToken(r.Context(), refreshToken)
	if err != nil {
		authn.WriteError(w, r, err)
		return
	}

	w.Header().Set(token.AccessTokenName, accessToken)
	render.JSON(w, r, Message{Message: "access token reissued"})
}

// DeleteSignout deletes the stored refresh token for the caller. Outstanding
// access tokens stay valid until they expire; they are short-lived so the
// gap is bounded.
// (DELETE /users/signout)
func (h *Handle) DeleteSignout(w http.ResponseWriter, r *http.Request) {
	accessToken := h.tokens.AccessTokenFromRequest(r)

	if err := h.tokens.RevokeRefreshToken(r.Context(), accessToken); err != nil {
		authn.WriteError(w, r, err)
		return
	}

	render.JSON(w, r, Message{Message: "signed out"})
}

// PatchUpdate applies profile changes for the authenticated principal.
// (PATCH /users/update)
func (h *Handle) PatchUpdate(w http.ResponseWriter, r *http.Request) {
	principal, err := authn.PrincipalFrom(r)
	if err != nil {
		authn.WriteError(w, r, err)
		return
	}

	var data UpdateRequest
	if err := render.DecodeJSON(r.Body, &data); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Message{Message: "unable to parse request body"})
		return
	}

	params := user.UpdateParams{
		Password: data.UserPw,
		Name:     data.UserName,
		Alias:    data.Alias,
		Phone:    data.PhoneNum,
	}
	if _, err := h.users.Update(r.Context(), principal.Email, params); err != nil {
		authn.WriteError(w, r, err)
		return
	}

	render.JSON(w, r, Message{Message: "user updated"})
}

// DeleteAccount removes the identity record, then revokes the refresh entry
// so the deleted account cannot mint new access tokens.
// (DELETE /users/delete)
func (h *Handle) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	principal, err := authn.PrincipalFrom(r)
	if err != nil {
		authn.WriteError(w, r, err)
		return
	}

	if err := h.users.Delete(r.Context(), principal.ID); err != nil {
		authn.WriteError(w, r, err)
		return
	}

	accessToken := h.tokens.AccessTokenFromRequest(r)
	if err := h.tokens.RevokeRefreshToken(r.Context(), accessToken); err != nil {
		slog.Error("Failed to revoke refresh token on account deletion", "email", principal.Email, "err", err)
	}

	render.JSON(w, r, Message{Message: "user deleted"})
}
