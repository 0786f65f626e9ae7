package authn

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/cinecore/cine-auth/pkg/token"
	"github.com/cinecore/cine-auth/pkg/tokenstore"
	"github.com/cinecore/cine-auth/pkg/user"
)

// ErrorBody is the structured error payload every auth failure renders.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError is the single place auth failures become HTTP responses. The
// middleware defers errors rather than rendering them; guards and handlers
// hand them here.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := mapError(err)
	if status >= http.StatusInternalServerError {
		slog.Error("Auth failure", "path", r.URL.Path, "err", err)
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}

func mapError(err error) (int, ErrorBody) {
	var (
		invalidLogin    ErrInvalidLogin
		forbidden       ErrForbidden
		unauthorized    ErrUnauthorizedUser
		invalidToken    token.ErrInvalidToken
		invalidCategory token.ErrInvalidTokenCategory
		malformed       token.ErrTokenMalformed
		valueNotFound   tokenstore.ErrValueNotFound
		userNotFound    user.ErrUserNotFound
		emailExists     user.ErrEmailAlreadyExists
	)

	switch {
	case errors.As(err, &invalidLogin):
		return http.StatusUnauthorized, ErrorBody{Code: "INVALID_LOGIN", Message: invalidLogin.Error()}
	case errors.As(err, &invalidCategory):
		return http.StatusUnauthorized, ErrorBody{Code: "INVALID_TOKEN_CATEGORY", Message: invalidCategory.Error()}
	case errors.As(err, &invalidToken):
		return http.StatusBadRequest, ErrorBody{Code: "INVALID_TOKEN", Message: invalidToken.Error()}
	case errors.As(err, &malformed):
		return http.StatusUnauthorized, ErrorBody{Code: "INVALID_TOKEN", Message: "malformed token"}
	case errors.As(err, &valueNotFound):
		return http.StatusNotFound, ErrorBody{Code: "REFRESH_TOKEN_NOT_FOUND", Message: valueNotFound.Error()}
	case errors.As(err, &userNotFound):
		return http.StatusNotFound, ErrorBody{Code: "USER_NOT_FOUND", Message: userNotFound.Error()}
	case errors.As(err, &emailExists):
		return http.StatusConflict, ErrorBody{Code: "EMAIL_ALREADY_EXISTS", Message: emailExists.Error()}
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized, ErrorBody{Code: "UNAUTHORIZED_USER", Message: unauthorized.Error()}
	case errors.As(err, &forbidden):
		return http.StatusForbidden, ErrorBody{Code: "FORBIDDEN", Message: forbidden.Error()}
	default:
		// Store or database outage: fatal, never a silent fallback.
		return http.StatusInternalServerError, ErrorBody{Code: "INTERNAL_ERROR", Message: "internal server error"}
	}
}
