package login

import (
	"github.com/go-chi/chi/v5"

	"github.com/cinecore/cine-auth/pkg/authn"
)

// WhitelistedPaths are the routes the auth middleware skips entirely.
var WhitelistedPaths = []string{"/users/signin", "/users/signup"}

// RegisterRoutes mounts the /users auth surface. Signin and signup are
// whitelisted from the middleware; reissue and signout validate their own
// token; update and delete require an authenticated principal.
func (h *Handle) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/signin", h.PostSignin)
		r.Post("/signup", h.PostSignup)
		r.Get("/reissue", h.GetReissue)
		r.Delete("/signout", h.DeleteSignout)

		r.Group(func(r chi.Router) {
			r.Use(authn.RequireAuth)
			r.Patch("/update", h.PatchUpdate)
			r.Delete("/delete", h.DeleteAccount)
		})
	})
}
