package server

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/simonvc/homeledger/internal/session"
)

// authenticate resolves the bearer token to an owner id and stores it in the
// request context. Handlers read it back with session.OwnerID.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := session.FromHeader(r.Header.Get("Authorization"))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		owner, err := session.Parse(s.secret, token)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("owner_id", owner)
		})
		next.ServeHTTP(w, r.WithContext(session.WithOwner(r.Context(), owner)))
	})
}
