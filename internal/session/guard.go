package session

import (
	"context"
	"net/http"
	"slices"

	apperrors "assetshare/pkg/errors"
	httputil "assetshare/pkg/http"
	"assetshare/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type userKey struct{}

// Guard wraps a route with a session check; Session.Require is one.
type Guard func(next httprouter.Handle, roles ...model.Role) httprouter.Handle

func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the user placed by Require, or nil.
func UserFromContext(ctx context.Context) *model.User {
	u, _ := ctx.Value(userKey{}).(*model.User)
	return u
}

// Require guards a route: 401 without a session, 403 when the user's role
// is not among roles. No roles means any signed-in user.
func (s *Session) Require(next httprouter.Handle, roles ...model.Role) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		user := s.CurrentUser(r.Context())
		if user == nil {
			if err := httputil.WriteError(w, apperrors.Unauthorized("Please sign in to continue")); err != nil {
				s.log.Error("failed to write error response", "handler", "Require", "operation", "WriteError", "error", err)
			}
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, user.Role) {
			if err := httputil.WriteError(w, apperrors.Forbidden("You do not have access to this page")); err != nil {
				s.log.Error("failed to write error response", "handler", "Require", "operation", "WriteError", "error", err)
			}
			return
		}
		next(w, r.WithContext(WithUser(r.Context(), user)), ps)
	}
}
