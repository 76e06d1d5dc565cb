package article

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/publisher/internal/errresponse"
	"github.com/SergeyParamoshkin/publisher/internal/identity"
	"github.com/SergeyParamoshkin/publisher/internal/model"
	"github.com/SergeyParamoshkin/publisher/internal/storage"
)

type ctxKey int8

const ctxKeyOwner ctxKey = iota

// OwnerCtx middleware loads the owner projection of the article named in
// the URL and lets the request through only for its owner. A missing
// article stops here with a 404, anyone else gets a 403.
func (h *Handler) OwnerCtx(next http.Handler) http.Handler {
	return h.filter(func(w http.ResponseWriter, r *http.Request) error {
		owner, err := h.store.GetOwnerByID(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) || (err == nil && owner == nil) {
			return render.Render(w, r, errresponse.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get article owner: %w", err)
		}

		principal, _ := identity.FromContext(r.Context())
		if !owner.IsOwnedBy(principal) {
			return render.Render(w, r, errresponse.ErrForbidden)
		}

		ctx := context.WithValue(r.Context(), ctxKeyOwner, owner)
		next.ServeHTTP(w, r.WithContext(ctx))

		return nil
	})
}

// ownerFromContext returns the projection put on the context by OwnerCtx.
// The handlers behind OwnerCtx may assume it is there; if it is not due to
// a bug, the Recoverer will save us.
func ownerFromContext(ctx context.Context) *model.ArticleOwner {
	// nolint
	return ctx.Value(ctxKeyOwner).(*model.ArticleOwner)
}
