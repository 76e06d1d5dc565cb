package article

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const contentTypeJSON = "application/json"

// Route binds a method and path pattern to a handler. Routes with a
// ContentType answer 415 to any other request body type; Owned routes run
// behind OwnerCtx.
type Route struct {
	Method      string
	Pattern     string
	ContentType string
	Owned       bool
	Handler     HandlerFunc
}

// Routes is the routing table of the article resource, in registration
// order.
func (h *Handler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Pattern: "/{id}", Handler: h.GetArticle},
		{Method: http.MethodGet, Pattern: "/", Handler: h.ListArticles},
		{Method: http.MethodDelete, Pattern: "/{id}", Owned: true, Handler: h.DeleteArticle},
		{Method: http.MethodPost, Pattern: "/", ContentType: contentTypeJSON, Handler: h.CreateArticle},
		{Method: http.MethodPatch, Pattern: "/{id}", ContentType: contentTypeJSON, Owned: true, Handler: h.UpdateArticle},
	}
}

// Router mounts the routing table on a fresh chi router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	for _, route := range h.Routes() {
		var mw []func(http.Handler) http.Handler
		if route.ContentType != "" {
			mw = append(mw, middleware.AllowContentType(route.ContentType))
		}
		if route.Owned {
			mw = append(mw, h.OwnerCtx)
		}

		r.With(mw...).Method(route.Method, route.Pattern, h.filter(route.Handler))
	}

	return r
}
