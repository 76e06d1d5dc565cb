package article

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/publisher/internal/errresponse"
)

// HandlerFunc handles a request and raises what it cannot turn into an
// outcome itself.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// filter translates the errors raised by fn into responses. Once fn has
// started the response the error can only be logged.
func (h *Handler) filter(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		err := fn(ww, r)
		if err == nil {
			return
		}

		reqID := middleware.GetReqID(r.Context())

		if ww.Status() != 0 {
			h.logger.Errorw("request failed after response started",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"error", err,
			)

			return
		}

		resp := errresponse.FromError(err)
		if resp.HTTPStatusCode >= http.StatusInternalServerError {
			h.logger.Errorw("request failed",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)
		} else {
			h.logger.Debugw("request rejected",
				"request_id", reqID,
				"status", resp.HTTPStatusCode,
				"error", err,
			)
		}

		if err := render.Render(ww, r, resp); err != nil {
			h.logger.Errorw(err.Error())
		}
	}
}
