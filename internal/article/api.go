package article

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/publisher/internal/articlerequest"
	"github.com/SergeyParamoshkin/publisher/internal/articleresponse"
	"github.com/SergeyParamoshkin/publisher/internal/errresponse"
	"github.com/SergeyParamoshkin/publisher/internal/identity"
	"github.com/SergeyParamoshkin/publisher/internal/model"
	"github.com/SergeyParamoshkin/publisher/internal/storage"
)

const DefaultBasePath = "/api/article"

// Handler serves the article resource.
type Handler struct {
	store     Store
	validator Validator
	logger    *zap.SugaredLogger
	location  *time.Location
	basePath  string
}

type Option func(*Handler)

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithLocation sets the zone listing dates are read in.
func WithLocation(loc *time.Location) Option {
	return func(h *Handler) {
		h.location = loc
	}
}

// WithBasePath sets the prefix used to build Location headers.
func WithBasePath(path string) Option {
	return func(h *Handler) {
		h.basePath = path
	}
}

func NewHandler(store Store, validator Validator, opts ...Option) *Handler {
	h := &Handler{
		store:     store,
		validator: validator,
		logger:    zap.NewNop().Sugar(),
		location:  time.Local,
		basePath:  DefaultBasePath,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// CreateArticle persists the posted Article on behalf of the caller and
// points the client at it.
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) error {
	principal, ok := identity.FromContext(r.Context())
	if !ok {
		return render.Render(w, r, errresponse.ErrUnauthenticated)
	}

	edit, err := articlerequest.Decode(r)
	if err != nil {
		return err
	}

	article := edit.ToArticle()
	article.Owner = principal

	if err := h.validator.Validate(article); err != nil {
		return err
	}

	created, err := h.store.Create(r.Context(), article)
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	if created == nil {
		return render.Render(w, r, errresponse.ErrUnprocessable)
	}

	w.Header().Set("Location", h.basePath+"/"+created.ID)
	w.WriteHeader(http.StatusCreated)

	return nil
}

// GetArticle returns the full Article. Reads are public.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) error {
	article, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) || (err == nil && article == nil) {
		return render.Render(w, r, errresponse.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get article: %w", err)
	}

	return render.Render(w, r, articleresponse.NewArticleResponse(article))
}

// UpdateArticle replaces the Article with the submission. It runs behind
// OwnerCtx, and the id and owner are kept from the stored article.
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) error {
	owner := ownerFromContext(r.Context())

	edit, err := articlerequest.Decode(r)
	if err != nil {
		return err
	}

	article := edit.ToArticle()
	article.ID = owner.ID
	article.Owner = owner.Owner

	if err := h.validator.Validate(article); err != nil {
		return err
	}

	replaced, err := h.store.Replace(r.Context(), article)
	if err != nil {
		return fmt.Errorf("replace article: %w", err)
	}
	if replaced == nil {
		return render.Render(w, r, errresponse.ErrUnprocessable)
	}

	w.WriteHeader(http.StatusOK)

	return nil
}

// DeleteArticle removes the Article. It runs behind OwnerCtx.
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) error {
	owner := ownerFromContext(r.Context())

	deleted, err := h.store.DeleteByID(r.Context(), owner.ID)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if !deleted {
		return render.Render(w, r, errresponse.ErrUnprocessable)
	}

	w.WriteHeader(http.StatusOK)

	return nil
}

// ListArticles streams the summaries matching the single filter picked by
// ResolveListing. Without any filter the answer is 204, not an empty list.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) error {
	criteria, err := ResolveListing(r.URL.Query(), h.location)
	if err != nil {
		return err
	}
	if criteria.Kind == CriteriaNone {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}

	ctx := r.Context()

	cur, err := h.find(ctx, criteria)
	if err != nil {
		return fmt.Errorf("list articles by %s: %w", criteria.Kind, err)
	}
	defer func() {
		if err := cur.Close(ctx); err != nil {
			h.logger.Warnw("close cursor", "error", err)
		}
	}()

	stream := articleresponse.NewListStream(w, r)
	if err := stream.Begin(); err != nil {
		return err
	}

	for cur.Next(ctx) {
		var article model.Article
		if err := cur.Decode(&article); err != nil {
			return fmt.Errorf("decode article: %w", err)
		}
		article.Text = ""

		if err := stream.Write(&article); err != nil {
			return err
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("list articles by %s: %w", criteria.Kind, err)
	}

	return stream.End()
}

func (h *Handler) find(ctx context.Context, c Criteria) (storage.Cursor, error) {
	switch c.Kind {
	case CriteriaAuthor:
		return h.store.FindByAuthor(ctx, c.Value)
	case CriteriaKeyword:
		return h.store.FindByKeyword(ctx, c.Value)
	case CriteriaPeriod:
		return h.store.FindByPublishDateBetween(ctx, c.From, c.To)
	default:
		return nil, fmt.Errorf("unsupported listing criteria %s", c.Kind)
	}
}
