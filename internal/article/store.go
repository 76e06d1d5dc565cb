package article

import (
	"context"
	"time"

	"github.com/SergeyParamoshkin/publisher/internal/model"
	"github.com/SergeyParamoshkin/publisher/internal/storage"
)

// Store is the persistence the handlers need. Listings return articles
// without their text.
type Store interface {
	Create(ctx context.Context, article *model.Article) (*model.Article, error)
	// Replace overwrites the article with the same id, inserting it when
	// there is none.
	Replace(ctx context.Context, article *model.Article) (*model.Article, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*model.Article, error)
	GetOwnerByID(ctx context.Context, id string) (*model.ArticleOwner, error)

	FindByAuthor(ctx context.Context, author string) (storage.Cursor, error)
	FindByKeyword(ctx context.Context, keyword string) (storage.Cursor, error)
	FindByPublishDateBetween(ctx context.Context, from, to time.Time) (storage.Cursor, error)
}

type Validator interface {
	Validate(article *model.Article) error
}
