// Package memstore keeps articles in process memory. It is the default
// backend for development and the backend used by handler tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/publisher/internal/model"
	"github.com/SergeyParamoshkin/publisher/internal/storage"
)

type Store struct {
	mu       sync.RWMutex
	articles []*model.Article
	logger   *zap.SugaredLogger
	newID    func() string
}

type Option func(*Store)

// WithLogger sets the logger used for debug output of store operations.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithIDGenerator replaces the uuid based id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

func New(options ...Option) *Store {
	s := &Store{
		logger: zap.NewNop().Sugar(),
		newID:  func() string { return uuid.NewString() },
	}
	for _, option := range options {
		option(s)
	}

	return s
}

func (s *Store) Create(_ context.Context, article *model.Article) (*model.Article, error) {
	a := clone(article)
	a.ID = s.newID()

	s.mu.Lock()
	s.articles = append(s.articles, a)
	s.mu.Unlock()

	s.logger.Debugw("article created", "id", a.ID, "owner", a.Owner)

	return clone(a), nil
}

// Replace overwrites the article with the same id, or inserts it.
func (s *Store) Replace(_ context.Context, article *model.Article) (*model.Article, error) {
	a := clone(article)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.articles {
		if existing.ID == a.ID {
			s.articles[i] = a
			s.logger.Debugw("article replaced", "id", a.ID)

			return clone(a), nil
		}
	}
	s.articles = append(s.articles, a)
	s.logger.Debugw("article upserted", "id", a.ID)

	return clone(a), nil
}

func (s *Store) DeleteByID(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.articles {
		if a.ID == id {
			s.articles = append(s.articles[:i], s.articles[i+1:]...)
			s.logger.Debugw("article deleted", "id", id)

			return true, nil
		}
	}

	return false, nil
}

func (s *Store) GetByID(_ context.Context, id string) (*model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.ID == id {
			return clone(a), nil
		}
	}

	return nil, storage.ErrNotFound
}

func (s *Store) GetOwnerByID(_ context.Context, id string) (*model.ArticleOwner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.ID == id {
			return &model.ArticleOwner{ID: a.ID, Owner: a.Owner}, nil
		}
	}

	return nil, storage.ErrNotFound
}

func (s *Store) FindByAuthor(_ context.Context, author string) (storage.Cursor, error) {
	return s.find(func(a *model.Article) bool { return contains(a.Authors, author) }), nil
}

func (s *Store) FindByKeyword(_ context.Context, keyword string) (storage.Cursor, error) {
	return s.find(func(a *model.Article) bool { return contains(a.Keywords, keyword) }), nil
}

// FindByPublishDateBetween matches publish dates strictly inside (from, to).
func (s *Store) FindByPublishDateBetween(_ context.Context, from, to time.Time) (storage.Cursor, error) {
	return s.find(func(a *model.Article) bool {
		return a.PublishDate.After(from) && a.PublishDate.Before(to)
	}), nil
}

// find snapshots the matching articles without their text.
func (s *Store) find(match func(*model.Article) bool) storage.Cursor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.Article
	for _, a := range s.articles {
		if match(a) {
			summary := clone(a)
			summary.Text = ""
			result = append(result, summary)
		}
	}

	return storage.NewSliceCursor(result)
}

func clone(a *model.Article) *model.Article {
	c := *a
	c.Authors = append([]string(nil), a.Authors...)
	c.Keywords = append([]string(nil), a.Keywords...)

	return &c
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}

	return false
}
