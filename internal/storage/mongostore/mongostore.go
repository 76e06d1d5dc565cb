// Package mongostore stores articles as MongoDB documents.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/publisher/internal/model"
	"github.com/SergeyParamoshkin/publisher/internal/storage"
)

const (
	defaultCollection = "article"
	fieldID           = "_id"
	fieldOwner        = "owner"
	fieldText         = "text"
	fieldAuthors      = "authors"
	fieldKeywords     = "keywords"
	fieldPublishDate  = "publishDate"
)

var (
	// ownerProjection keeps _id and owner only.
	ownerProjection = bson.D{{Key: fieldOwner, Value: 1}}
	// summaryProjection drops the text of listed articles.
	summaryProjection = bson.D{{Key: fieldText, Value: 0}}
)

type Store struct {
	client     *mongo.Client
	coll       *mongo.Collection
	collection string
	logger     *zap.SugaredLogger
}

type Option func(*Store)

func WithCollection(name string) Option {
	return func(s *Store) {
		s.collection = name
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Connect dials uri, selects database and makes sure the listing indexes
// exist.
func Connect(ctx context.Context, uri, database string, opts ...Option) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := New(client.Database(database), opts...)
	s.client = client

	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return s, nil
}

// New builds a store on an already connected database.
func New(db *mongo.Database, opts ...Option) *Store {
	s := &Store{
		collection: defaultCollection,
		logger:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.coll = db.Collection(s.collection)

	return s
}

// EnsureIndexes creates the indexes backing the listing queries.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: fieldAuthors, Value: 1}}},
		{Keys: bson.D{{Key: fieldKeywords, Value: 1}}},
		{Keys: bson.D{{Key: fieldPublishDate, Value: 1}}},
	}
	if _, err := s.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("mongo: failed to create indexes for %s: %w", s.collection, err)
	}

	return nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}

	return s.client.Disconnect(ctx)
}

func (s *Store) Create(ctx context.Context, article *model.Article) (*model.Article, error) {
	a := *article
	a.ID = bson.NewObjectID().Hex()

	if _, err := s.coll.InsertOne(ctx, &a); err != nil {
		return nil, fmt.Errorf("insert article: %w", err)
	}
	s.logger.Debugw("article created", "id", a.ID, "owner", a.Owner)

	return &a, nil
}

func (s *Store) Replace(ctx context.Context, article *model.Article) (*model.Article, error) {
	res, err := s.coll.ReplaceOne(ctx,
		bson.D{{Key: fieldID, Value: article.ID}},
		article,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("replace article %s: %w", article.ID, err)
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return nil, nil
	}
	s.logger.Debugw("article replaced", "id", article.ID, "upserted", res.UpsertedCount > 0)

	a := *article

	return &a, nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: fieldID, Value: id}})
	if err != nil {
		return false, fmt.Errorf("delete article %s: %w", id, err)
	}

	return res.DeletedCount > 0, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*model.Article, error) {
	var a model.Article

	err := s.coll.FindOne(ctx, bson.D{{Key: fieldID, Value: id}}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find article %s: %w", id, err)
	}

	return &a, nil
}

// GetOwnerByID fetches only the id and owner fields.
func (s *Store) GetOwnerByID(ctx context.Context, id string) (*model.ArticleOwner, error) {
	var o model.ArticleOwner

	err := s.coll.FindOne(ctx,
		bson.D{{Key: fieldID, Value: id}},
		options.FindOne().SetProjection(ownerProjection),
	).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find article owner %s: %w", id, err)
	}

	return &o, nil
}

func (s *Store) FindByAuthor(ctx context.Context, author string) (storage.Cursor, error) {
	return s.find(ctx, authorFilter(author))
}

func (s *Store) FindByKeyword(ctx context.Context, keyword string) (storage.Cursor, error) {
	return s.find(ctx, keywordFilter(keyword))
}

func (s *Store) FindByPublishDateBetween(ctx context.Context, from, to time.Time) (storage.Cursor, error) {
	return s.find(ctx, periodFilter(from, to))
}

func authorFilter(author string) bson.D {
	return bson.D{{Key: fieldAuthors, Value: author}}
}

func keywordFilter(keyword string) bson.D {
	return bson.D{{Key: fieldKeywords, Value: keyword}}
}

// periodFilter matches publish dates strictly inside (from, to).
func periodFilter(from, to time.Time) bson.D {
	return bson.D{{Key: fieldPublishDate, Value: bson.D{
		{Key: "$gt", Value: from},
		{Key: "$lt", Value: to},
	}}}
}

func (s *Store) find(ctx context.Context, filter bson.D) (storage.Cursor, error) {
	cur, err := s.coll.Find(ctx, filter, options.Find().SetProjection(summaryProjection))
	if err != nil {
		return nil, fmt.Errorf("find articles: %w", err)
	}

	return &cursor{cur: cur}, nil
}

type cursor struct {
	cur *mongo.Cursor
}

func (c *cursor) Next(ctx context.Context) bool   { return c.cur.Next(ctx) }
func (c *cursor) Decode(a *model.Article) error   { return c.cur.Decode(a) }
func (c *cursor) Err() error                      { return c.cur.Err() }
func (c *cursor) Close(ctx context.Context) error { return c.cur.Close(ctx) }
