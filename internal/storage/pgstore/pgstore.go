// Package pgstore stores articles in PostgreSQL. Authors and keywords are
// text[] columns with GIN indexes, the schema is managed by goose.
package pgstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/publisher/internal/model"
	"github.com/SergeyParamoshkin/publisher/internal/storage"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	driverName        = "pgx"
	dialectPostgres   = "postgres"
	migrationsDir     = "migrations"
	tableArticles     = "articles"
	colID             = "id"
	colHeader         = "header"
	colShortDesc      = "short_description"
	colText           = "text"
	colPublishDate    = "publish_date"
	colAuthors        = "authors"
	colKeywords       = "keywords"
	colOwner          = "owner"
	containsLiteral   = "? @> ARRAY[?]::text[]"
	logMsgQueryFailed = "database query failed"
)

var (
	fullColumns    = []interface{}{colID, colHeader, colShortDesc, colText, colPublishDate, colAuthors, colKeywords, colOwner}
	summaryColumns = []interface{}{colID, colHeader, colShortDesc, colPublishDate, colAuthors, colKeywords, colOwner}
)

type Store struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
	logger  *zap.SugaredLogger
	newID   func() string
}

type Option func(*Store)

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// Open connects to dsn through the pgx driver and applies migrations.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	s := New(db, opts...)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return s, nil
}

func New(db *sqlx.DB, opts ...Option) *Store {
	s := &Store{
		db:      db,
		dialect: goqu.Dialect(dialectPostgres),
		logger:  zap.NewNop().Sugar(),
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialectPostgres); err != nil {
		return err
	}

	return goose.UpContext(ctx, s.db.DB, migrationsDir)
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

func (s *Store) Create(ctx context.Context, article *model.Article) (*model.Article, error) {
	a := *article
	a.ID = s.newID()

	query, args, err := s.dialect.Insert(tableArticles).Prepared(true).Rows(toRecord(&a)).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Errorw(logMsgQueryFailed, "error", err, "query", query)
		return nil, fmt.Errorf("insert article: %w", err)
	}

	return &a, nil
}

// Replace upserts the article by id. A zero row count is reported as a nil
// article.
func (s *Store) Replace(ctx context.Context, article *model.Article) (*model.Article, error) {
	query, args, err := s.dialect.Insert(tableArticles).Prepared(true).
		Rows(toRecord(article)).
		OnConflict(goqu.DoUpdate(colID, goqu.Record{
			colHeader:      goqu.L("EXCLUDED." + colHeader),
			colShortDesc:   goqu.L("EXCLUDED." + colShortDesc),
			colText:        goqu.L("EXCLUDED." + colText),
			colPublishDate: goqu.L("EXCLUDED." + colPublishDate),
			colAuthors:     goqu.L("EXCLUDED." + colAuthors),
			colKeywords:    goqu.L("EXCLUDED." + colKeywords),
			colOwner:       goqu.L("EXCLUDED." + colOwner),
		})).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build upsert query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.Errorw(logMsgQueryFailed, "error", err, "query", query)
		return nil, fmt.Errorf("replace article %s: %w", article.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	a := *article

	return &a, nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) (bool, error) {
	query, args, err := s.dialect.Delete(tableArticles).Prepared(true).Where(goqu.C(colID).Eq(id)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete article %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}

	return n > 0, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*model.Article, error) {
	query, args, err := s.dialect.From(tableArticles).Prepared(true).
		Select(fullColumns...).
		Where(goqu.C(colID).Eq(id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	var row articleRow
	err = s.db.QueryRowxContext(ctx, query, args...).StructScan(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select article %s: %w", id, err)
	}

	return row.toModel(), nil
}

func (s *Store) GetOwnerByID(ctx context.Context, id string) (*model.ArticleOwner, error) {
	query, args, err := s.dialect.From(tableArticles).Prepared(true).
		Select(colID, colOwner).
		Where(goqu.C(colID).Eq(id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	var o model.ArticleOwner
	err = s.db.QueryRowxContext(ctx, query, args...).StructScan(&o)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select article owner %s: %w", id, err)
	}

	return &o, nil
}

func (s *Store) FindByAuthor(ctx context.Context, author string) (storage.Cursor, error) {
	return s.find(ctx, goqu.L(containsLiteral, goqu.I(colAuthors), author))
}

func (s *Store) FindByKeyword(ctx context.Context, keyword string) (storage.Cursor, error) {
	return s.find(ctx, goqu.L(containsLiteral, goqu.I(colKeywords), keyword))
}

func (s *Store) FindByPublishDateBetween(ctx context.Context, from, to time.Time) (storage.Cursor, error) {
	return s.find(ctx, goqu.C(colPublishDate).Gt(from), goqu.C(colPublishDate).Lt(to))
}

func (s *Store) find(ctx context.Context, where ...goqu.Expression) (storage.Cursor, error) {
	query, args, err := s.dialect.From(tableArticles).Prepared(true).
		Select(summaryColumns...).
		Where(where...).
		Order(goqu.I(colPublishDate).Asc(), goqu.I(colID).Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		s.logger.Errorw(logMsgQueryFailed, "error", err, "query", query)
		return nil, fmt.Errorf("select articles: %w", err)
	}

	return &cursor{rows: rows}, nil
}

type articleRow struct {
	ID               string         `db:"id"`
	Header           string         `db:"header"`
	ShortDescription string         `db:"short_description"`
	Text             string         `db:"text"`
	PublishDate      time.Time      `db:"publish_date"`
	Authors          pq.StringArray `db:"authors"`
	Keywords         pq.StringArray `db:"keywords"`
	Owner            string         `db:"owner"`
}

func (r *articleRow) toModel() *model.Article {
	return &model.Article{
		ID:               r.ID,
		Header:           r.Header,
		ShortDescription: r.ShortDescription,
		Text:             r.Text,
		PublishDate:      r.PublishDate,
		Authors:          []string(r.Authors),
		Keywords:         []string(r.Keywords),
		Owner:            r.Owner,
	}
}

func toRecord(a *model.Article) goqu.Record {
	return goqu.Record{
		colID:          a.ID,
		colHeader:      a.Header,
		colShortDesc:   a.ShortDescription,
		colText:        a.Text,
		colPublishDate: a.PublishDate,
		colAuthors:     pq.StringArray(a.Authors),
		colKeywords:    pq.StringArray(a.Keywords),
		colOwner:       a.Owner,
	}
}

type cursor struct {
	rows *sqlx.Rows
}

func (c *cursor) Next(context.Context) bool { return c.rows.Next() }

func (c *cursor) Decode(a *model.Article) error {
	var row articleRow
	if err := c.rows.StructScan(&row); err != nil {
		return fmt.Errorf("scan article: %w", err)
	}
	*a = *row.toModel()

	return nil
}

func (c *cursor) Err() error { return c.rows.Err() }

func (c *cursor) Close(context.Context) error { return c.rows.Close() }
