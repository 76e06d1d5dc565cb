package memstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/publisher/internal/model"
	"github.com/SergeyParamoshkin/publisher/internal/storage"
)

func day(d int) time.Time {
	return time.Date(2018, time.January, d, 0, 0, 0, 0, time.UTC)
}

func seed(t *testing.T) *Store {
	t.Helper()

	n := 0
	s := New(WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}))
	ctx := context.Background()

	fixtures := []*model.Article{
		{Header: "header1", Text: "text1", Authors: []string{"author1"}, Keywords: []string{"keyword1"}, PublishDate: day(1), Owner: "user1"},
		{Header: "header2", Text: "text2", Authors: []string{"author2"}, Keywords: []string{"keyword1"}, PublishDate: day(2), Owner: "user1"},
		{Header: "header3", Text: "text3", Authors: []string{"author3"}, Keywords: []string{"keyword3"}, PublishDate: day(2).Add(time.Second), Owner: "user2"},
		{Header: "header4", Text: "text4", Authors: []string{"author1"}, Keywords: []string{"keyword4"}, PublishDate: day(3), Owner: "user2"},
	}
	for _, a := range fixtures {
		_, err := s.Create(ctx, a)
		require.NoError(t, err)
	}

	return s
}

func collect(t *testing.T, c storage.Cursor) []model.Article {
	t.Helper()
	ctx := context.Background()
	defer c.Close(ctx)

	var out []model.Article
	for c.Next(ctx) {
		var a model.Article
		require.NoError(t, c.Decode(&a))
		out = append(out, a)
	}
	require.NoError(t, c.Err())

	return out
}

func TestCreate_AssignsID(t *testing.T) {
	s := New()
	in := &model.Article{Header: "h", Owner: "user1"}

	created, err := s.Create(context.Background(), in)
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Empty(t, in.ID, "input must not be mutated")

	got, err := s.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestGetByID_NotFound(t *testing.T) {
	s := seed(t)

	_, err := s.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.GetOwnerByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetOwnerByID(t *testing.T) {
	s := seed(t)

	o, err := s.GetOwnerByID(context.Background(), "id3")
	require.NoError(t, err)
	assert.Equal(t, &model.ArticleOwner{ID: "id3", Owner: "user2"}, o)
}

func TestReplace_OverwritesSameID(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	_, err := s.Replace(ctx, &model.Article{ID: "id1", Header: "changed", Owner: "user1"})
	require.NoError(t, err)

	got, err := s.GetByID(ctx, "id1")
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Header)
	assert.Len(t, collect(t, mustCursor(s.FindByPublishDateBetween(ctx, day(0), day(9)))), 3)
}

func TestReplace_UpsertsUnknownID(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Replace(ctx, &model.Article{ID: "x", Header: "h"})
	require.NoError(t, err)

	got, err := s.GetByID(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "h", got.Header)
}

func TestDeleteByID(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	ok, err := s.DeleteByID(ctx, "id2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeleteByID(ctx, "id2")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.GetByID(ctx, "id2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFindByAuthor(t *testing.T) {
	s := seed(t)

	got := collect(t, mustCursor(s.FindByAuthor(context.Background(), "author1")))

	require.Len(t, got, 2)
	for _, a := range got {
		assert.Empty(t, a.Text)
		assert.Contains(t, a.Authors, "author1")
	}
	assert.Equal(t, "header1", got[0].Header)
}

func TestFindByKeyword(t *testing.T) {
	s := seed(t)

	got := collect(t, mustCursor(s.FindByKeyword(context.Background(), "keyword1")))

	require.Len(t, got, 2)
	assert.Equal(t, "header1", got[0].Header)
	assert.Empty(t, got[0].Text)
}

func TestFindByPublishDateBetween_IsOpenInterval(t *testing.T) {
	s := seed(t)

	got := collect(t, mustCursor(s.FindByPublishDateBetween(context.Background(), day(1), day(3))))

	require.Len(t, got, 2)
	assert.Equal(t, "header2", got[0].Header)
	assert.Equal(t, "header3", got[1].Header)
	assert.Empty(t, got[0].Text)
}

func TestFind_DoesNotStripStoredText(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	collect(t, mustCursor(s.FindByAuthor(ctx, "author1")))

	got, err := s.GetByID(ctx, "id1")
	require.NoError(t, err)
	assert.Equal(t, "text1", got.Text)
}

func mustCursor(c storage.Cursor, err error) storage.Cursor {
	if err != nil {
		panic(err)
	}

	return c
}
