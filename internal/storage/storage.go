// Package storage holds the contract shared by the article store backends.
package storage

import (
	"context"
	"errors"

	"github.com/SergeyParamoshkin/publisher/internal/model"
)

// ErrNotFound is returned by single document lookups when no article
// matches the id.
var ErrNotFound = errors.New("article not found")

// Cursor is a single-pass sequence of articles. Callers must Close it.
type Cursor interface {
	Next(ctx context.Context) bool
	Decode(a *model.Article) error
	Err() error
	Close(ctx context.Context) error
}

// SliceCursor serves a snapshot of articles. It backs the in-memory store
// and is handy in tests.
type SliceCursor struct {
	items []*model.Article
	pos   int
	err   error
}

func NewSliceCursor(items []*model.Article) *SliceCursor {
	return &SliceCursor{items: items, pos: -1}
}

func (c *SliceCursor) Next(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		c.err = err
		c.pos = len(c.items)
		return false
	}
	if c.pos+1 >= len(c.items) {
		c.pos = len(c.items)
		return false
	}
	c.pos++
	return true
}

func (c *SliceCursor) Decode(a *model.Article) error {
	if c.pos < 0 || c.pos >= len(c.items) {
		return errors.New("cursor is not positioned on an article")
	}
	*a = *c.items[c.pos]
	return nil
}

func (c *SliceCursor) Err() error { return c.err }

func (c *SliceCursor) Close(context.Context) error {
	c.items = nil
	return nil
}
