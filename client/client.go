// Package client is a typed HTTP client for the publisher API.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/SergeyParamoshkin/publisher/internal/model"
)

const (
	articlePath   = "/api/article"
	localDateTime = "2006-01-02T15:04:05"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNoCriteria is returned by listings the server answered with 204.
var ErrNoCriteria = errors.New("no listing criteria")

// StatusError is an unexpected response status.
type StatusError struct {
	Code   int
	Status string `json:"status"`
	Detail string `json:"error"`
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("publisher: %d %s: %s", e.Code, e.Status, e.Detail)
	}

	return fmt.Sprintf("publisher: %d %s", e.Code, e.Status)
}

// Client talks to the server at Addr. User and Password, when set, are
// sent as Basic credentials.
type Client struct {
	http.Client
	Addr     string
	User     string
	Password string
}

// As returns a copy of c authenticating as user.
func (c *Client) As(user, password string) *Client {
	return &Client{Client: c.Client, Addr: c.Addr, User: user, Password: password}
}

func (c *Client) Ping(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/ping", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Create posts edit and returns the id of the new article.
func (c *Client) Create(ctx context.Context, edit *model.ArticleEdit) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, articlePath, edit)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := expect(resp, http.StatusCreated); err != nil {
		return "", err
	}

	return path.Base(resp.Header.Get("Location")), nil
}

func (c *Client) Get(ctx context.Context, id string) (*model.Article, error) {
	resp, err := c.do(ctx, http.MethodGet, articlePath+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := expect(resp, http.StatusOK); err != nil {
		return nil, err
	}

	a := &model.Article{}
	if err := json.NewDecoder(resp.Body).Decode(a); err != nil {
		return nil, fmt.Errorf("decode article: %w", err)
	}

	return a, nil
}

func (c *Client) Update(ctx context.Context, id string, edit *model.ArticleEdit) error {
	resp, err := c.do(ctx, http.MethodPatch, articlePath+"/"+url.PathEscape(id), edit)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expect(resp, http.StatusOK)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, articlePath+"/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expect(resp, http.StatusOK)
}

func (c *Client) ListByAuthor(ctx context.Context, author string) ([]model.Article, error) {
	return c.List(ctx, url.Values{"author": {author}})
}

func (c *Client) ListByKeyword(ctx context.Context, keyword string) ([]model.Article, error) {
	return c.List(ctx, url.Values{"keyword": {keyword}})
}

// ListByPeriod lists articles published strictly between from and to. The
// bounds are sent as local date-times and read in the server's zone.
func (c *Client) ListByPeriod(ctx context.Context, from, to time.Time) ([]model.Article, error) {
	return c.List(ctx, url.Values{
		"from": {from.Format(localDateTime)},
		"to":   {to.Format(localDateTime)},
	})
}

// List sends query as is. It returns ErrNoCriteria when the server found no
// filter in it.
func (c *Client) List(ctx context.Context, query url.Values) ([]model.Article, error) {
	resp, err := c.do(ctx, http.MethodGet, articlePath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, ErrNoCriteria
	}
	if err := expect(resp, http.StatusOK); err != nil {
		return nil, err
	}

	var articles []model.Article
	if err := json.NewDecoder(resp.Body).Decode(&articles); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}

	return articles, nil
}

func (c *Client) do(ctx context.Context, method, target string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Addr+target, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.User != "" {
		req.SetBasicAuth(c.User, c.Password)
	}

	return c.Do(req)
}

func expect(resp *http.Response, code int) error {
	if resp.StatusCode == code {
		return nil
	}

	serr := &StatusError{Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	if b, err := io.ReadAll(resp.Body); err == nil && len(b) > 0 {
		_ = json.Unmarshal(b, serr)
	}

	return serr
}
