package article

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SergeyParamoshkin/publisher/internal/identity"
	"github.com/SergeyParamoshkin/publisher/internal/model"
	"github.com/SergeyParamoshkin/publisher/internal/storage/memstore"
	"github.com/SergeyParamoshkin/publisher/internal/validation"
)

const password = "password"

func day(d int) time.Time {
	return time.Date(2018, time.January, d, 0, 0, 0, 0, time.UTC)
}

func newAccounts(t *testing.T) *identity.Accounts {
	t.Helper()

	accounts, err := identity.NewAccounts(map[string]string{
		"user1": password,
		"user2": password,
	}, bcrypt.MinCost)
	require.NoError(t, err)

	return accounts
}

// newRouter mounts h the way the server does, minus the write challenge so
// that anonymous writes reach the handlers.
func newRouter(t *testing.T, h *Handler) http.Handler {
	t.Helper()

	r := chi.NewRouter()
	r.Use(identity.BasicAuth("publisher", newAccounts(t), nil))
	r.Mount(DefaultBasePath, h.Router())

	return r
}

func newServer(t *testing.T) (*memstore.Store, http.Handler) {
	t.Helper()

	n := 0
	store := memstore.New(memstore.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}))

	return store, newRouter(t, NewHandler(store, validation.New(), WithLocation(time.UTC)))
}

func seed(t *testing.T, store Store) {
	t.Helper()

	ctx := context.Background()
	fixtures := []*model.Article{
		{Header: "header1", ShortDescription: "sd1", Text: "text1", Authors: []string{"author1"}, Keywords: []string{"keyword1"}, PublishDate: day(1), Owner: "user1"},
		{Header: "header2", ShortDescription: "sd2", Text: "text2", Authors: []string{"author2"}, Keywords: []string{"keyword1"}, PublishDate: day(2), Owner: "user1"},
		{Header: "header3", ShortDescription: "sd3", Text: "text3", Authors: []string{"author3"}, Keywords: []string{"keyword3"}, PublishDate: day(2).Add(time.Second), Owner: "user2"},
		{Header: "header4", ShortDescription: "sd4", Text: "text4", Authors: []string{"author1"}, Keywords: []string{"keyword4"}, PublishDate: day(3), Owner: "user2"},
	}
	for _, a := range fixtures {
		_, err := store.Create(ctx, a)
		require.NoError(t, err)
	}
}

func submission(header string) string {
	return `{
		"header": "` + header + `",
		"shortDescription": "shortDesc",
		"text": "text",
		"publishDate": "2018-01-02T10:15:30Z",
		"authors": ["author1"],
		"keywords": ["keyword1"]
	}`
}

type call struct {
	method string
	target string
	body   string
	user   string
	header http.Header
}

func do(t *testing.T, h http.Handler, c call) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if c.body != "" {
		body = strings.NewReader(c.body)
	}

	r := httptest.NewRequest(c.method, c.target, body)
	if c.body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.header {
		r.Header[k] = v
	}
	if c.user != "" {
		r.SetBasicAuth(c.user, password)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	return w
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list), w.Body.String())

	return list
}

func headers(list []map[string]interface{}) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a["header"].(string))
	}

	return out
}
