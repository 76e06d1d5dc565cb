package articleresponse

import (
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/SergeyParamoshkin/publisher/internal/model"
)

const (
	ContentTypeJSON        = "application/json; charset=utf-8"
	ContentTypeEventStream = "text/event-stream"

	streamBufferSize = 4096
)

// ArticleResponse is the response payload for the Article data model.
type ArticleResponse struct {
	*model.Article
}

func NewArticleResponse(article *model.Article) *ArticleResponse {
	return &ArticleResponse{Article: article}
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ListStream writes a listing item by item, flushing after each one so
// the client sees articles as soon as the store yields them. The default
// framing is a JSON array; clients accepting text/event-stream get one
// `data:` event per article.
type ListStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	stream  *jsoniter.Stream
	sse     bool
	count   int
}

func NewListStream(w http.ResponseWriter, r *http.Request) *ListStream {
	flusher, _ := w.(http.Flusher)

	return &ListStream{
		w:       w,
		flusher: flusher,
		stream:  jsoniter.NewStream(jsoniter.ConfigCompatibleWithStandardLibrary, w, streamBufferSize),
		sse:     WantsEventStream(r),
	}
}

// WantsEventStream reports whether the Accept header asks for server-sent
// events.
func WantsEventStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), ContentTypeEventStream)
}

// Begin sends the status line and opens the listing.
func (s *ListStream) Begin() error {
	if s.sse {
		s.w.Header().Set("Content-Type", ContentTypeEventStream)
		s.w.Header().Set("Cache-Control", "no-cache")
	} else {
		s.w.Header().Set("Content-Type", ContentTypeJSON)
	}
	s.w.WriteHeader(http.StatusOK)

	if !s.sse {
		s.stream.WriteArrayStart()
	}

	return s.flush()
}

func (s *ListStream) Write(a *model.Article) error {
	if s.sse {
		s.stream.WriteRaw("data:")
	} else if s.count > 0 {
		s.stream.WriteMore()
	}

	s.stream.WriteVal(NewArticleResponse(a))

	if s.sse {
		s.stream.WriteRaw("\n\n")
	}
	s.count++

	return s.flush()
}

// End closes the listing.
func (s *ListStream) End() error {
	if !s.sse {
		s.stream.WriteArrayEnd()
	}

	return s.flush()
}

// Count returns the number of articles written so far.
func (s *ListStream) Count() int { return s.count }

func (s *ListStream) flush() error {
	if err := s.stream.Flush(); err != nil {
		return err
	}
	if s.stream.Error != nil {
		return s.stream.Error
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}

	return nil
}
