package articlerequest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/publisher/internal/errresponse"
	"github.com/SergeyParamoshkin/publisher/internal/model"
)

// ArticleRequest is the request payload for creating and updating an
// Article. id and owner are server controlled: they are decoded into the
// protected fields and dropped in Bind.
type ArticleRequest struct {
	*model.ArticleEdit

	ProtectedID    string `json:"id"`    // override 'id' json to have more control
	ProtectedOwner string `json:"owner"` // owner is never taken from the client
}

func (a *ArticleRequest) Bind(r *http.Request) error {
	// a.ArticleEdit is nil if no Article fields are sent in the request.
	if a.ArticleEdit == nil {
		return errresponse.InvalidInput("missing required Article fields")
	}

	a.ProtectedID = ""
	a.ProtectedOwner = ""

	return nil
}

// Decode reads an Edit Submission from the request body. Undecodable
// payloads are reported as errresponse.ErrMalformedBody.
func Decode(r *http.Request) (*model.ArticleEdit, error) {
	data := &ArticleRequest{}

	if err := render.DecodeJSON(r.Body, data); err != nil {
		return nil, fmt.Errorf("%w: %v", errresponse.ErrMalformedBody, err)
	}
	if err := data.Bind(r); err != nil {
		return nil, err
	}

	return data.ArticleEdit, nil
}

// IsMalformed reports whether err came from an undecodable payload.
func IsMalformed(err error) bool {
	return errors.Is(err, errresponse.ErrMalformedBody)
}
