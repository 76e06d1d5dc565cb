package errresponse

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/publisher/internal/validation"
)

// ErrMalformedBody marks a request payload that could not be decoded.
var ErrMalformedBody = errors.New("malformed request body")

// InvalidInputError is a client error whose Detail is safe to show.
type InvalidInputError struct {
	Detail string
}

func (e *InvalidInputError) Error() string { return e.Detail }

func InvalidInput(detail string) error {
	return &InvalidInputError{Detail: detail}
}

// ErrResponse renderer type for handling all sorts of errors.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string `json:"status"`          // user-level status message
	ErrorText  string `json:"error,omitempty"` // detail safe to show to the client
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)

	return nil
}

// Outcomes rendered by the handlers themselves.
// nolint
var (
	ErrUnauthenticated = &ErrResponse{HTTPStatusCode: http.StatusForbidden, StatusText: "Authentication required."}
	ErrForbidden       = &ErrResponse{HTTPStatusCode: http.StatusForbidden, StatusText: "Forbidden."}
	ErrNotFound        = &ErrResponse{HTTPStatusCode: http.StatusNotFound, StatusText: "Resource not found."}
	ErrUnprocessable   = &ErrResponse{HTTPStatusCode: http.StatusUnprocessableEntity, StatusText: "Unprocessable entity."}
)

func ErrInvalidRequest(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrMalformedRequest(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Malformed request.",
	}
}

func ErrInternal(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     http.StatusText(http.StatusInternalServerError),
	}
}

// FromError translates an error raised while handling a request.
// Validation and input errors carry their detail, a malformed body does
// not, and everything else becomes an opaque 500.
func FromError(err error) *ErrResponse {
	var (
		verr  *validation.Error
		input *InvalidInputError
	)

	switch {
	case errors.As(err, &verr):
		resp := ErrInvalidRequest(verr)
		resp.Err = err
		return resp
	case errors.As(err, &input):
		resp := ErrInvalidRequest(input)
		resp.Err = err
		return resp
	case errors.Is(err, ErrMalformedBody):
		return ErrMalformedRequest(err)
	default:
		return ErrInternal(err)
	}
}
