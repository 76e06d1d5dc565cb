package identity

import (
	"net/http"
)

// Authenticator checks a name/password pair.
type Authenticator interface {
	Authenticate(name, password string) (string, error)
}

// BasicAuth puts the principal of valid Basic credentials on the request
// context. Invalid credentials are rejected with 401. Requests without
// credentials pass through anonymously unless challenge reports true for
// them, in which case they are rejected with 401 as well.
func BasicAuth(realm string, auth Authenticator, challenge func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name, password, ok := r.BasicAuth()
			if !ok {
				if challenge != nil && challenge(r) {
					unauthorized(w, realm)
					return
				}
				next.ServeHTTP(w, r)

				return
			}

			principal, err := auth.Authenticate(name, password)
			if err != nil {
				unauthorized(w, realm)
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), principal)))
		})
	}
}

// WriteMethods reports true for the methods that modify articles.
func WriteMethods(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

func unauthorized(w http.ResponseWriter, realm string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+realm+`"`)
	http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
}
