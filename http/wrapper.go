package http

import (
	"net/http"
)

// Middleware wraps an http.Handler with signature verification.
type Middleware struct {
	handler  http.Handler
	verifier *Verifier
}

// Wrap returns a handler that only calls h for requests that pass v.
func Wrap(h http.Handler, v *Verifier) http.Handler {
	return &Middleware{
		handler:  h,
		verifier: v,
	}
}

// ServeHTTP implements http.Handler.
func (m *Middleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if m.verifier != nil {
		if err := m.verifier.VerifyRequest(r); err != nil {
			m.verifier.handleError(w, r, err)
			return
		}
	}
	m.handler.ServeHTTP(w, r)
}
