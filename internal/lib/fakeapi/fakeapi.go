// Package fakeapi runs in-process stand-ins for the storefront backends in
// tests.
package fakeapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Call is one request received by a Recorder.
type Call struct {
	Method      string
	Path        string
	Query       string
	Auth        string
	ContentType string
	Body        []byte
}

// JSON decodes the recorded body into v.
func (c Call) JSON(v any) error {
	return json.Unmarshal(c.Body, v)
}

// Recorder answers every request with the same canned response and keeps
// what it received.
type Recorder struct {
	*httptest.Server

	mu     sync.Mutex
	calls  []Call
	status int
	body   any
}

func NewRecorder(t testing.TB, status int, body any) *Recorder {
	t.Helper()

	r := &Recorder{status: status, body: body}
	r.Server = httptest.NewServer(http.HandlerFunc(r.serve))
	t.Cleanup(r.Close)

	return r
}

func (r *Recorder) serve(w http.ResponseWriter, req *http.Request) {
	raw, _ := io.ReadAll(req.Body)

	r.mu.Lock()
	r.calls = append(r.calls, Call{
		Method:      req.Method,
		Path:        req.URL.Path,
		Query:       req.URL.RawQuery,
		Auth:        req.Header.Get("Authorization"),
		ContentType: req.Header.Get("Content-Type"),
		Body:        raw,
	})
	status, body := r.status, r.body
	r.mu.Unlock()

	WriteJSON(w, status, body)
}

// Respond changes the canned response.
func (r *Recorder) Respond(status int, body any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status = status
	r.body = body
}

func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Call(nil), r.calls...)
}

// Last returns the most recent call; it fails the test when there is none.
func (r *Recorder) Last(t testing.TB) Call {
	t.Helper()

	calls := r.Calls()
	if len(calls) == 0 {
		t.Fatal("no request recorded")
	}

	return calls[len(calls)-1]
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = nil
}

// WriteJSON writes v with status; a nil v leaves the body empty.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	if v == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if raw, ok := v.(string); ok {
		_, _ = io.WriteString(w, raw)
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}
