// Package testutil provides testing utilities for AFS connectors.
package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout, cancelled
// when the test completes.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// Request is a request received by an AFSServer.
type Request struct {
	Path     string
	RawQuery string
	Query    url.Values
	Header   http.Header
}

// AFSServer is a fake AFS web service recording the requests it receives.
// It is closed when the test completes.
type AFSServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
}

// NewAFSServer starts a server answering every request with body.
func NewAFSServer(t *testing.T, body string) *AFSServer {
	return NewAFSServerFunc(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
}

// NewAFSServerFunc starts a server answering with handler.
func NewAFSServerFunc(t *testing.T, handler http.HandlerFunc) *AFSServer {
	t.Helper()
	s := &AFSServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Query:    r.URL.Query(),
			Header:   r.Header.Clone(),
		})
		s.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// Host returns the host:port to configure connectors with.
func (s *AFSServer) Host() string {
	return s.Listener.Addr().String()
}

// Requests returns the requests received so far.
func (s *AFSServer) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request.
func (s *AFSServer) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}
