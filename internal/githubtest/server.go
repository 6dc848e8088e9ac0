// Package githubtest provides an in-process stand-in for the GitHub issues API.
package githubtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync"
	"testing"
)

// Request records what the server received.
type Request struct {
	Repo          string
	Page          int
	Query         string
	Authorization string
	UserAgent     string
}

// Server serves canned pages of issues per repository and advertises the
// next page through a Link header, like the real API.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	pages    map[string][]string
	failures map[string]int
	requests []Request
}

// New starts a Server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		pages:    make(map[string][]string),
		failures: make(map[string]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/{owner}/{name}/issues", s.handleIssues)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// AddPages registers the JSON pages served for repo ("owner/name").
func (s *Server) AddPages(repo string, pages ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[repo] = append(s.pages[repo], pages...)
}

// AddFixturePages registers pages loaded from files.
func (s *Server) AddFixturePages(t testing.TB, repo string, paths ...string) {
	t.Helper()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read fixture %s: %v", path, err)
		}
		s.AddPages(repo, string(data))
	}
}

// Fail makes every request for repo answer with status.
func (s *Server) Fail(repo string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[repo] = status
}

// Requests returns a copy of the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Request, len(s.requests))
	copy(cp, s.requests)
	return cp
}

func (s *Server) handleIssues(w http.ResponseWriter, r *http.Request) {
	repo := r.PathValue("owner") + "/" + r.PathValue("name")
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p > 0 {
			page = p
		}
	}

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Repo:          repo,
		Page:          page,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		UserAgent:     r.Header.Get("User-Agent"),
	})
	status, failing := s.failures[repo]
	pages, known := s.pages[repo]
	s.mu.Unlock()

	if failing {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, `{"message":"%s"}`, http.StatusText(status))
		return
	}
	if !known {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		return
	}

	body := "[]"
	if page <= len(pages) {
		body = pages[page-1]
	}
	if page < len(pages) {
		w.Header().Set("Link", fmt.Sprintf(
			`<%[1]s/repos/%[2]s/issues?page=%[3]d>; rel="next", <%[1]s/repos/%[2]s/issues?page=%[4]d>; rel="last"`,
			s.URL, repo, page+1, len(pages)))
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}
