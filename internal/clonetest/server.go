// Package clonetest provides an in-memory coordination server that honours
// the clone protocol contract, for use in tests.
//
// Tasks are consumed at most once even when many clones call
// /task/assign concurrently; /tasks enumerates without consuming.
package clonetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Entry is one item of a shared bag. Field names follow the wire format:
// {"id": ..., "message"|"fact"|"result": ...}.
type Entry map[string]string

// Assignment records which clone consumed which task.
type Assignment struct {
	CloneID string
	Task    string
}

type failure struct {
	status int
	body   string
}

// Server is a conforming coordination server backed by memory.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	messages    []Entry
	memories    []Entry
	results     []Entry
	queue       []string
	assignments []Assignment
	failures    map[string]failure
}

// NewServer starts a server. Call Close when done.
func NewServer() *Server {
	s := &Server{failures: make(map[string]failure)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /send", s.appendTo(&s.messages, "message"))
	mux.HandleFunc("GET /read", s.readFrom(&s.messages))
	mux.HandleFunc("POST /remember", s.appendTo(&s.memories, "fact"))
	mux.HandleFunc("GET /memories", s.readFrom(&s.memories))
	mux.HandleFunc("POST /task/result", s.appendTo(&s.results, "result"))
	mux.HandleFunc("GET /results", s.readFrom(&s.results))
	mux.HandleFunc("GET /task/assign", s.assign)
	mux.HandleFunc("GET /tasks", s.list)

	s.Server = httptest.NewServer(s.failOr(mux))
	return s
}

// Enqueue appends tasks to the queue.
func (s *Server) Enqueue(tasks ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, tasks...)
}

// Assignments returns every consumption so far, in order.
func (s *Server) Assignments() []Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Assignment(nil), s.assignments...)
}

// Fail makes every request to path answer with status and body until
// Recover is called.
func (s *Server) Fail(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = failure{status: status, body: body}
}

// Recover clears an injected failure.
func (s *Server) Recover(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, path)
}

func (s *Server) failOr(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.failures[r.URL.Path]
		s.mu.Unlock()
		if ok {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) appendTo(bag *[]Entry, field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		id, text := body["id"], body[field]
		if id == "" || text == "" {
			http.Error(w, "missing id or "+field, http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		*bag = append(*bag, Entry{"id": id, field: text})
		s.mu.Unlock()

		writeJSON(w, map[string]string{"status": "ok"})
	}
}

func (s *Server) readFrom(bag *[]Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		out := append([]Entry{}, *bag...)
		s.mu.Unlock()
		writeJSON(w, out)
	}
}

func (s *Server) assign(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	var task *string
	if len(s.queue) > 0 {
		t := s.queue[0]
		s.queue = s.queue[1:]
		s.assignments = append(s.assignments, Assignment{CloneID: id, Task: t})
		task = &t
	}
	s.mu.Unlock()

	writeJSON(w, map[string]*string{"task": task})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	tasks := append([]string{}, s.queue...)
	s.mu.Unlock()
	writeJSON(w, map[string][]string{"tasks": tasks})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
