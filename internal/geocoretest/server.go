// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocoretest

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
)

// Fixed credentials accepted by every Server.
const (
	ProjectID = "PRO-TEST"
	UserID    = "USE-TEST-alice"
	Password  = "ecila-TSET-ESU"
)

// AccessTokenHeader mirrors the header the client sends.
const AccessTokenHeader = "Geocore-Access-Token"

// Record is a stored entity in its JSON form.
type Record = map[string]any

// Request is a received request, kept for assertions.
type Request struct {
	Method string
	Path   string
	// EscapedPath is the path as sent on the wire.
	EscapedPath string
	RawQuery    string
	Query    url.Values
	Header   http.Header
	Body     []byte
}

type stub struct {
	status int
	body   string
}

type binary struct {
	contentType string
	data        []byte
}

// Server is an in-memory Geocore API.
type Server struct {
	URL string

	srv *httptest.Server

	mu          sync.Mutex
	passwords   map[string]string
	tokens      map[string]string
	issued      int
	entities    map[string]map[string]Record
	nextSID     int64
	bins        map[string]map[string]*binary
	feeds       map[string][]Record
	checkins    []Record
	userRels    map[string]Record
	placeEvents [][2]string
	groups      map[string][]string
	stubs       map[string]stub
	requests    []Request
}

// services maps every entity service to its id prefix.
var services = map[string]string{
	"places": "PLA",
	"events": "EVE",
	"items":  "ITE",
	"tags":   "TAG",
	"users":  "USE",
}

// New starts a Server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		passwords: map[string]string{UserID: Password},
		tokens:    make(map[string]string),
		entities:  make(map[string]map[string]Record),
		bins:      make(map[string]map[string]*binary),
		feeds:     make(map[string][]Record),
		userRels:  make(map[string]Record),
		groups:    make(map[string][]string),
		stubs:     make(map[string]stub),
	}
	for svc := range services {
		s.entities[svc] = make(map[string]Record)
	}
	s.seedLocked("users", Record{"id": UserID, "name": "alice"})

	s.srv = httptest.NewServer(s.routes())
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

// Close shuts the server down early.
func (s *Server) Close() {
	s.srv.Close()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(s.record)
	r.Use(s.stubbed)

	r.Post("/auth", s.handleAuth)
	r.Post("/register", s.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/objs/{id}", s.handleGetAny)
		r.Get("/objs/{id}/bins", s.handleListBins)
		r.Get("/objs/{id}/bins/{key}", s.handleGetBin)
		r.Post("/objs/{id}/bins/{key}", s.handleUploadBin)
		r.Delete("/objs/{id}/bins/{key}", s.handleDeleteBin)
		r.Get("/objs/{id}/feed", s.handleListFeed)
		r.Post("/objs/{id}/feed", s.handlePostFeed)

		r.Get("/places/search/{kind}", s.handleSearch)
		r.Get("/places/search/{kind}/{shape}", s.handleSearch)
		r.Post("/places/{id}/checkins", s.handleCheckin)
		r.Get("/places/{id}/events", s.handlePlaceEvents)
		r.Get("/places/{id}/events/relationships", s.handlePlaceEventRels)
		r.Get("/events/{id}/places", s.handleEventPlaces)
		r.Get("/events/{id}/places/relationships", s.handlePlaceEventRels)

		r.Get("/users/{id}/{kind}", s.handleListUserRels)
		r.Post("/users/{id}/{kind}/{oid}", s.handleSaveUserRel)
		r.Post("/users/{id}/{kind}/{oid}/{rel}", s.handleSaveUserRel)
		r.Delete("/users/{id}/{kind}/{oid}", s.handleDeleteUserRel)
		r.Delete("/users/{id}/{kind}/{oid}/{rel}", s.handleDeleteUserRel)

		r.Get("/{service}", s.handleList)
		r.Post("/{service}", s.handleSave)
		r.Get("/{service}/{id}", s.handleGet)
		r.Post("/{service}/{id}", s.handleSave)
		r.Delete("/{service}/{id}", s.handleDelete)
	})

	return r
}

// Stub makes method+path answer with status and a raw body until
// ClearStubs is called.
func (s *Server) Stub(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs[method+" "+path] = stub{status: status, body: body}
}

// ClearStubs removes every stub.
func (s *Server) ClearStubs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs = make(map[string]stub)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request, or the zero Request.
func (s *Server) LastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

// IssueToken returns a valid access token for userID without a login.
func (s *Server) IssueToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(userID)
}

func (s *Server) issueLocked(userID string) string {
	s.issued++
	token := fmt.Sprintf("token-%s-%d", userID, s.issued)
	s.tokens[token] = userID
	return token
}

// RevokeTokens invalidates every issued token, as a server restart or
// expiry would. Later requests carrying one get 403.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.tokens)
}

// Seed stores rec under service, assigning sid and id as the API would,
// and returns the stored copy.
func (s *Server) Seed(service string, rec Record) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.seedLocked(service, rec))
}

func (s *Server) seedLocked(service string, rec Record) Record {
	s.nextSID++
	stored := clone(rec)
	stored["sid"] = s.nextSID
	if id, _ := stored["id"].(string); id == "" {
		stored["id"] = fmt.Sprintf("%s-TEST-%d", services[service], s.nextSID)
	}
	s.entities[service][stored["id"].(string)] = stored
	return stored
}

// Entity returns a stored entity by service and id.
func (s *Server) Entity(service, id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.entities[service][id]
	return clone(rec), ok
}

// LinkPlaceEvent relates a place to an event.
func (s *Server) LinkPlaceEvent(placeID, eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placeEvents = append(s.placeEvents, [2]string{placeID, eventID})
}

// Groups returns the group ids a user joined at registration or save.
func (s *Server) Groups(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.groups[userID]...)
}

// Checkins returns every stored checkin.
func (s *Server) Checkins() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.checkins...)
}

// Middleware

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:      r.Method,
			Path:        r.URL.Path,
			EscapedPath: r.URL.EscapedPath(),
			RawQuery:    r.URL.RawQuery,
			Query:       r.URL.Query(),
			Header:      r.Header.Clone(),
			Body:        body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) stubbed(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		st, ok := s.stubs[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(st.status)
		_, _ = io.WriteString(w, st.body)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		_, ok := s.tokens[r.Header.Get(AccessTokenHeader)]
		s.mu.Unlock()
		if !ok {
			http.Error(w, "access denied", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Envelope helpers

func writeResult(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "result": result})
}

func writeFailure(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "error", "code": code, "message": message})
}

// params merges the query string with a JSON object body, the body winning.
func params(r *http.Request) map[string]string {
	out := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	if body := readJSON(r); body != nil {
		for k, v := range body {
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}

func readJSON(r *http.Request) Record {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		return nil
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil
	}
	return rec
}

func clone(rec Record) Record {
	if rec == nil {
		return nil
	}
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func sortedRecords(m map[string]Record) []Record {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, clone(m[id]))
	}
	return out
}
