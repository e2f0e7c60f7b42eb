// Package testutil provides an in-memory build server for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/bnema/buildsel/internal/domain/entity"
)

// Route names accepted by Override.
const (
	RouteList         = "list"
	RouteFetchCurrent = "fetch-current"
	RouteDownload     = "download"
	RouteActivate     = "activate"
	RouteRepatch      = "repatch"
	RouteIndexScripts = "index-scripts"
)

// Response is a canned reply for a route.
type Response struct {
	Status int
	Body   string
}

// Request records one call received by the server.
type Request struct {
	Route  string
	Method string
	Path   string
	Hash   string
	Body   string
}

type wireBuild struct {
	BuildHash string `json:"build_hash"`
	Channel   string `json:"channel"`
	IsPatched bool   `json:"is_patched"`
	IsActive  bool   `json:"is_active"`
	BuildDate string `json:"build_date"`
}

type wireStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// BuildServer mimics the build server API over an in-memory build list.
type BuildServer struct {
	*httptest.Server

	mu           sync.Mutex
	builds       []entity.Build
	currentHash  string
	overrides    map[string]Response
	requests     []Request
	listCalls    int
	patchAfter   map[string]int
	indexScripts map[string][]string
}

// NewBuildServer starts a server holding builds. It is closed with the test.
func NewBuildServer(t testing.TB, builds ...entity.Build) *BuildServer {
	t.Helper()

	s := &BuildServer{
		builds:       append([]entity.Build(nil), builds...),
		overrides:    make(map[string]Response),
		patchAfter:   make(map[string]int),
		indexScripts: make(map[string][]string),
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/builds", s.handle(RouteList, s.list)).Methods(http.MethodGet)
	r.HandleFunc("/api/builds/fetch-current", s.handle(RouteFetchCurrent, s.fetchCurrent)).Methods(http.MethodPost)
	r.HandleFunc("/api/builds/download", s.handle(RouteDownload, s.download)).Methods(http.MethodPost)
	r.HandleFunc("/api/builds/active", s.handle(RouteActivate, s.activate)).Methods(http.MethodPut)
	r.HandleFunc("/api/builds/{hash}/repatch", s.handle(RouteRepatch, s.repatch)).Methods(http.MethodPost)
	r.HandleFunc("/api/builds/{hash}/index-scripts", s.handle(RouteIndexScripts, s.setIndexScripts)).Methods(http.MethodPut)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// SetBuilds replaces the server's build list.
func (s *BuildServer) SetBuilds(builds ...entity.Build) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builds = append([]entity.Build(nil), builds...)
}

// SetCurrent sets the hash reported by fetch-current.
func (s *BuildServer) SetCurrent(hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentHash = hash
}

// PatchAfter marks hash patched once the build list has been served lists more times.
func (s *BuildServer) PatchAfter(hash string, lists int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patchAfter[hash] = lists
}

// Override replaces the reply of a route until cleared with ClearOverride.
func (s *BuildServer) Override(route string, resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[route] = resp
}

// ClearOverride restores the default behavior of a route.
func (s *BuildServer) ClearOverride(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, route)
}

// Requests returns every request received so far.
func (s *BuildServer) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsFor returns the requests received on one route.
func (s *BuildServer) RequestsFor(route string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Route == route {
			out = append(out, r)
		}
	}
	return out
}

// ListCalls returns how many times the build list was served.
func (s *BuildServer) ListCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

// IndexScripts returns the scripts last set for hash.
func (s *BuildServer) IndexScripts(hash string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexScripts[hash]
}

// Builds returns the server's current build list.
func (s *BuildServer) Builds() []entity.Build {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Build(nil), s.builds...)
}

type routeHandler func(w http.ResponseWriter, r *http.Request, body []byte)

func (s *BuildServer) handle(route string, h routeHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Route:  route,
			Method: r.Method,
			Path:   r.URL.Path,
			Hash:   mux.Vars(r)["hash"],
			Body:   string(body),
		})
		override, ok := s.overrides[route]
		if route == RouteList {
			s.listCalls++
		}
		s.mu.Unlock()

		if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(override.Status)
			_, _ = io.WriteString(w, override.Body)
			return
		}
		h(w, r, body)
	}
}

func (s *BuildServer) list(w http.ResponseWriter, _ *http.Request, _ []byte) {
	s.mu.Lock()
	for hash, remaining := range s.patchAfter {
		remaining--
		if remaining > 0 {
			s.patchAfter[hash] = remaining
			continue
		}
		delete(s.patchAfter, hash)
		for i := range s.builds {
			if s.builds[i].BuildHash == hash {
				s.builds[i].IsPatched = true
			}
		}
	}
	out := make([]wireBuild, 0, len(s.builds))
	for _, b := range s.builds {
		date := b.RawDate
		if !b.BuildDate.IsZero() {
			date = b.BuildDate.Format("2006-01-02 15:04:05 -07:00")
		}
		out = append(out, wireBuild{
			BuildHash: b.BuildHash,
			Channel:   b.Channel,
			IsPatched: b.IsPatched,
			IsActive:  b.IsActive,
			BuildDate: date,
		})
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *BuildServer) fetchCurrent(w http.ResponseWriter, _ *http.Request, _ []byte) {
	s.mu.Lock()
	hash := s.currentHash
	if hash != "" {
		if _, ok := entity.FindBuild(s.builds, hash); !ok {
			s.builds = append([]entity.Build{{BuildHash: hash, Channel: "stable"}}, s.builds...)
		}
	}
	s.mu.Unlock()

	if hash == "" {
		writeJSON(w, http.StatusBadGateway, wireStatus{Status: "error", Message: "Could not determine current build"})
		return
	}
	writeJSON(w, http.StatusAccepted, wireStatus{
		Status:  "accepted",
		Message: fmt.Sprintf("Fetching current build %s", hash),
	})
}

func (s *BuildServer) download(w http.ResponseWriter, _ *http.Request, body []byte) {
	var req struct {
		BuildHash string `json:"build_hash"`
	}
	if err := json.Unmarshal(body, &req); err != nil || req.BuildHash == "" {
		writeJSON(w, http.StatusBadRequest, wireStatus{Status: "error", Message: "build_hash is required"})
		return
	}

	s.mu.Lock()
	_, ok := entity.FindBuild(s.builds, req.BuildHash)
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, wireStatus{Status: "error", Message: "Build not found"})
		return
	}
	writeJSON(w, http.StatusAccepted, wireStatus{
		Status:  "accepted",
		Message: fmt.Sprintf("Download started for build %s", req.BuildHash),
	})
}

func (s *BuildServer) activate(w http.ResponseWriter, _ *http.Request, body []byte) {
	var req struct {
		BuildHash string `json:"build_hash"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, wireStatus{Status: "error", Message: "invalid request"})
		return
	}

	s.mu.Lock()
	found := false
	for i := range s.builds {
		if s.builds[i].BuildHash == req.BuildHash && s.builds[i].IsPatched {
			found = true
		}
	}
	if found {
		for i := range s.builds {
			s.builds[i].IsActive = s.builds[i].BuildHash == req.BuildHash
		}
	}
	s.mu.Unlock()

	if !found {
		writeJSON(w, http.StatusNotFound, wireStatus{Status: "error", Message: "Build not found"})
		return
	}
	writeJSON(w, http.StatusOK, wireStatus{
		Status:  "ok",
		Message: fmt.Sprintf("Active build set to %s", req.BuildHash),
	})
}

func (s *BuildServer) repatch(w http.ResponseWriter, r *http.Request, _ []byte) {
	hash := mux.Vars(r)["hash"]

	s.mu.Lock()
	_, ok := entity.FindBuild(s.builds, hash)
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, wireStatus{Status: "error", Message: "Build not found"})
		return
	}
	writeJSON(w, http.StatusAccepted, wireStatus{Status: "accepted", Message: "Repatch started"})
}

func (s *BuildServer) setIndexScripts(w http.ResponseWriter, r *http.Request, body []byte) {
	hash := mux.Vars(r)["hash"]
	var req struct {
		IndexScripts []string `json:"index_scripts"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, wireStatus{Status: "error", Message: "invalid request"})
		return
	}

	s.mu.Lock()
	s.indexScripts[hash] = req.IndexScripts
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, wireStatus{
		Status:  "ok",
		Message: fmt.Sprintf("Index scripts updated for %s (%d scripts)", hash, len(req.IndexScripts)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
