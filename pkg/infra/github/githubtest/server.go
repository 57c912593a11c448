// Package githubtest provides an in-process fake of the GitHub REST API
// covering the release endpoints porter talks to. Tests point the real
// client at Server.URL via its enterprise URL options and assert on the
// uploads the fake accepted.
package githubtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-github/v75/github"
)

// Upload records one asset upload accepted by the fake API
type Upload struct {
	Owner       string
	Repo        string
	ReleaseID   int64
	Name        string
	ContentType string
	Body        []byte
}

// Server is the fake GitHub API. Create one with New, seed it with
// AddRelease/AddAsset, and shut it down with Close.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	token    string
	releases map[string]*github.RepositoryRelease
	assets   map[int64][]*github.ReleaseAsset
	uploads  []Upload
	requests int
	nextID   int64
}

// New starts a fake GitHub API server
func New() *Server {
	s := &Server{
		releases: map[string]*github.RepositoryRelease{},
		assets:   map[int64][]*github.ReleaseAsset{},
		nextID:   1000,
	}

	router := chi.NewRouter()
	router.Use(s.countRequests)
	router.Use(s.checkAuthorization)

	router.Get("/api/v3/repos/{owner}/{repo}/releases/tags/{tag}", s.handleGetReleaseByTag)
	router.Get("/api/v3/repos/{owner}/{repo}/releases/{releaseID}/assets", s.handleListAssets)
	router.Post("/api/uploads/repos/{owner}/{repo}/releases/{releaseID}/assets", s.handleUploadAsset)

	s.Server = httptest.NewServer(router)

	return s
}

// RequireToken makes the server reject requests that do not carry the token
func (s *Server) RequireToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// AddRelease seeds a release for the repository and returns its ID
func (s *Server) AddRelease(owner, repo, tag string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.releases[releaseKey(owner, repo, tag)] = &github.RepositoryRelease{
		ID:      github.Ptr(id),
		TagName: github.Ptr(tag),
	}

	return id
}

// AddAsset seeds an asset that appears as already attached to the release
func (s *Server) AddAsset(releaseID int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.assets[releaseID] = append(s.assets[releaseID], &github.ReleaseAsset{
		ID:   github.Ptr(s.nextID),
		Name: github.Ptr(name),
	})
}

// Uploads returns a copy of the uploads accepted so far
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Upload{}, s.uploads...)
}

// Requests returns how many API requests the server received
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.requests
}

func releaseKey(owner, repo, tag string) string {
	return owner + "/" + repo + "/" + tag
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkAuthorization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		token := s.token
		s.mu.Unlock()

		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token && auth != "token "+token {
				writeError(w, http.StatusUnauthorized, "Bad credentials")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGetReleaseByTag(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")
	tag := chi.URLParam(r, "tag")

	s.mu.Lock()
	release, ok := s.releases[releaseKey(owner, repo, tag)]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	writeJSON(w, http.StatusOK, release)
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	releaseID, err := strconv.ParseInt(chi.URLParam(r, "releaseID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid release ID")
		return
	}

	s.mu.Lock()
	assets := append([]*github.ReleaseAsset{}, s.assets[releaseID]...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, assets)
}

func (s *Server) handleUploadAsset(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")
	releaseID, err := strconv.ParseInt(chi.URLParam(r, "releaseID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid release ID")
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read body")
		return
	}
	contentType := r.Header.Get("Content-Type")
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}

	s.mu.Lock()
	s.nextID++
	asset := &github.ReleaseAsset{
		ID:          github.Ptr(s.nextID),
		Name:        github.Ptr(name),
		ContentType: github.Ptr(contentType),
		Size:        github.Ptr(len(body)),
	}
	s.assets[releaseID] = append(s.assets[releaseID], asset)
	s.uploads = append(s.uploads, Upload{
		Owner:       owner,
		Repo:        repo,
		ReleaseID:   releaseID,
		Name:        name,
		ContentType: contentType,
		Body:        body,
	})
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, asset)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
