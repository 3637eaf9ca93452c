package testhelpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-github/v62/github"
)

// MockGitHubServerConfig configures and records the behavior of a mock GitHub server
type MockGitHubServerConfig struct {
	mu sync.Mutex

	// PRs maps head branch names to open pull requests
	PRs map[string]*github.PullRequest
	// CreatedPRs stores PRs that were created, in order
	CreatedPRs []*github.PullRequest
	// UpdatedPRs stores the latest state of PRs that were edited
	UpdatedPRs map[int]*github.PullRequest
	// Owner and Repo for the mock server
	Owner string
	Repo  string
}

// NewMockGitHubServerConfig creates a new mock server config with defaults
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		PRs:        make(map[string]*github.PullRequest),
		UpdatedPRs: make(map[int]*github.PullRequest),
		Owner:      "owner",
		Repo:       "repo",
	}
}

// Created returns a snapshot of the created pull requests
func (c *MockGitHubServerConfig) Created() []*github.PullRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*github.PullRequest(nil), c.CreatedPRs...)
}

// Updated returns the last edit recorded for a pull request, or nil
func (c *MockGitHubServerConfig) Updated(number int) *github.PullRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.UpdatedPRs[number]
}

// NewMockGitHubServer creates an httptest server that mocks the pull request endpoints
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	t.Helper()
	if config == nil {
		config = NewMockGitHubServerConfig()
	}

	base := "/repos/" + config.Owner + "/" + config.Repo + "/pulls"
	mux := http.NewServeMux()

	mux.HandleFunc("POST "+base, func(w http.ResponseWriter, r *http.Request) {
		var newPR github.NewPullRequest
		if err := json.NewDecoder(r.Body).Decode(&newPR); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		config.mu.Lock()
		number := len(config.CreatedPRs) + 1
		pr := &github.PullRequest{
			Number:  github.Int(number),
			Title:   newPR.Title,
			Body:    newPR.Body,
			State:   github.String("open"),
			Head:    &github.PullRequestBranch{Ref: newPR.Head},
			Base:    &github.PullRequestBranch{Ref: newPR.Base},
			Draft:   newPR.Draft,
			HTMLURL: github.String(fmt.Sprintf("https://github.com/%s/%s/pull/%d", config.Owner, config.Repo, number)),
		}
		config.CreatedPRs = append(config.CreatedPRs, pr)
		config.PRs[newPR.GetHead()] = pr
		config.mu.Unlock()

		writeJSON(w, http.StatusCreated, pr)
	})

	mux.HandleFunc("GET "+base, func(w http.ResponseWriter, r *http.Request) {
		head := r.URL.Query().Get("head")
		branch := strings.TrimPrefix(head, config.Owner+":")

		config.mu.Lock()
		pr, ok := config.PRs[branch]
		config.mu.Unlock()

		if !ok {
			writeJSON(w, http.StatusOK, []*github.PullRequest{})
			return
		}
		writeJSON(w, http.StatusOK, []*github.PullRequest{pr})
	})

	mux.HandleFunc("PATCH "+base+"/{number}", func(w http.ResponseWriter, r *http.Request) {
		number, err := strconv.Atoi(r.PathValue("number"))
		if err != nil {
			http.Error(w, "invalid PR number", http.StatusBadRequest)
			return
		}

		// The API sends base as a plain string
		var update struct {
			Title *string `json:"title,omitempty"`
			Body  *string `json:"body,omitempty"`
			Base  *string `json:"base,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		config.mu.Lock()
		defer config.mu.Unlock()

		var pr *github.PullRequest
		for _, existing := range config.PRs {
			if existing.GetNumber() == number {
				pr = existing
				break
			}
		}
		if pr == nil {
			http.Error(w, "PR not found", http.StatusNotFound)
			return
		}

		if update.Title != nil {
			pr.Title = update.Title
		}
		if update.Body != nil {
			pr.Body = update.Body
		}
		if update.Base != nil {
			pr.Base = &github.PullRequestBranch{Ref: update.Base}
		}
		config.UpdatedPRs[number] = pr

		writeJSON(w, http.StatusOK, pr)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// NewMockGitHubClient creates a GitHub client configured to use a mock server
func NewMockGitHubClient(t *testing.T, config *MockGitHubServerConfig) (*github.Client, string, string) {
	t.Helper()
	server := NewMockGitHubServer(t, config)
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL
	client.UploadURL = baseURL
	return client, config.Owner, config.Repo
}

// NewSamplePullRequest builds an open pull request for seeding the mock server
func NewSamplePullRequest(number int, head, base string) *github.PullRequest {
	return &github.PullRequest{
		Number:  github.Int(number),
		Title:   github.String(head),
		State:   github.String("open"),
		Head:    &github.PullRequestBranch{Ref: github.String(head)},
		Base:    &github.PullRequestBranch{Ref: github.String(base)},
		HTMLURL: github.String(fmt.Sprintf("https://github.com/owner/repo/pull/%d", number)),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
