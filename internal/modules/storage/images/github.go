package images

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ecoexplorer/core/internal/config"
	"github.com/google/go-github/v66/github"
)

const rawContentHost = "https://raw.githubusercontent.com"

// GitHubStore commits blobs into a folder of a GitHub repository through the contents API.
type GitHubStore struct {
	client *github.Client
	owner  string
	repo   string
	branch string
	dir    string
}

// NewGitHubStore authenticates with cfg.Token; httpClient may be nil.
func NewGitHubStore(cfg config.GitHubConfig, httpClient *http.Client) *GitHubStore {
	branch := cfg.Branch
	if branch == "" {
		branch = "main"
	}
	return &GitHubStore{
		client: github.NewClient(httpClient).WithAuthToken(cfg.Token),
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		branch: branch,
		dir:    strings.Trim(cfg.Path, "/"),
	}
}

// WithBaseURL points the client at another API root (GitHub Enterprise or tests).
func (s *GitHubStore) WithBaseURL(raw string) (*GitHubStore, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	s.client.BaseURL = u
	return s, nil
}

func (s *GitHubStore) path(name string) string {
	if s.dir == "" {
		return name
	}
	return s.dir + "/" + name
}

func (s *GitHubStore) Put(ctx context.Context, name string, data []byte, _ string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	_, _, err := s.client.Repositories.CreateFile(ctx, s.owner, s.repo, s.path(name), &github.RepositoryContentFileOptions{
		Message: github.String("Upload " + name),
		Content: data,
		Branch:  github.String(s.branch),
	})
	if err != nil {
		return "", fmt.Errorf("github upload failed: %s", githubMessage(err))
	}
	return s.URL(name), nil
}

// Delete looks up the blob SHA first, as the contents API requires it.
func (s *GitHubStore) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	sha, err := s.sha(ctx, name)
	if err != nil {
		return fmt.Errorf("github delete failed: %s", githubMessage(err))
	}
	if sha == "" {
		return nil
	}
	_, _, err = s.client.Repositories.DeleteFile(ctx, s.owner, s.repo, s.path(name), &github.RepositoryContentFileOptions{
		Message: github.String("Delete " + name),
		SHA:     github.String(sha),
		Branch:  github.String(s.branch),
	})
	if err != nil && !isGitHubNotFound(err) {
		return fmt.Errorf("github delete failed: %s", githubMessage(err))
	}
	return nil
}

func (s *GitHubStore) Exists(ctx context.Context, name string) (bool, error) {
	if !ValidName(name) {
		return false, nil
	}
	sha, err := s.sha(ctx, name)
	if err != nil {
		return false, fmt.Errorf("github lookup failed: %s", githubMessage(err))
	}
	return sha != "", nil
}

// sha returns "" when the file does not exist.
func (s *GitHubStore) sha(ctx context.Context, name string) (string, error) {
	file, _, _, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, s.path(name), &github.RepositoryContentGetOptions{Ref: s.branch})
	if isGitHubNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if file == nil {
		return "", nil
	}
	return file.GetSHA(), nil
}

func (s *GitHubStore) URL(name string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", rawContentHost, s.owner, s.repo, s.branch, s.path(name))
}

func isGitHubNotFound(err error) bool {
	var ge *github.ErrorResponse
	return errors.As(err, &ge) && ge.Response != nil && ge.Response.StatusCode == http.StatusNotFound
}

// githubMessage surfaces the API's own message when there is one.
func githubMessage(err error) string {
	var ge *github.ErrorResponse
	if errors.As(err, &ge) && ge.Message != "" {
		return ge.Message
	}
	return err.Error()
}
