package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/muntasir-dev/MusicStream/core/liberr"
)

// Entry is one item of a repository contents listing.
type Entry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"` // "file" or "dir"
	DownloadURL string `json:"download_url"`
	Size        int64  `json:"size"`
}

// Client is a thin client for the GitHub repository contents API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a contents API client. baseURL defaults to the public
// GitHub API when empty. token is optional and raises the rate limit.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: time.Second * 15,
		},
	}
}

// ListContents fetches the listing of one path inside a repository. path may
// be empty for the repository root.
func (c *Client) ListContents(ctx context.Context, owner, repo, path string) ([]Entry, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/contents", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))
	if path != "" {
		escaped := make([]string, 0, 4)
		for _, seg := range strings.Split(path, "/") {
			escaped = append(escaped, url.PathEscape(seg))
		}
		u += "/" + strings.Join(escaped, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", liberr.ErrRemoteFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: listing %s/%s/%s returned status %d",
			liberr.ErrRemoteFetchFailed, owner, repo, path, resp.StatusCode)
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: decoding listing for %s/%s/%s: %v",
			liberr.ErrRemoteFetchFailed, owner, repo, path, err)
	}
	return entries, nil
}

// repoURLPattern matches repository URLs of the form .../<owner>/<repo>, with
// an optional .git suffix and trailing slash.
var repoURLPattern = regexp.MustCompile(`^https?://[^/\s]+/([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+?)(?:\.git)?/?$`)

// ParseRepoURL extracts the owner and repository name from a repository URL.
func ParseRepoURL(locationURI string) (owner, repo string, err error) {
	m := repoURLPattern.FindStringSubmatch(strings.TrimSpace(locationURI))
	if m == nil {
		return "", "", fmt.Errorf("%w: %q", liberr.ErrInvalidLocationFormat, locationURI)
	}
	return m[1], m[2], nil
}
