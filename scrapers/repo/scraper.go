// ABOUTME: Scraper for repository hosting metadata producing repo_* and mirror_* bags
// ABOUTME: Talks to the hosting JSON API and extracts readme text with go-readability

package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/time/rate"

	"plugindex-api/core/domain"
	"plugindex-api/core/errors"
	"plugindex-api/core/interfaces"
	"plugindex-api/pkg/config"
)

// mirrorOwner is the community account that mirrors every package-index
// script as its own repository.
const mirrorOwner = "vim-scripts"

// Scraper fetches author-repository and mirror metadata. It produces raw
// attribute bags for the ingestion pipeline and never touches the store.
type Scraper struct {
	deps    interfaces.Dependencies
	cfg     config.ScraperConfig
	limiter *rate.Limiter
}

// NewScraper creates a repository scraper with a polite request rate.
func NewScraper(deps interfaces.Dependencies, cfg config.ScraperConfig) *Scraper {
	return &Scraper{
		deps:    deps,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// repoPayload is the subset of the hosting API's repository document we use.
type repoPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Homepage    string `json:"homepage"`
	HTMLURL     string `json:"html_url"`
	Stars       int64  `json:"stargazers_count"`
	CreatedAt   string `json:"created_at"`
	PushedAt    string `json:"pushed_at"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// FetchRepo scrapes one author repository into a repo_* attribute bag,
// including readme text when the readme endpoint yields one.
func (s *Scraper) FetchRepo(ctx context.Context, owner, name string) (domain.Record, error) {
	payload, err := s.fetchPayload(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	rec := domain.Record{
		domain.FieldRepoOwner:     payload.Owner.Login,
		domain.FieldRepoName:      payload.Name,
		domain.FieldRepoURL:       payload.HTMLURL,
		domain.FieldRepoStars:     payload.Stars,
		domain.FieldRepoShortDesc: payload.Description,
		domain.FieldRepoHomepage:  payload.Homepage,
	}
	if created := parseTimestamp(payload.CreatedAt); created != 0 {
		rec[domain.FieldCreatedAt] = created
	}
	if pushed := parseTimestamp(payload.PushedAt); pushed != 0 {
		rec[domain.FieldUpdatedAt] = pushed
	}

	if readme, err := s.fetchReadme(ctx, owner, name); err != nil {
		s.deps.Logger.Debug("readme extraction failed", map[string]interface{}{
			"owner": owner,
			"repo":  name,
			"error": err.Error(),
		})
	} else if readme != "" {
		rec[domain.FieldRepoReadme] = readme
	}

	return rec, nil
}

// FetchMirror scrapes the community mirror of a script into a mirror_* bag.
// A missing mirror is normal and reported as NotFoundError.
func (s *Scraper) FetchMirror(ctx context.Context, name string) (domain.Record, error) {
	payload, err := s.fetchPayload(ctx, mirrorOwner, name)
	if err != nil {
		return nil, err
	}

	return domain.Record{
		domain.FieldMirrorRepoName: payload.Name,
		domain.FieldMirrorStars:    payload.Stars,
	}, nil
}

// fetchPayload performs the rate-limited repository document request.
func (s *Scraper) fetchPayload(ctx context.Context, owner, name string) (*repoPayload, error) {
	if owner == "" || name == "" {
		return nil, &errors.InvalidInputError{Field: "repo", Message: "owner and name cannot be empty"}
	}
	if s.deps.HTTPClient == nil {
		return nil, &errors.InvalidInputError{Field: "http_client", Message: "HTTP client not configured"}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s", s.cfg.RepoAPIBaseURL, url.PathEscape(owner), url.PathEscape(name))
	resp, err := s.deps.HTTPClient.Get(ctx, endpoint)
	if err != nil {
		return nil, errors.WrapError(err, "fetching repository document")
	}
	defer resp.Body().Close()

	switch resp.StatusCode() {
	case 200:
	case 404:
		return nil, &errors.NotFoundError{Resource: "repository", ID: owner + "/" + name}
	default:
		return nil, &errors.ExternalAPIError{
			API:        "repo",
			StatusCode: resp.StatusCode(),
			Message:    "repository document returned non-200 status",
		}
	}

	body, err := io.ReadAll(resp.Body())
	if err != nil {
		return nil, err
	}

	var payload repoPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.WrapError(err, "decoding repository document")
	}
	return &payload, nil
}

// fetchReadme pulls the rendered readme page and reduces it to readable text.
func (s *Scraper) fetchReadme(ctx context.Context, owner, name string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/readme", s.cfg.RepoAPIBaseURL, url.PathEscape(owner), url.PathEscape(name))
	resp, err := s.deps.HTTPClient.Get(ctx, endpoint)
	if err != nil {
		return "", err
	}
	defer resp.Body().Close()

	if resp.StatusCode() != 200 {
		return "", &errors.NotFoundError{Resource: "readme", ID: owner + "/" + name}
	}

	pageURL, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	article, err := readability.FromReader(resp.Body(), pageURL)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(article.TextContent), nil
}

// parseTimestamp converts the API's RFC3339 timestamps to unix seconds,
// returning zero when absent or unparseable.
func parseTimestamp(value string) int64 {
	if value == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return 0
	}
	return t.Unix()
}
