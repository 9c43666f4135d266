// ABOUTME: Scrape cycle orchestration feeding all three sources into ingestion
// ABOUTME: Discovers scripts, then ingests package-index, mirror, and author-repo bags

package cycle

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"plugindex-api/core/domain"
	"plugindex-api/core/errors"
	"plugindex-api/core/interfaces"
)

// ScriptSource produces package-index attribute bags.
type ScriptSource interface {
	DiscoverRecent(ctx context.Context) ([]string, error)
	DiscoverAll(ctx context.Context) ([]string, error)
	FetchScript(ctx context.Context, scriptID string) (domain.Record, error)
}

// RepoSource produces author-repository and community-mirror attribute bags.
type RepoSource interface {
	FetchRepo(ctx context.Context, owner, name string) (domain.Record, error)
	FetchMirror(ctx context.Context, name string) (domain.Record, error)
}

// Ingestor reconciles one scraped attribute bag into the canonical store.
type Ingestor interface {
	Ingest(ctx context.Context, scraped domain.Record, repoHint domain.Record) error
}

// Runner drives one scrape cycle. Every discovered script contributes up to
// three bags to ingestion: its package-index data, its community mirror's
// data, and its author repository's data. Ingesting each source separately
// is what lets the authority merge weigh their timestamps and star counts
// against each other.
type Runner struct {
	deps    interfaces.Dependencies
	scripts ScriptSource
	repos   RepoSource
	ingest  Ingestor
}

// NewRunner creates a scrape cycle runner from its collaborators.
func NewRunner(deps interfaces.Dependencies, scripts ScriptSource, repos RepoSource, ingest Ingestor) *Runner {
	return &Runner{
		deps:    deps,
		scripts: scripts,
		repos:   repos,
		ingest:  ingest,
	}
}

// Run executes one cycle. full selects the slow whole-listing crawl used for
// backfills; the default discovers from the recent-scripts feed. A failure on
// one script never aborts the rest of the cycle.
func (r *Runner) Run(ctx context.Context, full bool) error {
	var ids []string
	var err error
	if full {
		ids, err = r.scripts.DiscoverAll(ctx)
	} else {
		ids, err = r.scripts.DiscoverRecent(ctx)
	}
	if err != nil {
		return errors.WrapError(err, "script discovery failed")
	}

	var ingested, failed int
	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := r.runScript(ctx, id); err != nil {
			r.deps.Logger.Warn("script ingestion failed", map[string]interface{}{
				"script_id": id,
				"error":     err.Error(),
			})
			failed++
			continue
		}
		ingested++
	}

	r.deps.Logger.Info("scrape cycle finished", map[string]interface{}{
		"discovered": len(ids),
		"ingested":   ingested,
		"failed":     failed,
	})
	return nil
}

// runScript ingests one script's package-index bag, then enriches the record
// with the mirror and author-repository sources. The package-index bag goes
// first so the enrichment bags have a canonical record to match against.
func (r *Runner) runScript(ctx context.Context, id string) error {
	scraped, err := r.scripts.FetchScript(ctx, id)
	if err != nil {
		return err
	}
	if err := r.ingest.Ingest(ctx, scraped, nil); err != nil {
		return err
	}

	r.ingestMirror(ctx, scraped)
	r.ingestRepo(ctx, scraped)
	return nil
}

// ingestMirror feeds the community mirror's bag into ingestion. Scripts
// without a mirror are routine and skipped quietly.
func (r *Runner) ingestMirror(ctx context.Context, scraped domain.Record) {
	name := strings.TrimSpace(domain.StringField(scraped, domain.FieldIndexName))
	if name == "" {
		return
	}

	mirror, err := r.repos.FetchMirror(ctx, name)
	if err != nil {
		if errors.IsNotFound(err) {
			r.deps.Logger.Debug("no mirror for script", map[string]interface{}{"name": name})
		} else {
			r.deps.Logger.Warn("mirror fetch failed", map[string]interface{}{
				"name":  name,
				"error": err.Error(),
			})
		}
		return
	}

	if err := r.ingest.Ingest(ctx, mirror, nil); err != nil {
		r.deps.Logger.Warn("mirror ingestion failed", map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		})
	}
}

// ingestRepo locates the script's author repository and feeds its bag into
// ingestion. Many scripts have no known repository; that is not an error.
func (r *Runner) ingestRepo(ctx context.Context, scraped domain.Record) {
	owner, name := r.repoRef(ctx, scraped)
	if owner == "" {
		return
	}

	bag, err := r.repos.FetchRepo(ctx, owner, name)
	if err != nil {
		if errors.IsNotFound(err) {
			r.deps.Logger.Debug("author repository gone", map[string]interface{}{
				"owner": owner,
				"repo":  name,
			})
		} else {
			r.deps.Logger.Warn("author repository fetch failed", map[string]interface{}{
				"owner": owner,
				"repo":  name,
				"error": err.Error(),
			})
		}
		return
	}

	if err := r.ingest.Ingest(ctx, bag, nil); err != nil {
		r.deps.Logger.Warn("author repository ingestion failed", map[string]interface{}{
			"owner": owner,
			"repo":  name,
			"error": err.Error(),
		})
	}
}

// repoRef resolves the script's author repository: a repository URL already
// merged into the canonical record wins; otherwise the scraped description
// blocks are searched for a repository link, which is how author repositories
// are discovered in the first place.
func (r *Runner) repoRef(ctx context.Context, scraped domain.Record) (string, string) {
	if id := domain.StringField(scraped, domain.FieldIndexID); id != "" && r.deps.Store != nil {
		records, err := r.deps.Store.GetAllByIndex(ctx, interfaces.IndexPackageID, id)
		if err == nil && len(records) == 1 {
			if owner, name, ok := SplitRepoURL(domain.StringField(records[0], domain.FieldRepoURL)); ok {
				return owner, name
			}
		}
	}

	for _, field := range []string{
		domain.FieldIndexLongDesc,
		domain.FieldIndexInstallDetails,
		domain.FieldIndexShortDesc,
	} {
		if owner, name, ok := findRepoLink(domain.StringField(scraped, field)); ok {
			return owner, name
		}
	}
	return "", ""
}

var repoLinkPattern = regexp.MustCompile(`github\.com/([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)`)

// findRepoLink returns the first repository reference mentioned in text.
func findRepoLink(text string) (string, string, bool) {
	m := repoLinkPattern.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSuffix(m[2], ".git"), true
}

// SplitRepoURL extracts the owner and repository name from a repository URL.
func SplitRepoURL(repoURL string) (string, string, bool) {
	if repoURL == "" {
		return "", "", false
	}
	u, err := url.Parse(repoURL)
	if err != nil {
		return "", "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), true
}
