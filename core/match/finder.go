// ABOUTME: Locates existing canonical records that plausibly describe scraped data
// ABOUTME: Exact package-index id lookup with a conservative name/repo fallback

package match

import (
	"context"

	"plugindex-api/core/domain"
	"plugindex-api/core/errors"
	"plugindex-api/core/interfaces"
)

// Finder matches newly scraped attribute bags against canonical records.
// Read-only: it never mutates the store.
type Finder struct {
	store interfaces.RecordStore
}

// NewFinder creates a finder backed by the given record store.
func NewFinder(store interfaces.RecordStore) *Finder {
	return &Finder{store: store}
}

// FindCandidates returns every canonical record that plausibly describes the
// same plugin as scraped. repoHint optionally carries repository attributes
// when scraped came from a repository source; it may be nil.
//
// With a package-index id present this is an exact secondary-index lookup,
// ideally yielding zero or one record; more than one is surfaced to the
// caller rather than resolved here. Without an id the match degrades to a
// repository-identity heuristic: exact repo URL equality, else
// normalized-name equality. That fallback has a known false-negative risk
// (distinct plugins can share generic names) and intentionally errs toward
// missing a match over inventing one.
func (f *Finder) FindCandidates(ctx context.Context, scraped domain.Record, repoHint domain.Record) ([]domain.Record, error) {
	if id := domain.StringField(scraped, domain.FieldIndexID); id != "" {
		records, err := f.store.GetAllByIndex(ctx, interfaces.IndexPackageID, id)
		if err != nil {
			return nil, errors.WrapError(err, "package-index id lookup failed")
		}
		return records, nil
	}

	return f.findByRepoIdentity(ctx, scraped, repoHint)
}

// findByRepoIdentity scans the corpus for records sharing the scraped data's
// repository URL or normalized name. A full scan is acceptable here: the
// corpus is a few thousand records and the no-id path is the rare case.
func (f *Finder) findByRepoIdentity(ctx context.Context, scraped domain.Record, repoHint domain.Record) ([]domain.Record, error) {
	repoURL := domain.StringField(scraped, domain.FieldRepoURL)
	if repoURL == "" && repoHint != nil {
		repoURL = domain.StringField(repoHint, domain.FieldRepoURL)
	}

	name := domain.DisplayName(scraped)
	if name == "" && repoHint != nil {
		name = domain.StringField(repoHint, domain.FieldRepoName)
	}
	normalized := domain.NormalizeName(name)

	if repoURL == "" && normalized == "" {
		return nil, nil
	}

	records, err := f.store.ScanAll(ctx)
	if err != nil {
		return nil, errors.WrapError(err, "repo-identity scan failed")
	}

	var matches []domain.Record
	for _, rec := range records {
		if repoURL != "" && domain.StringField(rec, domain.FieldRepoURL) == repoURL {
			matches = append(matches, rec)
			continue
		}
		if normalized == "" {
			continue
		}
		recNorm := domain.StringField(rec, domain.FieldNormalizedName)
		if recNorm == "" {
			recNorm = domain.NormalizeName(domain.DisplayName(rec))
		}
		if recNorm == normalized {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}
