// ABOUTME: Ingestion pipeline upserting scraped attribute bags into the canonical store
// ABOUTME: Orchestrates match lookup, authority merge and slug assignment per scrape

package ingest

import (
	"context"

	"plugindex-api/core/domain"
	"plugindex-api/core/errors"
	"plugindex-api/core/interfaces"
	"plugindex-api/core/match"
	"plugindex-api/core/merge"
	"plugindex-api/core/slugger"
)

// Service reconciles scraped plugin data into canonical records. Each Ingest
// call performs one match lookup followed by at most one store write.
//
// The read-then-write sequence is not atomic: concurrent ingests of data
// describing the same plugin can both observe no match and insert duplicates,
// or race to overwrite each other's merge. Callers must serialize ingestion
// of potentially-overlapping data externally, eg. a single-writer ingestion
// process.
type Service struct {
	deps   interfaces.Dependencies
	finder *match.Finder
}

// NewService creates an ingestion service from the injected collaborators.
func NewService(deps interfaces.Dependencies) *Service {
	return &Service{
		deps:   deps,
		finder: match.NewFinder(deps.Store),
	}
}

// Ingest matches scraped data against the corpus and either inserts a new
// canonical record, merges into the single match, or reports an ambiguity.
// repoHint optionally carries repository attributes for the match heuristics
// and may be nil.
//
// The MANY-match case is a reported, skipped outcome, not an error: the
// corpus is left unchanged and the diagnostic sink receives the full scraped
// payload plus every candidate slug for manual resolution.
func (s *Service) Ingest(ctx context.Context, scraped domain.Record, repoHint domain.Record) error {
	candidates, err := s.finder.FindCandidates(ctx, scraped, repoHint)
	if err != nil {
		return err
	}

	switch len(candidates) {
	case 0:
		return s.insertNew(ctx, scraped)
	case 1:
		return s.mergeExisting(ctx, candidates[0], scraped)
	default:
		slugs := make([]string, 0, len(candidates))
		for _, c := range candidates {
			slugs = append(slugs, domain.StringField(c, domain.FieldSlug))
		}
		s.deps.Diagnostics.Report("scraped data matches multiple plugins", map[string]interface{}{
			"scraped_data":    map[string]any(scraped),
			"candidate_slugs": slugs,
			"matches":         len(candidates),
		})
		return nil
	}
}

// insertNew builds a full-schema record from the scraped bag, assigns a fresh
// slug and inserts it. Every declared field is present with its zero-value
// default so downstream consumers never see missing keys.
func (s *Service) insertNew(ctx context.Context, scraped domain.Record) error {
	name := domain.DisplayName(scraped)

	// A store failure during the availability check must surface as a
	// failure, not as a free slug.
	var lookupErr error
	slug, err := slugger.Generate(name, func(candidate string) bool {
		_, getErr := s.deps.Store.Get(ctx, candidate)
		if getErr == nil {
			return true
		}
		if !errors.IsNotFound(getErr) {
			lookupErr = getErr
		}
		return false
	})
	if lookupErr != nil {
		return errors.WrapError(lookupErr, "slug availability check failed")
	}
	if err != nil {
		return err
	}

	record := domain.Defaults()
	for k, v := range scraped.Clone() {
		if v != nil {
			record[k] = v
		}
	}
	record[domain.FieldSlug] = slug
	if domain.StringField(record, domain.FieldNormalizedName) == "" {
		record[domain.FieldNormalizedName] = domain.NormalizeName(name)
	}

	if err := s.deps.Store.Insert(ctx, record); err != nil {
		return errors.WrapError(err, "insert of new plugin failed")
	}

	s.deps.Logger.Info("inserted new plugin", map[string]interface{}{
		"slug": slug,
		"name": name,
	})
	return nil
}

// mergeExisting reconciles scraped data into the matched record and writes
// the result back under the existing slug. The slug and identity are
// preserved: this is an upsert, never a second insert.
func (s *Service) mergeExisting(ctx context.Context, existing, scraped domain.Record) error {
	slug := domain.StringField(existing, domain.FieldSlug)

	merged := merge.Merge(existing, scraped)
	merged[domain.FieldSlug] = slug

	if err := s.deps.Store.Upsert(ctx, merged); err != nil {
		return errors.WrapError(err, "upsert of merged plugin failed")
	}

	s.deps.Logger.Debug("merged scraped data into existing plugin", map[string]interface{}{
		"slug": slug,
	})
	return nil
}

// UpdateTags replaces a record's tag set and keeps the external tag counters
// in step: one increment per added tag, one decrement per removed tag.
func (s *Service) UpdateTags(ctx context.Context, record domain.Record, tags []string) error {
	current := domain.StringsField(record, domain.FieldTags)

	currentSet := make(map[string]bool, len(current))
	for _, t := range current {
		currentSet[t] = true
	}
	nextSet := make(map[string]bool, len(tags))
	for _, t := range tags {
		nextSet[t] = true
	}

	for t := range nextSet {
		if !currentSet[t] {
			if err := s.deps.TagCounters.Increment(ctx, t); err != nil {
				return errors.WrapError(err, "tag count increment failed")
			}
		}
	}
	for t := range currentSet {
		if !nextSet[t] {
			if err := s.deps.TagCounters.Decrement(ctx, t); err != nil {
				return errors.WrapError(err, "tag count decrement failed")
			}
		}
	}

	updated := record.Clone()
	updated[domain.FieldTags] = append([]string(nil), tags...)
	if err := s.deps.Store.Upsert(ctx, updated); err != nil {
		return errors.WrapError(err, "tag update write failed")
	}
	return nil
}
