// ABOUTME: Authority-based merging of plugin records from overlapping sources
// ABOUTME: Non-destructive field overlay with deterministic tie-breaking

package merge

import (
	"plugindex-api/core/domain"
)

// IsMoreAuthoritative reports whether a describes the same plugin from a
// different and more authoritative repository than b. The original author's
// repository beats the community mirror: with two different repository URLs
// the more recently updated side wins, ties broken by star count. When
// either side lacks a repository URL, or both carry the same one, no
// authority distinction can be made and the result is false.
func IsMoreAuthoritative(a, b domain.Record) bool {
	aURL := domain.StringField(a, domain.FieldRepoURL)
	bURL := domain.StringField(b, domain.FieldRepoURL)
	if aURL == "" || bURL == "" || aURL == bURL {
		return false
	}

	aUpdated := domain.Int64Field(a, domain.FieldUpdatedAt)
	bUpdated := domain.Int64Field(b, domain.FieldUpdatedAt)
	switch {
	case aUpdated > bUpdated:
		return true
	case aUpdated == bUpdated:
		return domain.Int64Field(a, domain.FieldRepoStars) > domain.Int64Field(b, domain.FieldRepoStars)
	default:
		return false
	}
}

// Merge reconciles newer scraped data with an existing record. By default the
// newer side wins field conflicts, but when the old record descends from a
// more authoritative repository its fields win instead. In either direction a
// present value is never replaced by an absent one, so a record's field set
// only ever grows. The timestamps are exempt from the overlay: updated_at
// keeps the latest and created_at the earliest of the two sides.
//
// Merge never mutates its arguments.
func Merge(old, new domain.Record) domain.Record {
	var merged domain.Record
	if IsMoreAuthoritative(old, new) {
		merged = overlay(new, old)
	} else {
		merged = overlay(old, new)
	}

	if domain.Present(old, domain.FieldUpdatedAt) && domain.Present(new, domain.FieldUpdatedAt) {
		merged[domain.FieldUpdatedAt] = max64(
			domain.Int64Field(old, domain.FieldUpdatedAt),
			domain.Int64Field(new, domain.FieldUpdatedAt),
		)
	}
	if domain.Present(old, domain.FieldCreatedAt) && domain.Present(new, domain.FieldCreatedAt) {
		merged[domain.FieldCreatedAt] = min64(
			domain.Int64Field(old, domain.FieldCreatedAt),
			domain.Int64Field(new, domain.FieldCreatedAt),
		)
	}

	return merged
}

// overlay returns base updated with every present field of top. Absent (nil
// or missing) top fields never clobber base values.
func overlay(base, top domain.Record) domain.Record {
	out := base.Clone()
	for k, v := range top {
		switch vv := v.(type) {
		case nil:
			continue
		case []string:
			out[k] = append([]string(nil), vv...)
		case []any:
			out[k] = append([]any(nil), vv...)
		default:
			out[k] = v
		}
	}
	return out
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
