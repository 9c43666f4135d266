// ABOUTME: Record is the canonical plugin document assembled from every scraper source
// ABOUTME: Defines the field schema, zero-value defaults and typed coercion accessors

package domain

import (
	"strings"
)

// Record is a plugin document keyed by the schema constants below. A field is
// absent when its key is missing or its value is nil; scrapers only populate
// the keys they actually observed, so partial records are the normal case.
type Record map[string]any

// Primary key and cross-source fields.
const (
	// FieldSlug is the human-readable permalink id, eg. "python-2".
	// Assigned exactly once at insert time and never reassigned.
	FieldSlug = "slug"

	// FieldNormalizedName is a best-effort join key used to associate data
	// from different sources, eg. "nerdtree" instead of "the-NERD-Tree.vim".
	FieldNormalizedName = "normalized_name"

	// FieldTags holds curator-assigned categories, eg. ["C/C++", "autocomplete"].
	FieldTags = "tags"

	// Unix timestamps in seconds.
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// Fields scraped from the package-index site.
const (
	FieldIndexID             = "pkgindex_id"
	FieldIndexName           = "pkgindex_name"
	FieldIndexAuthor         = "pkgindex_author"
	FieldIndexURL            = "pkgindex_url"
	FieldIndexType           = "pkgindex_type"
	FieldIndexRating         = "pkgindex_rating"
	FieldIndexNumRaters      = "pkgindex_num_raters"
	FieldIndexDownloads      = "pkgindex_downloads"
	FieldIndexShortDesc      = "pkgindex_short_desc"
	FieldIndexLongDesc       = "pkgindex_long_desc"
	FieldIndexInstallDetails = "pkgindex_install_details"
)

// Fields scraped from the author's repository.
const (
	FieldRepoOwner     = "repo_owner"
	FieldRepoName      = "repo_name"
	FieldRepoURL       = "repo_url"
	FieldRepoStars     = "repo_stars"
	FieldRepoShortDesc = "repo_short_desc"
	FieldRepoHomepage  = "repo_homepage"
	FieldRepoReadme    = "repo_readme"
)

// Fields scraped from the community mirror of the author's repository.
const (
	FieldMirrorRepoName = "mirror_repo_name"
	FieldMirrorStars    = "mirror_stars"
)

// Bundle-manager reference counts derived elsewhere: how many user configs
// reference the author's repository or the mirror, respectively.
const (
	FieldBundleUsers       = "bundle_users"
	FieldMirrorBundleUsers = "mirror_bundle_users"
)

// Defaults returns a record with every schema field present at its zero value,
// so records built on top of it never expose missing keys to consumers.
// FieldSlug is deliberately omitted: callers assign it exactly once at insert
// time. FieldIndexID defaults to nil (absent) so an unset id can never collide
// in the package-index secondary index.
func Defaults() Record {
	return Record{
		FieldNormalizedName: "",
		FieldTags:           []string{},
		FieldCreatedAt:      int64(0),
		FieldUpdatedAt:      int64(0),

		FieldIndexID:             nil,
		FieldIndexName:           "",
		FieldIndexAuthor:         "",
		FieldIndexURL:            "",
		FieldIndexType:           "",
		FieldIndexRating:         float64(0),
		FieldIndexNumRaters:      int64(0),
		FieldIndexDownloads:      int64(0),
		FieldIndexShortDesc:      "",
		FieldIndexLongDesc:       "",
		FieldIndexInstallDetails: "",

		FieldRepoOwner:     "",
		FieldRepoName:      "",
		FieldRepoURL:       "",
		FieldRepoStars:     int64(0),
		FieldRepoShortDesc: "",
		FieldRepoHomepage:  "",
		FieldRepoReadme:    "",

		FieldMirrorRepoName: "",
		FieldMirrorStars:    int64(0),

		FieldBundleUsers:       int64(0),
		FieldMirrorBundleUsers: int64(0),
	}
}

// Present reports whether the field carries a value. A nil value counts as
// absent, mirroring how scrapers mark fields they could not determine.
func Present(r Record, key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// StringField returns the field as a string, or "" when absent or non-string.
func StringField(r Record, key string) string {
	s, _ := r[key].(string)
	return s
}

// Int64Field returns the field as an int64. Numeric values widen to float64
// on a JSON round-trip through the store, so all numeric kinds are coerced.
func Int64Field(r Record, key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	}
	return 0
}

// FloatField returns the field as a float64, coercing integer kinds.
func FloatField(r Record, key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// StringsField returns the field as a string slice. JSON decoding yields
// []interface{}, so both representations are accepted; non-string elements
// are skipped.
func StringsField(r Record, key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Clone returns a copy of the record that shares no containers with the
// original. Slice-valued fields are copied element-wise; everything else in
// the schema is a scalar.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		switch vv := v.(type) {
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

// DisplayName picks the record's human-facing name, preferring the package
// index's display name, then the author repository, then the mirror.
func DisplayName(r Record) string {
	if s := StringField(r, FieldIndexName); s != "" {
		return s
	}
	if s := StringField(r, FieldRepoName); s != "" {
		return s
	}
	return StringField(r, FieldMirrorRepoName)
}

// AuthorName picks the record's author, preferring the package index's
// attribution over the repository owner.
func AuthorName(r Record) string {
	if s := StringField(r, FieldIndexAuthor); s != "" {
		return s
	}
	return StringField(r, FieldRepoOwner)
}

// Homepage picks the record's homepage, preferring the repository homepage
// over the package-index script page.
func Homepage(r Record) string {
	if s := StringField(r, FieldRepoHomepage); s != "" {
		return s
	}
	return StringField(r, FieldIndexURL)
}

// NormalizeName reduces a plugin name to a join key usable across sources:
// lowercased, with separators and a few noise affixes removed, so
// "The-NERD-Tree.vim" and "nerdtree" both normalize to "nerdtree".
// Purely heuristic; distinct plugins with generic names can still collide.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.TrimSuffix(s, ".vim")
	s = strings.TrimSuffix(s, ".nvim")
	for _, sep := range []string{"-", "_", ".", " "} {
		s = strings.ReplaceAll(s, sep, "")
	}
	s = strings.TrimPrefix(s, "the")
	s = strings.TrimPrefix(s, "vim")
	s = strings.TrimSuffix(s, "vim")
	return s
}
