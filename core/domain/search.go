// ABOUTME: SearchEntry is the derived search projection of a canonical plugin record
// ABOUTME: Ephemeral view rebuilt wholesale on every index build, never persisted

package domain

// SearchEntry projects a Record down to the fields needed to display, filter
// and sort search results, plus the computed keyword set used for matching
// user queries. Entries are rebuilt from the store on every index build; the
// store remains the system of record.
type SearchEntry struct {
	// Slug identifies the canonical record this entry was projected from.
	Slug string `json:"slug"`

	// Name, Author and Homepage are derived with the same source priority
	// used when assigning slugs.
	Name     string `json:"name"`
	Author   string `json:"author"`
	Homepage string `json:"homepage"`

	// Unix timestamps in seconds.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`

	Tags []string `json:"tags"`

	// Rating is the package-index user rating.
	Rating float64 `json:"rating"`

	// ShortDesc prefers the package index's description over the repository's.
	ShortDesc string `json:"short_desc"`

	RepoURL     string `json:"repo_url"`
	RepoStars   int64  `json:"repo_stars"`
	MirrorStars int64  `json:"mirror_stars"`

	// BundleUsers is the combined bundle-manager reference count across the
	// author repository and the mirror; the primary ranking signal.
	BundleUsers int64 `json:"bundle_users"`

	// Keywords is the lowercased token set extracted from the record's
	// textual fields, sorted for deterministic output.
	Keywords []string `json:"keywords"`
}
