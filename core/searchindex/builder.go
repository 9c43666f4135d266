// ABOUTME: Builds the ranked, keyword-tokenized search view of the whole corpus
// ABOUTME: Full in-memory snapshot sorted by popularity, stars and rating

package searchindex

import (
	"sort"
	"strings"

	"plugindex-api/core/domain"
	"plugindex-api/core/errors"
)

// searchFields are the record fields mined for search keywords: the name,
// author and short description contributed by each source, plus the tag set.
// String values are whitespace-split; list values are treated as
// pre-tokenized. Anything else is a schema violation.
var searchFields = []string{
	domain.FieldIndexName,
	domain.FieldRepoName,
	domain.FieldMirrorRepoName,
	domain.FieldTags,
	domain.FieldIndexAuthor,
	domain.FieldRepoOwner,
	domain.FieldIndexShortDesc,
	domain.FieldRepoShortDesc,
}

// Build materializes the ranked search snapshot for the given corpus. Every
// record is projected to a SearchEntry and the whole sequence is sorted by
// the composite descending key (bundle references, stars, rating); that
// in-memory ordering, not a store index, is authoritative for default browse
// order because the store cannot multi-sort across its secondary indexes.
//
// A record field that cannot be tokenized fails the whole build with an
// UntokenizableFieldError: it signals a schema breach upstream, and dropping
// or mis-tokenizing the record would hide it.
//
// The result is a full-corpus snapshot meant to be cached and reused across
// many read queries; staleness policy belongs to the caller.
func Build(records []domain.Record) ([]domain.SearchEntry, error) {
	entries := make([]domain.SearchEntry, 0, len(records))
	for _, record := range records {
		entry, err := project(record)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.BundleUsers != b.BundleUsers {
			return a.BundleUsers > b.BundleUsers
		}
		if a.RepoStars != b.RepoStars {
			return a.RepoStars > b.RepoStars
		}
		return a.Rating > b.Rating
	})

	return entries, nil
}

// project reduces a record to the display/filter/sort field subset plus its
// computed keyword set.
func project(record domain.Record) (domain.SearchEntry, error) {
	keywords, err := tokenize(record)
	if err != nil {
		return domain.SearchEntry{}, err
	}

	shortDesc := domain.StringField(record, domain.FieldIndexShortDesc)
	if shortDesc == "" {
		shortDesc = domain.StringField(record, domain.FieldRepoShortDesc)
	}

	return domain.SearchEntry{
		Slug:        domain.StringField(record, domain.FieldSlug),
		Name:        domain.DisplayName(record),
		Author:      domain.AuthorName(record),
		Homepage:    domain.Homepage(record),
		CreatedAt:   domain.Int64Field(record, domain.FieldCreatedAt),
		UpdatedAt:   domain.Int64Field(record, domain.FieldUpdatedAt),
		Tags:        domain.StringsField(record, domain.FieldTags),
		Rating:      domain.FloatField(record, domain.FieldIndexRating),
		ShortDesc:   shortDesc,
		RepoURL:     domain.StringField(record, domain.FieldRepoURL),
		RepoStars:   domain.Int64Field(record, domain.FieldRepoStars),
		MirrorStars: domain.Int64Field(record, domain.FieldMirrorStars),
		BundleUsers: domain.Int64Field(record, domain.FieldBundleUsers) +
			domain.Int64Field(record, domain.FieldMirrorBundleUsers),
		Keywords: keywords,
	}, nil
}

// tokenize unions the lowercased tokens of every search field into a sorted,
// duplicate-free keyword list.
func tokenize(record domain.Record) ([]string, error) {
	seen := map[string]bool{}

	for _, field := range searchFields {
		value, ok := record[field]
		if !ok || value == nil {
			continue
		}

		var tokens []string
		switch v := value.(type) {
		case string:
			tokens = strings.Fields(v)
		case []string:
			tokens = v
		case []any:
			tokens = make([]string, 0, len(v))
			for _, e := range v {
				s, ok := e.(string)
				if !ok {
					return nil, &errors.UntokenizableFieldError{Field: field, Value: e}
				}
				tokens = append(tokens, s)
			}
		default:
			return nil, &errors.UntokenizableFieldError{Field: field, Value: value}
		}

		for _, tok := range tokens {
			seen[strings.ToLower(tok)] = true
		}
	}

	keywords := make([]string, 0, len(seen))
	for tok := range seen {
		keywords = append(keywords, tok)
	}
	sort.Strings(keywords)
	return keywords, nil
}
