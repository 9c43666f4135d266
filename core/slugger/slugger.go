// ABOUTME: Slug generation for plugin permalinks with collision disambiguation
// ABOUTME: Produces unique, stable, URL-safe human-readable identifiers

package slugger

import (
	"math/rand"

	gosimple "github.com/gosimple/slug"

	"plugindex-api/core/errors"
)

// suffixes disambiguate colliding slugs. The suffixes only ever show up in
// the permalink URL, so the words themselves carry no meaning; shuffling
// before trying them spreads collisions across the pool instead of piling
// onto the first entry, and keeps the sequence from being enumerable.
var suffixes = []string{
	"amber",
	"basalt",
	"cobalt",
	"dune",
	"ember",
	"flint",
	"garnet",
	"harbor",
	"indigo",
	"juniper",
	"krypton",
	"lagoon",
	"meadow",
	"nimbus",
	"onyx",
	"prairie",
	"quartz",
	"sierra",
}

// Generate derives a unique, URL-safe permalink id from candidateName,
// consulting taken for slugs already in use. If the plain slug is taken, the
// suffix pool is shuffled and tried one by one until an unused slug is found.
//
// Returns an InvalidInputError when candidateName is empty and a
// SlugSpaceExhaustedError when every suffix collides.
//
// WARNING: not safe for unsynchronized concurrent use against a shared taken
// oracle; the check-then-use sequence is not atomic. Callers must serialize
// slug assignment or make the insert retriable at the storage layer.
func Generate(candidateName string, taken func(string) bool) (string, error) {
	if candidateName == "" {
		return "", &errors.InvalidInputError{
			Field:   "candidateName",
			Message: "cannot derive a slug from an empty name",
		}
	}

	s := gosimple.Make(candidateName)
	if !taken(s) {
		return s, nil
	}

	shuffled := append([]string(nil), suffixes...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for _, suffix := range shuffled {
		s = gosimple.Make(candidateName + "-" + suffix)
		if !taken(s) {
			return s, nil
		}
	}

	return "", &errors.SlugSpaceExhaustedError{Name: candidateName}
}
