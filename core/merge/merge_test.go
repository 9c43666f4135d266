package merge

import (
	"reflect"
	"testing"

	"plugindex-api/core/domain"
)

func TestIsMoreAuthoritative_MissingURL(t *testing.T) {
	a := domain.Record{domain.FieldUpdatedAt: int64(200)}
	b := domain.Record{
		domain.FieldRepoURL:   "https://github.com/scrooloose/syntastic",
		domain.FieldUpdatedAt: int64(100),
	}
	if IsMoreAuthoritative(a, b) {
		t.Error("record without repo URL should never be more authoritative")
	}
	if IsMoreAuthoritative(b, a) {
		t.Error("no authority distinction is possible against a record without repo URL")
	}
}

func TestIsMoreAuthoritative_SameURL(t *testing.T) {
	a := domain.Record{
		domain.FieldRepoURL:   "https://github.com/scrooloose/syntastic",
		domain.FieldUpdatedAt: int64(200),
	}
	b := domain.Record{
		domain.FieldRepoURL:   "https://github.com/scrooloose/syntastic",
		domain.FieldUpdatedAt: int64(100),
	}
	if IsMoreAuthoritative(a, b) {
		t.Error("identical repo URLs carry no authority distinction")
	}
}

func TestIsMoreAuthoritative_LatestUpdatedWins(t *testing.T) {
	author := domain.Record{
		domain.FieldRepoURL:   "https://github.com/scrooloose/syntastic",
		domain.FieldUpdatedAt: int64(200),
	}
	mirror := domain.Record{
		domain.FieldRepoURL:   "https://github.com/mirror/Syntastic",
		domain.FieldUpdatedAt: int64(100),
	}
	if !IsMoreAuthoritative(author, mirror) {
		t.Error("more recently updated repo should be more authoritative")
	}
	if IsMoreAuthoritative(mirror, author) {
		t.Error("stale repo judged more authoritative")
	}
}

func TestIsMoreAuthoritative_StarTieBreak(t *testing.T) {
	a := domain.Record{
		domain.FieldRepoURL:   "https://github.com/scrooloose/syntastic",
		domain.FieldUpdatedAt: int64(100),
		domain.FieldRepoStars: int64(4000),
	}
	b := domain.Record{
		domain.FieldRepoURL:   "https://github.com/mirror/Syntastic",
		domain.FieldUpdatedAt: int64(100),
		domain.FieldRepoStars: int64(12),
	}
	if !IsMoreAuthoritative(a, b) {
		t.Error("equal update times should break ties by stars")
	}
	if IsMoreAuthoritative(b, a) {
		t.Error("fewer stars judged more authoritative")
	}
}

func TestIsMoreAuthoritative_EqualStarsNeitherWins(t *testing.T) {
	a := domain.Record{
		domain.FieldRepoURL:   "https://github.com/a/p",
		domain.FieldUpdatedAt: int64(100),
		domain.FieldRepoStars: int64(7),
	}
	b := domain.Record{
		domain.FieldRepoURL:   "https://github.com/b/p",
		domain.FieldUpdatedAt: int64(100),
		domain.FieldRepoStars: int64(7),
	}
	if IsMoreAuthoritative(a, b) || IsMoreAuthoritative(b, a) {
		t.Error("fully tied records should not claim authority either way")
	}
}

func TestMerge_NewWinsByDefault(t *testing.T) {
	old := domain.Record{
		domain.FieldIndexName:      "Syntastic",
		domain.FieldIndexShortDesc: "old description",
	}
	new := domain.Record{domain.FieldIndexShortDesc: "new description"}

	merged := Merge(old, new)
	if got := domain.StringField(merged, domain.FieldIndexShortDesc); got != "new description" {
		t.Errorf("merged short desc = %q, want new side to win", got)
	}
	if got := domain.StringField(merged, domain.FieldIndexName); got != "Syntastic" {
		t.Errorf("merged name = %q, want old value preserved", got)
	}
}

func TestMerge_AuthoritativeOldWins(t *testing.T) {
	old := domain.Record{
		domain.FieldRepoURL:        "https://github.com/scrooloose/syntastic",
		domain.FieldUpdatedAt:      int64(200),
		domain.FieldRepoShortDesc:  "author description",
		domain.FieldIndexShortDesc: "shared field from author",
	}
	new := domain.Record{
		domain.FieldRepoURL:        "https://github.com/mirror/Syntastic",
		domain.FieldUpdatedAt:      int64(100),
		domain.FieldIndexShortDesc: "shared field from mirror",
		domain.FieldMirrorStars:    int64(12),
	}

	merged := Merge(old, new)
	if got := domain.StringField(merged, domain.FieldIndexShortDesc); got != "shared field from author" {
		t.Errorf("merged shared field = %q, want authoritative old side", got)
	}
	if got := domain.Int64Field(merged, domain.FieldMirrorStars); got != 12 {
		t.Errorf("merged mirror stars = %d, want new-only field carried over", got)
	}
}

func TestMerge_AbsentNeverReplacesPresent(t *testing.T) {
	old := domain.Record{domain.FieldRepoReadme: "readme text"}
	new := domain.Record{domain.FieldRepoReadme: nil, domain.FieldRepoStars: int64(3)}

	merged := Merge(old, new)
	if got := domain.StringField(merged, domain.FieldRepoReadme); got != "readme text" {
		t.Errorf("merged readme = %q, nil overlay must not clobber", got)
	}

	// And symmetrically with the authoritative-old direction.
	old[domain.FieldRepoURL] = "https://github.com/a/p"
	old[domain.FieldUpdatedAt] = int64(200)
	new[domain.FieldRepoURL] = "https://github.com/b/p"
	new[domain.FieldUpdatedAt] = int64(100)
	merged = Merge(old, new)
	if got := domain.Int64Field(merged, domain.FieldRepoStars); got != 3 {
		t.Errorf("merged stars = %d, present new-side value must survive", got)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	r := domain.Record{
		domain.FieldIndexName: "ctrlp",
		domain.FieldTags:      []string{"navigation"},
		domain.FieldCreatedAt: int64(50),
		domain.FieldUpdatedAt: int64(80),
		domain.FieldRepoStars: int64(9),
	}
	merged := Merge(r, r)
	if !reflect.DeepEqual(merged, r) {
		t.Errorf("Merge(r, r) = %v, want %v", merged, r)
	}
}

func TestMerge_TimestampMaxMin(t *testing.T) {
	old := domain.Record{domain.FieldCreatedAt: int64(100), domain.FieldUpdatedAt: int64(500)}
	new := domain.Record{domain.FieldCreatedAt: int64(300), domain.FieldUpdatedAt: int64(400)}

	merged := Merge(old, new)
	if got := domain.Int64Field(merged, domain.FieldCreatedAt); got != 100 {
		t.Errorf("created_at = %d, want earliest", got)
	}
	if got := domain.Int64Field(merged, domain.FieldUpdatedAt); got != 500 {
		t.Errorf("updated_at = %d, want latest", got)
	}
}

func TestMerge_TimestampsUntouchedWhenOneSideMissing(t *testing.T) {
	old := domain.Record{domain.FieldUpdatedAt: int64(500)}
	new := domain.Record{domain.FieldIndexName: "x"}

	merged := Merge(old, new)
	if got := domain.Int64Field(merged, domain.FieldUpdatedAt); got != 500 {
		t.Errorf("updated_at = %d, want old value kept via overlay", got)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	old := domain.Record{
		domain.FieldIndexName: "old",
		domain.FieldTags:      []string{"a"},
	}
	new := domain.Record{domain.FieldIndexName: "new"}
	oldCopy := old.Clone()
	newCopy := new.Clone()

	merged := Merge(old, new)
	merged[domain.FieldTags].([]string)[0] = "mutated"
	merged[domain.FieldIndexName] = "mutated"

	if !reflect.DeepEqual(old, oldCopy) {
		t.Error("Merge mutated old input")
	}
	if !reflect.DeepEqual(new, newCopy) {
		t.Error("Merge mutated new input")
	}
}
