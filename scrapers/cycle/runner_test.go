package cycle

import (
	"context"
	stderrors "errors"
	"testing"

	"plugindex-api/core/domain"
	"plugindex-api/core/errors"
	"plugindex-api/core/interfaces"
)

// stubScripts serves a fixed id list and per-id attribute bags
type stubScripts struct {
	recent      []string
	all         []string
	bags        map[string]domain.Record
	fetchErrs   map[string]error
	recentCalls int
	allCalls    int
}

func (s *stubScripts) DiscoverRecent(ctx context.Context) ([]string, error) {
	s.recentCalls++
	return s.recent, nil
}

func (s *stubScripts) DiscoverAll(ctx context.Context) ([]string, error) {
	s.allCalls++
	return s.all, nil
}

func (s *stubScripts) FetchScript(ctx context.Context, id string) (domain.Record, error) {
	if err := s.fetchErrs[id]; err != nil {
		return nil, err
	}
	return s.bags[id], nil
}

// stubRepos serves mirror and author-repo bags keyed by name
type stubRepos struct {
	mirrors    map[string]domain.Record
	repos      map[string]domain.Record
	repoCalls  []string
	mirrorErrs map[string]error
}

func (s *stubRepos) FetchRepo(ctx context.Context, owner, name string) (domain.Record, error) {
	key := owner + "/" + name
	s.repoCalls = append(s.repoCalls, key)
	if bag, ok := s.repos[key]; ok {
		return bag, nil
	}
	return nil, &errors.NotFoundError{Resource: "repository", ID: key}
}

func (s *stubRepos) FetchMirror(ctx context.Context, name string) (domain.Record, error) {
	if err := s.mirrorErrs[name]; err != nil {
		return nil, err
	}
	if bag, ok := s.mirrors[name]; ok {
		return bag, nil
	}
	return nil, &errors.NotFoundError{Resource: "repository", ID: name}
}

// stubIngestor records every bag handed to ingestion
type stubIngestor struct {
	bags []domain.Record
}

func (s *stubIngestor) Ingest(ctx context.Context, scraped domain.Record, repoHint domain.Record) error {
	s.bags = append(s.bags, scraped)
	return nil
}

type stubStore struct {
	byIndex map[string][]domain.Record
}

func (s *stubStore) Get(ctx context.Context, slug string) (domain.Record, error) {
	return nil, &errors.NotFoundError{Resource: "plugin", ID: slug}
}

func (s *stubStore) GetAllByIndex(ctx context.Context, index, value string) ([]domain.Record, error) {
	return s.byIndex[value], nil
}

func (s *stubStore) Insert(ctx context.Context, record domain.Record) error { return nil }
func (s *stubStore) Upsert(ctx context.Context, record domain.Record) error { return nil }
func (s *stubStore) ScanAll(ctx context.Context) ([]domain.Record, error)   { return nil, nil }

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

func newRunner(scripts *stubScripts, repos *stubRepos, ingest *stubIngestor, store interfaces.RecordStore) *Runner {
	return NewRunner(interfaces.Dependencies{Store: store, Logger: nopLogger{}}, scripts, repos, ingest)
}

func TestRun_IngestsAllThreeSources(t *testing.T) {
	scripts := &stubScripts{
		recent: []string{"2736"},
		bags: map[string]domain.Record{
			"2736": {
				domain.FieldIndexID:       "2736",
				domain.FieldIndexName:     "syntastic",
				domain.FieldIndexLongDesc: "Source hosted at https://github.com/scrooloose/syntastic for issues.",
			},
		},
	}
	repos := &stubRepos{
		mirrors: map[string]domain.Record{
			"syntastic": {domain.FieldMirrorRepoName: "syntastic", domain.FieldMirrorStars: int64(87)},
		},
		repos: map[string]domain.Record{
			"scrooloose/syntastic": {
				domain.FieldRepoOwner: "scrooloose",
				domain.FieldRepoName:  "syntastic",
				domain.FieldRepoStars: int64(5200),
			},
		},
	}
	ingest := &stubIngestor{}

	err := newRunner(scripts, repos, ingest, &stubStore{}).Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(ingest.bags) != 3 {
		t.Fatalf("ingested %d bags, want 3 (package index, mirror, repo)", len(ingest.bags))
	}
	if got := domain.StringField(ingest.bags[0], domain.FieldIndexName); got != "syntastic" {
		t.Errorf("first bag should be the package-index bag, got %v", ingest.bags[0])
	}
	if got := domain.Int64Field(ingest.bags[1], domain.FieldMirrorStars); got != 87 {
		t.Errorf("second bag should be the mirror bag, got %v", ingest.bags[1])
	}
	if got := domain.Int64Field(ingest.bags[2], domain.FieldRepoStars); got != 5200 {
		t.Errorf("third bag should be the author-repo bag, got %v", ingest.bags[2])
	}
}

func TestRun_MissingMirrorAndRepoStillIngestsScript(t *testing.T) {
	scripts := &stubScripts{
		recent: []string{"790"},
		bags: map[string]domain.Record{
			"790": {domain.FieldIndexID: "790", domain.FieldIndexName: "python"},
		},
	}
	ingest := &stubIngestor{}

	err := newRunner(scripts, &stubRepos{}, ingest, &stubStore{}).Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(ingest.bags) != 1 {
		t.Errorf("ingested %d bags, want just the package-index bag", len(ingest.bags))
	}
}

func TestRun_KnownRepoURLWinsOverTextLink(t *testing.T) {
	scripts := &stubScripts{
		recent: []string{"2736"},
		bags: map[string]domain.Record{
			"2736": {
				domain.FieldIndexID:       "2736",
				domain.FieldIndexName:     "syntastic",
				domain.FieldIndexLongDesc: "Old fork: https://github.com/someone/syntastic-fork",
			},
		},
	}
	repos := &stubRepos{}
	store := &stubStore{byIndex: map[string][]domain.Record{
		"2736": {{
			domain.FieldSlug:    "syntastic",
			domain.FieldIndexID: "2736",
			domain.FieldRepoURL: "https://github.com/scrooloose/syntastic",
		}},
	}}

	err := newRunner(scripts, repos, &stubIngestor{}, store).Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(repos.repoCalls) != 1 || repos.repoCalls[0] != "scrooloose/syntastic" {
		t.Errorf("repo lookups = %v, want the canonical record's repository", repos.repoCalls)
	}
}

func TestRun_FullUsesWholeListingCrawl(t *testing.T) {
	scripts := &stubScripts{all: []string{}}
	err := newRunner(scripts, &stubRepos{}, &stubIngestor{}, &stubStore{}).Run(context.Background(), true)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if scripts.allCalls != 1 || scripts.recentCalls != 0 {
		t.Errorf("full run should crawl the whole listing, got all=%d recent=%d",
			scripts.allCalls, scripts.recentCalls)
	}
}

func TestRun_OneFailingScriptDoesNotAbortCycle(t *testing.T) {
	scripts := &stubScripts{
		recent: []string{"1", "2"},
		bags: map[string]domain.Record{
			"2": {domain.FieldIndexID: "2", domain.FieldIndexName: "ctrlp"},
		},
		fetchErrs: map[string]error{"1": stderrors.New("timeout")},
	}
	ingest := &stubIngestor{}

	err := newRunner(scripts, &stubRepos{}, ingest, &stubStore{}).Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(ingest.bags) != 1 {
		t.Errorf("ingested %d bags, want 1 from the surviving script", len(ingest.bags))
	}
}

func TestSplitRepoURL(t *testing.T) {
	tests := []struct {
		url         string
		owner, name string
		ok          bool
	}{
		{"https://github.com/scrooloose/syntastic", "scrooloose", "syntastic", true},
		{"https://github.com/scrooloose/syntastic.git", "scrooloose", "syntastic", true},
		{"https://github.com/onlyowner", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		owner, name, ok := SplitRepoURL(tt.url)
		if owner != tt.owner || name != tt.name || ok != tt.ok {
			t.Errorf("SplitRepoURL(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.url, owner, name, ok, tt.owner, tt.name, tt.ok)
		}
	}
}

func TestFindRepoLink(t *testing.T) {
	owner, name, ok := findRepoLink("mirror of git://github.com/tpope/vim-fugitive.git see readme")
	if !ok || owner != "tpope" || name != "vim-fugitive" {
		t.Errorf("findRepoLink = (%q, %q, %v), want (tpope, vim-fugitive, true)", owner, name, ok)
	}
	if _, _, ok := findRepoLink("no links here"); ok {
		t.Error("text without a repository link should not match")
	}
}
