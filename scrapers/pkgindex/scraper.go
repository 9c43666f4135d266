// ABOUTME: Scraper for the package-index site producing pkgindex_* attribute bags
// ABOUTME: Discovers scripts via the recent-scripts feed and crawls detail pages with colly

package pkgindex

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"plugindex-api/core/domain"
	"plugindex-api/core/errors"
	"plugindex-api/core/interfaces"
	"plugindex-api/pkg/config"
)

const scraperUserAgent = "plugindex-bot/1.0 (+https://plugindex.example.org/bot)"

var scriptIDPattern = regexp.MustCompile(`script_id=(\d+)`)

// Scraper fetches script metadata from the package-index site. It only
// produces raw attribute bags; persisting them is the ingestion pipeline's
// concern.
type Scraper struct {
	deps    interfaces.Dependencies
	cfg     config.ScraperConfig
	limiter *rate.Limiter
}

// NewScraper creates a package-index scraper with a polite request rate.
func NewScraper(deps interfaces.Dependencies, cfg config.ScraperConfig) *Scraper {
	return &Scraper{
		deps:    deps,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// DiscoverRecent parses the recent-scripts feed and returns the script ids it
// mentions, newest first. Duplicate ids are collapsed.
func (s *Scraper) DiscoverRecent(ctx context.Context) ([]string, error) {
	if s.deps.HTTPClient == nil {
		return nil, &errors.InvalidInputError{Field: "http_client", Message: "HTTP client not configured"}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.deps.HTTPClient.Get(ctx, s.cfg.PackageIndexFeedURL)
	if err != nil {
		return nil, errors.WrapError(err, "fetching recent-scripts feed")
	}
	defer resp.Body().Close()

	if resp.StatusCode() != 200 {
		return nil, &errors.ExternalAPIError{
			API:        "pkgindex",
			StatusCode: resp.StatusCode(),
			Message:    "recent-scripts feed returned non-200 status",
		}
	}

	body, err := io.ReadAll(resp.Body())
	if err != nil {
		return nil, err
	}

	parsed, err := gofeed.NewParser().Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, errors.WrapError(err, "parsing recent-scripts feed")
	}

	seen := make(map[string]bool)
	var ids []string
	for _, item := range parsed.Items {
		id := extractScriptID(item.Link)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	s.deps.Logger.Debug("discovered scripts from feed", map[string]interface{}{
		"count": len(ids),
	})
	return ids, nil
}

// DiscoverAll crawls the paginated script listing and returns every script id
// it finds. This is the slow full-corpus path used for backfills.
func (s *Scraper) DiscoverAll(ctx context.Context) ([]string, error) {
	c := s.newCollector()

	seen := make(map[string]bool)
	var ids []string

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		href := e.Attr("href")
		if id := extractScriptID(href); id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
		// Listing pages chain together through "next page" links.
		if strings.Contains(href, "browse.php") && strings.Contains(e.Text, "next") {
			_ = e.Request.Visit(href)
		}
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = err
		s.deps.Logger.Warn("listing page fetch failed", map[string]interface{}{
			"url":    r.Request.URL.String(),
			"status": r.StatusCode,
			"error":  err.Error(),
		})
	})

	c.OnRequest(func(r *colly.Request) {
		if err := s.limiter.Wait(ctx); err != nil {
			r.Abort()
			visitErr = err
		}
	})

	start := s.cfg.PackageIndexBaseURL + "/scripts/browse.php"
	if err := c.Visit(start); err != nil {
		return nil, errors.WrapError(err, "crawling script listing")
	}
	c.Wait()

	if len(ids) == 0 && visitErr != nil {
		return nil, errors.WrapError(visitErr, "crawling script listing")
	}
	return ids, nil
}

// FetchScript scrapes one script detail page into a pkgindex attribute bag.
func (s *Scraper) FetchScript(ctx context.Context, scriptID string) (domain.Record, error) {
	if scriptID == "" {
		return nil, &errors.InvalidInputError{Field: "script_id", Message: "script id cannot be empty"}
	}

	pageURL := fmt.Sprintf("%s/scripts/script.php?script_id=%s", s.cfg.PackageIndexBaseURL, url.QueryEscape(scriptID))

	rec := domain.Record{
		domain.FieldIndexID:  scriptID,
		domain.FieldIndexURL: pageURL,
	}

	c := s.newCollector()

	c.OnRequest(func(r *colly.Request) {
		if err := s.limiter.Wait(ctx); err != nil {
			r.Abort()
		}
	})

	// The page title carries "name : short description".
	c.OnHTML("title", func(e *colly.HTMLElement) {
		name, short, ok := strings.Cut(e.Text, " : ")
		if !ok {
			return
		}
		rec[domain.FieldIndexName] = strings.TrimSpace(name)
		rec[domain.FieldIndexShortDesc] = strings.TrimSpace(short)
	})

	// Script attributes live in two-column table rows keyed by the header cell.
	c.OnHTML("table", func(e *colly.HTMLElement) {
		e.DOM.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 2 {
				return
			}
			key := strings.ToLower(strings.TrimSpace(cells.First().Text()))
			value := strings.TrimSpace(cells.Eq(1).Text())

			switch {
			case key == "script type":
				rec[domain.FieldIndexType] = value
			case strings.HasPrefix(key, "rating"):
				rating, raters := parseRating(value)
				rec[domain.FieldIndexRating] = rating
				rec[domain.FieldIndexNumRaters] = raters
			case key == "downloads":
				if n, err := strconv.ParseInt(strings.ReplaceAll(value, ",", ""), 10, 64); err == nil {
					rec[domain.FieldIndexDownloads] = n
				}
			}
		})
	})

	c.OnHTML("a[href^='mailto:'], a[href*='user_id=']", func(e *colly.HTMLElement) {
		if _, present := rec[domain.FieldIndexAuthor]; present {
			return
		}
		if author := strings.TrimSpace(e.Text); author != "" {
			rec[domain.FieldIndexAuthor] = author
		}
	})

	// Description and install details are sibling blocks. Keep them as plain
	// text so the search tokenizer never sees markup.
	c.OnHTML("td.prominent_header", func(e *colly.HTMLElement) {
		header := strings.ToLower(strings.TrimSpace(e.Text))
		body, err := e.DOM.Parent().Next().Html()
		if err != nil {
			return
		}
		switch header {
		case "description":
			rec[domain.FieldIndexLongDesc] = StripHTML(body)
		case "install details":
			rec[domain.FieldIndexInstallDetails] = StripHTML(body)
		}
	})

	var fetchErr error
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = &errors.ExternalAPIError{
			API:        "pkgindex",
			StatusCode: r.StatusCode,
			Message:    "script page fetch failed: " + err.Error(),
		}
	})

	if err := c.Visit(pageURL); err != nil && fetchErr == nil {
		fetchErr = errors.WrapError(err, "visiting script page")
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if _, present := rec[domain.FieldIndexName]; !present {
		return nil, &errors.NotFoundError{Resource: "script", ID: scriptID}
	}

	rec[domain.FieldUpdatedAt] = time.Now().Unix()
	return rec, nil
}

func (s *Scraper) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(scraperUserAgent),
		colly.MaxBodySize(5*1024*1024),
		colly.Async(false),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(time.Duration(s.cfg.HTTPTimeout) * time.Second)
	return c
}

// extractScriptID pulls the numeric script id out of a script or feed URL.
func extractScriptID(link string) string {
	m := scriptIDPattern.FindStringSubmatch(link)
	if m == nil {
		return ""
	}
	return m[1]
}

// parseRating reads strings like "123/45" where 123 is the vote total and 45
// the number of raters, returning the mean rating and the rater count.
func parseRating(value string) (float64, int64) {
	total, raters, ok := strings.Cut(value, "/")
	if !ok {
		return 0, 0
	}
	sum, err1 := strconv.ParseFloat(strings.TrimSpace(total), 64)
	n, err2 := strconv.ParseInt(strings.TrimSpace(raters), 10, 64)
	if err1 != nil || err2 != nil || n <= 0 {
		return 0, 0
	}
	return sum / float64(n), n
}

// StripHTML reduces an HTML fragment to its visible text. Block-level breaks
// collapse to single newlines so descriptions stay readable.
func StripHTML(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.WriteString(string(tokenizer.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "br", "p", "div", "li":
				b.WriteString("\n")
			}
		}
	}
}
