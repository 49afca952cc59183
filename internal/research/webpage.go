package research

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/todmy/insight-engine/pkg/models"
)

// SiteConfig describes one HTML listing page and the selectors that
// locate its items.
type SiteConfig struct {
	Name            string `yaml:"name"`
	URL             string `yaml:"url"`
	ItemSelector    string `yaml:"itemSelector"`
	TitleSelector   string `yaml:"titleSelector"`
	SummarySelector string `yaml:"summarySelector"`
	LinkSelector    string `yaml:"linkSelector"`
}

// WebPageSource scrapes a configured HTML listing page and keeps the
// items whose text matches the query. It is a best-effort complement to
// the API-backed sources for sites without a feed.
type WebPageSource struct {
	site       SiteConfig
	httpClient *http.Client
}

// NewWebPageSource creates a scraping source for one site.
func NewWebPageSource(site SiteConfig, client *http.Client) *WebPageSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &WebPageSource{site: site, httpClient: client}
}

// Name identifies the source in logs and document records.
func (s *WebPageSource) Name() string {
	return s.site.Name
}

// Fetch loads the listing page and returns up to limit items relevant
// to the query. Relevance is a plain token match against the item's
// title and summary; listing pages cannot be queried server-side.
func (s *WebPageSource) Fetch(ctx context.Context, query string, limit int) ([]models.Document, error) {
	doc, err := s.fetchDocument(ctx)
	if err != nil {
		return nil, err
	}

	terms := strings.Fields(strings.ToLower(query))

	var docs []models.Document
	doc.Find(s.site.ItemSelector).EachWithBreak(func(i int, item *goquery.Selection) bool {
		title := strings.TrimSpace(item.Find(s.site.TitleSelector).First().Text())
		summary := strings.TrimSpace(item.Find(s.site.SummarySelector).First().Text())
		if title == "" {
			return true
		}

		if !matchesQuery(title+" "+summary, terms) {
			return true
		}

		href, _ := item.Find(s.site.LinkSelector).First().Attr("href")
		if href != "" && !strings.HasPrefix(href, "http") {
			href = strings.TrimSuffix(s.site.URL, "/") + "/" + strings.TrimPrefix(href, "/")
		}

		docs = append(docs, models.Document{
			SourceID: s.site.Name,
			Title:    title,
			Summary:  summary,
			BodyText: summary,
			URL:      href,
		})

		return len(docs) < limit
	})

	return docs, nil
}

func (s *WebPageSource) fetchDocument(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.site.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "insight-engine/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", s.site.Name, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// matchesQuery reports whether any query term occurs in the text.
// An empty term list matches everything.
func matchesQuery(text string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	text = strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
