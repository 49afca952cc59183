package research

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/todmy/insight-engine/pkg/models"
)

const defaultArxivBaseURL = "http://export.arxiv.org/api/query"

// ArxivSource fetches preprints from the arXiv Atom API, sorted by
// relevance.
type ArxivSource struct {
	baseURL    string
	httpClient *http.Client
}

// ArxivOption configures the ArxivSource
type ArxivOption func(*ArxivSource)

// WithArxivBaseURL sets a custom base URL
func WithArxivBaseURL(u string) ArxivOption {
	return func(s *ArxivSource) {
		s.baseURL = u
	}
}

// WithArxivHTTPClient sets a custom HTTP client
func WithArxivHTTPClient(c *http.Client) ArxivOption {
	return func(s *ArxivSource) {
		s.httpClient = c
	}
}

// NewArxivSource creates an arXiv source
func NewArxivSource(opts ...ArxivOption) *ArxivSource {
	s := &ArxivSource{
		baseURL: defaultArxivBaseURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name identifies the source in logs and document records.
func (s *ArxivSource) Name() string {
	return "arxiv"
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Links     []struct {
		Href  string `xml:"href,attr"`
		Rel   string `xml:"rel,attr"`
		Title string `xml:"title,attr"`
	} `xml:"link"`
	Authors []struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

// Fetch retrieves up to limit articles matching the query.
func (s *ArxivSource) Fetch(ctx context.Context, query string, limit int) ([]models.Document, error) {
	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(limit))
	params.Set("sortBy", "relevance")
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned status %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parse atom feed: %w", err)
	}

	docs := make([]models.Document, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		summary := strings.TrimSpace(entry.Summary)

		published, _ := time.Parse(time.RFC3339, entry.Published)

		var authors []string
		for _, a := range entry.Authors {
			if a.Name != "" {
				authors = append(authors, a.Name)
			}
		}

		docs = append(docs, models.Document{
			SourceID:    s.Name(),
			Title:       strings.TrimSpace(entry.Title),
			Summary:     summary,
			BodyText:    summary, // abstracts are the only full text arXiv serves here
			URL:         entry.articleURL(),
			PublishedAt: published,
			Authors:     authors,
		})
	}

	return docs, nil
}

// articleURL picks the abstract page link, preferring the link marked
// as the original or the alternate rel.
func (e atomEntry) articleURL() string {
	for _, link := range e.Links {
		if link.Title == "Original" || link.Rel == "alternate" {
			return link.Href
		}
	}
	if len(e.Links) > 0 {
		return e.Links[0].Href
	}
	return ""
}
