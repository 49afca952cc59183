package research

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/todmy/insight-engine/pkg/models"
)

const defaultNewsAPIBaseURL = "https://newsapi.org/v2"

// NewsAPISource fetches articles from the NewsAPI.org "everything"
// endpoint.
type NewsAPISource struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

// NewsAPIOption configures the NewsAPISource
type NewsAPIOption func(*NewsAPISource)

// WithNewsAPIBaseURL sets a custom base URL
func WithNewsAPIBaseURL(u string) NewsAPIOption {
	return func(s *NewsAPISource) {
		s.baseURL = u
	}
}

// WithNewsAPIHTTPClient sets a custom HTTP client
func WithNewsAPIHTTPClient(c *http.Client) NewsAPIOption {
	return func(s *NewsAPISource) {
		s.httpClient = c
	}
}

// NewNewsAPISource creates a NewsAPI source
func NewNewsAPISource(apiKey string, opts ...NewsAPIOption) *NewsAPISource {
	s := &NewsAPISource{
		apiKey:   apiKey,
		baseURL:  defaultNewsAPIBaseURL,
		language: "en",
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
func (s *NewsAPISource) Name() string {
	return "newsapi"
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Fetch retrieves up to limit articles matching the query.
func (s *NewsAPISource) Fetch(ctx context.Context, query string, limit int) ([]models.Document, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", s.language)
	params.Set("pageSize", strconv.Itoa(limit))
	params.Set("apiKey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed newsAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if parsed.Status == "error" {
		return nil, fmt.Errorf("newsapi error %s: %s", parsed.Code, parsed.Message)
	}

	docs := make([]models.Document, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		published, _ := time.Parse(time.RFC3339, a.PublishedAt)

		var authors []string
		if a.Author != "" {
			authors = []string{a.Author}
		}

		docs = append(docs, models.Document{
			SourceID:    s.Name(),
			Title:       a.Title,
			Summary:     a.Description,
			BodyText:    a.Content,
			URL:         a.URL,
			PublishedAt: published,
			Authors:     authors,
		})
	}

	return docs, nil
}
