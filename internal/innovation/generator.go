package innovation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/todmy/insight-engine/pkg/models"
)

// Generator turns an insight set into innovation ideas using the Gemini
// generateContent API.
type Generator struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Config holds generator configuration
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://generativelanguage.googleapis.com/v1beta",
		Model:   "gemini-2.5-flash",
		Timeout: 60 * time.Second,
	}
}

// NewGenerator creates a new idea generator
func NewGenerator(config Config) *Generator {
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Model == "" {
		config.Model = DefaultConfig().Model
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	return &Generator{
		apiKey:  config.APIKey,
		baseURL: config.BaseURL,
		model:   config.Model,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// temperatureFor maps a creativity level to a sampling temperature.
func temperatureFor(creativity string) float64 {
	switch creativity {
	case "low":
		return 0.3
	case "high":
		return 1.0
	default:
		return 0.7
	}
}

// GenerateIdeas produces innovation proposals from the insight set.
// The creativity level steers sampling temperature only; the prompt is
// fixed. An empty insight list yields no ideas without calling the API.
func (g *Generator) GenerateIdeas(ctx context.Context, insights []models.Insight, creativity string) ([]models.Idea, error) {
	if len(insights) == 0 {
		return nil, nil
	}

	prompt, err := buildPrompt(insights)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	response, err := g.generateContent(ctx, prompt, temperatureFor(creativity))
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	ideas, err := parseIdeas(response)
	if err != nil {
		return nil, fmt.Errorf("parse ideas: %w", err)
	}

	return ideas, nil
}

func buildPrompt(insights []models.Insight) (string, error) {
	insightsJSON, err := json.MarshalIndent(insights, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are an expert innovation specialist. Your task is to generate concise, actionable research ideas or improvement proposals based on provided market and trend analysis insights. Focus on novelty and feasibility.

Here are the latest analysis insights:
%s

Based on these insights, generate 7 to 10 distinct and innovative research ideas or improvement proposals. For each idea, provide a "title", a "brief_description", and "potential_impact". Format your response as a JSON array of objects.

Example desired JSON format:
[
  {
    "title": "Example Title",
    "brief_description": "Example description for the idea.",
    "potential_impact": "Example assessment of the idea's impact."
  }
]`, string(insightsJSON)), nil
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *Generator) generateContent(ctx context.Context, prompt string, temperature float64) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{Temperature: temperature},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", err
	}

	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response")
	}

	return gr.Candidates[0].Content.Parts[0].Text, nil
}

// parseIdeas decodes the model output, tolerating markdown code fences
// and a wrapping {"ideas": [...]} object.
func parseIdeas(response string) ([]models.Idea, error) {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```json")
		response = strings.TrimPrefix(response, "```")
		response = strings.TrimSuffix(response, "```")
		response = strings.TrimSpace(response)
	}

	var ideas []models.Idea
	if err := json.Unmarshal([]byte(response), &ideas); err == nil {
		return ideas, nil
	}

	var wrapped struct {
		Ideas []models.Idea `json:"ideas"`
	}
	if err := json.Unmarshal([]byte(response), &wrapped); err != nil {
		return nil, err
	}

	return wrapped.Ideas, nil
}
