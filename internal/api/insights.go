package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/todmy/insight-engine/internal/analysis"
	"github.com/todmy/insight-engine/internal/auth"
	"github.com/todmy/insight-engine/internal/engine"
	"github.com/todmy/insight-engine/internal/innovation"
	"github.com/todmy/insight-engine/pkg/models"
)

type insightsRequest struct {
	Query           string `json:"query"`
	DocumentCount   int    `json:"document_count"`
	CreativityLevel string `json:"creativity_level"`
}

type insightsResponse struct {
	ReportID       string                `json:"report_id,omitempty"`
	Query          string                `json:"query"`
	FinalQuery     string                `json:"final_query"`
	Insights       []models.Insight      `json:"insights"`
	Clusters       []models.ThemeCluster `json:"clusters"`
	QualityScore   float64               `json:"quality_score"`
	IterationsUsed int                   `json:"iterations_used"`
	Ideas          []models.Idea         `json:"ideas,omitempty"`
	Report         string                `json:"report,omitempty"`
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	var req insightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		respondError(w, http.StatusBadRequest, "query is required")
		return
	}

	outcome, err := s.orchestrator.Run(r.Context(), engine.Request{
		Query:           req.Query,
		DocumentCount:   req.DocumentCount,
		CreativityLevel: req.CreativityLevel,
	})
	if err != nil {
		if errors.Is(err, analysis.ErrInsufficientData) {
			respondError(w, http.StatusUnprocessableEntity, "not enough usable documents for this query")
			return
		}
		if r.Context().Err() != nil {
			return
		}
		s.logger.Error("insight run failed", "query", req.Query, "error", err)
		respondError(w, http.StatusInternalServerError, "insight generation failed")
		return
	}

	resp := insightsResponse{
		Query:          req.Query,
		FinalQuery:     outcome.FinalQuery,
		Insights:       outcome.Insights,
		Clusters:       outcome.Clusters,
		QualityScore:   outcome.QualityScore,
		IterationsUsed: outcome.IterationsUsed,
	}

	if s.generator != nil {
		ideas, err := s.generator.GenerateIdeas(r.Context(), outcome.Insights, req.CreativityLevel)
		if err != nil {
			// Insights are still worth returning without ideas.
			s.logger.Warn("idea generation failed", "query", req.Query, "error", err)
		} else {
			resp.Ideas = ideas
			resp.Report = innovation.BuildReport(ideas, req.Query, time.Now())
		}
	}

	if s.reports != nil {
		report := &models.Report{
			ID:             uuid.New().String(),
			Query:          req.Query,
			QualityScore:   outcome.QualityScore,
			IterationsUsed: outcome.IterationsUsed,
			Insights:       outcome.Insights,
			Clusters:       outcome.Clusters,
			Markdown:       resp.Report,
			CreatedAt:      time.Now().UTC(),
		}
		if claims, ok := auth.GetUserFromContext(r.Context()); ok {
			report.UserID = claims.UserID
		}
		if err := s.reports.Create(r.Context(), report); err != nil {
			s.logger.Warn("failed to persist report", "report_id", report.ID, "error", err)
		} else {
			resp.ReportID = report.ID
		}
	}

	respondJSON(w, http.StatusOK, resp)
}
