package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/todmy/insight-engine/internal/auth"
)

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	reports, err := s.reports.ListByUser(r.Context(), claims.UserID, limit)
	if err != nil {
		s.logger.Error("failed to list reports", "user_id", claims.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "reportID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid report ID")
		return
	}

	report, err := s.reports.GetByID(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to get report", "report_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to get report")
		return
	}
	if report == nil || report.UserID != claims.UserID {
		respondError(w, http.StatusNotFound, "report not found")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "reportID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid report ID")
		return
	}

	report, err := s.reports.GetByID(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to get report", "report_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete report")
		return
	}
	if report == nil || report.UserID != claims.UserID {
		respondError(w, http.StatusNotFound, "report not found")
		return
	}

	if err := s.reports.Delete(r.Context(), id); err != nil {
		s.logger.Error("failed to delete report", "report_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete report")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
