package storage

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/todmy/insight-engine/pkg/models"
)

// ReportRepository defines the interface for report storage operations
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Report, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostgresReportRepository implements ReportRepository using PostgreSQL
type PostgresReportRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// NewPostgresReportRepository creates a new PostgresReportRepository
func NewPostgresReportRepository(db *sql.DB) *PostgresReportRepository {
	return &PostgresReportRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Create inserts a report with its insight and cluster rows in one
// transaction. Insight rows keep their position so the ordering
// (per-item insights first, overall insight last) survives storage.
func (r *PostgresReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query, args, err := r.sb.Insert("reports").
		Columns("id", "user_id", "query", "quality_score", "iterations_used", "markdown", "created_at").
		Values(report.ID, nullString(report.UserID), report.Query, report.QualityScore,
			report.IterationsUsed, report.Markdown, report.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	if err := r.insertInsights(ctx, tx, report); err != nil {
		return err
	}
	if err := r.insertClusters(ctx, tx, report); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresReportRepository) insertInsights(ctx context.Context, tx *sql.Tx, report *models.Report) error {
	if len(report.Insights) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO report_insights
			(id, report_id, position, type, source_id, title, summary, url,
			 keywords, relevance, top_terms, num_clusters, quality_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for pos, ins := range report.Insights {
		_, err := stmt.ExecContext(ctx,
			uuid.New().String(),
			report.ID,
			pos,
			string(ins.Type),
			ins.SourceID,
			ins.Title,
			ins.Summary,
			ins.URL,
			pq.Array(ins.Keywords),
			ins.Relevance,
			pq.Array(ins.TopTerms),
			ins.NumClusters,
			ins.QualityScore,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *PostgresReportRepository) insertClusters(ctx context.Context, tx *sql.Tx, report *models.Report) error {
	if len(report.Clusters) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO report_clusters (id, report_id, label, size, top_terms, centroid)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, cluster := range report.Clusters {
		var centroid interface{}
		if len(cluster.Centroid) > 0 {
			centroid = pgvector.NewVector(cluster.Centroid)
		}

		_, err := stmt.ExecContext(ctx,
			uuid.New().String(),
			report.ID,
			cluster.Label,
			cluster.Size,
			pq.Array(cluster.TopTerms),
			centroid,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a report with its insights and clusters
func (r *PostgresReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	query, args, err := r.sb.Select("id", "user_id", "query", "quality_score", "iterations_used", "markdown", "created_at").
		From("reports").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, err
	}

	report := &models.Report{}
	var userID sql.NullString
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&report.ID,
		&userID,
		&report.Query,
		&report.QualityScore,
		&report.IterationsUsed,
		&report.Markdown,
		&report.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	report.UserID = userID.String

	if report.Insights, err = r.loadInsights(ctx, report.ID); err != nil {
		return nil, err
	}
	if report.Clusters, err = r.loadClusters(ctx, report.ID); err != nil {
		return nil, err
	}

	return report, nil
}

func (r *PostgresReportRepository) loadInsights(ctx context.Context, reportID string) ([]models.Insight, error) {
	query, args, err := r.sb.Select("type", "source_id", "title", "summary", "url",
		"keywords", "relevance", "top_terms", "num_clusters", "quality_score").
		From("report_insights").
		Where(sq.Eq{"report_id": reportID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var insights []models.Insight
	for rows.Next() {
		var ins models.Insight
		var insType string
		var keywords, topTerms pq.StringArray
		err := rows.Scan(
			&insType,
			&ins.SourceID,
			&ins.Title,
			&ins.Summary,
			&ins.URL,
			&keywords,
			&ins.Relevance,
			&topTerms,
			&ins.NumClusters,
			&ins.QualityScore,
		)
		if err != nil {
			return nil, err
		}
		ins.Type = models.InsightType(insType)
		ins.Keywords = keywords
		ins.TopTerms = topTerms
		ins.NamedEntities = []string{}
		insights = append(insights, ins)
	}

	return insights, rows.Err()
}

func (r *PostgresReportRepository) loadClusters(ctx context.Context, reportID string) ([]models.ThemeCluster, error) {
	query, args, err := r.sb.Select("label", "size", "top_terms", "centroid").
		From("report_clusters").
		Where(sq.Eq{"report_id": reportID}).
		OrderBy("label ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clusters []models.ThemeCluster
	for rows.Next() {
		var cluster models.ThemeCluster
		var topTerms pq.StringArray
		var centroid pgvector.Vector
		err := rows.Scan(&cluster.Label, &cluster.Size, &topTerms, &centroid)
		if err != nil {
			return nil, err
		}
		cluster.TopTerms = topTerms
		cluster.Centroid = centroid.Slice()
		clusters = append(clusters, cluster)
	}

	return clusters, rows.Err()
}

// ListByUser retrieves recent report summaries for a user, newest
// first. Insights and clusters are not loaded.
func (r *PostgresReportRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Report, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := r.sb.Select("id", "user_id", "query", "quality_score", "iterations_used", "created_at").
		From("reports").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		report := &models.Report{}
		var uid sql.NullString
		err := rows.Scan(
			&report.ID,
			&uid,
			&report.Query,
			&report.QualityScore,
			&report.IterationsUsed,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		report.UserID = uid.String
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

// Delete removes a report and its dependent rows
func (r *PostgresReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.sb.Delete("reports").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
