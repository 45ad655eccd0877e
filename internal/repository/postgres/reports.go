package postgres

import (
	"context"
	"database/sql"

	"ideascope/internal/domain/report"
	"ideascope/pkg/errors"
)

// ReportRepository persists completed analyses keyed by opportunity.
type ReportRepository struct {
	db DBTX
}

// NewReportRepository creates a new report repository
func NewReportRepository(db DBTX) *ReportRepository {
	return &ReportRepository{db: db}
}

// GetByOpportunityID returns the most recent report for an opportunity.
func (r *ReportRepository) GetByOpportunityID(ctx context.Context, opportunityID string) (*report.AnalysisReport, error) {
	query := `
		SELECT id, opportunity_id, source, confidence, agents_used, payload,
		       created_at, updated_at
		FROM analysis_reports
		WHERE opportunity_id = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`

	rep := &report.AnalysisReport{}
	err := r.db.GetContext(ctx, rep, query, opportunityID)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get report by opportunity id")
	}
	return rep, nil
}

// Upsert stores a report, replacing any existing one for the opportunity.
func (r *ReportRepository) Upsert(ctx context.Context, rep *report.AnalysisReport) error {
	query := `
		INSERT INTO analysis_reports (
			opportunity_id, source, confidence, agents_used, payload
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (opportunity_id) DO UPDATE SET
			source = EXCLUDED.source,
			confidence = EXCLUDED.confidence,
			agents_used = EXCLUDED.agents_used,
			payload = EXCLUDED.payload,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		rep.OpportunityID, rep.Source, rep.Confidence, rep.AgentsUsed, rep.Payload,
	).Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "upsert report")
	}
	return nil
}

// Delete removes the stored report for an opportunity.
func (r *ReportRepository) Delete(ctx context.Context, opportunityID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM analysis_reports WHERE opportunity_id = $1`, opportunityID)
	if err != nil {
		return errors.Wrap(err, "delete report")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete report: rows affected")
	}
	if rows == 0 {
		return errors.ErrNotFound
	}
	return nil
}
