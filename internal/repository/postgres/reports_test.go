package postgres

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideascope/internal/domain/report"
	"ideascope/internal/testsupport"
	"ideascope/pkg/errors"
)

func TestReportRepository_UpsertAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	defer testDB.Close()

	repo := NewReportRepository(testDB.Tx())
	ctx := context.Background()

	rep := &report.AnalysisReport{
		OpportunityID: "opp-test-1",
		Source:        report.SourceGenerated,
		Confidence:    71,
		AgentsUsed:    pq.StringArray{"market_research", "risk_assessment"},
		Payload:       json.RawMessage(`{"confidence": 71}`),
	}

	require.NoError(t, repo.Upsert(ctx, rep))
	assert.NotZero(t, rep.ID)
	assert.NotZero(t, rep.CreatedAt)

	got, err := repo.GetByOpportunityID(ctx, "opp-test-1")
	require.NoError(t, err)
	assert.Equal(t, report.SourceGenerated, got.Source)
	assert.Equal(t, 71, got.Confidence)
	assert.JSONEq(t, `{"confidence": 71}`, string(got.Payload))
}

func TestReportRepository_UpsertReplaces(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	defer testDB.Close()

	repo := NewReportRepository(testDB.Tx())
	ctx := context.Background()

	first := &report.AnalysisReport{
		OpportunityID: "opp-test-2",
		Source:        report.SourceGenerated,
		Confidence:    60,
		AgentsUsed:    pq.StringArray{"market_research"},
		Payload:       json.RawMessage(`{"v": 1}`),
	}
	require.NoError(t, repo.Upsert(ctx, first))

	second := &report.AnalysisReport{
		OpportunityID: "opp-test-2",
		Source:        report.SourceGenerated,
		Confidence:    75,
		AgentsUsed:    pq.StringArray{"market_research", "founder_fit"},
		Payload:       json.RawMessage(`{"v": 2}`),
	}
	require.NoError(t, repo.Upsert(ctx, second))

	got, err := repo.GetByOpportunityID(ctx, "opp-test-2")
	require.NoError(t, err)
	assert.Equal(t, 75, got.Confidence)
	assert.JSONEq(t, `{"v": 2}`, string(got.Payload))
}

func TestReportRepository_GetMissing(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	defer testDB.Close()

	repo := NewReportRepository(testDB.Tx())

	_, err := repo.GetByOpportunityID(context.Background(), "no-such-opportunity")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestReportRepository_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testsupport.NewTestPostgres(t)
	defer testDB.Close()

	repo := NewReportRepository(testDB.Tx())
	ctx := context.Background()

	rep := &report.AnalysisReport{
		OpportunityID: "opp-test-3",
		Source:        report.SourceGenerated,
		Confidence:    50,
		AgentsUsed:    pq.StringArray{"market_research"},
		Payload:       json.RawMessage(`{}`),
	}
	require.NoError(t, repo.Upsert(ctx, rep))

	require.NoError(t, repo.Delete(ctx, "opp-test-3"))

	_, err := repo.GetByOpportunityID(ctx, "opp-test-3")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	assert.True(t, errors.Is(repo.Delete(ctx, "opp-test-3"), errors.ErrNotFound))
}
