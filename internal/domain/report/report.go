package report

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Analysis serving tiers, in lookup order.
const (
	SourceDatabase  = "database"
	SourceGenerated = "generated"
	SourceSample    = "sample"
)

// AnalysisReport is one persisted multi-agent analysis of an opportunity.
// Payload holds the full combined analysis as JSON; the scalar columns exist
// for querying without unpacking it.
type AnalysisReport struct {
	ID            uuid.UUID       `db:"id"`
	OpportunityID string          `db:"opportunity_id"`
	Source        string          `db:"source"`
	Confidence    int             `db:"confidence"`
	AgentsUsed    pq.StringArray  `db:"agents_used"`
	Payload       json.RawMessage `db:"payload"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}
