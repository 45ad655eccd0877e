package kafka

// Topics published by the analysis service
const (
	// TopicAnalysisCompleted carries one event per finished orchestration run
	TopicAnalysisCompleted = "ideascope.analysis.completed"
)

// AnalysisCompletedEvent is published after a report has been assembled,
// regardless of which tier produced it.
type AnalysisCompletedEvent struct {
	OpportunityID string   `json:"opportunity_id"`
	Source        string   `json:"source"` // database | generated | sample
	AgentsUsed    []string `json:"agents_used"`
	Confidence    int      `json:"confidence"`
	DurationMs    int64    `json:"duration_ms"`
}
