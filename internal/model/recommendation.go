package model

// RecommendationType categorizes the tone of a recommendation.
type RecommendationType string

// Recommendation type constants.
const (
	TypeWarning RecommendationType = "warning"
	TypeError   RecommendationType = "error"
	TypeSuccess RecommendationType = "success"
	TypeInfo    RecommendationType = "info"
	TypeInsight RecommendationType = "insight"
)

// Priority indicates how urgently a recommendation should be acted on.
type Priority string

// Priority constants, ordered high to low.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort rank of a priority; lower sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Recommendation is a single piece of actionable financial advice.
// Recommendations are ephemeral and regenerated on every request.
type Recommendation struct {
	Type     RecommendationType `json:"type"`
	Priority Priority           `json:"priority"`
	Title    string             `json:"title"`
	Message  string             `json:"message"`
	Action   string             `json:"action"`
}
