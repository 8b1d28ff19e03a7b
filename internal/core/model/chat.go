package model

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	SessionID       string                  `json:"sessionId"`
	Response        string                  `json:"response"`
	Recommendations []EnrichedRecommendation `json:"recommendations,omitempty"`
}

// Recommendation is one (building, reason, score) tuple produced by a
// recommendation round.
type Recommendation struct {
	BuildingID int     `json:"buildingId"`
	Reason     string  `json:"reason"`
	Score      float64 `json:"score"`
}

// EnrichedRecommendation adds the building's address and district for display.
type EnrichedRecommendation struct {
	BuildingID int     `json:"buildingId"`
	Score      float64 `json:"score"`
	Reason     string  `json:"reason"`
	Address    string  `json:"address"`
	District   string  `json:"district"`
}
