package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ecospirit/greenmap/internal/apperr"
	"github.com/ecospirit/greenmap/internal/core/analysis"
	"github.com/ecospirit/greenmap/internal/core/model"
	"github.com/ecospirit/greenmap/internal/core/scoring"
)

const (
	SessionCookie     = "eco-spirit-session"
	sessionCookieAge  = 24 * 60 * 60
	RecommendationKey = "recommendations.json"
)

// fail writes {error} with the status derived from err.
func (s *Server) fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.Log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) Describe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": ServiceName,
		"version": ServiceVersion,
		"endpoints": gin.H{
			"/score": "POST - Calculate green scores for all buildings",
			"/chat":  "POST - Chat with AI for recommendations",
			"/data":  "GET - Get GeoJSON data (?recommended=true for filtered)",
		},
	})
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Score(c *gin.Context) {
	year := s.Now().Year()

	var summary scoring.Summary
	err := s.Buildings.Mutate(c.Request.Context(), func(fc *model.FeatureCollection) error {
		summary = scoring.ScoreCollection(fc, year)
		return nil
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	s.Log.Info("buildings scored", zap.Int("total", summary.Total), zap.Int("avg_score", summary.AvgScore))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Scored %d buildings", summary.Total),
		"summary": summary,
	})
}

func (s *Server) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apperr.Validation("Invalid JSON body"))
		return
	}

	resp, err := s.Advisor.Chat(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type cookieChatRequest struct {
	Message string `json:"message"`
}

// CookieChat runs a chat turn for browser clients, keeping the session id in
// a cookie.
func (s *Server) CookieChat(c *gin.Context) {
	var req cookieChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		s.fail(c, apperr.Validation("Message is required"))
		return
	}

	sessionID, err := c.Cookie(SessionCookie)
	if err != nil || sessionID == "" {
		sessionID = "session-" + uuid.NewString()
	}

	resp, err := s.Advisor.Chat(c.Request.Context(), model.ChatRequest{SessionID: sessionID, Message: req.Message})
	if err != nil {
		s.fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, sessionID, sessionCookieAge, "/", "", false, true)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) Data(c *gin.Context) {
	fc, err := s.Buildings.ReadAll(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	if c.Query("recommended") == "true" {
		fc = fc.Filter(func(f *model.Feature) bool { return f.Properties.Recommended })
	}

	c.Header("Cache-Control", "public, max-age=60")
	c.JSON(http.StatusOK, fc)
}

type analyzeRequest struct {
	Location     *analysis.Location `json:"location"`
	ModelType    string             `json:"modelType"`
	BuildingData any                `json:"buildingData"`
}

func (s *Server) AnalyzeLocation(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apperr.Validation("Invalid JSON body"))
		return
	}

	res, err := s.Analyzer.Analyze(c.Request.Context(), req.Location)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(res.Status, res)
}

type savedRecommendation struct {
	BuildingID int      `json:"buildingId"`
	Reason     string   `json:"reason"`
	Score      *float64 `json:"score"`
	Address    string   `json:"address"`
	District   string   `json:"district"`
}

type saveRequest struct {
	Recommendations []savedRecommendation `json:"recommendations"`
}

type savedRecommendations struct {
	Timestamp       time.Time             `json:"timestamp"`
	Recommendations []savedRecommendation `json:"recommendations"`
}

// SaveRecommendations flags a hand-picked set of buildings. The dataset update
// is best-effort; its outcome is reported in geojsonUpdated.
func (s *Server) SaveRecommendations(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Recommendations == nil {
		s.fail(c, apperr.Validation("Invalid data format"))
		return
	}
	ctx := c.Request.Context()

	saved := savedRecommendations{Timestamp: s.Now().UTC(), Recommendations: req.Recommendations}
	if err := s.Buildings.SaveSnapshot(ctx, RecommendationKey, saved); err != nil {
		s.fail(c, err)
		return
	}

	recs := make([]model.Recommendation, len(req.Recommendations))
	for i, r := range req.Recommendations {
		recs[i] = model.Recommendation{BuildingID: r.BuildingID, Reason: r.Reason}
		if r.Score != nil {
			recs[i].Score = *r.Score
		}
	}

	updated := true
	if err := s.Buildings.SetRecommendations(ctx, recs); err != nil {
		s.Log.Warn("failed to update dataset, recommendations were saved", zap.Error(err))
		updated = false
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"saved":          saved,
		"geojsonUpdated": updated,
	})
}

func (s *Server) SessionRecommendations(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		s.fail(c, apperr.Validation("sessionId is required"))
		return
	}

	recs, err := s.Recommendations.Recommendations(c.Request.Context(), sessionID)
	if err != nil {
		s.fail(c, err)
		return
	}
	if recs == nil {
		recs = []model.Recommendation{}
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID, "recommendations": recs})
}
