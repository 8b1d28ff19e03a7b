package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ecospirit/greenmap/internal/core"
	"github.com/ecospirit/greenmap/internal/core/analysis"
	"github.com/ecospirit/greenmap/internal/core/model"
)

const (
	ServiceName    = "Eco Spirit Worker"
	ServiceVersion = "1.0.0"
)

// BuildingStore is the slice of the dataset store the handlers use.
type BuildingStore interface {
	ReadAll(ctx context.Context) (*model.FeatureCollection, error)
	Mutate(ctx context.Context, fn func(fc *model.FeatureCollection) error) error
	SetRecommendations(ctx context.Context, recs []model.Recommendation) error
	SaveSnapshot(ctx context.Context, key string, v any) error
}

type RecommendationLookup interface {
	Recommendations(ctx context.Context, sessionID string) ([]model.Recommendation, error)
}

type Server struct {
	Advisor         *core.Advisor
	Analyzer        *analysis.Analyzer
	Buildings       BuildingStore
	Recommendations RecommendationLookup
	Log             *zap.Logger

	// Now is swapped in tests; scoring uses its year.
	Now func() time.Time
}

func NewServer(advisor *core.Advisor, analyzer *analysis.Analyzer, buildings BuildingStore, recs RecommendationLookup, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		Advisor:         advisor,
		Analyzer:        analyzer,
		Buildings:       buildings,
		Recommendations: recs,
		Log:             log,
		Now:             time.Now,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(Recovery(s.Log), RequestLogger(s.Log, "/healthz"), CORS(DefaultCORSConfig))

	r.GET("/", s.Describe)
	r.GET("/healthz", s.Health)
	r.POST("/score", s.Score)
	r.POST("/chat", s.Chat)
	r.GET("/data", s.Data)

	r.POST("/api/chat", s.CookieChat)
	r.POST("/analyze-location", s.AnalyzeLocation)
	r.POST("/save-recommendations", s.SaveRecommendations)
	r.GET("/recommendations", s.SessionRecommendations)

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return r
}
