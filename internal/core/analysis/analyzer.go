// Package analysis produces a neighborhood and sustainability report for a
// map location, falling back to a stock report whenever the model cannot.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ecospirit/greenmap/internal/apperr"
	"github.com/ecospirit/greenmap/internal/core/common"
	"github.com/ecospirit/greenmap/internal/core/model"
	"github.com/ecospirit/greenmap/internal/llm"
)

const DefaultTimeout = 20 * time.Second

var analysisOptions = llm.Options{MaxTokens: 1400, Temperature: 0.2}

// Result carries the report plus the status the HTTP layer should use.
type Result struct {
	Analysis *Analysis `json:"analysis"`
	Warning  string    `json:"warning,omitempty"`
	Status   int       `json:"-"`
}

type Analyzer struct {
	LLM     llm.LLMClient // nil serves the fallback report
	Timeout time.Duration
	Log     *zap.Logger
}

func NewAnalyzer(llmClient llm.LLMClient, timeout time.Duration, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Analyzer{LLM: llmClient, Timeout: timeout, Log: log}
}

// Validate reports a validation error unless both coordinates are present.
func (l *Location) Validate() error {
	if l == nil || l.Lat == nil || l.Lng == nil {
		return apperr.Validation(`Missing or invalid "location" (require { lat: number, lng: number })`)
	}
	return nil
}

func (a *Analyzer) Analyze(ctx context.Context, loc *Location) (*Result, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	if a.LLM == nil {
		a.Log.Warn("no analysis model configured, serving fallback")
		return &Result{Analysis: Fallback(), Status: http.StatusOK}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	reply, err := a.LLM.Chat(ctx, []model.ChatMessage{
		{Role: model.RoleUser, Content: buildPrompt(*loc.Lat, *loc.Lng)},
	}, analysisOptions)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			a.Log.Error("analysis model timed out", zap.Duration("timeout", a.Timeout))
			return &Result{Analysis: Fallback(), Warning: "Request to model timed out", Status: http.StatusGatewayTimeout}, nil
		}
		a.Log.Error("analysis model failed", zap.Error(err))
		return &Result{
			Analysis: Fallback(),
			Warning:  apperr.Upstream(err, "Upstream model request failed").Error(),
			Status:   http.StatusBadGateway,
		}, nil
	}

	if strings.TrimSpace(reply) == "" {
		a.Log.Warn("analysis model returned no content")
		return &Result{Analysis: Fallback(), Warning: "No content returned from model", Status: http.StatusOK}, nil
	}

	parsed, err := common.ParseJSON[Analysis](reply)
	if err != nil {
		a.Log.Warn("could not parse analysis reply", zap.Error(err), zap.String("raw", truncate(reply, 2000)))
		return &Result{Analysis: Fallback(), Warning: "Failed to parse model JSON; returned fallback analysis", Status: http.StatusOK}, nil
	}
	if parsed.PopulationData == nil || parsed.BusinessAnalysis == nil {
		a.Log.Warn("analysis reply missing required sections")
		return &Result{Analysis: Fallback(), Warning: "Parsed analysis incomplete", Status: http.StatusOK}, nil
	}

	return &Result{Analysis: &parsed, Status: http.StatusOK}, nil
}

func buildPrompt(lat, lng float64) string {
	return fmt.Sprintf("You are an expert environmental consultant. Provide the requested analysis as strictly valid JSON only. "+
		"Analyze the location at coordinates %v, %v in Boston for a sustainable business. "+
		"Consider neighborhood characteristics, demographics, environmental factors, and business potential. "+
		"Return strictly valid JSON with the top-level keys populationData, businessAnalysis, environmentalImpact, "+
		"communityBenefits, sustainabilityMetrics, policySimulation, collaborativeDecisionMaking, recommendations (array of strings) and riskAssessment.",
		lng, lat)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
