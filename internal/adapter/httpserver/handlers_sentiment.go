package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/sentilog/internal/domain"
	apperrors "github.com/pscheid92/sentilog/internal/platform/errors"
)

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	ID        int64            `json:"id"`
	Sentiment domain.Sentiment `json:"sentiment"`
	Score     int              `json:"score"`
}

type explainedResponse struct {
	analyzeResponse
	MatchedPositive []string `json:"matched_positive"`
	MatchedNegative []string `json:"matched_negative"`
}

func (s *Server) registerSentimentRoutes() {
	limiter := newAnalyzeLimiter(s.config.AnalyzeRateLimit, s.config.AnalyzeRateBurst)

	s.echo.POST("/api/sentiment", s.handleAnalyze, limiter)
	s.echo.GET("/api/history", s.handleHistory)
	s.echo.GET("/api/stats", s.handleStats)
}

func (s *Server) handleAnalyze(c echo.Context) error {
	ctx := c.Request().Context()

	explain, err := parseExplain(c.QueryParam("explain"))
	if err != nil {
		return apperrors.ValidationError("explain must be a boolean").WithContext("explain", c.QueryParam("explain"))
	}

	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	analysis, err := s.app.Analyze(ctx, req.Text)
	if errors.Is(err, domain.ErrEmptyInput) {
		return apperrors.ValidationError("Text is required")
	}
	var unsaved *domain.UnsavedAnalysisError
	if errors.As(err, &unsaved) {
		return apperrors.UnavailableError("analysis could not be saved", err).
			WithContext("sentiment", unsaved.Sentiment).
			WithContext("score", unsaved.Score)
	}
	if err != nil {
		return apperrors.InternalError("failed to analyze text", err)
	}

	resp := analyzeResponse{
		ID:        analysis.Record.ID,
		Sentiment: analysis.Record.Sentiment,
		Score:     analysis.Record.Score,
	}

	var body any = resp
	if explain {
		body = explainedResponse{
			analyzeResponse: resp,
			MatchedPositive: analysis.Result.MatchedPositive,
			MatchedNegative: analysis.Result.MatchedNegative,
		}
	}
	if err := c.JSON(http.StatusOK, body); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleHistory(c echo.Context) error {
	history, err := s.app.History(c.Request().Context())
	if err != nil {
		return storageFailure("history is unavailable", err)
	}
	if history.Records == nil {
		history.Records = []domain.AnalysisRecord{}
	}

	if err := c.JSON(http.StatusOK, history); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleStats(c echo.Context) error {
	dist, err := s.app.Stats(c.Request().Context())
	if err != nil {
		return storageFailure("stats are unavailable", err)
	}

	if err := c.JSON(http.StatusOK, dist); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// storageFailure maps store errors to 503 so clients know to retry; anything else is a 500.
func storageFailure(message string, err error) error {
	var storageErr *domain.StorageError
	if errors.As(err, &storageErr) {
		return apperrors.UnavailableError(message, err).WithContext("kind", storageErr.Kind)
	}
	return apperrors.InternalError(message, err)
}

func parseExplain(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
