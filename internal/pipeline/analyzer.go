// Package pipeline runs one analysis: normalize, score, label, log.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/tweetsense/internal/models"
	"github.com/spacesedan/tweetsense/internal/searchlog"
	"github.com/spacesedan/tweetsense/internal/sentiment"
)

var ErrEmptyInput = errors.New("please enter text for analysis")

type TextNormalizer interface {
	Normalize(text string) string
}

type Analyzer struct {
	normalizer TextNormalizer
	scorer     sentiment.Scorer
	now        func() time.Time
}

func NewAnalyzer(normalizer TextNormalizer, scorer sentiment.Scorer) *Analyzer {
	return &Analyzer{
		normalizer: normalizer,
		scorer:     scorer,
		now:        time.Now,
	}
}

// Analyze scores req.Text and appends exactly one record to log. Nothing is
// appended when an error is returned.
func (a *Analyzer) Analyze(ctx context.Context, log *searchlog.SearchLog, req models.AnalyzeRequest) (models.AnalyzeResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		slog.Warn("[Analyzer] Empty input, nothing to analyze")
		return models.AnalyzeResult{}, ErrEmptyInput
	}
	if err := Validate(&req); err != nil {
		return models.AnalyzeResult{}, err
	}

	start := time.Now()
	cleaned := a.normalizer.Normalize(req.Text)

	scores, err := a.scorer.Score(ctx, cleaned)
	if err != nil {
		slog.Error("[Analyzer] Scoring failed",
			slog.String("error", err.Error()))
		return models.AnalyzeResult{}, fmt.Errorf("failed to score text: %w", err)
	}

	record := models.AnalysisRecord{
		InputText:    req.Text,
		Polarity:     scores.Polarity,
		Subjectivity: scores.Subjectivity,
		Label:        sentiment.LabelFor(scores.Polarity),
		Cleaned:      cleaned,
		AnalyzedAt:   a.now(),
	}
	log.Append(record)

	slog.Info("[Analyzer] Analysis complete",
		slog.String("sentiment", string(record.Label)),
		slog.Float64("polarity", record.Polarity),
		slog.Float64("subjectivity", record.Subjectivity),
		slog.String("language", req.Language),
		slog.Int("limit", *req.Limit),
		slog.Duration("elapsed", time.Since(start)))

	return models.AnalyzeResult{
		Record:  record,
		Cleaned: cleaned,
		Chart: []models.ChartBar{
			{Metric: "Polarity", Value: record.Polarity},
			{Metric: "Subjectivity", Value: record.Subjectivity},
		},
	}, nil
}
