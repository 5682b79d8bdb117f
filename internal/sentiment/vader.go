package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonreiter/govader"
)

var ErrScorerFailed = errors.New("sentiment scorer failed")

// Scores are the two metrics shown for every analysis.
type Scores struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

type Scorer interface {
	Score(ctx context.Context, text string) (Scores, error)
}

// VaderScorer scores text with the VADER lexicon. Polarity is the compound
// score; subjectivity is the share of the text carrying any sentiment.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderScorer) Score(ctx context.Context, text string) (scores Scores, err error) {
	if err := ctx.Err(); err != nil {
		return Scores{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Scores{}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("[VaderScorer] Lexicon scorer panicked",
				slog.Any("panic", r))
			scores = Scores{}
			err = fmt.Errorf("%w: %v", ErrScorerFailed, r)
		}
	}()

	sentiment := v.analyzer.PolarityScores(text)

	return Scores{
		Polarity:     clamp(sentiment.Compound, -1, 1),
		Subjectivity: clamp(sentiment.Positive+sentiment.Negative, 0, 1),
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
