package sentiment

import (
	"context"
	"time"

	"sentiment-trading-bot/internal/logger"
	"sentiment-trading-bot/internal/trace"
)

// Estimator produces one aggregate news sentiment score per cycle. Any
// failure folds into a neutral 0 so the bot loop never sees an error from
// sentiment estimation.
type Estimator struct {
	scraper *Scraper
	scorer  *Scorer
}

// NewEstimator creates an estimator for the given listing URL.
func NewEstimator(pageURL string, timeout time.Duration) *Estimator {
	return &Estimator{
		scraper: NewScraper(pageURL, timeout),
		scorer:  NewScorer(),
	}
}

// Score fetches the headline page and returns the mean compound score of all
// headlines, bounded in [-1, 1]. Returns 0 on fetch failure or when no
// headlines are found.
func (e *Estimator) Score(ctx context.Context) float64 {
	ctx, span := trace.StartSpan(ctx, "sentiment.Score")
	defer span.End()

	headlines, err := e.scraper.Headlines(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Sentiment fetch failed, using neutral score", err)
		return 0
	}
	if len(headlines) == 0 {
		logger.Warn(ctx, "No headlines found, using neutral score")
		return 0
	}

	score := e.scorer.Mean(headlines)
	logger.Debug(ctx, "Sentiment computed", "headlines", len(headlines), "score", score)
	return score
}
