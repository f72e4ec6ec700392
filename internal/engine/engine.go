// Package engine wires the extraction pipeline together:
// classify -> cluster -> resolve. Each run is an independent, synchronous,
// CPU-bound transform over in-memory data; concurrent runs need no
// synchronization.
package engine

import (
	"errors"

	"go.uber.org/zap"

	"github.com/jraydirect/wagerloop-sub005/internal/classifier"
	"github.com/jraydirect/wagerloop-sub005/internal/clusterer"
	"github.com/jraydirect/wagerloop-sub005/internal/config"
	"github.com/jraydirect/wagerloop-sub005/internal/metrics"
	"github.com/jraydirect/wagerloop-sub005/internal/resolver"
	"github.com/jraydirect/wagerloop-sub005/pkg/models"
)

// Engine runs the slip extraction pipeline
type Engine struct {
	classifier      *classifier.Classifier
	clusterer       *clusterer.Clusterer
	resolver        *resolver.Resolver
	reviewThreshold float64
	log             *zap.Logger
}

// New builds an engine from service configuration
func New(cfg config.EngineConfig, log *zap.Logger) *Engine {
	return &Engine{
		classifier: classifier.NewWithConfig(&classifier.Config{
			ConfidenceFloor: cfg.ClassifierConfidenceFloor,
		}),
		clusterer: clusterer.NewWithConfig(&clusterer.Config{
			Radius: cfg.ClusterRadius,
		}),
		resolver: resolver.NewWithConfig(&resolver.Config{
			TeamSimilarityFloor: cfg.TeamSimilarityFloor,
		}),
		reviewThreshold: cfg.ReviewThreshold,
		log:             log,
	}
}

// Result is a resolved pick plus the caller's review hint
type Result struct {
	Pick models.Pick `json:"pick"`

	// NeedsReview is set when resolver confidence fell below the review
	// threshold; the UI prompts for manual correction instead of adding
	// the pick silently
	NeedsReview bool `json:"needs_review"`
}

// Extract runs the full pipeline over recognized tokens and a focal point.
// Failures are returned values; recognition producing nothing usable is a
// normal outcome, not a crash.
func (e *Engine) Extract(tokens []models.TextToken, focal models.FocalPoint, gctx models.GameContext) (Result, error) {
	classified := e.classifier.Classify(tokens)
	cluster := e.clusterer.Cluster(classified, focal)

	if cluster.IsEmpty() {
		metrics.ExtractionsTotal.WithLabelValues(metrics.ResultEmptyCluster).Inc()
		e.log.Debug("empty cluster",
			zap.Int("tokens", len(tokens)),
			zap.Float64("focal_x", focal.X),
			zap.Float64("focal_y", focal.Y),
		)
		return Result{}, resolver.ErrNoPriceFound
	}

	pick, err := e.resolver.Resolve(cluster, gctx)
	if err != nil {
		metrics.ExtractionsTotal.WithLabelValues(outcomeLabel(err)).Inc()
		e.log.Debug("extraction failed",
			zap.String("game_ref", gctx.GameRef),
			zap.Int("cluster_size", len(cluster.Tokens)),
			zap.Error(err),
		)
		return Result{}, err
	}

	metrics.ExtractionsTotal.WithLabelValues(metrics.ResultResolved).Inc()
	metrics.MarketSourceTotal.WithLabelValues(string(pick.MarketSource)).Inc()

	e.log.Debug("pick resolved",
		zap.String("pick_id", pick.ID),
		zap.String("market", string(pick.MarketType)),
		zap.String("side", string(pick.Side)),
		zap.String("price", pick.PriceAmerican),
		zap.Float64("confidence", pick.Confidence),
	)

	return Result{
		Pick:        pick,
		NeedsReview: pick.Confidence < e.reviewThreshold,
	}, nil
}

// Manual validates a user-entered selection, bypassing recognition
func (e *Engine) Manual(sel resolver.ManualSelection, gctx models.GameContext) (models.Pick, error) {
	pick, err := e.resolver.ResolveManual(sel, gctx)
	if err != nil {
		return models.Pick{}, err
	}
	metrics.MarketSourceTotal.WithLabelValues(string(models.MarketSourceManual)).Inc()
	return pick, nil
}

// outcomeLabel maps resolver failures to metric labels
func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, resolver.ErrNoPriceFound):
		return metrics.ResultNoPrice
	case errors.Is(err, resolver.ErrTeamNotResolved):
		return metrics.ResultTeamFailed
	case errors.Is(err, resolver.ErrSideUnresolved):
		return metrics.ResultSideFailed
	}
	return "error"
}
