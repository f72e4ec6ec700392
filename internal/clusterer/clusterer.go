// Package clusterer selects the classified tokens near a user's focal point
// and orders them in natural reading order. Odds widgets render row-aligned
// content, so a radius search around the tap approximates "what the user
// pointed at" without per-provider layout knowledge.
package clusterer

import (
	"math"
	"sort"

	"github.com/jraydirect/wagerloop-sub005/pkg/models"
)

// DefaultRadius is the capture-resolution search radius in pixels
const DefaultRadius = 100.0

// Config tunes the clusterer
type Config struct {
	Radius float64
}

// DefaultConfig returns the standard clusterer tuning
func DefaultConfig() *Config {
	return &Config{Radius: DefaultRadius}
}

// Clusterer groups classified tokens around a focal point
type Clusterer struct {
	config *Config
}

// New creates a clusterer with default tuning
func New() *Clusterer {
	return &Clusterer{config: DefaultConfig()}
}

// NewWithConfig creates a clusterer with custom tuning
func NewWithConfig(config *Config) *Clusterer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Clusterer{config: config}
}

// Cluster retains tokens whose bounding-box centers fall within the radius of
// the focal point, sorted by row then column. If nothing falls within the
// radius it doubles the radius once and retries; a still-empty cluster is a
// normal extraction failure for the caller to handle, not an error here.
func (c *Clusterer) Cluster(tokens []models.ClassifiedToken, focal models.FocalPoint) models.TokenCluster {
	retained := withinRadius(tokens, focal, c.config.Radius)
	if len(retained) == 0 {
		retained = withinRadius(tokens, focal, c.config.Radius*2)
	}

	sortReadingOrder(retained)

	return models.TokenCluster{Tokens: retained, Focal: focal}
}

// withinRadius filters tokens by Euclidean distance from box center to focal
func withinRadius(tokens []models.ClassifiedToken, focal models.FocalPoint, radius float64) []models.ClassifiedToken {
	var retained []models.ClassifiedToken
	for _, token := range tokens {
		if Distance(token.BoundingBox, focal) <= radius {
			retained = append(retained, token)
		}
	}
	return retained
}

// Distance is the Euclidean distance from a box's center to the focal point
func Distance(box models.Rect, focal models.FocalPoint) float64 {
	dx := box.CenterX() - focal.X
	dy := box.CenterY() - focal.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// sortReadingOrder orders tokens by (row bucket, x). Tokens whose vertical
// centers fall within one text-line height of a row's anchor share that row,
// approximating how a person reads the widget.
func sortReadingOrder(tokens []models.ClassifiedToken) {
	if len(tokens) == 0 {
		return
	}

	lineHeight := medianHeight(tokens)

	// Stable two-pass bucketing: anchor rows top-down, then sort by (row, x)
	byCenterY := make([]models.ClassifiedToken, len(tokens))
	copy(byCenterY, tokens)
	sort.SliceStable(byCenterY, func(i, j int) bool {
		return byCenterY[i].BoundingBox.CenterY() < byCenterY[j].BoundingBox.CenterY()
	})

	rows := make(map[models.Rect]int, len(tokens))
	row := 0
	anchor := byCenterY[0].BoundingBox.CenterY()
	for _, token := range byCenterY {
		cy := token.BoundingBox.CenterY()
		if cy-anchor > lineHeight {
			row++
			anchor = cy
		}
		rows[token.BoundingBox] = row
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		ri, rj := rows[tokens[i].BoundingBox], rows[tokens[j].BoundingBox]
		if ri != rj {
			return ri < rj
		}
		return tokens[i].BoundingBox.X < tokens[j].BoundingBox.X
	})
}

// medianHeight approximates one text-line height from the retained boxes
func medianHeight(tokens []models.ClassifiedToken) float64 {
	heights := make([]float64, 0, len(tokens))
	for _, token := range tokens {
		heights = append(heights, token.BoundingBox.Height)
	}
	sort.Float64s(heights)

	median := heights[len(heights)/2]
	if median <= 0 {
		return 1
	}
	return median
}
