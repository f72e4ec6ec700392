// Package classifier tags recognized text tokens with the role they play in a
// sportsbook widget: price, line value, team name, market label, or noise.
// Classification is pure and deterministic so identical recognition output
// always produces identical tags.
package classifier

import (
	"regexp"
	"strings"

	"github.com/jraydirect/wagerloop-sub005/pkg/models"
)

var (
	// Sportsbook prices are always >= 100 in magnitude, so 3-4 digits
	oddsPattern = regexp.MustCompile(`^[+-]\d{3,4}$`)

	// A bare numeric value, possibly signed or fractional, e.g. "45.5" or "-3.5"
	numberPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

	// Team-name candidate: alphabetic, allowing the separators that appear in
	// real team names ("Trail Blazers", "76ers" is caught by the keyword and
	// number rules first)
	teamPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z .'\-]*$`)
)

// marketKeywords are the finite market-label vocabulary, lowercased
var marketKeywords = map[string]bool{
	"ml":        true,
	"moneyline": true,
	"spread":    true,
	"total":     true,
	"o/u":       true,
	"over":      true,
	"under":     true,
}

// totalKeywords mark a neighboring numeric token as a spread/total line
var totalKeywords = map[string]bool{
	"over":  true,
	"under": true,
	"o":     true,
	"u":     true,
	"o/u":   true,
}

// Config tunes the classifier
type Config struct {
	// ConfidenceFloor forces any token recognized below this confidence to
	// noise regardless of pattern match. A low-confidence read must never
	// silently produce a wrong price.
	ConfidenceFloor float64
}

// DefaultConfig returns the standard classifier tuning
func DefaultConfig() *Config {
	return &Config{ConfidenceFloor: 0.4}
}

// Classifier tags raw recognized tokens with their roles
type Classifier struct {
	config *Config
}

// New creates a classifier with default tuning
func New() *Classifier {
	return &Classifier{config: DefaultConfig()}
}

// NewWithConfig creates a classifier with custom tuning
func NewWithConfig(config *Config) *Classifier {
	if config == nil {
		config = DefaultConfig()
	}
	return &Classifier{config: config}
}

// Classify tags each token with its role. Rules apply in priority order:
// odds price, line number, market label, team-name candidate, noise.
func (c *Classifier) Classify(tokens []models.TextToken) []models.ClassifiedToken {
	classified := make([]models.ClassifiedToken, 0, len(tokens))
	for i, token := range tokens {
		classified = append(classified, models.ClassifiedToken{
			TextToken: token,
			Role:      c.classifyOne(tokens, i),
		})
	}
	return classified
}

// classifyOne determines the role of tokens[i]
func (c *Classifier) classifyOne(tokens []models.TextToken, i int) models.TokenRole {
	token := tokens[i]

	if token.Confidence < c.config.ConfidenceFloor {
		return models.RoleNoise
	}

	text := strings.TrimSpace(token.Text)
	lower := strings.ToLower(text)

	switch {
	case oddsPattern.MatchString(text):
		return models.RoleOdds

	case numberPattern.MatchString(text) && hasAdjacentTotalKeyword(tokens, i):
		return models.RoleNumber

	case marketKeywords[lower]:
		return models.RoleMarketLabel

	case isTeamCandidate(text, lower):
		return models.RoleTeamName
	}

	return models.RoleNoise
}

// isTeamCandidate reports whether the text looks like a team name:
// alphabetic with at least 3 letters and not a market keyword
func isTeamCandidate(text, lower string) bool {
	if marketKeywords[lower] {
		return false
	}
	if !teamPattern.MatchString(text) {
		return false
	}

	letters := 0
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letters++
		}
	}
	return letters >= 3
}

// hasAdjacentTotalKeyword reports whether any Over/Under keyword token sits
// horizontally next to tokens[i] on the same text line
func hasAdjacentTotalKeyword(tokens []models.TextToken, i int) bool {
	subject := tokens[i]
	for j, other := range tokens {
		if j == i {
			continue
		}
		if !totalKeywords[strings.ToLower(strings.TrimSpace(other.Text))] {
			continue
		}
		if horizontallyAdjacent(subject.BoundingBox, other.BoundingBox) {
			return true
		}
	}
	return false
}

// horizontallyAdjacent reports whether two boxes share a text line and sit
// close enough side by side to read as one phrase
func horizontallyAdjacent(a, b models.Rect) bool {
	lineHeight := a.Height
	if b.Height > lineHeight {
		lineHeight = b.Height
	}
	if lineHeight <= 0 {
		return false
	}

	vertical := a.CenterY() - b.CenterY()
	if vertical < 0 {
		vertical = -vertical
	}
	if vertical > lineHeight {
		return false
	}

	gap := horizontalGap(a, b)
	return gap <= 2*lineHeight
}

// horizontalGap is the edge-to-edge horizontal distance, zero when overlapping
func horizontalGap(a, b models.Rect) float64 {
	if a.X > b.X+b.Width {
		return a.X - (b.X + b.Width)
	}
	if b.X > a.X+a.Width {
		return b.X - (a.X + a.Width)
	}
	return 0
}
