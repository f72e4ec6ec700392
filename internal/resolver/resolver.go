// Package resolver turns a token cluster into a structured pick using
// market-context heuristics, or validates a manually entered selection.
// Every expected failure is a returned error; the caller decides whether to
// fall back to manual entry.
package resolver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jraydirect/wagerloop-sub005/internal/clusterer"
	"github.com/jraydirect/wagerloop-sub005/pkg/models"
	"github.com/jraydirect/wagerloop-sub005/pkg/oddsmath"
)

var (
	// ErrNoPriceFound means the cluster contained no odds-classified token
	ErrNoPriceFound = errors.New("no price found near the selection")

	// ErrTeamNotResolved means no team token matched the matchup's teams
	ErrTeamNotResolved = errors.New("team could not be resolved against the matchup")

	// ErrSideUnresolved means a total market carried no over/under direction
	ErrSideUnresolved = errors.New("total market has no over/under direction")
)

// Config tunes the resolver
type Config struct {
	// TeamSimilarityFloor is the minimum edit-distance similarity for the
	// fuzzy team-match fallback, 0..1
	TeamSimilarityFloor float64
}

// DefaultConfig returns the standard resolver tuning
func DefaultConfig() *Config {
	return &Config{TeamSimilarityFloor: 0.6}
}

// Resolver builds picks from token clusters or manual selections
type Resolver struct {
	config *Config
}

// New creates a resolver with default tuning
func New() *Resolver {
	return &Resolver{config: DefaultConfig()}
}

// NewWithConfig creates a resolver with custom tuning
func NewWithConfig(config *Config) *Resolver {
	if config == nil {
		config = DefaultConfig()
	}
	return &Resolver{config: config}
}

// Resolve turns a cluster into a pick for the given matchup.
//
// Price: the single highest-confidence odds token wins; confidence ties break
// by distance to the focal point, then reading order, so a spread line misread
// as a second price can never flip the result between calls.
func (r *Resolver) Resolve(cluster models.TokenCluster, gctx models.GameContext) (models.Pick, error) {
	price := choosePrice(cluster)
	if price == nil {
		return models.Pick{}, ErrNoPriceFound
	}

	used := []models.ClassifiedToken{*price}

	market, side, label := determineMarket(cluster, *price)
	if label != nil {
		used = append(used, *label)
	}

	line, lineToken := adjacentLine(cluster, *price)
	if market != models.MarketMoneyline && lineToken != nil {
		used = append(used, *lineToken)
	}

	pick := models.Pick{
		ID:            uuid.NewString(),
		GameRef:       gctx.GameRef,
		MarketType:    market,
		PriceAmerican: price.Text,
		MarketSource:  models.MarketSourceInferred,
	}
	if label != nil {
		pick.MarketSource = models.MarketSourceLabeled
	}
	if market == models.MarketSpread || market == models.MarketTotal {
		pick.Line = line
	}

	if market == models.MarketTotal {
		if side == "" {
			return models.Pick{}, ErrSideUnresolved
		}
		pick.Side = side
	} else {
		team := nearestTeamToken(cluster, *price)
		if team == nil {
			return models.Pick{}, ErrTeamNotResolved
		}
		used = append(used, *team)

		matched, err := r.matchTeam(team.Text, gctx)
		if err != nil {
			return models.Pick{}, err
		}
		pick.Side = matched
	}

	pick.Confidence = minConfidence(used)
	return pick, nil
}

// ManualSelection is a pre-built pick tuple from the UI, bypassing recognition
type ManualSelection struct {
	GameRef       string           `json:"game_ref"`
	TeamName      string           `json:"team_name,omitempty"`
	MarketType    models.MarketType `json:"market_type"`
	Side          models.Side      `json:"side"`
	PriceAmerican string           `json:"price_american"`
	Line          *float64         `json:"line,omitempty"`
}

// ResolveManual validates a manual selection and builds a pick from it
func (r *Resolver) ResolveManual(sel ManualSelection, gctx models.GameContext) (models.Pick, error) {
	if _, err := oddsmath.ParseAmerican(sel.PriceAmerican); err != nil {
		return models.Pick{}, err
	}
	if !sel.MarketType.Valid() {
		return models.Pick{}, fmt.Errorf("unknown market type: %s", sel.MarketType)
	}
	if !sel.Side.Valid() {
		return models.Pick{}, fmt.Errorf("unknown side: %s", sel.Side)
	}
	if err := validateSide(sel.MarketType, sel.Side, gctx); err != nil {
		return models.Pick{}, err
	}
	if err := r.validateTeamName(sel, gctx); err != nil {
		return models.Pick{}, err
	}

	gameRef := sel.GameRef
	if gameRef == "" {
		gameRef = gctx.GameRef
	}

	return models.Pick{
		ID:            uuid.NewString(),
		GameRef:       gameRef,
		MarketType:    sel.MarketType,
		Side:          sel.Side,
		PriceAmerican: sel.PriceAmerican,
		Line:          sel.Line,
		Confidence:    1.0,
		MarketSource:  models.MarketSourceManual,
	}, nil
}

// validateTeamName cross-checks an optional team name against the chosen
// side. Catches the UI sending a side that contradicts the team the user
// tapped; a name that matches neither team is rejected outright.
func (r *Resolver) validateTeamName(sel ManualSelection, gctx models.GameContext) error {
	if sel.TeamName == "" {
		return nil
	}
	if sel.Side != models.SideHome && sel.Side != models.SideAway {
		return nil
	}

	matched, err := r.matchTeam(sel.TeamName, gctx)
	if err != nil {
		return fmt.Errorf("team %q does not match this game: %w", sel.TeamName, err)
	}
	if matched != sel.Side {
		return fmt.Errorf("team %q is the %s side, not %s", sel.TeamName, matched, sel.Side)
	}
	return nil
}

// validateSide rejects side/market combinations that cannot exist
func validateSide(market models.MarketType, side models.Side, gctx models.GameContext) error {
	switch side {
	case models.SideOver, models.SideUnder:
		if market != models.MarketTotal && market != models.MarketPlayerProp {
			return fmt.Errorf("side %s requires a total or player prop market", side)
		}
	case models.SideDraw:
		if market != models.MarketMoneyline {
			return fmt.Errorf("draw is only valid on a moneyline market")
		}
		if !gctx.SupportsDraw() {
			return fmt.Errorf("sport %s does not support draws", gctx.Sport)
		}
	case models.SideHome, models.SideAway:
		if market == models.MarketTotal {
			return fmt.Errorf("side %s is not valid on a total market", side)
		}
	}
	return nil
}

// choosePrice selects the odds token to use as the price
func choosePrice(cluster models.TokenCluster) *models.ClassifiedToken {
	var best *models.ClassifiedToken
	var bestDist float64

	for i := range cluster.Tokens {
		token := &cluster.Tokens[i]
		if token.Role != models.RoleOdds {
			continue
		}
		dist := clusterer.Distance(token.BoundingBox, cluster.Focal)

		switch {
		case best == nil:
		case token.Confidence > best.Confidence:
		case token.Confidence == best.Confidence && dist < bestDist:
		default:
			continue
		}
		best, bestDist = token, dist
	}
	return best
}

// labelMarkets maps market-label text to market type. Over/under labels also
// carry the side.
var labelMarkets = map[string]struct {
	market models.MarketType
	side   models.Side
}{
	"ml":        {models.MarketMoneyline, ""},
	"moneyline": {models.MarketMoneyline, ""},
	"spread":    {models.MarketSpread, ""},
	"total":     {models.MarketTotal, ""},
	"o/u":       {models.MarketTotal, ""},
	"over":      {models.MarketTotal, models.SideOver},
	"under":     {models.MarketTotal, models.SideUnder},
}

// determineMarket picks the market type and, for totals, the side. An
// explicit market label always overrides shape-based inference; with no
// label, a fractional line next to the price implies spread (signed) or
// total (unsigned), and anything else is a moneyline.
func determineMarket(cluster models.TokenCluster, price models.ClassifiedToken) (models.MarketType, models.Side, *models.ClassifiedToken) {
	if label := nearestLabelToken(cluster, price); label != nil {
		entry := labelMarkets[strings.ToLower(strings.TrimSpace(label.Text))]
		side := entry.side
		if entry.market == models.MarketTotal && side == "" {
			side = totalDirection(cluster)
		}
		return entry.market, side, label
	}

	line, lineToken := adjacentLine(cluster, price)
	if lineToken != nil && line != nil && hasHalfFraction(*line) {
		if strings.HasPrefix(strings.TrimSpace(lineToken.Text), "+") ||
			strings.HasPrefix(strings.TrimSpace(lineToken.Text), "-") {
			return models.MarketSpread, "", nil
		}
		return models.MarketTotal, totalDirection(cluster), nil
	}

	return models.MarketMoneyline, "", nil
}

// totalDirection looks for an over/under directive anywhere in the cluster.
// Text-only: single-letter "O"/"U" reads never classify as market labels but
// still carry the direction.
func totalDirection(cluster models.TokenCluster) models.Side {
	for _, token := range cluster.Tokens {
		switch strings.ToLower(strings.TrimSpace(token.Text)) {
		case "over", "o":
			return models.SideOver
		case "under", "u":
			return models.SideUnder
		}
	}
	return ""
}

// nearestLabelToken finds the market label closest to the chosen price
func nearestLabelToken(cluster models.TokenCluster, price models.ClassifiedToken) *models.ClassifiedToken {
	return nearestWithRole(cluster, price, models.RoleMarketLabel)
}

// nearestTeamToken finds the team-name candidate closest to the chosen price
func nearestTeamToken(cluster models.TokenCluster, price models.ClassifiedToken) *models.ClassifiedToken {
	return nearestWithRole(cluster, price, models.RoleTeamName)
}

// nearestWithRole finds the closest token of a role to the price token,
// breaking distance ties by reading order
func nearestWithRole(cluster models.TokenCluster, price models.ClassifiedToken, role models.TokenRole) *models.ClassifiedToken {
	var best *models.ClassifiedToken
	var bestDist float64

	for i := range cluster.Tokens {
		token := &cluster.Tokens[i]
		if token.Role != role {
			continue
		}
		dist := boxDistance(token.BoundingBox, price.BoundingBox)
		if best == nil || dist < bestDist {
			best, bestDist = token, dist
		}
	}
	return best
}

// adjacentLine finds the line value next to the price, if any
func adjacentLine(cluster models.TokenCluster, price models.ClassifiedToken) (*float64, *models.ClassifiedToken) {
	number := nearestWithRole(cluster, price, models.RoleNumber)
	if number == nil {
		return nil, nil
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(number.Text), 64)
	if err != nil {
		return nil, nil
	}
	return &value, number
}

// hasHalfFraction reports whether a line lands on the half point, the shape
// that distinguishes spread/total lines from whole-number noise
func hasHalfFraction(line float64) bool {
	frac := line - float64(int64(line))
	if frac < 0 {
		frac = -frac
	}
	return frac == 0.5
}

// boxDistance is the Euclidean distance between two box centers
func boxDistance(a, b models.Rect) float64 {
	return clusterer.Distance(a, models.FocalPoint{X: b.CenterX(), Y: b.CenterY()})
}

// minConfidence is the resolver confidence: the weakest read among the tokens
// the pick was built from
func minConfidence(tokens []models.ClassifiedToken) float64 {
	min := 1.0
	for _, token := range tokens {
		if token.Confidence < min {
			min = token.Confidence
		}
	}
	return min
}
