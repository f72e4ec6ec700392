package resolver_test

import (
	"errors"
	"testing"

	"github.com/jraydirect/wagerloop-sub005/internal/resolver"
	"github.com/jraydirect/wagerloop-sub005/pkg/models"
	"github.com/jraydirect/wagerloop-sub005/pkg/oddsmath"
)

func classified(text string, role models.TokenRole, x, y, confidence float64) models.ClassifiedToken {
	return models.ClassifiedToken{
		TextToken: models.TextToken{
			Text:        text,
			BoundingBox: models.Rect{X: x, Y: y, Width: 40, Height: 20},
			Confidence:  confidence,
		},
		Role: role,
	}
}

func nbaContext() models.GameContext {
	return models.GameContext{
		GameRef:  "nba-lal-gsw",
		HomeTeam: "Los Angeles Lakers",
		AwayTeam: "Golden State Warriors",
		Sport:    "basketball",
	}
}

func cluster(focal models.FocalPoint, tokens ...models.ClassifiedToken) models.TokenCluster {
	return models.TokenCluster{Tokens: tokens, Focal: focal}
}

// The canonical two-row moneyline widget: tapping near the home price
// resolves the home moneyline pick.
func TestResolveMoneylineScenario(t *testing.T) {
	focal := models.FocalPoint{X: 220, Y: 60}
	c := cluster(focal,
		classified("Lakers", models.RoleTeamName, 100, 50, 0.95),
		classified("-150", models.RoleOdds, 200, 50, 0.9),
		classified("Warriors", models.RoleTeamName, 100, 100, 0.95),
		classified("+130", models.RoleOdds, 200, 100, 0.9),
	)

	pick, err := resolver.New().Resolve(c, nbaContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pick.MarketType != models.MarketMoneyline {
		t.Errorf("market = %s, want moneyline", pick.MarketType)
	}
	if pick.Side != models.SideHome {
		t.Errorf("side = %s, want home", pick.Side)
	}
	if pick.PriceAmerican != "-150" {
		t.Errorf("price = %s, want -150", pick.PriceAmerican)
	}
	if pick.MarketSource != models.MarketSourceInferred {
		t.Errorf("market source = %s, want inferred", pick.MarketSource)
	}
	if pick.GameRef != "nba-lal-gsw" {
		t.Errorf("game ref = %s", pick.GameRef)
	}
	// min confidence across the price and team tokens used
	if pick.Confidence != 0.9 {
		t.Errorf("confidence = %f, want 0.9", pick.Confidence)
	}
	if pick.ID == "" {
		t.Error("pick id should be assigned")
	}
}

func TestResolveNoPriceFound(t *testing.T) {
	focal := models.FocalPoint{X: 120, Y: 60}
	c := cluster(focal,
		classified("Lakers", models.RoleTeamName, 100, 50, 0.95),
		classified("Spread", models.RoleMarketLabel, 160, 50, 0.9),
	)

	_, err := resolver.New().Resolve(c, nbaContext())
	if !errors.Is(err, resolver.ErrNoPriceFound) {
		t.Fatalf("error = %v, want ErrNoPriceFound", err)
	}
}

func TestResolveEmptyCluster(t *testing.T) {
	_, err := resolver.New().Resolve(cluster(models.FocalPoint{}), nbaContext())
	if !errors.Is(err, resolver.ErrNoPriceFound) {
		t.Fatalf("error = %v, want ErrNoPriceFound", err)
	}
}

func TestResolvePriceTieBreaksByFocalDistance(t *testing.T) {
	// Two prices with identical confidence; the one nearer the tap wins
	focal := models.FocalPoint{X: 220, Y: 110}
	c := cluster(focal,
		classified("Lakers", models.RoleTeamName, 100, 50, 0.95),
		classified("-150", models.RoleOdds, 200, 50, 0.9),
		classified("Warriors", models.RoleTeamName, 100, 100, 0.95),
		classified("+130", models.RoleOdds, 200, 100, 0.9),
	)

	pick, err := resolver.New().Resolve(c, nbaContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pick.PriceAmerican != "+130" {
		t.Errorf("price = %s, want the price nearest the focal point (+130)", pick.PriceAmerican)
	}
	if pick.Side != models.SideAway {
		t.Errorf("side = %s, want away", pick.Side)
	}
}

func TestResolveHigherConfidencePriceWins(t *testing.T) {
	// Confidence beats proximity: the farther but cleaner read is chosen
	focal := models.FocalPoint{X: 220, Y: 110}
	c := cluster(focal,
		classified("Lakers", models.RoleTeamName, 100, 50, 0.95),
		classified("-150", models.RoleOdds, 200, 50, 0.92),
		classified("+130", models.RoleOdds, 200, 100, 0.55),
	)

	pick, err := resolver.New().Resolve(c, nbaContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pick.PriceAmerican != "-150" {
		t.Errorf("price = %s, want -150", pick.PriceAmerican)
	}
}

func TestResolveExplicitLabelOverridesShape(t *testing.T) {
	// A spread-shaped line is present, but the explicit ML label wins
	focal := models.FocalPoint{X: 220, Y: 60}
	c := cluster(focal,
		classified("ML", models.RoleMarketLabel, 40, 50, 0.9),
		classified("Lakers", models.RoleTeamName, 100, 50, 0.95),
		classified("-3.5", models.RoleNumber, 160, 50, 0.9),
		classified("-150", models.RoleOdds, 200, 50, 0.9),
	)

	pick, err := resolver.New().Resolve(c, nbaContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pick.MarketType != models.MarketMoneyline {
		t.Errorf("market = %s, want moneyline from the explicit label", pick.MarketType)
	}
	if pick.MarketSource != models.MarketSourceLabeled {
		t.Errorf("market source = %s, want labeled", pick.MarketSource)
	}
}

func TestResolveInfersSpreadFromSignedHalfLine(t *testing.T) {
	focal := models.FocalPoint{X: 220, Y: 60}
	c := cluster(focal,
		classified("Lakers", models.RoleTeamName, 100, 50, 0.95),
		classified("-3.5", models.RoleNumber, 160, 50, 0.85),
		classified("-110", models.RoleOdds, 200, 50, 0.9),
	)

	pick, err := resolver.New().Resolve(c, nbaContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pick.MarketType != models.MarketSpread {
		t.Errorf("market = %s, want spread", pick.MarketType)
	}
	if pick.Side != models.SideHome {
		t.Errorf("side = %s, want home", pick.Side)
	}
	if pick.Line == nil || *pick.Line != -3.5 {
		t.Errorf("line = %v, want -3.5", pick.Line)
	}
	if pick.MarketSource != models.MarketSourceInferred {
		t.Errorf("market source = %s, want inferred", pick.MarketSource)
	}
	// the line token is part of the pick, so its confidence counts
	if pick.Confidence != 0.85 {
		t.Errorf("confidence = %f, want 0.85", pick.Confidence)
	}
}

func TestResolveInfersTotalFromUnsignedHalfLine(t *testing.T) {
	focal := models.FocalPoint{X: 220, Y: 60}
	c := cluster(focal,
		classified("O", models.RoleNoise, 100, 50, 0.9),
		classified("225.5", models.RoleNumber, 150, 50, 0.9),
		classified("-110", models.RoleOdds, 200, 50, 0.9),
	)

	pick, err := resolver.New().Resolve(c, nbaContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pick.MarketType != models.MarketTotal {
		t.Errorf("market = %s, want total", pick.MarketType)
	}
	if pick.Side != models.SideOver {
		t.Errorf("side = %s, want over", pick.Side)
	}
	if pick.Line == nil || *pick.Line != 225.5 {
		t.Errorf("line = %v, want 225.5", pick.Line)
	}
}

func TestResolveTotalWithoutDirectionFails(t *testing.T) {
	focal := models.FocalPoint{X: 220, Y: 60}
	c := cluster(focal,
		classified("Total", models.RoleMarketLabel, 100, 50, 0.9),
		classified("-110", models.RoleOdds, 200, 50, 0.9),
	)

	_, err := resolver.New().Resolve(c, nbaContext())
	if !errors.Is(err, resolver.ErrSideUnresolved) {
		t.Fatalf("error = %v, want ErrSideUnresolved", err)
	}
}

func TestResolveTeamNotResolved(t *testing.T) {
	focal := models.FocalPoint{X: 220, Y: 60}

	t.Run("no team token at all", func(t *testing.T) {
		c := cluster(focal, classified("-150", models.RoleOdds, 200, 50, 0.9))
		_, err := resolver.New().Resolve(c, nbaContext())
		if !errors.Is(err, resolver.ErrTeamNotResolved) {
			t.Fatalf("error = %v, want ErrTeamNotResolved", err)
		}
	})

	t.Run("team matches neither side", func(t *testing.T) {
		c := cluster(focal,
			classified("Cabbages", models.RoleTeamName, 100, 50, 0.95),
			classified("-150", models.RoleOdds, 200, 50, 0.9),
		)
		_, err := resolver.New().Resolve(c, nbaContext())
		if !errors.Is(err, resolver.ErrTeamNotResolved) {
			t.Fatalf("error = %v, want ErrTeamNotResolved", err)
		}
	})
}

func TestResolveFuzzyTeamMatch(t *testing.T) {
	// Recognition garbled one letter; edit distance still resolves it
	focal := models.FocalPoint{X: 220, Y: 60}
	c := cluster(focal,
		classified("Warrlors", models.RoleTeamName, 100, 50, 0.8),
		classified("+130", models.RoleOdds, 200, 50, 0.9),
	)

	pick, err := resolver.New().Resolve(c, nbaContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pick.Side != models.SideAway {
		t.Errorf("side = %s, want away from fuzzy Warriors match", pick.Side)
	}
}

func TestResolveDrawOnlyForDrawSports(t *testing.T) {
	focal := models.FocalPoint{X: 220, Y: 60}
	c := cluster(focal,
		classified("Draw", models.RoleTeamName, 100, 50, 0.9),
		classified("+240", models.RoleOdds, 200, 50, 0.9),
	)

	soccer := models.GameContext{
		GameRef:  "epl-ars-che",
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Sport:    "soccer",
	}
	pick, err := resolver.New().Resolve(c, soccer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pick.Side != models.SideDraw {
		t.Errorf("side = %s, want draw for soccer", pick.Side)
	}

	_, err = resolver.New().Resolve(c, nbaContext())
	if !errors.Is(err, resolver.ErrTeamNotResolved) {
		t.Fatalf("error = %v, want ErrTeamNotResolved for a non-draw sport", err)
	}
}

func TestResolveManual(t *testing.T) {
	line := 45.5
	sel := resolver.ManualSelection{
		GameRef:       "nba-lal-gsw",
		MarketType:    models.MarketTotal,
		Side:          models.SideOver,
		PriceAmerican: "-110",
		Line:          &line,
	}

	pick, err := resolver.New().ResolveManual(sel, nbaContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pick.Confidence != 1.0 {
		t.Errorf("manual confidence = %f, want 1.0", pick.Confidence)
	}
	if pick.MarketSource != models.MarketSourceManual {
		t.Errorf("market source = %s, want manual", pick.MarketSource)
	}
	if pick.Line == nil || *pick.Line != 45.5 {
		t.Errorf("line = %v, want 45.5", pick.Line)
	}
}

func TestResolveManualValidation(t *testing.T) {
	tests := []struct {
		name string
		sel  resolver.ManualSelection
	}{
		{"malformed price", resolver.ManualSelection{MarketType: models.MarketMoneyline, Side: models.SideHome, PriceAmerican: "-50"}},
		{"unknown market", resolver.ManualSelection{MarketType: "exotics", Side: models.SideHome, PriceAmerican: "-110"}},
		{"unknown side", resolver.ManualSelection{MarketType: models.MarketMoneyline, Side: "middle", PriceAmerican: "-110"}},
		{"over on a moneyline", resolver.ManualSelection{MarketType: models.MarketMoneyline, Side: models.SideOver, PriceAmerican: "-110"}},
		{"home on a total", resolver.ManualSelection{MarketType: models.MarketTotal, Side: models.SideHome, PriceAmerican: "-110"}},
		{"draw in a non-draw sport", resolver.ManualSelection{MarketType: models.MarketMoneyline, Side: models.SideDraw, PriceAmerican: "+240"}},
	}

	r := resolver.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.ResolveManual(tt.sel, nbaContext()); err == nil {
				t.Errorf("ResolveManual(%+v) succeeded, want error", tt.sel)
			}
		})
	}
}

// A manual selection may carry the tapped team name; when it does, it must
// agree with the chosen side.
func TestResolveManualTeamNameCrossCheck(t *testing.T) {
	base := resolver.ManualSelection{
		MarketType:    models.MarketMoneyline,
		PriceAmerican: "-150",
	}

	tests := []struct {
		name    string
		team    string
		side    models.Side
		wantErr bool
	}{
		{"matching home team", "Lakers", models.SideHome, false},
		{"matching away team", "Warriors", models.SideAway, false},
		{"garbled but matching", "Warrlors", models.SideAway, false},
		{"team contradicts side", "Lakers", models.SideAway, true},
		{"team from another game", "Celtics", models.SideHome, true},
		{"no team name given", "", models.SideHome, false},
	}

	r := resolver.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := base
			sel.TeamName = tt.team
			sel.Side = tt.side

			_, err := r.ResolveManual(sel, nbaContext())
			if tt.wantErr && err == nil {
				t.Errorf("ResolveManual(team=%q, side=%s) succeeded, want error", tt.team, tt.side)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ResolveManual(team=%q, side=%s) = %v, want success", tt.team, tt.side, err)
			}
		})
	}
}

func TestResolveManualPriceErrorIsFormatError(t *testing.T) {
	sel := resolver.ManualSelection{
		MarketType:    models.MarketMoneyline,
		Side:          models.SideHome,
		PriceAmerican: "150",
	}

	_, err := resolver.New().ResolveManual(sel, nbaContext())
	var formatErr *oddsmath.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("error = %T, want *oddsmath.FormatError", err)
	}
}
