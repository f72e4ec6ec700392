package models

// MarketType defines the type of betting market
type MarketType string

const (
	MarketMoneyline  MarketType = "moneyline"
	MarketSpread     MarketType = "spread"
	MarketTotal      MarketType = "total"
	MarketPlayerProp MarketType = "player_prop"
)

// Valid reports whether the market type is one of the known values
func (m MarketType) Valid() bool {
	switch m {
	case MarketMoneyline, MarketSpread, MarketTotal, MarketPlayerProp:
		return true
	}
	return false
}

// Side is the chosen outcome within a market
type Side string

const (
	SideHome  Side = "home"
	SideAway  Side = "away"
	SideOver  Side = "over"
	SideUnder Side = "under"
	SideDraw  Side = "draw"
)

// Valid reports whether the side is one of the known values
func (s Side) Valid() bool {
	switch s {
	case SideHome, SideAway, SideOver, SideUnder, SideDraw:
		return true
	}
	return false
}

// MarketSource records how the market type was determined, so heuristic
// accuracy can be measured separately from labeled extractions
type MarketSource string

const (
	MarketSourceLabeled  MarketSource = "labeled"  // explicit market label token
	MarketSourceInferred MarketSource = "inferred" // shape-based heuristic
	MarketSourceManual   MarketSource = "manual"   // user-entered selection
)

// Pick is one structured selection extracted from a slip or entered manually.
// Immutable once added to a slip, except Stake and Note.
type Pick struct {
	ID            string       `json:"id"`
	GameRef       string       `json:"game_ref"`
	MarketType    MarketType   `json:"market_type"`
	Side          Side         `json:"side"`
	PriceAmerican string       `json:"price_american"` // signed integer string, e.g. "-150"
	Line          *float64     `json:"line,omitempty"`  // spread/total line, e.g. 45.5
	Stake         *float64     `json:"stake,omitempty"`
	Note          string       `json:"note,omitempty"`
	Confidence    float64      `json:"confidence"`
	MarketSource  MarketSource `json:"market_source"`
}

// LegKey identifies a pick for slip de-duplication
type LegKey struct {
	GameRef    string
	MarketType MarketType
	Side       Side
}

// Key returns the de-duplication key for this pick
func (p Pick) Key() LegKey {
	return LegKey{GameRef: p.GameRef, MarketType: p.MarketType, Side: p.Side}
}

// CombinedOdds is the compound price of a slip. Derived on every read,
// never persisted independently of the slip that produced it.
type CombinedOdds struct {
	DecimalValue    float64 `json:"decimal_value"`
	AmericanDisplay string  `json:"american_display"`
}

// GameContext describes the active matchup, supplied by the game-context
// collaborator
type GameContext struct {
	GameRef  string `json:"game_ref"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	Sport    string `json:"sport"`
}

// drawSports lists sports where a draw is a valid outcome
var drawSports = map[string]bool{
	"soccer": true,
}

// SupportsDraw reports whether the matchup's sport allows a draw side
func (g GameContext) SupportsDraw() bool {
	return drawSports[g.Sport]
}
