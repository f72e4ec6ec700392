package models

// Rect is an axis-aligned bounding box in image-pixel space
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CenterX returns the horizontal center of the box
func (r Rect) CenterX() float64 {
	return r.X + r.Width/2
}

// CenterY returns the vertical center of the box
func (r Rect) CenterY() float64 {
	return r.Y + r.Height/2
}

// FocalPoint is the user-selected point in image-pixel space
type FocalPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TextToken is one recognized text fragment from the recognition collaborator
type TextToken struct {
	Text        string  `json:"text"`
	BoundingBox Rect    `json:"bounding_box"`
	Confidence  float64 `json:"confidence"` // 0..1
}

// TokenRole classifies what a recognized token represents
type TokenRole string

const (
	RoleNumber      TokenRole = "number"       // spread/total line, e.g. "45.5"
	RoleOdds        TokenRole = "odds"         // American price, e.g. "-150"
	RoleTeamName    TokenRole = "team_name"    // candidate team name
	RoleMarketLabel TokenRole = "market_label" // "ML", "Spread", "O/U", ...
	RoleNoise       TokenRole = "noise"
)

// ClassifiedToken is a TextToken tagged with its role
type ClassifiedToken struct {
	TextToken
	Role TokenRole `json:"role"`
}

// TokenCluster is the ordered set of classified tokens around a focal point,
// sorted in row-then-column reading order. An empty Tokens slice means the
// extraction found nothing near the point.
type TokenCluster struct {
	Tokens []ClassifiedToken `json:"tokens"`
	Focal  FocalPoint        `json:"focal"`
}

// IsEmpty reports whether the cluster contains no tokens
func (c TokenCluster) IsEmpty() bool {
	return len(c.Tokens) == 0
}
