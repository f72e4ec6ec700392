package resolver

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jraydirect/wagerloop-sub005/pkg/models"
)

// matchTeam maps a recognized team token to the home or away side of the
// matchup. Substring matching handles the common case of a nickname rendered
// inside a full team name; edit distance catches recognition garbling. A draw
// token is honored only for sports that can end in one.
func (r *Resolver) matchTeam(text string, gctx models.GameContext) (models.Side, error) {
	candidate := strings.ToLower(strings.TrimSpace(text))
	if candidate == "" {
		return "", ErrTeamNotResolved
	}

	if candidate == "draw" || candidate == "tie" {
		if gctx.SupportsDraw() {
			return models.SideDraw, nil
		}
		return "", ErrTeamNotResolved
	}

	homeScore := teamSimilarity(candidate, gctx.HomeTeam)
	awayScore := teamSimilarity(candidate, gctx.AwayTeam)

	if homeScore < r.config.TeamSimilarityFloor && awayScore < r.config.TeamSimilarityFloor {
		return "", ErrTeamNotResolved
	}
	if homeScore == awayScore {
		// Equally good matches are ambiguous, not a coin flip
		return "", ErrTeamNotResolved
	}

	if homeScore > awayScore {
		return models.SideHome, nil
	}
	return models.SideAway, nil
}

// teamSimilarity scores a candidate against one team name: 1.0 for a
// case-insensitive substring match in either direction, otherwise the best
// normalized edit-distance similarity against the full name or any single
// word of it. The per-word comparison is what lets a garbled nickname match
// a "City Nickname" full name.
func teamSimilarity(candidate, team string) float64 {
	teamLower := strings.ToLower(strings.TrimSpace(team))
	if teamLower == "" {
		return 0
	}

	if strings.Contains(teamLower, candidate) || strings.Contains(candidate, teamLower) {
		return 1.0
	}

	best := editSimilarity(candidate, teamLower)
	for _, word := range strings.Fields(teamLower) {
		if s := editSimilarity(candidate, word); s > best {
			best = s
		}
	}
	return best
}

// editSimilarity is 1 - dist/len(longer), in 0..1
func editSimilarity(a, b string) float64 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}
