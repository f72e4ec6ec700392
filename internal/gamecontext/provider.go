// Package gamecontext supplies the active matchup (home team, away team,
// sport) for a game reference. The live store is Redis, written by the game
// ingest side of the platform; a static in-memory provider backs tests.
package gamecontext

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jraydirect/wagerloop-sub005/pkg/models"
)

// Provider resolves a game reference to its matchup context
type Provider interface {
	Get(ctx context.Context, gameRef string) (models.GameContext, error)
}

// RedisProvider reads matchup context from Redis.
// Expects key "game:{gameRef}" holding JSON {home_team, away_team, sport}.
type RedisProvider struct {
	rdb *redis.Client
}

// NewRedisProvider creates a Redis-backed provider
func NewRedisProvider(rdb *redis.Client) *RedisProvider {
	return &RedisProvider{rdb: rdb}
}

// Get fetches and decodes the matchup for a game reference
func (p *RedisProvider) Get(ctx context.Context, gameRef string) (models.GameContext, error) {
	key := fmt.Sprintf("game:%s", gameRef)

	raw, err := p.rdb.Get(ctx, key).Result()
	if err != nil {
		return models.GameContext{}, fmt.Errorf("game context lookup for %s: %w", gameRef, err)
	}

	var gctx models.GameContext
	if err := json.Unmarshal([]byte(raw), &gctx); err != nil {
		return models.GameContext{}, fmt.Errorf("decoding game context for %s: %w", gameRef, err)
	}

	gctx.GameRef = gameRef
	return gctx, nil
}

// Ping checks the Redis connection for health probes
func (p *RedisProvider) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

// StaticProvider serves a fixed set of matchups from memory
type StaticProvider struct {
	games map[string]models.GameContext
}

// NewStaticProvider creates a provider over a fixed matchup set
func NewStaticProvider(games map[string]models.GameContext) *StaticProvider {
	return &StaticProvider{games: games}
}

// Get returns the matchup for a game reference
func (p *StaticProvider) Get(_ context.Context, gameRef string) (models.GameContext, error) {
	gctx, ok := p.games[gameRef]
	if !ok {
		return models.GameContext{}, fmt.Errorf("unknown game ref: %s", gameRef)
	}
	gctx.GameRef = gameRef
	return gctx, nil
}
