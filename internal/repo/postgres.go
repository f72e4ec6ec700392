// Package repo persists finalized slips. The engine itself performs no I/O;
// this is the persistence collaborator that saves a slip once the user
// confirms it.
package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/jraydirect/wagerloop-sub005/pkg/models"
)

// Postgres stores finalized slips in the slips and slip_legs tables
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a slip repository over an open connection
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Open connects to Postgres and verifies the connection
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return db, nil
}

// SaveFinalized writes a slip and its legs in one transaction and returns the
// stored slip id. The combined odds are stored alongside the slip row for the
// feed, but remain derivable from the legs.
func (p *Postgres) SaveFinalized(ctx context.Context, userID string, legs []models.Pick, combined models.CombinedOdds) (string, error) {
	if len(legs) == 0 {
		return "", fmt.Errorf("cannot persist a slip with no legs")
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	slipID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO slips (id, user_id, leg_count, combined_decimal, combined_american)
		VALUES ($1, $2, $3, $4, $5)`,
		slipID, userID, len(legs), combined.DecimalValue, combined.AmericanDisplay,
	)
	if err != nil {
		return "", fmt.Errorf("inserting slip: %w", err)
	}

	for position, leg := range legs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO slip_legs (id, slip_id, position, game_ref, market_type, side, price_american, line, stake, note, confidence, market_source)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			leg.ID, slipID, position, leg.GameRef, string(leg.MarketType), string(leg.Side),
			leg.PriceAmerican, leg.Line, leg.Stake, leg.Note, leg.Confidence, string(leg.MarketSource),
		)
		if err != nil {
			return "", fmt.Errorf("inserting leg %s: %w", leg.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing slip: %w", err)
	}
	return slipID, nil
}
