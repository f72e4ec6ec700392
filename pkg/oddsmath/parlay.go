package oddsmath

import (
	"errors"
	"fmt"

	"github.com/jraydirect/wagerloop-sub005/pkg/models"
)

// ErrEmptyParlay is returned when combining zero picks. A slip with no legs
// has no combined price at all, not a price of zero or one.
var ErrEmptyParlay = errors.New("cannot combine an empty set of picks")

// InvalidLegError reports a leg whose price failed conversion. One bad leg
// invalidates the whole aggregate; a combined price must never be computed by
// silently skipping a leg.
type InvalidLegError struct {
	PickID string
	Err    error
}

func (e *InvalidLegError) Error() string {
	return fmt.Sprintf("invalid leg %s: %v", e.PickID, e.Err)
}

func (e *InvalidLegError) Unwrap() error {
	return e.Err
}

// Combine compounds picks into one combined price. A single pick passes its
// own price through without multiplication; N picks multiply their decimal
// multipliers (standard parlay compounding). The American display is derived
// fresh from the decimal value.
func Combine(picks []models.Pick) (models.CombinedOdds, error) {
	if len(picks) == 0 {
		return models.CombinedOdds{}, ErrEmptyParlay
	}

	combined := 1.0
	for _, pick := range picks {
		decimal, err := ToDecimal(pick.PriceAmerican)
		if err != nil {
			return models.CombinedOdds{}, &InvalidLegError{PickID: pick.ID, Err: err}
		}
		combined *= decimal
	}

	display, err := ToAmerican(combined)
	if err != nil {
		return models.CombinedOdds{}, fmt.Errorf("error deriving American display: %w", err)
	}

	return models.CombinedOdds{
		DecimalValue:    combined,
		AmericanDisplay: display,
	}, nil
}
