package events

// SlipFinalized is published when a user confirms a slip. Consumed by the
// social feed and notification services downstream.
type SlipFinalized struct {
	SlipID          string  `json:"slip_id"`
	UserID          string  `json:"user_id"`
	LegCount        int     `json:"leg_count"`
	CombinedDecimal float64 `json:"combined_decimal"`
	CombinedDisplay string  `json:"combined_display"`
	TsUnixMs        int64   `json:"ts_unix_ms"`
}
