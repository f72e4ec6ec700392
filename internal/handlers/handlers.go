package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jraydirect/wagerloop-sub005/internal/engine"
	"github.com/jraydirect/wagerloop-sub005/internal/gamecontext"
	"github.com/jraydirect/wagerloop-sub005/internal/metrics"
	"github.com/jraydirect/wagerloop-sub005/internal/producer"
	"github.com/jraydirect/wagerloop-sub005/internal/repo"
	"github.com/jraydirect/wagerloop-sub005/internal/resolver"
	"github.com/jraydirect/wagerloop-sub005/internal/slip"
	"github.com/jraydirect/wagerloop-sub005/pkg/contracts/events"
	"github.com/jraydirect/wagerloop-sub005/pkg/models"
	"github.com/jraydirect/wagerloop-sub005/pkg/oddsmath"
)

// Handler contains dependencies for HTTP handlers. Repo and events may be nil
// when the service runs without persistence or messaging (local extraction
// testing); finalize then reports the missing dependency.
type Handler struct {
	engine *engine.Engine
	games  gamecontext.Provider
	slips  *SlipStore
	repo   *repo.Postgres
	events *producer.SlipEvents
	log    *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(eng *engine.Engine, games gamecontext.Provider, repository *repo.Postgres, events *producer.SlipEvents, log *zap.Logger) *Handler {
	return &Handler{
		engine: eng,
		games:  games,
		slips:  NewSlipStore(),
		repo:   repository,
		events: events,
		log:    log,
	}
}

// Routes returns the service route table
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.HealthCheck)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/extract", h.Extract)
		r.Post("/picks/manual", h.ManualPick)

		r.Route("/slips", func(r chi.Router) {
			r.Post("/", h.CreateSlip)
			r.Route("/{slipID}", func(r chi.Router) {
				r.Get("/", h.GetSlip)
				r.Post("/legs", h.AddLeg)
				r.Delete("/legs", h.ClearSlip)
				r.Delete("/legs/{index}", h.RemoveLeg)
				r.Post("/finalize", h.FinalizeSlip)
			})
		})
	})

	return r
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "slip-engine",
	})
}

// ExtractRequest carries recognized tokens plus the user's focal point
type ExtractRequest struct {
	GameRef string             `json:"game_ref"`
	Focal   models.FocalPoint  `json:"focal"`
	Tokens  []models.TextToken `json:"tokens"`
}

// Extract runs the extraction pipeline and returns the resolved pick
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if req.GameRef == "" {
		respondError(w, http.StatusBadRequest, "game_ref is required")
		return
	}

	gctx, err := h.games.Get(r.Context(), req.GameRef)
	if err != nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("game context: %v", err))
		return
	}

	result, err := h.engine.Extract(req.Tokens, req.Focal, gctx)
	if err != nil {
		h.respondExtractionFailure(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ManualPick validates a user-entered selection
func (h *Handler) ManualPick(w http.ResponseWriter, r *http.Request) {
	var sel resolver.ManualSelection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if sel.GameRef == "" {
		respondError(w, http.StatusBadRequest, "game_ref is required")
		return
	}

	gctx, err := h.games.Get(r.Context(), sel.GameRef)
	if err != nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("game context: %v", err))
		return
	}

	pick, err := h.engine.Manual(sel, gctx)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, pick)
}

// CreateSlip opens a new empty slip
func (h *Handler) CreateSlip(w http.ResponseWriter, r *http.Request) {
	id := h.slips.Create()
	respondJSON(w, http.StatusCreated, map[string]string{"slip_id": id})
}

// GetSlip returns the slip's legs and its current combined odds
func (h *Handler) GetSlip(w http.ResponseWriter, r *http.Request) {
	s, ok := h.slips.Get(chi.URLParam(r, "slipID"))
	if !ok {
		respondError(w, http.StatusNotFound, "slip not found")
		return
	}
	h.respondSlip(w, s)
}

// AddLeg adds a pick to the slip
func (h *Handler) AddLeg(w http.ResponseWriter, r *http.Request) {
	s, ok := h.slips.Get(chi.URLParam(r, "slipID"))
	if !ok {
		respondError(w, http.StatusNotFound, "slip not found")
		return
	}

	var pick models.Pick
	if err := json.NewDecoder(r.Body).Decode(&pick); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if _, err := oddsmath.ParseAmerican(pick.PriceAmerican); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.Add(pick); err != nil {
		var dup *slip.DuplicateError
		if errors.As(err, &dup) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondSlip(w, s)
}

// RemoveLeg removes the leg at the given position
func (h *Handler) RemoveLeg(w http.ResponseWriter, r *http.Request) {
	s, ok := h.slips.Get(chi.URLParam(r, "slipID"))
	if !ok {
		respondError(w, http.StatusNotFound, "slip not found")
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "leg index must be an integer")
		return
	}

	if err := s.Remove(index); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondSlip(w, s)
}

// ClearSlip removes all legs
func (h *Handler) ClearSlip(w http.ResponseWriter, r *http.Request) {
	s, ok := h.slips.Get(chi.URLParam(r, "slipID"))
	if !ok {
		respondError(w, http.StatusNotFound, "slip not found")
		return
	}

	s.Clear()
	h.respondSlip(w, s)
}

// FinalizeRequest carries the finalizing user
type FinalizeRequest struct {
	UserID string `json:"user_id"`
}

// FinalizeSlip persists the slip and publishes the finalization event
func (h *Handler) FinalizeSlip(w http.ResponseWriter, r *http.Request) {
	slipID := chi.URLParam(r, "slipID")
	s, ok := h.slips.Get(slipID)
	if !ok {
		respondError(w, http.StatusNotFound, "slip not found")
		return
	}

	var req FinalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if h.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}

	legs, combined, err := s.Snapshot()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if combined == nil {
		respondError(w, http.StatusUnprocessableEntity, "cannot finalize an empty slip")
		return
	}

	storedID, err := h.repo.SaveFinalized(r.Context(), req.UserID, legs, *combined)
	if err != nil {
		h.log.Error("persisting slip", zap.String("slip_id", slipID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to persist slip")
		return
	}

	metrics.SlipLegCount.Observe(float64(len(legs)))

	if h.events != nil {
		event := events.SlipFinalized{
			SlipID:          storedID,
			UserID:          req.UserID,
			LegCount:        len(legs),
			CombinedDecimal: combined.DecimalValue,
			CombinedDisplay: combined.AmericanDisplay,
		}
		if err := h.events.PublishSlipFinalized(r.Context(), event); err != nil {
			// The slip is saved; a missed event is recoverable downstream
			h.log.Warn("publishing slip.finalized", zap.String("slip_id", storedID), zap.Error(err))
		}
	}

	h.slips.Delete(slipID)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"slip_id":       storedID,
		"leg_count":     len(legs),
		"combined_odds": combined,
	})
}

// SlipView is the read model returned for every slip operation. InvalidLeg
// carries the pick id blocking aggregation so the client can highlight it.
type SlipView struct {
	Legs         []models.Pick        `json:"legs"`
	CombinedOdds *models.CombinedOdds `json:"combined_odds,omitempty"`
	InvalidLeg   string               `json:"invalid_leg,omitempty"`
}

// respondSlip renders the current slip state. When aggregation fails the
// combined odds are omitted and the offending leg is named instead of shown
// as a placeholder.
func (h *Handler) respondSlip(w http.ResponseWriter, s *slip.Slip) {
	legs, combined, err := s.Snapshot()
	view := SlipView{Legs: legs, CombinedOdds: combined}
	if err != nil {
		h.log.Warn("combined odds unavailable", zap.Error(err))
		var invalid *oddsmath.InvalidLegError
		if errors.As(err, &invalid) {
			view.InvalidLeg = invalid.PickID
		}
	}

	respondJSON(w, http.StatusOK, view)
}

// respondExtractionFailure maps expected resolver failures to a 422 with a
// machine-readable code so the UI can degrade to manual entry
func (h *Handler) respondExtractionFailure(w http.ResponseWriter, err error) {
	code := "extraction_failed"
	switch {
	case errors.Is(err, resolver.ErrNoPriceFound):
		code = "no_price_found"
	case errors.Is(err, resolver.ErrTeamNotResolved):
		code = "team_not_resolved"
	case errors.Is(err, resolver.ErrSideUnresolved):
		code = "side_unresolved"
	}

	respondJSON(w, http.StatusUnprocessableEntity, map[string]string{
		"error": err.Error(),
		"code":  code,
	})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
