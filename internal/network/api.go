// Package network - api.go
// REST endpoints for reading the economy and issuing commands without a socket.
package network

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Qenawi/idle-mining/internal/advisor"
	"github.com/Qenawi/idle-mining/internal/engine"
	"github.com/Qenawi/idle-mining/internal/events"
	"github.com/Qenawi/idle-mining/internal/infra/storage"
	"github.com/Qenawi/idle-mining/internal/platform/logger"
)

// API handles the HTTP routes of the mine server.
type API struct {
	engine  *engine.Engine
	repo    storage.SaveRepository
	advisor *advisor.Advisor
	hub     *Hub
	logger  *logger.Logger
}

// NewAPI creates the HTTP handlers. repo, adv and hub may be nil.
func NewAPI(eng *engine.Engine, repo storage.SaveRepository, adv *advisor.Advisor, hub *Hub, log *logger.Logger) *API {
	return &API{
		engine:  eng,
		repo:    repo,
		advisor: adv,
		hub:     hub,
		logger:  log,
	}
}

// RegisterRoutes sets up the API routes.
func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/state", a.HandleState)
	mux.HandleFunc("/api/projections", a.HandleProjections)
	mux.HandleFunc("/api/offline", a.HandleOffline)
	mux.HandleFunc("/api/advice", a.HandleAdvice)
	mux.HandleFunc("/api/reset", a.HandleReset)
	mux.HandleFunc("/api/actions", a.HandleAction)
	mux.HandleFunc("/api/events", a.HandleEvents)
}

// HandleState returns the tick number, state and projections.
// GET /api/state
func (a *API) HandleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.jsonSuccess(w, a.engine.View())
}

// HandleProjections returns derived values only.
// GET /api/projections
func (a *API) HandleProjections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.jsonSuccess(w, a.engine.Projections())
}

// HandleOffline returns the offline credit granted at load.
// GET /api/offline
func (a *API) HandleOffline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.jsonSuccess(w, a.engine.OfflineReport())
}

// HandleAdvice asks the advisor for one tip about the current economy.
// POST /api/advice
func (a *API) HandleAdvice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if a.advisor == nil {
		a.jsonError(w, advisor.ErrAdvisorUnavailable.Error(), http.StatusServiceUnavailable)
		return
	}

	view := a.engine.View()
	snap := advisor.FromState(a.engine.Balance(), view.State, view.Projections.IdleIncome)

	tip, err := a.advisor.Tip(r.Context(), snap)
	if err != nil {
		a.jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	a.jsonSuccess(w, map[string]string{"tip": tip})
}

// HandleReset returns the economy to its initial state and clears the save.
// POST /api/reset
func (a *API) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if a.repo != nil {
		if err := a.engine.ResetSave(r.Context(), a.repo); err != nil {
			a.logger.WithError(err).Error("Failed to clear save on reset")
			a.jsonError(w, "Reset applied but the save could not be cleared", http.StatusInternalServerError)
			return
		}
	} else {
		a.engine.Reset()
	}

	if a.hub != nil {
		a.hub.BroadcastSnapshot()
	}
	a.jsonSuccess(w, a.engine.View())
}

// HandleAction applies one PlayerAction.
// POST /api/actions
func (a *API) HandleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var action PlayerAction
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		a.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	changed, err := Dispatch(a.engine, action)
	if errors.Is(err, ErrMalformedAction) {
		a.logger.Warn("Ignoring PlayerAction: " + err.Error())
		a.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		a.jsonError(w, "Action failed", http.StatusInternalServerError)
		return
	}

	if changed && a.hub != nil {
		a.hub.BroadcastSnapshot()
	}
	a.jsonSuccess(w, map[string]interface{}{
		"applied": changed,
		"cash":    a.engine.Projections().Cash,
	})
}

// EventsResponse is the API response for the event replay.
type EventsResponse struct {
	LastSeq     uint64             `json:"last_seq"`
	TotalEvents int                `json:"total_events"`
	GeneratedAt string             `json:"generated_at"`
	Events      []events.GameEvent `json:"events"`
}

// HandleEvents replays retained economy events.
// GET /api/events?since=N&type=SALE&actor=cart
func (a *API) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var since uint64
	if raw := r.URL.Query().Get("since"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			a.jsonError(w, "Invalid since", http.StatusBadRequest)
			return
		}
		since = n
	}
	eventType := r.URL.Query().Get("type")
	actor := r.URL.Query().Get("actor")

	log := a.engine.EventLog()
	filtered := make([]events.GameEvent, 0)
	for _, e := range log.Since(since) {
		if eventType != "" && string(e.Type) != eventType {
			continue
		}
		if actor != "" && e.ActorID != actor {
			continue
		}
		filtered = append(filtered, e)
	}

	a.jsonSuccess(w, EventsResponse{
		LastSeq:     log.LastSeq(),
		TotalEvents: len(filtered),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      filtered,
	})
}

// jsonError sends an error response.
func (a *API) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// jsonSuccess sends a success response.
func (a *API) jsonSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}
