package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/expoprize/prizewheel-go/internal/api/request"
	"github.com/expoprize/prizewheel-go/internal/api/response"
	"github.com/expoprize/prizewheel-go/internal/dependencies/clock"
	"github.com/expoprize/prizewheel-go/internal/dependencies/random"
	"github.com/expoprize/prizewheel-go/internal/model"
	"github.com/expoprize/prizewheel-go/internal/services/raffle"
	"github.com/expoprize/prizewheel-go/internal/sse"
	"github.com/expoprize/prizewheel-go/internal/storage"
)

// RaffleHandler handles organizer raffle and draw endpoints
type RaffleHandler struct {
	storage       storage.Storage
	raffleService *raffle.Service
	clock         clock.Clock
	random        random.Random
	hubManager    *sse.HubManager
	broadcaster   *sse.Broadcaster
}

// NewRaffleHandler creates a new raffle handler
func NewRaffleHandler(
	store storage.Storage,
	raffleService *raffle.Service,
	clk clock.Clock,
	rnd random.Random,
	hubManager *sse.HubManager,
	logger *slog.Logger,
) *RaffleHandler {
	var broadcaster *sse.Broadcaster
	if hubManager != nil {
		broadcaster = sse.NewBroadcaster(hubManager, logger)
	}
	return &RaffleHandler{
		storage:       store,
		raffleService: raffleService,
		clock:         clk,
		random:        rnd,
		hubManager:    hubManager,
		broadcaster:   broadcaster,
	}
}

// Create handles POST /api/v1/raffles
func (h *RaffleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRaffleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	newRaffle := &model.Raffle{
		ID:        model.RaffleID("rf_" + h.random.String(12, random.IDAlphabet)),
		EventID:   model.EventID(req.EventID),
		Name:      req.Name,
		CreatedAt: h.clock.Now(),
	}

	if err := h.storage.SaveRaffle(r.Context(), newRaffle); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RaffleFromModel(newRaffle))
}

// ListForEvent handles GET /api/v1/events/{event_id}/raffles
func (h *RaffleHandler) ListForEvent(w http.ResponseWriter, r *http.Request) {
	eventID := model.EventID(mux.Vars(r)["event_id"])

	raffles, err := h.storage.GetRafflesForEvent(r.Context(), eventID)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.Raffle, len(raffles))
	for i, rf := range raffles {
		out[i] = response.RaffleFromModel(rf)
	}
	response.JSON(w, http.StatusOK, out)
}

// Enter handles POST /api/v1/raffles/{raffle_id}/participants
func (h *RaffleHandler) Enter(w http.ResponseWriter, r *http.Request) {
	raffleID := model.RaffleID(mux.Vars(r)["raffle_id"])

	var req request.EnterRaffleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	if _, err := h.storage.GetRaffle(r.Context(), raffleID); err != nil {
		WriteError(w, err)
		return
	}

	participant := &model.Participant{
		ID:        model.ParticipantID("pt_" + h.random.String(12, random.IDAlphabet)),
		RaffleID:  raffleID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: h.clock.Now(),
	}

	if err := h.storage.SaveParticipant(r.Context(), participant); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ParticipantFromModel(participant))
}

// Eligible handles GET /api/v1/raffles/eligible?raffle_id=...&raffle_id=...
func (h *RaffleHandler) Eligible(w http.ResponseWriter, r *http.Request) {
	raffleIDs := raffleIDsFromQuery(r)
	if len(raffleIDs) == 0 {
		WriteError(w, NewInvalidRequestError("at least one raffle_id is required"))
		return
	}

	count, err := h.raffleService.EligibleCount(r.Context(), raffleIDs)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EligibleResponse{EligibleCount: count})
}

// StartDraw handles POST /api/v1/raffles/draw
func (h *RaffleHandler) StartDraw(w http.ResponseWriter, r *http.Request) {
	var req request.StartDrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if len(req.RaffleIDs) == 0 {
		WriteError(w, NewInvalidRequestError("raffle_ids is required"))
		return
	}

	raffleIDs := make([]model.RaffleID, len(req.RaffleIDs))
	for i, id := range req.RaffleIDs {
		raffleIDs[i] = model.RaffleID(id)
	}

	observer := func(snapshot raffle.Snapshot) {
		if h.broadcaster != nil {
			h.broadcaster.BroadcastDrawUpdate(snapshot)
		}
	}

	d, err := h.raffleService.StartDraw(r.Context(), raffleIDs, observer)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusAccepted, response.DrawStateFromSnapshot(d.Snapshot()))
}

// GetDraw handles GET /api/v1/raffles/draw/{draw_id}
func (h *RaffleHandler) GetDraw(w http.ResponseWriter, r *http.Request) {
	drawID := model.DrawID(mux.Vars(r)["draw_id"])

	d, err := h.raffleService.GetDraw(drawID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DrawStateFromSnapshot(d.Snapshot()))
}

// CancelDraw handles DELETE /api/v1/raffles/draw/{draw_id}
func (h *RaffleHandler) CancelDraw(w http.ResponseWriter, r *http.Request) {
	drawID := model.DrawID(mux.Vars(r)["draw_id"])

	if err := h.raffleService.CancelDraw(drawID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// DrawEvents handles GET /api/v1/raffles/draw/{draw_id}/events
// Streams countdown ticks and the winner over SSE.
func (h *RaffleHandler) DrawEvents(w http.ResponseWriter, r *http.Request) {
	drawID := model.DrawID(mux.Vars(r)["draw_id"])

	if _, err := h.raffleService.GetDraw(drawID); err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(sse.ChannelForDraw(drawID))
	sse.ServeSSE(w, r, hub)
}

// Winners handles GET /api/v1/raffles/{raffle_id}/winners
func (h *RaffleHandler) Winners(w http.ResponseWriter, r *http.Request) {
	raffleID := model.RaffleID(mux.Vars(r)["raffle_id"])

	if _, err := h.storage.GetRaffle(r.Context(), raffleID); err != nil {
		WriteError(w, err)
		return
	}

	results, err := h.storage.GetDrawResultsForRaffle(r.Context(), raffleID)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.DrawWinner, len(results))
	for i, result := range results {
		out[i] = response.DrawWinnerFromModel(result)
	}
	response.JSON(w, http.StatusOK, out)
}

func raffleIDsFromQuery(r *http.Request) []model.RaffleID {
	values := r.URL.Query()["raffle_id"]
	ids := make([]model.RaffleID, 0, len(values))
	for _, v := range values {
		if v != "" {
			ids = append(ids, model.RaffleID(v))
		}
	}
	return ids
}
