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
	"github.com/expoprize/prizewheel-go/internal/sse"
	"github.com/expoprize/prizewheel-go/internal/storage"
)

// PrizeHandler handles prize management endpoints
type PrizeHandler struct {
	storage     storage.Storage
	clock       clock.Clock
	random      random.Random
	broadcaster *sse.Broadcaster
}

// NewPrizeHandler creates a new prize handler
func NewPrizeHandler(store storage.Storage, clk clock.Clock, rnd random.Random, hubManager *sse.HubManager, logger *slog.Logger) *PrizeHandler {
	var broadcaster *sse.Broadcaster
	if hubManager != nil {
		broadcaster = sse.NewBroadcaster(hubManager, logger)
	}
	return &PrizeHandler{
		storage:     store,
		clock:       clk,
		random:      rnd,
		broadcaster: broadcaster,
	}
}

// List handles GET /api/v1/companies/{company_id}/prizes
func (h *PrizeHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID := model.CompanyID(mux.Vars(r)["company_id"])

	if _, err := h.storage.GetCompany(r.Context(), companyID); err != nil {
		WriteError(w, err)
		return
	}

	prizes, err := h.storage.GetPrizesForCompany(r.Context(), companyID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PrizesFromModel(prizes))
}

// Create handles POST /api/v1/companies/{company_id}/prizes
func (h *PrizeHandler) Create(w http.ResponseWriter, r *http.Request) {
	companyID := model.CompanyID(mux.Vars(r)["company_id"])

	var req request.SavePrizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	if _, err := h.storage.GetCompany(r.Context(), companyID); err != nil {
		WriteError(w, err)
		return
	}

	now := h.clock.Now()
	prize := &model.Prize{
		ID:        model.PrizeID("pr_" + h.random.String(12, random.IDAlphabet)),
		CompanyID: companyID,
		Name:      req.Name,
		Position:  req.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.storage.SavePrize(r.Context(), prize); err != nil {
		WriteError(w, err)
		return
	}

	h.broadcastPrizes(r, companyID)
	response.JSON(w, http.StatusCreated, response.PrizeFromModel(prize))
}

// Update handles PUT /api/v1/companies/{company_id}/prizes/{prize_id}
func (h *PrizeHandler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	companyID := model.CompanyID(vars["company_id"])
	prizeID := model.PrizeID(vars["prize_id"])

	var req request.SavePrizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	prize, err := h.storage.GetPrize(r.Context(), prizeID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if prize.CompanyID != companyID {
		WriteError(w, model.ErrPrizeNotFound)
		return
	}

	prize.Name = req.Name
	prize.Position = req.Position
	prize.UpdatedAt = h.clock.Now()

	if err := h.storage.SavePrize(r.Context(), prize); err != nil {
		WriteError(w, err)
		return
	}

	h.broadcastPrizes(r, companyID)
	response.JSON(w, http.StatusOK, response.PrizeFromModel(prize))
}

// Delete handles DELETE /api/v1/companies/{company_id}/prizes/{prize_id}
func (h *PrizeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	companyID := model.CompanyID(vars["company_id"])
	prizeID := model.PrizeID(vars["prize_id"])

	prize, err := h.storage.GetPrize(r.Context(), prizeID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if prize.CompanyID != companyID {
		WriteError(w, model.ErrPrizeNotFound)
		return
	}

	if err := h.storage.DeletePrize(r.Context(), prizeID); err != nil {
		WriteError(w, err)
		return
	}

	h.broadcastPrizes(r, companyID)
	response.NoContent(w)
}

// broadcastPrizes tells connected wheels the slice layout changed
func (h *PrizeHandler) broadcastPrizes(r *http.Request, companyID model.CompanyID) {
	if h.broadcaster == nil {
		return
	}
	prizes, err := h.storage.GetPrizesForCompany(r.Context(), companyID)
	if err != nil {
		return
	}
	h.broadcaster.BroadcastPrizesUpdated(companyID, len(prizes))
}
