package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/expoprize/prizewheel-go/internal/api/middleware"
	"github.com/expoprize/prizewheel-go/internal/api/request"
	"github.com/expoprize/prizewheel-go/internal/api/response"
	"github.com/expoprize/prizewheel-go/internal/model"
	"github.com/expoprize/prizewheel-go/internal/services/export"
	"github.com/expoprize/prizewheel-go/internal/services/guard"
	"github.com/expoprize/prizewheel-go/internal/services/registration"
	"github.com/expoprize/prizewheel-go/internal/services/spin"
	"github.com/expoprize/prizewheel-go/internal/sse"
	"github.com/expoprize/prizewheel-go/internal/storage"
)

// WheelHandler handles wheel-side endpoints: registration, code
// verification, spins and the event stream
type WheelHandler struct {
	storage             storage.Storage
	registrationService *registration.Service
	guard               *guard.Guard
	spinManager         *spin.Manager
	hubManager          *sse.HubManager
	broadcaster         *sse.Broadcaster
	logger              *slog.Logger
}

// NewWheelHandler creates a new wheel handler
func NewWheelHandler(
	store storage.Storage,
	registrationService *registration.Service,
	g *guard.Guard,
	spinManager *spin.Manager,
	hubManager *sse.HubManager,
	logger *slog.Logger,
) *WheelHandler {
	var broadcaster *sse.Broadcaster
	if hubManager != nil {
		broadcaster = sse.NewBroadcaster(hubManager, logger)
	}
	return &WheelHandler{
		storage:             store,
		registrationService: registrationService,
		guard:               g,
		spinManager:         spinManager,
		hubManager:          hubManager,
		broadcaster:         broadcaster,
		logger:              logger,
	}
}

// Register handles POST /api/v1/companies/{company_id}/participants
func (h *WheelHandler) Register(w http.ResponseWriter, r *http.Request) {
	companyID := model.CompanyID(mux.Vars(r)["company_id"])

	var req request.RegisterParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}
	if req.Email == "" {
		WriteError(w, NewInvalidRequestError("email is required"))
		return
	}

	participant, err := h.registrationService.Register(r.Context(), companyID, req.Name, req.Email, req.Phone)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ParticipantFromModel(participant))
}

// VerifyCode handles POST /api/v1/companies/{company_id}/verify-code
func (h *WheelHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	companyID := model.CompanyID(mux.Vars(r)["company_id"])

	var req request.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Code == "" {
		WriteError(w, NewInvalidRequestError("code is required"))
		return
	}

	token, err := h.registrationService.VerifyCollaborator(r.Context(), companyID, req.Code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.VerifyCodeResponseFromToken(token))
}

// Spin handles POST /api/v1/companies/{company_id}/spin
// Requires a spin token; starting while a spin is in flight returns the
// running spin's state rather than drawing again.
func (h *WheelHandler) Spin(w http.ResponseWriter, r *http.Request) {
	companyID := model.CompanyID(mux.Vars(r)["company_id"])
	token := middleware.MustGetSpinToken(r.Context())

	if err := middleware.RequireTokenCompany(token, companyID); err != nil {
		WriteError(w, err)
		return
	}

	var req request.SpinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.ParticipantID == "" {
		WriteError(w, NewInvalidRequestError("participant_id is required"))
		return
	}

	participant, err := h.storage.GetParticipant(r.Context(), model.ParticipantID(req.ParticipantID))
	if err != nil {
		WriteError(w, err)
		return
	}
	if participant.CompanyID != companyID {
		WriteError(w, model.ErrParticipantNotFound)
		return
	}
	if participant.HasSpun() {
		WriteError(w, model.ErrAlreadySpun)
		return
	}

	prizes, err := h.storage.GetPrizesForCompany(r.Context(), companyID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if len(prizes) < model.MinPrizesForSpin {
		WriteError(w, model.ErrNotEnoughPrizes)
		return
	}

	prizeName := func(snapshot model.SpinSnapshot) string {
		if snapshot.Phase == model.SpinPhaseSettled &&
			snapshot.WinnerIndex >= 0 && snapshot.WinnerIndex < len(prizes) {
			return prizes[snapshot.WinnerIndex].Name
		}
		return ""
	}

	commit := func(ctx context.Context, winnerIndex int) error {
		return h.guard.Commit(ctx, companyID, participant.ID, prizes[winnerIndex].Name)
	}
	observer := func(snapshot model.SpinSnapshot) {
		if h.broadcaster != nil {
			h.broadcaster.BroadcastSpinUpdate(companyID, snapshot, prizeName(snapshot))
		}
	}

	session, started, err := h.spinManager.Start(companyID, len(prizes), commit, observer)
	if err != nil {
		WriteError(w, err)
		return
	}

	if started {
		// One verification authorizes one draw
		if _, err := h.registrationService.ConsumeToken(token.Token); err != nil {
			h.logger.Warn("spin token vanished mid-spin",
				slog.String("company_id", string(companyID)))
		}
	}

	snapshot := session.Snapshot()
	status := http.StatusAccepted
	if !started {
		status = http.StatusOK
	}
	response.JSON(w, status, response.SpinStateFromSnapshot(snapshot, prizeName(snapshot)))
}

// GetSpin handles GET /api/v1/companies/{company_id}/spin
func (h *WheelHandler) GetSpin(w http.ResponseWriter, r *http.Request) {
	companyID := model.CompanyID(mux.Vars(r)["company_id"])

	session, ok := h.spinManager.Get(companyID)
	if !ok {
		response.JSON(w, http.StatusOK, response.SpinState{
			Phase:       string(model.SpinPhaseIdle),
			WinnerIndex: -1,
		})
		return
	}

	snapshot := session.Snapshot()
	prizeName := ""
	if snapshot.Phase == model.SpinPhaseSettled && snapshot.WinnerIndex >= 0 {
		prizes, err := h.storage.GetPrizesForCompany(r.Context(), companyID)
		if err == nil && snapshot.WinnerIndex < len(prizes) {
			prizeName = prizes[snapshot.WinnerIndex].Name
		}
	}
	response.JSON(w, http.StatusOK, response.SpinStateFromSnapshot(snapshot, prizeName))
}

// Events handles GET /api/v1/companies/{company_id}/events
// Streams wheel state changes over SSE.
func (h *WheelHandler) Events(w http.ResponseWriter, r *http.Request) {
	companyID := model.CompanyID(mux.Vars(r)["company_id"])

	if _, err := h.storage.GetCompany(r.Context(), companyID); err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(sse.ChannelForCompany(companyID))
	sse.ServeSSE(w, r, hub)
}

// Participants handles GET /api/v1/companies/{company_id}/participants
func (h *WheelHandler) Participants(w http.ResponseWriter, r *http.Request) {
	companyID := model.CompanyID(mux.Vars(r)["company_id"])

	if _, err := h.storage.GetCompany(r.Context(), companyID); err != nil {
		WriteError(w, err)
		return
	}

	participants, err := h.storage.GetParticipantsForCompany(r.Context(), companyID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ParticipantsFromModel(participants))
}

// ExportHistory handles GET /api/v1/companies/{company_id}/participants/export
// Returns the participation history as a CSV download.
func (h *WheelHandler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	companyID := model.CompanyID(mux.Vars(r)["company_id"])

	company, err := h.storage.GetCompany(r.Context(), companyID)
	if err != nil {
		WriteError(w, err)
		return
	}

	participants, err := h.storage.GetParticipantsForCompany(r.Context(), companyID)
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.HistoryFilename(company.Name)+`"`)
	if err := export.WriteHistory(w, participants); err != nil {
		h.logger.Error("csv export failed",
			slog.String("company_id", string(companyID)),
			slog.Any("error", err))
	}
}
