package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/expoprize/prizewheel-go/internal/api/request"
	"github.com/expoprize/prizewheel-go/internal/api/response"
	"github.com/expoprize/prizewheel-go/internal/dependencies/clock"
	"github.com/expoprize/prizewheel-go/internal/dependencies/random"
	"github.com/expoprize/prizewheel-go/internal/model"
	"github.com/expoprize/prizewheel-go/internal/services/registration"
	"github.com/expoprize/prizewheel-go/internal/storage"
)

// CompanyHandler handles company and collaborator endpoints
type CompanyHandler struct {
	storage             storage.Storage
	registrationService *registration.Service
	clock               clock.Clock
	random              random.Random
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(store storage.Storage, registrationService *registration.Service, clk clock.Clock, rnd random.Random) *CompanyHandler {
	return &CompanyHandler{
		storage:             store,
		registrationService: registrationService,
		clock:               clk,
		random:              rnd,
	}
}

// Create handles POST /api/v1/companies
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	now := h.clock.Now()
	company := &model.Company{
		ID:          model.CompanyID("co_" + h.random.String(12, random.IDAlphabet)),
		EventID:     model.EventID(req.EventID),
		Name:        req.Name,
		LogoURL:     req.LogoURL,
		WheelColors: req.WheelColors,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.storage.SaveCompany(r.Context(), company); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CompanyFromModel(company))
}

// Get handles GET /api/v1/companies/{company_id}
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID := model.CompanyID(mux.Vars(r)["company_id"])

	company, err := h.storage.GetCompany(r.Context(), companyID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CompanyFromModel(company))
}

// CreateCollaborator handles POST /api/v1/companies/{company_id}/collaborators
func (h *CompanyHandler) CreateCollaborator(w http.ResponseWriter, r *http.Request) {
	companyID := model.CompanyID(mux.Vars(r)["company_id"])

	var req request.CreateCollaboratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Code == "" {
		WriteError(w, NewInvalidRequestError("code is required"))
		return
	}

	if _, err := h.storage.GetCompany(r.Context(), companyID); err != nil {
		WriteError(w, err)
		return
	}

	collaborator, err := h.registrationService.CreateCollaborator(r.Context(), companyID, req.Name, req.Code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CollaboratorFromModel(collaborator))
}
