package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/expoprize/prizewheel-go/internal/api/handler"
	"github.com/expoprize/prizewheel-go/internal/api/middleware"
	"github.com/expoprize/prizewheel-go/internal/dependencies/clock"
	"github.com/expoprize/prizewheel-go/internal/dependencies/random"
	"github.com/expoprize/prizewheel-go/internal/services/guard"
	"github.com/expoprize/prizewheel-go/internal/services/raffle"
	"github.com/expoprize/prizewheel-go/internal/services/registration"
	"github.com/expoprize/prizewheel-go/internal/services/spin"
	"github.com/expoprize/prizewheel-go/internal/sse"
	"github.com/expoprize/prizewheel-go/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger              *slog.Logger
	Storage             storage.Storage
	RegistrationService *registration.Service
	Guard               *guard.Guard
	SpinManager         *spin.Manager
	RaffleService       *raffle.Service
	HubManager          *sse.HubManager
	Clock               clock.Clock
	Random              random.Random
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	companyHandler := handler.NewCompanyHandler(cfg.Storage, cfg.RegistrationService, cfg.Clock, cfg.Random)
	wheelHandler := handler.NewWheelHandler(cfg.Storage, cfg.RegistrationService, cfg.Guard, cfg.SpinManager, cfg.HubManager, cfg.Logger)
	prizeHandler := handler.NewPrizeHandler(cfg.Storage, cfg.Clock, cfg.Random, cfg.HubManager, cfg.Logger)
	raffleHandler := handler.NewRaffleHandler(cfg.Storage, cfg.RaffleService, cfg.Clock, cfg.Random, cfg.HubManager, cfg.Logger)

	// Create middleware
	spinAuthMiddleware := middleware.SpinAuth(cfg.RegistrationService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Company routes
	api.HandleFunc("/companies", companyHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/companies/{company_id}", companyHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/companies/{company_id}/collaborators", companyHandler.CreateCollaborator).Methods(http.MethodPost)

	// Wheel routes: registration and code verification are open, the
	// spin itself needs a token from verify-code
	api.HandleFunc("/companies/{company_id}/participants", wheelHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/companies/{company_id}/participants", wheelHandler.Participants).Methods(http.MethodGet)
	api.HandleFunc("/companies/{company_id}/participants/export", wheelHandler.ExportHistory).Methods(http.MethodGet)
	api.HandleFunc("/companies/{company_id}/verify-code", wheelHandler.VerifyCode).Methods(http.MethodPost)
	api.HandleFunc("/companies/{company_id}/spin", wheelHandler.GetSpin).Methods(http.MethodGet)
	api.HandleFunc("/companies/{company_id}/events", wheelHandler.Events).Methods(http.MethodGet)

	spinProtected := api.PathPrefix("/companies/{company_id}/spin").Subrouter()
	spinProtected.Use(spinAuthMiddleware)
	spinProtected.HandleFunc("", wheelHandler.Spin).Methods(http.MethodPost)

	// Prize routes
	api.HandleFunc("/companies/{company_id}/prizes", prizeHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/companies/{company_id}/prizes", prizeHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/companies/{company_id}/prizes/{prize_id}", prizeHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/companies/{company_id}/prizes/{prize_id}", prizeHandler.Delete).Methods(http.MethodDelete)

	// Raffle routes
	api.HandleFunc("/raffles", raffleHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/raffles/eligible", raffleHandler.Eligible).Methods(http.MethodGet)
	api.HandleFunc("/raffles/draw", raffleHandler.StartDraw).Methods(http.MethodPost)
	api.HandleFunc("/raffles/draw/{draw_id}", raffleHandler.GetDraw).Methods(http.MethodGet)
	api.HandleFunc("/raffles/draw/{draw_id}", raffleHandler.CancelDraw).Methods(http.MethodDelete)
	api.HandleFunc("/raffles/draw/{draw_id}/events", raffleHandler.DrawEvents).Methods(http.MethodGet)
	api.HandleFunc("/raffles/{raffle_id}/participants", raffleHandler.Enter).Methods(http.MethodPost)
	api.HandleFunc("/raffles/{raffle_id}/winners", raffleHandler.Winners).Methods(http.MethodGet)
	api.HandleFunc("/events/{event_id}/raffles", raffleHandler.ListForEvent).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
