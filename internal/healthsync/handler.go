package healthsync

import (
	"encoding/json"
	"net/http"

	"github.com/fitlog-app/backend/internal/telemetry/tracing"
	"github.com/fitlog-app/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/healthsync/{device}/run", handler.HandleRun).Methods("POST", "OPTIONS").Name("healthsync-run")
	router.HandleFunc("/healthsync/{device}/status", handler.HandleStatus).Methods("GET", "OPTIONS").Name("healthsync-status")
}

func (handler *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.healthsync.run")
	defer span.End()

	deviceID := mux.Vars(r)["device"]
	if deviceID == "" {
		http.Error(w, "error, device id empty", http.StatusBadRequest)
		return
	}

	result, err := handler.service.Run(ctx, deviceID)
	if err != nil {
		log.Errorf("healthsync run for device %s: %s", deviceID, err)
		http.Error(w, "health sync failed", http.StatusInternalServerError)
		return
	}

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal healthsync result: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resultJson)
}

func (handler *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.healthsync.status")
	defer span.End()

	deviceID := mux.Vars(r)["device"]
	if deviceID == "" {
		http.Error(w, "error, device id empty", http.StatusBadRequest)
		return
	}

	status, err := handler.service.GetStatus(ctx, deviceID)
	if err != nil {
		log.Errorf("healthsync status for device %s: %s", deviceID, err)
		http.Error(w, "failed to get sync status", http.StatusInternalServerError)
		return
	}

	statusJson, err := json.Marshal(status)
	if err != nil {
		log.Errorf("failed to marshal healthsync status: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, statusJson)
}
