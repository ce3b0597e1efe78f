package settings

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fitlog-app/backend/internal/telemetry/tracing"
	"github.com/fitlog-app/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type settingsRepo interface {
	Get(ctx context.Context, deviceID string) (*Settings, error)
	Save(ctx context.Context, deviceID string, settings Settings) error
	Reset(ctx context.Context, deviceID string) error
}

type Handler struct {
	repo settingsRepo
}

func NewHandler(repo settingsRepo) *Handler {
	return &Handler{repo: repo}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/settings/{device}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-settings")
	router.HandleFunc("/settings/{device}", handler.HandleSave).Methods("PUT", "OPTIONS").Name("save-settings")
	router.HandleFunc("/settings/{device}", handler.HandleReset).Methods("DELETE", "OPTIONS").Name("reset-settings")
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.settings.get")
	defer span.End()

	deviceID := mux.Vars(r)["device"]
	if deviceID == "" {
		http.Error(w, "error, device id empty", http.StatusBadRequest)
		return
	}

	deviceSettings, err := handler.repo.Get(ctx, deviceID)
	if err != nil {
		log.Errorf("failed to get settings for device %s: %s", deviceID, err)
		http.Error(w, "failed to get settings", http.StatusInternalServerError)
		return
	}

	settingsJson, err := json.Marshal(deviceSettings)
	if err != nil {
		log.Errorf("failed to marshal settings: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, settingsJson)
}

func (handler *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.settings.save")
	defer span.End()

	deviceID := mux.Vars(r)["device"]
	if deviceID == "" {
		http.Error(w, "error, device id empty", http.StatusBadRequest)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var deviceSettings Settings
	if err := json.NewDecoder(r.Body).Decode(&deviceSettings); err != nil {
		log.Tracef("save settings, unmarshal json params: %s", err)
		http.Error(w, "save settings failed", http.StatusBadRequest)
		return
	}

	if err := deviceSettings.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Save(ctx, deviceID, deviceSettings); err != nil {
		log.Errorf("failed to save settings for device %s: %s", deviceID, err)
		http.Error(w, "failed to save settings", http.StatusInternalServerError)
		return
	}

	log.Debugf("settings saved for device %s", deviceID)
	pkg.WriteTextResponseOK(w, "saved")
}

func (handler *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.settings.reset")
	defer span.End()

	deviceID := mux.Vars(r)["device"]
	if deviceID == "" {
		http.Error(w, "error, device id empty", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Reset(ctx, deviceID); err != nil {
		log.Errorf("failed to reset settings for device %s: %s", deviceID, err)
		http.Error(w, "failed to reset settings", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "reset")
}
