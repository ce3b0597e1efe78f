package strongcsv

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fitlog-app/backend/pkg"

	"github.com/fitlog-app/backend/internal/telemetry/tracing"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	importer *Importer
}

func NewHandler(importer *Importer) *Handler {
	return &Handler{importer: importer}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/workouts/import", handler.HandleImport).Methods("POST", "OPTIONS").Name("import-workouts")
}

func (handler *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.strongcsv.import")
	defer span.End()

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "text/csv") {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	report, err := handler.importer.Import(ctx, r.Body)
	if err != nil {
		log.Errorf("csv import failed: %s", err)
		http.Error(w, "import failed", http.StatusBadRequest)
		return
	}

	reportJson, err := json.Marshal(report)
	if err != nil {
		log.Errorf("failed to marshal import report: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, reportJson)
}
