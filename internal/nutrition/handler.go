package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fitlog-app/backend/internal/telemetry/metrics"
	"github.com/fitlog-app/backend/internal/telemetry/tracing"
	"github.com/fitlog-app/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=nutrition_mocks_test.go -package=nutrition_test

type foodApi interface {
	SearchFoods(ctx context.Context, query string, page int) (*SearchResult, error)
	GetFood(ctx context.Context, foodID string) (*FoodDetails, error)
}

type Handler struct {
	api     foodApi
	metrics *metrics.Manager
}

func NewHandler(api foodApi, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		api:     api,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/nutrition/search", handler.HandleSearch).Methods("GET", "OPTIONS").Name("nutrition-search")
	router.HandleFunc("/nutrition/food/{id}", handler.HandleGetFood).Methods("GET", "OPTIONS").Name("nutrition-food")
}

func (handler *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.search")
	defer span.End()

	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "error, query empty", http.StatusBadRequest)
		return
	}

	page := 0
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		var err error
		page, err = strconv.Atoi(pageStr)
		if err != nil || page < 0 {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}
	}

	result, err := handler.api.SearchFoods(ctx, query, page)
	if err != nil {
		var apiErr *ApiError
		if errors.As(err, &apiErr) {
			log.Warnf("food search [%s]: %s", query, apiErr)
			http.Error(w, "food search failed", http.StatusBadGateway)
			return
		}
		log.Errorf("food search [%s]: %s", query, err)
		http.Error(w, "food search failed", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterNutritionLookups.Inc()

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal food search result: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resultJson)
}

func (handler *Handler) HandleGetFood(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.getFood")
	defer span.End()

	foodID := mux.Vars(r)["id"]
	if foodID == "" {
		http.Error(w, "error, food id empty", http.StatusBadRequest)
		return
	}

	details, err := handler.api.GetFood(ctx, foodID)
	if err != nil {
		var apiErr *ApiError
		if errors.As(err, &apiErr) {
			log.Warnf("get food [%s]: %s", foodID, apiErr)
			http.Error(w, "food lookup failed", http.StatusBadGateway)
			return
		}
		log.Errorf("get food [%s]: %s", foodID, err)
		http.Error(w, "food lookup failed", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterNutritionLookups.Inc()

	detailsJson, err := json.Marshal(details)
	if err != nil {
		log.Errorf("failed to marshal food details: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, detailsJson)
}
