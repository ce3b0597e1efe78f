package diary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fitlog-app/backend/internal/telemetry/metrics"
	"github.com/fitlog-app/backend/internal/telemetry/tracing"
	"github.com/fitlog-app/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=diary_mocks_test.go -package=diary_test

const dayLayout = "2006-01-02"

type diaryRepo interface {
	AddEntry(ctx context.Context, entry Entry) (*Entry, error)
	UpdateEntry(ctx context.Context, entry *Entry) error
	DeleteEntry(ctx context.Context, id int) error
	GetDay(ctx context.Context, day time.Time) (*Day, error)
	ListTotals(ctx context.Context, from, to time.Time) ([]DayTotals, error)
	Recompute(ctx context.Context, day time.Time) (*DayTotals, error)
}

type DeleteEntryResponse struct {
	DeletedID int `json:"deletedId"`
}

type UpdateEntryResponse struct {
	UpdatedID int `json:"updatedId"`
}

type Handler struct {
	repo    diaryRepo
	metrics *metrics.Manager
}

func NewHandler(repo diaryRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/diary", handler.HandleAddEntry).Methods("POST", "OPTIONS").Name("new-diary-entry")
	router.HandleFunc("/diary", handler.HandleUpdateEntry).Methods("PUT", "OPTIONS").Name("update-diary-entry")
	router.HandleFunc("/diary/{id}", handler.HandleDeleteEntry).Methods("DELETE", "OPTIONS").Name("delete-diary-entry")
	router.HandleFunc("/diary/day/{day}", handler.HandleGetDay).Methods("GET", "OPTIONS").Name("get-diary-day")
	router.HandleFunc("/diary/day/{day}/recompute", handler.HandleRecompute).Methods("POST", "OPTIONS").Name("recompute-diary-day")
	router.HandleFunc("/diary/totals", handler.HandleListTotals).Methods("GET", "OPTIONS").Name("diary-totals")
}

func (handler *Handler) HandleAddEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.newEntry")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var entry Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Tracef("new diary entry, unmarshal json params: %s", err)
		http.Error(w, "add diary entry failed", http.StatusBadRequest)
		return
	}

	if entry.Day.IsZero() {
		entry.Day = time.Now()
	}
	if err := entry.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	addedEntry, err := handler.repo.AddEntry(ctx, entry)
	if err != nil {
		log.Errorf("failed to add diary entry [%s]: %s", entry.FoodName, err)
		http.Error(w, "error, failed to add diary entry", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterDiaryEntries.Inc()

	addedJson, err := json.Marshal(addedEntry)
	if err != nil {
		log.Errorf("failed to marshal diary entry: %s", err)
		http.Error(w, "error, failed to add diary entry", http.StatusInternalServerError)
		return
	}

	log.Debugf("new diary entry added: [%d] %s", addedEntry.ID, addedEntry.FoodName)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.updateEntry")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var entry Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Errorf("update diary entry, unmarshal json params: %s", err)
		http.Error(w, "update diary entry failed", http.StatusBadRequest)
		return
	}

	if err := entry.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.UpdateEntry(ctx, &entry); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "diary entry not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update diary entry [%d]: %s", entry.ID, err)
		http.Error(w, "error, failed to update diary entry", http.StatusInternalServerError)
		return
	}

	updateRespJson, err := json.Marshal(UpdateEntryResponse{
		UpdatedID: entry.ID,
	})
	if err != nil {
		log.Errorf("failed to marshal update response: %s", err)
		http.Error(w, "failed to marshal update response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(updateRespJson))
}

func (handler *Handler) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.deleteEntry")
	defer span.End()

	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.DeleteEntry(ctx, id); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "diary entry not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete diary entry %d: %s", id, err)
		http.Error(w, "diary entry not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteEntryResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func (handler *Handler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.getDay")
	defer span.End()

	day, err := dayFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	diaryDay, err := handler.repo.GetDay(ctx, day)
	if err != nil {
		log.Errorf("failed to get diary day %s: %s", day.Format(dayLayout), err)
		http.Error(w, "failed to get diary day", http.StatusInternalServerError)
		return
	}

	dayJson, err := json.Marshal(diaryDay)
	if err != nil {
		log.Errorf("failed to marshal diary day: %s", err)
		http.Error(w, "failed to marshal diary day", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, dayJson)
}

func (handler *Handler) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.recompute")
	defer span.End()

	day, err := dayFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	totals, err := handler.repo.Recompute(ctx, day)
	if err != nil {
		log.Errorf("failed to recompute diary day %s: %s", day.Format(dayLayout), err)
		http.Error(w, "failed to recompute diary day", http.StatusInternalServerError)
		return
	}

	totalsJson, err := json.Marshal(totals)
	if err != nil {
		log.Errorf("failed to marshal diary totals: %s", err)
		http.Error(w, "failed to marshal diary totals", http.StatusInternalServerError)
		return
	}

	log.Debugf("diary day %s recomputed", day.Format(dayLayout))
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, totalsJson)
}

func (handler *Handler) HandleListTotals(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.listTotals")
	defer span.End()

	from, err := time.Parse(dayLayout, r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "failed to parse <from> param", http.StatusBadRequest)
		return
	}
	to, err := time.Parse(dayLayout, r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "failed to parse <to> param", http.StatusBadRequest)
		return
	}
	if to.Before(from) {
		http.Error(w, "error, <to> before <from>", http.StatusBadRequest)
		return
	}

	totals, err := handler.repo.ListTotals(ctx, from, to)
	if err != nil {
		log.Errorf("failed to list diary totals: %s", err)
		http.Error(w, "failed to list diary totals", http.StatusInternalServerError)
		return
	}

	totalsJson, err := json.Marshal(totals)
	if err != nil {
		log.Errorf("failed to marshal diary totals: %s", err)
		http.Error(w, "failed to marshal diary totals", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, totalsJson)
}

func dayFromRequest(r *http.Request) (time.Time, error) {
	dayStr := mux.Vars(r)["day"]
	if dayStr == "" {
		return time.Time{}, errors.New("error, day empty")
	}
	day, err := time.Parse(dayLayout, dayStr)
	if err != nil {
		return time.Time{}, errors.New("failed to parse <day> param")
	}
	return day, nil
}
