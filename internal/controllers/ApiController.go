package controllers

import (
	"ecotrack/internal/models"
	"ecotrack/internal/providers"
	"ecotrack/internal/services"
	"errors"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// ApiController serves the popup UI.
type ApiController struct {
	logger  providers.Logger
	service services.TrackerServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.TrackerServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

type actionRequest struct {
	CO2Saved float64 `json:"co2Saved"`
}

type dismissRequest struct {
	ID string `json:"id"`
}

type tipsResponse struct {
	Tips  []models.TipView `json:"tips"`
	Count int              `json:"count"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	return json.NewDecoder(r.Body).Decode(v)
}

// serveFromCacheOrCompute caches by key; keys embed the record version so
// a committed change is never served stale.
func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() any) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	gson, err := json.Marshal(compute())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) versionKey(prefix string) string {
	return prefix + ":" + strconv.FormatUint(ac.service.Version(), 10)
}

func (ac *ApiController) GetEstimate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.service.GetCurrentEstimate())
}

func (ac *ApiController) GetWeekly(w http.ResponseWriter, r *http.Request) {
	key := ac.versionKey("weekly") + ":" + ac.service.Today()
	ac.serveFromCacheOrCompute(w, key, func() any {
		return ac.service.GetWeeklySummary()
	})
}

func (ac *ApiController) GetTips(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, ac.versionKey("tips"), func() any {
		views := ac.service.ListEligibleTips()
		return tipsResponse{Tips: views, Count: len(views)}
	})
}

func (ac *ApiController) GetBadge(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.service.Badge())
}

func (ac *ApiController) TakeAction(w http.ResponseWriter, r *http.Request) {
	var payload actionRequest
	if err := decodeBody(w, r, &payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, ac.service.TakeAction(payload.CO2Saved))
}

func (ac *ApiController) DismissTip(w http.ResponseWriter, r *http.Request) {
	var payload dismissRequest
	if err := decodeBody(w, r, &payload); err != nil || payload.ID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	err := ac.service.DismissTip(payload.ID)
	switch {
	case errors.Is(err, services.ErrUnknownTip):
		http.Error(w, "Not Found", http.StatusNotFound)
	case err != nil:
		ac.logger.Warnf(providers.TypePost, "Dismiss %s failed: %s", payload.ID, err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
