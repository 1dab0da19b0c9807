package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"scorecast/ml"
	"scorecast/monitoring"
)

// API serves the prediction endpoints for one Predictor. Results are memoized
// by encoded feature vector since the pipeline is deterministic.
type API struct {
	predictor *ml.Predictor
	cache     *lru.Cache[string, *ml.Result]
	metrics   *monitoring.PredictionMetrics
	logger    *zap.Logger
}

// NewAPI builds the handlers. A cacheSize of zero disables memoization.
func NewAPI(predictor *ml.Predictor, cacheSize int, logger *zap.Logger) (*API, error) {
	if predictor == nil {
		return nil, errors.New("api: predictor is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &API{predictor: predictor, metrics: monitoring.NewPredictionMetrics(), logger: logger}
	if cacheSize > 0 {
		cache, err := lru.New[string, *ml.Result](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("api: create cache: %w", err)
		}
		a.cache = cache
	}
	return a, nil
}

// Register mounts the JSON endpoints under /api.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/schema", handleSchema)
	mux.HandleFunc("GET /api/models", a.handleModels)
	mux.HandleFunc("POST /api/predict", a.handlePredict)
	mux.HandleFunc("GET /api/metrics", a.handleMetrics)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleSchema(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"attributes": ml.Vocabulary(),
		"defaults":   ml.DefaultInput(),
	})
}

func (a *API) handleModels(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"models": ml.RankModels(a.predictor.Bundle().R2Scores),
	})
}

func (a *API) handleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, a.metrics.Snapshot())
}

func (a *API) handlePredict(w http.ResponseWriter, r *http.Request) {
	var input ml.StudentInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, hit, err := a.predict(r.Context(), input)
	if err != nil {
		a.logger.Debug("prediction rejected",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err),
		)
		writeError(w, statusFor(err), err.Error())
		return
	}
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	respondJSON(w, http.StatusOK, res)
}

// predict encodes input and runs the pipeline, consulting the cache first.
func (a *API) predict(ctx context.Context, input ml.StudentInput) (*ml.Result, bool, error) {
	start := time.Now()
	vector, err := a.predictor.Encode(input)
	if err != nil {
		a.metrics.RecordRequest(monitoring.OutcomeRejected, time.Since(start))
		return nil, false, err
	}
	key := cacheKey(vector)
	if a.cache != nil {
		if res, ok := a.cache.Get(key); ok {
			a.metrics.RecordRequest(monitoring.OutcomeCacheHit, time.Since(start))
			return res, true, nil
		}
	}
	res, err := a.predictor.PredictVector(ctx, vector)
	if err != nil {
		a.metrics.RecordRequest(monitoring.OutcomeFailed, time.Since(start))
		return nil, false, err
	}
	a.metrics.RecordRequest(monitoring.OutcomeOK, time.Since(start))
	a.metrics.RecordResult(res)
	if a.cache != nil {
		a.cache.Add(key, res)
	}
	return res, false, nil
}

func cacheKey(vector []float64) string {
	var b strings.Builder
	for i, v := range vector {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}

// statusFor maps a pipeline error to a response code: caller input problems
// are 400, an ensemble with no surviving model is 422, the rest are 500.
func statusFor(err error) int {
	switch {
	case ml.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, ml.ErrEmptyPredictionSet):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
