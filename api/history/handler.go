// Package history exposes the plan history over HTTP.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/evroute/core/plans"
	"github.com/kilianp07/evroute/infra/logger"
)

// NewHistoryHandler returns an HTTP handler serving GET /api/plans.
// Requests must include an Authorization header with "Bearer <token>" when
// token is non-empty. Supported query parameters: start, end (RFC3339),
// run_id, scenario, status, station and limit.
func NewHistoryHandler(store plans.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		q, err := parseQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []plans.PlanRecord{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func parseQuery(r *http.Request) (plans.PlanQuery, error) {
	v := r.URL.Query()
	q := plans.PlanQuery{
		RunID:     v.Get("run_id"),
		Scenario:  v.Get("scenario"),
		Status:    v.Get("status"),
		StationID: v.Get("station"),
	}
	var err error
	if s := v.Get("start"); s != "" {
		if q.Start, err = time.Parse(time.RFC3339, s); err != nil {
			return q, errors.New("start must be RFC3339")
		}
	}
	if s := v.Get("end"); s != "" {
		if q.End, err = time.Parse(time.RFC3339, s); err != nil {
			return q, errors.New("end must be RFC3339")
		}
	}
	if s := v.Get("limit"); s != "" {
		if q.Limit, err = strconv.Atoi(s); err != nil || q.Limit < 0 {
			return q, errors.New("limit must be a non-negative integer")
		}
	}
	return q, nil
}

// Serve runs the history API on addr until ctx is canceled.
func Serve(ctx context.Context, addr string, store plans.Store, token string) error {
	log := logger.New("api")
	mux := http.NewServeMux()
	mux.Handle("/api/plans", NewHistoryHandler(store, token))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("api shutdown: %v", err)
		}
	}()
	log.Infof("serving plan history on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
