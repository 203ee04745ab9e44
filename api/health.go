package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type indexResponse struct {
	Message string `json:"message"`
}

func (a *API) index(w http.ResponseWriter, _ *http.Request) {
	a.Response(w, http.StatusOK, indexResponse{Message: "Welcome to Schedulink"})
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.db.PingContext(ctx); err != nil {
		a.logger.Warn("health check failed", zap.Error(err))
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
