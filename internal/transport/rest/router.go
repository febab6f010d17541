// Package rest
package rest

import (
	"net/http"
	"time"

	"horizonx-gauge/internal/config"
	"horizonx-gauge/internal/transport/rest/middleware"
	"horizonx-gauge/internal/transport/websocket"
)

type RouterDeps struct {
	WS       *websocket.Handler
	Auth     *AuthHandler
	Instance *InstanceHandler
	Gauge    *GaugeHandler
}

func NewRouter(cfg *config.Config, deps *RouterDeps) http.Handler {
	mux := http.NewServeMux()

	globalMw := middleware.New()
	globalMw.Use(middleware.CORS(cfg))

	userStack := middleware.New()
	userStack.Use(middleware.JWT(cfg))

	// HEALTH
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// WEBSOCKET
	mux.HandleFunc("GET /ws", deps.WS.Serve)

	// AUTH
	mux.HandleFunc("POST /auth/login", deps.Auth.Login)
	mux.Handle("POST /auth/logout", userStack.ThenFunc(deps.Auth.Logout))
	mux.Handle("GET /auth/me", userStack.ThenFunc(deps.Auth.Me))

	// GAUGES
	mux.Handle("GET /gauges", userStack.ThenFunc(deps.Gauge.Index))

	// INSTANCES
	mux.Handle("GET /instances", userStack.ThenFunc(deps.Instance.Index))
	mux.Handle("POST /instances", userStack.ThenFunc(deps.Instance.Store))
	mux.Handle("PUT /instances/{id}", userStack.ThenFunc(deps.Instance.Update))
	mux.Handle("DELETE /instances/{id}", userStack.ThenFunc(deps.Instance.Destroy))

	// INSTANCE CPU GAUGE
	mux.Handle("GET /instances/{id}/cpu-gauge", userStack.ThenFunc(deps.Gauge.Show))
	mux.Handle("POST /instances/{id}/cpu-gauge/refresh", userStack.ThenFunc(deps.Gauge.Refresh))

	return globalMw.Then(mux)
}

func NewServer(handler http.Handler, addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
