package websocket

import (
	"fmt"
	"net/http"
	"slices"

	"horizonx-gauge/internal/config"
	"horizonx-gauge/internal/domain"
	"horizonx-gauge/internal/logger"
	"horizonx-gauge/internal/transport/rest/middleware"

	"github.com/gorilla/websocket"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      logger.Logger
	secret   string
}

func NewHandler(hub *Hub, cfg *config.Config, log logger.Logger) *Handler {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}

			allowed := slices.Contains(cfg.AllowedOrigins, origin)
			if !allowed {
				log.Warn("ws auth: origin rejected", "origin", origin)
			}
			return allowed
		},
	}

	return &Handler{
		hub:      hub,
		upgrader: upgrader,
		log:      log,
		secret:   cfg.JWTSecret,
	}
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	var clientID string

	if token := middleware.TokenFromRequest(r); token != "" {
		claims, err := domain.ValidateToken(token, h.secret)
		if err == nil {
			if sub, ok := claims["sub"]; ok && sub != nil {
				clientID = fmt.Sprintf("%v", sub)
			}
		}
	}

	if clientID == "" {
		h.log.Warn("ws auth: invalid credentials")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("ws auth: upgrade failed", "error", err)
		return
	}

	c := NewClient(h.hub, conn, h.log, clientID)
	if !h.hub.join(c) {
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}
