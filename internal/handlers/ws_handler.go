package handlers

import (
	"net/http"

	"hashquest/internal/hub"
)

// WSHandler upgrades clients onto the updates channel
type WSHandler struct {
	hub        *hub.Hub
	middleware *Middleware
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(h *hub.Hub, middleware *Middleware) *WSHandler {
	return &WSHandler{hub: h, middleware: middleware}
}

// Subscribe handles GET /ws
func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	hub.ServeWS(h.hub, w, r, h.middleware.CheckOrigin)
}
