// Package websocket pushes live scrape job progress to connected clients.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/fortuna/gridiron/internal/backfill"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server represents the WebSocket server
type Server struct {
	port   string
	server *http.Server
	hub    *Hub
}

// NewServer creates a new WebSocket server and subscribes it to the scrape
// job service.
func NewServer(jobs *backfill.Service) *Server {
	hub := NewHub()
	s := &Server{hub: hub}

	if jobs != nil {
		jobs.SetBroadcast(func(u backfill.StatusUpdate) {
			payload, err := json.Marshal(u)
			if err != nil {
				log.Printf("[ws] marshal update: %v", err)
				return
			}
			hub.Broadcast(payload)
		})
	}

	return s
}

// Start starts the WebSocket server
func (s *Server) Start(port string) error {
	s.port = port

	go s.hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/jobs", s.handleJobs)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	log.Printf("[ws] WebSocket server listening on :%s", port)
	return s.server.ListenAndServe()
}

// handleJobs handles WebSocket connections for scrape job updates
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// Broadcast sends a message to all connected clients.
func (s *Server) Broadcast(data []byte) {
	s.hub.Broadcast(data)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
