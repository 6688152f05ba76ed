package websocket

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/fortuna/augur/internal/publisher"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development (TODO: restrict in production)
	},
}

// Server pushes prediction events to WebSocket subscribers. Events arrive
// on the Redis prediction stream and fan out through the hub.
type Server struct {
	port   string
	server *http.Server
	hub    *Hub
	redis  *redis.Client
}

// NewServer creates a new WebSocket server relaying from the given Redis
// client's prediction stream.
func NewServer(redisClient *redis.Client) *Server {
	return &Server{
		hub:   NewHub(),
		redis: redisClient,
	}
}

// Start starts the WebSocket server and the stream relay.
func (s *Server) Start(ctx context.Context, port string) error {
	s.port = port

	go s.hub.Run()
	go s.relayStream(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/predictions", s.handlePredictions)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	log.Printf("WebSocket server listening on :%s", port)
	return s.server.ListenAndServe()
}

// handlePredictions handles WebSocket connections for prediction updates
func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
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

// BroadcastPrediction sends a prediction payload to all connected clients.
func (s *Server) BroadcastPrediction(data []byte) {
	s.hub.Broadcast(data)
}

// relayStream tails the Redis prediction stream and broadcasts each event.
// New connections only see events published after they subscribe.
func (s *Server) relayStream(ctx context.Context) {
	if s.redis == nil {
		return
	}

	lastID := "$"
	for {
		if ctx.Err() != nil {
			return
		}

		streams, err := s.redis.XRead(ctx, &redis.XReadArgs{
			Streams: []string{publisher.PredictionStream, lastID},
			Block:   5 * time.Second,
			Count:   10,
		}).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			log.Printf("[ws] stream read error: %v", err)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				if data, ok := msg.Values["data"].(string); ok {
					s.hub.Broadcast([]byte(data))
				}
			}
		}
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
