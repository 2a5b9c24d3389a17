package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"uno-server/internal/protocol"
	"uno-server/internal/session"
)

type Config struct {
	Port            int
	OriginPatterns  []string
	RateLimitMax    int
	RateLimitWindow time.Duration
	IdleTimeout     time.Duration
	SweepInterval   time.Duration
}

func LoadConfig() Config {
	cfg := Config{
		Port:            8080,
		OriginPatterns:  []string{"*"},
		RateLimitMax:    20,
		RateLimitWindow: time.Second,
		IdleTimeout:     30 * time.Minute,
		SweepInterval:   time.Minute,
	}

	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil && port > 0 {
		cfg.Port = port
	}
	if patterns := os.Getenv("ORIGIN_PATTERNS"); patterns != "" {
		cfg.OriginPatterns = strings.Split(patterns, ",")
	}
	if max, err := strconv.Atoi(os.Getenv("RATE_LIMIT_MAX")); err == nil && max > 0 {
		cfg.RateLimitMax = max
	}
	if window, err := time.ParseDuration(os.Getenv("RATE_LIMIT_WINDOW")); err == nil && window > 0 {
		cfg.RateLimitWindow = window
	}
	if idle, err := time.ParseDuration(os.Getenv("IDLE_TIMEOUT")); err == nil && idle > 0 {
		cfg.IdleTimeout = idle
	}
	return cfg
}

// Server hosts the single shared game session and the per-connection
// dispatchers that feed it.
type Server struct {
	cfg     Config
	session *session.Session
	clients *ClientManager
	limiter *RateLimiter
	health  *ConnectionHealth
	stop    chan struct{}
}

// NewServer builds the game server and the http.Server that fronts it.
func NewServer() (*Server, *http.Server) {
	s := newServer(LoadConfig())

	go s.sweepTask()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s, httpServer
}

func newServer(cfg Config) *Server {
	return &Server{
		cfg:     cfg,
		session: session.New(),
		clients: NewClientManager(),
		limiter: NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow),
		health:  NewConnectionHealth(),
		stop:    make(chan struct{}),
	}
}

// sweepTask periodically closes connections that have been silent for
// longer than the idle timeout. Their read loops then unwind and clean up
// the session entry.
func (s *Server) sweepTask() {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			for _, id := range s.health.InactiveConnections(s.cfg.IdleTimeout) {
				if client := s.clients.Get(id); client != nil {
					log.Printf("closing idle connection %s", id)
					client.close()
				}
			}
		}
	}
}

// Shutdown tells every connected client the server is going away and
// closes their connections.
func (s *Server) Shutdown(ctx context.Context) error {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}

	for _, client := range s.clients.All() {
		client.Enqueue(protocol.ServerNotice("Server is shutting down"))
	}

	// Give the write pumps a moment to flush the notice.
	select {
	case <-time.After(250 * time.Millisecond):
	case <-ctx.Done():
	}

	for _, client := range s.clients.All() {
		client.close()
	}
	return ctx.Err()
}
