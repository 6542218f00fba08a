package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/enhance"
	"github.com/jonathan/resume-builder/internal/formatting"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/render"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler

	resumes   ResumeStore
	converter ResumeConverter
	enhancer  Enhancer
	renderer  render.Renderer

	allowedOrigins string
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(context.Background()); err != nil {
		database.Close()
		return nil, err
	}

	llmConfig := llm.ConfigForProvider(llm.Provider(cfg.Provider), cfg.APIKey)
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(cfg.Model)
	}
	if cfg.LLMBaseURL != "" {
		llmConfig = llmConfig.WithBaseURL(cfg.LLMBaseURL)
	}
	client, err := llm.NewClient(llmConfig)
	if err != nil {
		database.Close()
		return nil, err
	}

	s := &Server{
		db:             database,
		resumes:        database,
		converter:      formatting.NewConverter(client),
		enhancer:       enhance.NewService(client),
		renderer:       render.NewChromeRenderer(cfg.ChromePath),
		allowedOrigins: cfg.AllowedOrigins,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // conversions wait on the LLM provider
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes wires the public and authenticated endpoints.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)

	authed := http.NewServeMux()
	authed.HandleFunc("PUT /auth/password", s.handleUpdatePassword)

	authed.HandleFunc("GET /resumes", s.handleListResumes)
	authed.HandleFunc("POST /resumes", s.handleCreateResume)
	authed.HandleFunc("GET /resumes/{id}", s.handleGetResume)
	authed.HandleFunc("PUT /resumes/{id}", s.handleUpdateResume)
	authed.HandleFunc("DELETE /resumes/{id}", s.handleDeleteResume)
	authed.HandleFunc("GET /resumes/{id}/export.pdf", s.handleExportResume)

	authed.HandleFunc("POST /conversions", s.handleConversion)

	authed.HandleFunc("POST /ai/format-resume", s.handleFormatResume)
	authed.HandleFunc("POST /ai/summary", s.handleGenerateSummary)
	authed.HandleFunc("POST /ai/enhance-experience", s.handleEnhanceExperience)
	authed.HandleFunc("POST /ai/polish", s.handlePolishResume)
	authed.HandleFunc("POST /ai/suggest-skills", s.handleSuggestSkills)
	authed.HandleFunc("GET /ai/ats-recommendations", s.handleATSRecommendations)

	requireAuth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	mux.Handle("/", requireAuth(authed))

	return mux
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	origin := s.allowedOrigins
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpdatePassword resolves the authenticated user before
// delegating to the auth handler.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	s.authHandler.UpdatePassword(w, r, userID)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// Uses the IP from RemoteAddr; X-Forwarded-For would only be safe
// behind a trusted proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate_limit_exceeded",
		"message":     "Too many requests, slow down",
		"retry_after": int(time.Until(info.ResetTime).Seconds()),
	})
}
