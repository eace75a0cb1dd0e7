package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/DanielSedell02/AI-spr-kapp/internal/api/handlers"
	"github.com/DanielSedell02/AI-spr-kapp/internal/api/middlewares"
	"github.com/DanielSedell02/AI-spr-kapp/internal/config"
	"github.com/DanielSedell02/AI-spr-kapp/internal/core/auth"
	"github.com/DanielSedell02/AI-spr-kapp/internal/logger"
	"github.com/DanielSedell02/AI-spr-kapp/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, log *logger.Logger, tokens *auth.TokenManager, users *services.UserService, conversations *services.ConversationService, practice *services.PracticeService) *Server {
	authHandler := handlers.NewAuthHandler(users)
	conversationHandler := handlers.NewConversationHandler(conversations)
	practiceHandler := handlers.NewPracticeHandler(practice)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Serve the page routes from the web directory, gated by the session
	// cookie outside the public pages.
	fileServer := http.FileServer(http.Dir(cfg.WebDir))
	r.With(middlewares.PageGate(tokens)).Handle("/*", fileServer)

	// API routes
	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Post("/auth/signup", authHandler.Signup)
		api.Post("/auth/signin", authHandler.Signin)

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(middlewares.Authenticator(tokens))
			protected.Post("/conversations", conversationHandler.Exchange)
			protected.Get("/conversations", conversationHandler.List)
			protected.Post("/practice/pronunciation", practiceHandler.Pronunciation)
			protected.Post("/practice/grammar", practiceHandler.Grammar)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv, log: log}
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
